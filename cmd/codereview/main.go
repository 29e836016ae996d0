// Command codereview serves the code review API and reviews local files.
//
// Usage:
//
//	codereview serve                          # run the HTTP API and frontend
//	codereview review --type security a.go    # review local files
//	codereview migrate                        # apply database migrations
package main

import (
	"os"

	"github.com/todmy/code-reviewer/internal/cli"
)

func main() {
	os.Exit(cli.Run())
}

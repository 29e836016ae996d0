package api

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/todmy/code-reviewer/internal/review"
	"github.com/todmy/code-reviewer/internal/upload"
	"github.com/todmy/code-reviewer/pkg/models"
)

const (
	formFiles      = "files"
	formReviewType = "review_type"
	formLanguage   = "language"

	// multipart framing on top of the file payload
	formOverhead = 1 << 20
)

// FileInfo describes an uploaded file in the review response
type FileInfo struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Size      int64  `json:"size"`
	SizeLabel string `json:"sizeLabel"`
	Language  string `json:"language"`
}

// ReviewResponse is returned by POST /reviews
type ReviewResponse struct {
	Result  models.ReviewResult  `json:"result"`
	Files   []FileInfo           `json:"files"`
	History []models.HistoryItem `json:"history"`
}

func (s *Server) handleReviewTypes(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, review.Types())
}

func (s *Server) handleReviewStatus(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.reviews.CheckConnection(r.Context()))
}

func (s *Server) handleCreateReview(w http.ResponseWriter, r *http.Request) {
	ns, ok := namespace(w, r)
	if !ok {
		return
	}

	limits := s.reviews.Limits()
	maxBody := limits.MaxFileSize*int64(limits.MaxFiles) + formOverhead

	// Limit upload size
	r.Body = http.MaxBytesReader(w, r.Body, maxBody)

	if err := r.ParseMultipartForm(maxBody); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		respondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	reviewType := strings.TrimSpace(r.FormValue(formReviewType))
	if !review.ValidType(reviewType) {
		respondError(w, http.StatusBadRequest, review.ErrInvalidReviewType.Error())
		return
	}

	files, err := readUploadedFiles(r.MultipartForm.File[formFiles])
	if err != nil {
		respondError(w, http.StatusBadRequest, "failed to read uploaded files")
		return
	}

	result, err := s.reviews.ReviewFiles(r.Context(), reviewType, files, strings.TrimSpace(r.FormValue(formLanguage)))
	if err != nil {
		s.respondReviewError(w, r, err)
		return
	}

	resp := ReviewResponse{
		Result: result,
		Files:  fileInfos(files, limits),
	}

	store, err := s.history.For(r.Context(), ns)
	if err == nil {
		resp.History, err = store.Append(r.Context(), result, files)
	}
	if err != nil {
		// the review itself succeeded; a history failure is not fatal
		s.logger.ErrorContext(r.Context(), "failed to record review history",
			"namespace", ns,
			"error", err,
		)
	}

	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) respondReviewError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, review.ErrInvalidReviewType):
		respondError(w, http.StatusBadRequest, review.ErrInvalidReviewType.Error())
	case errors.Is(err, upload.ErrFileTooLarge):
		respondError(w, http.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, upload.ErrInvalidUpload):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, review.ErrQuotaExceeded):
		respondError(w, http.StatusTooManyRequests, review.ErrQuotaExceeded.Error())
	case errors.Is(err, review.ErrInvalidAPIKey):
		respondError(w, http.StatusBadGateway, review.ErrInvalidAPIKey.Error())
	case errors.Is(err, review.ErrUpstream):
		respondError(w, http.StatusBadGateway, err.Error())
	default:
		s.internalError(w, r, "review failed", err)
	}
}

func readUploadedFiles(headers []*multipart.FileHeader) ([]upload.File, error) {
	files := make([]upload.File, 0, len(headers))
	for _, h := range headers {
		content, err := readPart(h)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", h.Filename, err)
		}
		files = append(files, upload.NewFile(h.Filename, content))
	}
	return files, nil
}

func readPart(h *multipart.FileHeader) ([]byte, error) {
	f, err := h.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return io.ReadAll(f)
}

func fileInfos(files []upload.File, limits upload.Limits) []FileInfo {
	opts := upload.SizeOptions{
		ShowIndicator:        true,
		Limit:                limits.MaxFileSize,
		CompressionThreshold: limits.CompressionThreshold,
	}

	out := make([]FileInfo, len(files))
	for i, f := range files {
		out[i] = FileInfo{
			ID:        f.ID.String(),
			Name:      f.Name,
			Size:      f.Size,
			SizeLabel: upload.FormatFileSize(f.Size, opts),
			Language:  f.Language(),
		}
	}
	return out
}

package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/kpauljoseph/labelsplit/internal/cache"
	"github.com/kpauljoseph/labelsplit/internal/metrics"
	"github.com/kpauljoseph/labelsplit/internal/pdf"
	"github.com/kpauljoseph/labelsplit/pkg/utils"
	"github.com/kpauljoseph/labelsplit/pkg/version"
)

type SplitResponse struct {
	ID               string   `json:"id"`
	Filename         string   `json:"filename"`
	SourcePages      int      `json:"source_pages"`
	OutputPages      int      `json:"output_pages"`
	Previews         []string `json:"previews"`
	PreviewTruncated bool     `json:"preview_truncated"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": version.Version})
}

func (s *Server) handleSplit(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength > s.maxUploadBytes {
		writeError(w, http.StatusRequestEntityTooLarge, "upload too large")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "upload too large")
			return
		}
		writeError(w, http.StatusBadRequest, "missing file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read upload")
		return
	}

	if err := pdf.SniffPDF(data); err != nil {
		metrics.ObserveConversion(metrics.ResultNotPDF, 0, 0)
		writeError(w, http.StatusUnsupportedMediaType, err.Error())
		return
	}

	id := utils.ContentHash(data)
	entry, ok := s.lookup(r.Context(), id)
	if !ok {
		entry, err = s.convert(r, id, header.Filename, data)
		if err != nil {
			status, _ := classify(err)
			writeError(w, status, err.Error())
			return
		}
	}

	previews := make([]string, len(entry.Previews))
	for n := range entry.Previews {
		previews[n] = fmt.Sprintf("/api/split/%s/preview/%d", id, n)
	}

	writeJSON(w, http.StatusOK, SplitResponse{
		ID:               id,
		Filename:         pdf.OutputFileName(header.Filename),
		SourcePages:      entry.SourcePages,
		OutputPages:      entry.OutputPages,
		Previews:         previews,
		PreviewTruncated: entry.PreviewTruncated,
	})
}

// convert runs the conversion and stores the result. A failed cache write
// is logged and does not fail the request.
func (s *Server) convert(r *http.Request, id, filename string, data []byte) (*cache.Entry, error) {
	start := time.Now()
	result, err := s.converter.Convert(r.Context(), data)
	if err != nil {
		_, outcome := classify(err)
		metrics.ObserveConversion(outcome, 0, 0)
		s.logger.Zerolog().Error().Err(err).Str("id", id).Msg("conversion failed")
		return nil, err
	}
	metrics.ObserveConversion(metrics.ResultSuccess, result.SourcePages, time.Since(start))

	entry := &cache.Entry{
		Filename:         filename,
		PDF:              result.PDF,
		SourcePages:      result.SourcePages,
		OutputPages:      result.OutputPages(),
		Previews:         make([][]byte, 0, len(result.Previews)),
		PreviewTruncated: result.PreviewTruncated,
	}
	for _, preview := range result.Previews {
		jpg, err := pdf.EncodeJPEG(preview.Image, pdf.JPEGQuality)
		if err != nil {
			return nil, &pdf.EncodeError{Stage: "preview", Err: err}
		}
		entry.Previews = append(entry.Previews, jpg)
	}

	if err := s.cache.Put(r.Context(), id, entry); err != nil {
		s.logger.Zerolog().Warn().Err(err).Str("id", id).Msg("failed to cache conversion")
	}
	return entry, nil
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	entry, ok := s.lookup(r.Context(), r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown document")
		return
	}

	// An explicit name wins over the one recorded at upload.
	name := r.URL.Query().Get("name")
	if name == "" {
		name = entry.Filename
	}
	name = pdf.OutputFileName(name)
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Header().Set("Content-Length", strconv.Itoa(len(entry.PDF)))
	_, _ = w.Write(entry.PDF)
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.Atoi(r.PathValue("n"))
	if err != nil || n < 0 {
		writeError(w, http.StatusBadRequest, "invalid preview index")
		return
	}

	entry, ok := s.lookup(r.Context(), r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown document")
		return
	}
	if n >= len(entry.Previews) {
		writeError(w, http.StatusNotFound, "no such preview")
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	_, _ = w.Write(entry.Previews[n])
}

func (s *Server) handleInvalidate(w http.ResponseWriter, r *http.Request) {
	if err := s.cache.Invalidate(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

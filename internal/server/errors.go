package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/kpauljoseph/labelsplit/internal/metrics"
	"github.com/kpauljoseph/labelsplit/internal/pdf"
)

// classify maps a conversion error onto an HTTP status and a metrics result.
func classify(err error) (int, string) {
	var (
		decodeErr   *pdf.DecodeError
		geometryErr *pdf.InvalidGeometryError
		encodeErr   *pdf.EncodeError
	)

	switch {
	case errors.Is(err, pdf.ErrNotPDF):
		return http.StatusUnsupportedMediaType, metrics.ResultNotPDF
	case errors.As(err, &geometryErr):
		return http.StatusUnprocessableEntity, metrics.ResultGeometryError
	case errors.As(err, &decodeErr):
		return http.StatusUnprocessableEntity, metrics.ResultDecodeError
	case errors.As(err, &encodeErr):
		return http.StatusInternalServerError, metrics.ResultEncodeError
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, metrics.ResultCanceled
	default:
		return http.StatusInternalServerError, metrics.ResultEncodeError
	}
}

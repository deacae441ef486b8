package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/okian/medalboard/internal/adapters/loader"
	"github.com/okian/medalboard/internal/adapters/render"
	service "github.com/okian/medalboard/internal/app"
	"github.com/okian/medalboard/internal/domain/analytics"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest  = errors.New("bad request")
	ErrUnknownView = errors.New("unknown chart")
	ErrRateLimited = errors.New("chart rendering rate exceeded")
)

// Kind classifies an error into an HTTP status and a stable code.
type Kind struct {
	Status int
	Code   string
}

// Error kinds returned in the code field of error bodies.
var (
	KindBadRequest         = Kind{http.StatusBadRequest, "bad_request"}
	KindNotFound           = Kind{http.StatusNotFound, "not_found"}
	KindDatasetUnavailable = Kind{http.StatusServiceUnavailable, "dataset_unavailable"}
	KindFeatureUnavailable = Kind{http.StatusServiceUnavailable, "feature_unavailable"}
	KindReloadConflict     = Kind{http.StatusConflict, "reload_in_progress"}
	KindRateLimited        = Kind{http.StatusTooManyRequests, "rate_limited"}
	KindUnsupported        = Kind{http.StatusUnsupportedMediaType, "unsupported_chart"}
	KindEmpty              = Kind{http.StatusNotFound, "empty_chart"}
	KindCancelled          = Kind{499, "cancelled"}
	KindInternal           = Kind{http.StatusInternalServerError, "internal"}
)

// kindError carries an explicit Kind through error wrapping.
type kindError struct {
	kind Kind
	err  error
}

func (e *kindError) Error() string { return e.err.Error() }
func (e *kindError) Unwrap() error { return e.err }

// WrapKind attaches kind to err. A nil err stays nil.
func WrapKind(kind Kind, err error) error {
	if err == nil {
		return nil
	}
	return &kindError{kind: kind, err: err}
}

// Wrap tags a client input problem as a bad request.
func Wrap(msg string, err error) error {
	if err == nil {
		return WrapKind(KindBadRequest, errors.New(msg))
	}
	return WrapKind(KindBadRequest, fmt.Errorf("%s: %w", msg, err))
}

// KindOf maps an error to its Kind. Explicit kinds win, then the sentinel
// errors of the service and domain packages.
func KindOf(err error) Kind {
	var ke *kindError
	switch {
	case errors.As(err, &ke):
		return ke.kind
	case errors.Is(err, service.ErrDatasetUnavailable), errors.Is(err, service.ErrNotStarted),
		errors.Is(err, loader.ErrMissingFile), errors.Is(err, loader.ErrMalformed):
		return KindDatasetUnavailable
	case errors.Is(err, service.ErrReloadInProgress):
		return KindReloadConflict
	case errors.Is(err, analytics.ErrNotFound), errors.Is(err, ErrUnknownView):
		return KindNotFound
	case errors.Is(err, analytics.ErrInvalidArgument), errors.Is(err, ErrBadRequest), errors.Is(err, render.ErrFormat):
		return KindBadRequest
	case errors.Is(err, analytics.ErrUnavailable):
		return KindFeatureUnavailable
	case errors.Is(err, render.ErrUnsupported):
		return KindUnsupported
	case errors.Is(err, render.ErrEmpty):
		return KindEmpty
	case errors.Is(err, ErrRateLimited):
		return KindRateLimited
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KindCancelled
	default:
		return KindInternal
	}
}

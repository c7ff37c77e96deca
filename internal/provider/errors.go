package provider

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"kriptomarket/internal/httpx"
)

var (
	// ErrFetchFailed matches every FetchError.
	ErrFetchFailed = errors.New("fetch failed")
	// ErrDetailUnsupported is returned by providers without a detail endpoint.
	ErrDetailUnsupported = errors.New("detail lookup not supported")
	// ErrNotFound is returned when an upstream answers without the asset.
	ErrNotFound = errors.New("asset not found")
)

// FetchError reports a transport error or a non-2xx response from an upstream.
type FetchError struct {
	Provider string
	// StatusCode is 0 for transport errors.
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: fetch failed: http %d: %v", e.Provider, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: fetch failed: %v", e.Provider, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrFetchFailed) hold for any FetchError.
func (e *FetchError) Is(target error) bool { return target == ErrFetchFailed }

// NewFetchError wraps err as a FetchError of the named provider. Context
// cancellation and existing FetchErrors are returned unchanged.
func NewFetchError(name string, err error) error {
	if err == nil {
		return nil
	}
	var fe *FetchError
	if errors.As(err, &fe) {
		return err
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	out := &FetchError{Provider: name, Err: err}
	var se *httpx.StatusError
	if errors.As(err, &se) {
		out.StatusCode = se.Code
	}
	return out
}

// IsNotFound reports whether err means the upstream has no such asset.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || StatusCode(err) == 404
}

// StatusCode extracts the HTTP status of a FetchError, 0 when there is none.
func StatusCode(err error) int {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.StatusCode
	}
	return 0
}

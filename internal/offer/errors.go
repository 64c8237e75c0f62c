package offer

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means the offer API has no offer for this app.
	ErrNotFound = errors.New("no offer configured for app")

	// ErrDecodeFailed means the offer payload was not the expected
	// {"url": "..."} shape.
	ErrDecodeFailed = errors.New("offer payload decode failed")

	// ErrInvalidOfferURL means the expanded template is not a
	// well-formed URL.
	ErrInvalidOfferURL = errors.New("expanded offer url is not valid")
)

// APIStatusError is any non-2xx, non-404 offer API response.
type APIStatusError struct {
	Code int
}

func (e *APIStatusError) Error() string {
	return fmt.Sprintf("offer api returned status %d", e.Code)
}

// FinalStatusError is a non-2xx terminal response at the end of the
// redirect chain.
type FinalStatusError struct {
	Code int
}

func (e *FinalStatusError) Error() string {
	return fmt.Sprintf("final url returned status %d", e.Code)
}

package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/sony/gobreaker/v2"

	"github.com/Wishlist-Squad/Wishlist/pkg/httpclient"
)

// APIError is a failed call to the wishlist service. Message is what the
// service said, or a description of why it could not be reached.
type APIError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("wishlist service: status %d: %s", e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// AsAPIError converts any error returned by Client into an *APIError.
func AsAPIError(err error) *APIError {
	if err == nil {
		return nil
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	var statusErr *httpclient.StatusError
	if errors.As(err, &statusErr) {
		return &APIError{
			StatusCode: statusErr.StatusCode,
			Message:    httpclient.ExtractMessage(statusErr.StatusCode, statusErr.Body),
			Err:        err,
		}
	}

	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return &APIError{StatusCode: http.StatusServiceUnavailable, Message: "wishlist service is temporarily unavailable", Err: err}
	case errors.Is(err, context.DeadlineExceeded):
		return &APIError{StatusCode: http.StatusGatewayTimeout, Message: "wishlist service did not answer in time", Err: err}
	case errors.Is(err, context.Canceled):
		return &APIError{StatusCode: 499, Message: "request cancelled", Err: err}
	default:
		return &APIError{StatusCode: http.StatusBadGateway, Message: "wishlist service is unreachable", Err: err}
	}
}

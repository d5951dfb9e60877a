package ai

import (
	"errors"
	"net/http"

	"google.golang.org/api/googleapi"
)

// ErrorKind is the closed set of generation failure categories. The raw
// error text stays in server logs; clients only ever see a generic message.
type ErrorKind string

const (
	KindUnavailable     ErrorKind = "unavailable"
	KindRateLimited     ErrorKind = "rate_limited"
	KindInvalidRequest  ErrorKind = "invalid_request"
	KindInvalidResponse ErrorKind = "invalid_response"
)

// Classify maps a generation error onto an ErrorKind for logging and
// metrics. Anything that is not an API status error counts as unavailable
// (network failure, timeout, cancelled context).
func Classify(err error) ErrorKind {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return KindUnavailable
	}
	switch {
	case apiErr.Code == http.StatusTooManyRequests:
		return KindRateLimited
	case apiErr.Code >= http.StatusInternalServerError:
		return KindUnavailable
	case apiErr.Code >= http.StatusBadRequest:
		return KindInvalidRequest
	default:
		return KindInvalidResponse
	}
}

package analyzer

import "errors"

// fetchFailedMessage is the only error text callers ever show for a page
// that could not be retrieved.
const fetchFailedMessage = "Could not fetch website content"

// ErrEmptyURL is returned when the URL is blank after trimming.
var ErrEmptyURL = errors.New("url is required")

// FetchError reports a transport failure, a timeout or an HTTP error status
// while retrieving the page. Cause keeps the underlying error for logs.
type FetchError struct {
	URL        string
	StatusCode int
	Cause      error
}

func (e *FetchError) Error() string {
	return fetchFailedMessage
}

func (e *FetchError) Unwrap() error {
	return e.Cause
}

package helpdesk

import "fmt"

// HTTPError is a non-2xx response from the remote API. Message carries the
// API's error body when it sent one, otherwise the status text.
type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("helpdesk api: status %d: %s", e.Status, e.Message)
}

// NetworkError is a transport-level failure (connection refused, DNS, timeout)
// where no HTTP response was received. It is always distinguishable from an
// HTTPError so the UI can label the two differently.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("helpdesk api: network failure: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

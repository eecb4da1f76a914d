package error

import "net/http"

// NotReadyError signals that the WhatsApp transport is not connected and
// the requested operation was refused rather than attempted.
type NotReadyError string

func (err NotReadyError) Error() string {
	return string(err)
}

func (err NotReadyError) ErrCode() string {
	return "NOT_READY_ERROR"
}

func (err NotReadyError) StatusCode() int {
	return http.StatusServiceUnavailable
}

package error

// GenericError is implemented by every application error so the REST
// recovery middleware can map it to an HTTP status and code.
type GenericError interface {
	Error() string
	ErrCode() string
	StatusCode() int
}

package error

import "net/http"

type DuplicateKeywordError string

func (err DuplicateKeywordError) Error() string {
	return string(err)
}

func (err DuplicateKeywordError) ErrCode() string {
	return "DUPLICATE_KEYWORD_ERROR"
}

func (err DuplicateKeywordError) StatusCode() int {
	return http.StatusConflict
}

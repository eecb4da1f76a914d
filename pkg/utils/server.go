package utils

type ResponseData struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Results any    `json:"results,omitempty"`
}

// PanicIfNeeded panics on error so the REST recovery middleware can turn it
// into a structured JSON response.
func PanicIfNeeded(err any) {
	if err != nil {
		panic(err)
	}
}

package response

// StandardApiResponse is the envelope every handler writes. Status is
// "success" or "error"; Data carries the payload, Errors the validation or
// failure details.
type StandardApiResponse struct {
	Status     string      `json:"status"`
	StatusCode int         `json:"status_code"`
	Message    string      `json:"message"`
	Data       interface{} `json:"data,omitempty"`
	Errors     interface{} `json:"errors,omitempty"`
}

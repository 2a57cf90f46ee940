package model

import "encoding/json"

type ChatResponse struct {
	Reply string `json:"reply"`
}

// ErrorBody is the conventional failure payload of the DM service. Detail
// is usually an object with message/error fields, but FastAPI also emits a
// bare string or a list of validation errors.
type ErrorBody struct {
	Detail json.RawMessage `json:"detail"`
}

type ErrorDetail struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

type ValidationDetail struct {
	Msg string `json:"msg"`
}

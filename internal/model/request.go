package model

// ChatRequest is the body of POST {base}/chat. The presentation API reuses
// it for submit intents.
type ChatRequest struct {
	Message string `json:"message"`
}

type ClearRequest struct {
	Clear bool `json:"clear"`
}

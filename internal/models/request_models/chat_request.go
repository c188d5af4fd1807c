package request_models

type ChatRequest struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

package response_models

const (
	ChatStatusWaiting    = "waiting"
	ChatStatusGenerating = "generating"
	ChatStatusSuccess    = "success"
	ChatStatusError      = "error"
)

// ChatReply is what the question flow answers to every message.
type ChatReply struct {
	Response     string `json:"response,omitempty"`
	NextQuestion string `json:"next_question,omitempty"`
	Status       string `json:"status"`
	RedirectURL  string `json:"redirect_url,omitempty"`
	Error        string `json:"error,omitempty"`
}

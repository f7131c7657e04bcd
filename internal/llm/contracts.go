package llm

import "context"

// ChatRequest is one chat-completion round trip. JSONOnly constrains the
// response to a single parseable JSON object.
type ChatRequest struct {
	System      string
	User        string
	Temperature float32
	JSONOnly    bool
}

// Client is the chat-completion backend both pipeline stages depend on.
type Client interface {
	Complete(ctx context.Context, req ChatRequest) (string, error)
}

//go:generate go run go.uber.org/mock/mockgen -source=deps.go -destination=../../mocks/mock_values_deps.go -package=mocks
package values

import "context"

// ChatMessage is one turn of the conversation sent to the model.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Completer produces the assistant's next reply.
type Completer interface {
	Complete(ctx context.Context, messages []ChatMessage) (string, error)
}

// UserValuesStore persists the outcome of a finished questionnaire.
type UserValuesStore interface {
	CompleteValueIdentification(ctx context.Context, userID, values string) error
}

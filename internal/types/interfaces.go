// internal/types/interfaces.go
package types

import "context"

// ThreadStore is the durable transcript the pipeline writes through.
// MessageCount counts only user and agent-result messages, the ones a
// client actually sees.
type ThreadStore interface {
	Create(ctx context.Context) (*Thread, error)
	Get(ctx context.Context, id ThreadID) (*Thread, error)
	List(ctx context.Context) ([]*Thread, error)
	Delete(ctx context.Context, id ThreadID) error

	AppendMessage(ctx context.Context, id ThreadID, role Role, content string) error
	Messages(ctx context.Context, id ThreadID) ([]*Message, error)
	MessageCount(ctx context.Context, id ThreadID) (int, error)
	UpdateMeta(ctx context.Context, id ThreadID, count int, lastMessage string) error
	SetTitle(ctx context.Context, id ThreadID, title string) error

	ResolveChannelThread(ctx context.Context, key ChannelKey) (ThreadID, error)
}

// AutomationStore holds scheduled commands.
type AutomationStore interface {
	ListAutomations(ctx context.Context) ([]*Automation, error)
	PutAutomation(ctx context.Context, a *Automation) error
	DeleteAutomation(ctx context.Context, name string) error
}

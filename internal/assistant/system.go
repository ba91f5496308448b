package assistant

import "context"

// System defines the public contract for assistant operations.
type System interface {
	Handler() *Handler

	Ask(ctx context.Context, q Question) (*Answer, error)
}

package handlers

import "context"

// Pusher delivers best-effort push notifications to a device token.
// pkg/firebase implements it; a nil Pusher disables push entirely.
type Pusher interface {
	Push(ctx context.Context, deviceToken, title, body string) error
}

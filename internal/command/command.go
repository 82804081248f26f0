package command

import "context"

type Client interface {
	// HandleCommand serves Telegram updates until ctx is cancelled.
	HandleCommand(ctx context.Context) error
}

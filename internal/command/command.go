package command

import "context"

type Client interface {
	// HandleCommands polls the bot for updates and dispatches commands
	// until the context is cancelled.
	HandleCommands(ctx context.Context) error
}

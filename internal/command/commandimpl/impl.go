package commandimpl

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/leadscout/linkedin-post-parser/internal/command"
	"github.com/leadscout/linkedin-post-parser/internal/fetcher"
	"github.com/leadscout/linkedin-post-parser/internal/parser"
	"github.com/leadscout/linkedin-post-parser/internal/pipeline"
	"github.com/leadscout/linkedin-post-parser/internal/ratelimit"
	"github.com/leadscout/linkedin-post-parser/internal/storage/jsonstore"
	"github.com/leadscout/linkedin-post-parser/internal/telegram"
	"github.com/leadscout/linkedin-post-parser/pkg/config"
	"github.com/leadscout/linkedin-post-parser/pkg/logger"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	Telegram  telegram.Client
	Pipeline  pipeline.Client
	Fetcher   fetcher.Client
	Parser    parser.Client
	JSONStore *jsonstore.Store
	Logger    logger.Logger
	Config    *config.Config
}

type CommandImpl struct {
	Telegram  telegram.Client
	Pipeline  pipeline.Client
	Fetcher   fetcher.Client
	Parser    parser.Client
	JSONStore *jsonstore.Store
	Logger    logger.Logger
	Config    *config.Config
	Limiter   ratelimit.Limiter
}

func New(opts Opts) *CommandImpl {
	return &CommandImpl{
		Telegram:  opts.Telegram,
		Pipeline:  opts.Pipeline,
		Fetcher:   opts.Fetcher,
		Parser:    opts.Parser,
		JSONStore: opts.JSONStore,
		Logger:    opts.Logger,
		Config:    opts.Config,
		Limiter:   ratelimit.NewInMemoryLimiter(1, 5*time.Second, 3),
	}
}

var _ command.Client = (*CommandImpl)(nil)

func (c *CommandImpl) HandleCommands(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := c.Telegram.GetUpdatesChan(u)
	defer c.Telegram.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil || !update.Message.IsCommand() {
				continue
			}
			c.dispatch(ctx, update)
		}
	}
}

func (c *CommandImpl) dispatch(ctx context.Context, update tgbotapi.Update) {
	chatID := update.Message.Chat.ID

	if !c.Limiter.Allow(chatID) {
		c.Telegram.SendMessage(chatID, "Too many commands, please slow down.")
		return
	}

	switch update.Message.Command() {
	case "run":
		c.handleRun(ctx, update)
	case "parse":
		c.handleParse(ctx, update)
	case "status":
		c.handleStatus(ctx, chatID)
	case "help", "start":
		c.handleHelp(chatID)
	default:
		c.Telegram.SendMessage(chatID, "Unknown command. Try /help.")
	}
}

func (c *CommandImpl) handleHelp(chatID int64) {
	c.Telegram.SendMessage(chatID,
		"Available commands:\n"+
			"/run <keywords> — search LinkedIn posts for keywords and parse them\n"+
			"/parse <post_url> — fetch and parse a single post\n"+
			"/status — show the size of the master collection\n"+
			"/help — this message")
}

package commandimpl

import (
	"context"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/leadscout/linkedin-post-parser/internal/pipeline"
)

const runTimeout = 15 * time.Minute

func (c *CommandImpl) handleRun(ctx context.Context, update tgbotapi.Update) {
	chatID := update.Message.Chat.ID
	keywords := splitKeywords(update.Message.CommandArguments())
	if len(keywords) == 0 {
		c.Telegram.SendMessage(chatID, "Please provide keywords: /run mothers day, childrens day")
		return
	}

	msgID, err := c.Telegram.SendMessage(chatID,
		fmt.Sprintf("Running pipeline for %d keyword(s): %s ...", len(keywords), strings.Join(keywords, ", ")))
	if err != nil {
		c.Logger.Error("Failed to send initial message", "error", err)
		return
	}

	runCtx, cancel := context.WithTimeout(ctx, runTimeout)
	defer cancel()

	summary, err := c.Pipeline.Run(runCtx, pipeline.Options{Keywords: keywords})
	if err != nil {
		c.Logger.Error("Pipeline run from bot failed", "error", err)
		c.Telegram.EditMessageText(chatID, msgID, "Pipeline run failed: "+err.Error())
		return
	}

	c.Telegram.EditMessageText(chatID, msgID, formatSummary(summary))
}

func (c *CommandImpl) handleStatus(ctx context.Context, chatID int64) {
	records, err := c.JSONStore.Load(c.Config.Pipeline.MasterJSON)
	if err != nil {
		c.Logger.Error("Failed to load master collection", "error", err)
		c.Telegram.SendMessage(chatID, "Could not read the master collection.")
		return
	}

	c.Telegram.SendMessage(chatID, fmt.Sprintf(
		"Master collection: %d post(s)\nJSON: %s\nExcel: %s",
		len(records),
		c.Config.Pipeline.MasterJSON,
		c.Config.Pipeline.MasterExcel,
	))
}

func formatSummary(s *pipeline.Summary) string {
	return fmt.Sprintf(
		"Done.\nQueries: %d (failed: %d)\nURLs found: %d\nFetched: %d (failed: %d)\nParsed: %d\nSkipped by filters: %d\nCollection size: %d",
		s.QueriesRun, s.SearchErrors, s.URLsFound, s.Fetched, s.FetchErrors, s.Parsed, s.Skipped, s.CollectionSize,
	)
}

// splitKeywords accepts comma-separated keyword phrases, so multi-word
// keywords survive: "mothers day, childrens day" -> two keywords.
func splitKeywords(args string) []string {
	var keywords []string
	for _, part := range strings.Split(args, ",") {
		if kw := strings.TrimSpace(part); kw != "" {
			keywords = append(keywords, kw)
		}
	}
	return keywords
}

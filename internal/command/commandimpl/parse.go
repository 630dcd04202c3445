package commandimpl

import (
	"context"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/leadscout/linkedin-post-parser/internal/domain"
	"github.com/leadscout/linkedin-post-parser/internal/searcher"
	"github.com/leadscout/linkedin-post-parser/pkg/formatter"
)

const parseTimeout = 3 * time.Minute

func (c *CommandImpl) handleParse(ctx context.Context, update tgbotapi.Update) {
	chatID := update.Message.Chat.ID
	postURL := strings.TrimSpace(update.Message.CommandArguments())

	if postURL == "" {
		c.Telegram.SendMessage(chatID, "Please provide a post URL: /parse <linkedin_post_url>")
		return
	}
	if !searcher.IsLinkedInPostURL(postURL) {
		c.Telegram.SendMessage(chatID, "That does not look like a LinkedIn post URL.")
		return
	}

	msgID, err := c.Telegram.SendMessage(chatID, fmt.Sprintf("Fetching %s ...", postURL))
	if err != nil {
		c.Logger.Error("Failed to send initial message", "error", err)
		return
	}

	fetchCtx, cancel := context.WithTimeout(ctx, parseTimeout)
	defer cancel()

	html, err := c.Fetcher.Fetch(fetchCtx, postURL, c.Config.ScrapingBee.RenderJS)
	if err != nil {
		c.Logger.Error("Fetch from bot failed", "url", postURL, "error", err)
		c.Telegram.EditMessageText(chatID, msgID, "Fetch failed: "+err.Error())
		return
	}

	rec, _ := c.Parser.Parse(html)
	if rec.PostURL == "" {
		rec.PostURL = postURL
	}
	rec.FetchedURL = postURL

	c.Telegram.EditMessageText(chatID, msgID, formatRecord(rec))
}

func formatRecord(rec *domain.PostRecord) string {
	var sb strings.Builder

	sb.WriteString("Parsed post\n")
	sb.WriteString("URL: " + rec.PostURL + "\n")
	if rec.AuthorName != nil {
		sb.WriteString("Author: " + *rec.AuthorName + "\n")
	}
	if rec.Timestamp != nil {
		sb.WriteString("Published: " + *rec.Timestamp + "\n")
	}
	sb.WriteString(countLine("Likes", rec.LikesCount))
	sb.WriteString(countLine("Comments", rec.CommentsCount))
	sb.WriteString(countLine("Shares", rec.SharesCount))
	if rec.Text != "" {
		sb.WriteString("\n" + formatter.Truncate(rec.Text, 500) + "\n")
	}
	if len(rec.ParseErrors) > 0 {
		sb.WriteString("\nMissing fields: " + strings.Join(rec.ParseErrors, ", "))
	}

	return sb.String()
}

func countLine(label string, count *int) string {
	if count == nil {
		return label + ": unknown\n"
	}
	return fmt.Sprintf("%s: %s (%s)\n", label, formatter.FormatNumber(*count), formatter.FormatApprox(*count))
}

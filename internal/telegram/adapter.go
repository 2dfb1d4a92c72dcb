package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/rp-bot/AbletonBuddy/internal/pipeline"
	"github.com/rp-bot/AbletonBuddy/internal/types"
)

const maxTelegramMessage = 4096

// Adapter bridges Telegram chats to the pipeline. Each chat is bound to
// its own thread; an inbound message runs one full turn and the final
// assistant text is sent back.
type Adapter struct {
	bot    *tgbotapi.BotAPI
	orch   *pipeline.Orchestrator
	store  types.ThreadStore
	logger *slog.Logger
}

// New creates a Telegram adapter.
func New(token string, orch *pipeline.Orchestrator, store types.ThreadStore, logger *slog.Logger) (*Adapter, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}
	return &Adapter{
		bot:    bot,
		orch:   orch,
		store:  store,
		logger: logger,
	}, nil
}

// Start begins long-polling for Telegram updates.
func (a *Adapter) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30

	updates := a.bot.GetUpdatesChan(u)

	for {
		select {
		case update := <-updates:
			if update.Message == nil || update.Message.Text == "" {
				continue
			}
			a.handleMessage(ctx, update.Message)
		case <-ctx.Done():
			a.bot.StopReceivingUpdates()
			return
		}
	}
}

func (a *Adapter) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.IsCommand() {
		a.handleCommand(ctx, msg)
		return
	}

	chatID := msg.Chat.ID
	threadID, err := a.store.ResolveChannelThread(ctx, buildChannelKey(chatID))
	if err != nil {
		a.logger.Error("resolve chat thread failed", "chat", chatID, "error", err)
		a.sendResponse(chatID, "Sorry, I encountered an error processing your message.")
		return
	}

	h, err := a.orch.StartTurn(ctx, threadID, msg.Text)
	if errors.Is(err, pipeline.ErrActiveRun) {
		a.sendResponse(chatID, "I'm still working on your previous request, one moment.")
		return
	}
	if err != nil {
		a.logger.Error("start turn failed", "chat", chatID, "error", err)
		a.sendResponse(chatID, "Sorry, I encountered an error processing your message.")
		return
	}
	defer a.orch.Release(h)

	response, err := pipeline.CollectAssistant(ctx, h)
	if err != nil {
		a.logger.Error("turn failed", "chat", chatID, "error", err)
		a.sendResponse(chatID, "Sorry, I encountered an error processing your message.")
		return
	}
	if response != "" {
		a.sendResponse(chatID, response)
	}
}

func (a *Adapter) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	switch msg.Command() {
	case "start":
		a.sendResponse(chatID, "Hello! I'm Ableton Buddy. Tell me what to do in your Live session, e.g. 'set tempo to 120'.")

	case "stop":
		threadID, err := a.store.ResolveChannelThread(ctx, buildChannelKey(chatID))
		if err != nil {
			a.sendResponse(chatID, "Error looking up your conversation.")
			return
		}
		if err := a.orch.CancelTurn(threadID); err != nil {
			a.sendResponse(chatID, "Nothing is running right now.")
			return
		}
		a.sendResponse(chatID, "Stopping.")

	case "status":
		threadID, err := a.store.ResolveChannelThread(ctx, buildChannelKey(chatID))
		if err != nil {
			a.sendResponse(chatID, "Error fetching status.")
			return
		}
		count, err := a.store.MessageCount(ctx, threadID)
		if err != nil {
			a.sendResponse(chatID, "Error fetching status.")
			return
		}
		a.sendResponse(chatID, fmt.Sprintf("Thread: %s\nMessages: %d", threadID, count))

	default:
		a.sendResponse(chatID, "Unknown command. Available: /start, /stop, /status")
	}
}

func (a *Adapter) sendResponse(chatID int64, text string) {
	parts := splitMessage(text)
	for _, part := range parts {
		msg := tgbotapi.NewMessage(chatID, part)
		msg.ParseMode = "Markdown"
		if _, err := a.bot.Send(msg); err != nil {
			// Retry without markdown if it fails
			msg.ParseMode = ""
			if _, err := a.bot.Send(msg); err != nil {
				a.logger.Error("send message failed", "chat", chatID, "error", err)
			}
		}
	}
}

// Deliver sends a message to a channel key of the form "telegram:<chatID>".
// Used by the delivery registry for scheduled automation results.
func (a *Adapter) Deliver(address, message string) error {
	chatID, err := strconv.ParseInt(address, 10, 64)
	if err != nil {
		return fmt.Errorf("parse chat id %q: %w", address, err)
	}
	a.sendResponse(chatID, message)
	return nil
}

func splitMessage(text string) []string {
	if len(text) <= maxTelegramMessage {
		return []string{text}
	}
	var parts []string
	for len(text) > 0 {
		end := maxTelegramMessage
		if end > len(text) {
			end = len(text)
		}
		parts = append(parts, text[:end])
		text = text[end:]
	}
	return parts
}

func buildChannelKey(chatID int64) types.ChannelKey {
	return types.NewChannelKey("telegram", strconv.FormatInt(chatID, 10))
}

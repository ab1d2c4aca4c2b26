// Package telegram implements session.Session on the Telegram Bot API using
// go-telegram/bot. Private chats are addressed as "<chat id>@private", every
// other chat as "<chat id>@group".
package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/villani/menubot/internal/config"
	"github.com/villani/menubot/internal/logger"
	"github.com/villani/menubot/internal/session"
)

const (
	privateMarker = "private"
	groupMarker   = "group"

	// DirectSuffix ends the id of every private chat.
	DirectSuffix = "@" + privateMarker
)

// Client is a Telegram session.
type Client struct {
	log        *slog.Logger
	bot        *bot.Bot
	selfID     int64
	dispatcher *session.Dispatcher
}

var _ session.Session = (*Client)(nil)

// New creates a Telegram session for the configured bot token.
func New(cfg config.SessionConfig, log *slog.Logger) (*Client, error) {
	if log == nil {
		log = logger.Discard()
	}
	c := &Client{log: log.With("component", "telegram")}

	b, err := NewTelegramBot(cfg.TelegramToken, c.log,
		bot.WithSkipGetMe(),
		bot.WithMiddlewares(logger.Middleware(c.log)),
		bot.WithDefaultHandler(c.handleUpdate),
	)
	if err != nil {
		return nil, err
	}
	c.bot = b
	return c, nil
}

func (c *Client) DirectSuffixes() []string {
	return []string{DirectSuffix}
}

// Start polls for updates until ctx is cancelled.
func (c *Client) Start(ctx context.Context, handler session.HandlerFunc) error {
	c.dispatcher = session.NewDispatcher(handler, c.log)

	me, err := c.bot.GetMe(ctx)
	if err != nil {
		return fmt.Errorf("failed to get telegram bot info: %w", err)
	}
	c.selfID = me.ID
	c.log.Info("Telegram session connected", "bot_id", me.ID, "bot_username", me.Username)

	c.bot.Start(ctx)
	return nil
}

func (c *Client) handleUpdate(ctx context.Context, _ *bot.Bot, update *models.Update) {
	if c.dispatcher == nil {
		return
	}
	msg, ok := toMessage(update, c.selfID)
	if !ok {
		return
	}
	c.dispatcher.Dispatch(ctx, msg)
}

// toMessage converts an update carrying a text or captioned message.
func toMessage(update *models.Update, selfID int64) (session.Message, bool) {
	if update == nil || update.Message == nil {
		return session.Message{}, false
	}
	m := update.Message

	body := m.Text
	if body == "" {
		body = m.Caption
	}
	if body == "" {
		return session.Message{}, false
	}

	msg := session.Message{
		ID:        strconv.Itoa(m.ID),
		From:      chatRef(m.Chat),
		Body:      body,
		Timestamp: time.Unix(int64(m.Date), 0).UTC(),
	}
	if m.From != nil {
		msg.FromMe = selfID != 0 && m.From.ID == selfID
		msg.PushName = strings.TrimSpace(m.From.FirstName + " " + m.From.LastName)
	}
	return msg, true
}

func chatRef(chat models.Chat) string {
	marker := groupMarker
	if chat.Type == models.ChatTypePrivate {
		marker = privateMarker
	}
	return strconv.FormatInt(chat.ID, 10) + "@" + marker
}

func parseChatRef(ref string) (int64, error) {
	idPart, _, found := strings.Cut(ref, "@")
	if !found {
		return 0, fmt.Errorf("invalid telegram chat reference %q", ref)
	}
	id, err := strconv.ParseInt(idPart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid telegram chat id in %q: %w", ref, err)
	}
	return id, nil
}

func (c *Client) SendMessage(ctx context.Context, to, text string) error {
	chatID, err := parseChatRef(to)
	if err != nil {
		return err
	}
	if _, err := c.bot.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text}); err != nil {
		return fmt.Errorf("failed to send message to %s: %w", to, err)
	}
	return nil
}

func (c *Client) SendTyping(ctx context.Context, to string) error {
	chatID, err := parseChatRef(to)
	if err != nil {
		return err
	}
	if _, err := c.bot.SendChatAction(ctx, &bot.SendChatActionParams{ChatID: chatID, Action: models.ChatActionTyping}); err != nil {
		return fmt.Errorf("failed to send typing to %s: %w", to, err)
	}
	return nil
}

// ContactName asks Telegram for the private chat's first and last name.
func (c *Client) ContactName(ctx context.Context, from string) (string, error) {
	chatID, err := parseChatRef(from)
	if err != nil {
		return "", err
	}
	chat, err := c.bot.GetChat(ctx, &bot.GetChatParams{ChatID: chatID})
	if err != nil {
		return "", fmt.Errorf("failed to look up chat %s: %w", from, err)
	}
	return strings.TrimSpace(chat.FirstName + " " + chat.LastName), nil
}

// Close waits for in-flight handlers. Polling stops with the Start context.
func (c *Client) Close() error {
	if c.dispatcher != nil {
		c.dispatcher.Wait()
	}
	return nil
}

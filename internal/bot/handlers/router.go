// Package handlers contains the inbound message router: filtering, persistence
// and the fixed greeting/menu reply tree.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/villani/menubot/internal/config"
	"github.com/villani/menubot/internal/database"
	apperrors "github.com/villani/menubot/internal/errors"
	"github.com/villani/menubot/internal/logger"
	"github.com/villani/menubot/internal/session"
)

// Router classifies inbound messages, stores them and emits at most one reply.
// It holds no per-conversation state, so concurrent Handle calls are safe.
type Router struct {
	log            *slog.Logger
	store          database.Store
	session        session.Session
	menu           *Menu
	greeting       string
	menuListing    string
	fallbackName   string
	directSuffixes []string
	replyDelay     time.Duration
	typingDelay    time.Duration
	sleep          func(ctx context.Context, d time.Duration) error
}

// NewRouter builds a Router from its dependencies.
func NewRouter(deps HandlerDeps) (*Router, error) {
	if deps.Config == nil {
		return nil, errors.New("router requires a config")
	}
	if deps.Store == nil {
		return nil, errors.New("router requires a store")
	}
	if deps.Session == nil {
		return nil, errors.New("router requires a session")
	}
	suffixes := slices.DeleteFunc(slices.Clone(deps.Session.DirectSuffixes()), func(s string) bool { return s == "" })
	if len(suffixes) == 0 {
		return nil, errors.New("session has no direct-contact suffix")
	}

	menu, err := NewMenu(deps.Config.Messages.Options)
	if err != nil {
		return nil, fmt.Errorf("invalid menu configuration: %w", err)
	}

	log := deps.Logger
	if log == nil {
		log = logger.Discard()
	}

	return &Router{
		log:            log.With("component", "router"),
		store:          deps.Store,
		session:        deps.Session,
		menu:           menu,
		greeting:       deps.Config.Messages.Greeting,
		menuListing:    deps.Config.Messages.Menu,
		fallbackName:   deps.Config.Bot.FallbackName,
		directSuffixes: suffixes,
		replyDelay:     deps.Config.Bot.ReplyDelay,
		typingDelay:    deps.Config.Bot.TypingDelay,
		sleep:          sleepContext,
	}, nil
}

// Handle processes one inbound message. Errors are logged, never returned.
func (r *Router) Handle(ctx context.Context, msg session.Message) {
	if msg.FromMe {
		return
	}
	if !r.isDirect(msg.From) {
		r.log.DebugContext(ctx, "Ignoring message from non-direct conversation", "from", msg.From)
		return
	}

	log := r.log.With("handling_id", uuid.NewString(), "from", msg.From, "message_id", msg.ID)
	log.InfoContext(ctx, "Message received", "text_preview", logger.Truncate(msg.Body, 50))

	r.persist(ctx, log, msg)

	text, kind, ok := r.classify(ctx, log, msg)
	if !ok {
		log.DebugContext(ctx, "No reply for message")
		return
	}

	r.reply(ctx, log, msg.From, text, kind)
}

func (r *Router) isDirect(from string) bool {
	for _, suffix := range r.directSuffixes {
		if strings.HasSuffix(from, suffix) {
			return true
		}
	}
	return false
}

// persist stores the message. A failure never prevents the reply.
func (r *Router) persist(ctx context.Context, log *slog.Logger, msg session.Message) {
	saved, err := r.store.SaveMessage(ctx, msg.From, msg.Body)
	if err != nil {
		if apperrors.Code(err) != apperrors.CodePersistence {
			err = apperrors.NewPersistenceError("failed to save message", err)
		}
		log.ErrorContext(ctx, "Failed to save message", "error", err)
		return
	}
	log.InfoContext(ctx, "Message saved", "stored_id", saved.ID)
}

// classify picks the reply text. The greeting wins over option "1".
func (r *Router) classify(ctx context.Context, log *slog.Logger, msg session.Message) (string, string, bool) {
	if IsGreeting(msg.Body) {
		name := r.contactFirstName(ctx, log, msg)
		return strings.ReplaceAll(r.greeting, config.NamePlaceholder, name) + r.menuListing, "greeting", true
	}

	opt, ok := ParseMenuOption(msg.Body)
	if !ok {
		return "", "", false
	}
	text, ok := r.menu.Reply(opt)
	if !ok {
		return "", "", false
	}
	return text, "option_" + opt.String(), true
}

func (r *Router) contactFirstName(ctx context.Context, log *slog.Logger, msg session.Message) string {
	name := msg.PushName
	if strings.TrimSpace(name) == "" {
		var err error
		name, err = r.session.ContactName(ctx, msg.From)
		if err != nil {
			log.WarnContext(ctx, "Failed to look up contact name, using fallback",
				"error", apperrors.NewTransportError("contact lookup failed", err))
			name = ""
		}
	}
	return FirstName(name, r.fallbackName)
}

// reply runs delay, typing indicator, delay, send. A typing failure is logged
// and the send still happens.
func (r *Router) reply(ctx context.Context, log *slog.Logger, to, text, kind string) {
	if err := r.sleep(ctx, r.replyDelay); err != nil {
		log.WarnContext(ctx, "Reply abandoned before typing indicator", "error", err)
		return
	}

	if err := r.session.SendTyping(ctx, to); err != nil {
		log.ErrorContext(ctx, "Failed to send typing indicator",
			"error", apperrors.NewTransportError("typing indicator failed", err))
	}

	if err := r.sleep(ctx, r.typingDelay); err != nil {
		log.WarnContext(ctx, "Reply abandoned before send", "error", err)
		return
	}

	if err := r.session.SendMessage(ctx, to, text); err != nil {
		log.ErrorContext(ctx, "Failed to send reply", "reply_kind", kind,
			"error", apperrors.NewTransportError("send failed", err))
		return
	}
	log.InfoContext(ctx, "Reply sent", "reply_kind", kind)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

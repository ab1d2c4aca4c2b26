// Package whatsapp implements session.Session on top of whatsmeow. It owns the
// device store, QR pairing and the event loop; inbound text messages are
// converted to session.Message values and dispatched asynchronously.
package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/mdp/qrterminal/v3"
	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/store/sqlstore"
	"go.mau.fi/whatsmeow/types"
	"go.mau.fi/whatsmeow/types/events"
	"google.golang.org/protobuf/proto"

	"github.com/villani/menubot/internal/config"
	"github.com/villani/menubot/internal/logger"
	"github.com/villani/menubot/internal/session"

	_ "github.com/mattn/go-sqlite3" //revive:disable:blank-imports
)

// One-to-one chats are addressed by phone number or by hidden user id (LID).
const (
	DirectSuffix = "@" + types.DefaultUserServer
	LIDSuffix    = "@" + types.HiddenUserServer
)

// Client is a WhatsApp session.
type Client struct {
	log          *slog.Logger
	container    *sqlstore.Container
	wa           *whatsmeow.Client
	qrOut        io.Writer
	qrInTerminal bool
	dispatcher   *session.Dispatcher
}

var _ session.Session = (*Client)(nil)

// New opens the device store and prepares a client for the first stored
// device, or a fresh one that will pair through a QR code.
func New(ctx context.Context, cfg config.SessionConfig, log *slog.Logger) (*Client, error) {
	if log == nil {
		log = logger.Discard()
	}
	log = log.With("component", "whatsapp")

	container, err := sqlstore.New(ctx, "sqlite3", cfg.WhatsAppStore, logger.WhatsApp(log, "database"))
	if err != nil {
		return nil, fmt.Errorf("failed to open whatsapp device store: %w", err)
	}

	device, err := container.GetFirstDevice(ctx)
	if err != nil {
		_ = container.Close()
		return nil, fmt.Errorf("failed to load whatsapp device: %w", err)
	}

	return &Client{
		log:          log,
		container:    container,
		wa:           whatsmeow.NewClient(device, logger.WhatsApp(log, "client")),
		qrOut:        os.Stdout,
		qrInTerminal: cfg.QRInTerminal,
	}, nil
}

func (c *Client) DirectSuffixes() []string {
	return []string{DirectSuffix, LIDSuffix}
}

// Start connects and blocks until ctx is cancelled. An unpaired device
// prints QR codes until the operator scans one.
func (c *Client) Start(ctx context.Context, handler session.HandlerFunc) error {
	c.dispatcher = session.NewDispatcher(handler, c.log)
	c.wa.AddEventHandler(func(evt any) {
		c.handleEvent(ctx, evt)
	})

	if c.wa.Store.ID == nil {
		qrChan, err := c.wa.GetQRChannel(ctx)
		if err != nil {
			return fmt.Errorf("failed to get whatsapp QR channel: %w", err)
		}
		if err := c.wa.Connect(); err != nil {
			return fmt.Errorf("failed to connect to whatsapp: %w", err)
		}
		go c.renderPairing(qrChan)
	} else if err := c.wa.Connect(); err != nil {
		return fmt.Errorf("failed to connect to whatsapp: %w", err)
	}

	<-ctx.Done()
	return nil
}

func (c *Client) renderPairing(qrChan <-chan whatsmeow.QRChannelItem) {
	for item := range qrChan {
		switch item.Event {
		case whatsmeow.QRChannelEventCode:
			c.log.Info("Scan the QR code to pair the WhatsApp session")
			if c.qrInTerminal {
				qrterminal.GenerateHalfBlock(item.Code, qrterminal.L, c.qrOut)
			} else {
				c.log.Info("Pairing code", "qr", item.Code)
			}
		case whatsmeow.QRChannelEventError:
			c.log.Error("WhatsApp pairing failed", "error", item.Error)
		default:
			c.log.Info("WhatsApp pairing event", "event", item.Event)
		}
	}
}

func (c *Client) handleEvent(ctx context.Context, evt any) {
	switch v := evt.(type) {
	case *events.Message:
		msg, ok := toMessage(v)
		if !ok {
			return
		}
		c.dispatcher.Dispatch(ctx, msg)
	case *events.Connected:
		c.log.Info("WhatsApp connected")
	case *events.Disconnected:
		c.log.Warn("WhatsApp disconnected")
	case *events.LoggedOut:
		c.log.Error("WhatsApp session logged out, pairing required", "reason", v.Reason)
	}
}

// toMessage converts a whatsmeow message event. Events without a text body
// (reactions, receipts, protocol messages) are skipped.
func toMessage(evt *events.Message) (session.Message, bool) {
	if evt == nil || evt.Message == nil {
		return session.Message{}, false
	}
	body, ok := messageText(evt.Message)
	if !ok {
		return session.Message{}, false
	}
	return session.Message{
		ID:        evt.Info.ID,
		From:      evt.Info.Chat.ToNonAD().String(),
		Body:      body,
		FromMe:    evt.Info.IsFromMe,
		PushName:  evt.Info.PushName,
		Timestamp: evt.Info.Timestamp,
	}, true
}

func messageText(m *waE2E.Message) (string, bool) {
	switch {
	case m.Conversation != nil:
		return m.GetConversation(), true
	case m.ExtendedTextMessage != nil:
		return m.GetExtendedTextMessage().GetText(), true
	case m.ImageMessage != nil:
		return m.GetImageMessage().GetCaption(), true
	case m.VideoMessage != nil:
		return m.GetVideoMessage().GetCaption(), true
	case m.DocumentMessage != nil:
		return m.GetDocumentMessage().GetCaption(), true
	default:
		return "", false
	}
}

func (c *Client) SendMessage(ctx context.Context, to, text string) error {
	jid, err := parseJID(to)
	if err != nil {
		return err
	}
	if _, err := c.wa.SendMessage(ctx, jid, &waE2E.Message{Conversation: proto.String(text)}); err != nil {
		return fmt.Errorf("failed to send message to %s: %w", to, err)
	}
	return nil
}

func (c *Client) SendTyping(ctx context.Context, to string) error {
	jid, err := parseJID(to)
	if err != nil {
		return err
	}
	if err := c.wa.SendChatPresence(ctx, jid, types.ChatPresenceComposing, types.ChatPresenceMediaText); err != nil {
		return fmt.Errorf("failed to send typing to %s: %w", to, err)
	}
	return nil
}

// ContactName prefers the contact's push name, then the address book name.
func (c *Client) ContactName(ctx context.Context, from string) (string, error) {
	jid, err := parseJID(from)
	if err != nil {
		return "", err
	}
	info, err := c.wa.Store.Contacts.GetContact(ctx, jid)
	if err != nil {
		return "", fmt.Errorf("failed to look up contact %s: %w", from, err)
	}
	if !info.Found {
		return "", nil
	}
	for _, name := range []string{info.PushName, info.FullName, info.FirstName, info.BusinessName} {
		if strings.TrimSpace(name) != "" {
			return name, nil
		}
	}
	return "", nil
}

// Close disconnects, waits for in-flight handlers and closes the device store.
func (c *Client) Close() error {
	c.wa.Disconnect()
	if c.dispatcher != nil {
		c.dispatcher.Wait()
	}
	return c.container.Close()
}

func parseJID(s string) (types.JID, error) {
	jid, err := types.ParseJID(s)
	if err != nil {
		return types.JID{}, fmt.Errorf("invalid whatsapp id %q: %w", s, err)
	}
	if jid.IsEmpty() {
		return types.JID{}, errors.New("empty whatsapp id")
	}
	return jid, nil
}

package whatsapp

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/types"
	"go.mau.fi/whatsmeow/types/events"
	"google.golang.org/protobuf/proto"
)

func messageEvent(chat types.JID, fromMe bool, msg *waE2E.Message) *events.Message {
	return &events.Message{
		Info: types.MessageInfo{
			MessageSource: types.MessageSource{
				Chat:     chat,
				Sender:   chat,
				IsFromMe: fromMe,
				IsGroup:  chat.Server == types.GroupServer,
			},
			ID:        "3EB0C767D26A1D5F2F8A",
			PushName:  "Maria Clara",
			Timestamp: time.Date(2025, 3, 6, 22, 30, 0, 0, time.UTC),
		},
		Message: msg,
	}
}

func TestToMessageDirectConversation(t *testing.T) {
	t.Parallel()

	chat := types.NewJID("5511999999999", types.DefaultUserServer)
	got, ok := toMessage(messageEvent(chat, false, &waE2E.Message{Conversation: proto.String(" MENU")}))
	require.True(t, ok)

	assert.Equal(t, "5511999999999@s.whatsapp.net", got.From)
	assert.Equal(t, " MENU", got.Body)
	assert.Equal(t, "Maria Clara", got.PushName)
	assert.Equal(t, "3EB0C767D26A1D5F2F8A", got.ID)
	assert.False(t, got.FromMe)
	assert.Contains(t, got.From, DirectSuffix)
}

func TestToMessageHiddenUserChat(t *testing.T) {
	t.Parallel()

	chat := types.NewJID("196732442439837", types.HiddenUserServer)
	got, ok := toMessage(messageEvent(chat, false, &waE2E.Message{Conversation: proto.String("menu")}))
	require.True(t, ok)

	assert.Equal(t, "196732442439837@lid", got.From)
	assert.True(t, strings.HasSuffix(got.From, LIDSuffix))
}

func TestDirectSuffixesCoverUserServers(t *testing.T) {
	t.Parallel()

	c := &Client{}
	assert.ElementsMatch(t, []string{"@s.whatsapp.net", "@lid"}, c.DirectSuffixes())
}

func TestToMessageGroupKeepsGroupID(t *testing.T) {
	t.Parallel()

	chat := types.NewJID("120363025246125888", types.GroupServer)
	got, ok := toMessage(messageEvent(chat, false, &waE2E.Message{Conversation: proto.String("oi")}))
	require.True(t, ok)

	assert.Equal(t, "120363025246125888@g.us", got.From)
	assert.NotContains(t, got.From, DirectSuffix)
}

func TestToMessageBodies(t *testing.T) {
	t.Parallel()

	chat := types.NewJID("5511999999999", types.DefaultUserServer)

	tests := []struct {
		name string
		msg  *waE2E.Message
		want string
		ok   bool
	}{
		{
			name: "extended text",
			msg:  &waE2E.Message{ExtendedTextMessage: &waE2E.ExtendedTextMessage{Text: proto.String("2")}},
			want: "2",
			ok:   true,
		},
		{
			name: "image caption",
			msg:  &waE2E.Message{ImageMessage: &waE2E.ImageMessage{Caption: proto.String("menu")}},
			want: "menu",
			ok:   true,
		},
		{
			name: "image without caption",
			msg:  &waE2E.Message{ImageMessage: &waE2E.ImageMessage{}},
			want: "",
			ok:   true,
		},
		{
			name: "reaction",
			msg:  &waE2E.Message{ReactionMessage: &waE2E.ReactionMessage{Text: proto.String("👍")}},
		},
	}

	for _, tt := range tests {
		got, ok := toMessage(messageEvent(chat, true, tt.msg))
		assert.Equal(t, tt.ok, ok, tt.name)
		if tt.ok {
			assert.Equal(t, tt.want, got.Body, tt.name)
			assert.True(t, got.FromMe, tt.name)
		}
	}

	_, ok := toMessage(&events.Message{})
	assert.False(t, ok)
	_, ok = toMessage(nil)
	assert.False(t, ok)
}

func TestParseJID(t *testing.T) {
	t.Parallel()

	jid, err := parseJID("5511999999999@s.whatsapp.net")
	require.NoError(t, err)
	assert.Equal(t, "5511999999999", jid.User)
	assert.Equal(t, types.DefaultUserServer, jid.Server)

	_, err = parseJID("")
	assert.Error(t, err)
}

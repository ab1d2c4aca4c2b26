package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMenuOption(t *testing.T) {
	t.Parallel()

	tests := []struct {
		body string
		want MenuOption
		ok   bool
	}{
		{body: "1", want: MenuOptionOne, ok: true},
		{body: "2", want: MenuOptionTwo, ok: true},
		{body: " 3 ", want: MenuOptionThree, ok: true},
		{body: "4\n", want: MenuOptionFour, ok: true},
		{body: "5", want: MenuOptionFive, ok: true},
		{body: "0"},
		{body: "6"},
		{body: "12"},
		{body: "2️⃣"},
		{body: "dois"},
		{body: ""},
	}

	for _, tt := range tests {
		got, ok := ParseMenuOption(tt.body)
		assert.Equal(t, tt.ok, ok, "body %q", tt.body)
		assert.Equal(t, tt.want, got, "body %q", tt.body)
	}
}

func TestMenuOptionString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "3", MenuOptionThree.String())
	assert.Equal(t, "none", MenuOptionNone.String())
}

func TestIsGreeting(t *testing.T) {
	t.Parallel()

	for _, body := range []string{"oi", "OI", "Olá", "OLÁ", "ola", " MENU", "Menu\n", "1", "1 "} {
		assert.True(t, IsGreeting(body), "body %q", body)
	}
	for _, body := range []string{"oi!", "olá bot", "menus", "2", "", "hello"} {
		assert.False(t, IsGreeting(body), "body %q", body)
	}
}

func TestFirstName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Maria", FirstName("Maria Clara", "usuário"))
	assert.Equal(t, "Maria", FirstName("  Maria  ", "usuário"))
	assert.Equal(t, "usuário", FirstName("", "usuário"))
	assert.Equal(t, "usuário", FirstName(" \t", "usuário"))
}

func TestNewMenu(t *testing.T) {
	t.Parallel()

	menu, err := NewMenu(map[string]string{"1": "a", "2": "b", "3": "c", "4": "d", "5": "e"})
	require.NoError(t, err)
	text, ok := menu.Reply(MenuOptionFour)
	assert.True(t, ok)
	assert.Equal(t, "d", text)
	_, ok = menu.Reply(MenuOptionNone)
	assert.False(t, ok)

	_, err = NewMenu(map[string]string{"1": "a", "2": "b", "3": "c", "4": "d"})
	assert.Error(t, err)

	_, err = NewMenu(map[string]string{"1": "a", "2": "b", "3": "c", "4": "d", "5": " "})
	assert.Error(t, err)

	_, err = NewMenu(map[string]string{"1": "a", "2": "b", "3": "c", "4": "d", "5": "e", "6": "f"})
	assert.Error(t, err)
}

package handlers

import (
	"fmt"
	"strings"
)

// MenuOption is one of the five numbered menu entries.
type MenuOption int

const (
	MenuOptionNone MenuOption = iota
	MenuOptionOne
	MenuOptionTwo
	MenuOptionThree
	MenuOptionFour
	MenuOptionFive
)

var menuOptionKeys = map[string]MenuOption{
	"1": MenuOptionOne,
	"2": MenuOptionTwo,
	"3": MenuOptionThree,
	"4": MenuOptionFour,
	"5": MenuOptionFive,
}

// greetingTokens trigger the greeting and menu listing. Matched against the
// whole trimmed body, case-insensitively.
var greetingTokens = []string{"oi", "olá", "ola", "menu", "1"}

// ParseMenuOption maps a body to a menu option. Only a body that trims to
// exactly "1".."5" matches; anything else yields MenuOptionNone, false.
func ParseMenuOption(body string) (MenuOption, bool) {
	opt, ok := menuOptionKeys[strings.TrimSpace(body)]
	return opt, ok
}

func (o MenuOption) String() string {
	for key, opt := range menuOptionKeys {
		if opt == o {
			return key
		}
	}
	return "none"
}

// IsGreeting reports whether body asks for the greeting and menu.
func IsGreeting(body string) bool {
	trimmed := strings.TrimSpace(body)
	for _, token := range greetingTokens {
		if strings.EqualFold(trimmed, token) {
			return true
		}
	}
	return false
}

// FirstName returns the first word of a display name, or fallback when the
// name is blank.
func FirstName(displayName, fallback string) string {
	fields := strings.Fields(displayName)
	if len(fields) == 0 {
		return fallback
	}
	return fields[0]
}

// Menu holds the canned replies, fixed for the process lifetime.
type Menu struct {
	replies map[MenuOption]string
}

// NewMenu builds the reply table from configured "1".."5" keys. Every option
// must have a non-empty reply.
func NewMenu(options map[string]string) (*Menu, error) {
	replies := make(map[MenuOption]string, len(menuOptionKeys))
	for key, text := range options {
		opt, ok := menuOptionKeys[key]
		if !ok {
			return nil, fmt.Errorf("unknown menu option key %q", key)
		}
		if strings.TrimSpace(text) == "" {
			return nil, fmt.Errorf("menu option %q has an empty reply", key)
		}
		replies[opt] = text
	}
	for key, opt := range menuOptionKeys {
		if _, ok := replies[opt]; !ok {
			return nil, fmt.Errorf("menu option %q has no reply", key)
		}
	}
	return &Menu{replies: replies}, nil
}

// Reply returns the canned text for opt.
func (m *Menu) Reply(opt MenuOption) (string, bool) {
	text, ok := m.replies[opt]
	return text, ok
}

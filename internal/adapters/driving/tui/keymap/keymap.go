// Package keymap holds the TUI key bindings and the hint set shown for
// each screen mode.
package keymap

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
)

var _ help.KeyMap = (*KeyMap)(nil)

// Mode selects which bindings are worth hinting at.
type Mode int

const (
	ModeIdle Mode = iota
	ModeEditing
	ModeSearching
	ModeResults
)

// KeyMap is the full set of bindings. Finalize and Submit share enter;
// the app decides which applies from whether the target field has focus.
type KeyMap struct {
	Quit key.Binding
	Help key.Binding

	Up   key.Binding
	Down key.Binding

	Finalize key.Binding
	Rerun    key.Binding

	Target key.Binding
	Submit key.Binding
	Cancel key.Binding
}

func bind(helpKey, desc string, keys ...string) key.Binding {
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(helpKey, desc))
}

// DefaultKeyMap returns vim-flavoured defaults.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit:     bind("q", "quit", "q", "ctrl+c"),
		Help:     bind("?", "help", "?"),
		Up:       bind("↑/k", "up", "up", "k"),
		Down:     bind("↓/j", "down", "down", "j"),
		Finalize: bind("enter", "finalize", "enter"),
		Rerun:    bind("r", "search again", "r"),
		Target:   bind("t", "target", "t"),
		Submit:   bind("enter", "search", "enter"),
		Cancel:   bind("esc", "cancel", "esc"),
	}
}

// For returns the bindings hinted in mode m, most useful first.
func (k *KeyMap) For(m Mode) []key.Binding {
	switch m {
	case ModeEditing:
		return []key.Binding{k.Submit, k.Cancel}
	case ModeSearching:
		return []key.Binding{k.Cancel, k.Quit}
	case ModeResults:
		return []key.Binding{k.Finalize, k.Rerun, k.Target, k.Quit}
	default:
		return []key.Binding{k.Target, k.Quit, k.Help}
	}
}

// ShortHelp is the idle hint set.
func (k *KeyMap) ShortHelp() []key.Binding {
	return k.For(ModeIdle)
}

// FullHelp groups every binding into columns: list, search, app.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Finalize},
		{k.Target, k.Rerun, k.Cancel},
		{k.Help, k.Quit},
	}
}

// Hints renders bindings as "key: desc" pairs separated by " | ".
// Disabled bindings are skipped.
func Hints(bindings []key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		if !b.Enabled() {
			continue
		}
		h := b.Help()
		parts = append(parts, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return strings.Join(parts, " | ")
}

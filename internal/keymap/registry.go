package keymap

import (
	"slices"
	"sort"
	"sync"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Contexts.
const (
	ContextSheet    = "sheet"
	ContextPassword = "password"
	ContextGlobal   = "global"
)

// Command represents a registered command handler.
type Command struct {
	ID      string
	Name    string
	Handler func() tea.Cmd
	Context string
}

// Binding maps a key to a command.
type Binding struct {
	Key     string // e.g., "enter", "ctrl+c"
	Command string // Command ID
	Context string // "global", "sheet", "password"
}

// Registry manages key bindings and command dispatch.
type Registry struct {
	commands      map[string]Command   // ID -> Command
	bindings      map[string][]Binding // context -> bindings
	userOverrides map[string]string    // key -> command ID
	mu            sync.RWMutex
}

// NewRegistry creates a new keymap registry.
func NewRegistry() *Registry {
	return &Registry{
		commands:      make(map[string]Command),
		bindings:      make(map[string][]Binding),
		userOverrides: make(map[string]string),
	}
}

// RegisterCommand adds a command to the registry.
func (r *Registry) RegisterCommand(cmd Command) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands[cmd.ID] = cmd
}

// RegisterBinding adds a key binding.
func (r *Registry) RegisterBinding(b Binding) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bindings[b.Context] = append(r.bindings[b.Context], b)
}

// SetUserOverride sets a user-configured key override.
func (r *Registry) SetUserOverride(key, commandID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.userOverrides[key] = commandID
}

// Resolve returns the command ID bound to key in the active context, falling
// back to global bindings. User overrides win over both.
func (r *Registry) Resolve(key tea.KeyMsg, activeContext string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.resolve(KeyString(key), activeContext)
}

func (r *Registry) resolve(key, activeContext string) (string, bool) {
	if id, ok := r.userOverrides[key]; ok {
		if _, ok := r.commands[id]; ok {
			return id, true
		}
	}
	if activeContext != "" && activeContext != ContextGlobal {
		if id, ok := r.findInContext(key, activeContext); ok {
			return id, true
		}
	}
	return r.findInContext(key, ContextGlobal)
}

func (r *Registry) findInContext(key, context string) (string, bool) {
	for _, b := range r.bindings[context] {
		if b.Key == key {
			if _, ok := r.commands[b.Command]; ok {
				return b.Command, true
			}
		}
	}
	return "", false
}

// GetCommand retrieves a command by ID.
func (r *Registry) GetCommand(id string) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cmd, ok := r.commands[id]
	return cmd, ok
}

// Help returns one key.Binding per command bound in context, for the help
// line. Keys bound to the same command are grouped, and user override keys
// for those commands come first.
func (r *Registry) Help(context string) []key.Binding {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var order []string
	keys := make(map[string][]string)
	for _, b := range r.bindings[context] {
		if _, seen := keys[b.Command]; !seen {
			order = append(order, b.Command)
		}
		keys[b.Command] = append(keys[b.Command], b.Key)
	}

	overrides := make([]string, 0, len(r.userOverrides))
	for k, id := range r.userOverrides {
		if _, ok := r.commands[id]; ok {
			overrides = append(overrides, k)
		}
	}
	sort.Strings(overrides)
	for _, k := range overrides {
		for id, ks := range keys {
			keys[id] = slices.DeleteFunc(ks, func(s string) bool { return s == k })
		}
	}
	for i := len(overrides) - 1; i >= 0; i-- {
		k := overrides[i]
		id := r.userOverrides[k]
		if ks, ok := keys[id]; ok {
			keys[id] = append([]string{k}, ks...)
		}
	}

	out := make([]key.Binding, 0, len(order))
	for _, id := range order {
		if len(keys[id]) == 0 {
			continue
		}
		name := id
		if cmd, ok := r.commands[id]; ok && cmd.Name != "" {
			name = cmd.Name
		}
		ks := keys[id]
		out = append(out, key.NewBinding(key.WithKeys(ks...), key.WithHelp(ks[0], name)))
	}
	return out
}

// KeyString converts a tea.KeyMsg to its binding string.
func KeyString(k tea.KeyMsg) string {
	switch k.Type {
	case tea.KeyCtrlC:
		return "ctrl+c"
	case tea.KeyTab:
		return "tab"
	case tea.KeyShiftTab:
		return "shift+tab"
	case tea.KeyEnter:
		return "enter"
	case tea.KeyEsc:
		return "esc"
	case tea.KeySpace:
		return "space"
	case tea.KeyBackspace:
		return "backspace"
	case tea.KeyDelete:
		return "delete"
	case tea.KeyUp:
		return "up"
	case tea.KeyDown:
		return "down"
	case tea.KeyLeft:
		return "left"
	case tea.KeyRight:
		return "right"
	case tea.KeyHome:
		return "home"
	case tea.KeyEnd:
		return "end"
	case tea.KeyPgUp:
		return "pgup"
	case tea.KeyPgDown:
		return "pgdown"
	case tea.KeyRunes:
		if k.Alt {
			return "alt+" + string(k.Runes)
		}
		return string(k.Runes)
	default:
		return k.String()
	}
}

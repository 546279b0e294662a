package keymap

// Command IDs understood by the sheet host.
const (
	CmdConfirm   = "confirm"
	CmdCancel    = "cancel"
	CmdClose     = "close"
	CmdNext      = "next"
	CmdPrev      = "prev"
	CmdToggle    = "toggle"
	CmdBackspace = "backspace"
	CmdQuit      = "quit"
)

var commandNames = map[string]string{
	CmdConfirm:   "confirm",
	CmdCancel:    "cancel",
	CmdClose:     "close",
	CmdNext:      "down",
	CmdPrev:      "up",
	CmdToggle:    "select",
	CmdBackspace: "delete",
	CmdQuit:      "quit",
}

// DefaultBindings returns the built-in key bindings.
func DefaultBindings() []Binding {
	return []Binding{
		{Key: "ctrl+c", Command: CmdQuit, Context: ContextGlobal},

		{Key: "up", Command: CmdPrev, Context: ContextSheet},
		{Key: "k", Command: CmdPrev, Context: ContextSheet},
		{Key: "down", Command: CmdNext, Context: ContextSheet},
		{Key: "j", Command: CmdNext, Context: ContextSheet},
		{Key: "space", Command: CmdToggle, Context: ContextSheet},
		{Key: "enter", Command: CmdConfirm, Context: ContextSheet},
		{Key: "esc", Command: CmdCancel, Context: ContextSheet},
		{Key: "q", Command: CmdClose, Context: ContextSheet},

		{Key: "up", Command: CmdPrev, Context: ContextPassword},
		{Key: "down", Command: CmdNext, Context: ContextPassword},
		{Key: "space", Command: CmdToggle, Context: ContextPassword},
		{Key: "backspace", Command: CmdBackspace, Context: ContextPassword},
		{Key: "esc", Command: CmdCancel, Context: ContextPassword},
	}
}

// RegisterDefaults registers the built-in commands without handlers and binds
// the default keys. Hosts dispatch on the ID returned by Resolve.
func RegisterDefaults(r *Registry) {
	for id, name := range commandNames {
		r.RegisterCommand(Command{ID: id, Name: name})
	}
	for _, b := range DefaultBindings() {
		r.RegisterBinding(b)
	}
}

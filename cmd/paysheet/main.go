package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/wilbur182/paysheet/internal/app"
	"github.com/wilbur182/paysheet/internal/config"
	"github.com/wilbur182/paysheet/internal/keymap"
	"github.com/wilbur182/paysheet/internal/session"
	"github.com/wilbur182/paysheet/internal/version"
	"github.com/wilbur182/paysheet/pkg/paysheet"
)

// Version is set at build time via ldflags
var Version = ""

var (
	configPath  = flag.String("config", "", "path to a JSON config file (watched for changes)")
	fixturePath = flag.String("fixture", "", "path to a YAML file with the amount and options")
	amountFlag  = flag.String("amount", "", "amount to charge (overrides the fixture)")
	debugFlag   = flag.Bool("debug", false, "enable debug logging")
	versionFlag = flag.Bool("version", false, "print version and exit")
	noCopy      = flag.Bool("no-copy", false, "do not copy the confirm result to the clipboard")
)

func main() {
	flag.Parse()

	if *versionFlag {
		fmt.Printf("paysheet version %s\n", version.Effective(Version))
		os.Exit(0)
	}

	interactive := term.IsTerminal(int(os.Stdout.Fd()))

	// The sheet owns the screen, so interactive runs only log to a file.
	var logOut io.Writer = os.Stderr
	if interactive {
		logOut = io.Discard
		if *debugFlag {
			if f, err := tea.LogToFile("paysheet-debug.log", "paysheet"); err == nil {
				defer f.Close()
				logOut = f
			}
		}
	}
	logLevel := slog.LevelInfo
	if *debugFlag {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{
		Level: logLevel,
	}))

	file, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	fx, err := loadFixture(*fixturePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load fixture: %v\n", err)
		os.Exit(1)
	}
	amount := fx.Amount
	if *amountFlag != "" {
		amount = *amountFlag
	}

	if !interactive {
		if err := printSummary(os.Stdout, logger, file.Patch, fx, amount); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	opts := []app.Option{
		app.WithLogger(logger),
		app.WithKeymap(newKeymap(file.Keymap)),
		app.WithTransitions(),
		app.CloseOnConfirm(),
		app.QuitOnClose(),
	}
	if *configPath != "" {
		stop := make(chan struct{})
		defer close(stop)
		patches, err := config.Watch(*configPath, stop, logger)
		if err != nil {
			logger.Warn("config watch failed", "path", *configPath, "err", err)
		} else {
			opts = append(opts, app.WithConfigUpdates(patches))
		}
	}

	model := app.New(opts...)
	ctrl := model.Controller()
	ctrl.Settings().SetConfig(file.Patch)
	if err := applyFixture(ctrl, fx); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid fixture: %v\n", err)
		os.Exit(1)
	}
	if _, err := model.Open(amount); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid amount: %v\n", err)
		os.Exit(1)
	}

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseAllMotion())
	final, err := p.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running application: %v\n", err)
		os.Exit(1)
	}

	out := final.(app.Model).Outcome()
	if !out.Confirmed || out.Result == nil {
		fmt.Println("cancelled")
		return
	}
	data, err := json.MarshalIndent(out.Result, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding result: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(data))
	if !*noCopy {
		if err := clipboard.WriteAll(string(data)); err != nil {
			logger.Debug("clipboard unavailable", "err", err)
		}
	}
}

func loadConfig(path string) (config.File, error) {
	if path == "" {
		return config.File{}, nil
	}
	return config.Load(path)
}

// newKeymap builds the default bindings and applies the user's overrides.
func newKeymap(overrides map[string]string) *keymap.Registry {
	km := keymap.NewRegistry()
	keymap.RegisterDefaults(km)
	for key, cmdID := range overrides {
		km.SetUserOverride(key, cmdID)
	}
	return km
}

func applyFixture(ctrl *session.Controller, fx *fixture) error {
	if len(fx.KeyboardMapping) > 0 {
		if err := ctrl.SetKeyboardMapping(fx.KeyboardMapping); err != nil {
			return err
		}
	}
	if len(fx.Methods) > 0 {
		ctrl.SetMethods(fx.methods(), fx.Mapping)
		return nil
	}
	ctrl.SetSections(fx.Sections, fx.Mapping)
	return nil
}

// summary is what a non-interactive run prints.
type summary struct {
	Amount     string            `json:"amount"`
	Title      string            `json:"title"`
	Theme      string            `json:"theme"`
	Password   bool              `json:"password"`
	CanConfirm bool              `json:"canConfirm"`
	Selected   paysheet.Record   `json:"selected,omitempty"`
	Preview    *paysheet.Result  `json:"preview,omitempty"`
	Keyboard   []string          `json:"keyboardMapping"`
	Overrides  map[string]string `json:"i18n,omitempty"`
}

// printSummary opens the sheet headless and reports what it would show,
// including the result a confirm would produce.
func printSummary(w *os.File, logger *slog.Logger, patch config.Patch, fx *fixture, amount any) error {
	s := paysheet.New(paysheet.WithLogger(logger))
	s.SetConfig(patch)
	if len(fx.KeyboardMapping) > 0 {
		if err := s.SetKeyboardMapping(fx.KeyboardMapping); err != nil {
			return err
		}
	}
	if len(fx.Methods) > 0 {
		s.SetMethods(fx.methods(), fx.Mapping)
	} else {
		s.SetSections(fx.Sections, fx.Mapping)
	}
	if err := s.Open(amount); err != nil {
		return err
	}

	cfg := s.Config()
	sum := summary{
		Amount:     s.Amount().String(),
		Title:      s.Text().Title,
		Theme:      s.GetTheme(),
		Password:   cfg.Password.Enabled,
		CanConfirm: s.CanConfirm(),
		Keyboard:   s.KeyboardMapping(),
		Overrides:  cfg.UI.I18n,
	}
	if rec, ok := s.GetSelectedMethod(); ok {
		sum.Selected = rec
	}
	if res, ok := s.Confirm(); ok {
		sum.Preview = &res
	}
	s.Close()

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(sum)
}

func init() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: paysheet [options]\n\n")
		fmt.Fprintf(os.Stderr, "A terminal payment sheet.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
}

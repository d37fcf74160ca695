// Command mapedit is a TUI editor for study mind maps: shapes with rich
// text content, connected by routed arrows, exportable to SVG or PNG.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"

	"mapedit/pkg/diagram"
	"mapedit/pkg/document"
	"mapedit/pkg/editor"
	"mapedit/pkg/export"
	"mapedit/pkg/render"
)

// Config holds persistent editor settings
type Config struct {
	ExportFormat string // "svg" or "png"
	GridEnabled  bool
	DocsDir      string // where documents are stored
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return Config{
		ExportFormat: "svg",
		GridEnabled:  true,
		DocsDir:      filepath.Join(home, ".mapedit.d"),
	}
}

// ConfigPath returns the path to the config file
func ConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".mapedit"
	}
	return filepath.Join(home, ".mapedit")
}

// LoadConfig loads configuration from TOML file
func LoadConfig() Config {
	cfg := DefaultConfig()
	data, err := os.ReadFile(ConfigPath())
	if err != nil {
		return cfg
	}

	// Simple TOML parser for our settings
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		val := strings.Trim(strings.TrimSpace(parts[1]), "\"")
		switch key {
		case "export_format":
			if val == "svg" || val == "png" {
				cfg.ExportFormat = val
			}
		case "grid":
			cfg.GridEnabled = val == "true"
		case "docs_dir":
			if val != "" {
				cfg.DocsDir = val
			}
		}
	}
	return cfg
}

// SaveConfig saves configuration to TOML file
func SaveConfig(cfg Config) error {
	content := fmt.Sprintf("# mapedit configuration\nexport_format = \"%s\"\ngrid = \"%t\"\ndocs_dir = \"%s\"\n",
		cfg.ExportFormat, cfg.GridEnabled, cfg.DocsDir)
	return os.WriteFile(ConfigPath(), []byte(content), 0644)
}

// MessageType classifies the status bar message
type MessageType int

const (
	MsgInfo MessageType = iota
	MsgSuccess
	MsgError
)

// App holds all editor state
type App struct {
	screen   tcell.Screen
	session  *editor.Session
	engine   *render.Engine
	terminal *render.Terminal
	throttle *render.Throttle
	store    document.Store
	config   Config

	doc      *document.Document
	modified bool

	message     string
	messageType MessageType

	// Left-button drag detection
	leftMouseDown bool
	lastMouseX    int
	lastMouseY    int

	// Nudge sequence detection: terminals report no key-up, so a pause
	// in arrow-key repeats closes the sequence.
	lastNudge time.Time
}

func main() {
	cfg := LoadConfig()

	store, err := document.NewFileStore(cfg.DocsDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening document store: %v\n", err)
		os.Exit(1)
	}

	app := &App{config: cfg, store: store}

	// Check command line: an argument is a document id to open.
	if len(os.Args) > 1 {
		doc, err := store.Load(os.Args[1])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", os.Args[1], err)
			os.Exit(1)
		}
		app.doc = doc
		app.session = editor.NewSession(doc.ToDiagram())
	} else {
		app.doc = document.New("Untitled")
		app.session = editor.NewSession(diagram.New())
	}
	app.session.SetGrid(cfg.GridEnabled, 0)

	// Initialize screen
	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing screen: %v\n", err)
		os.Exit(1)
	}
	screen.EnableMouse()
	screen.Clear()

	app.screen = screen
	app.terminal = render.NewTerminal(screen)
	app.engine = render.NewEngine(app.terminal)
	app.throttle = render.NewThrottle(render.FrameInterval)

	app.run()

	app.throttle.Stop()
	screen.Fini()

	cfg.GridEnabled = app.session.GridEnabled()
	if err := SaveConfig(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving config: %v\n", err)
	}
}

func (a *App) run() {
	// Periodic refresh so live updates land on the event loop and a
	// pause in arrow-key repeats can be noticed.
	go func() {
		ticker := time.NewTicker(50 * time.Millisecond)
		defer ticker.Stop()
		for range ticker.C {
			if !a.lastNudge.IsZero() && time.Since(a.lastNudge) > 300*time.Millisecond {
				a.screen.PostEvent(tcell.NewEventInterrupt(nil))
			}
		}
	}()

	a.rebuild()
	for {
		ev := a.screen.PollEvent()
		switch ev := ev.(type) {
		case *tcell.EventResize:
			a.screen.Sync()
			a.rebuild()
		case *tcell.EventKey:
			if a.handleKey(ev) {
				return
			}
		case *tcell.EventMouse:
			a.handleMouse(ev)
		case *tcell.EventInterrupt:
			if !a.lastNudge.IsZero() && time.Since(a.lastNudge) > 300*time.Millisecond {
				a.lastNudge = time.Time{}
				a.session.EndNudge()
			}
			if fn, ok := ev.Data().(func()); ok {
				fn()
			}
		}
	}
}

// apply routes a session effect to the matching render path. Live
// updates go through the throttle and land back on the event loop as
// an interrupt, so all drawing stays on one goroutine.
func (a *App) apply(eff editor.Effect) {
	switch eff {
	case editor.EffectLive:
		a.modified = true
		a.throttle.Submit(func() {
			a.screen.PostEvent(tcell.NewEventInterrupt(func() { a.live() }))
		})
	case editor.EffectViewport:
		a.rebuild()
	case editor.EffectStructural:
		a.modified = true
		a.throttle.Flush()
		a.rebuild()
	}
}

func (a *App) rebuild() {
	a.drawStatus()
	d := a.session.Diagram()
	a.engine.Select(d, a.session.SelectedShape())
	a.engine.Rebuild(d)
	a.drawOverlay()
}

func (a *App) live() {
	a.drawStatus()
	id := a.session.SelectedShape()
	if id == "" || a.session.State() == editor.StateEditingText {
		a.rebuild()
		return
	}
	a.engine.Live(a.session.Diagram(), id)
	a.drawOverlay()
}

func (a *App) setMessage(msg string, t MessageType) {
	a.message = msg
	a.messageType = t
	a.drawStatus()
	a.screen.Show()
}

// save persists the current document and reports the search entry its
// owner would index.
func (a *App) save() {
	a.doc.FromDiagram(a.session.TakeCopy())
	if err := a.store.Save(a.doc); err != nil {
		a.setMessage(fmt.Sprintf("Save failed: %v", err), MsgError)
		return
	}
	a.modified = false
	entry := document.BuildSearchEntry(a.doc)
	a.setMessage(fmt.Sprintf("Saved %s (%d searchable chars)", a.doc.ID, len(entry.Text)), MsgSuccess)
}

// export writes the diagram next to the working directory using the
// document title as filename.
func (a *App) export() {
	format, err := export.ParseFormat(a.config.ExportFormat)
	if err != nil {
		format = export.FormatSVG
	}
	exp, err := export.NewExporter(format)
	if err != nil {
		a.setMessage(fmt.Sprintf("Export failed: %v", err), MsgError)
		return
	}
	data, err := exp.Export(a.session.TakeCopy())
	if err != nil {
		a.setMessage(fmt.Sprintf("Export failed: %v", err), MsgError)
		return
	}
	name := document.ExportFilename(a.doc.Title, exp.FileExtension())
	if err := os.WriteFile(name, data, 0644); err != nil {
		a.setMessage(fmt.Sprintf("Export failed: %v", err), MsgError)
		return
	}
	a.setMessage(fmt.Sprintf("Exported %s", name), MsgSuccess)
}

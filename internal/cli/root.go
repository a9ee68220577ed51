package cli

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/lotas/tabstash/internal/applog"
	"github.com/lotas/tabstash/internal/catalog"
	"github.com/lotas/tabstash/internal/clipboard"
	"github.com/lotas/tabstash/internal/config"
	"github.com/lotas/tabstash/internal/firefox"
	"github.com/lotas/tabstash/internal/server"
	"github.com/lotas/tabstash/internal/storage"
	"github.com/lotas/tabstash/internal/tui"
	"github.com/lotas/tabstash/internal/types"
)

// app carries the state shared by every command. Tests fill in the
// collaborator fields before executing a command; anything left nil is
// built from the configuration.
type app struct {
	// Flag values
	configPath string
	backend    string
	profile    string
	port       int

	cfg      *config.Config
	store    catalog.Store
	source   catalog.TabSource // overrides the capture source
	opener   catalog.Opener    // overrides the window opener
	copier   tui.Copier
	profiles func() ([]types.Profile, error)
	now      func() time.Time

	closers []func() error
}

func newApp() *app {
	return &app{
		profiles: firefox.DiscoverProfiles,
		now:      time.Now,
	}
}

// NewRootCommand creates the root command.
func NewRootCommand(version string) *cobra.Command {
	return newRootCommand(newApp(), version)
}

func newRootCommand(a *app, version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "tabstash",
		Short:         "tabstash - save and browse snapshots of your browser tabs",
		Long:          "tabstash captures the open tabs of Firefox into named snapshots and lets you search, open and export them.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.teardown()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTUI(cmd.Context())
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "Config file (default ~/.config/tabstash/config.yaml)")
	flags.StringVar(&a.backend, "backend", "", "Storage backend: sqlite or kv")
	flags.StringVarP(&a.profile, "profile", "p", "", "Firefox profile name")
	flags.IntVar(&a.port, "port", 0, "WebSocket port for the browser extension")

	cmd.AddCommand(
		newCaptureCommand(a),
		newListCommand(a),
		newShowCommand(a),
		newRenameCommand(a),
		newDeleteCommand(a),
		newOpenCommand(a),
		newCopyCommand(a),
		newDomainsCommand(a),
		newExportCommand(a),
		newDiffCommand(a),
		newProfilesCommand(a),
	)
	return cmd
}

// setup loads configuration, applies flag overrides and opens the store.
func (a *app) setup(cmd *cobra.Command) error {
	if a.cfg == nil {
		cfg, err := config.Load(a.configPath)
		if err != nil {
			return err
		}
		a.cfg = cfg
	}

	flags := cmd.Flags()
	if flags.Changed("backend") {
		a.cfg.Backend = a.backend
	}
	if flags.Changed("profile") {
		a.cfg.Profile = a.profile
	}
	if flags.Changed("port") {
		a.cfg.Port = a.port
	}
	if err := a.cfg.Validate(); err != nil {
		return err
	}

	if a.store != nil {
		return nil
	}

	if err := applog.Init(a.cfg.LogDir, a.cfg.LogLevel); err != nil {
		return fmt.Errorf("init log: %w", err)
	}
	a.closers = append(a.closers, func() error {
		applog.Close()
		return nil
	})

	store, closeStore, err := openStore(a.cfg)
	if err != nil {
		return err
	}
	a.store = store
	if closeStore != nil {
		a.closers = append(a.closers, closeStore)
	}
	applog.Info("app.start", "command", cmd.Name(), "backend", a.cfg.Backend)
	return nil
}

func (a *app) teardown() error {
	var firstErr error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	a.closers = nil
	return firstErr
}

func openStore(cfg *config.Config) (catalog.Store, func() error, error) {
	switch cfg.Backend {
	case config.BackendKV:
		s, err := storage.NewKVStore(cfg.KVDir)
		if err != nil {
			return nil, nil, err
		}
		return s, nil, nil
	default:
		db, err := storage.OpenDB(cfg.DBPath)
		if err != nil {
			return nil, nil, err
		}
		return storage.NewSQLiteStore(db), db.Close, nil
	}
}

func (a *app) catalog() *catalog.Catalog {
	return catalog.New(a.store)
}

func (a *app) clipboard() tui.Copier {
	if a.copier != nil {
		return a.copier
	}
	return clipboard.New()
}

// selectedProfile resolves the configured Firefox profile.
func (a *app) selectedProfile() (types.Profile, error) {
	profiles, err := a.profiles()
	if err != nil {
		return types.Profile{}, fmt.Errorf("discover profiles: %w", err)
	}
	return firefox.SelectProfile(profiles, a.cfg.Profile)
}

// startBridge serves the extension websocket until ctx is done.
func (a *app) startBridge(ctx context.Context) (*server.Server, *server.Bridge) {
	srv := server.New(a.cfg.Port)
	go func() {
		if err := srv.ListenAndServe(ctx); err != nil {
			applog.Error("server.listen", err, "port", a.cfg.Port)
		}
	}()
	return srv, server.NewBridge(srv)
}

// bridgeOrLauncher opens windows through the extension when it is
// connected and falls back to starting Firefox directly.
type bridgeOrLauncher struct {
	srv      *server.Server
	bridge   *server.Bridge
	launcher firefox.Launcher
}

func (o bridgeOrLauncher) OpenURLs(ctx context.Context, urls []string) error {
	if o.srv.Connected() {
		return o.bridge.OpenURLs(ctx, urls)
	}
	return o.launcher.OpenURLs(ctx, urls)
}

func (a *app) runTUI(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	srv, bridge := a.startBridge(ctx)
	sources := []tui.Source{{
		Label: fmt.Sprintf("Firefox extension (port %d)", a.cfg.Port),
		Tabs:  bridge,
	}}
	launcher := firefox.Launcher{Profile: a.cfg.Profile}
	if p, err := a.selectedProfile(); err == nil {
		sources = append(sources, tui.Source{
			Label:     fmt.Sprintf("Session file (%s)", p.Name),
			IsDefault: p.IsDefault,
			Tabs:      firefox.SessionSource{ProfileDir: p.Path},
		})
		launcher.Profile = p.Name
	} else {
		applog.Error("tui.profiles", err)
	}

	var opener catalog.Opener = bridgeOrLauncher{srv: srv, bridge: bridge, launcher: launcher}
	if a.opener != nil {
		opener = a.opener
	}

	model := tui.NewModel(ctx, tui.Options{
		Catalog:    a.catalog(),
		Sources:    sources,
		Opener:     opener,
		Copier:     a.clipboard(),
		TopDomains: a.cfg.TopDomains,
		Now:        a.now,
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}

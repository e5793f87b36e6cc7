package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jeanpaul/feedbackloop/internal/config"
	"github.com/jeanpaul/feedbackloop/internal/health"
	"github.com/jeanpaul/feedbackloop/internal/logging"
	"github.com/jeanpaul/feedbackloop/internal/registry"
	"github.com/jeanpaul/feedbackloop/internal/shell"
	"github.com/jeanpaul/feedbackloop/internal/store"
	"github.com/jeanpaul/feedbackloop/internal/transfer"
	"github.com/jeanpaul/feedbackloop/internal/tui"
	"github.com/jeanpaul/feedbackloop/pkg/version"
)

func main() {
	configFlag := flag.String("config", "", "Path to config.yaml")
	storeFlag := flag.String("store", "", "Store driver (mongo, memory)")
	uriFlag := flag.String("uri", "", "MongoDB connection string")
	databaseFlag := flag.String("database", "", "Database name")
	pickerFlag := flag.Bool("picker", false, "Pick menu actions with the arrow keys")
	uniqueFlag := flag.Bool("unique-ids", false, "Reject developers whose id is already registered")
	versionFlag := flag.Bool("version", false, "Print version")
	helpFlag := flag.Bool("help", false, "Show help")
	flag.BoolVar(helpFlag, "h", false, "Show help")

	flag.Usage = func() { _ = printHelp(os.Stdout) }
	flag.Parse()

	if *helpFlag {
		_ = printHelp(os.Stdout)
		os.Exit(0)
	}
	if *versionFlag {
		fmt.Printf("feedbackloop %s (%s)\n", version.Version, version.Commit)
		os.Exit(0)
	}

	cfg, err := config.Load(*configFlag)
	if err != nil {
		fatal("%s", err)
	}
	applyFlags(cfg, *storeFlag, *uriFlag, *databaseFlag, *pickerFlag, *uniqueFlag)
	if err := cfg.Validate(); err != nil {
		fatal("%s", err)
	}

	logCloser, err := logging.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.File)
	if err != nil {
		fatal("%s", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, cfg, flag.Args(), os.Stdin, os.Stdout)
	stop()
	logCloser.Close()
	if err != nil {
		fatal("%s", err)
	}
}

// applyFlags lets command-line flags win over the config file.
func applyFlags(cfg *config.Config, driver, uri, database string, picker, unique bool) {
	if driver != "" {
		cfg.Store.Driver = driver
	}
	if uri != "" {
		cfg.Store.URI = uri
	}
	if database != "" {
		cfg.Store.Database = database
	}
	if picker {
		cfg.UI.Mode = "picker"
	}
	if unique {
		cfg.Registry.UniqueIDs = true
	}
}

func run(ctx context.Context, cfg *config.Config, args []string, in io.Reader, out io.Writer) error {
	if len(args) == 0 {
		return cmdShell(ctx, cfg, in, out)
	}

	switch args[0] {
	case "doctor":
		return cmdDoctor(ctx, cfg, out)
	case "export":
		if len(args) < 2 {
			return errors.New("usage: feedbackloop export <file.xlsx|file.yaml|file.json>")
		}
		return cmdExport(ctx, cfg, args[1], out)
	case "import":
		if len(args) < 2 {
			return errors.New("usage: feedbackloop import <file.yaml|file.json>")
		}
		return cmdImport(ctx, cfg, args[1], out)
	case "help":
		return printHelp(out)
	default:
		return fmt.Errorf("unknown command %q (run 'feedbackloop help')", args[0])
	}
}

func storeOptions(cfg *config.Config) store.Options {
	return store.Options{
		Driver:         cfg.Store.Driver,
		URI:            cfg.Store.URI,
		Database:       cfg.Store.Database,
		ConnectRetries: cfg.Store.ConnectRetries,
		OpTimeout:      cfg.Store.OpTimeout,
	}
}

// session is an open store with both registries hydrated from it.
type session struct {
	store     store.Store
	devs      *registry.Developers
	fb        *registry.FeedbackLog
	closeOnce sync.Once
}

func openSession(ctx context.Context, cfg *config.Config) (*session, error) {
	s, err := store.Open(ctx, storeOptions(cfg))
	if err != nil {
		return nil, err
	}
	sess := &session{store: s}

	sess.devs, err = registry.NewDevelopers(ctx, s, registry.WithUniqueIDs(cfg.Registry.UniqueIDs))
	if err != nil {
		sess.Close()
		return nil, err
	}
	sess.fb, err = registry.NewFeedbackLog(ctx, s)
	if err != nil {
		sess.Close()
		return nil, err
	}
	return sess, nil
}

func (s *session) Close() {
	s.closeOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.store.Close(ctx); err != nil {
			log.Warn().Err(err).Msg("closing store")
		}
	})
}

func cmdShell(ctx context.Context, cfg *config.Config, in io.Reader, out io.Writer) error {
	sess, err := openSession(ctx, cfg)
	if err != nil {
		return err
	}
	defer sess.Close()

	// A blocked line read cannot observe ctx, so an interrupt releases the
	// store here and exits.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			fmt.Fprintln(out)
			sess.Close()
			os.Exit(130)
		case <-done:
		}
	}()

	opts := []shell.Option{shell.WithColor(cfg.UI.Color && isTerminal())}
	if cfg.UI.Mode == "picker" {
		opts = append(opts, shell.WithChooser(tui.Picker{In: in, Out: out}))
	}

	return shell.New(sess.devs, sess.fb, in, out, opts...).Run(ctx)
}

func cmdDoctor(ctx context.Context, cfg *config.Config, out io.Writer) error {
	fmt.Fprintln(out, tui.BannerStyle.Render("  Store Health Check"))
	fmt.Fprintln(out)

	opts := storeOptions(cfg)
	opts.ConnectRetries = 0

	fmt.Fprintf(out, "  %s %s ... ", tui.LabelStyle.Render("●"), tui.LabelStyle.Render(opts.Driver))
	s, err := store.Open(ctx, opts)
	if err != nil {
		fmt.Fprintln(out, tui.ErrorStyle.Render("✗ "+err.Error()))
		return errors.New("store is unreachable")
	}
	defer s.Close(context.Background())

	st := health.Check(ctx, s)
	if !st.Healthy() {
		fmt.Fprintln(out, tui.ErrorStyle.Render("✗ "+st.Error))
		return errors.New("store is unhealthy")
	}
	fmt.Fprintf(out, "%s %s\n",
		tui.SuccessStyle.Render("✓ OK"),
		tui.HelpStyle.Render(st.Latency.Round(time.Millisecond).String()),
	)
	fmt.Fprintf(out, "    %s %d\n", tui.HelpStyle.Render(store.DevelopersCollection+":"), st.Developers)
	fmt.Fprintf(out, "    %s %d\n", tui.HelpStyle.Render(store.FeedbackCollection+":"), st.Feedback)

	configPath := filepath.Join(config.Dir(), "config.yaml")
	fmt.Fprintf(out, "\n  %s %s ... ", tui.LabelStyle.Render("●"), tui.LabelStyle.Render("config"))
	if _, err := os.Stat(configPath); err == nil {
		fmt.Fprintln(out, tui.SuccessStyle.Render("✓ "+configPath))
	} else {
		fmt.Fprintln(out, tui.HelpStyle.Render("- Using defaults (create "+configPath+" to customize)"))
	}
	return nil
}

func cmdExport(ctx context.Context, cfg *config.Config, path string, out io.Writer) error {
	sess, err := openSession(ctx, cfg)
	if err != nil {
		return err
	}
	defer sess.Close()

	if err := transfer.Export(path, sess.devs.List(), sess.fb.List()); err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	fmt.Fprintf(out, "Exported %d developers and %d feedback records to %s\n",
		sess.devs.Len(), sess.fb.Len(), path)
	return nil
}

func cmdImport(ctx context.Context, cfg *config.Config, path string, out io.Writer) error {
	devs, err := transfer.LoadDevelopers(path)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	sess, err := openSession(ctx, cfg)
	if err != nil {
		return err
	}
	defer sess.Close()

	imported, skipped := 0, 0
	for _, d := range devs {
		if _, err := sess.devs.Add(ctx, d.ID, d.Name, d.Project); err != nil {
			if errors.Is(err, registry.ErrDuplicateDeveloper) {
				skipped++
				continue
			}
			return fmt.Errorf("import failed after %d developers: %w", imported, err)
		}
		imported++
	}
	fmt.Fprintf(out, "Imported %d developers, skipped %d\n", imported, skipped)
	return nil
}

// isTerminal checks if stdout is a terminal
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}

func fatal(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(os.Stderr, tui.ErrorStyle.Render("error: "+msg))
	os.Exit(1)
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"

	"github.com/MrJamesThe3rd/ledger/internal/app"
	"github.com/MrJamesThe3rd/ledger/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel()})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		stop()

		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}

		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

var errUsage = errors.New("usage")

// env is what every command runs against.
type env struct {
	app    *app.App
	cfg    *config.Config
	out    io.Writer
	errOut io.Writer
}

type command struct {
	summary string
	run     func(ctx context.Context, e *env, args []string) error
}

// run opens the database, bootstraps the schema and dispatches args[0].
func run(ctx context.Context, cfg *config.Config, args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		printUsage(stderr)

		if len(args) == 0 {
			return errUsage
		}

		return flag.ErrHelp
	}

	cmd, ok := commands[args[0]]
	if !ok {
		printUsage(stderr)
		return fmt.Errorf("unknown command %q", args[0])
	}

	a, err := app.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("opening ledger: %w", err)
	}
	defer a.Close()

	slog.Debug("running command", "command", args[0])

	return cmd.run(ctx, &env{app: a, cfg: cfg, out: stdout, errOut: stderr}, args[1:])
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: ledger <command> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")

	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}

	slices.Sort(names)

	width := 0
	for _, name := range names {
		width = max(width, len(name))
	}

	for _, name := range names {
		fmt.Fprintf(w, "  %s%s  %s\n", name, strings.Repeat(" ", width-len(name)), commands[name].summary)
	}
}

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/five82/todosync/internal/app"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	opts, err := parseFlags(args)
	if errors.Is(err, pflag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "todosync: %v\n", err)
		return 2
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "todosync: %v\n", err)
		return 1
	}
	return 0
}

func parseFlags(args []string) (app.Options, error) {
	var opts app.Options

	flagSet := pflag.NewFlagSet("todosync", pflag.ContinueOnError)
	flagSet.StringVarP(&opts.ConfigPath, "config", "c", "", "config file path (default ~/.config/todosync/config.toml)")
	flagSet.StringVar(&opts.PrefsPath, "prefs", "", "preferences file path (default ~/.config/todosync/prefs.toml)")
	flagSet.IntVar(&opts.RefreshEvery, "refresh", 0, "background reload interval in seconds (0 keeps the config value)")
	flagSet.StringVar(&opts.LogLevel, "log-level", "", "log level: debug, info, warn or error")

	if err := flagSet.Parse(args); err != nil {
		return opts, err
	}
	if rest := flagSet.Args(); len(rest) > 0 {
		return opts, fmt.Errorf("unexpected argument: %s", rest[0])
	}
	if opts.RefreshEvery < 0 {
		return opts, fmt.Errorf("--refresh must not be negative")
	}
	return opts, nil
}

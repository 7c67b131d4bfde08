package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"tank-arena/internal/app"
	"tank-arena/internal/config"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := pflag.NewFlagSet("arena", pflag.ContinueOnError)
	configDir := fs.String("config", ".", "directory holding "+config.FileName)
	config.Flags(fs)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}
	if err := config.BindFlags(fs); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	settings, err := config.Load(*configDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := app.Run(ctx, app.Config{Settings: settings})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	winner := string(result.Winner)
	if winner == "" {
		winner = "none"
	}
	fmt.Printf("match %s: %s after %d ticks, winner %s\n", result.MatchID, result.Reason, result.Ticks, winner)
	return 0
}

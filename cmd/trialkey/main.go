// Package main is a diagnostic harness for the trialkey response registry.
//
// It binds the registry to the terminal, optionally runs a Lua trial
// script, and prints every scored response. Without a script it registers a
// persistent accept-any listener. Ctrl+C exits.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/dshills/trialkey/internal/config"
	"github.com/dshills/trialkey/internal/listener"
	"github.com/dshills/trialkey/internal/logging"
	"github.com/dshills/trialkey/internal/script"
)

var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	var (
		configPath  string
		scriptPath  string
		logLevel    string
		showVersion bool
	)
	flag.StringVar(&configPath, "config", "", "Path to session config file (.toml, .yaml)")
	flag.StringVar(&configPath, "c", "", "Path to session config file (shorthand)")
	flag.StringVar(&scriptPath, "script", "", "Path to Lua trial script")
	flag.StringVar(&scriptPath, "s", "", "Path to Lua trial script (shorthand)")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.Parse()

	if showVersion {
		fmt.Printf("trialkey %s\n", version)
		return 0
	}

	logger := logging.New(logLevel, "trialkey")
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: loading config: %v\n", err)
		return 1
	}

	term, err := listener.NewTerminal(listener.WithTerminalLogger(logger))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: creating terminal: %v\n", err)
		return 1
	}
	if err := term.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: initializing terminal: %v\n", err)
		return 1
	}
	defer term.Fini()

	reg := listener.New(cfg,
		listener.WithLogger(logger),
		listener.WithRoot(func() listener.Root { return term }))

	if scriptPath != "" {
		runner, err := script.NewRunner(reg, script.WithLogger(logger))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: creating script runner: %v\n", err)
			return 1
		}
		defer runner.Close()

		if err := runner.RunFile(scriptPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	} else {
		_, err := reg.RequestResponse(listener.Request{
			Callback: func(resp listener.Response) {
				logger.Info("response",
					zap.String("key", resp.Key),
					zap.Float64("rt_ms", resp.RT))
			},
			Persist: true,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: registering listener: %v\n", err)
			return 1
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signals
		cancel()
	}()

	logger.Info("capturing responses, Ctrl+C to exit",
		zap.Bool("case_sensitive", cfg.CaseSensitive),
		zap.Float64("minimum_rt", cfg.MinimumRT))

	if err := term.Run(ctx); err != nil && err != context.Canceled {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	stats := reg.Stats()
	logger.Info("session finished",
		zap.Uint64("key_downs", stats.KeyDowns),
		zap.Uint64("delivered", stats.Delivered))

	return 0
}

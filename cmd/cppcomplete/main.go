// Copyright 2025 The WordServe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the cppcomplete server, CLI and terminal editor.

cppcomplete offers C and C++ completions without a compiler or parser: it
classifies the caret position with line-local scans, sweeps the buffer for
user symbols with regular expressions, and ranks them together with builtin
keywords, library identifiers, headers and snippets.

# Usage

Start the MessagePack IPC server on stdin/stdout:

	cppcomplete

Enable debug logging (always written to stderr):

	cppcomplete -d

Try completions line by line:

	cppcomplete -c -limit 5

Open the terminal editor on a file, re-indexing it when it changes on disk:

	cppcomplete -tui -file main.cpp -watch main.cpp

# Configuration

Settings are read from config.toml in the user config directory
(for example ~/.config/cppcomplete/config.toml), created with defaults on
first run. A malformed file is recovered section by section.

	[engine]
	max_results = 10
	custom_priority = 5
	auto_trigger = true
	trailing_space = true
	cache_size = 32

	[server]
	max_buffer_bytes = 4194304

	[tables]
	extra_file = ""

	[cli]
	show_context = true
	limit = 10

	[watch]
	debounce_ms = 150

extra_file names a TOML file with additional headers, keywords, library
identifiers and snippets, merged over the builtin tables.

# Server Mode

Requests and responses are msgpack maps; see package server for the
protocol.

	srv := server.NewServer(engine, cfg, os.Stdin, os.Stdout)
	err := srv.Start()

# Command Line Flags

	-version  Show current version
	-d        Enable debug mode with detailed logging
	-c        Run the line CLI instead of the server
	-tui      Run the terminal editor instead of the server
	-file     File opened by the terminal editor
	-log      Log file for the terminal editor
	-config   Path to a config.toml
	-rebuild-config  Overwrite the default config.toml with defaults and exit
	-tables   Extra tables file, overrides [tables] extra_file
	-watch    Source file to re-index on change; the server's suggest action reads it
	-limit    Number of suggestions printed by the CLI
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bastiangx/cppcomplete/internal/cli"
	"github.com/bastiangx/cppcomplete/internal/logger"
	"github.com/bastiangx/cppcomplete/internal/tui"
	"github.com/bastiangx/cppcomplete/internal/watch"
	"github.com/bastiangx/cppcomplete/pkg/config"
	"github.com/bastiangx/cppcomplete/pkg/engine"
	"github.com/bastiangx/cppcomplete/pkg/server"
	"github.com/bastiangx/cppcomplete/pkg/tables"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const (
	Version = "0.1.0-beta"
	gh      = "https://github.com/bastiangx/cppcomplete"
)

// sigHandler is a simple handler for OS signals to exit normally.
func sigHandler(cancel context.CancelFunc) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		cancel()
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

// main wires config, tables and the engine, then hands over to the chosen
// front end. It does not implement logic for them and only manages the flow.
func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigHandler(cancel)
	defaultConfig := config.DefaultConfig()

	showVersion := flag.Bool("version", false, "Show current version")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")
	tuiMode := flag.Bool("tui", false, "Run the terminal editor")
	filePath := flag.String("file", "", "File opened by the terminal editor")
	logPath := flag.String("log", "cppcomplete.log", "Log file for the terminal editor")
	configPath := flag.String("config", "", "Path to config.toml")
	rebuildConfig := flag.Bool("rebuild-config", false, "Overwrite the default config.toml with defaults and exit")
	tablesPath := flag.String("tables", "", "Extra tables TOML file")
	watchPath := flag.String("watch", "", "Source file to re-index when it changes")
	limit := flag.Int("limit", defaultConfig.CLI.Limit, "Number of suggestions printed by the CLI")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	logger.Setup(os.Stderr, *debugMode)

	if *rebuildConfig {
		path, err := config.RebuildConfigFile()
		if err != nil {
			log.Fatalf("Failed to rebuild config: %v", err)
		}
		fmt.Fprintf(os.Stderr, "Wrote default config to %s\n", path)
		os.Exit(0)
	}

	cfg, usedConfig, err := config.LoadConfigWithPriority(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Debugf("Using config file: (%s)", config.GetActiveConfigPath(usedConfig))

	extra := cfg.Tables.ExtraFile
	if *tablesPath != "" {
		extra = *tablesPath
	}
	t, err := tables.Load(extra)
	if err != nil {
		log.Fatalf("Failed to load tables: %v", err)
	}

	e := engine.New(t, cfg.EngineOptions())
	log.Debug("Engine ready", "stats", e.Stats())

	if *watchPath != "" {
		w, err := watch.New(*watchPath, e, cfg.Debounce())
		if err != nil {
			log.Fatalf("Failed to watch %s: %v", *watchPath, err)
		}
		if err := w.Start(ctx); err != nil {
			log.Fatalf("Failed to watch %s: %v", *watchPath, err)
		}
		defer w.Stop()
		log.Debugf("Watching %s", w.Path())
	}

	switch {
	case *tuiMode:
		if err := tui.Run(e, *filePath, *logPath); err != nil {
			log.Fatalf("Editor error: %v", err)
		}
	case *cliMode:
		log.SetReportTimestamp(false)
		log.Debug("Input info:", "limit", *limit, "showContext", cfg.CLI.ShowContext)

		inputHandler := cli.NewInputHandler(e, *limit, cfg.CLI.ShowContext, os.Stdin, os.Stdout)
		if err := inputHandler.Start(); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
	default:
		log.Debug("spawning IPC")
		srv := server.NewServer(e, cfg, os.Stdin, os.Stdout)
		showStartupInfo(usedConfig, e)
		if err := srv.Start(); err != nil {
			log.Fatalf("Server error: %v", err)
		}
	}
}

func printVersion() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
		Prefix:          "",
	})

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"}).
		Background(lipgloss.AdaptiveColor{Light: "#f2e9e1", Dark: "#26233a"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	logger.SetStyles(styles)

	logger.Print("")
	logger.Print("[ cppcomplete ] C and C++ completions without a compiler")
	logger.Print("", "version", Version)
	logger.Print("")
	logger.Print("use -h or --help to see available options")
	logger.Print("Github Repo", "gh", gh)
}

// showStartupInfo prints basic info about the init process to stderr.
func showStartupInfo(configPath string, e *engine.Engine) {
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)
	defer log.SetLevel(currentLevel)

	stats := e.Stats()
	println("=============")
	println(" cppcomplete ")
	println("=============")
	log.Infof("Version: %s", Version)
	log.Infof("Process ID: [ %d ]", os.Getpid())
	log.Infof("config: ( %s )", config.GetActiveConfigPath(configPath))
	log.Infof("tables: %d keywords, %d library, %d headers, %d snippets",
		stats["keywords"], stats["library"], stats["headers"], stats["snippets"])
	log.Info("status: ready")
	println("=============")
	println("Press Ctrl+C to exit")
}

package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/QUAKTECH/sftm/internal/cli"
	"github.com/QUAKTECH/sftm/internal/config"
	"github.com/QUAKTECH/sftm/internal/logging"
)

func main() {
	// Root flags (apply to every subcommand)
	dir := flag.String("dir", "", "todo directory")
	theme := flag.String("theme", "", "theme: classic | neon | mono")
	color := flag.String("color", "", "color: auto | always | never")
	debug := flag.Bool("debug", false, "print diagnostics to stderr")
	flag.Usage = func() { cli.PrintHelp(os.Stderr) }
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		cli.PrintHelp(os.Stderr)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "sftm:", err)
		os.Exit(1)
	}
	level := ""
	if *debug {
		level = "debug"
	}
	if err := cfg.Override(*dir, *theme, *color, level); err != nil {
		fmt.Fprintln(os.Stderr, "sftm:", err)
		os.Exit(2)
	}

	logger := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	logger.Debug("config resolved", "root", cfg.Root, "todo_dir", cfg.TodoDir, "config_file", cfg.Path())

	os.Exit(cli.Run(args, cli.Options{
		Config: cfg,
		Logger: logger,
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}))
}

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/LFroesch/rove/internal/config"
	"github.com/LFroesch/rove/internal/logger"
	"github.com/LFroesch/rove/internal/todo"
	"github.com/LFroesch/rove/internal/utils"
	"github.com/LFroesch/rove/internal/watch"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		configPath = pflag.StringP("config", "c", config.DefaultPath(), "opener config file")
		todoPath   = pflag.String("todo", "", "to-do list file (overrides settings.todo_file)")
		cwdFile    = pflag.String("cwd-file", "", "start in the directory named by this file and write the final directory back on exit")
		initConfig = pflag.Bool("init-config", false, "write a sample config to --config and exit")
		noLog      = pflag.Bool("no-log", false, "disable the debug log")
		showHelp   = pflag.BoolP("help", "h", false, "show this help")
	)
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: rove [flags] [dir]\n\n")
		pflag.PrintDefaults()
	}
	pflag.Parse()

	if *showHelp {
		pflag.Usage()
		return 0
	}

	if *initConfig {
		if _, err := os.Stat(*configPath); err == nil {
			fmt.Fprintf(os.Stderr, "rove: %s already exists\n", *configPath)
			return 1
		}
		if err := config.Save(*configPath, config.Sample()); err != nil {
			fmt.Fprintf(os.Stderr, "rove: %v\n", err)
			return 1
		}
		fmt.Printf("wrote %s\n", *configPath)
		return 0
	}

	if *noLog {
		logger.Disable()
	} else if err := logger.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "rove: logging disabled: %v\n", err)
	}
	defer logger.Close()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "rove: %v\n", err)
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "run `rove --init-config` to create one\n")
		}
		return 1
	}
	logger.Info("loaded config %s (%d openers)", cfg.Path, len(cfg.Openers))

	if cfg.Settings.Preview && cfg.Settings.Highlight {
		found := false
		for _, p := range cfg.Settings.Pager {
			if utils.CommandExists(p) {
				found = true
				break
			}
		}
		if !found {
			logger.Info("no pager found in %v, using built-in preview", cfg.Settings.Pager)
		}
	}

	if *todoPath != "" {
		cfg.Settings.TodoFile = config.ExpandHome(*todoPath)
	}
	todos, todoErr := todo.Load(cfg.Settings.TodoFile)
	if todoErr != nil {
		logger.Warn("%v", todoErr)
	}

	startDir, err := startDirectory(pflag.Arg(0), *cwdFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "rove: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	watcher, err := watch.New(watch.DefaultSettle)
	if err != nil {
		logger.Warn("file watching disabled: %v", err)
		watcher = nil
	} else {
		defer watcher.Close()
	}

	m := newModel(ctx, cfg, startDir, todos, watcher)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithoutSignalHandler())
	final, err := p.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "rove: %v\n", err)
		return 1
	}

	dir := startDir
	if fm, ok := final.(*model); ok {
		dir = fm.nav.Dir()
	}
	if err := writeCwdFile(*cwdFile, dir); err != nil {
		logger.Error("write cwd file: %v", err)
		fmt.Fprintf(os.Stderr, "rove: %v\n", err)
		return 1
	}
	// A list that failed to parse is only rewritten after an edit.
	if todoErr == nil {
		if err := todos.Save(); err != nil {
			logger.Error("save todos: %v", err)
		}
	}
	return 0
}

// startDirectory picks where browsing begins: an explicit argument, then
// the cwd file, then the working directory.
func startDirectory(arg, cwdFile string) (string, error) {
	if arg != "" {
		info, err := os.Stat(arg)
		if err != nil {
			return "", err
		}
		if !info.IsDir() {
			return "", fmt.Errorf("%s is not a directory", arg)
		}
		return absPath(arg)
	}
	if dir := readStartDir(cwdFile); dir != "" {
		return absPath(dir)
	}
	return os.Getwd()
}

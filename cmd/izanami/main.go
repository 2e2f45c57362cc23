package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/peterh/liner"
	"gopkg.in/yaml.v3"

	izanami "github.com/TheM1Stery/izanami"
)

const appName = "izanami"

// sysexits-style codes, plus a lex/parse split so scripts can tell the
// failure stage apart.
const (
	exitOK      = 0
	exitIOErr   = 1
	exitUsage   = 64
	exitLexErr  = 65
	exitRuntime = 70
	exitParse   = 75
)

func red(s string) string { return "\x1b[31m" + s + "\x1b[0m" }

// replConfig is read from ~/.izanami.yaml. Every field is optional; zero
// values fall back to the defaults below.
type replConfig struct {
	Prompt      string `yaml:"prompt"`
	HistoryFile string `yaml:"history_file"`
	Color       *bool  `yaml:"color"`
}

func loadReplConfig() replConfig {
	cfg := replConfig{
		Prompt:      "> ",
		HistoryFile: ".izanami_history",
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return cfg
	}
	data, err := os.ReadFile(filepath.Join(home, ".izanami.yaml"))
	if err != nil {
		return cfg
	}
	// A malformed config file is not worth dying over.
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		fmt.Fprintf(os.Stderr, "%s: ignoring bad config: %v\n", appName, err)
	}
	if cfg.Prompt == "" {
		cfg.Prompt = "> "
	}
	if cfg.HistoryFile == "" {
		cfg.HistoryFile = ".izanami_history"
	}
	return cfg
}

func (c replConfig) colorize(s string) string {
	if c.Color != nil && !*c.Color {
		return s
	}
	return red(s)
}

func main() {
	showAST := flag.Bool("ast", false, "parse the script and print its syntax tree instead of running it")
	watch := flag.Bool("watch", false, "rerun the script whenever the file changes")
	showVersion := flag.Bool("version", false, "print the version and exit")
	flag.Usage = usage
	flag.Parse()

	if *showVersion {
		fmt.Println(izanami.Version)
		return
	}

	switch flag.NArg() {
	case 0:
		if *showAST || *watch {
			usage()
			os.Exit(exitUsage)
		}
		os.Exit(runRepl())
	case 1:
		path := flag.Arg(0)
		switch {
		case *watch:
			os.Exit(runWatch(path, *showAST))
		case *showAST:
			os.Exit(printAST(path))
		default:
			os.Exit(runFile(path))
		}
	default:
		usage()
		os.Exit(exitUsage)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `izanami %s

Usage:
  %s                  Start the REPL.
  %s <script>         Run a script.
  %s -ast <script>    Print the script's syntax tree.
  %s -watch <script>  Run the script, then rerun it on every change.
  %s -version         Print the version.
`, izanami.Version, appName, appName, appName, appName, appName)
}

// -----------------------------------------------------------------------------
// run
// -----------------------------------------------------------------------------

func runFile(path string) int {
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: cannot read %s: %v\n", appName, path, err)
		return exitIOErr
	}
	return runSource(izanami.NewInterpreter(), string(src))
}

func runSource(ip *izanami.Interpreter, src string) int {
	err := ip.Run(src)
	if err == nil {
		return exitOK
	}
	fmt.Fprintln(os.Stderr, err.Error())
	switch err.(type) {
	case izanami.LexErrorList:
		return exitLexErr
	case izanami.ParseErrorList:
		return exitParse
	case *izanami.RuntimeError:
		return exitRuntime
	default:
		return exitRuntime
	}
}

// -----------------------------------------------------------------------------
// ast
// -----------------------------------------------------------------------------

func printAST(path string) int {
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: cannot read %s: %v\n", appName, path, err)
		return exitIOErr
	}
	tokens, lexErrs := izanami.NewLexer(string(src)).Scan()
	if len(lexErrs) > 0 {
		fmt.Fprintln(os.Stderr, izanami.LexErrorList(lexErrs).Error())
		return exitLexErr
	}
	stmts, parseErrs := izanami.NewParser(tokens).Parse()
	if len(parseErrs) > 0 {
		fmt.Fprintln(os.Stderr, izanami.ParseErrorList(parseErrs).Error())
		return exitParse
	}
	fmt.Println(izanami.FormatProgram(stmts))
	return exitOK
}

// -----------------------------------------------------------------------------
// watch
// -----------------------------------------------------------------------------

// runWatch runs the script, then reruns it on every write to the file. Each
// rerun gets a fresh interpreter so state never leaks between runs. The
// watcher stays alive through script failures; only watcher errors exit.
func runWatch(path string, showAST bool) int {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: cannot watch: %v\n", appName, err)
		return exitIOErr
	}
	defer w.Close()

	// Watch the directory, not the file: editors that replace the file on
	// save would otherwise drop the watch.
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		fmt.Fprintf(os.Stderr, "%s: cannot watch %s: %v\n", appName, path, err)
		return exitIOErr
	}

	runOnce := func() {
		if showAST {
			printAST(path)
			return
		}
		runFile(path)
	}
	runOnce()

	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return exitOK
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			fmt.Fprintf(os.Stderr, "%s: %s changed, rerunning\n", appName, path)
			runOnce()
		case werr, ok := <-w.Errors:
			if !ok {
				return exitOK
			}
			fmt.Fprintf(os.Stderr, "%s: watch error: %v\n", appName, werr)
			return exitIOErr
		}
	}
}

// -----------------------------------------------------------------------------
// repl
// -----------------------------------------------------------------------------

func runRepl() int {
	cfg := loadReplConfig()
	fmt.Printf("izanami %s\nCtrl+C cancels input, Ctrl+D exits.\n", izanami.Version)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, cfg.HistoryFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	// One interpreter for the whole session: definitions persist across
	// lines, and errors never end the session.
	ip := izanami.NewInterpreter()

	for {
		line, err := ln.Prompt(cfg.Prompt)
		if errors.Is(err, io.EOF) {
			fmt.Println()
			return exitOK
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, cfg.colorize(err.Error()))
			return exitIOErr
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		if rerr := ip.Run(line); rerr != nil {
			fmt.Fprintln(os.Stderr, cfg.colorize(rerr.Error()))
		}
		ln.AppendHistory(line)
	}
}

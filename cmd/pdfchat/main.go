package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nishanshrestha04/pdf-reading-chatbot/internal/app"
	"github.com/nishanshrestha04/pdf-reading-chatbot/internal/backend"
	"github.com/nishanshrestha04/pdf-reading-chatbot/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

const version = "1.0.0"

var (
	flagBackend  string
	flagLanguage string
	flagConfig   string
	flagNoTUI    bool
	flagMock     bool
)

func main() {
	root := &cobra.Command{
		Use:     "pdfchat",
		Short:   "Chat with your PDF files from the terminal",
		Long:    "pdfchat uploads PDF documents to a question-answering backend and lets you converse about their contents.\n\nUse without arguments for the TUI, or --no-tui for a plain prompt.",
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run()
		},
	}

	root.Flags().StringVarP(&flagBackend, "backend", "b", "", "backend base URL (default from config, then http://127.0.0.1:8000)")
	root.Flags().StringVarP(&flagLanguage, "language", "l", "", "response language: en|ne")
	root.Flags().StringVar(&flagConfig, "config", "", "path to config file")
	root.Flags().BoolVarP(&flagNoTUI, "no-tui", "n", false, "use a plain REPL instead of the TUI")
	root.Flags().BoolVarP(&flagMock, "mock", "m", false, "run against a mock backend (no server needed)")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flagConfig
	if configPath == "" {
		configPath = app.DefaultConfigPath()
	}
	cfg, err := app.LoadConfig(configPath)
	if err != nil {
		return err
	}
	if url := os.Getenv("PDFCHAT_BACKEND_URL"); url != "" {
		cfg.BackendURL = url
	}
	if flagBackend != "" {
		cfg.BackendURL = flagBackend
	}
	if flagLanguage != "" {
		cfg.Language = flagLanguage
	}

	logger, closeLog := newLogger(cfg.LogFile)
	defer closeLog()

	timeout := time.Duration(cfg.RequestTimeoutSeconds) * time.Second
	var svc backend.Service = backend.NewClient(cfg.BackendURL, timeout)
	if flagMock {
		svc = backend.NewMock()
	}

	sess := app.NewSession(svc, logger)
	if lang, ok := app.ParseLanguage(cfg.Language); ok {
		_ = sess.SetLanguage(lang)
	}

	// The session reset runs whenever the process winds down, matching the
	// browser unload hook of the web client: best-effort, never blocking
	// shutdown for long, its failure swallowed.
	defer teardown(sess)

	if flagNoTUI {
		return runREPL(sess, timeout)
	}

	p := tea.NewProgram(tui.New(sess, timeout))

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)
	go func() {
		<-sigs
		p.Quit()
	}()

	_, err = p.Run()
	return err
}

func teardown(sess *app.Session) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	sess.Teardown(ctx)
}

func newLogger(path string) (*app.Logger, func()) {
	if path == "" {
		return app.NewLogger(io.Discard), func() {}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return app.NewLogger(io.Discard), func() {}
	}
	return app.NewLogger(f), func() { _ = f.Close() }
}

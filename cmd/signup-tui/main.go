// cmd/signup-tui/main.go
//
// Runs the signup flow in the terminal. Sessions live in memory and the
// finished registration is written as YAML to the output directory.

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"goldengeneration/config"
	"goldengeneration/services/i18n"
	"goldengeneration/services/signup"
	"goldengeneration/tui"
	"goldengeneration/utils"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

func main() {
	out := flag.String("out", ".", "directory the finished registration is written to")
	lang := flag.String("lang", "", "interface language (en, he, ru, ar); defaults to $LANG")
	logFile := flag.String("log", filepath.Join(os.TempDir(), "signup-tui.log"), "log file")
	flag.Parse()

	config.LoadConfig()
	if err := utils.InitializeFileLogger(*logFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error opening log file: %v\n", err)
		os.Exit(1)
	}
	logger := utils.GetLogger()
	defer logger.Sync()

	catalog, err := i18n.LoadEmbedded()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading translations: %v\n", err)
		os.Exit(1)
	}
	locale := catalog.Match(*lang, os.Getenv("LANG"), config.AppConfig.DefaultLocale)

	persister := &signup.FilePersister{Dir: *out}
	svc := &signup.DefaultSignupService{
		Store:     signup.NewMemorySessionStore(),
		Persister: persister,
		Catalog:   catalog,
	}

	ctx := context.Background()
	app, err := tui.NewApp(ctx, svc, catalog, "local", locale)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error starting signup: %v\n", err)
		os.Exit(1)
	}

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}

	if app.Submitted() {
		logger.Info("Registration written", zap.String("dir", *out))
		fmt.Println(catalog.Translator(locale)("signup.complete"))
		fmt.Println("Saved in", *out)
	}
}

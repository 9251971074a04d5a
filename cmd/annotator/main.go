package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gravitrone/annotator/cli/internal/cmd"
	"github.com/gravitrone/annotator/cli/internal/config"
	"github.com/gravitrone/annotator/cli/internal/metrics"
	"github.com/gravitrone/annotator/cli/internal/ui"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose bool
	root := &cobra.Command{
		Use:   "annotator",
		Short: "Annotator - external document search and knowledge bases",
		Long:  "Annotator CLI: query external document repositories, import documents, and browse project knowledge bases.",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runTUI(verbose)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(cmd.LoginCmd())
	root.AddCommand(cmd.SearchCmd())
	root.AddCommand(cmd.ImportCmd())
	root.AddCommand(cmd.KBCmd())
	return root
}

func init() {
	// Force truecolor so hex colors render correctly
	// Must be set before any lipgloss style initialization
	os.Setenv("COLORTERM", "truecolor")
}

func runTUI(verbose bool) error {
	if !isInteractiveTerminal(os.Stdin) || !isInteractiveTerminal(os.Stdout) {
		if _, err := config.Load(); err != nil {
			fmt.Println("not logged in. run 'annotator login' first.")
			return err
		}
		return errors.New("annotator needs an interactive terminal")
	}

	rt, err := cmd.LoadRuntime(verbose)
	if err != nil {
		return err
	}
	defer rt.Close()

	if addr := rt.Config.MetricsAddr; addr != "" {
		srv, err := metrics.Enable(addr)
		if err != nil {
			rt.Log.Warn("metrics disabled", zap.String("addr", addr), zap.Error(err))
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), time.Second)
				defer cancel()
				_ = srv.Shutdown(ctx)
			}()
		}
	}

	rt.Log.Info("tui start", zap.String("project", rt.Config.Project), zap.String("api", rt.Client.BaseURL()))
	app := ui.NewApp(rt.Client, rt.Config, rt.Log)

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

func isInteractiveTerminal(file *os.File) bool {
	if file == nil {
		return false
	}
	info, err := file.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

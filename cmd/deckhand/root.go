package main

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/kingrea/deckhand/internal/config"
	"github.com/kingrea/deckhand/internal/i18n"
	"github.com/kingrea/deckhand/internal/runtime"
	"github.com/kingrea/deckhand/internal/session"
	"github.com/kingrea/deckhand/internal/tui"
)

type sessionView struct {
	store       *session.Store
	persistence *session.KVPersistence
}

func newRootCmd() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "deckhand",
		Short: "Pitch deck workflow in your terminal",
		Long: `deckhand walks a project from document upload through slide selection,
sequential slide generation, editing and preview to a PDF export.

Session state lives in .deckhand/ inside the working directory, so quitting
and relaunching resumes where you left off.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			projectDir, err := resolveDir(dir)
			if err != nil {
				return err
			}
			return runTUI(cmd.Context(), projectDir)
		},
	}
	cmd.PersistentFlags().StringVarP(&dir, "dir", "C", "", "project directory (defaults to the working directory)")

	cmd.AddCommand(newStatusCmd(&dir))
	cmd.AddCommand(newResetCmd(&dir))
	cmd.AddCommand(newConfigCmd(&dir))
	return cmd
}

func resolveDir(dir string) (string, error) {
	if dir != "" {
		return dir, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting working directory: %w", err)
	}
	return cwd, nil
}

func runTUI(ctx context.Context, projectDir string) error {
	rt, err := runtime.Open(projectDir)
	if err != nil {
		return err
	}
	defer rt.Close()

	app, err := tui.NewApp(rt, tui.WithContext(ctx))
	if err != nil {
		return err
	}
	// Run blocks until the user quits
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}

// openSession loads config and the persisted session without starting the
// logger or the service client.
func openSession(dir string) (*config.Config, func() error, sessionView, error) {
	projectDir, err := resolveDir(dir)
	if err != nil {
		return nil, nil, sessionView{}, err
	}
	if err := config.InitDeckhandDir(projectDir); err != nil {
		return nil, nil, sessionView{}, err
	}
	cfg, err := config.NewConfig(projectDir)
	if err != nil {
		return nil, nil, sessionView{}, err
	}
	store, persistence, closeKV, err := runtime.OpenSession(cfg)
	if err != nil {
		return nil, nil, sessionView{}, err
	}
	return cfg, closeKV, sessionView{store: store, persistence: persistence}, nil
}

func newStatusCmd(dir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print the persisted session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, closeKV, view, err := openSession(*dir)
			if err != nil {
				return err
			}
			defer closeKV()
			return printStatus(cmd.OutOrStdout(), cfg, view)
		},
	}
}

func printStatus(w io.Writer, cfg *config.Config, view sessionView) error {
	state := view.store.Get()
	lang := state.Language
	project := state.ProjectID
	if project == "" {
		project = "-"
	}
	token := "missing"
	if state.AuthToken != "" {
		token = "present"
	}
	rows := [][2]string{
		{"project", project},
		{"phase", i18n.Resolve(lang, state.Phase.LabelKey())},
		{"language", i18n.Resolve(lang, "language."+string(lang))},
		{"edit mode", i18n.Resolve(lang, state.EditMode.LabelKey())},
		{"required slides", fmt.Sprintf("%d", state.RequiredSlideCount)},
		{"token", token},
		{"backend", string(cfg.SessionBackend().Backend)},
	}
	for _, row := range rows {
		if _, err := fmt.Fprintf(w, "%-16s %s\n", row[0]+":", row[1]); err != nil {
			return err
		}
	}
	return nil
}

func newResetCmd(dir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Clear the persisted session",
		Long: `Clears every persisted session key. The remote project is not deleted;
use the preview screen for that.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, closeKV, view, err := openSession(*dir)
			if err != nil {
				return err
			}
			defer closeKV()
			if err := view.persistence.Clear(); err != nil {
				return fmt.Errorf("clearing session: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "session cleared")
			return nil
		},
	}
}

func newConfigCmd(dir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			projectDir, err := resolveDir(*dir)
			if err != nil {
				return err
			}
			if err := config.InitDeckhandDir(projectDir); err != nil {
				return err
			}
			cfg, err := config.NewConfig(projectDir)
			if err != nil {
				return err
			}
			data, err := cfg.Effective()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

// Package commands builds the lazygit-lite cobra command tree.
package commands

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/lazygit-lite/lazygit-lite/internal/app"
	"github.com/lazygit-lite/lazygit-lite/internal/config"
)

// NewRootCommand builds the lazygit-lite root command: it loads
// configuration, opens the repository at the given (or current) path, and
// runs the Bubble Tea program until the user quits.
func NewRootCommand() *cobra.Command {
	var (
		repoPath   string
		themeFlag  string
		logLevel   string
		diagnostic bool
	)

	cmd := &cobra.Command{
		Use:           "lazygit-lite [path]",
		Short:         "A terminal commit-graph browser",
		Long:          "lazygit-lite renders a repository's commit graph as a live, braided terminal view.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, args []string) error {
			if len(args) == 1 {
				repoPath = args[0]
			}
			if repoPath == "" {
				wd, err := os.Getwd()
				if err != nil {
					return fmt.Errorf("resolve working directory: %w", err)
				}
				repoPath = wd
			}

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if themeFlag != "" {
				cfg.UI.Theme = themeFlag
			}
			if logLevel != "" {
				cfg.Logging.Level = logLevel
			}
			if diagnostic {
				cfg.CommitGraph.Diagnostic = true
			}

			model, err := app.New(cfg, repoPath)
			if err != nil {
				return fmt.Errorf("open repository: %w", err)
			}

			opts := []tea.ProgramOption{tea.WithAltScreen()}
			if cfg.UI.Mouse {
				opts = append(opts, tea.WithMouseCellMotion())
			}

			program := tea.NewProgram(model, opts...)
			_, err = program.Run()
			return err
		},
	}

	cmd.Flags().StringVar(&themeFlag, "theme", "", "override the configured color theme")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "override the configured log level (trace|debug|info|warn|error)")
	cmd.Flags().BoolVar(&diagnostic, "diagnostic", false, "render the lane-buffer diagnostic column")

	return cmd
}

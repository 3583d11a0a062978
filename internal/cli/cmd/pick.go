package cmd

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/bnema/recall/internal/application/usecase"
	"github.com/bnema/recall/internal/cli/model"
	"github.com/bnema/recall/internal/domain/entity"
	"github.com/bnema/recall/internal/logging"
)

var (
	pickActiveURL   string
	pickActiveTitle string
	pickRecord      bool
)

var pickCmd = &cobra.Command{
	Use:   "pick",
	Short: "Interactive history picker",
	Long: `Open an interactive picker that ranks history as you type.

The chosen URL is printed to stdout, so the picker composes with a browser:
  xdg-open "$(recall pick)"

Enter opens the highlighted row once you move the cursor; otherwise the typed
text is resolved, so a typed http(s) URL is used as-is.`,
	Args: cobra.NoArgs,
	RunE: runPick,
}

func init() {
	rootCmd.AddCommand(pickCmd)

	pickCmd.Flags().StringVar(&pickActiveURL, "active-url", "", "URL of the page currently open")
	pickCmd.Flags().StringVar(&pickActiveTitle, "active-title", "", "title of the page currently open")
	pickCmd.Flags().BoolVar(&pickRecord, "record", false, "record the chosen URL as a visit")
}

// latestOnly returns a deliver func that keeps only the newest undelivered result in ch.
func latestOnly(ch chan usecase.LiveResult) func(usecase.LiveResult) {
	return func(r usecase.LiveResult) {
		for {
			select {
			case ch <- r:
				return
			default:
			}
			select {
			case <-ch:
			default:
			}
		}
	}
}

func runPick(cmd *cobra.Command, _ []string) error {
	app, err := requireApp()
	if err != nil {
		return err
	}
	ctx := app.Ctx()

	if pickActiveURL != "" {
		app.Active.SetDefault(entity.NewVisit(pickActiveURL, pickActiveTitle))
	}

	incoming := make(chan usecase.LiveResult, 1)
	delay := time.Duration(app.Config.Search.DebounceMs) * time.Millisecond
	live := usecase.NewLiveSearch(ctx, app.History, delay, latestOnly(incoming))
	live.SetLimit(app.Config.Search.UIMaxResults)
	defer live.Stop()

	m := model.NewPickerModel(ctx, app.Theme, live, app.History, incoming)

	// The TUI draws on stderr so stdout carries only the chosen URL.
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithOutput(cmd.ErrOrStderr()))
	finalModel, err := p.Run()
	if err != nil {
		return fmt.Errorf("run picker: %w", err)
	}

	picker, ok := finalModel.(model.PickerModel)
	if !ok {
		return fmt.Errorf("unexpected model type")
	}
	url := picker.SelectedURL()
	if picker.Canceled() || url == "" {
		return nil
	}

	if pickRecord {
		if _, err := app.History.RecordVisit(ctx, entity.NewVisit(url, "")); err != nil {
			logging.FromContext(ctx).Warn().Err(err).Msg("visit not persisted")
		}
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), url)
	return err
}

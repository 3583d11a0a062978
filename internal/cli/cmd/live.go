package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/bnema/recall/internal/application/usecase"
	"github.com/bnema/recall/internal/cli"
	"github.com/bnema/recall/internal/domain/entity"
	"github.com/bnema/recall/internal/infrastructure/config"
	"github.com/bnema/recall/internal/logging"
)

var liveJSON bool

// liveDrainTimeout bounds the wait for the last query's results after stdin closes.
const liveDrainTimeout = 2 * time.Second

var liveCmd = &cobra.Command{
	Use:   "live",
	Short: "Search as you type, driven by stdin",
	Long: `Read query text from stdin, one line per keystroke state, and print results
as the debounced search delivers them. Stale results are never printed.

Control lines:
  :visit <url> [title]    record a visit and refresh the current results
  :active <url> [title]   set the page treated as currently open
  :active                 clear the active page
  :quit                   exit

Changes to the [search] section of the config file apply while running.`,
	Args: cobra.NoArgs,
	RunE: runLive,
}

func init() {
	rootCmd.AddCommand(liveCmd)
	liveCmd.Flags().BoolVar(&liveJSON, "json", false, "print one JSON object per delivery")
}

type liveLineKind int

const (
	liveQuery liveLineKind = iota
	liveVisit
	liveActive
	liveQuit
)

type liveLine struct {
	kind  liveLineKind
	query string
	url   string
	title string
}

// parseLiveLine splits a stdin line into a query or a control command.
func parseLiveLine(line string) liveLine {
	if !strings.HasPrefix(line, ":") {
		return liveLine{kind: liveQuery, query: line}
	}

	fields := strings.Fields(line)
	rest := func() (string, string) {
		if len(fields) < 2 {
			return "", ""
		}
		return fields[1], strings.Join(fields[2:], " ")
	}

	switch fields[0] {
	case ":visit":
		url, title := rest()
		if url == "" {
			break
		}
		return liveLine{kind: liveVisit, url: url, title: title}
	case ":active":
		url, title := rest()
		return liveLine{kind: liveActive, url: url, title: title}
	case ":quit", ":q":
		return liveLine{kind: liveQuit}
	}
	return liveLine{kind: liveQuery, query: line}
}

// liveDelivery is the --json shape of one delivery.
type liveDelivery struct {
	RequestID uint64                `json:"request_id"`
	Query     string                `json:"query"`
	Narrowed  bool                  `json:"narrowed"`
	Results   []entity.SearchResult `json:"results"`
}

// livePrinter serializes output from timer goroutines and the input loop.
type livePrinter struct {
	mu       sync.Mutex
	w        io.Writer
	asJSON   bool
	lastSeen uint64
	seen     chan struct{}
}

func newLivePrinter(w io.Writer, asJSON bool) *livePrinter {
	return &livePrinter{w: w, asJSON: asJSON, seen: make(chan struct{}, 1)}
}

func (p *livePrinter) deliver(r usecase.LiveResult) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.asJSON {
		_ = writeJSON(p.w, liveDelivery{
			RequestID: r.RequestID,
			Query:     r.Output.Query,
			Narrowed:  r.Output.Narrowed,
			Results:   r.Output.Results,
		})
	} else {
		fmt.Fprintf(p.w, "# %d %q %d results\n", r.RequestID, r.Output.Query, len(r.Output.Results))
		_ = writeResults(p.w, r.Output.Results, time.Now())
	}

	p.lastSeen = r.RequestID
	select {
	case p.seen <- struct{}{}:
	default:
	}
}

func (p *livePrinter) printf(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.w, format, args...)
}

// waitFor blocks until request id has been delivered, the timeout passes or ctx ends.
func (p *livePrinter) waitFor(ctx context.Context, id uint64, timeout time.Duration) {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	for {
		p.mu.Lock()
		done := p.lastSeen >= id
		p.mu.Unlock()
		if done {
			return
		}
		select {
		case <-p.seen:
		case <-deadline.C:
			return
		case <-ctx.Done():
			return
		}
	}
}

func runLive(cmd *cobra.Command, _ []string) error {
	app, err := requireApp()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(app.Ctx(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	printer := newLivePrinter(cmd.OutOrStdout(), liveJSON)
	delay := time.Duration(app.Config.Search.DebounceMs) * time.Millisecond
	live := usecase.NewLiveSearch(ctx, app.History, delay, printer.deliver)
	live.SetLimit(app.Config.Search.UIMaxResults)
	defer live.Stop()

	watchConfig(ctx, app, live)

	return runLiveLoop(ctx, app, live, printer, cmd.InOrStdin())
}

// watchConfig applies [search] changes to the running live search.
func watchConfig(ctx context.Context, app *cli.App, live *usecase.LiveSearch) {
	app.ConfigManager.OnConfigChange(func(cfg *config.Config) {
		app.ApplyLiveSettings(cfg, live)
	})
	if err := app.ConfigManager.Watch(); err != nil {
		logging.FromContext(ctx).Warn().Err(err).Msg("config watch unavailable")
	}
}

func runLiveLoop(
	ctx context.Context,
	app *cli.App,
	live *usecase.LiveSearch,
	printer *livePrinter,
	in io.Reader,
) error {
	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	var query string
	var lastID uint64
	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				printer.waitFor(ctx, lastID, live.Delay()+liveDrainTimeout)
				select {
				case err := <-scanErr:
					if err != nil {
						return fmt.Errorf("failed to read stdin: %w", err)
					}
				default:
				}
				return nil
			}

			parsed := parseLiveLine(line)
			switch parsed.kind {
			case liveQuit:
				return nil
			case liveVisit:
				out, err := app.History.RecordVisit(ctx, entity.NewVisit(parsed.url, parsed.title))
				if err != nil {
					logging.FromContext(ctx).Warn().Err(err).Msg("visit not persisted")
				}
				if out != nil && !printer.asJSON {
					printer.printf("# visit %s (%d visits)\n", out.Entry.URL, out.Entry.VisitCount)
				}
			case liveActive:
				app.Active.SetDefault(entity.NewVisit(parsed.url, parsed.title))
			case liveQuery:
				query = parsed.query
			}
			lastID = live.Update(query)
		}
	}
}

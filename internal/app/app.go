package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"wfm-sync/internal/market"
	"wfm-sync/internal/models"
	"wfm-sync/internal/state"
	"wfm-sync/internal/storage"
	"wfm-sync/internal/sync_manager"
	"wfm-sync/internal/warframe/game"
	ee_log "wfm-sync/internal/warframe/log"
	"wfm-sync/pkg/config"
	"wfm-sync/pkg/logger"
	"wfm-sync/pkg/notify"
)

const gameCheckInterval = 15 * time.Second

// WfmSync wires the configured components together for the CLI commands.
type WfmSync struct {
	cfg      *config.Config
	log      *logger.Logger
	market   *market.Client
	journal  *storage.DB
	manager  *sync_manager.Manager
	notifier *notify.NotifyService
	detector *game.Detector
	out      io.Writer
}

func NewWfmSync(cfg *config.Config, log *logger.Logger, out io.Writer) (*WfmSync, error) {
	log.Debug("Initializing wfm-sync")

	client, err := market.NewClient(market.Options{
		BaseURL:           cfg.GetAPIURL(),
		Cookie:            cfg.GetCookie(),
		Platform:          cfg.GetPlatform(),
		Crossplay:         cfg.GetCrossplay(),
		RequestsPerSecond: cfg.GetRequestsPerSecond(),
	}, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create marketplace client: %w", err)
	}

	db, err := storage.New(cfg.GetJournalPath(), log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	// Drop journal entries past retention
	if retention := cfg.GetJournalRetention(); retention > 0 {
		if n, err := db.Cleanup(retention); err != nil {
			log.Error("Failed to cleanup old sync records", err)
		} else if n > 0 {
			log.Debug("Removed old sync records", "count", n)
		}
	}

	manager := sync_manager.NewManager(sync_manager.Deps{
		Market:        client,
		Positions:     state.NewStore(cfg.GetStatePath(), log),
		Journal:       db,
		LogPath:       cfg.ResolveEELogPath,
		Markers:       cfg.GetMarkers(),
		MutationDelay: cfg.GetMutationDelay(),
		Log:           log,
	})

	notifier := notify.NewNotifyService(log,
		notify.WithCommand(cfg.GetNotifyCommand()),
		notify.WithDesktop(cfg.GetDesktopNotify()))

	return &WfmSync{
		cfg:      cfg,
		log:      log,
		market:   client,
		journal:  db,
		manager:  manager,
		notifier: notifier,
		out:      out,
	}, nil
}

func (a *WfmSync) Close() error {
	return a.journal.Close()
}

// Sync runs a single pass and prints its summary.
func (a *WfmSync) Sync(ctx context.Context) error {
	if !a.market.Authenticated() {
		return fmt.Errorf("no cookie configured, set cookie in the config file or WFM_COOKIE")
	}

	summary, err := a.manager.Run(ctx)
	a.printLines(summary.Lines(), err)
	return err
}

// Watch runs a pass whenever EE.log changes, until ctx is cancelled.
func (a *WfmSync) Watch(ctx context.Context) error {
	if !a.market.Authenticated() {
		return fmt.Errorf("no cookie configured, set cookie in the config file or WFM_COOKIE")
	}

	path, err := a.cfg.ResolveEELogPath()
	if err != nil {
		return &sync_manager.LogAccessError{Err: err}
	}

	watcher, err := ee_log.NewWatcher(path, a.log)
	if err != nil {
		return err
	}
	defer watcher.Close()

	a.detector = game.NewDetector(a.log, a.gameChanged)
	go a.detector.Run(ctx, gameCheckInterval)

	changed := make(chan struct{}, 1)
	watchErr := make(chan error, 1)
	go func() {
		watchErr <- watcher.Run(ctx, changed)
		close(changed)
	}()

	err = a.manager.Watch(ctx, changed, a.report)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	if werr := <-watchErr; werr != nil && !errors.Is(werr, context.Canceled) {
		return fmt.Errorf("log watcher failed: %w", werr)
	}
	return err
}

func (a *WfmSync) gameChanged(running bool) {
	msg := "Warframe found, watching trades..."
	if !running {
		msg = "Warframe closed"
		if found := a.detector.FoundTime(); !found.IsZero() {
			msg = fmt.Sprintf("Warframe closed after %s", time.Since(found).Round(time.Second))
		}
	}
	if err := a.notifier.Show(msg, notify.Info); err != nil {
		a.log.Error("Failed to send notification", err)
	}
}

// report is called after each pass in watch mode. Quiet passes are only
// logged.
func (a *WfmSync) report(summary sync_manager.Summary, err error) {
	if err != nil {
		a.printLines(nil, err)
		if nerr := a.notifier.Show(err.Error(), notify.Error); nerr != nil {
			a.log.Error("Failed to send notification", nerr)
		}
		return
	}
	if len(summary.Outcomes) == 0 {
		a.log.Debug("Nothing to report",
			"status", string(summary.Status),
			"game_running", a.gameRunning())
		return
	}

	lines := summary.Lines()
	a.printLines(lines, nil)
	if nerr := a.notifier.Show(strings.Join(lines, "\n"), notify.Info); nerr != nil {
		a.log.Error("Failed to send notification", nerr)
	}
}

func (a *WfmSync) gameRunning() bool {
	return a.detector != nil && a.detector.IsActive()
}

func (a *WfmSync) printLines(lines []string, err error) {
	for _, line := range lines {
		fmt.Fprintln(a.out, line)
	}
	if err != nil {
		fmt.Fprintf(a.out, "Error: %v\n", err)
	}
}

// Listings prints the user's sell listings, newest first within equal keys.
func (a *WfmSync) Listings(ctx context.Context, sortKey, order string) error {
	slug, err := a.market.Me(ctx)
	if err != nil {
		return err
	}
	items, err := a.market.Items(ctx)
	if err != nil {
		return err
	}
	listings, err := a.market.UserListings(ctx, slug, market.NewCatalog(items))
	if err != nil {
		return err
	}
	if len(listings) == 0 {
		fmt.Fprintln(a.out, "No listings found.")
		return nil
	}

	if _, err := models.SortListings(listings, sortKey, order); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ITEM\tRANK\tPRICE\tQTY\tVISIBLE\tUPDATED")
	for _, l := range listings {
		rank := "-"
		if l.Rank != nil {
			rank = strconv.Itoa(*l.Rank)
		}
		updated := "-"
		if !l.Updated.IsZero() {
			updated = l.Updated.Local().Format("2006-01-02 15:04")
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%t\t%s\n", l.Item, rank, l.Price, l.Quantity, l.Visible, updated)
	}
	return tw.Flush()
}

// History prints the most recent journal entries.
func (a *WfmSync) History(limit int) error {
	records, err := a.journal.Recent(limit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintln(a.out, "No sync history.")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tOUTCOME\tITEM\tSOLD\tPLAT/ITEM\tLEFT")
	for _, r := range records {
		left := "-"
		if r.Outcome == models.OutcomeUpdated {
			left = strconv.Itoa(r.Quantity)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%s\n",
			r.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			r.Outcome, r.Item, r.ItemCount, r.PlatPerItem, left)
	}
	return tw.Flush()
}

package sync_manager

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"wfm-sync/internal/market"
	"wfm-sync/internal/models"
	ee_log "wfm-sync/internal/warframe/log"
	"wfm-sync/pkg/config"
	"wfm-sync/pkg/logger"
)

// Deps wires a Manager. Journal may be nil.
type Deps struct {
	Market        Marketplace
	Positions     PositionStore
	Journal       Journal
	LogPath       func() (string, error)
	Markers       config.Markers
	MutationDelay time.Duration
	Log           *logger.Logger
}

// Manager runs sync passes: it reads the new part of EE.log, finds completed
// trades and brings the user's listings in line with them.
type Manager struct {
	market     Marketplace
	positions  PositionStore
	journal    Journal
	logPath    func() (string, error)
	markers    config.Markers
	extractor  *ee_log.ChunkExtractor
	reconciler *Reconciler
	log        *logger.Logger
	now        func() time.Time
}

func NewManager(d Deps) *Manager {
	return &Manager{
		market:     d.Market,
		positions:  d.Positions,
		journal:    d.Journal,
		logPath:    d.LogPath,
		markers:    d.Markers,
		extractor:  ee_log.NewChunkExtractor(d.Markers, d.Log),
		reconciler: NewReconciler(d.Market, d.MutationDelay, d.Log),
		log:        d.Log,
		now:        time.Now,
	}
}

// Run performs one sync pass.
//
// The read position is saved right after the tail is read, pointing at the
// first completed trade, and moved past each trade once it is handled. A
// failed mutation therefore leaves its trade to be retried by the next pass,
// while trades already applied are never applied twice.
func (m *Manager) Run(ctx context.Context) (Summary, error) {
	summary := Summary{PassID: uuid.NewString()}
	log := m.log.With("pass_id", summary.PassID)

	listings, err := m.loadListings(ctx)
	if err != nil {
		return summary, err
	}
	if len(listings) == 0 {
		log.Info("No active sell listings, nothing to sync")
		summary.Status = StatusNoListings
		return summary, nil
	}

	path, err := m.logPath()
	if err != nil {
		return summary, &LogAccessError{Err: err}
	}

	pos, err := m.positions.Load()
	if err != nil {
		return summary, fmt.Errorf("failed to load sync state: %w", err)
	}

	tail, err := ee_log.TailFile(path, pos, log)
	if err != nil {
		return summary, &LogAccessError{Path: path, Err: err}
	}

	extraction := m.extractor.Extract(tail.Lines)
	chunks := extraction.Chunks

	resume := tail.End
	if extraction.Pending {
		resume = extraction.PendingStart
	}
	// checkpoint(i) is where the next pass starts if trades before i are done
	checkpoint := func(i int) models.ReadPosition {
		if i < len(chunks) {
			return models.ReadPosition{LastByteOffset: chunks[i].Start}
		}
		return models.ReadPosition{LastByteOffset: resume}
	}

	summary.Position = checkpoint(0)
	if err := m.positions.Save(summary.Position); err != nil {
		return summary, fmt.Errorf("failed to save sync state: %w", err)
	}

	if len(chunks) == 0 {
		log.Info("No completed trades in new log lines",
			"from", tail.Start,
			"to", tail.End,
			"pending", extraction.Pending)
		summary.Status = StatusNoTrades
		return summary, nil
	}

	log.Info("Processing trades", "trades", len(chunks), "listings", len(listings))

	for i, chunk := range chunks {
		trade := ee_log.ParseTrade(chunk, m.markers)

		var outcome TradeOutcome
		var waitErr error

		match, ok := Match(trade, listings, m.markers.Currency)
		if !ok {
			outcome = TradeOutcome{Kind: models.OutcomeUnmatched, Offered: trade.Offered}
			log.Info("Trade does not match any listing",
				"offered", trade.Offered,
				"received", trade.Received)
		} else {
			if match.Candidates > 1 {
				log.Debug("Picked listing closest to traded price",
					"item", match.Listing.Item,
					"price", match.Listing.Price,
					"plat_per_item", match.PlatPerItem,
					"candidates", match.Candidates)
			}

			listings, outcome, err = m.reconciler.Apply(ctx, listings, match)
			var mutErr *MutationError
			if errors.As(err, &mutErr) {
				log.Error("Listing mutation failed, stopping pass", err,
					"listing_id", mutErr.ListingID)
				return summary, err
			}
			waitErr = err
		}

		summary.Outcomes = append(summary.Outcomes, outcome)
		m.record(summary.PassID, outcome, log)

		summary.Position = checkpoint(i + 1)
		if err := m.positions.Save(summary.Position); err != nil {
			return summary, fmt.Errorf("failed to save sync state: %w", err)
		}

		if waitErr != nil {
			return summary, waitErr
		}
	}

	summary.Status = StatusSynced
	if summary.Matched() == 0 {
		summary.Status = StatusNothingSynced
	}

	log.Info("Sync pass finished",
		"status", string(summary.Status),
		"trades", len(summary.Outcomes),
		"synced", summary.Matched())

	return summary, nil
}

// loadListings fetches the catalog and the user's identity concurrently,
// then the user's sell listings.
func (m *Manager) loadListings(ctx context.Context) ([]models.Listing, error) {
	var (
		slug  string
		items []models.CatalogItem
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		slug, err = m.market.Me(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		items, err = m.market.Items(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load marketplace data: %w", err)
	}

	listings, err := m.market.UserListings(ctx, slug, market.NewCatalog(items))
	if err != nil {
		return nil, fmt.Errorf("failed to load listings: %w", err)
	}

	m.log.Debug("Loaded listings", "user", slug, "listings", len(listings), "catalog", len(items))
	return listings, nil
}

func (m *Manager) record(passID string, outcome TradeOutcome, log *logger.Logger) {
	if m.journal == nil {
		return
	}
	rec := outcome.record(passID)
	rec.CreatedAt = m.now()
	if err := m.journal.AddRecord(rec); err != nil {
		log.Error("Failed to journal trade outcome", err, "item", rec.Item)
	}
}

package sync_manager

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"wfm-sync/internal/market"
	"wfm-sync/internal/models"
	"wfm-sync/internal/state"
	"wfm-sync/pkg/config"
	"wfm-sync/pkg/logger"
)

type editCall struct {
	ID     string
	Fields models.ListingFields
}

type fakeMarket struct {
	listings  []models.Listing
	edits     []editCall
	deletes   []string
	editErr   error
	deleteErr error
	meErr     error
}

func (f *fakeMarket) Me(ctx context.Context) (string, error) {
	return "tenno", f.meErr
}

func (f *fakeMarket) Items(ctx context.Context) ([]models.CatalogItem, error) {
	return nil, nil
}

func (f *fakeMarket) UserListings(ctx context.Context, slug string, catalog market.Catalog) ([]models.Listing, error) {
	return append([]models.Listing(nil), f.listings...), nil
}

func (f *fakeMarket) EditListing(ctx context.Context, id string, fields models.ListingFields) error {
	if f.editErr != nil {
		return f.editErr
	}
	f.edits = append(f.edits, editCall{ID: id, Fields: fields})
	for i := range f.listings {
		if f.listings[i].ID == id {
			f.listings[i].Quantity = fields.Quantity
		}
	}
	return nil
}

func (f *fakeMarket) DeleteListing(ctx context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deletes = append(f.deletes, id)
	for i := range f.listings {
		if f.listings[i].ID == id {
			f.listings = append(f.listings[:i], f.listings[i+1:]...)
			break
		}
	}
	return nil
}

type memJournal struct {
	records []models.SyncRecord
}

func (j *memJournal) AddRecord(rec models.SyncRecord) error {
	j.records = append(j.records, rec)
	return nil
}

const (
	logStart   = "Script [Info]: Dialog.lua: Dialog::CreateOkCancel(description=Are you sure you want to accept this trade? You are offering"
	logReceive = "and will receive from Tenno the following:"
	logSuccess = "Script [Info]: Dialog.lua: Dialog::CreateOk(description=The trade was successful!, leftItem=/Menu/Confirm_Item_Ok)"
	logCancel  = "Script [Info]: Dialog.lua: Dialog::SendResult_MENU_CANCEL()"
)

// tradeLines renders one completed trade dialogue.
func tradeLines(offered []string, received ...string) []string {
	lines := []string{logStart}
	lines = append(lines, offered...)
	lines = append(lines, logReceive)
	lines = append(lines, received...)
	return append(lines, logSuccess)
}

type harness struct {
	market  *fakeMarket
	journal *memJournal
	store   *state.Store
	logPath string
	manager *Manager
}

func newHarness(t *testing.T, listings ...models.Listing) *harness {
	t.Helper()
	dir := t.TempDir()
	h := &harness{
		market:  &fakeMarket{listings: listings},
		journal: &memJournal{},
		store:   state.NewStore(filepath.Join(dir, "sync_state.json"), logger.Nop()),
		logPath: filepath.Join(dir, "EE.log"),
	}
	require.NoError(t, os.WriteFile(h.logPath, nil, 0644))

	h.manager = NewManager(Deps{
		Market:    h.market,
		Positions: h.store,
		Journal:   h.journal,
		LogPath:   func() (string, error) { return h.logPath, nil },
		Markers:   config.DefaultMarkers(),
		Log:       logger.Nop(),
	})
	return h
}

func (h *harness) appendLines(t *testing.T, lines ...string) {
	t.Helper()
	f, err := os.OpenFile(h.logPath, os.O_APPEND|os.O_WRONLY, 0644)
	require.NoError(t, err)
	defer f.Close()
	_, err = f.WriteString(strings.Join(lines, "\n") + "\n")
	require.NoError(t, err)
}

func (h *harness) offset(t *testing.T) int64 {
	t.Helper()
	pos, err := h.store.Load()
	require.NoError(t, err)
	return pos.LastByteOffset
}

func (h *harness) size(t *testing.T) int64 {
	t.Helper()
	info, err := os.Stat(h.logPath)
	require.NoError(t, err)
	return info.Size()
}

func intPtr(v int) *int { return &v }

package app

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wfm-sync/internal/sync_manager"
	"wfm-sync/internal/warframe/game"
	"wfm-sync/pkg/config"
	"wfm-sync/pkg/logger"
	"wfm-sync/pkg/notify"
)

type marketServer struct {
	mu      sync.Mutex
	deletes []string
}

func (s *marketServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case r.URL.Path == "/v2/me":
		_, _ = io.WriteString(w, `{"data":{"slug":"tenno"}}`)
	case r.URL.Path == "/v2/items":
		_, _ = io.WriteString(w, `{"data":[
			{"id":"i1","slug":"ammo_drum","i18n":{"en":{"name":"Ammo Drum"}}},
			{"id":"i2","slug":"serration","maxRank":10,"i18n":{"en":{"name":"Serration"}}}
		]}`)
	case r.URL.Path == "/v2/orders/user/tenno":
		_, _ = io.WriteString(w, `{"data":[
			{"id":"o1","type":"sell","itemId":"i1","platinum":1000,"quantity":1,"visible":true,"updatedAt":"2025-01-01T00:00:00Z"},
			{"id":"o2","type":"sell","itemId":"i2","platinum":20,"quantity":4,"rank":10,"visible":false,"updatedAt":"2025-02-01T00:00:00Z"}
		]}`)
	case r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, "/v2/order/"):
		s.deletes = append(s.deletes, strings.TrimPrefix(r.URL.Path, "/v2/order/"))
	default:
		http.NotFound(w, r)
	}
}

func newTestApp(t *testing.T, srv *httptest.Server, logPath string) (*WfmSync, *bytes.Buffer) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("WFM_API_URL", srv.URL)
	t.Setenv("WFM_COOKIE", "JWT=token")
	t.Setenv("WFM_EE_LOG_PATH", logPath)
	t.Setenv("WFM_MUTATION_DELAY", "0s")
	t.Setenv("WFM_REQUESTS_PER_SECOND", "1000")

	cfg, err := config.FindConfig("", logger.Nop())
	require.NoError(t, err)

	var out bytes.Buffer
	a, err := NewWfmSync(cfg, logger.Nop(), &out)
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	return a, &out
}

func TestSyncPrintsSummaryAndJournals(t *testing.T) {
	ms := &marketServer{}
	srv := httptest.NewServer(ms)
	defer srv.Close()

	logPath := filepath.Join(t.TempDir(), "EE.log")
	require.NoError(t, os.WriteFile(logPath, []byte(strings.Join([]string{
		"Are you sure you want to accept this trade? You are offering",
		"Ammo Drum",
		"and will receive from Tenno the following:",
		"1200 Platinum",
		"The trade was successful!",
		"",
	}, "\n")), 0644))

	a, out := newTestApp(t, srv, logPath)

	require.NoError(t, a.Sync(context.Background()))
	assert.Equal(t, "Ammo Drum: deleted\n", out.String())
	assert.Equal(t, []string{"o1"}, ms.deletes)

	out.Reset()
	require.NoError(t, a.History(10))
	assert.Contains(t, out.String(), "deleted")
	assert.Contains(t, out.String(), "Ammo Drum")

	out.Reset()
	require.NoError(t, a.Sync(context.Background()))
	assert.Equal(t, "No trades found.\n", out.String())
}

func TestListingsSorted(t *testing.T) {
	srv := httptest.NewServer(&marketServer{})
	defer srv.Close()

	a, out := newTestApp(t, srv, filepath.Join(t.TempDir(), "EE.log"))

	require.NoError(t, a.Listings(context.Background(), "price", "asc"))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "ITEM"))
	assert.True(t, strings.HasPrefix(lines[1], "Serration"))
	assert.Contains(t, lines[1], "10")
	assert.True(t, strings.HasPrefix(lines[2], "Ammo Drum"))

	assert.Error(t, a.Listings(context.Background(), "colour", ""))
}

func TestHistoryEmpty(t *testing.T) {
	srv := httptest.NewServer(&marketServer{})
	defer srv.Close()

	a, out := newTestApp(t, srv, filepath.Join(t.TempDir(), "EE.log"))

	require.NoError(t, a.History(5))
	assert.Equal(t, "No sync history.\n", out.String())
}

func TestGameTransitionsAreReported(t *testing.T) {
	srv := httptest.NewServer(&marketServer{})
	defer srv.Close()

	a, _ := newTestApp(t, srv, filepath.Join(t.TempDir(), "EE.log"))

	var notes, logs bytes.Buffer
	a.notifier = notify.NewNotifyService(logger.Nop(), notify.WithDesktop(false), notify.WithOutput(&notes))
	log, err := logger.NewLogger(logger.WithWriter(&logs), logger.WithLevel(zerolog.DebugLevel))
	require.NoError(t, err)
	a.log = log

	running := true
	a.detector = game.NewDetector(logger.Nop(), a.gameChanged)
	a.detector.SetProcessLister(func(ctx context.Context) ([]string, error) {
		if running {
			return []string{"Warframe.x64.exe"}, nil
		}
		return nil, nil
	})

	_, err = a.detector.Detect(context.Background())
	require.NoError(t, err)
	assert.Contains(t, notes.String(), "Warframe found")

	a.report(sync_manager.Summary{Status: sync_manager.StatusNoTrades}, nil)
	assert.Contains(t, logs.String(), `"game_running":true`)

	running = false
	_, err = a.detector.Detect(context.Background())
	require.NoError(t, err)
	assert.Contains(t, notes.String(), "Warframe closed after")
	assert.False(t, a.gameRunning())
}

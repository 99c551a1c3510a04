package sync_manager

import (
	"context"
	"errors"
)

// Watch runs a pass immediately and then once per signal on changed, until
// ctx is done. Pass results, failures included, go to report; a failed pass
// does not end the loop.
func (m *Manager) Watch(ctx context.Context, changed <-chan struct{}, report func(Summary, error)) error {
	m.log.Info("Watching for trades")

	for {
		summary, err := m.Run(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			m.log.Error("Sync pass failed", err, "pass_id", summary.PassID)
		}
		report(summary, err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, ok := <-changed:
			if !ok {
				return errors.New("log watcher stopped")
			}
		}
	}
}

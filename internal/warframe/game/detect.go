package game

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v4/process"

	"wfm-sync/pkg/logger"
)

// Client process names, matched case-insensitively by prefix. Under Proton
// the kernel truncates the name, so "Warframe.x64.ex" must match too.
var processPrefixes = []string{"warframe.x64", "warframe.exe"}

// ProcessLister returns the names of running processes.
type ProcessLister func(ctx context.Context) ([]string, error)

// Detector tracks whether the Warframe client is running
type Detector struct {
	list      ProcessLister
	log       *logger.Logger
	onChange  func(running bool)
	isRunning bool
	foundTime time.Time
	mu        sync.RWMutex
}

// NewDetector creates a detector. onChange is called on every transition
// and may be nil.
func NewDetector(log *logger.Logger, onChange func(running bool)) *Detector {
	return &Detector{
		list:     listProcesses,
		log:      log,
		onChange: onChange,
	}
}

// SetProcessLister replaces the process table source.
func (d *Detector) SetProcessLister(list ProcessLister) {
	d.list = list
}

// Detect checks the process table once and reports whether the game runs.
func (d *Detector) Detect(ctx context.Context) (bool, error) {
	names, err := d.list(ctx)
	if err != nil {
		d.log.Error("Error listing processes", err)
		return false, err
	}

	running := false
	for _, name := range names {
		if isGameProcess(name) {
			running = true
			break
		}
	}

	d.mu.Lock()
	changed := running != d.isRunning
	d.isRunning = running
	if changed && running {
		d.foundTime = time.Now()
	}
	d.mu.Unlock()

	if changed {
		if running {
			d.log.Info("Warframe process found")
		} else {
			d.log.Info("Warframe process gone")
		}
		if d.onChange != nil {
			d.onChange(running)
		}
	}

	return running, nil
}

// Run polls until ctx is done.
func (d *Detector) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		_, _ = d.Detect(ctx)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// IsActive returns the result of the last check.
func (d *Detector) IsActive() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.isRunning
}

// FoundTime is when the game was last seen starting.
func (d *Detector) FoundTime() time.Time {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.foundTime
}

func isGameProcess(name string) bool {
	name = strings.ToLower(name)
	for _, prefix := range processPrefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

func listProcesses(ctx context.Context) ([]string, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(procs))
	for _, p := range procs {
		// processes may exit between listing and reading their name
		name, err := p.NameWithContext(ctx)
		if err != nil {
			continue
		}
		names = append(names, name)
	}
	return names, nil
}

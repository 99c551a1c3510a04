package ee_log

import (
	"strings"

	"wfm-sync/internal/models"
	"wfm-sync/pkg/config"
	"wfm-sync/pkg/logger"
)

// Extraction is the result of scanning a tail for trade dialogues.
type Extraction struct {
	Chunks []models.TradeChunk

	// Pending is set when the tail ends inside a dialogue that has neither
	// succeeded nor been cancelled yet; PendingStart is where it begins.
	Pending      bool
	PendingStart int64
}

// DefaultMaxPendingLines bounds how many lines an unfinished dialogue may
// span before it stops holding back the read position.
const DefaultMaxPendingLines = 500

// ChunkExtractor finds completed trade dialogues in a sequence of lines.
type ChunkExtractor struct {
	markers    config.Markers
	maxPending int
	log        *logger.Logger
}

func NewChunkExtractor(markers config.Markers, log *logger.Logger) *ChunkExtractor {
	return &ChunkExtractor{markers: markers, maxPending: DefaultMaxPendingLines, log: log}
}

// SetMaxPendingLines changes the unfinished dialogue limit.
func (e *ChunkExtractor) SetMaxPendingLines(n int) {
	e.maxPending = n
}

// Extract runs the idle/recording state machine over lines. Chunks come out
// in log order; cancelled and unfinished dialogues are never emitted.
func (e *ChunkExtractor) Extract(lines []Line) Extraction {
	var (
		out       Extraction
		current   []string
		start     int64
		recording bool
	)

	for _, line := range lines {
		switch {
		case strings.Contains(line.Text, e.markers.TradeStart):
			if recording {
				e.log.Debug("Trade dialogue restarted before completion",
					"discarded_lines", len(current),
					"offset", start)
			}
			current = []string{line.Text}
			start = line.Start
			recording = true

		case strings.Contains(line.Text, e.markers.TradeCancel):
			if recording {
				e.log.Debug("Trade dialogue cancelled", "offset", start)
			}
			current = nil
			recording = false

		case recording && strings.Contains(line.Text, e.markers.TradeSuccess):
			current = append(current, line.Text)
			out.Chunks = append(out.Chunks, models.TradeChunk{
				Lines: current,
				Start: start,
				End:   line.End,
			})
			current = nil
			recording = false

		case recording:
			current = append(current, line.Text)
		}
	}

	if recording {
		if len(current) > e.maxPending {
			// some clients never log a cancel line
			e.log.Warn("Dropping unfinished trade dialogue",
				"offset", start,
				"lines", len(current),
				"limit", e.maxPending)
		} else {
			out.Pending = true
			out.PendingStart = start
		}
	}

	e.log.Debug("Extracted trade chunks",
		"chunks", len(out.Chunks),
		"pending", out.Pending)

	return out
}

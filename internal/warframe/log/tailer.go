package ee_log

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"wfm-sync/internal/models"
	"wfm-sync/pkg/logger"
)

// Line is one line of EE.log with the byte range it occupies, newline
// included in End.
type Line struct {
	Text  string
	Start int64
	End   int64
}

// Tail is the text appended to EE.log since a read position.
type Tail struct {
	Lines     []Line
	Start     int64
	End       int64
	Truncated bool
}

// Position returns the read position to persist once the tail is consumed.
func (t Tail) Position() models.ReadPosition {
	return models.ReadPosition{LastByteOffset: t.End}
}

// TailFile reads the complete lines after pos. When the file is smaller than
// pos it was rotated or truncated and is read again from the beginning.
func TailFile(path string, pos models.ReadPosition, log *logger.Logger) (Tail, error) {
	file, err := os.Open(path)
	if err != nil {
		return Tail{}, fmt.Errorf("failed to open log file: %w", err)
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return Tail{}, fmt.Errorf("failed to stat log file: %w", err)
	}

	offset := pos.LastByteOffset
	truncated := false
	if stat.Size() < offset || offset < 0 {
		log.Info("Log file was truncated, resetting position",
			"old_offset", offset,
			"new_size", stat.Size())
		offset = 0
		truncated = true
	}

	if _, err := file.Seek(offset, io.SeekStart); err != nil {
		return Tail{}, fmt.Errorf("failed to seek log file: %w", err)
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return Tail{}, fmt.Errorf("failed to read log file: %w", err)
	}

	// a line still being written is left for the next read
	complete := bytes.LastIndexByte(data, '\n') + 1
	if complete < len(data) {
		log.Debug("Holding back partial line", "bytes", len(data)-complete)
	}

	tail := Tail{
		Lines:     splitLines(data[:complete], offset),
		Start:     offset,
		End:       offset + int64(complete),
		Truncated: truncated,
	}

	log.Debug("Read log tail",
		"path", path,
		"start", tail.Start,
		"end", tail.End,
		"lines", len(tail.Lines))

	return tail, nil
}

// splitLines splits data on '\n', dropping a trailing '\r'.
func splitLines(data []byte, base int64) []Line {
	var lines []Line
	pos := 0
	for pos < len(data) {
		next := len(data)
		if i := bytes.IndexByte(data[pos:], '\n'); i >= 0 {
			next = pos + i + 1
		}
		raw := bytes.TrimRight(data[pos:next], "\r\n")
		lines = append(lines, Line{
			Text:  strings.ToValidUTF8(string(raw), "\uFFFD"),
			Start: base + int64(pos),
			End:   base + int64(next),
		})
		pos = next
	}
	return lines
}

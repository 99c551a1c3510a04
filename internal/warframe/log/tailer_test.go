package ee_log

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wfm-sync/internal/models"
	"wfm-sync/pkg/logger"
)

func writeLog(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func appendLog(t *testing.T, path, content string) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	require.NoError(t, err)
	defer f.Close()
	_, err = f.WriteString(content)
	require.NoError(t, err)
}

func texts(lines []Line) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.Text
	}
	return out
}

func TestTailFileOffsets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "EE.log")
	writeLog(t, path, "one\r\ntwo\nthree\n")

	tail, err := TailFile(path, models.ReadPosition{}, logger.Nop())
	require.NoError(t, err)

	assert.Equal(t, []string{"one", "two", "three"}, texts(tail.Lines))
	assert.Equal(t, int64(0), tail.Lines[0].Start)
	assert.Equal(t, int64(5), tail.Lines[0].End)
	assert.Equal(t, int64(5), tail.Lines[1].Start)
	assert.Equal(t, int64(9), tail.Lines[1].End)
	assert.Equal(t, int64(15), tail.Lines[2].End)
	assert.Equal(t, models.ReadPosition{LastByteOffset: 15}, tail.Position())
	assert.False(t, tail.Truncated)
}

func TestTailFileHoldsBackPartialLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "EE.log")
	writeLog(t, path, "done\nhalf")

	tail, err := TailFile(path, models.ReadPosition{}, logger.Nop())
	require.NoError(t, err)
	assert.Equal(t, []string{"done"}, texts(tail.Lines))
	assert.Equal(t, int64(5), tail.End)

	appendLog(t, path, " written\n")
	tail, err = TailFile(path, tail.Position(), logger.Nop())
	require.NoError(t, err)
	assert.Equal(t, []string{"half written"}, texts(tail.Lines))
}

func TestTailFileTwiceEqualsOnce(t *testing.T) {
	dir := t.TempDir()
	split := filepath.Join(dir, "split.log")
	whole := filepath.Join(dir, "whole.log")

	first := "a\nb\nc"
	second := "d\ne\n"

	writeLog(t, split, first)
	tail1, err := TailFile(split, models.ReadPosition{}, logger.Nop())
	require.NoError(t, err)

	appendLog(t, split, second)
	tail2, err := TailFile(split, tail1.Position(), logger.Nop())
	require.NoError(t, err)

	writeLog(t, whole, first+second)
	once, err := TailFile(whole, models.ReadPosition{}, logger.Nop())
	require.NoError(t, err)

	assert.Equal(t, once.End, tail2.End)
	assert.Equal(t, tail1.End, tail2.Start)

	joined := append(texts(tail1.Lines), texts(tail2.Lines)...)
	assert.Equal(t, texts(once.Lines), joined)
	assert.Equal(t, []string{"a", "b", "cd", "e"}, joined)
}

func TestTailFileByteEquivalence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "EE.log")
	content := "line one\nline two\n"
	writeLog(t, path, content)

	for offset := int64(0); offset <= int64(len(content)); offset++ {
		tail, err := TailFile(path, models.ReadPosition{LastByteOffset: offset}, logger.Nop())
		require.NoError(t, err)
		assert.Equal(t, offset, tail.Start)
		assert.Equal(t, int64(len(content)), tail.End)
		next, err := TailFile(path, tail.Position(), logger.Nop())
		require.NoError(t, err)
		assert.Empty(t, next.Lines)
		if len(tail.Lines) > 0 {
			assert.Equal(t, offset, tail.Lines[0].Start)
			assert.Equal(t, tail.End, tail.Lines[len(tail.Lines)-1].End)
		}
	}
}

func TestTailFileTruncationResets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "EE.log")
	writeLog(t, path, "fresh\n")

	tail, err := TailFile(path, models.ReadPosition{LastByteOffset: 1000}, logger.Nop())
	require.NoError(t, err)

	assert.True(t, tail.Truncated)
	assert.Equal(t, int64(0), tail.Start)
	assert.Equal(t, []string{"fresh"}, texts(tail.Lines))
	assert.Equal(t, int64(6), tail.End)
}

func TestTailFileNothingNew(t *testing.T) {
	path := filepath.Join(t.TempDir(), "EE.log")
	writeLog(t, path, "old\n")

	tail, err := TailFile(path, models.ReadPosition{LastByteOffset: 4}, logger.Nop())
	require.NoError(t, err)
	assert.Empty(t, tail.Lines)
	assert.Equal(t, int64(4), tail.End)
}

func TestTailFileMissing(t *testing.T) {
	_, err := TailFile(filepath.Join(t.TempDir(), "missing.log"), models.ReadPosition{}, logger.Nop())
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

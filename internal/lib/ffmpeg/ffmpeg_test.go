package ffmpeg

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteConcatFile(t *testing.T) {
	dir := t.TempDir()

	list, err := WriteConcatFile(dir, []string{
		"/data/trim/first.mp4",
		"/data/trim/second.mp4",
	})
	require.NoError(t, err)
	defer os.Remove(list)

	assert.True(t, strings.HasPrefix(list, dir))

	raw, err := os.ReadFile(list)
	require.NoError(t, err)

	assert.Equal(t,
		"file '/data/trim/first.mp4'\nfile '/data/trim/second.mp4'\n",
		string(raw),
	)
}

func TestWriteConcatFileEscapesQuotes(t *testing.T) {
	dir := t.TempDir()

	list, err := WriteConcatFile(dir, []string{"/data/trim/it's a clip.mp4"})
	require.NoError(t, err)
	defer os.Remove(list)

	raw, err := os.ReadFile(list)
	require.NoError(t, err)

	assert.Equal(t, `file '/data/trim/it'\''s a clip.mp4'`+"\n", string(raw))
}

func TestWriteConcatFileRelativeInput(t *testing.T) {
	dir := t.TempDir()

	list, err := WriteConcatFile(dir, []string{"clip.mp4"})
	require.NoError(t, err)
	defer os.Remove(list)

	raw, err := os.ReadFile(list)
	require.NoError(t, err)

	wd, err := os.Getwd()
	require.NoError(t, err)

	// relative inputs are written as absolute paths
	assert.Contains(t, string(raw), wd)
}

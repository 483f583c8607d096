package media

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GintGld/media-engine/internal/models"
)

func TestFilterRank(t *testing.T) {
	lib := []models.SourceVideo{
		{Name: "holiday trip"},
		{Name: "Holiday"},
		{Name: "cat compilation"},
		{Name: "hôliday montage"},
	}

	names := func(ranked []videoRank) []string {
		out := make([]string, 0, len(ranked))
		for _, r := range ranked {
			out = append(out, r.video.Name)
		}
		return out
	}

	t.Run("empty filter returns everything", func(t *testing.T) {
		ranked := filterRank(lib, models.VideoFilter{})
		assert.Len(t, ranked, len(lib))
		for _, r := range ranked {
			assert.Zero(t, r.rank)
		}
	})

	t.Run("fuzzy match ignores case and diacritics", func(t *testing.T) {
		ranked := filterRank(lib, models.VideoFilter{Name: "holiday"})

		got := names(ranked)
		require.Len(t, got, 3)
		assert.NotContains(t, got, "cat compilation")

		// exact-length match ranks first
		assert.Equal(t, "Holiday", got[0])
	})

	t.Run("no match", func(t *testing.T) {
		ranked := filterRank(lib, models.VideoFilter{Name: "zebra"})
		assert.Empty(t, ranked)
	})

	t.Run("response length cap", func(t *testing.T) {
		ranked := filterRank(lib, models.VideoFilter{MaxRespLen: 2})
		assert.Len(t, ranked, 2)
	})
}

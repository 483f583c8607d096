package media

import (
	"slices"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/GintGld/media-engine/internal/models"
)

type videoRank struct {
	video models.SourceVideo
	rank  int
}

func rankCmp(v1, v2 videoRank) int {
	return v1.rank - v2.rank
}

// filterRank ranks videos against the filter name with a
// case/diacritics-insensitive fuzzy match and returns the
// matches sorted by rank ascending. An empty filter name
// matches everything with rank 0.
func filterRank(lib []models.SourceVideo, filter models.VideoFilter) []videoRank {
	out := make([]videoRank, 0, len(lib))

	for _, video := range lib {
		if filter.Name == "" {
			out = append(out, videoRank{video: video, rank: 0})
			continue
		}

		rank := fuzzy.RankMatchNormalizedFold(filter.Name, video.Name)
		if rank == -1 {
			continue
		}

		out = append(out, videoRank{video: video, rank: rank})
	}

	slices.SortFunc(out, rankCmp)

	if filter.MaxRespLen > 0 && len(out) > filter.MaxRespLen {
		out = out[:filter.MaxRespLen]
	}

	return out
}

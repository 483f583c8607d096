package probe

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/GintGld/media-engine/internal/models"
	"github.com/GintGld/media-engine/internal/service"
)

func TestValidate(t *testing.T) {
	policy := models.MediaPolicy{
		MaxSizeMB:      25,
		MinDurationSec: 5,
		MaxDurationSec: 300,
	}

	testCases := []struct {
		desc    string
		info    models.MediaInfo
		wantErr error
	}{
		{
			desc: "well inside bounds",
			info: models.MediaInfo{FileSizeMB: 10, DurationSec: 100},
		},
		{
			desc: "size at the limit",
			info: models.MediaInfo{FileSizeMB: 25, DurationSec: 100},
		},
		{
			desc:    "size over the limit",
			info:    models.MediaInfo{FileSizeMB: 25.01, DurationSec: 100},
			wantErr: service.ErrSizeExceeded,
		},
		{
			desc: "duration at the lower bound",
			info: models.MediaInfo{FileSizeMB: 10, DurationSec: 5},
		},
		{
			desc: "duration at the upper bound",
			info: models.MediaInfo{FileSizeMB: 10, DurationSec: 300},
		},
		{
			desc:    "duration too short",
			info:    models.MediaInfo{FileSizeMB: 10, DurationSec: 4.99},
			wantErr: service.ErrDurationOutOfRange,
		},
		{
			desc:    "duration too long",
			info:    models.MediaInfo{FileSizeMB: 10, DurationSec: 300.01},
			wantErr: service.ErrDurationOutOfRange,
		},
		{
			desc:    "size violation wins over duration",
			info:    models.MediaInfo{FileSizeMB: 100, DurationSec: 1},
			wantErr: service.ErrSizeExceeded,
		},
	}

	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			err := Validate(tC.info, policy)
			if tC.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tC.wantErr)
			}
		})
	}
}

package probe

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/GintGld/media-engine/internal/lib/ffmpeg"
	"github.com/GintGld/media-engine/internal/lib/logger/sl"
	"github.com/GintGld/media-engine/internal/models"
	"github.com/GintGld/media-engine/internal/service"
)

const bytesPerMB = 1 << 20

type Probe struct {
	log    *slog.Logger
	tmpDir string
}

func New(
	log *slog.Logger,
	tmpDir string,
) *Probe {
	return &Probe{
		log:    log,
		tmpDir: tmpDir,
	}
}

// Probe computes file size and container duration of a raw
// video stream. The stream is materialized into a scratch file,
// which is removed on every exit path.
func (p *Probe) Probe(r io.Reader) (models.MediaInfo, error) {
	const op = "Probe.Probe"

	log := p.log.With(
		slog.String("op", op),
	)

	tmp, err := os.CreateTemp(p.tmpDir, "probe-*.mp4")
	if err != nil {
		log.Error("failed to create scratch file", sl.Err(err))
		return models.MediaInfo{}, fmt.Errorf("%s: %w", op, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	size, err := io.Copy(tmp, r)
	tmp.Close()
	if err != nil {
		log.Error("failed to materialize stream", sl.Err(err))
		return models.MediaInfo{}, fmt.Errorf("%s: %w", op, err)
	}

	duration, err := ffmpeg.GetDuration(tmpName)
	if err != nil {
		log.Warn("failed to read duration", sl.Err(err))
		return models.MediaInfo{}, fmt.Errorf("%w: %s", service.ErrDecodeFailed, err)
	}

	info := models.MediaInfo{
		FileSizeMB:  float64(size) / bytesPerMB,
		DurationSec: duration,
	}

	log.Info(
		"probed media",
		slog.Float64("sizeMB", info.FileSizeMB),
		slog.Float64("durationSec", info.DurationSec),
	)

	return info, nil
}

// Validate checks probed parameters against the policy.
// Pure function, returns the first violated bound.
func Validate(info models.MediaInfo, policy models.MediaPolicy) error {
	if info.FileSizeMB > policy.MaxSizeMB {
		return fmt.Errorf("%w of %g MB", service.ErrSizeExceeded, policy.MaxSizeMB)
	}

	if info.DurationSec < policy.MinDurationSec || info.DurationSec > policy.MaxDurationSec {
		return fmt.Errorf("%w: must be between %g and %g seconds",
			service.ErrDurationOutOfRange, policy.MinDurationSec, policy.MaxDurationSec)
	}

	return nil
}

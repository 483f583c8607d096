package trim

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/GintGld/media-engine/internal/lib/ffmpeg"
	"github.com/GintGld/media-engine/internal/lib/logger/sl"
	"github.com/GintGld/media-engine/internal/service"
)

type Trim struct {
	log    *slog.Logger
	tmpDir string
	outDir string
	codec  string
}

func New(
	log *slog.Logger,
	tmpDir string,
	outDir string,
	codec string,
) *Trim {
	if err := os.MkdirAll(outDir, 0777); err != nil {
		log.Error(
			"failed to create output dir",
			slog.String("dir", outDir),
			sl.Err(err),
		)
	}

	return &Trim{
		log:    log,
		tmpDir: tmpDir,
		outDir: outDir,
		codec:  codec,
	}
}

// Trim cuts [start, end) out of the source artifact and
// re-encodes it into a new file named after the source and
// the clip id. Range validation is the caller's job; a bad
// range still fails with ErrTrimFailed, not a crash.
// The scratch copy is removed on every exit path.
func (t *Trim) Trim(srcPath string, clipID uuid.UUID, start, end float64) (string, error) {
	const op = "Trim.Trim"

	log := t.log.With(
		slog.String("op", op),
		slog.String("clipID", clipID.String()),
	)

	log.Info(
		"trimming media",
		slog.Float64("start", start),
		slog.Float64("end", end),
	)

	scratch, err := t.materialize(srcPath)
	if err != nil {
		log.Error("failed to materialize source", sl.Err(err))
		return "", fmt.Errorf("%w: %s", service.ErrTrimFailed, err)
	}
	defer os.Remove(scratch)

	out := filepath.Join(t.outDir, outputName(srcPath, clipID))

	if err := ffmpeg.Extract(scratch, out, start, end, t.codec); err != nil {
		log.Error("failed to extract range", sl.Err(err))
		return "", fmt.Errorf("%w: %s", service.ErrTrimFailed, err)
	}

	log.Info("trimmed media", slog.String("artifact", out))

	return out, nil
}

func (t *Trim) materialize(srcPath string) (string, error) {
	src, err := os.Open(srcPath)
	if err != nil {
		return "", err
	}
	defer src.Close()

	tmp, err := os.CreateTemp(t.tmpDir, "trim-*.mp4")
	if err != nil {
		return "", err
	}
	defer tmp.Close()

	if _, err := io.Copy(tmp, src); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}

	return tmp.Name(), nil
}

// outputName derives a collision-free artifact name from the
// source base name and the clip id. Timestamps alone are not
// unique under concurrent requests, ids are.
func outputName(srcPath string, clipID uuid.UUID) string {
	base := filepath.Base(srcPath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return fmt.Sprintf("%s_trimmed_%s.mp4", base, clipID)
}

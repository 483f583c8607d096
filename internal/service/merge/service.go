package merge

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/GintGld/media-engine/internal/lib/ffmpeg"
	"github.com/GintGld/media-engine/internal/lib/logger/sl"
	"github.com/GintGld/media-engine/internal/service"
)

type Merge struct {
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
) *Merge {
	if err := os.MkdirAll(outDir, 0777); err != nil {
		log.Error(
			"failed to create output dir",
			slog.String("dir", outDir),
			sl.Err(err),
		)
	}

	return &Merge{
		log:    log,
		tmpDir: tmpDir,
		outDir: outDir,
		codec:  codec,
	}
}

// Merge concatenates the given artifacts in the given order
// into one output file under the merge namespace.
//
// Every input handle opened here is released on every exit
// path, including a failure on a later input.
func (m *Merge) Merge(mergeID uuid.UUID, srcPaths []string) (string, error) {
	const op = "Merge.Merge"

	log := m.log.With(
		slog.String("op", op),
		slog.String("mergeID", mergeID.String()),
	)

	if len(srcPaths) < 2 {
		log.Warn("not enough inputs", slog.Int("count", len(srcPaths)))
		return "", fmt.Errorf("%s: %w", op, service.ErrNotEnoughClips)
	}

	log.Info("merging media", slog.Int("count", len(srcPaths)))

	handles, err := openInputs(srcPaths)
	defer func() {
		for _, h := range handles {
			h.Close()
		}
	}()
	if err != nil {
		log.Error("failed to open input", sl.Err(err))
		return "", fmt.Errorf("%w: %s", service.ErrMergeFailed, err)
	}

	list, err := ffmpeg.WriteConcatFile(m.tmpDir, srcPaths)
	if err != nil {
		log.Error("failed to write concat list", sl.Err(err))
		return "", fmt.Errorf("%w: %s", service.ErrMergeFailed, err)
	}
	defer os.Remove(list)

	out := filepath.Join(m.outDir, fmt.Sprintf("merged_%s.mp4", mergeID))

	if err := ffmpeg.Concat(list, out, m.codec); err != nil {
		log.Error("failed to concatenate", sl.Err(err))
		return "", fmt.Errorf("%w: %s", service.ErrMergeFailed, err)
	}

	log.Info("merged media", slog.String("artifact", out))

	return out, nil
}

// openInputs opens every path in order. On failure it returns
// the handles opened so far, so the caller can release them.
func openInputs(paths []string) ([]*os.File, error) {
	handles := make([]*os.File, 0, len(paths))

	for _, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			return handles, err
		}
		handles = append(handles, f)
	}

	return handles, nil
}

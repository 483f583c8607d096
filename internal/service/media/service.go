package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/GintGld/media-engine/internal/lib/logger/sl"
	"github.com/GintGld/media-engine/internal/models"
	"github.com/GintGld/media-engine/internal/service"
	"github.com/GintGld/media-engine/internal/storage"
)

// Media orchestrates the upload/trim/merge flows: it runs
// the engines, enforces range and clip-count policy, and is
// the only layer talking to persistent storage.
type Media struct {
	log       *slog.Logger
	storage   VideoStorage
	probe     Prober
	trim      Trimmer
	merge     Merger
	validate  Validator
	policy    models.MediaPolicy
	sourceDir string
}

type VideoStorage interface {
	SaveVideo(ctx context.Context, video models.SourceVideo) error
	Video(ctx context.Context, id uuid.UUID) (models.SourceVideo, error)
	AllVideos(ctx context.Context) ([]models.SourceVideo, error)
	SaveClip(ctx context.Context, clip models.TrimmedClip) error
	Clip(ctx context.Context, id uuid.UUID) (models.TrimmedClip, error)
	SaveMerged(ctx context.Context, merged models.MergedVideo) error
	Merged(ctx context.Context, id uuid.UUID) (models.MergedVideo, error)
}

type Prober interface {
	Probe(r io.Reader) (models.MediaInfo, error)
}

type Trimmer interface {
	Trim(srcPath string, clipID uuid.UUID, start, end float64) (string, error)
}

type Merger interface {
	Merge(mergeID uuid.UUID, srcPaths []string) (string, error)
}

type Validator func(info models.MediaInfo, policy models.MediaPolicy) error

func New(
	log *slog.Logger,
	videoStorage VideoStorage,
	prober Prober,
	trimmer Trimmer,
	merger Merger,
	validate Validator,
	policy models.MediaPolicy,
	sourceDir string,
) *Media {
	if err := os.MkdirAll(sourceDir, 0777); err != nil {
		log.Error(
			"failed to create source dir",
			slog.String("dir", sourceDir),
			sl.Err(err),
		)
	}

	return &Media{
		log:       log,
		storage:   videoStorage,
		probe:     prober,
		trim:      trimmer,
		merge:     merger,
		validate:  validate,
		policy:    policy,
		sourceDir: sourceDir,
	}
}

// Upload probes the file at tmpPath, validates it against the
// policy and persists both the source artifact and the record.
// Size and duration are written once, with the record.
func (m *Media) Upload(ctx context.Context, tmpPath string, origName string) (models.SourceVideo, error) {
	const op = "Media.Upload"

	log := m.log.With(
		slog.String("op", op),
		slog.String("name", origName),
	)

	log.Info("uploading video")

	f, err := os.Open(tmpPath)
	if err != nil {
		log.Error("failed to open upload", sl.Err(err))
		return models.SourceVideo{}, fmt.Errorf("%s: %w", op, err)
	}

	info, err := m.probe.Probe(f)
	f.Close()
	if err != nil {
		if errors.Is(err, service.ErrDecodeFailed) {
			log.Warn("cannot decode upload", sl.Err(err))
			return models.SourceVideo{}, err
		}
		log.Error("failed to probe upload", sl.Err(err))
		return models.SourceVideo{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := m.validate(info, m.policy); err != nil {
		log.Warn("upload rejected by policy", sl.Err(err))
		return models.SourceVideo{}, err
	}

	video := models.SourceVideo{
		ID:         uuid.New(),
		Name:       origName,
		FileSizeMB: info.FileSizeMB,
		Duration:   info.DurationSec,
		UploadedAt: time.Now().UTC(),
	}
	video.FilePath = filepath.Join(m.sourceDir, video.ID.String()+filepath.Ext(origName))

	if err := copyFile(tmpPath, video.FilePath); err != nil {
		log.Error("failed to store source", sl.Err(err))
		return models.SourceVideo{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := m.storage.SaveVideo(ctx, video); err != nil {
		os.Remove(video.FilePath)
		log.Error("failed to save video", sl.Err(err))
		return models.SourceVideo{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("uploaded video", slog.String("id", video.ID.String()))

	return video, nil
}

// Video returns one video by id.
func (m *Media) Video(ctx context.Context, id uuid.UUID) (models.SourceVideo, error) {
	const op = "Media.Video"

	log := m.log.With(
		slog.String("op", op),
		slog.String("id", id.String()),
	)

	video, err := m.storage.Video(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrVideoNotFound) {
			log.Warn("video not found")
			return models.SourceVideo{}, service.ErrVideoNotFound
		}
		log.Error("failed to get video", sl.Err(err))
		return models.SourceVideo{}, fmt.Errorf("%s: %w", op, err)
	}

	return video, nil
}

// SearchVideos returns the library, fuzzy-filtered by name
// when the filter asks for it.
func (m *Media) SearchVideos(ctx context.Context, filter models.VideoFilter) ([]models.SourceVideo, error) {
	const op = "Media.SearchVideos"

	log := m.log.With(
		slog.String("op", op),
	)

	lib, err := m.storage.AllVideos(ctx)
	if err != nil {
		log.Error("failed to get library", sl.Err(err))
		return []models.SourceVideo{}, fmt.Errorf("%s: %w", op, err)
	}

	ranked := filterRank(lib, filter)

	res := make([]models.SourceVideo, 0, len(ranked))
	for _, r := range ranked {
		res = append(res, r.video)
	}

	log.Info("searched library", slog.Int("found", len(res)))

	return res, nil
}

// TrimBatch trims every requested range of the video
// independently. A failing range is skipped, not fatal for
// its siblings; only the produced clips are persisted and
// returned. An error is returned when nothing succeeded.
func (m *Media) TrimBatch(ctx context.Context, videoID uuid.UUID, ranges []models.TrimRange) ([]models.TrimmedClip, error) {
	const op = "Media.TrimBatch"

	log := m.log.With(
		slog.String("op", op),
		slog.String("videoID", videoID.String()),
	)

	video, err := m.Video(ctx, videoID)
	if err != nil {
		return nil, err
	}

	log.Info("trimming ranges", slog.Int("count", len(ranges)))

	clips := make([]models.TrimmedClip, 0, len(ranges))
	var lastErr error

	for _, r := range ranges {
		if err := validateRange(r, video.Duration); err != nil {
			log.Warn(
				"skipping invalid range",
				slog.Float64("start", r.StartTime),
				slog.Float64("end", r.EndTime),
				sl.Err(err),
			)
			lastErr = err
			continue
		}

		clip := models.TrimmedClip{
			ID:        uuid.New(),
			VideoID:   video.ID,
			StartTime: r.StartTime,
			EndTime:   r.EndTime,
			Duration:  r.EndTime - r.StartTime,
			CreatedAt: time.Now().UTC(),
		}

		artifact, err := m.trim.Trim(video.FilePath, clip.ID, r.StartTime, r.EndTime)
		if err != nil {
			log.Warn("range trim failed", sl.Err(err))
			lastErr = err
			continue
		}
		clip.FilePath = artifact

		if err := m.storage.SaveClip(ctx, clip); err != nil {
			log.Error("failed to save clip", sl.Err(err))
			lastErr = fmt.Errorf("%s: %w", op, err)
			continue
		}

		clips = append(clips, clip)
	}

	if len(clips) == 0 && lastErr != nil {
		return nil, lastErr
	}

	log.Info("trimmed ranges", slog.Int("produced", len(clips)))

	return clips, nil
}

// Merge concatenates the clips in request order into one
// merged video. The duration is the sum of the clip durations,
// the output is never re-probed.
func (m *Media) Merge(ctx context.Context, clipIDs []uuid.UUID) (models.MergedVideo, error) {
	const op = "Media.Merge"

	log := m.log.With(
		slog.String("op", op),
	)

	if len(clipIDs) < 2 {
		log.Warn("not enough clips", slog.Int("count", len(clipIDs)))
		return models.MergedVideo{}, service.ErrNotEnoughClips
	}

	log.Info("merging clips", slog.Int("count", len(clipIDs)))

	paths := make([]string, 0, len(clipIDs))
	var duration float64

	// fetch one by one to keep the request order
	for _, id := range clipIDs {
		clip, err := m.storage.Clip(ctx, id)
		if err != nil {
			if errors.Is(err, storage.ErrClipNotFound) {
				log.Warn("clip not found", slog.String("clipID", id.String()))
				return models.MergedVideo{}, service.ErrClipNotFound
			}
			log.Error("failed to get clip", sl.Err(err))
			return models.MergedVideo{}, fmt.Errorf("%s: %w", op, err)
		}

		if clip.FilePath == "" {
			log.Warn("clip has no artifact", slog.String("clipID", id.String()))
			return models.MergedVideo{}, service.ErrClipNotReady
		}

		paths = append(paths, clip.FilePath)
		duration += clip.Duration
	}

	merged := models.MergedVideo{
		ID:        uuid.New(),
		ClipIDs:   clipIDs,
		Duration:  duration,
		CreatedAt: time.Now().UTC(),
	}

	artifact, err := m.merge.Merge(merged.ID, paths)
	if err != nil {
		log.Warn("merge failed", sl.Err(err))
		return models.MergedVideo{}, err
	}
	merged.FilePath = artifact

	if err := m.storage.SaveMerged(ctx, merged); err != nil {
		log.Error("failed to save merged video", sl.Err(err))
		return models.MergedVideo{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info(
		"merged clips",
		slog.String("id", merged.ID.String()),
		slog.Float64("duration", merged.Duration),
	)

	return merged, nil
}

// Merged returns one merged video by id.
func (m *Media) Merged(ctx context.Context, id uuid.UUID) (models.MergedVideo, error) {
	const op = "Media.Merged"

	log := m.log.With(
		slog.String("op", op),
		slog.String("id", id.String()),
	)

	merged, err := m.storage.Merged(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrMergedNotFound) {
			log.Warn("merged video not found")
			return models.MergedVideo{}, service.ErrMergedNotFound
		}
		log.Error("failed to get merged video", sl.Err(err))
		return models.MergedVideo{}, fmt.Errorf("%s: %w", op, err)
	}

	return merged, nil
}

// validateRange checks 0 <= start < end <= duration.
func validateRange(r models.TrimRange, duration float64) error {
	if r.StartTime < 0 || r.EndTime <= r.StartTime || r.EndTime > duration {
		return fmt.Errorf("%w: [%g, %g) is outside [0, %g]",
			service.ErrInvalidRange, r.StartTime, r.EndTime, duration)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}

package media

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GintGld/media-engine/internal/models"
	"github.com/GintGld/media-engine/internal/service"
	"github.com/GintGld/media-engine/internal/storage"
)

type stubStorage struct {
	videos map[uuid.UUID]models.SourceVideo
	clips  map[uuid.UUID]models.TrimmedClip

	savedClips  []models.TrimmedClip
	savedMerged []models.MergedVideo
}

func newStubStorage() *stubStorage {
	return &stubStorage{
		videos: make(map[uuid.UUID]models.SourceVideo),
		clips:  make(map[uuid.UUID]models.TrimmedClip),
	}
}

func (s *stubStorage) SaveVideo(_ context.Context, video models.SourceVideo) error {
	s.videos[video.ID] = video
	return nil
}

func (s *stubStorage) Video(_ context.Context, id uuid.UUID) (models.SourceVideo, error) {
	video, ok := s.videos[id]
	if !ok {
		return models.SourceVideo{}, storage.ErrVideoNotFound
	}
	return video, nil
}

func (s *stubStorage) AllVideos(_ context.Context) ([]models.SourceVideo, error) {
	out := make([]models.SourceVideo, 0, len(s.videos))
	for _, v := range s.videos {
		out = append(out, v)
	}
	return out, nil
}

func (s *stubStorage) SaveClip(_ context.Context, clip models.TrimmedClip) error {
	s.clips[clip.ID] = clip
	s.savedClips = append(s.savedClips, clip)
	return nil
}

func (s *stubStorage) Clip(_ context.Context, id uuid.UUID) (models.TrimmedClip, error) {
	clip, ok := s.clips[id]
	if !ok {
		return models.TrimmedClip{}, storage.ErrClipNotFound
	}
	return clip, nil
}

func (s *stubStorage) SaveMerged(_ context.Context, merged models.MergedVideo) error {
	s.savedMerged = append(s.savedMerged, merged)
	return nil
}

func (s *stubStorage) Merged(_ context.Context, id uuid.UUID) (models.MergedVideo, error) {
	for _, m := range s.savedMerged {
		if m.ID == id {
			return m, nil
		}
	}
	return models.MergedVideo{}, storage.ErrMergedNotFound
}

type stubProber struct{}

func (stubProber) Probe(io.Reader) (models.MediaInfo, error) {
	return models.MediaInfo{}, nil
}

type stubTrimmer struct {
	fail func(start, end float64) bool

	calls []string
}

func (t *stubTrimmer) Trim(srcPath string, clipID uuid.UUID, start, end float64) (string, error) {
	t.calls = append(t.calls, srcPath)
	if t.fail != nil && t.fail(start, end) {
		return "", service.ErrTrimFailed
	}
	return "/data/trim/" + clipID.String() + ".mp4", nil
}

type stubMerger struct {
	paths []string
}

func (m *stubMerger) Merge(mergeID uuid.UUID, srcPaths []string) (string, error) {
	m.paths = srcPaths
	return "/data/merged/merged_" + mergeID.String() + ".mp4", nil
}

func newTestMedia(t *testing.T, st *stubStorage, trimmer Trimmer, merger Merger) *Media {
	t.Helper()

	return New(
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		st,
		stubProber{},
		trimmer,
		merger,
		func(models.MediaInfo, models.MediaPolicy) error { return nil },
		models.MediaPolicy{MaxSizeMB: 25, MinDurationSec: 5, MaxDurationSec: 300},
		t.TempDir(),
	)
}

func seedVideo(st *stubStorage, duration float64) models.SourceVideo {
	video := models.SourceVideo{
		ID:       uuid.New(),
		Name:     "holiday.mp4",
		FilePath: "/data/source/holiday.mp4",
		Duration: duration,
	}
	st.videos[video.ID] = video
	return video
}

func TestValidateRange(t *testing.T) {
	testCases := []struct {
		desc     string
		r        models.TrimRange
		duration float64
		wantErr  bool
	}{
		{desc: "full range", r: models.TrimRange{StartTime: 0, EndTime: 120}, duration: 120},
		{desc: "inner range", r: models.TrimRange{StartTime: 10, EndTime: 20}, duration: 120},
		{desc: "negative start", r: models.TrimRange{StartTime: -1, EndTime: 10}, duration: 120, wantErr: true},
		{desc: "end equals start", r: models.TrimRange{StartTime: 10, EndTime: 10}, duration: 120, wantErr: true},
		{desc: "end before start", r: models.TrimRange{StartTime: 20, EndTime: 10}, duration: 120, wantErr: true},
		{desc: "end past duration", r: models.TrimRange{StartTime: 0, EndTime: 120.5}, duration: 120, wantErr: true},
	}

	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			err := validateRange(tC.r, tC.duration)
			if tC.wantErr {
				assert.ErrorIs(t, err, service.ErrInvalidRange)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTrimBatch(t *testing.T) {
	ctx := context.Background()

	t.Run("all ranges succeed", func(t *testing.T) {
		st := newStubStorage()
		trimmer := &stubTrimmer{}
		m := newTestMedia(t, st, trimmer, &stubMerger{})

		video := seedVideo(st, 120)

		clips, err := m.TrimBatch(ctx, video.ID, []models.TrimRange{
			{StartTime: 0, EndTime: 10},
			{StartTime: 10, EndTime: 25},
		})
		require.NoError(t, err)
		require.Len(t, clips, 2)

		assert.Equal(t, 10.0, clips[0].Duration)
		assert.Equal(t, 15.0, clips[1].Duration)
		assert.Equal(t, video.ID, clips[0].VideoID)
		assert.NotEmpty(t, clips[0].FilePath)
		assert.Len(t, st.savedClips, 2)
		assert.Equal(t, []string{video.FilePath, video.FilePath}, trimmer.calls)
	})

	t.Run("failing range is skipped", func(t *testing.T) {
		st := newStubStorage()
		trimmer := &stubTrimmer{
			fail: func(start, _ float64) bool { return start == 10 },
		}
		m := newTestMedia(t, st, trimmer, &stubMerger{})

		video := seedVideo(st, 120)

		clips, err := m.TrimBatch(ctx, video.ID, []models.TrimRange{
			{StartTime: 0, EndTime: 10},
			{StartTime: 10, EndTime: 25},
		})
		require.NoError(t, err)
		require.Len(t, clips, 1)
		assert.Equal(t, 0.0, clips[0].StartTime)
	})

	t.Run("invalid range is skipped", func(t *testing.T) {
		st := newStubStorage()
		m := newTestMedia(t, st, &stubTrimmer{}, &stubMerger{})

		video := seedVideo(st, 120)

		clips, err := m.TrimBatch(ctx, video.ID, []models.TrimRange{
			{StartTime: 0, EndTime: 500},
			{StartTime: 10, EndTime: 25},
		})
		require.NoError(t, err)
		require.Len(t, clips, 1)
		assert.Len(t, st.savedClips, 1)
	})

	t.Run("nothing succeeds", func(t *testing.T) {
		st := newStubStorage()
		m := newTestMedia(t, st, &stubTrimmer{}, &stubMerger{})

		video := seedVideo(st, 120)

		_, err := m.TrimBatch(ctx, video.ID, []models.TrimRange{
			{StartTime: -1, EndTime: 10},
		})
		assert.ErrorIs(t, err, service.ErrInvalidRange)
	})

	t.Run("unknown video", func(t *testing.T) {
		st := newStubStorage()
		m := newTestMedia(t, st, &stubTrimmer{}, &stubMerger{})

		_, err := m.TrimBatch(ctx, uuid.New(), []models.TrimRange{
			{StartTime: 0, EndTime: 10},
		})
		assert.ErrorIs(t, err, service.ErrVideoNotFound)
	})
}

func TestMerge(t *testing.T) {
	ctx := context.Background()

	seedClip := func(st *stubStorage, duration float64, path string) uuid.UUID {
		clip := models.TrimmedClip{
			ID:       uuid.New(),
			Duration: duration,
			FilePath: path,
		}
		st.clips[clip.ID] = clip
		return clip.ID
	}

	t.Run("order and duration", func(t *testing.T) {
		st := newStubStorage()
		merger := &stubMerger{}
		m := newTestMedia(t, st, &stubTrimmer{}, merger)

		first := seedClip(st, 10, "/data/trim/first.mp4")
		second := seedClip(st, 15.5, "/data/trim/second.mp4")

		merged, err := m.Merge(ctx, []uuid.UUID{second, first})
		require.NoError(t, err)

		assert.Equal(t, 25.5, merged.Duration)
		assert.Equal(t, []uuid.UUID{second, first}, merged.ClipIDs)
		assert.Equal(t, []string{"/data/trim/second.mp4", "/data/trim/first.mp4"}, merger.paths)
		require.Len(t, st.savedMerged, 1)
		assert.Equal(t, merged.ID, st.savedMerged[0].ID)
	})

	t.Run("same clip twice", func(t *testing.T) {
		st := newStubStorage()
		merger := &stubMerger{}
		m := newTestMedia(t, st, &stubTrimmer{}, merger)

		clip := seedClip(st, 10, "/data/trim/clip.mp4")

		merged, err := m.Merge(ctx, []uuid.UUID{clip, clip})
		require.NoError(t, err)

		assert.Equal(t, 20.0, merged.Duration)
		assert.Len(t, merger.paths, 2)
	})

	t.Run("not enough clips", func(t *testing.T) {
		st := newStubStorage()
		m := newTestMedia(t, st, &stubTrimmer{}, &stubMerger{})

		clip := seedClip(st, 10, "/data/trim/clip.mp4")

		_, err := m.Merge(ctx, []uuid.UUID{clip})
		assert.ErrorIs(t, err, service.ErrNotEnoughClips)
	})

	t.Run("unknown clip", func(t *testing.T) {
		st := newStubStorage()
		m := newTestMedia(t, st, &stubTrimmer{}, &stubMerger{})

		clip := seedClip(st, 10, "/data/trim/clip.mp4")

		_, err := m.Merge(ctx, []uuid.UUID{clip, uuid.New()})
		assert.ErrorIs(t, err, service.ErrClipNotFound)
	})

	t.Run("clip without artifact", func(t *testing.T) {
		st := newStubStorage()
		m := newTestMedia(t, st, &stubTrimmer{}, &stubMerger{})

		ready := seedClip(st, 10, "/data/trim/ready.mp4")
		pending := seedClip(st, 10, "")

		_, err := m.Merge(ctx, []uuid.UUID{ready, pending})
		assert.ErrorIs(t, err, service.ErrClipNotReady)
	})
}

func TestUploadRejectedByPolicy(t *testing.T) {
	st := newStubStorage()

	m := New(
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		st,
		stubProber{},
		&stubTrimmer{},
		&stubMerger{},
		func(models.MediaInfo, models.MediaPolicy) error {
			return service.ErrSizeExceeded
		},
		models.MediaPolicy{},
		t.TempDir(),
	)

	tmp := filepath.Join(t.TempDir(), "upload.mp4")
	require.NoError(t, writeStub(tmp))

	_, err := m.Upload(context.Background(), tmp, "upload.mp4")
	assert.ErrorIs(t, err, service.ErrSizeExceeded)
	assert.Empty(t, st.videos)
}

func writeStub(path string) error {
	return os.WriteFile(path, []byte("stub"), 0666)
}

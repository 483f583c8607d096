package models

import (
	"time"

	"github.com/google/uuid"
)

// SourceVideo is an uploaded video with its probed
// parameters. FileSizeMB and DurationSec are set once,
// together with the record, and never recomputed.
type SourceVideo struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	FilePath   string    `json:"-"`
	FileSizeMB float64   `json:"file_size"`
	Duration   float64   `json:"duration"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// TrimmedClip is a sub-range cut out of a SourceVideo.
// FilePath is empty for a failed or in-flight trim;
// such clips must not be merged.
type TrimmedClip struct {
	ID        uuid.UUID `json:"id"`
	VideoID   uuid.UUID `json:"video_id"`
	StartTime float64   `json:"start_time"`
	EndTime   float64   `json:"end_time"`
	Duration  float64   `json:"duration"`
	FilePath  string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// MergedVideo is a concatenation of at least two clips.
// ClipIDs keeps the request order; Duration is the sum
// of the clip durations, never re-probed.
type MergedVideo struct {
	ID        uuid.UUID   `json:"id"`
	ClipIDs   []uuid.UUID `json:"clip_ids"`
	Duration  float64     `json:"duration"`
	FilePath  string      `json:"-"`
	CreatedAt time.Time   `json:"created_at"`
}

// MediaInfo is the result of probing a raw upload.
type MediaInfo struct {
	FileSizeMB  float64
	DurationSec float64
}

// MediaPolicy holds the externally configured upload limits.
type MediaPolicy struct {
	MaxSizeMB      float64
	MinDurationSec float64
	MaxDurationSec float64
}

// TrimRange is one requested cut, validated against
// the parent video duration before trimming.
type TrimRange struct {
	StartTime float64 `json:"start_time" validate:"gte=0"`
	EndTime   float64 `json:"end_time" validate:"gtfield=StartTime"`
}

type VideoFilter struct {
	Name       string
	MaxRespLen int
}

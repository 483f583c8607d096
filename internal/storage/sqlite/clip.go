package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"

	"github.com/GintGld/media-engine/internal/models"
	"github.com/GintGld/media-engine/internal/storage"
)

// SaveClip saves a trimmed clip. An empty FilePath is stored
// as NULL and marks a clip that must not be merged.
func (s *Storage) SaveClip(ctx context.Context, clip models.TrimmedClip) error {
	const op = "storage.sqlite.SaveClip"

	stmt, err := s.db.Prepare(`
		INSERT INTO trimmed_clips(id, video_id, start_sec, end_sec, duration_sec, file_path, created_at)
		VALUES(?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer stmt.Close()

	var filePath sql.NullString
	if clip.FilePath != "" {
		filePath = sql.NullString{String: clip.FilePath, Valid: true}
	}

	_, err = stmt.ExecContext(ctx,
		clip.ID.String(),
		clip.VideoID.String(),
		clip.StartTime,
		clip.EndTime,
		clip.Duration,
		filePath,
		clip.CreatedAt,
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey {
			return fmt.Errorf("%s: %w", op, storage.ErrClipExists)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Clip returns clip by id.
func (s *Storage) Clip(ctx context.Context, id uuid.UUID) (models.TrimmedClip, error) {
	const op = "storage.sqlite.Clip"

	stmt, err := s.db.Prepare(`
		SELECT id, video_id, start_sec, end_sec, duration_sec, file_path, created_at
		FROM trimmed_clips WHERE id = ?
	`)
	if err != nil {
		return models.TrimmedClip{}, fmt.Errorf("%s: %w", op, err)
	}
	defer stmt.Close()

	row := stmt.QueryRowContext(ctx, id.String())

	var (
		clip      models.TrimmedClip
		clipID    string
		videoID   string
		filePath  sql.NullString
		createdAt time.Time
	)

	err = row.Scan(&clipID, &videoID, &clip.StartTime, &clip.EndTime, &clip.Duration, &filePath, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.TrimmedClip{}, fmt.Errorf("%s: %w", op, storage.ErrClipNotFound)
		}

		return models.TrimmedClip{}, fmt.Errorf("%s: %w", op, err)
	}

	if clip.ID, err = uuid.Parse(clipID); err != nil {
		return models.TrimmedClip{}, fmt.Errorf("%s: %w", op, err)
	}
	if clip.VideoID, err = uuid.Parse(videoID); err != nil {
		return models.TrimmedClip{}, fmt.Errorf("%s: %w", op, err)
	}

	clip.FilePath = filePath.String
	clip.CreatedAt = createdAt

	return clip, nil
}

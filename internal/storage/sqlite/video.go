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

// SaveVideo saves a validated upload. Probed size and
// duration are written with the row, write-once.
func (s *Storage) SaveVideo(ctx context.Context, video models.SourceVideo) error {
	const op = "storage.sqlite.SaveVideo"

	stmt, err := s.db.Prepare(`
		INSERT INTO source_videos(id, name, file_path, file_size_mb, duration_sec, uploaded_at)
		VALUES(?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer stmt.Close()

	_, err = stmt.ExecContext(ctx,
		video.ID.String(),
		video.Name,
		video.FilePath,
		video.FileSizeMB,
		video.Duration,
		video.UploadedAt,
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey {
			return fmt.Errorf("%s: %w", op, storage.ErrVideoExists)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Video returns video by id.
func (s *Storage) Video(ctx context.Context, id uuid.UUID) (models.SourceVideo, error) {
	const op = "storage.sqlite.Video"

	stmt, err := s.db.Prepare(`
		SELECT id, name, file_path, file_size_mb, duration_sec, uploaded_at
		FROM source_videos WHERE id = ?
	`)
	if err != nil {
		return models.SourceVideo{}, fmt.Errorf("%s: %w", op, err)
	}
	defer stmt.Close()

	row := stmt.QueryRowContext(ctx, id.String())

	video, err := scanVideo(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.SourceVideo{}, fmt.Errorf("%s: %w", op, storage.ErrVideoNotFound)
		}

		return models.SourceVideo{}, fmt.Errorf("%s: %w", op, err)
	}

	return video, nil
}

// AllVideos returns the whole library.
func (s *Storage) AllVideos(ctx context.Context) ([]models.SourceVideo, error) {
	const op = "storage.sqlite.AllVideos"

	stmt, err := s.db.Prepare(`
		SELECT id, name, file_path, file_size_mb, duration_sec, uploaded_at
		FROM source_videos ORDER BY uploaded_at DESC
	`)
	if err != nil {
		return []models.SourceVideo{}, fmt.Errorf("%s: %w", op, err)
	}
	defer stmt.Close()

	rows, err := stmt.QueryContext(ctx)
	if err != nil {
		return []models.SourceVideo{}, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	videos := make([]models.SourceVideo, 0)
	for rows.Next() {
		video, err := scanVideo(rows)
		if err != nil {
			return videos, fmt.Errorf("%s: %w", op, err)
		}
		videos = append(videos, video)
	}

	return videos, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVideo(row rowScanner) (models.SourceVideo, error) {
	var (
		video      models.SourceVideo
		id         string
		uploadedAt time.Time
	)

	if err := row.Scan(&id, &video.Name, &video.FilePath, &video.FileSizeMB, &video.Duration, &uploadedAt); err != nil {
		return models.SourceVideo{}, err
	}

	parsed, err := uuid.Parse(id)
	if err != nil {
		return models.SourceVideo{}, err
	}

	video.ID = parsed
	video.UploadedAt = uploadedAt

	return video, nil
}

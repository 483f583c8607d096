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

// SaveMerged saves a merged video together with its ordered
// member list in one transaction.
func (s *Storage) SaveMerged(ctx context.Context, merged models.MergedVideo) error {
	const op = "storage.sqlite.SaveMerged"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO merged_videos(id, file_path, duration_sec, created_at)
		VALUES(?, ?, ?, ?)
	`,
		merged.ID.String(),
		merged.FilePath,
		merged.Duration,
		merged.CreatedAt,
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey {
			return fmt.Errorf("%s: %w", op, storage.ErrMergedExists)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	for pos, clipID := range merged.ClipIDs {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO merged_video_clips(merged_id, clip_id, position)
			VALUES(?, ?, ?)
		`,
			merged.ID.String(),
			clipID.String(),
			pos,
		)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Merged returns merged video by id with its member
// clips in concatenation order.
func (s *Storage) Merged(ctx context.Context, id uuid.UUID) (models.MergedVideo, error) {
	const op = "storage.sqlite.Merged"

	row := s.db.QueryRowContext(ctx, `
		SELECT id, file_path, duration_sec, created_at
		FROM merged_videos WHERE id = ?
	`, id.String())

	var (
		merged    models.MergedVideo
		mergedID  string
		createdAt time.Time
	)

	err := row.Scan(&mergedID, &merged.FilePath, &merged.Duration, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.MergedVideo{}, fmt.Errorf("%s: %w", op, storage.ErrMergedNotFound)
		}

		return models.MergedVideo{}, fmt.Errorf("%s: %w", op, err)
	}

	if merged.ID, err = uuid.Parse(mergedID); err != nil {
		return models.MergedVideo{}, fmt.Errorf("%s: %w", op, err)
	}
	merged.CreatedAt = createdAt

	rows, err := s.db.QueryContext(ctx, `
		SELECT clip_id FROM merged_video_clips
		WHERE merged_id = ? ORDER BY position
	`, id.String())
	if err != nil {
		return models.MergedVideo{}, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	for rows.Next() {
		var clipID string
		if err := rows.Scan(&clipID); err != nil {
			return models.MergedVideo{}, fmt.Errorf("%s: %w", op, err)
		}

		parsed, err := uuid.Parse(clipID)
		if err != nil {
			return models.MergedVideo{}, fmt.Errorf("%s: %w", op, err)
		}
		merged.ClipIDs = append(merged.ClipIDs, parsed)
	}

	return merged, nil
}

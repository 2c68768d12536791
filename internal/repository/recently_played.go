package repository

import (
	"context"
	"fmt"

	"github.com/actuallystonmai/moodtune-service/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

func (r *Repository) ListRecentlyPlayed(ctx context.Context, userID string, limit int) ([]domain.RecentlyPlayed, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT user_id, filename, title, artist, language, emotion, source, played_at
		FROM recently_played
		WHERE user_id = $1
		ORDER BY played_at DESC
		LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("get recently played for user %s: %w", userID, err)
	}
	defer rows.Close()

	items := []domain.RecentlyPlayed{}
	for rows.Next() {
		var item domain.RecentlyPlayed
		var emotion pgtype.Text
		if err := rows.Scan(&item.UserID, &item.Filename, &item.Title, &item.Artist,
			&item.Language, &emotion, &item.Source, &item.PlayedAt); err != nil {
			return nil, fmt.Errorf("scan recently played item: %w", err)
		}
		item.Emotion = emotion.String
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate over recently played items: %w", err)
	}
	return items, nil
}

// AddRecentlyPlayed replaces any earlier play of the same file, inserts
// the new play and keeps only the newest keep entries for the user.
func (r *Repository) AddRecentlyPlayed(ctx context.Context, item domain.RecentlyPlayed, keep int) error {
	emotion := pgtype.Text{String: item.Emotion, Valid: item.Emotion != ""}

	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`DELETE FROM recently_played WHERE user_id = $1 AND filename = $2`,
			item.UserID, item.Filename,
		); err != nil {
			return fmt.Errorf("remove previous play: %w", err)
		}

		if _, err := tx.Exec(ctx,
			`INSERT INTO recently_played (user_id, filename, title, artist, language, emotion, source, played_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			item.UserID, item.Filename, item.Title, item.Artist, item.Language, emotion, item.Source, item.PlayedAt,
		); err != nil {
			return fmt.Errorf("insert play: %w", err)
		}

		if _, err := tx.Exec(ctx,
			`DELETE FROM recently_played
			WHERE user_id = $1 AND id NOT IN (
				SELECT id FROM recently_played WHERE user_id = $1 ORDER BY played_at DESC LIMIT $2
			)`,
			item.UserID, keep,
		); err != nil {
			return fmt.Errorf("trim plays: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("add recently played for user %s: %w", item.UserID, err)
	}
	return nil
}

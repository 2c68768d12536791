package repository

import (
	"context"
	"fmt"

	"github.com/actuallystonmai/moodtune-service/internal/domain"
)

// MaxCatalogSize bounds a single snapshot read.
const MaxCatalogSize = 10000

// ListSongs returns a snapshot of the catalog. Feature documents are
// returned as stored; coercion happens in the catalog package.
func (r *Repository) ListSongs(ctx context.Context) ([]domain.CatalogRecord, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id::text, title, artist, album, features
		FROM songs
		ORDER BY id
		LIMIT $1`, MaxCatalogSize,
	)
	if err != nil {
		return nil, fmt.Errorf("query songs: %w", err)
	}
	defer rows.Close()

	var items []domain.CatalogRecord
	for rows.Next() {
		var rec domain.CatalogRecord
		if err := rows.Scan(&rec.ID, &rec.Title, &rec.Artist, &rec.Album, &rec.Features); err != nil {
			return nil, fmt.Errorf("scan song: %w", err)
		}
		items = append(items, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate over songs: %w", err)
	}
	return items, nil
}

// Count total songs
func (r *Repository) CountSongs(ctx context.Context) (int, error) {
	var total int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM songs`,
	).Scan(&total)

	if err != nil {
		return 0, fmt.Errorf("count songs: %w", err)
	}
	return total, nil
}

// SampleSongs picks up to n random songs for diagnostics.
func (r *Repository) SampleSongs(ctx context.Context, n int) ([]domain.CatalogRecord, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id::text, title, artist FROM songs ORDER BY random() LIMIT $1`, n,
	)
	if err != nil {
		return nil, fmt.Errorf("sample songs: %w", err)
	}
	defer rows.Close()

	var items []domain.CatalogRecord
	for rows.Next() {
		var rec domain.CatalogRecord
		if err := rows.Scan(&rec.ID, &rec.Title, &rec.Artist); err != nil {
			return nil, fmt.Errorf("scan sample song: %w", err)
		}
		items = append(items, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sample songs: %w", err)
	}
	return items, nil
}

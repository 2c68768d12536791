package repository

import "github.com/jackc/pgx/v5/pgxpool"

// Repository reads and writes the song catalog and play log in Postgres.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

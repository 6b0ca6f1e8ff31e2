package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rotafrete/contabil_backend/internal/core/ports"
)

// NewRepositories wires every repository to the shared connection pool.
func NewRepositories(pool *pgxpool.Pool) *ports.Repositories {
	return &ports.Repositories{
		Account:   newPgxAccountRepository(pool),
		Journal:   newPgxJournalRepository(pool),
		Apuration: newPgxApurationRepository(pool),
	}
}

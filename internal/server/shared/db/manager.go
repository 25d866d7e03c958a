package db

import (
	"context"
	"database/sql"

	"github.com/medledger/gateway/internal/server/journal"
)

type RepositoryManager interface {
	RunMigrations(context.Context) error
	Conn() *sql.DB
	Journal() journal.Repository
}

package sqlite

import (
	"log/slog"

	"github.com/garnizeh/jobtracker/internal/db"
	"github.com/garnizeh/jobtracker/pkg/repository"
)

// SQLiteRepo implements repository interfaces using the internal DB wrapper.
// Every mutating method is a single statement in autocommit mode, so each one
// is exactly one durable commit.
type SQLiteRepo struct {
	conn   *db.DB
	logger *slog.Logger
}

// Ensure SQLiteRepo implements the public interfaces.
var _ repository.ApplicationRepo = (*SQLiteRepo)(nil)

func New(conn *db.DB, logger *slog.Logger) *SQLiteRepo {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SQLiteRepo{conn: conn, logger: logger}
}

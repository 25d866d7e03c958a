package journal

import (
	"context"
	"database/sql"
	"fmt"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) (*PostgresRepository, error) {
	return &PostgresRepository{db: db}, nil
}

func (r *PostgresRepository) Append(ctx context.Context, sub *Submission) error {

	query :=
		`INSERT INTO ledger_submissions (id, method, patient_address, tx_hash, submitted_at)
		 VALUES ($1, $2, $3, $4, $5)
		 `

	_, err := r.db.ExecContext(ctx, query, sub.ID, sub.Method, sub.PatientAddress, sub.TxHash, sub.SubmittedAt)

	if err != nil {
		return fmt.Errorf("error performing sql request: %v", err)
	}

	return nil
}

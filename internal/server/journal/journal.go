// Package journal keeps an append-only audit trail of ledger writes the
// gateway has submitted. It records what was sent, never ledger state, and
// is optional: a nil Repository disables it.
package journal

import (
	"context"
	"time"
)

// Submission is one write handed to the ledger: who it was for, which
// contract method, and the transaction hash the node returned.
type Submission struct {
	ID             string
	Method         string
	PatientAddress string
	TxHash         string
	SubmittedAt    time.Time
}

type Repository interface {
	Append(ctx context.Context, sub *Submission) error
}

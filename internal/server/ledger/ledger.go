// Package ledger speaks JSON-RPC to the node hosting the medical record
// contract. Reads go through eth_call, writes through eth_sendTransaction
// signed node-side by the unlocked account of the patient. The package owns
// the contract ABI and converts between Go values and the contract's
// fixed-point/integer field layout.
package ledger

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
)

// PatientState mirrors the contract's record layout for one identity.
// Temperatures are integer centidegrees, exactly as stored on the ledger;
// decoding to degrees is the caller's concern.
type PatientState struct {
	Name               string
	MedicalFolder      string
	PhoneNumber        string
	Email              string
	Age                uint64
	Gender             string
	MedicalDescription string
	Temperatures       []int64
	Timestamps         []int64
}

// Registration carries the demographic fields accepted by registerPatient
// and updatePatientInfo. Zero values are what the contract stores for
// omitted fields.
type Registration struct {
	Name               string
	MedicalFolder      string
	PhoneNumber        string
	Email              string
	Age                uint64
	Gender             string
	MedicalDescription string
}

// Ledger is the read/write surface of the medical record contract.
//
// Reads are side-effect free and may be retried by callers. Writes submit
// one transaction each and must never be retried automatically: a repeated
// submission is a new transaction.
type Ledger interface {
	// Accounts enumerates the known-identity set. The returned order is
	// the node's enumeration order and is authoritative for aggregates.
	Accounts(ctx context.Context) ([]common.Address, error)

	// PatientExists reports the on-ledger existence flag, distinguishing
	// "never registered" from "registered with default values".
	PatientExists(ctx context.Context, patient common.Address) (bool, error)

	// GetPatient returns the full record, including temperature history.
	GetPatient(ctx context.Context, patient common.Address) (*PatientState, error)

	// SearchPatient asks the contract to match on name and optional
	// folder. A miss is reported as common.ErrorNotFound.
	SearchPatient(ctx context.Context, from common.Address, name, folder string) (*PatientState, error)

	// RegisterPatient creates the record. Returns the transaction hash.
	RegisterPatient(ctx context.Context, from common.Address, reg Registration) (string, error)

	// RecordTemperature appends one history entry. The ledger assigns the
	// timestamp (block time); the gateway never fabricates one.
	RecordTemperature(ctx context.Context, from common.Address, centidegrees int64) (string, error)

	// UpdatePatientInfo overwrites demographic fields only; temperature
	// history is untouched by the contract.
	UpdatePatientInfo(ctx context.Context, from common.Address, reg Registration) (string, error)
}

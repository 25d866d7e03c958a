// Package patients implements the record operations of the gateway: single
// identity reads and writes against the ledger contract, plus the
// aggregate scan over the known-identity set. The service holds no record
// state; every call reads the ledger fresh.
package patients

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"

	gwcommon "github.com/medledger/gateway/internal/common"
	"github.com/medledger/gateway/internal/logging"
	sc "github.com/medledger/gateway/internal/server/config"
	"github.com/medledger/gateway/internal/server/identity"
	"github.com/medledger/gateway/internal/server/journal"
	"github.com/medledger/gateway/internal/server/ledger"
	"github.com/medledger/gateway/internal/server/vitals"
)

// Record is the API-facing shape of one patient. Temperatures are decimal
// degrees; timestamps are ledger-assigned epoch seconds, index-aligned
// with temperatures.
type Record struct {
	Address            string    `json:"address,omitempty"`
	Name               string    `json:"name"`
	MedicalFolder      string    `json:"medicalFolder"`
	PhoneNumber        string    `json:"phoneNumber"`
	Email              string    `json:"email"`
	Age                uint64    `json:"age"`
	Gender             string    `json:"gender"`
	MedicalDescription string    `json:"medicalDescription"`
	Temperatures       []float64 `json:"temperatures"`
	Timestamps         []int64   `json:"timestamps"`
}

// Registration carries the demographic fields of a registration or update.
// Omitted optional fields keep their zero values, which is exactly what
// the ledger stores for them.
type Registration struct {
	Name               string `json:"name"`
	MedicalFolder      string `json:"medicalFolder"`
	PhoneNumber        string `json:"phoneNumber"`
	Email              string `json:"email"`
	Age                uint64 `json:"age"`
	Gender             string `json:"gender"`
	MedicalDescription string `json:"medicalDescription"`
}

// Receipt references a submitted ledger transaction.
type Receipt struct {
	TxHash  string
	Address string
}

type Service struct {
	ledger  ledger.Ledger
	journal journal.Repository // nil when journaling is disabled
	config  *sc.Config
	logger  logging.Logger
}

func NewService(l ledger.Ledger, j journal.Repository, config *sc.Config, logger logging.Logger) *Service {
	return &Service{
		ledger:  l,
		journal: j,
		config:  config,
		logger:  logger.With("module", "patients"),
	}
}

// callCtx caps one gateway operation with the configured ledger deadline.
func (s *Service) callCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.config.LedgerCallTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.config.LedgerCallTimeout)
}

// readRetry retries ledger-level read failures with a short constant
// backoff. Reads are side-effect free, so this is safe; writes never go
// through here.
func (s *Service) readRetry(ctx context.Context, op func(ctx context.Context) error) error {
	backoff := retry.WithMaxRetries(2, retry.NewConstant(200*time.Millisecond))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := op(ctx)
		var lerr *ledger.Error
		if errors.As(err, &lerr) {
			return retry.RetryableError(err)
		}
		return err
	})
}

func (s *Service) knownAccounts(ctx context.Context) ([]common.Address, error) {
	var accounts []common.Address
	err := s.readRetry(ctx, func(ctx context.Context) error {
		var err error
		accounts, err = s.ledger.Accounts(ctx)
		return err
	})
	return accounts, err
}

// requireKnown runs both identity checks: syntactic validation first, then
// membership in the known-account set, refreshed from the ledger for this
// call. No ledger transaction is ever issued for an identity that fails
// either check.
func (s *Service) requireKnown(ctx context.Context, address string) (common.Address, error) {
	addr, err := identity.Parse(address)
	if err != nil {
		return common.Address{}, err
	}

	known, err := s.knownAccounts(ctx)
	if err != nil {
		return common.Address{}, err
	}
	if !identity.IsKnown(addr, known) {
		return common.Address{}, &gwcommon.UnknownIdentityError{Address: addr.Hex(), Known: identity.Hex(known)}
	}
	return addr, nil
}

func (s *Service) journalSubmission(ctx context.Context, method, patientAddress, txHash string) {
	if s.journal == nil {
		return
	}
	sub := &journal.Submission{
		ID:             uuid.NewString(),
		Method:         method,
		PatientAddress: patientAddress,
		TxHash:         txHash,
		SubmittedAt:    time.Now().UTC(),
	}
	if err := s.journal.Append(ctx, sub); err != nil {
		// the journal is advisory, a failed append never fails the request
		s.logger.Warn(ctx, "journal append failed", "method", method, "tx", txHash, "error", err.Error())
	}
}

// Accounts returns the known-identity set as hex strings, in the ledger's
// enumeration order.
func (s *Service) Accounts(ctx context.Context) ([]string, error) {
	ctx, cancel := s.callCtx(ctx)
	defer cancel()

	known, err := s.knownAccounts(ctx)
	if err != nil {
		return nil, err
	}
	return identity.Hex(known), nil
}

// Register creates the patient record in a single ledger transaction.
func (s *Service) Register(ctx context.Context, address string, reg Registration) (*Receipt, error) {
	if strings.TrimSpace(reg.Name) == "" || strings.TrimSpace(address) == "" {
		return nil, fmt.Errorf("%w: name and address are required", gwcommon.ErrorMissingField)
	}

	ctx, cancel := s.callCtx(ctx)
	defer cancel()

	addr, err := s.requireKnown(ctx, address)
	if err != nil {
		return nil, err
	}

	tx, err := s.ledger.RegisterPatient(ctx, addr, toLedgerRegistration(reg))
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "patient registered", "address", addr.Hex(), "tx", tx)
	s.journalSubmission(ctx, "registerPatient", addr.Hex(), tx)

	return &Receipt{TxHash: tx, Address: addr.Hex()}, nil
}

// RecordTemperature encodes the reading to centidegrees and appends it in
// a single ledger transaction. The ledger assigns the timestamp.
func (s *Service) RecordTemperature(ctx context.Context, address string, degrees float64) (*Receipt, error) {
	if strings.TrimSpace(address) == "" {
		return nil, fmt.Errorf("%w: address is required", gwcommon.ErrorMissingField)
	}

	ctx, cancel := s.callCtx(ctx)
	defer cancel()

	addr, err := s.requireKnown(ctx, address)
	if err != nil {
		return nil, err
	}

	tx, err := s.ledger.RecordTemperature(ctx, addr, vitals.EncodeTemperature(degrees))
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "temperature recorded", "address", addr.Hex(), "tx", tx)
	s.journalSubmission(ctx, "recordTemperature", addr.Hex(), tx)

	return &Receipt{TxHash: tx, Address: addr.Hex()}, nil
}

// Get returns the full record for one identity. The existence flag is
// checked first: an unregistered identity yields ErrorNotFound, never a
// zero-valued record.
func (s *Service) Get(ctx context.Context, address string) (*Record, error) {
	ctx, cancel := s.callCtx(ctx)
	defer cancel()

	addr, err := s.requireKnown(ctx, address)
	if err != nil {
		return nil, err
	}

	var exists bool
	err = s.readRetry(ctx, func(ctx context.Context) error {
		var err error
		exists, err = s.ledger.PatientExists(ctx, addr)
		return err
	})
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, gwcommon.ErrorNotFound
	}

	var state *ledger.PatientState
	err = s.readRetry(ctx, func(ctx context.Context) error {
		var err error
		state, err = s.ledger.GetPatient(ctx, addr)
		return err
	})
	if err != nil {
		return nil, err
	}

	return recordFromState(addr.Hex(), state), nil
}

// Update overwrites demographic fields in a single ledger transaction.
// Temperature history is not accepted and not altered.
func (s *Service) Update(ctx context.Context, address string, reg Registration) (*Receipt, error) {
	ctx, cancel := s.callCtx(ctx)
	defer cancel()

	addr, err := s.requireKnown(ctx, address)
	if err != nil {
		return nil, err
	}

	tx, err := s.ledger.UpdatePatientInfo(ctx, addr, toLedgerRegistration(reg))
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "patient updated", "address", addr.Hex(), "tx", tx)
	s.journalSubmission(ctx, "updatePatientInfo", addr.Hex(), tx)

	return &Receipt{TxHash: tx, Address: addr.Hex()}, nil
}

// List scans the known-identity set, probing each identity and collecting
// the registered ones in enumeration order. Identities that fail the probe
// or the read are skipped, never failing the aggregate. The ledger has no
// secondary index, so this is O(n) ledger calls per invocation and is
// re-scanned from scratch every time; that rescan is the documented
// scaling ceiling of the listing.
func (s *Service) List(ctx context.Context) ([]*Record, error) {
	ctx, cancel := s.callCtx(ctx)
	defer cancel()

	known, err := s.knownAccounts(ctx)
	if err != nil {
		return nil, err
	}

	records := make([]*Record, 0, len(known))
	for _, addr := range known {
		var exists bool
		err := s.readRetry(ctx, func(ctx context.Context) error {
			var err error
			exists, err = s.ledger.PatientExists(ctx, addr)
			return err
		})
		if err != nil {
			s.logger.Warn(ctx, "scan: skipping identity", "address", addr.Hex(), "error", err.Error())
			continue
		}
		if !exists {
			continue
		}

		var state *ledger.PatientState
		err = s.readRetry(ctx, func(ctx context.Context) error {
			var err error
			state, err = s.ledger.GetPatient(ctx, addr)
			return err
		})
		if err != nil {
			s.logger.Warn(ctx, "scan: skipping identity", "address", addr.Hex(), "error", err.Error())
			continue
		}

		records = append(records, recordFromState(addr.Hex(), state))
	}

	return records, nil
}

// Search delegates the match predicate to the ledger contract. Name is
// required; a missing name is a client error and no ledger call is made.
func (s *Service) Search(ctx context.Context, name, folder string) (*Record, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: name is required for search", gwcommon.ErrorMissingField)
	}

	ctx, cancel := s.callCtx(ctx)
	defer cancel()

	known, err := s.knownAccounts(ctx)
	if err != nil {
		return nil, err
	}
	if len(known) == 0 {
		return nil, fmt.Errorf("no ledger accounts available to query from")
	}

	var state *ledger.PatientState
	err = s.readRetry(ctx, func(ctx context.Context) error {
		var err error
		state, err = s.ledger.SearchPatient(ctx, known[0], name, folder)
		return err
	})
	if err != nil {
		return nil, err
	}

	// the contract's search result carries no address
	return recordFromState("", state), nil
}

func toLedgerRegistration(reg Registration) ledger.Registration {
	return ledger.Registration{
		Name:               reg.Name,
		MedicalFolder:      reg.MedicalFolder,
		PhoneNumber:        reg.PhoneNumber,
		Email:              reg.Email,
		Age:                reg.Age,
		Gender:             reg.Gender,
		MedicalDescription: reg.MedicalDescription,
	}
}

func recordFromState(address string, state *ledger.PatientState) *Record {
	rec := &Record{
		Address:            address,
		Name:               state.Name,
		MedicalFolder:      state.MedicalFolder,
		PhoneNumber:        state.PhoneNumber,
		Email:              state.Email,
		Age:                state.Age,
		Gender:             state.Gender,
		MedicalDescription: state.MedicalDescription,
		Temperatures:       make([]float64, len(state.Temperatures)),
		Timestamps:         make([]int64, len(state.Timestamps)),
	}
	for i, centi := range state.Temperatures {
		rec.Temperatures[i] = vitals.DecodeTemperature(centi)
	}
	copy(rec.Timestamps, state.Timestamps)
	return rec
}

package ledger

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"

	gwcommon "github.com/medledger/gateway/internal/common"
)

// Gas caps per write, matching the contract's deployment profile.
const (
	gasRegister          = 3_000_000
	gasUpdate            = 3_000_000
	gasRecordTemperature = 200_000
)

// revert message the contract emits on a search miss
const searchMissMessage = "Patient not found"

// Client is the RPC-backed Ledger implementation. It holds no mutable
// state beyond the connection handle; all record state lives on the
// ledger.
type Client struct {
	rpc      *rpc.Client
	contract common.Address
}

var _ Ledger = (*Client)(nil)

// Dial connects to the ledger node and binds the client to the deployed
// contract address.
func Dial(ctx context.Context, rawurl string, contract common.Address) (*Client, error) {
	rc, err := rpc.DialContext(ctx, rawurl)
	if err != nil {
		return nil, wrap("dial", err)
	}
	return &Client{rpc: rc, contract: contract}, nil
}

func (c *Client) Close() {
	c.rpc.Close()
}

// callMsg is the transaction object of eth_call / eth_sendTransaction.
type callMsg struct {
	From *common.Address `json:"from,omitempty"`
	To   common.Address  `json:"to"`
	Gas  *hexutil.Uint64 `json:"gas,omitempty"`
	Data hexutil.Bytes   `json:"data"`
}

func (c *Client) Accounts(ctx context.Context) ([]common.Address, error) {
	var raw []string
	if err := c.rpc.CallContext(ctx, &raw, "eth_accounts"); err != nil {
		return nil, wrap("eth_accounts", err)
	}
	accounts := make([]common.Address, 0, len(raw))
	for _, a := range raw {
		accounts = append(accounts, common.HexToAddress(a))
	}
	return accounts, nil
}

// call packs a read, issues eth_call against the latest block and unpacks
// the outputs.
func (c *Client) call(ctx context.Context, from *common.Address, method string, args ...any) ([]any, error) {
	input, err := contractABI.Pack(method, args...)
	if err != nil {
		return nil, wrap(method, err)
	}
	msg := callMsg{From: from, To: c.contract, Data: input}

	var out hexutil.Bytes
	if err := c.rpc.CallContext(ctx, &out, "eth_call", msg, "latest"); err != nil {
		return nil, wrap(method, err)
	}

	vals, err := contractABI.Unpack(method, out)
	if err != nil {
		return nil, wrap(method, err)
	}
	return vals, nil
}

// send packs a write and submits it as a single node-signed transaction.
// No retries at this level or above: a resubmission is a new transaction
// and the caller owns that decision.
func (c *Client) send(ctx context.Context, from common.Address, gas uint64, method string, args ...any) (string, error) {
	input, err := contractABI.Pack(method, args...)
	if err != nil {
		return "", wrap(method, err)
	}
	g := hexutil.Uint64(gas)
	msg := callMsg{From: &from, To: c.contract, Gas: &g, Data: input}

	var txHash string
	if err := c.rpc.CallContext(ctx, &txHash, "eth_sendTransaction", msg); err != nil {
		return "", wrap(method, err)
	}
	return txHash, nil
}

func (c *Client) PatientExists(ctx context.Context, patient common.Address) (bool, error) {
	vals, err := c.call(ctx, nil, "patients", patient)
	if err != nil {
		return false, err
	}
	if len(vals) != 8 {
		return false, wrap("patients", fmt.Errorf("unexpected output arity %d", len(vals)))
	}
	exists, ok := vals[7].(bool)
	if !ok {
		return false, wrap("patients", fmt.Errorf("unexpected exists type %T", vals[7]))
	}
	return exists, nil
}

func (c *Client) GetPatient(ctx context.Context, patient common.Address) (*PatientState, error) {
	vals, err := c.call(ctx, nil, "getPatientData", patient)
	if err != nil {
		return nil, err
	}
	return stateFromVals("getPatientData", vals)
}

func (c *Client) SearchPatient(ctx context.Context, from common.Address, name, folder string) (*PatientState, error) {
	vals, err := c.call(ctx, &from, "searchPatient", name, folder)
	if err != nil {
		if strings.Contains(err.Error(), searchMissMessage) {
			return nil, gwcommon.ErrorNotFound
		}
		return nil, err
	}
	return stateFromVals("searchPatient", vals)
}

func (c *Client) RegisterPatient(ctx context.Context, from common.Address, reg Registration) (string, error) {
	return c.send(ctx, from, gasRegister, "registerPatient",
		reg.Name, reg.MedicalFolder, reg.PhoneNumber, reg.Email,
		new(big.Int).SetUint64(reg.Age), reg.Gender, reg.MedicalDescription)
}

func (c *Client) RecordTemperature(ctx context.Context, from common.Address, centidegrees int64) (string, error) {
	return c.send(ctx, from, gasRecordTemperature, "recordTemperature", big.NewInt(centidegrees))
}

func (c *Client) UpdatePatientInfo(ctx context.Context, from common.Address, reg Registration) (string, error) {
	return c.send(ctx, from, gasUpdate, "updatePatientInfo",
		reg.Name, reg.MedicalFolder, reg.PhoneNumber, reg.Email,
		new(big.Int).SetUint64(reg.Age), reg.Gender, reg.MedicalDescription)
}

// stateFromVals maps the unpacked getPatientData/searchPatient outputs onto
// PatientState. Output order is fixed by the ABI.
func stateFromVals(op string, vals []any) (*PatientState, error) {
	if len(vals) != 9 {
		return nil, wrap(op, fmt.Errorf("unexpected output arity %d", len(vals)))
	}

	state := &PatientState{}

	strField := func(i int, dst *string) error {
		s, ok := vals[i].(string)
		if !ok {
			return wrap(op, fmt.Errorf("output %d: expected string, got %T", i, vals[i]))
		}
		*dst = s
		return nil
	}

	for _, f := range []struct {
		idx int
		dst *string
	}{
		{0, &state.Name},
		{1, &state.MedicalFolder},
		{2, &state.PhoneNumber},
		{3, &state.Email},
		{5, &state.Gender},
		{6, &state.MedicalDescription},
	} {
		if err := strField(f.idx, f.dst); err != nil {
			return nil, err
		}
	}

	age, ok := vals[4].(*big.Int)
	if !ok {
		return nil, wrap(op, fmt.Errorf("output 4: expected *big.Int, got %T", vals[4]))
	}
	state.Age = age.Uint64()

	temps, ok := vals[7].([]*big.Int)
	if !ok {
		return nil, wrap(op, fmt.Errorf("output 7: expected []*big.Int, got %T", vals[7]))
	}
	timestamps, ok := vals[8].([]*big.Int)
	if !ok {
		return nil, wrap(op, fmt.Errorf("output 8: expected []*big.Int, got %T", vals[8]))
	}

	state.Temperatures = make([]int64, len(temps))
	for i, v := range temps {
		state.Temperatures[i] = v.Int64()
	}
	state.Timestamps = make([]int64, len(timestamps))
	for i, v := range timestamps {
		state.Timestamps[i] = v.Int64()
	}

	return state, nil
}

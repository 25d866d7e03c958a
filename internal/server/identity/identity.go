// Package identity validates ledger addresses. Both checks are pure:
// syntactic well-formedness against the canonical address format, and
// membership in a known-account set supplied by the caller.
package identity

import (
	"github.com/ethereum/go-ethereum/common"

	gwcommon "github.com/medledger/gateway/internal/common"
)

// Parse validates the canonical fixed-length hex format and returns the
// parsed address. Parsing canonicalizes case, so downstream comparisons
// are case-insensitive for free.
func Parse(address string) (common.Address, error) {
	if !common.IsHexAddress(address) {
		return common.Address{}, gwcommon.ErrorInvalidAddress
	}
	return common.HexToAddress(address), nil
}

// IsKnown reports whether addr is a member of the known-account set.
func IsKnown(addr common.Address, known []common.Address) bool {
	for _, k := range known {
		if k == addr {
			return true
		}
	}
	return false
}

// Hex renders the set as hex strings, for attaching to error responses.
func Hex(addrs []common.Address) []string {
	out := make([]string, len(addrs))
	for i, a := range addrs {
		out[i] = a.Hex()
	}
	return out
}

package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/medledger/gateway/internal/flagx"
	"github.com/medledger/gateway/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON
// unmarshalling. It uses timex.Duration for interval fields, which allows
// parsing both string values such as "15s" and integer nanoseconds.
//
// This struct is an intermediate DTO used only for reading JSON
// configuration files. After unmarshalling, its fields are copied into the
// runtime Config struct which uses time.Duration.
type JsonConfig struct {
	EndpointAddrHTTP  string         `json:"endpoint_addr_http"`
	LedgerRPCURL      string         `json:"ledger_rpc_url"`
	ContractAddress   string         `json:"contract_address"`
	LedgerCallTimeout timex.Duration `json:"ledger_call_timeout"`
	DatabaseDSN       string         `json:"database_dsn"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance.
//
// The file path is taken from the -c or -config command-line flags; if
// neither is set, no JSON file is loaded. If the file cannot be read or
// contains invalid JSON, the function panics.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	config.EndpointAddrHTTP = c.EndpointAddrHTTP
	config.LedgerRPCURL = c.LedgerRPCURL
	config.ContractAddress = c.ContractAddress
	config.LedgerCallTimeout = time.Duration(c.LedgerCallTimeout.Duration)
	config.DatabaseDSN = c.DatabaseDSN
}

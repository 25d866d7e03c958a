// Package config handles configuration for the gateway server, including
// defaults, environment variables, JSON overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings for the record gateway.
//
// Fields:
//   - EndpointAddrHTTP: bind address for the public REST endpoint.
//   - LedgerRPCURL: JSON-RPC URL of the ledger node.
//   - ContractAddress: deployed address of the medical record contract.
//   - LedgerCallTimeout: per-call deadline for ledger reads and writes.
//   - DatabaseDSN: PostgreSQL DSN for the write-audit journal; empty
//     disables journaling entirely.
type Config struct {
	EndpointAddrHTTP  string
	LedgerRPCURL      string
	ContractAddress   string
	LedgerCallTimeout time.Duration
	DatabaseDSN       string
}

// LoadDefaults populates Config with sensible development defaults.
// NOTE: These values target a local development node and should be
// overridden in any real deployment.
func (c *Config) LoadDefaults() {
	c.EndpointAddrHTTP = ":4000"
	c.LedgerRPCURL = "http://127.0.0.1:7545"
	c.ContractAddress = ""
	c.LedgerCallTimeout = 15 * time.Second
	c.DatabaseDSN = ""
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from environment variables, from an optional JSON file and finally from
// command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}

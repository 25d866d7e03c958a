package config

import (
	"os"
	"time"

	_ "github.com/joho/godotenv/autoload"
)

// parseEnv overlays Config fields from environment variables. A local .env
// file, if present, is loaded by godotenv before this runs.
//
// Recognized variables:
//
//	ADDRESS             REST bind address (e.g. ":4000")
//	LEDGER_RPC_URL      ledger node JSON-RPC URL
//	CONTRACT_ADDRESS    medical record contract address
//	LEDGER_CALL_TIMEOUT per-call deadline, Go duration syntax ("15s")
//	DATABASE_DSN        journal PostgreSQL DSN
func parseEnv(config *Config) {
	if v := os.Getenv("ADDRESS"); v != "" {
		config.EndpointAddrHTTP = v
	}
	if v := os.Getenv("LEDGER_RPC_URL"); v != "" {
		config.LedgerRPCURL = v
	}
	if v := os.Getenv("CONTRACT_ADDRESS"); v != "" {
		config.ContractAddress = v
	}
	if v := os.Getenv("LEDGER_CALL_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			config.LedgerCallTimeout = d
		}
	}
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		config.DatabaseDSN = v
	}
}

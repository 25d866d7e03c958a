package config

import (
	"flag"
	"os"
	"time"

	"github.com/medledger/gateway/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   REST bind address (e.g., ":4000")
//	-l string   ledger node JSON-RPC URL
//	-k string   medical record contract address
//	-t int      ledger call timeout, seconds
//	-d string   journal PostgreSQL DSN (empty disables the journal)
//
// Notes:
//   - The function first filters os.Args to only the flags it recognizes
//     using flagx.FilterArgs, avoiding collisions with other components.
//   - The timeout flag is accepted as an integer in seconds and converted
//     to a time.Duration.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-l", "-k", "-t", "-d"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.LedgerRPCURL, "l", config.LedgerRPCURL, "ledger node JSON-RPC URL")
	fs.StringVar(&config.ContractAddress, "k", config.ContractAddress, "medical record contract address")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "journal database DSN")

	ledgerCallTimeout := fs.Int("t", int(config.LedgerCallTimeout.Seconds()), "ledger call timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.LedgerCallTimeout = time.Duration(*ledgerCallTimeout) * time.Second
}

// Command finctl performs operator tasks against the finance database:
// creating users, resetting passwords and loading seed fixtures.
package main

import (
	"os"

	"github.com/itschristianpantilon/BarangayFinanceTrack/internal/logging"
)

func main() {
	log := logging.New("info", os.Stderr)
	if err := rootCommand(log).Execute(); err != nil {
		os.Exit(1)
	}
}

package cli

import (
	"errors"

	"github.com/buidlhub/buidl-cli/internal/domain"
)

// Process exit codes
const (
	ExitGeneric            = 1
	ExitConfiguration      = 2
	ExitArtifactMissing    = 3
	ExitTransactionFailure = 4
	ExitAddressMismatch    = 5
)

// ExitCode maps an error to the process exit code. An address mismatch wins over
// everything else since it invalidates every address handed out by the run.
func ExitCode(err error) int {
	var (
		cfgErr      *domain.ConfigurationError
		missingErr  *domain.ArtifactMissingError
		mismatchErr *domain.AddressMismatchError
		txErr       *domain.TransactionFailureError
	)
	switch {
	case err == nil:
		return 0
	case errors.As(err, &mismatchErr):
		return ExitAddressMismatch
	case errors.As(err, &txErr):
		return ExitTransactionFailure
	case errors.As(err, &missingErr):
		return ExitArtifactMissing
	case errors.As(err, &cfgErr):
		return ExitConfiguration
	default:
		return ExitGeneric
	}
}

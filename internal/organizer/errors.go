package organizer

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors used to classify failures. Callers match them with
// errors.Is; the organizer wraps them with operation context.
var (
	// ErrPath marks a fatal target-path problem: the directory is missing
	// or the path is not a directory. No run is attempted.
	ErrPath = errors.New("path error")

	// ErrConfig marks a malformed category mapping, detected before any
	// filesystem mutation.
	ErrConfig = errors.New("config error")

	// ErrCollisionExhausted marks a file whose destination name could not
	// be resolved within the collision attempt bound. Recovered per file.
	ErrCollisionExhausted = errors.New("collision attempts exhausted")

	// ErrLedgerWrite marks a failure to persist the ledger at run end.
	// Files already moved stay moved; callers should treat it as a warning.
	ErrLedgerWrite = errors.New("ledger write error")
)

// wrap tags err with marker and prepends operation context.
func wrap(marker error, op, message string, err error) error {
	detail := message
	if op = strings.TrimSpace(op); op != "" {
		detail = op + ": " + message
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

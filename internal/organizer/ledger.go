package organizer

import (
	"encoding/json"
	"os"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Outcome is the final state of a single move decision.
type Outcome string

const (
	// OutcomePlanned is recorded in dry-run mode for a move that a real
	// run would perform.
	OutcomePlanned Outcome = "planned"
	// OutcomeSuccess means the file was moved.
	OutcomeSuccess Outcome = "success"
	// OutcomeFailed means the move was attempted and failed; Error holds
	// the detail.
	OutcomeFailed Outcome = "failed"
	// OutcomeSkipped means no move was needed (already placed, or one of
	// the organizer's own artifacts).
	OutcomeSkipped Outcome = "skipped"
)

// Operation records one move decision. Exactly one Operation is appended to
// the ledger per discovered file.
type Operation struct {
	Timestamp   time.Time `json:"timestamp"`
	Action      string    `json:"action"`
	Source      string    `json:"source"`
	Destination string    `json:"destination"`
	Category    string    `json:"category,omitempty"`
	Status      Outcome   `json:"status"`
	Error       string    `json:"error,omitempty"`
}

// Ledger is the ordered, append-only record of every move decision in a run.
// It is created empty at run start and discarded after persistence; no state
// crosses run boundaries.
type Ledger []Operation

// WriteFile persists the ledger as indented JSON. Failures wrap
// ErrLedgerWrite so callers can downgrade them to warnings.
func (l Ledger) WriteFile(path string) error {
	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return wrap(ErrLedgerWrite, "encode ledger", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return wrap(ErrLedgerWrite, "write ledger", path, err)
	}
	return nil
}

// CategoryCount pairs a category with the number of files organized (or
// planned) into it.
type CategoryCount struct {
	Category string `json:"category"`
	Files    int    `json:"files"`
}

// CategorySummary derives per-category counts from the ledger, counting
// successful and planned moves. Categories are ordered by English collation
// so output is deterministic regardless of ledger order.
func (l Ledger) CategorySummary() []CategoryCount {
	counts := make(map[string]int)
	for _, op := range l {
		if op.Status == OutcomeSuccess || op.Status == OutcomePlanned {
			counts[op.Category]++
		}
	}
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	collate.New(language.English).SortStrings(names)

	out := make([]CategoryCount, 0, len(names))
	for _, name := range names {
		out = append(out, CategoryCount{Category: name, Files: counts[name]})
	}
	return out
}

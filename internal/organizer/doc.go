// Package organizer implements the classification-and-move engine: it maps
// file extensions to categories, scans a target directory with a
// snapshot-then-act discipline, resolves destination collisions without
// overwriting, and records every decision in an append-only ledger.
//
// A run is either real or a dry run. Dry runs perform no filesystem mutation
// at all; they produce the same ledger shape a real run would, with planned
// outcomes and predicted collision names.
package organizer

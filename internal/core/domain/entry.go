package domain

import (
	"fmt"
	"strconv"
)

// EntryID identifies a NumberEntry. IDs are never reused within a process,
// so an id taken from an older load never resolves against a newer pool.
type EntryID int64

// String returns the decimal form of the id.
func (id EntryID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// EntryStatus is the availability state of an entry.
type EntryStatus int

// Entry states. The only transition is Available -> Finalized.
const (
	StatusAvailable EntryStatus = iota
	StatusFinalized
)

// String returns the string representation.
func (s EntryStatus) String() string {
	switch s {
	case StatusAvailable:
		return "available"
	case StatusFinalized:
		return "finalized"
	default:
		return "unknown"
	}
}

// CellKind classifies a raw value by what its source says it is.
type CellKind int

// Cell kinds. Blank and Error cells are dropped on load without error.
const (
	CellNumber CellKind = iota
	CellText
	CellBlank
	CellError
)

// String returns the string representation.
func (k CellKind) String() string {
	switch k {
	case CellNumber:
		return "number"
	case CellText:
		return "text"
	case CellBlank:
		return "blank"
	case CellError:
		return "error"
	default:
		return "unknown"
	}
}

// Skipped reports whether values of this kind are dropped on load.
func (k CellKind) Skipped() bool {
	return k == CellBlank || k == CellError
}

// Provenance records where a value came from.
type Provenance struct {
	// Row is the 1-based source row, or 0 when not from a sheet.
	Row int

	// Column is the sheet column letter(s), e.g. "B".
	Column string

	// Label is a free-form source name (file, field).
	Label string
}

// Cell returns the sheet reference, e.g. "4B".
func (p Provenance) Cell() string {
	return strconv.Itoa(p.Row) + p.Column
}

// RawValue is one input value before parsing.
type RawValue struct {
	Text   string
	Kind   CellKind
	Source Provenance
}

// NumberEntry is one loaded number.
// Identity is by ID; two entries with equal values are distinct.
type NumberEntry struct {
	// ID is the unique stable identifier.
	ID EntryID

	// Value is the parsed value, rounded to the load precision.
	Value Amount

	// Position is the 0-based index in source order.
	Position int

	// Status is Available until the entry is finalized.
	Status EntryStatus

	// GroupID links to the FinalizedGroup, empty while available.
	GroupID string

	// Source is where the value came from.
	Source Provenance
}

// IsAvailable reports whether the entry can still be searched.
func (e NumberEntry) IsAvailable() bool {
	return e.Status == StatusAvailable
}

// DisplayLabel returns a short label for listings.
func (e NumberEntry) DisplayLabel() string {
	if e.Source.Row > 0 {
		return fmt.Sprintf("Row %s: %s", e.Source.Cell(), e.Value)
	}
	return fmt.Sprintf("#%d: %s", e.Position+1, e.Value)
}

// LoadOptions configures a pool load.
type LoadOptions struct {
	// NewSession discards finalized groups before loading.
	NewSession bool

	// Precision is the number of decimal places values are rounded to.
	Precision int
}

// Validate checks the load options.
func (o LoadOptions) Validate() error {
	if o.Precision < 0 || o.Precision > AmountPlaces {
		return &ParameterError{
			Field:  "precision",
			Reason: fmt.Sprintf("must be between 0 and %d", AmountPlaces),
		}
	}
	return nil
}

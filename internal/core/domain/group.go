package domain

import "fmt"

// Color is a named RGB highlight colour.
type Color struct {
	Name    string
	R, G, B uint8
}

// Hex returns the colour as "#rrggbb".
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Contrast returns black or white, whichever reads better on c.
func (c Color) Contrast() Color {
	luminance := (0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)) / 255
	if luminance > 0.5 {
		return Color{Name: "Black"}
	}
	return Color{Name: "White", R: 255, G: 255, B: 255}
}

// Palette is the fixed highlight sequence for finalized groups.
var Palette = []Color{
	{"Light Blue", 173, 216, 230},
	{"Light Green", 144, 238, 144},
	{"Peach", 255, 218, 185},
	{"Plum", 221, 160, 221},
	{"Powder Blue", 176, 224, 230},
	{"Light Yellow", 255, 255, 224},
	{"Light Coral", 240, 128, 128},
	{"Pale Turquoise", 175, 238, 238},
	{"Light Pink", 255, 182, 193},
	{"Thistle", 216, 191, 216},
	{"Pale Green", 152, 251, 152},
	{"Bisque", 255, 228, 196},
	{"Lavender", 230, 230, 250},
	{"Dark Khaki", 189, 183, 107},
	{"Light Goldenrod", 250, 250, 210},
	{"Sky Blue", 135, 206, 235},
	{"Wheat", 245, 222, 179},
	{"Rosy Brown", 188, 143, 143},
	{"Light Steel Blue", 176, 196, 222},
	{"Lavender Blush", 255, 240, 245},
}

// ColorForSequence returns the colour of the n-th group (0-based).
// It depends only on n, so the same sequence of finalize calls always
// yields the same colours.
func ColorForSequence(n int) Color {
	if n < 0 {
		n = 0
	}
	return Palette[n%len(Palette)]
}

// FinalizedGroup is an immutable committed subset.
type FinalizedGroup struct {
	// ID is the unique identifier.
	ID string

	// Seq is the 0-based creation order within the session.
	Seq int

	// Color is derived from Seq.
	Color Color

	// MemberIDs is the exact set committed, sorted ascending.
	MemberIDs []EntryID

	// Values holds each member's value, aligned with MemberIDs.
	Values []Amount

	// Sum is the total of the members' values.
	Sum Amount
}

// Size returns the number of members.
func (g FinalizedGroup) Size() int {
	return len(g.MemberIDs)
}

// SessionSummary aggregates pool and group state for summary views.
type SessionSummary struct {
	Groups           int
	FinalizedEntries int
	AvailableEntries int
	FinalizedTotal   Amount
	AvailableTotal   Amount
}

// Summarize computes a SessionSummary from a pool snapshot and groups.
func Summarize(entries []NumberEntry, groups []FinalizedGroup) SessionSummary {
	s := SessionSummary{Groups: len(groups)}
	for _, e := range entries {
		if e.IsAvailable() {
			s.AvailableEntries++
			s.AvailableTotal += e.Value
		} else {
			s.FinalizedEntries++
			s.FinalizedTotal += e.Value
		}
	}
	return s
}

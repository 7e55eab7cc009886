// Package input turns user-supplied text and files into raw values for
// the session, and watches input files for changes.
//
// Three layouts are understood:
//   - line: one number per line; thousands separators allowed
//   - comma: numbers separated by commas or newlines
//   - csv: every cell of a CSV sheet, tagged with its row and column
//
// The parser only classifies cells. Whether a value is a valid number
// is decided on load, so malformed text surfaces as
// domain.ErrInvalidInput with its position.
package input

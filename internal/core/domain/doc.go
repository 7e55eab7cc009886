// Package domain defines the core business entities for combimatch.
//
// This package is part of the hexagonal architecture's innermost layer.
// It defines the fundamental types:
//
//   - Amount: A fixed-point decimal used for every value and sum
//   - NumberEntry: One loaded number and its availability state
//   - Combination: A subset of entries whose sum lands near a target
//   - ResultSet: The classified, ordered output of one search
//   - FinalizedGroup: An immutable, colour-tagged committed subset
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. All other packages depend on
// domain, never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library, github.com/shopspring/decimal (parsing only)
//   - Cannot Import: Any internal/ package
package domain

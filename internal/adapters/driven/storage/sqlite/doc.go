// Package sqlite writes session reports to SQLite files.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO, enabling easy cross-compilation. A report holds:
//
//   - entries: every loaded number with its status and source cell
//   - finalized_groups: one row per group with its colour
//   - group_members: which entries belong to which group
//   - report_info: the session summary and export time
//
// Spreadsheet tooling can join these tables to highlight the original
// cells in each group's colour.
//
// # Schema
//
// The schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Thread Safety
//
// Writing a report replaces the previous one inside a single transaction,
// so readers never see a half-written report.
package sqlite

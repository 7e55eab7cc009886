package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/combimatch-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/combimatch-cli/internal/core/domain"
	"github.com/custodia-labs/combimatch-cli/internal/core/ports/driven"
)

// Ensure Exporter implements the interface.
var _ driven.Exporter = (*Exporter)(nil)

// Store is a SQLite report database.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates the report database at path and applies
// pending migrations.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("report path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("creating report directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate applies every *.up.sql newer than the recorded version.
func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if name := entry.Name(); strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_report.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// SchemaVersion returns the highest applied migration.
func (s *Store) SchemaVersion(ctx context.Context) (int, error) {
	var version int
	err := s.db.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&version)
	return version, err
}

// WriteReport replaces the stored report with report.
func (s *Store) WriteReport(ctx context.Context, report driven.Report) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"group_members", "finalized_groups", "entries", "report_info"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	if err := insertEntries(ctx, tx, report.Entries); err != nil {
		return err
	}
	if err := insertGroups(ctx, tx, report.Groups); err != nil {
		return err
	}

	sum := report.Summary
	_, err = tx.ExecContext(ctx, `
		INSERT INTO report_info (id, exported_at, groups_count, finalized_entries, available_entries,
			finalized_total, available_total)
		VALUES (1, ?, ?, ?, ?, ?, ?)`,
		time.Now().UTC(), sum.Groups, sum.FinalizedEntries, sum.AvailableEntries,
		sum.FinalizedTotal.String(), sum.AvailableTotal.String())
	if err != nil {
		return fmt.Errorf("inserting report info: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func insertEntries(ctx context.Context, tx *sql.Tx, entries []domain.NumberEntry) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO entries (id, position, value, value_num, status, group_id,
			source_row, source_column, source_label)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing entry insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		var groupID sql.NullString
		if e.GroupID != "" {
			groupID = sql.NullString{String: e.GroupID, Valid: true}
		}
		_, err := stmt.ExecContext(ctx,
			int64(e.ID), e.Position, e.Value.String(), e.Value.Float64(), e.Status.String(), groupID,
			e.Source.Row, e.Source.Column, e.Source.Label)
		if err != nil {
			return fmt.Errorf("inserting entry %s: %w", e.ID, err)
		}
	}
	return nil
}

func insertGroups(ctx context.Context, tx *sql.Tx, groups []domain.FinalizedGroup) error {
	for _, g := range groups {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO finalized_groups (id, seq, color_name, color_hex, sum)
			VALUES (?, ?, ?, ?, ?)`,
			g.ID, g.Seq, g.Color.Name, g.Color.Hex(), g.Sum.String())
		if err != nil {
			return fmt.Errorf("inserting group %s: %w", g.ID, err)
		}
		for _, id := range g.MemberIDs {
			_, err := tx.ExecContext(ctx,
				"INSERT INTO group_members (group_id, entry_id) VALUES (?, ?)", g.ID, int64(id))
			if err != nil {
				return fmt.Errorf("inserting member %s of group %s: %w", id, g.ID, err)
			}
		}
	}
	return nil
}

// ReadReport loads the stored report. The summary is recomputed from
// the stored entries and groups.
func (s *Store) ReadReport(ctx context.Context) (driven.Report, error) {
	entries, err := s.readEntries(ctx)
	if err != nil {
		return driven.Report{}, err
	}
	groups, err := s.readGroups(ctx, entries)
	if err != nil {
		return driven.Report{}, err
	}
	return driven.Report{
		Entries: entries,
		Groups:  groups,
		Summary: domain.Summarize(entries, groups),
	}, nil
}

func (s *Store) readEntries(ctx context.Context) ([]domain.NumberEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, position, value, status, group_id, source_row, source_column, source_label
		FROM entries ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("querying entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.NumberEntry
	for rows.Next() {
		var (
			e       domain.NumberEntry
			id      int64
			value   string
			status  string
			groupID sql.NullString
		)
		if err := rows.Scan(&id, &e.Position, &value, &status, &groupID,
			&e.Source.Row, &e.Source.Column, &e.Source.Label); err != nil {
			return nil, fmt.Errorf("scanning entry: %w", err)
		}
		e.ID = domain.EntryID(id)
		if e.Value, err = domain.ParseAmount(value); err != nil {
			return nil, fmt.Errorf("entry %d value %q: %w", id, value, err)
		}
		if status == domain.StatusFinalized.String() {
			e.Status = domain.StatusFinalized
		}
		e.GroupID = groupID.String
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *Store) readGroups(ctx context.Context, entries []domain.NumberEntry) ([]domain.FinalizedGroup, error) {
	values := make(map[domain.EntryID]domain.Amount, len(entries))
	for _, e := range entries {
		values[e.ID] = e.Value
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT g.id, g.seq, g.color_name, g.color_hex, g.sum, m.entry_id
		FROM finalized_groups g
		LEFT JOIN group_members m ON m.group_id = g.id
		ORDER BY g.seq, m.entry_id`)
	if err != nil {
		return nil, fmt.Errorf("querying groups: %w", err)
	}
	defer rows.Close()

	var groups []domain.FinalizedGroup
	for rows.Next() {
		var (
			id, name, hex, sum string
			seq                int
			member             sql.NullInt64
		)
		if err := rows.Scan(&id, &seq, &name, &hex, &sum, &member); err != nil {
			return nil, fmt.Errorf("scanning group: %w", err)
		}
		if len(groups) == 0 || groups[len(groups)-1].ID != id {
			color, err := parseColor(name, hex)
			if err != nil {
				return nil, fmt.Errorf("group %s: %w", id, err)
			}
			total, err := domain.ParseAmount(sum)
			if err != nil {
				return nil, fmt.Errorf("group %s sum %q: %w", id, sum, err)
			}
			groups = append(groups, domain.FinalizedGroup{ID: id, Seq: seq, Color: color, Sum: total})
		}
		if member.Valid {
			g := &groups[len(groups)-1]
			memberID := domain.EntryID(member.Int64)
			g.MemberIDs = append(g.MemberIDs, memberID)
			g.Values = append(g.Values, values[memberID])
		}
	}
	return groups, rows.Err()
}

func parseColor(name, hex string) (domain.Color, error) {
	c := domain.Color{Name: name}
	if _, err := fmt.Sscanf(hex, "#%02x%02x%02x", &c.R, &c.G, &c.B); err != nil {
		return domain.Color{}, fmt.Errorf("colour %q: %w", hex, err)
	}
	return c, nil
}

// Exporter writes each report to its own SQLite file.
type Exporter struct{}

// NewExporter creates a SQLite exporter.
func NewExporter() *Exporter {
	return &Exporter{}
}

// Export writes report to the database at dest, replacing any previous
// report stored there.
func (e *Exporter) Export(ctx context.Context, dest string, report driven.Report) error {
	store, err := Open(dest)
	if err != nil {
		return err
	}
	defer store.Close()
	return store.WriteReport(ctx, report)
}

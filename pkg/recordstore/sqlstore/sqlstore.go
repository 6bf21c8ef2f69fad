package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Abraxas-365/shortlist/pkg/errx"
	"github.com/Abraxas-365/shortlist/pkg/kernel"
	"github.com/Abraxas-365/shortlist/pkg/recordstore"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

var schemas = map[string]string{
	DriverPostgres: `
		CREATE TABLE IF NOT EXISTS records (
			seq        BIGSERIAL PRIMARY KEY,
			table_name TEXT NOT NULL,
			id         TEXT NOT NULL UNIQUE,
			fields     JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_records_table ON records (table_name);
	`,
	DriverSQLite: `
		CREATE TABLE IF NOT EXISTS records (
			seq        INTEGER PRIMARY KEY AUTOINCREMENT,
			table_name TEXT NOT NULL,
			id         TEXT NOT NULL UNIQUE,
			fields     TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_records_table ON records (table_name);
	`,
}

// Store mirrors record store collections into a single SQL table
type Store struct {
	db     *sqlx.DB
	driver string
}

// Open connects to dsn with the given driver ("postgres" or "sqlite")
func Open(driver, dsn string) (*Store, error) {
	if _, ok := schemas[driver]; !ok {
		return nil, fmt.Errorf("unsupported sql driver %q", driver)
	}

	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, errx.Wrap(err, "failed to connect to record database", errx.TypeInternal)
	}

	if driver == DriverSQLite {
		// every new connection to :memory: is a fresh database
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(2)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	return New(db, driver), nil
}

// New wraps an existing connection
func New(db *sqlx.DB, driver string) *Store {
	return &Store{db: db, driver: driver}
}

// Migrate creates the records table when missing
func (s *Store) Migrate(ctx context.Context) error {
	for _, stmt := range strings.Split(schemas[s.driver], ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return errx.Wrap(err, "failed to migrate records table", errx.TypeInternal)
		}
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Table(name string) recordstore.Table {
	return &Table{store: s, name: name}
}

type recordRow struct {
	ID        string    `db:"id"`
	Fields    []byte    `db:"fields"`
	CreatedAt time.Time `db:"created_at"`
}

func (r recordRow) toRecord() (recordstore.Record, error) {
	fields := recordstore.Fields{}
	if err := json.Unmarshal(r.Fields, &fields); err != nil {
		return recordstore.Record{}, recordstore.ErrRegistry.NewWithCause(recordstore.CodeInvalidFields, err).
			WithDetail("record_id", r.ID)
	}
	return recordstore.Record{
		ID:          kernel.RecordID(r.ID),
		Fields:      fields,
		CreatedTime: r.CreatedAt,
	}, nil
}

// Table is one collection inside the records table
type Table struct {
	store *Store
	name  string
}

func (t *Table) Name() string { return t.name }

func (t *Table) q(query string) string {
	return t.store.db.Rebind(query)
}

func (t *Table) notFound(id kernel.RecordID) *errx.Error {
	return recordstore.ErrRecordNotFound().
		WithDetail("table", t.name).
		WithDetail("record_id", id.String())
}

func (t *Table) Get(ctx context.Context, id kernel.RecordID) (*recordstore.Record, error) {
	var row recordRow
	err := t.store.db.GetContext(ctx, &row,
		t.q(`SELECT id, fields, created_at FROM records WHERE table_name = ? AND id = ?`),
		t.name, id.String(),
	)
	if err == sql.ErrNoRows {
		return nil, t.notFound(id)
	}
	if err != nil {
		return nil, errx.Wrap(err, "failed to get record", errx.TypeInternal)
	}

	rec, err := row.toRecord()
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (t *Table) First(ctx context.Context, filter recordstore.Filter) (*recordstore.Record, error) {
	records, err := t.All(ctx, filter)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return &records[0], nil
}

// All scans the whole collection and applies filter in process
func (t *Table) All(ctx context.Context, filter recordstore.Filter) ([]recordstore.Record, error) {
	rows := make([]recordRow, 0)
	err := t.store.db.SelectContext(ctx, &rows,
		t.q(`SELECT id, fields, created_at FROM records WHERE table_name = ? ORDER BY seq`),
		t.name,
	)
	if err != nil {
		return nil, errx.Wrap(err, "failed to list records", errx.TypeInternal)
	}

	records := make([]recordstore.Record, 0, len(rows))
	for _, row := range rows {
		rec, err := row.toRecord()
		if err != nil {
			return nil, err
		}
		if filter == nil || filter.Match(rec.Fields) {
			records = append(records, rec)
		}
	}
	return records, nil
}

func (t *Table) Create(ctx context.Context, fields recordstore.Fields) (*recordstore.Record, error) {
	created, err := t.insert(ctx, t.store.db, []recordstore.Fields{fields})
	if err != nil {
		return nil, err
	}
	return &created[0], nil
}

func (t *Table) Update(ctx context.Context, id kernel.RecordID, fields recordstore.Fields) (*recordstore.Record, error) {
	tx, err := t.store.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, errx.Wrap(err, "failed to begin transaction", errx.TypeInternal)
	}
	defer tx.Rollback()

	var row recordRow
	err = tx.GetContext(ctx, &row,
		t.q(`SELECT id, fields, created_at FROM records WHERE table_name = ? AND id = ?`),
		t.name, id.String(),
	)
	if err == sql.ErrNoRows {
		return nil, t.notFound(id)
	}
	if err != nil {
		return nil, errx.Wrap(err, "failed to load record for update", errx.TypeInternal)
	}

	rec, err := row.toRecord()
	if err != nil {
		return nil, err
	}
	for k, v := range fields {
		rec.Fields[k] = v
	}

	data, err := json.Marshal(rec.Fields)
	if err != nil {
		return nil, recordstore.ErrRegistry.NewWithCause(recordstore.CodeInvalidFields, err)
	}
	if _, err := tx.ExecContext(ctx,
		t.q(`UPDATE records SET fields = ? WHERE table_name = ? AND id = ?`),
		string(data), t.name, id.String(),
	); err != nil {
		return nil, errx.Wrap(err, "failed to update record", errx.TypeInternal)
	}

	if err := tx.Commit(); err != nil {
		return nil, errx.Wrap(err, "failed to commit record update", errx.TypeInternal)
	}

	rec.Fields = rec.Fields.Clone()
	return &rec, nil
}

func (t *Table) BatchCreate(ctx context.Context, fields []recordstore.Fields) ([]recordstore.Record, error) {
	if len(fields) == 0 {
		return []recordstore.Record{}, nil
	}

	tx, err := t.store.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, errx.Wrap(err, "failed to begin transaction", errx.TypeInternal)
	}
	defer tx.Rollback()

	created, err := t.insert(ctx, tx, fields)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, errx.Wrap(err, "failed to commit batch create", errx.TypeInternal)
	}
	return created, nil
}

func (t *Table) BatchDelete(ctx context.Context, ids []kernel.RecordID) error {
	if len(ids) == 0 {
		return nil
	}

	raw := make([]string, 0, len(ids))
	for _, id := range ids {
		raw = append(raw, id.String())
	}

	query, args, err := sqlx.In(`DELETE FROM records WHERE table_name = ? AND id IN (?)`, t.name, raw)
	if err != nil {
		return errx.Wrap(err, "failed to build delete query", errx.TypeInternal)
	}

	res, err := t.store.db.ExecContext(ctx, t.q(query), args...)
	if err != nil {
		return errx.Wrap(err, "failed to delete records", errx.TypeInternal)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return errx.Wrap(err, "failed to count deleted records", errx.TypeInternal)
	}
	if int(n) != len(ids) {
		return recordstore.ErrRecordNotFound().
			WithDetail("table", t.name).
			WithDetail("requested", len(ids)).
			WithDetail("deleted", n)
	}
	return nil
}

func (t *Table) insert(ctx context.Context, exec sqlx.ExecerContext, fields []recordstore.Fields) ([]recordstore.Record, error) {
	created := make([]recordstore.Record, 0, len(fields))

	for _, f := range fields {
		if f == nil {
			f = recordstore.Fields{}
		}
		data, err := json.Marshal(f)
		if err != nil {
			return nil, recordstore.ErrRegistry.NewWithCause(recordstore.CodeInvalidFields, err)
		}

		id := newRecordID()
		now := time.Now().UTC()
		if _, err := exec.ExecContext(ctx,
			t.q(`INSERT INTO records (table_name, id, fields, created_at) VALUES (?, ?, ?, ?)`),
			t.name, id.String(), string(data), now,
		); err != nil {
			return nil, errx.Wrap(err, "failed to insert record", errx.TypeInternal)
		}

		created = append(created, recordstore.Record{ID: id, Fields: f.Clone(), CreatedTime: now})
	}

	return created, nil
}

func newRecordID() kernel.RecordID {
	return kernel.RecordID("rec" + strings.ReplaceAll(uuid.NewString(), "-", ""))
}

package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Abraxas-365/shortlist/pkg/kernel"
	"github.com/Abraxas-365/shortlist/pkg/recordstore"
)

// Store keeps every table in memory. Records come back in insertion order.
type Store struct {
	mu     sync.Mutex
	tables map[string]*Table
	seq    int
}

func New() *Store {
	return &Store{tables: make(map[string]*Table)}
}

func (s *Store) Table(name string) recordstore.Table {
	return s.table(name)
}

func (s *Store) table(name string) *Table {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tables[name]
	if !ok {
		t = &Table{store: s, name: name, rows: make(map[kernel.RecordID]*row)}
		s.tables[name] = t
	}
	return t
}

func (s *Store) nextID() kernel.RecordID {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	return kernel.RecordID(fmt.Sprintf("rec%014d", s.seq))
}

// Seed inserts a record with a caller chosen id
func (s *Store) Seed(table string, id kernel.RecordID, fields recordstore.Fields) {
	t := s.table(table)
	t.mu.Lock()
	defer t.mu.Unlock()
	t.insert(id, fields)
}

// Count returns how many records a table holds
func (s *Store) Count(table string) int {
	t := s.table(table)
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.rows)
}

type row struct {
	record recordstore.Record
	order  int
}

type Table struct {
	store *Store
	name  string
	mu    sync.Mutex
	rows  map[kernel.RecordID]*row
	order int
}

func (t *Table) Name() string { return t.name }

func (t *Table) insert(id kernel.RecordID, fields recordstore.Fields) recordstore.Record {
	t.order++
	rec := recordstore.Record{ID: id, Fields: fields.Clone(), CreatedTime: time.Now().UTC()}
	if rec.Fields == nil {
		rec.Fields = recordstore.Fields{}
	}
	t.rows[id] = &row{record: rec, order: t.order}
	return copyRecord(rec)
}

func (t *Table) Get(ctx context.Context, id kernel.RecordID) (*recordstore.Record, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	r, ok := t.rows[id]
	if !ok {
		return nil, recordstore.ErrRecordNotFound().
			WithDetail("table", t.name).
			WithDetail("record_id", id.String())
	}
	rec := copyRecord(r.record)
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

func (t *Table) All(ctx context.Context, filter recordstore.Filter) ([]recordstore.Record, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	rows := make([]*row, 0, len(t.rows))
	for _, r := range t.rows {
		if filter == nil || filter.Match(r.record.Fields) {
			rows = append(rows, r)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].order < rows[j].order })

	out := make([]recordstore.Record, 0, len(rows))
	for _, r := range rows {
		out = append(out, copyRecord(r.record))
	}
	return out, nil
}

func (t *Table) Create(ctx context.Context, fields recordstore.Fields) (*recordstore.Record, error) {
	id := t.store.nextID()

	t.mu.Lock()
	defer t.mu.Unlock()
	rec := t.insert(id, fields)
	return &rec, nil
}

func (t *Table) Update(ctx context.Context, id kernel.RecordID, fields recordstore.Fields) (*recordstore.Record, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	r, ok := t.rows[id]
	if !ok {
		return nil, recordstore.ErrRecordNotFound().
			WithDetail("table", t.name).
			WithDetail("record_id", id.String())
	}
	for k, v := range fields.Clone() {
		r.record.Fields[k] = v
	}
	rec := copyRecord(r.record)
	return &rec, nil
}

func (t *Table) BatchCreate(ctx context.Context, fields []recordstore.Fields) ([]recordstore.Record, error) {
	out := make([]recordstore.Record, 0, len(fields))
	for _, f := range fields {
		rec, err := t.Create(ctx, f)
		if err != nil {
			return out, err
		}
		out = append(out, *rec)
	}
	return out, nil
}

func (t *Table) BatchDelete(ctx context.Context, ids []kernel.RecordID) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, id := range ids {
		if _, ok := t.rows[id]; !ok {
			return recordstore.ErrRecordNotFound().
				WithDetail("table", t.name).
				WithDetail("record_id", id.String())
		}
	}
	for _, id := range ids {
		delete(t.rows, id)
	}
	return nil
}

func copyRecord(r recordstore.Record) recordstore.Record {
	return recordstore.Record{ID: r.ID, Fields: r.Fields.Clone(), CreatedTime: r.CreatedTime}
}

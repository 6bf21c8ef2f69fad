package recordstore

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Abraxas-365/shortlist/pkg/errx"
	"github.com/Abraxas-365/shortlist/pkg/kernel"
)

var ErrRegistry = errx.NewRegistry("RECORDSTORE")

var (
	CodeRecordNotFound = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Record not found")
	CodeRequestFailed  = ErrRegistry.Register("REQUEST_FAILED", errx.TypeExternal, http.StatusBadGateway, "Record store request failed")
	CodeInvalidFields  = ErrRegistry.Register("INVALID_FIELDS", errx.TypeValidation, http.StatusBadRequest, "Record fields could not be converted")
)

func ErrRecordNotFound() *errx.Error {
	return ErrRegistry.New(CodeRecordNotFound)
}

func ErrRequestFailed() *errx.Error {
	return ErrRegistry.New(CodeRequestFailed)
}

func ErrInvalidFields() *errx.Error {
	return ErrRegistry.New(CodeInvalidFields)
}

// Fields is the raw column map of a record
type Fields map[string]any

// Record is one row of a collection
type Record struct {
	ID          kernel.RecordID `json:"id"`
	Fields      Fields          `json:"fields"`
	CreatedTime time.Time       `json:"createdTime"`
}

// Table is a single named collection
type Table interface {
	// Name returns the collection name
	Name() string

	// Get returns the record or CodeRecordNotFound
	Get(ctx context.Context, id kernel.RecordID) (*Record, error)

	// First returns the first record matching filter, or nil when none does
	First(ctx context.Context, filter Filter) (*Record, error)

	// All returns every record matching filter. A nil filter matches everything.
	All(ctx context.Context, filter Filter) ([]Record, error)

	// Create inserts a record
	Create(ctx context.Context, fields Fields) (*Record, error)

	// Update patches the given fields, leaving the others untouched
	Update(ctx context.Context, id kernel.RecordID, fields Fields) (*Record, error)

	// BatchCreate inserts all records
	BatchCreate(ctx context.Context, fields []Fields) ([]Record, error)

	// BatchDelete removes all records
	BatchDelete(ctx context.Context, ids []kernel.RecordID) error
}

// Store hands out tables of one base
type Store interface {
	Table(name string) Table
}

// ============================================================================
// Filters
// ============================================================================

// Filter selects records. Formula renders it for a remote store,
// Match evaluates it locally.
type Filter interface {
	Formula() string
	Match(fields Fields) bool
}

type eqFilter struct {
	field string
	value string
}

// Eq matches records whose field equals value
func Eq(field, value string) Filter {
	return eqFilter{field: field, value: value}
}

func (f eqFilter) Formula() string {
	return fmt.Sprintf("{%s} = '%s'", f.field, escapeFormula(f.value))
}

func (f eqFilter) Match(fields Fields) bool {
	v, ok := fields[f.field]
	if !ok || v == nil {
		return f.value == ""
	}
	return stringify(v) == f.value
}

type linkedFilter struct {
	field     string
	recordID  kernel.RecordID
	displayID string
}

// Linked matches records whose link field points at recordID.
// Remote formulas compare link fields by the linked row's primary value,
// so displayID is what the formula uses.
func Linked(field string, recordID kernel.RecordID, displayID string) Filter {
	if displayID == "" {
		displayID = recordID.String()
	}
	return linkedFilter{field: field, recordID: recordID, displayID: displayID}
}

func (f linkedFilter) Formula() string {
	return fmt.Sprintf("{%s} = '%s'", f.field, escapeFormula(f.displayID))
}

func (f linkedFilter) Match(fields Fields) bool {
	for _, id := range LinkIDs(fields[f.field]) {
		if id == f.recordID.String() {
			return true
		}
	}
	return false
}

// LinkIDs reads a link column, which is a list of record ids
func LinkIDs(v any) []string {
	switch links := v.(type) {
	case []string:
		return links
	case []kernel.RecordID:
		out := make([]string, 0, len(links))
		for _, l := range links {
			out = append(out, l.String())
		}
		return out
	case []any:
		out := make([]string, 0, len(links))
		for _, l := range links {
			if s, ok := l.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		if links == "" {
			return nil
		}
		return []string{links}
	default:
		return nil
	}
}

func escapeFormula(s string) string {
	return strings.ReplaceAll(s, "'", `\'`)
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}

// ============================================================================
// Typed conversion
// ============================================================================

// Decode converts raw fields into a typed struct whose json tags are column names
func Decode(fields Fields, out any) error {
	data, err := json.Marshal(fields)
	if err != nil {
		return ErrRegistry.NewWithCause(CodeInvalidFields, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return ErrRegistry.NewWithCause(CodeInvalidFields, err).
			WithDetail("target", fmt.Sprintf("%T", out))
	}
	return nil
}

// Encode converts a typed struct into raw fields
func Encode(in any) (Fields, error) {
	data, err := json.Marshal(in)
	if err != nil {
		return nil, ErrRegistry.NewWithCause(CodeInvalidFields, err)
	}
	fields := Fields{}
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, ErrRegistry.NewWithCause(CodeInvalidFields, err)
	}
	return fields, nil
}

// Clone returns a deep copy of the fields
func (f Fields) Clone() Fields {
	if f == nil {
		return nil
	}
	data, err := json.Marshal(f)
	if err != nil {
		out := make(Fields, len(f))
		for k, v := range f {
			out[k] = v
		}
		return out
	}
	out := Fields{}
	_ = json.Unmarshal(data, &out)
	return out
}

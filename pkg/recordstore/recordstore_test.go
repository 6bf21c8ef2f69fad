package recordstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEq(t *testing.T) {
	f := Eq("Processing Status", "Pending")

	assert.Equal(t, "{Processing Status} = 'Pending'", f.Formula())
	assert.True(t, f.Match(Fields{"Processing Status": "Pending"}))
	assert.False(t, f.Match(Fields{"Processing Status": "Error"}))
	assert.False(t, f.Match(Fields{}))
}

func TestEq_EscapesQuotes(t *testing.T) {
	assert.Equal(t, `{Name} = 'O\'Neil'`, Eq("Name", "O'Neil").Formula())
}

func TestLinked(t *testing.T) {
	f := Linked("Applicant Link", "recA", "APP-001")

	assert.Equal(t, "{Applicant Link} = 'APP-001'", f.Formula())
	assert.True(t, f.Match(Fields{"Applicant Link": []any{"recA"}}))
	assert.True(t, f.Match(Fields{"Applicant Link": []string{"recX", "recA"}}))
	assert.False(t, f.Match(Fields{"Applicant Link": []any{"recB"}}))
	assert.False(t, f.Match(Fields{}))
}

func TestLinked_FallsBackToRecordID(t *testing.T) {
	assert.Equal(t, "{Applicant} = 'recA'", Linked("Applicant", "recA", "").Formula())
}

func TestDecodeEncode(t *testing.T) {
	type row struct {
		Company string   `json:"Company,omitempty"`
		Years   *float64 `json:"Years Experience,omitempty"`
	}

	var r row
	require.NoError(t, Decode(Fields{"Company": "Meta", "Years Experience": 2.5, "Applicant Link": []any{"recA"}}, &r))
	assert.Equal(t, "Meta", r.Company)
	require.NotNil(t, r.Years)
	assert.Equal(t, 2.5, *r.Years)

	fields, err := Encode(r)
	require.NoError(t, err)
	assert.Equal(t, Fields{"Company": "Meta", "Years Experience": 2.5}, fields)
}

func TestDecode_TypeMismatch(t *testing.T) {
	var r struct {
		Years float64 `json:"Years Experience"`
	}
	assert.Error(t, Decode(Fields{"Years Experience": "five"}, &r))
}

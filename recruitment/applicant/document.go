package applicant

import (
	"bytes"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/Abraxas-365/shortlist/pkg/kernel"
)

// Document is the compressed form of an applicant: the three linked
// collections without their back-references.
type Document struct {
	Personal   *PersonalDetails   `json:"personal,omitempty"`
	Experience []WorkExperience   `json:"experience"`
	Salary     *SalaryPreferences `json:"salary,omitempty"`
}

// Serialize renders the document deterministically: struct field order,
// two space indent, no HTML escaping.
func (d Document) Serialize() (string, error) {
	if d.Experience == nil {
		d.Experience = []WorkExperience{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return "", ErrRegistry.NewWithCause(CodeProcessingFailed, err).WithDetail("step", "serialize")
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

// HashDocument returns the lowercase hex MD5 of a serialized document
func HashDocument(serialized string) kernel.ContentHash {
	sum := md5.Sum([]byte(serialized))
	return kernel.ContentHash(hex.EncodeToString(sum[:]))
}

// ParseDocument decodes a stored "Compressed JSON" value.
// The experience key is kept nil when absent so callers can tell it from [].
func ParseDocument(raw string) (*Document, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, ErrDecodeFailed().WithDetail("reason", "no compressed JSON stored")
	}

	var doc Document
	dec := json.NewDecoder(strings.NewReader(raw))
	if err := dec.Decode(&doc); err != nil {
		return nil, ErrRegistry.NewWithCause(CodeDecodeFailed, err).WithDetail("reason", "invalid JSON")
	}
	if dec.More() {
		return nil, ErrDecodeFailed().WithDetail("reason", "trailing data after JSON document")
	}
	return &doc, nil
}

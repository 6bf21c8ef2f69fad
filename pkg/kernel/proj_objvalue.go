package kernel

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// DisplayID is the human facing applicant id ("Applicant ID" column).
// The store may hand it back as an autonumber or as text.
type DisplayID string

func (d DisplayID) String() string { return string(d) }
func (d DisplayID) IsEmpty() bool  { return string(d) == "" }

func (d *DisplayID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*d = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*d = DisplayID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	if i, err := n.Int64(); err == nil {
		*d = DisplayID(strconv.FormatInt(i, 10))
		return nil
	}
	*d = DisplayID(n.String())
	return nil
}

// ContentHash is the hex digest of a serialized applicant document
type ContentHash string

func (h ContentHash) String() string { return string(h) }
func (h ContentHash) IsEmpty() bool  { return string(h) == "" }

// ShortlistStatus is the "Shortlist Status" column value
type ShortlistStatus string

const (
	ShortlistYes ShortlistStatus = "Yes"
	ShortlistNo  ShortlistStatus = "No"
)

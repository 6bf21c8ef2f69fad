package kernel

// RecordID identifies a row in any record store collection
type RecordID string

func NewRecordID(id string) RecordID { return RecordID(id) }
func (r RecordID) String() string    { return string(r) }
func (r RecordID) IsEmpty() bool     { return string(r) == "" }

// RecordIDs converts plain link values into record ids
func RecordIDs(ids []string) []RecordID {
	out := make([]RecordID, 0, len(ids))
	for _, id := range ids {
		out = append(out, RecordID(id))
	}
	return out
}

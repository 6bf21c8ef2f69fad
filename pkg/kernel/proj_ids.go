package kernel

// ApplicantID is the record id of a row in the Applicants collection
type ApplicantID string

func NewApplicantID(id string) ApplicantID { return ApplicantID(id) }
func (a ApplicantID) String() string       { return string(a) }
func (a ApplicantID) IsEmpty() bool        { return string(a) == "" }
func (a ApplicantID) RecordID() RecordID   { return RecordID(a) }

// RunID identifies one processor run
type RunID string

func NewRunID(id string) RunID  { return RunID(id) }
func (r RunID) String() string { return string(r) }

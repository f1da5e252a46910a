package hierarchy

// Record is one entry of a flat hierarchy: an identity, an optional parent
// reference and an opaque payload that the hierarchy never inspects.
type Record struct {
	ID       int
	ParentID *int // nil for the root
	Payload  any
}

// IsRoot reports whether the record has no parent.
func (r Record) IsRoot() bool { return r.ParentID == nil }

// Parent returns a pointer to id, for building records inline.
func Parent(id int) *int { return &id }

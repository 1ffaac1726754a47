package symbol

import (
	"fmt"
)

// Table maps dense symbol IDs to names.  IDs are assigned in interning order
// starting from zero and are never reused, so an ID returned by a Table stays
// valid for the lifetime of the Table.
type Table interface {
	// Len returns the number of names interned in the table.
	Len() int
	// Intern inserts the given name into the table if it is not present and
	// returns its ID.
	Intern(name string) ID
	// Peek retrieves the ID of a name without automatically interning it.
	// Peek returns true iff the name has been interned into the table.
	Peek(name string) (ID, bool)
	// Symbol returns the name associated with id.
	Symbol(id ID) (string, bool)
}

// ResolveUnknown returns a Table that returns diagnostic strings when the
// method Symbol is passed an unknown ID.  The Symbol method on the returned
// Table will always return true and will use fmt.Sprintf to create a string
// representing any IDs unknown to t.  All other methods on the returned Table
// proxy the corresponding methods on t.
func ResolveUnknown(format string, t Table) Table {
	if format == "" {
		format = defaultUnknownResolverFormat
	}
	return &unknownResolver{format, t}
}

const defaultUnknownResolverFormat = "#<SYMBOL %d>"

type unknownResolver struct {
	format string
	Table
}

// Symbol overrides t.Table.Symbol and uses t.format to describe unknown IDs.
func (t *unknownResolver) Symbol(id ID) (string, bool) {
	s, ok := t.Table.Symbol(id)
	if ok {
		return s, true
	}
	return fmt.Sprintf(t.format, uint64(id)), true
}

// NewTable returns an empty append-only Table.
func NewTable() Table {
	return newTable()
}

// table stores names in a slice indexed by ID with a map accelerating lookup
// by name.  A table is not safe for concurrent use.
type table struct {
	g     IDGen
	names []string
	ids   map[string]ID
}

var _ Table = (*table)(nil)

func newTable() *table {
	return &table{
		g:   NewIDGen(),
		ids: make(map[string]ID),
	}
}

// Len implements the Table interface
func (t *table) Len() int {
	return len(t.names)
}

// Intern implements the Table interface
func (t *table) Intern(s string) ID {
	if id, ok := t.ids[s]; ok {
		return id
	}
	id := t.g.NewID()
	t.ids[s] = id
	t.names = append(t.names, s)
	return id
}

// Peek implements the Table interface
func (t *table) Peek(s string) (ID, bool) {
	id, ok := t.ids[s]
	return id, ok
}

// Symbol implements the Table interface
func (t *table) Symbol(id ID) (string, bool) {
	if uint64(id) >= uint64(len(t.names)) {
		return "", false
	}
	return t.names[id], true
}

// Package symbol manages interned identifier names. Names are deduped
// strings represented as small integers, the way the teacher's own
// symbol package interns column and variable names: the benefit here is
// that scope.Symbol maps and resolve lookups become cheap integer
// operations instead of string compares.
package symbol

import (
	"sync"

	"github.com/Microindole/beryl/internal/xhash"
)

// ID is an interned identifier name.
type ID int32

// Invalid is the zero value, used as a sentinel for "no name" (e.g. an
// anonymous struct-literal field with no explicit name, or the invalid LHS
// of a bare expression statement).
const Invalid = ID(0)

type table struct {
	mu     sync.Mutex
	byName map[string]ID
	names  []string // names[0] is unused ("(invalid)")
}

var symtab = newTable()

func newTable() *table {
	return &table{
		byName: map[string]ID{"": Invalid},
		names:  []string{"(invalid)"},
	}
}

// Intern returns the ID for name, allocating a fresh one if this is the
// first time name has been seen.
func Intern(name string) ID {
	if name == "" {
		return Invalid
	}
	symtab.mu.Lock()
	defer symtab.mu.Unlock()
	if id, ok := symtab.byName[name]; ok {
		return id
	}
	id := ID(len(symtab.names))
	symtab.names = append(symtab.names, name)
	symtab.byName[name] = id
	return id
}

// Str returns the original name for id. Panics if id was never interned --
// that indicates a compiler bug (a stray zero-valued ID used as if it had
// been interned), not a user-facing error.
func (id ID) Str() string {
	symtab.mu.Lock()
	defer symtab.mu.Unlock()
	if int(id) < 0 || int(id) >= len(symtab.names) {
		panic("symbol: id not interned")
	}
	return symtab.names[id]
}

// Hash returns a structural hash of the symbol's name (xhash.Zero for
// Invalid).
func (id ID) Hash() xhash.Hash {
	if id == Invalid {
		return xhash.Zero
	}
	return xhash.String(id.Str())
}

// String implements fmt.Stringer for debug printing (distinct from Str,
// which is the canonical accessor used by compiler logic).
func (id ID) String() string {
	if id == Invalid {
		return "<invalid>"
	}
	return id.Str()
}

// Reserved, frequently referenced names.
var (
	This  = Intern("this")
	Main  = Intern("main")
	Self  = Intern("Self")
	Error = Intern("Error")
)

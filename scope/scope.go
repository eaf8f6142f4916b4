// Package scope implements the scope tree described in spec.md §3: every
// scope has a kind, a parent, a symbol map keyed by name, and an ordered
// list of children (creation order). The resolver builds the tree once;
// the type checker re-walks it via a cursor-synchronized traversal (§4.4)
// rather than rebuilding scopes, so the tree is represented as a flat table
// indexed by ID (teacher's gql package favors small integer handles —
// ColumnIndex, SymbolID — over pointer graphs for the same reason: stable
// identity, cheap equality, easy serialization).
package scope

import "github.com/Microindole/beryl/symbol"

// ID indexes a Scope within a Tree.
type ID int32

// Invalid identifies no scope.
const Invalid ID = -1

// Kind distinguishes the lexical scope forms in spec.md §3.
type Kind int

const (
	Global Kind = iota
	Function
	Block
	Loop
	MatchArm
)

func (k Kind) String() string {
	switch k {
	case Global:
		return "global"
	case Function:
		return "function"
	case Block:
		return "block"
	case Loop:
		return "loop"
	case MatchArm:
		return "match-arm"
	default:
		return "unknown"
	}
}

// Scope is one node of the scope tree.
type Scope struct {
	ID       ID
	Kind     Kind
	Parent   ID // Invalid for the root
	Symbols  map[symbol.ID]*Symbol
	Children []ID

	// nextChildIndex is the type checker's replay cursor into Children,
	// advanced each time the checker descends into a child scope in the
	// same structural order the resolver created it (spec.md §4.4).
	nextChildIndex int
}

// Tree is the append-only scope tree built by the resolver and read (with
// symbol-type mutation only, for smart casts) by the checker.
type Tree struct {
	scopes []*Scope
}

// NewTree creates a Tree with a single Global root scope and returns the
// tree plus the root's ID.
func NewTree() (*Tree, ID) {
	t := &Tree{}
	root := t.newScope(Global, Invalid)
	return t, root
}

func (t *Tree) newScope(kind Kind, parent ID) ID {
	id := ID(len(t.scopes))
	s := &Scope{
		ID:      id,
		Kind:    kind,
		Parent:  parent,
		Symbols: make(map[symbol.ID]*Symbol),
	}
	t.scopes = append(t.scopes, s)
	if parent != Invalid {
		ps := t.scopes[parent]
		ps.Children = append(ps.Children, id)
	}
	return id
}

// Push creates a new child scope of kind under parent and returns its ID.
// Called by the resolver during Pass 2's body walk.
func (t *Tree) Push(parent ID, kind Kind) ID {
	return t.newScope(kind, parent)
}

// Scope returns the scope with the given ID.
func (t *Tree) Scope(id ID) *Scope {
	return t.scopes[id]
}

// Define adds sym to scope id under name, returning false if name is
// already bound in that scope (the caller reports DuplicateDefinition;
// first definition wins, per spec.md §4.3).
func (t *Tree) Define(id ID, name symbol.ID, sym *Symbol) bool {
	s := t.scopes[id]
	if _, exists := s.Symbols[name]; exists {
		return false
	}
	s.Symbols[name] = sym
	return true
}

// Lookup walks the scope chain from id upward looking for name, returning
// the owning scope and symbol, or (Invalid, nil) if unresolved.
func (t *Tree) Lookup(id ID, name symbol.ID) (ID, *Symbol) {
	for cur := id; cur != Invalid; cur = t.scopes[cur].Parent {
		s := t.scopes[cur]
		if sym, ok := s.Symbols[name]; ok {
			return cur, sym
		}
	}
	return Invalid, nil
}

// NextChild advances the checker's replay cursor for scope id and returns
// the next child in creation order, or Invalid if the resolver created no
// further children at this structural position. This is how the checker's
// re-walk of the resolver's tree stays synchronized (spec.md §4.4, §9's
// "Scope tree with cursor-synchronized walks" resolution) without
// rebuilding scopes or threading an explicit position parameter through
// every visit method.
func (t *Tree) NextChild(id ID) ID {
	s := t.scopes[id]
	if s.nextChildIndex >= len(s.Children) {
		return Invalid
	}
	child := s.Children[s.nextChildIndex]
	s.nextChildIndex++
	return child
}

// ResetCursors zeroes every scope's replay cursor, letting the tree be
// walked again from the start. Nothing in the compiler calls it.
func (t *Tree) ResetCursors() {
	for _, s := range t.scopes {
		s.nextChildIndex = 0
	}
}

// Len reports the number of scopes in the tree.
func (t *Tree) Len() int { return len(t.scopes) }

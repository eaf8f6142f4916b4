package symbol_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Microindole/beryl/symbol"
)

func TestInternDedups(t *testing.T) {
	a := symbol.Intern("foo")
	b := symbol.Intern("foo")
	assert.Equal(t, a, b)
	assert.Equal(t, "foo", a.Str())
}

func TestInternDistinctNames(t *testing.T) {
	a := symbol.Intern("alpha")
	b := symbol.Intern("beta")
	assert.NotEqual(t, a, b)
}

func TestInvalidIsZero(t *testing.T) {
	assert.Equal(t, symbol.ID(0), symbol.Invalid)
	assert.Equal(t, symbol.Invalid, symbol.Intern(""))
}

func TestHashStable(t *testing.T) {
	a := symbol.Intern("stable")
	assert.Equal(t, a.Hash(), a.Hash())
	b := symbol.Intern("other")
	assert.NotEqual(t, a.Hash(), b.Hash())
}

package compare

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewCompareConfigDefaults(t *testing.T) {
	cfg := NewCompareConfig()

	assert.True(t, cfg.CompareComments)
	assert.True(t, cfg.CompareIndexes)
	assert.True(t, cfg.CompareForeignKeys)
	assert.True(t, cfg.CompareConstraints)
	assert.True(t, cfg.CompareTriggers)
	assert.False(t, cfg.IgnoreColumnOrder)
	assert.True(t, cfg.CaseSensitive)
}

func TestCompareConfigBuilderChain(t *testing.T) {
	cfg := NewCompareConfig().
		WithoutComments().
		WithoutIndexes().
		WithoutForeignKeys().
		WithoutConstraints().
		WithoutTriggers().
		IgnoringColumnOrder().
		CaseInsensitive()

	assert.False(t, cfg.CompareComments)
	assert.False(t, cfg.CompareIndexes)
	assert.False(t, cfg.CompareForeignKeys)
	assert.False(t, cfg.CompareConstraints)
	assert.False(t, cfg.CompareTriggers)
	assert.True(t, cfg.IgnoreColumnOrder)
	assert.False(t, cfg.CaseSensitive)
}

func TestCompareConfigValueSemantics(t *testing.T) {
	base := NewCompareConfig()
	derived := base.WithoutIndexes().CaseInsensitive()

	// The original must be untouched by derivations.
	assert.True(t, base.CompareIndexes)
	assert.True(t, base.CaseSensitive)
	assert.False(t, derived.CompareIndexes)
	assert.False(t, derived.CaseSensitive)
}

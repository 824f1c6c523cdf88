package compare

// CompareConfig controls which schema aspects are compared and how object
// names are matched. Configs are plain values: the With/Without methods
// return a modified copy and never touch the receiver, so a config can be
// shared between comparators safely.
//
// The zero value disables every category; use NewCompareConfig for the
// defaults.
type CompareConfig struct {
	// CompareComments includes column comment changes in column diffs.
	CompareComments bool
	// CompareIndexes enables the index category of table diffs.
	CompareIndexes bool
	// CompareForeignKeys enables the foreign key category of table diffs.
	CompareForeignKeys bool
	// CompareConstraints enables the constraint category of table diffs.
	CompareConstraints bool
	// CompareTriggers enables trigger comparison.
	CompareTriggers bool
	// IgnoreColumnOrder suppresses ordinal position changes on columns
	// that match by name.
	IgnoreColumnOrder bool
	// CaseSensitive matches and compares object names byte for byte.
	// When false, names are lowercased before matching.
	CaseSensitive bool
}

// NewCompareConfig returns the default configuration: every category
// enabled, column order significant, names case sensitive.
func NewCompareConfig() CompareConfig {
	return CompareConfig{
		CompareComments:    true,
		CompareIndexes:     true,
		CompareForeignKeys: true,
		CompareConstraints: true,
		CompareTriggers:    true,
		IgnoreColumnOrder:  false,
		CaseSensitive:      true,
	}
}

// WithoutComments returns a copy that ignores comment changes.
func (c CompareConfig) WithoutComments() CompareConfig {
	c.CompareComments = false
	return c
}

// WithoutIndexes returns a copy that skips index comparison entirely,
// including added and removed indexes.
func (c CompareConfig) WithoutIndexes() CompareConfig {
	c.CompareIndexes = false
	return c
}

// WithoutForeignKeys returns a copy that skips foreign key comparison.
func (c CompareConfig) WithoutForeignKeys() CompareConfig {
	c.CompareForeignKeys = false
	return c
}

// WithoutConstraints returns a copy that skips constraint comparison.
func (c CompareConfig) WithoutConstraints() CompareConfig {
	c.CompareConstraints = false
	return c
}

// WithoutTriggers returns a copy that skips trigger comparison.
func (c CompareConfig) WithoutTriggers() CompareConfig {
	c.CompareTriggers = false
	return c
}

// IgnoringColumnOrder returns a copy that does not report ordinal
// position changes.
func (c CompareConfig) IgnoringColumnOrder() CompareConfig {
	c.IgnoreColumnOrder = true
	return c
}

// CaseInsensitive returns a copy that lowercases names before matching
// and before comparing name-like attributes such as data types.
func (c CompareConfig) CaseInsensitive() CompareConfig {
	c.CaseSensitive = false
	return c
}

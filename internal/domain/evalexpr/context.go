package evalexpr

// Context carries the inputs to Evaluate: the named values a ColumnRef may
// resolve against (declared-input values, mostly) and a memoization cache
// keyed by expression identity, mirroring the original's
// ExpressionEvaluationContext.
type Context struct {
	NamedValues   map[string]Value
	CurrentNodeID int

	cache map[*Expression]*Value
}

// NewContext creates an evaluation context over the given named values.
func NewContext(named map[string]Value) *Context {
	if named == nil {
		named = map[string]Value{}
	}
	return &Context{
		NamedValues: named,
		cache:       make(map[*Expression]*Value),
	}
}

// Lookup resolves a NamePath against NamedValues.
func (c *Context) Lookup(name NamePath) (Value, bool) {
	v, ok := c.NamedValues[name.Key()]
	return v, ok
}

// cached returns a previously memoized result for e, if any. The bool
// distinguishes "not yet evaluated" from "evaluated to null".
func (c *Context) cached(e *Expression) (*Value, bool) {
	v, ok := c.cache[e]
	return v, ok
}

func (c *Context) memoize(e *Expression, v *Value) {
	c.cache[e] = v
}

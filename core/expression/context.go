package expression

import "sort"

// Context holds the variable bindings and functions visible to a formula.
// A Context belongs to a single computation and is not safe for concurrent
// mutation.
type Context struct {
	variables map[string]Value
	functions *FunctionSet
}

// NewContext creates an empty context backed by the given function set.
// A nil set means no function calls resolve.
func NewContext(functions *FunctionSet) *Context {
	return &Context{
		variables: make(map[string]Value),
		functions: functions,
	}
}

// SetVariable binds name to a Go value
func (c *Context) SetVariable(name string, value interface{}) {
	c.variables[name] = FromGo(value)
}

// SetVariables binds every entry of values
func (c *Context) SetVariables(values map[string]interface{}) {
	for k, v := range values {
		c.SetVariable(k, v)
	}
}

// Lookup returns the value bound to name
func (c *Context) Lookup(name string) (Value, bool) {
	v, ok := c.variables[name]
	return v, ok
}

// Has reports whether name is bound
func (c *Context) Has(name string) bool {
	_, ok := c.variables[name]
	return ok
}

// Variables returns the bound names in sorted order
func (c *Context) Variables() []string {
	names := make([]string, 0, len(c.variables))
	for name := range c.variables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Functions returns the function set
func (c *Context) Functions() *FunctionSet {
	return c.functions
}

// resolve looks a name up as a variable first, then as a library constant
func (c *Context) resolve(name string) (Value, bool) {
	if v, ok := c.variables[name]; ok {
		return v, true
	}
	if f, ok := c.functions.LookupConstant(name); ok {
		return Number(f), true
	}
	return Value{}, false
}

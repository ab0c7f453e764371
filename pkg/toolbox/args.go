package toolbox

// Args holds validated tool arguments keyed by parameter name. Values are
// normalized by Validate to the Go type matching the declared ParamType:
// string, int, float64, or bool.
type Args map[string]any

// String returns the string argument with the given name, or "" when absent.
func (a Args) String(name string) string {
	v, _ := a[name].(string)
	return v
}

// Int returns the int argument with the given name, or 0 when absent.
func (a Args) Int(name string) int {
	v, _ := a[name].(int)
	return v
}

// Float returns the number argument with the given name, or 0 when absent.
func (a Args) Float(name string) float64 {
	v, _ := a[name].(float64)
	return v
}

// Bool returns the bool argument with the given name, or false when absent.
func (a Args) Bool(name string) bool {
	v, _ := a[name].(bool)
	return v
}

// Has reports whether an argument with the given name is set.
func (a Args) Has(name string) bool {
	_, ok := a[name]
	return ok
}

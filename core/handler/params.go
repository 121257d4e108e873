package handler

// Param is a single path parameter captured by the router.
type Param struct {
	Key   string
	Value string
}

// Params holds path parameters in the order they appear in the pattern.
type Params []Param

// Get returns the value of the named parameter.
func (ps Params) Get(key string) (string, bool) {
	for _, p := range ps {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

// ByName returns the value of the named parameter or an empty string.
func (ps Params) ByName(key string) string {
	v, _ := ps.Get(key)
	return v
}

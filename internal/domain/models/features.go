package models

// FeatureSet is a flat mapping of technical indicator name to value.
// A nil value means the indicator had insufficient history; that is the
// documented insufficient-history outcome, not an error.
type FeatureSet map[string]*float64

// Set stores a concrete indicator value.
func (f FeatureSet) Set(name string, v float64) {
	f[name] = &v
}

// SetNull marks an indicator as lacking history.
func (f FeatureSet) SetNull(name string) {
	f[name] = nil
}

// Get returns the indicator value and whether it is non-null.
func (f FeatureSet) Get(name string) (float64, bool) {
	v, ok := f[name]
	if !ok || v == nil {
		return 0, false
	}
	return *v, true
}

package models

// ModelDescriptor describes one price-model variant: its nominal
// architecture and the historical accuracy constant that seeds prediction
// confidence. Descriptors are loaded once per process from the registry.
type ModelDescriptor struct {
	Name         string  `json:"name"`
	Architecture string  `json:"architecture"`
	Layers       []int   `json:"layers"`
	Accuracy     float64 `json:"accuracy"`
}

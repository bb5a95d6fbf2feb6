package models

// Direction is the directional call of a prediction or fused signal.
type Direction string

const (
	DirectionUp      Direction = "UP"
	DirectionDown    Direction = "DOWN"
	DirectionNeutral Direction = "NEUTRAL"
)

// PricePrediction is the output of one price-model strategy for one symbol.
// RawChange is the clamped fractional change, always within [-0.05, 0.05].
type PricePrediction struct {
	PredictedPrice float64   `json:"predicted_price"`
	Direction      Direction `json:"direction"`
	Confidence     float64   `json:"confidence"`
	RawChange      float64   `json:"raw_predicted_change"`
	ModelName      string    `json:"model_name"`
}

package models

import "time"

// SignalComponent records one price-model sub-signal inside a fused signal.
type SignalComponent struct {
	Model          string    `json:"model"`
	Direction      Direction `json:"direction"`
	Confidence     float64   `json:"confidence"`
	PredictedPrice float64   `json:"predicted_price"`
	RawChange      float64   `json:"raw_predicted_change"`
}

// SentimentComponent records the sentiment sub-signal inside a fused signal.
type SentimentComponent struct {
	Sentiment   Sentiment `json:"sentiment"`
	Confidence  float64   `json:"confidence"`
	Method      string    `json:"method"`
	SourceCount int       `json:"source_count"`
}

// SignalComponents is the per-sub-signal audit breakdown every FusedSignal
// carries: each source's own call plus the agreement flags the fusion used.
type SignalComponents struct {
	Strategy           string              `json:"strategy"`
	ShortHorizon       *SignalComponent    `json:"short_horizon,omitempty"`
	LongHorizon        *SignalComponent    `json:"long_horizon,omitempty"`
	Sentiment          *SentimentComponent `json:"sentiment,omitempty"`
	AgreementScore     *float64            `json:"agreement_score,omitempty"`
	TechnicalAgreement *bool               `json:"technical_agreement,omitempty"`
	FallbackMode       bool                `json:"fallback_mode,omitempty"`
}

// FusedSignal is the terminal output of the fusion pipeline for one symbol.
// Ownership passes to the result sink once produced.
type FusedSignal struct {
	Symbol         string           `json:"symbol"`
	CurrentPrice   float64          `json:"current_price"`
	PredictedPrice float64          `json:"predicted_price"`
	Direction      Direction        `json:"direction"`
	Confidence     float64          `json:"confidence"`
	Components     SignalComponents `json:"components"`
	// Features is the normalized technical feature set the signal was
	// produced against, absent when history was too short to extract.
	Features  map[string]float64 `json:"features,omitempty"`
	Reasoning string             `json:"reasoning"`
	Timestamp time.Time          `json:"timestamp"`
}

// BatchReport summarizes one orchestrator run over the symbol universe.
// Failed symbols are recorded, never fatal: the report always carries the
// partial result set with an explicit success rate.
type BatchReport struct {
	SymbolsAnalyzed []string                `json:"symbols_analyzed"`
	Signals         map[string]*FusedSignal `json:"signals"`
	Failures        map[string]string       `json:"failures,omitempty"`
	FailureCount    int                     `json:"failure_count"`
	SuccessRate     float64                 `json:"success_rate"`
	Mode            string                  `json:"mode"`
	Timestamp       time.Time               `json:"timestamp"`
}

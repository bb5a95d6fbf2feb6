package models

// Requests for the signals HTTP endpoints.

type SignalRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required"`
}

type RunRequest struct {
	Symbols []string `json:"symbols"`
	Mode    string   `json:"mode" default:"technical" validate:"oneof=technical sentiment"`
}

type ReportRequest struct {
	Limit int `query:"limit" json:"limit" default:"1" validate:"gte=1,lte=50"`
}

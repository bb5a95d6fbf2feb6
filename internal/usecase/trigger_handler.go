package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	pkgkafka "SignalPulse/pkg/kafka"
	applogger "SignalPulse/pkg/logger"
)

// TriggerHandler consumes scheduler trigger messages and starts a batch run.
// Message schema: {symbols: [..], mode: "technical"|"sentiment"}; empty
// symbols falls back to the configured default universe.
type TriggerHandler struct {
	topic          string
	orchestrator   *Orchestrator
	defaultSymbols []string
	defaultMode    FusionMode
	l              *applogger.Logger
}

func NewTriggerHandler(topic string, orchestrator *Orchestrator, defaultSymbols []string, defaultMode FusionMode, l *applogger.Logger) *TriggerHandler {
	return &TriggerHandler{
		topic:          topic,
		orchestrator:   orchestrator,
		defaultSymbols: defaultSymbols,
		defaultMode:    defaultMode,
		l:              l,
	}
}

func (h *TriggerHandler) Topic() string { return h.topic }

func (h *TriggerHandler) Handle(ctx context.Context, b []byte) error {
	var m struct {
		Symbols []string `json:"symbols"`
		Mode    string   `json:"mode"`
	}
	if err := json.Unmarshal(b, &m); err != nil {
		return fmt.Errorf("unmarshal trigger: %w", err)
	}

	symbols := m.Symbols
	if len(symbols) == 0 {
		symbols = h.defaultSymbols
	}
	mode := h.defaultMode
	if m.Mode != "" {
		mode = FusionMode(m.Mode)
	}

	if h.l != nil {
		h.l.Info("trigger received",
			applogger.Strings("symbols", symbols),
			applogger.String("mode", string(mode)),
		)
	}

	_, err := h.orchestrator.Run(ctx, symbols, mode)
	return err
}

var _ pkgkafka.MessageHandler = (*TriggerHandler)(nil)

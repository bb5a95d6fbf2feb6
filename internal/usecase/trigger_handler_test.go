package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SignalPulse/internal/domain/models"
)

func TestTriggerHandlerExplicitSymbols(t *testing.T) {
	market := &fakeMarket{series: map[string]models.Series{
		"TSLA": shortBarSeries(250, 10),
	}}
	o, _, _ := testOrchestrator(market)
	h := NewTriggerHandler("signalpulse.triggers", o, []string{"AAPL"}, ModeTechnical, nil)

	assert.Equal(t, "signalpulse.triggers", h.Topic())
	err := h.Handle(context.Background(), []byte(`{"symbols": ["TSLA"], "mode": "sentiment"}`))
	require.NoError(t, err)
}

func TestTriggerHandlerDefaultsApply(t *testing.T) {
	market := &fakeMarket{series: map[string]models.Series{
		"AAPL": shortBarSeries(100, 10),
	}}
	sink := &capturingSink{}
	o, _, _ := testOrchestrator(market, WithResultSink(sink))
	h := NewTriggerHandler("signalpulse.triggers", o, []string{"AAPL"}, ModeTechnical, nil)

	require.NoError(t, h.Handle(context.Background(), []byte(`{}`)))
	require.Len(t, sink.reports, 1)
	assert.Equal(t, []string{"AAPL"}, sink.reports[0].SymbolsAnalyzed)
	assert.Equal(t, string(ModeTechnical), sink.reports[0].Mode)
}

func TestTriggerHandlerMalformedMessage(t *testing.T) {
	o, _, _ := testOrchestrator(&fakeMarket{})
	h := NewTriggerHandler("signalpulse.triggers", o, nil, ModeTechnical, nil)

	assert.Error(t, h.Handle(context.Background(), []byte(`not json`)))
}

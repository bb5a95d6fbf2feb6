package features

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"SignalPulse/internal/domain/models"
)

func TestNormalizePercentClipsAndScales(t *testing.T) {
	fs := models.FeatureSet{}
	fs.Set("return_1d", 0.02)
	fs.Set("return_3d", 0.5) // above the clip
	fs.Set("gap", -0.3)      // below the clip

	out := Normalize(fs, 100)
	assert.InDelta(t, 0.2, out["return_1d"], 1e-9)
	assert.InDelta(t, 1.0, out["return_3d"], 1e-9)
	assert.InDelta(t, -1.0, out["gap"], 1e-9)
}

func TestNormalizeOscillators(t *testing.T) {
	fs := models.FeatureSet{}
	fs.Set("rsi_14", 70)
	fs.Set("williams_r", -50)

	out := Normalize(fs, 100)
	assert.InDelta(t, 0.7, out["rsi_14"], 1e-9)
	assert.InDelta(t, -0.5, out["williams_r"], 1e-9)
}

func TestNormalizeVolumeLogCompression(t *testing.T) {
	fs := models.FeatureSet{}
	fs.Set("obv", 1e6)

	out := Normalize(fs, 100)
	assert.InDelta(t, math.Log1p(1e6), out["obv"], 1e-9)

	fs.Set("obv", -1e6)
	out = Normalize(fs, 100)
	assert.InDelta(t, -math.Log1p(1e6), out["obv"], 1e-9)
}

func TestNormalizePriceScaledDefault(t *testing.T) {
	fs := models.FeatureSet{}
	fs.Set("sma_20", 150)

	out := Normalize(fs, 100)
	assert.InDelta(t, 1.5, out["sma_20"], 1e-9)

	// Degenerate current close maps to zero rather than dividing by it.
	out = Normalize(fs, 0)
	assert.Zero(t, out["sma_20"])
}

func TestNormalizeNullMapsToZero(t *testing.T) {
	fs := models.FeatureSet{}
	fs.SetNull("rsi_14")

	out := Normalize(fs, 100)
	assert.Zero(t, out["rsi_14"])
}

package predictor

import (
	"context"
	"sync"

	"SignalPulse/internal/domain/models"
	"SignalPulse/internal/domain/repository"
	applogger "SignalPulse/pkg/logger"
)

// Model keys served by the descriptor registry.
const (
	ModelShortHorizon = "short_horizon"
	ModelLongHorizon  = "long_horizon"
)

// defaultDescriptors keep the pipeline running when the descriptor store is
// unreachable. Accuracy constants match the registry-served values.
var defaultDescriptors = map[string]models.ModelDescriptor{
	ModelShortHorizon: {
		Name:         ModelShortHorizon,
		Architecture: "lstm",
		Layers:       []int{64, 32, 16, 1},
		Accuracy:     0.72,
	},
	ModelLongHorizon: {
		Name:         ModelLongHorizon,
		Architecture: "gru",
		Layers:       []int{128, 64, 32, 1},
		Accuracy:     0.68,
	},
}

type loadEntry struct {
	done chan struct{}
	desc *models.ModelDescriptor
	err  error
}

// Registry memoizes model descriptors process-wide. The first caller for a
// key performs the load; concurrent first callers share that single
// in-flight load instead of racing. Repeated loads are no-ops returning the
// cached result.
type Registry struct {
	store repository.ModelStore
	l     *applogger.Logger

	mu      sync.Mutex
	entries map[string]*loadEntry
}

func NewRegistry(store repository.ModelStore, l *applogger.Logger) *Registry {
	return &Registry{store: store, l: l, entries: make(map[string]*loadEntry)}
}

// Load returns the descriptor for key, fetching it at most once per process.
func (r *Registry) Load(ctx context.Context, key string) (*models.ModelDescriptor, error) {
	r.mu.Lock()
	e, ok := r.entries[key]
	if !ok {
		e = &loadEntry{done: make(chan struct{})}
		r.entries[key] = e
		r.mu.Unlock()

		e.desc, e.err = r.fetch(ctx, key)
		close(e.done)
		return e.desc, e.err
	}
	r.mu.Unlock()

	select {
	case <-e.done:
		return e.desc, e.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (r *Registry) fetch(ctx context.Context, key string) (*models.ModelDescriptor, error) {
	desc, err := r.store.Descriptor(ctx, key)
	if err == nil {
		if r.l != nil {
			r.l.Info("model descriptor loaded",
				applogger.String("model", key),
				applogger.String("architecture", desc.Architecture),
			)
		}
		return desc, nil
	}
	if def, ok := defaultDescriptors[key]; ok {
		if r.l != nil {
			r.l.Warn("model descriptor store unavailable, using default",
				applogger.String("model", key),
				applogger.Error(err),
			)
		}
		d := def
		return &d, nil
	}
	return nil, models.NewPipelineError(models.KindProviderUnavailable, "model_registry.load", err)
}

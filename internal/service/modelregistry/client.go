package modelregistry

import (
	"context"
	"fmt"
	"time"

	"SignalPulse/internal/domain/models"
	drepo "SignalPulse/internal/domain/repository"
	xhttp "SignalPulse/pkg/http"
)

// Client fetches price-model descriptors from the registry service. The
// predictor registry memoizes the result, so this is called at most once
// per key per process in the happy path.
type Client struct {
	baseURL string
	client  *xhttp.Client
}

func New(baseURL string, timeout time.Duration) drepo.ModelStore {
	return &Client{
		baseURL: baseURL,
		client:  xhttp.NewClient(xhttp.WithTimeout(timeout)),
	}
}

func (c *Client) Descriptor(ctx context.Context, key string) (*models.ModelDescriptor, error) {
	if c.baseURL == "" {
		return nil, models.PipelineErrorf(models.KindProviderUnavailable, "modelregistry.descriptor",
			"registry url not configured")
	}

	var desc models.ModelDescriptor
	err := c.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    fmt.Sprintf("%s/models/%s", c.baseURL, key),
	}, &desc)
	if err != nil {
		return nil, models.NewPipelineError(models.KindProviderUnavailable, "modelregistry.descriptor", err)
	}
	if desc.Accuracy <= 0 || desc.Accuracy > 1 {
		return nil, models.PipelineErrorf(models.KindParse, "modelregistry.descriptor",
			"descriptor %s has accuracy %v outside (0,1]", key, desc.Accuracy)
	}
	return &desc, nil
}

package mapclient

import (
	"context"
	"fmt"
	"strings"

	"github.com/driftline/chainwatch/internal/adapter"
	"github.com/driftline/chainwatch/internal/domain"
)

// Client defines the pull side of the remote topology source: a REST API
// returning full chain snapshots
//
//go:generate mockgen -source=client.go -destination=../mocks/mapclient.go -package=mocks -mock_names=Client=MockMapClient
type Client interface {
	// GetChainSnapshot fetches the full topology snapshot for a chain
	GetChainSnapshot(ctx context.Context, mapID int64) (*domain.ChainSnapshot, error)
}

type client struct {
	baseURL    string
	httpClient adapter.HTTPClient
}

// NewClient creates a new map service REST client
func NewClient(baseURL string, httpClient adapter.HTTPClient) Client {
	return &client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// GetChainSnapshot fetches the full topology snapshot for a chain
func (c *client) GetChainSnapshot(ctx context.Context, mapID int64) (*domain.ChainSnapshot, error) {
	url := fmt.Sprintf("%s/api/maps/%d/snapshot", c.baseURL, mapID)

	var snapshot domain.ChainSnapshot
	if err := c.httpClient.Get(ctx, url, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to fetch snapshot for map %d: %w", mapID, err)
	}

	return &snapshot, nil
}

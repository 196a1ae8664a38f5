package messaging

import (
	"context"

	"github.com/driftline/chainwatch/internal/domain"
)

// Publisher defines the interface for publishing chain changes to downstream
// consumers
//
//go:generate mockgen -source=publisher.go -destination=../mocks/publisher.go -package=mocks -mock_names=Publisher=MockPublisher
type Publisher interface {
	// PublishChange publishes a chain change notification to the message broker
	PublishChange(ctx context.Context, change *domain.ChainChange) error
	// Close closes the connection
	Close()
}

package adapter

import (
	"context"

	"github.com/philippseith/signalr"
)

// SignalRClient defines an interface for SignalR client operations to enable mocking
//
//go:generate mockgen -source=signalr.go -destination=../mocks/signalr.go -package=mocks -mock_names=SignalRClient=MockSignalRClient
type SignalRClient interface {
	Start()
	Send(target string, args ...interface{}) <-chan error
	Stop()
	// Closed returns a channel that is closed once the underlying connection
	// reaches the closed state. Must be called before Start.
	Closed() <-chan struct{}
}

// SignalR defines an interface for creating SignalR clients
//
//go:generate mockgen -source=signalr.go -destination=../mocks/signalr.go -package=mocks -mock_names=SignalR=MockSignalR
type SignalR interface {
	NewClient(ctx context.Context, address string, receiver interface{}) (SignalRClient, error)
}

// RealSignalR implements SignalR using the standard signalr package
type RealSignalR struct{}

// NewSignalR creates a new real SignalR
func NewSignalR() SignalR {
	return &RealSignalR{}
}

func (s *RealSignalR) NewClient(ctx context.Context, address string, receiver interface{}) (SignalRClient, error) {
	conn, err := signalr.NewHTTPConnection(ctx, address)
	if err != nil {
		return nil, err
	}

	client, err := signalr.NewClient(ctx, signalr.WithConnection(conn), signalr.WithReceiver(receiver))
	if err != nil {
		return nil, err
	}

	return &realSignalRClient{client: client}, nil
}

// realSignalRClient wraps signalr.Client to expose connection closure as a channel
type realSignalRClient struct {
	client signalr.Client
}

func (c *realSignalRClient) Start() {
	c.client.Start()
}

func (c *realSignalRClient) Send(target string, args ...interface{}) <-chan error {
	return c.client.Send(target, args...)
}

func (c *realSignalRClient) Stop() {
	c.client.Stop()
}

func (c *realSignalRClient) Closed() <-chan struct{} {
	closed := make(chan struct{})
	states := make(chan signalr.ClientState, 1)
	cancel := c.client.ObserveStateChanged(states)

	go func() {
		defer cancel()
		for state := range states {
			if state == signalr.ClientClosed {
				close(closed)
				return
			}
		}
		close(closed)
	}()

	return closed
}

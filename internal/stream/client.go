package stream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/driftline/chainwatch/internal/adapter"
	"github.com/driftline/chainwatch/internal/domain"
	"github.com/driftline/chainwatch/internal/logger"
)

const (
	SUBSCRIBE_TIMEOUT = 15 * time.Second

	// subscribeTarget is the hub method that scopes the stream to one chain
	subscribeTarget = "SubscribeToMapEvents"
)

// Handler receives each parsed event as soon as it is decoded. No batching:
// low latency is the point of the stream.
type Handler func(event *domain.MapEvent)

// Client owns one chain's streaming connection for one connection lifetime.
// The coordinator restarts a fresh client after a drop.
//
//go:generate mockgen -source=client.go -destination=../mocks/stream.go -package=mocks -mock_names=Client=MockStreamClient,Factory=MockStreamFactory
type Client interface {
	// Run opens the stream, subscribes to the chain's events and blocks until
	// ctx is cancelled or the connection terminates. A remote-initiated close
	// returns domain.ErrStreamClosed so the caller can schedule a reconnect.
	Run(ctx context.Context) error
}

// Factory creates stream clients, one per monitored chain
type Factory interface {
	New(mapID int64, onConnected func(), handler Handler) Client
}

type factory struct {
	wsURL   string
	signalR adapter.SignalR
	clock   adapter.Clock
}

// NewFactory creates a stream client factory bound to the map service
// websocket endpoint
func NewFactory(wsURL string, signalR adapter.SignalR, clock adapter.Clock) Factory {
	return &factory{
		wsURL:   wsURL,
		signalR: signalR,
		clock:   clock,
	}
}

func (f *factory) New(mapID int64, onConnected func(), handler Handler) Client {
	return &client{
		wsURL:       f.wsURL,
		mapID:       mapID,
		signalR:     f.signalR,
		clock:       f.clock,
		onConnected: onConnected,
		handler:     handler,
	}
}

type client struct {
	ctx         context.Context
	wsURL       string
	mapID       int64
	signalR     adapter.SignalR
	clock       adapter.Clock
	onConnected func()
	handler     Handler
}

// Run opens the stream and blocks until ctx is done or the connection drops
func (c *client) Run(ctx context.Context) error {
	// Store context for receiver callbacks
	c.ctx = ctx

	sr, err := c.signalR.NewClient(ctx, c.wsURL, c)
	if err != nil {
		return fmt.Errorf("failed to create stream connection: %w", err)
	}

	closed := sr.Closed()
	sr.Start()
	defer sr.Stop()

	// Let the transport finish negotiating before the first send
	c.clock.Sleep(time.Second)

	sendErrChan := sr.Send(subscribeTarget, map[string]interface{}{"map_id": c.mapID})
	select {
	case err := <-sendErrChan:
		if err != nil {
			return fmt.Errorf("failed to subscribe to map events: %w", err)
		}
	case <-c.clock.After(SUBSCRIBE_TIMEOUT):
		return fmt.Errorf("timeout waiting for map events subscription: %w", domain.ErrSubscriptionFailed)
	case <-ctx.Done():
		return ctx.Err()
	}

	logger.InfoCtx(ctx, "Map event stream established", zap.Int64("map_id", c.mapID))
	if c.onConnected != nil {
		c.onConnected()
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-closed:
		return domain.ErrStreamClosed
	}
}

// MapEvents handles incoming event frames from the map service hub.
// Method name must match the SignalR target name "mapEvents".
func (c *client) MapEvents(data interface{}) {
	// The SignalR library hands over loosely decoded JSON; round-trip it so
	// the frame parser sees the original wire shape
	frameData, err := json.Marshal(data)
	if err != nil {
		logger.ErrorCtx(c.ctx, errors.New("error marshaling map event frame"),
			zap.Error(err), zap.Int64("map_id", c.mapID))
		return
	}

	event, err := domain.ParseEventFrame(c.mapID, frameData)
	if err != nil {
		// A single bad frame must not tear down a healthy stream
		logger.WarnCtx(c.ctx, "Skipping malformed event frame",
			zap.Error(err), zap.Int64("map_id", c.mapID))
		return
	}

	if c.handler != nil {
		c.handler(event)
	}
}

package sync

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/driftline/chainwatch/internal/adapter"
	"github.com/driftline/chainwatch/internal/domain"
	"github.com/driftline/chainwatch/internal/logger"
	"github.com/driftline/chainwatch/internal/mapclient"
	"github.com/driftline/chainwatch/internal/messaging"
	"github.com/driftline/chainwatch/internal/recon"
	"github.com/driftline/chainwatch/internal/store"
	"github.com/driftline/chainwatch/internal/store/schema"
	"github.com/driftline/chainwatch/internal/stream"
)

// ErrStopped is returned by coordinator calls after the run loop has exited
var ErrStopped = errors.New("sync coordinator stopped")

// ChainState describes where a monitored chain is in its stream lifecycle
type ChainState string

const (
	// ChainStateStarting means the first stream connection is being established
	ChainStateStarting ChainState = "starting"
	// ChainStateStreaming means the event stream is connected and delivering
	ChainStateStreaming ChainState = "streaming"
	// ChainStateReconnecting means the stream dropped and a reconnect is pending
	ChainStateReconnecting ChainState = "reconnecting"
)

// ChainStatus is the reported state of one monitored chain
type ChainStatus struct {
	MapID      int64      `json:"map_id"`
	State      ChainState `json:"state"`
	LastSyncAt *time.Time `json:"last_sync_at,omitempty"`
	LastError  string     `json:"last_error,omitempty"`
}

// Status is a point-in-time view over all monitored chains
type Status struct {
	Chains []ChainStatus `json:"chains"`
}

// Config holds the coordinator's timing and worker pool settings
type Config struct {
	// SyncInterval is the period of the full snapshot reconciliation pass
	SyncInterval time.Duration
	// StreamReconnectDelay is the initial wait before re-dialing a dropped
	// stream; the delay doubles on consecutive failures up to MaxReconnectDelay
	StreamReconnectDelay time.Duration
	// MaxReconnectDelay caps the reconnect backoff
	MaxReconnectDelay time.Duration
	// SnapshotWorkers bounds concurrent snapshot pulls
	SnapshotWorkers int
	// SnapshotQueueSize bounds pending snapshot pulls
	SnapshotQueueSize int
}

// Coordinator owns the monitored chain set. It runs as a single actor loop:
// commands, stream callbacks and snapshot results all funnel into the loop,
// so each chain's store writes are applied by exactly one goroutine and never
// interleave.
type Coordinator struct {
	cfg       Config
	store     store.Store
	mapClient mapclient.Client
	streams   stream.Factory
	publisher messaging.Publisher
	clock     adapter.Clock
	pool      pond.Pool

	cmds  chan interface{}
	inbox chan interface{}
	done  chan struct{}

	chains map[int64]*chainRuntime
}

// chainRuntime is the loop-private bookkeeping for one monitored chain
type chainRuntime struct {
	state      ChainState
	cancel     context.CancelFunc
	lastSyncAt *time.Time
	lastErr    error
}

type monitorCmd struct {
	mapID         int64
	corporationID int64
	reply         chan error
}

type stopCmd struct {
	mapID int64
	reply chan error
}

type statusCmd struct {
	reply chan Status
}

type forceSyncCmd struct {
	mapID int64
	reply chan error
}

type forceSyncAllCmd struct {
	reply chan error
}

type eventMsg struct {
	event *domain.MapEvent
}

type streamUpMsg struct {
	mapID int64
}

type streamDownMsg struct {
	mapID int64
	err   error
}

type snapshotMsg struct {
	mapID    int64
	snapshot *domain.ChainSnapshot
	err      error
}

// NewCoordinator creates a sync coordinator. Run must be called before any
// command method.
func NewCoordinator(
	cfg Config,
	s store.Store,
	mapClient mapclient.Client,
	streams stream.Factory,
	publisher messaging.Publisher,
	clock adapter.Clock,
) *Coordinator {
	return &Coordinator{
		cfg:       cfg,
		store:     s,
		mapClient: mapClient,
		streams:   streams,
		publisher: publisher,
		clock:     clock,
		pool:      pond.NewPool(cfg.SnapshotWorkers, pond.WithQueueSize(cfg.SnapshotQueueSize)),
		cmds:      make(chan interface{}),
		inbox:     make(chan interface{}, 256),
		done:      make(chan struct{}),
		chains:    make(map[int64]*chainRuntime),
	}
}

// MonitorChain registers a chain for synchronization. Monitoring an already
// monitored chain is a no-op.
func (c *Coordinator) MonitorChain(ctx context.Context, mapID, corporationID int64) error {
	reply := make(chan error, 1)
	return c.send(ctx, monitorCmd{mapID: mapID, corporationID: corporationID, reply: reply}, reply)
}

// StopMonitoring stops synchronizing a chain. Its stored topology stays in
// place with monitoring disabled. Stopping an unmonitored chain is a no-op.
func (c *Coordinator) StopMonitoring(ctx context.Context, mapID int64) error {
	reply := make(chan error, 1)
	return c.send(ctx, stopCmd{mapID: mapID, reply: reply}, reply)
}

// ForceSync schedules an immediate snapshot reconciliation for a chain
func (c *Coordinator) ForceSync(ctx context.Context, mapID int64) error {
	reply := make(chan error, 1)
	return c.send(ctx, forceSyncCmd{mapID: mapID, reply: reply}, reply)
}

// ForceSyncAll schedules an immediate snapshot reconciliation for every
// monitored chain, independent of the timer
func (c *Coordinator) ForceSyncAll(ctx context.Context) error {
	reply := make(chan error, 1)
	return c.send(ctx, forceSyncAllCmd{reply: reply}, reply)
}

// Status reports the state of every monitored chain
func (c *Coordinator) Status(ctx context.Context) (Status, error) {
	reply := make(chan Status, 1)
	select {
	case c.cmds <- statusCmd{reply: reply}:
	case <-c.done:
		return Status{}, ErrStopped
	case <-ctx.Done():
		return Status{}, ctx.Err()
	}

	select {
	case status := <-reply:
		return status, nil
	case <-c.done:
		return Status{}, ErrStopped
	case <-ctx.Done():
		return Status{}, ctx.Err()
	}
}

func (c *Coordinator) send(ctx context.Context, cmd interface{}, reply chan error) error {
	select {
	case c.cmds <- cmd:
	case <-c.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-reply:
		return err
	case <-c.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run executes the coordinator loop until ctx is cancelled. Chains whose
// monitoring flag survived a restart are resumed before the loop starts.
func (c *Coordinator) Run(ctx context.Context) error {
	defer close(c.done)
	defer c.pool.StopAndWait()

	if err := c.resume(ctx); err != nil {
		return err
	}

	ticker := c.clock.NewTicker(c.cfg.SyncInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.stopAllStreams()
			return ctx.Err()
		case cmd := <-c.cmds:
			c.handleCommand(ctx, cmd)
		case msg := <-c.inbox:
			c.handleMessage(ctx, msg)
		case <-ticker.C():
			c.reconcileAll(ctx)
		}
	}
}

// resume restarts monitoring for every chain flagged in the store and kicks
// off an immediate reconciliation to catch up on what was missed while down
func (c *Coordinator) resume(ctx context.Context) error {
	topologies, err := c.store.ListMonitoredChains(ctx)
	if err != nil {
		return err
	}

	for i := range topologies {
		c.startChain(ctx, topologies[i].MapID)
	}
	if len(topologies) > 0 {
		logger.InfoCtx(ctx, "Resumed monitored chains", zap.Int("count", len(topologies)))
		c.reconcileAll(ctx)
	}

	return nil
}

func (c *Coordinator) handleCommand(ctx context.Context, cmd interface{}) {
	switch cmd := cmd.(type) {
	case monitorCmd:
		cmd.reply <- c.monitorChain(ctx, cmd.mapID, cmd.corporationID)
	case stopCmd:
		cmd.reply <- c.stopMonitoring(ctx, cmd.mapID)
	case forceSyncCmd:
		cmd.reply <- c.forceSync(ctx, cmd.mapID)
	case forceSyncAllCmd:
		c.reconcileAll(ctx)
		cmd.reply <- nil
	case statusCmd:
		cmd.reply <- c.buildStatus()
	}
}

func (c *Coordinator) handleMessage(ctx context.Context, msg interface{}) {
	switch msg := msg.(type) {
	case streamUpMsg:
		if rt, ok := c.chains[msg.mapID]; ok {
			rt.state = ChainStateStreaming
			rt.lastErr = nil
			logger.InfoCtx(ctx, "Chain stream connected", zap.Int64("map_id", msg.mapID))
		}
	case streamDownMsg:
		if rt, ok := c.chains[msg.mapID]; ok {
			rt.state = ChainStateReconnecting
			rt.lastErr = msg.err
			logger.WarnCtx(ctx, "Chain stream dropped, reconnecting",
				zap.Int64("map_id", msg.mapID), zap.Error(msg.err))
		}
	case eventMsg:
		c.applyEvent(ctx, msg.event)
	case snapshotMsg:
		c.applySnapshot(ctx, msg)
	}
}

func (c *Coordinator) monitorChain(ctx context.Context, mapID, corporationID int64) error {
	if _, ok := c.chains[mapID]; ok {
		return nil
	}

	topology, err := c.store.GetChainTopology(ctx, mapID)
	if err != nil {
		return err
	}
	if topology != nil {
		// Re-monitoring a known chain keeps its accumulated counts
		if err := c.store.SetChainMonitored(ctx, mapID, true); err != nil {
			return err
		}
	} else {
		err := c.store.UpsertChainTopology(ctx, &schema.ChainTopology{
			MapID:             mapID,
			CorporationID:     corporationID,
			MonitoringEnabled: true,
			LastActivityAt:    c.clock.Now().UTC(),
		})
		if err != nil {
			return err
		}
	}

	c.startChain(ctx, mapID)
	c.scheduleSnapshot(ctx, mapID)
	logger.InfoCtx(ctx, "Monitoring chain",
		zap.Int64("map_id", mapID), zap.Int64("corporation_id", corporationID))
	return nil
}

func (c *Coordinator) stopMonitoring(ctx context.Context, mapID int64) error {
	rt, ok := c.chains[mapID]
	if !ok {
		return nil
	}

	if err := c.store.SetChainMonitored(ctx, mapID, false); err != nil {
		return err
	}

	rt.cancel()
	delete(c.chains, mapID)
	logger.InfoCtx(ctx, "Stopped monitoring chain", zap.Int64("map_id", mapID))
	return nil
}

func (c *Coordinator) forceSync(ctx context.Context, mapID int64) error {
	if _, ok := c.chains[mapID]; !ok {
		return domain.ErrChainNotMonitored
	}

	c.scheduleSnapshot(ctx, mapID)
	return nil
}

func (c *Coordinator) buildStatus() Status {
	status := Status{Chains: make([]ChainStatus, 0, len(c.chains))}
	for mapID, rt := range c.chains {
		entry := ChainStatus{
			MapID:      mapID,
			State:      rt.state,
			LastSyncAt: rt.lastSyncAt,
		}
		if rt.lastErr != nil {
			entry.LastError = rt.lastErr.Error()
		}
		status.Chains = append(status.Chains, entry)
	}
	sort.Slice(status.Chains, func(i, j int) bool {
		return status.Chains[i].MapID < status.Chains[j].MapID
	})
	return status
}

// startChain spawns the chain's stream goroutine and registers its runtime
func (c *Coordinator) startChain(ctx context.Context, mapID int64) {
	chainCtx, cancel := context.WithCancel(ctx)
	c.chains[mapID] = &chainRuntime{
		state:  ChainStateStarting,
		cancel: cancel,
	}

	go c.runStream(chainCtx, mapID)
}

// runStream keeps one chain's event stream alive for the chain's lifetime,
// re-dialing after drops with capped exponential delay
func (c *Coordinator) runStream(ctx context.Context, mapID int64) {
	delay := c.cfg.StreamReconnectDelay

	for {
		connected := make(chan struct{})
		client := c.streams.New(mapID,
			func() {
				close(connected)
				c.post(ctx, streamUpMsg{mapID: mapID})
			},
			func(event *domain.MapEvent) {
				c.post(ctx, eventMsg{event: event})
			},
		)

		err := client.Run(ctx)
		if ctx.Err() != nil {
			return
		}

		select {
		case <-connected:
			// The last attempt got through, start the backoff over
			delay = c.cfg.StreamReconnectDelay
		default:
		}

		c.post(ctx, streamDownMsg{mapID: mapID, err: err})

		select {
		case <-ctx.Done():
			return
		case <-c.clock.After(delay):
		}

		delay *= 2
		if delay > c.cfg.MaxReconnectDelay {
			delay = c.cfg.MaxReconnectDelay
		}
	}
}

// post delivers a message to the loop without blocking a dead chain goroutine
func (c *Coordinator) post(ctx context.Context, msg interface{}) {
	select {
	case c.inbox <- msg:
	case <-ctx.Done():
	case <-c.done:
	}
}

// reconcileAll schedules a snapshot pull for every monitored chain. Pulls run
// concurrently on the worker pool; results come back through the inbox and
// are applied serially, so one slow or failing chain never blocks the others.
func (c *Coordinator) reconcileAll(ctx context.Context) {
	for mapID := range c.chains {
		c.scheduleSnapshot(ctx, mapID)
	}
}

func (c *Coordinator) scheduleSnapshot(ctx context.Context, mapID int64) {
	c.pool.Submit(func() {
		snapshot, err := c.mapClient.GetChainSnapshot(ctx, mapID)
		c.post(ctx, snapshotMsg{mapID: mapID, snapshot: snapshot, err: err})
	})
}

// applySnapshot reconciles one pulled snapshot against the store and
// publishes a reconciliation change once the batch is durable
func (c *Coordinator) applySnapshot(ctx context.Context, msg snapshotMsg) {
	rt, ok := c.chains[msg.mapID]
	if !ok {
		// Stopped while the pull was in flight
		logger.DebugCtx(ctx, "Dropping snapshot for unmonitored chain",
			zap.Int64("map_id", msg.mapID))
		return
	}

	if msg.err != nil {
		rt.lastErr = msg.err
		logger.ErrorCtx(ctx, msg.err, zap.String("message", "Snapshot pull failed"),
			zap.Int64("map_id", msg.mapID))
		return
	}

	local, err := c.loadLocalState(ctx, msg.mapID)
	if err != nil {
		rt.lastErr = err
		logger.ErrorCtx(ctx, err, zap.String("message", "Failed to load chain state"),
			zap.Int64("map_id", msg.mapID))
		return
	}

	now := c.clock.Now().UTC()
	ops := recon.DiffSnapshot(msg.mapID, msg.snapshot, local, now)
	if err := c.applyOps(ctx, ops); err != nil {
		rt.lastErr = err
		logger.ErrorCtx(ctx, err, zap.String("message", "Failed to apply snapshot"),
			zap.Int64("map_id", msg.mapID))
		return
	}

	rt.lastSyncAt = &now
	rt.lastErr = nil
	logger.DebugCtx(ctx, "Chain reconciled",
		zap.Int64("map_id", msg.mapID),
		zap.Int("systems", len(msg.snapshot.Systems)),
		zap.Int("inhabitants", len(msg.snapshot.Inhabitants)),
		zap.Int("connections", len(msg.snapshot.Connections)))

	c.publish(ctx, &domain.ChainChange{
		ChangeID:   uuid.NewString(),
		MapID:      msg.mapID,
		Kind:       domain.ChangeKindReconciliation,
		OccurredAt: now,
	})
}

// applyEvent routes one stream event through the reconciliation engine and
// publishes it only after its operations are durably applied
func (c *Coordinator) applyEvent(ctx context.Context, event *domain.MapEvent) {
	rt, ok := c.chains[event.MapID]
	if !ok {
		// The stream can deliver a few frames after stop_monitoring
		logger.DebugCtx(ctx, "Dropping event for unmonitored chain",
			zap.Int64("map_id", event.MapID), zap.String("type", string(event.Type)))
		return
	}

	if !event.Known() {
		logger.WarnCtx(ctx, "Dropping unknown event type",
			zap.Int64("map_id", event.MapID), zap.String("type", string(event.Type)))
		return
	}

	local, err := c.loadLocalState(ctx, event.MapID)
	if err != nil {
		rt.lastErr = err
		logger.ErrorCtx(ctx, err, zap.String("message", "Failed to load chain state"),
			zap.Int64("map_id", event.MapID))
		return
	}

	now := c.clock.Now().UTC()
	ops := recon.DiffEvent(event, local, now)
	if len(ops) == 0 {
		logger.DebugCtx(ctx, "Event changed nothing",
			zap.Int64("map_id", event.MapID), zap.String("type", string(event.Type)))
		return
	}

	if err := c.applyOps(ctx, ops); err != nil {
		rt.lastErr = err
		logger.ErrorCtx(ctx, err, zap.String("message", "Failed to apply event"),
			zap.Int64("map_id", event.MapID), zap.String("type", string(event.Type)))
		return
	}

	c.publish(ctx, &domain.ChainChange{
		ChangeID:     uuid.NewString(),
		MapID:        event.MapID,
		Kind:         string(event.Type),
		InitialState: event.InitialState,
		Payload:      event.Raw,
		OccurredAt:   now,
	})
}

func (c *Coordinator) loadLocalState(ctx context.Context, mapID int64) (recon.LocalState, error) {
	topology, err := c.store.GetChainTopology(ctx, mapID)
	if err != nil {
		return recon.LocalState{}, err
	}

	inhabitants, err := c.store.ListPresentInhabitants(ctx, mapID)
	if err != nil {
		return recon.LocalState{}, err
	}

	connections, err := c.store.ListConnections(ctx, mapID)
	if err != nil {
		return recon.LocalState{}, err
	}

	return recon.LocalState{
		Topology:    topology,
		Inhabitants: inhabitants,
		Connections: connections,
	}, nil
}

func (c *Coordinator) applyOps(ctx context.Context, ops []recon.Operation) error {
	return c.store.WithTransaction(ctx, func(tx store.Store) error {
		for _, op := range ops {
			if err := op.Apply(ctx, tx); err != nil {
				return err
			}
		}
		return nil
	})
}

// publish sends a change notification. Publishing is best effort: the store
// write already succeeded, so a broker hiccup is logged and not retried here.
func (c *Coordinator) publish(ctx context.Context, change *domain.ChainChange) {
	if err := c.publisher.PublishChange(ctx, change); err != nil {
		logger.ErrorCtx(ctx, err, zap.String("message", "Failed to publish chain change"),
			zap.Int64("map_id", change.MapID), zap.String("kind", change.Kind))
	}
}

func (c *Coordinator) stopAllStreams() {
	for mapID, rt := range c.chains {
		rt.cancel()
		delete(c.chains, mapID)
	}
}

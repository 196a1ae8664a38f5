package sync_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driftline/chainwatch/internal/adapter"
	"github.com/driftline/chainwatch/internal/domain"
	"github.com/driftline/chainwatch/internal/logger"
	"github.com/driftline/chainwatch/internal/mocks"
	"github.com/driftline/chainwatch/internal/store"
	"github.com/driftline/chainwatch/internal/store/schema"
	"github.com/driftline/chainwatch/internal/stream"
	chainsync "github.com/driftline/chainwatch/internal/sync"
)

func TestMain(m *testing.M) {
	// Initialize logger for tests
	err := logger.Initialize(logger.Config{
		Debug: false,
	})
	if err != nil {
		panic(err)
	}

	code := m.Run()
	os.Exit(code)
}

// blockingStreamClient stands in for a healthy stream connection: it stays up
// until the chain's context is cancelled
type blockingStreamClient struct{}

func (c *blockingStreamClient) Run(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

// capturedStream holds the callbacks the coordinator wired into a stream client
type capturedStream struct {
	onConnected func()
	handler     stream.Handler
}

// testCoordinatorMocks contains all the mocks needed for testing the coordinator
type testCoordinatorMocks struct {
	ctrl      *gomock.Controller
	store     *mocks.MockStore
	mapClient *mocks.MockMapClient
	factory   *mocks.MockStreamFactory
	publisher *mocks.MockPublisher

	published chan *domain.ChainChange
	streams   chan capturedStream

	coordinator *chainsync.Coordinator
}

func setupTestCoordinator(t *testing.T) *testCoordinatorMocks {
	ctrl := gomock.NewController(t)

	tm := &testCoordinatorMocks{
		ctrl:      ctrl,
		store:     mocks.NewMockStore(ctrl),
		mapClient: mocks.NewMockMapClient(ctrl),
		factory:   mocks.NewMockStreamFactory(ctrl),
		publisher: mocks.NewMockPublisher(ctrl),
		published: make(chan *domain.ChainChange, 16),
		streams:   make(chan capturedStream, 16),
	}

	tm.factory.EXPECT().
		New(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(mapID int64, onConnected func(), handler stream.Handler) stream.Client {
			tm.streams <- capturedStream{onConnected: onConnected, handler: handler}
			return &blockingStreamClient{}
		}).
		AnyTimes()

	tm.publisher.EXPECT().
		PublishChange(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, change *domain.ChainChange) error {
			tm.published <- change
			return nil
		}).
		AnyTimes()

	// Batches run against the same mock inside the transaction
	tm.store.EXPECT().
		WithTransaction(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(store.Store) error) error {
			return fn(tm.store)
		}).
		AnyTimes()

	tm.coordinator = chainsync.NewCoordinator(
		chainsync.Config{
			SyncInterval:         time.Hour, // keep the periodic pass out of the way
			StreamReconnectDelay: time.Millisecond,
			MaxReconnectDelay:    10 * time.Millisecond,
			SnapshotWorkers:      4,
			SnapshotQueueSize:    64,
		},
		tm.store,
		tm.mapClient,
		tm.factory,
		tm.publisher,
		adapter.NewClock(),
	)

	return tm
}

func (tm *testCoordinatorMocks) run(t *testing.T) context.CancelFunc {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		_ = tm.coordinator.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		tm.ctrl.Finish()
	})
	return cancel
}

func (tm *testCoordinatorMocks) waitPublished(t *testing.T) *domain.ChainChange {
	t.Helper()
	select {
	case change := <-tm.published:
		return change
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a published change")
		return nil
	}
}

func (tm *testCoordinatorMocks) waitStream(t *testing.T) capturedStream {
	t.Helper()
	select {
	case s := <-tm.streams:
		return s
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a stream client")
		return capturedStream{}
	}
}

func (tm *testCoordinatorMocks) expectEmptyChain(mapID int64, topology *schema.ChainTopology) {
	tm.store.EXPECT().GetChainTopology(gomock.Any(), mapID).Return(topology, nil).AnyTimes()
	tm.store.EXPECT().ListPresentInhabitants(gomock.Any(), mapID).Return(nil, nil).AnyTimes()
	tm.store.EXPECT().ListConnections(gomock.Any(), mapID).Return(nil, nil).AnyTimes()
	tm.store.EXPECT().UpsertChainTopology(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	tm.store.EXPECT().UpsertInhabitant(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	tm.store.EXPECT().UpsertConnection(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
}

func testTopology(mapID int64) *schema.ChainTopology {
	return &schema.ChainTopology{
		ID:                1,
		MapID:             mapID,
		CorporationID:     900,
		MonitoringEnabled: true,
		SystemCount:       1,
	}
}

func TestCoordinator_MonitorChain_ReconcilesAndPublishes(t *testing.T) {
	tm := setupTestCoordinator(t)

	tm.store.EXPECT().ListMonitoredChains(gomock.Any()).Return(nil, nil)
	tm.expectEmptyChain(5001, testTopology(5001))
	tm.store.EXPECT().SetChainMonitored(gomock.Any(), int64(5001), true).Return(nil)

	tm.mapClient.EXPECT().
		GetChainSnapshot(gomock.Any(), int64(5001)).
		Return(&domain.ChainSnapshot{
			Systems: []domain.SystemPayload{{SolarSystemID: 31000001, SolarSystemName: "J123456"}},
			Inhabitants: []domain.InhabitantPayload{
				{CharacterID: 100, CharacterName: "Pilot One", SolarSystemID: 31000001},
			},
		}, nil).
		AnyTimes()

	tm.run(t)

	ctx := context.Background()
	require.NoError(t, tm.coordinator.MonitorChain(ctx, 5001, 900))

	change := tm.waitPublished(t)
	assert.Equal(t, int64(5001), change.MapID)
	assert.Equal(t, domain.ChangeKindReconciliation, change.Kind)
	assert.NotEmpty(t, change.ChangeID)

	// Monitoring again is a no-op
	require.NoError(t, tm.coordinator.MonitorChain(ctx, 5001, 900))
}

func TestCoordinator_StreamEvent_AppliedThenPublished(t *testing.T) {
	tm := setupTestCoordinator(t)

	tm.store.EXPECT().ListMonitoredChains(gomock.Any()).Return(nil, nil)
	tm.expectEmptyChain(5001, testTopology(5001))
	tm.store.EXPECT().SetChainMonitored(gomock.Any(), int64(5001), true).Return(nil)
	tm.mapClient.EXPECT().
		GetChainSnapshot(gomock.Any(), int64(5001)).
		Return(&domain.ChainSnapshot{}, nil).
		AnyTimes()

	tm.run(t)

	ctx := context.Background()
	require.NoError(t, tm.coordinator.MonitorChain(ctx, 5001, 900))
	s := tm.waitStream(t)

	// Initial snapshot reconciliation
	initial := tm.waitPublished(t)
	require.Equal(t, domain.ChangeKindReconciliation, initial.Kind)

	s.onConnected()

	raw := json.RawMessage(`{"source_system_id":31000001,"target_system_id":31000002}`)
	s.handler(&domain.MapEvent{
		MapID: 5001,
		Type:  domain.EventTypeConnectionAdded,
		Raw:   raw,
		Connection: &domain.ConnectionPayload{
			SourceSystemID: 31000001,
			TargetSystemID: 31000002,
		},
	})

	change := tm.waitPublished(t)
	assert.Equal(t, string(domain.EventTypeConnectionAdded), change.Kind)
	assert.Equal(t, raw, change.Payload)
}

func TestCoordinator_StopMonitoring_DropsLateEvents(t *testing.T) {
	tm := setupTestCoordinator(t)

	tm.store.EXPECT().ListMonitoredChains(gomock.Any()).Return(nil, nil)
	tm.expectEmptyChain(5001, testTopology(5001))
	tm.store.EXPECT().SetChainMonitored(gomock.Any(), int64(5001), true).Return(nil)
	tm.store.EXPECT().SetChainMonitored(gomock.Any(), int64(5001), false).Return(nil)
	tm.mapClient.EXPECT().
		GetChainSnapshot(gomock.Any(), int64(5001)).
		Return(&domain.ChainSnapshot{}, nil).
		AnyTimes()

	tm.run(t)

	ctx := context.Background()
	require.NoError(t, tm.coordinator.MonitorChain(ctx, 5001, 900))
	s := tm.waitStream(t)
	tm.waitPublished(t) // initial reconciliation

	require.NoError(t, tm.coordinator.StopMonitoring(ctx, 5001))

	// A frame still in flight when monitoring stopped must not publish
	s.handler(&domain.MapEvent{
		MapID: 5001,
		Type:  domain.EventTypeConnectionAdded,
		Connection: &domain.ConnectionPayload{
			SourceSystemID: 31000001,
			TargetSystemID: 31000002,
		},
	})

	select {
	case change := <-tm.published:
		t.Fatalf("unexpected publish after stop: %+v", change)
	case <-time.After(300 * time.Millisecond):
	}

	// Stopping again is a no-op
	require.NoError(t, tm.coordinator.StopMonitoring(ctx, 5001))
}

func TestCoordinator_ForceSyncAll_ReconcilesEveryChain(t *testing.T) {
	tm := setupTestCoordinator(t)

	tm.store.EXPECT().ListMonitoredChains(gomock.Any()).Return(nil, nil)
	tm.expectEmptyChain(1, testTopology(1))
	tm.expectEmptyChain(2, testTopology(2))
	tm.store.EXPECT().SetChainMonitored(gomock.Any(), int64(1), true).Return(nil)
	tm.store.EXPECT().SetChainMonitored(gomock.Any(), int64(2), true).Return(nil)
	tm.mapClient.EXPECT().
		GetChainSnapshot(gomock.Any(), gomock.Any()).
		Return(&domain.ChainSnapshot{}, nil).
		AnyTimes()

	tm.run(t)

	ctx := context.Background()
	require.NoError(t, tm.coordinator.MonitorChain(ctx, 1, 900))
	require.NoError(t, tm.coordinator.MonitorChain(ctx, 2, 900))

	// Drain the two initial reconciliations
	seen := map[int64]bool{}
	seen[tm.waitPublished(t).MapID] = true
	seen[tm.waitPublished(t).MapID] = true
	require.Len(t, seen, 2)

	require.NoError(t, tm.coordinator.ForceSyncAll(ctx))

	forced := map[int64]bool{}
	forced[tm.waitPublished(t).MapID] = true
	forced[tm.waitPublished(t).MapID] = true
	assert.Len(t, forced, 2)
}

func TestCoordinator_ForceSync_UnmonitoredChain(t *testing.T) {
	tm := setupTestCoordinator(t)

	tm.store.EXPECT().ListMonitoredChains(gomock.Any()).Return(nil, nil)

	tm.run(t)

	err := tm.coordinator.ForceSync(context.Background(), 999)
	assert.ErrorIs(t, err, domain.ErrChainNotMonitored)
}

func TestCoordinator_Status_TracksStreamState(t *testing.T) {
	tm := setupTestCoordinator(t)

	tm.store.EXPECT().ListMonitoredChains(gomock.Any()).Return(nil, nil)
	tm.expectEmptyChain(5001, testTopology(5001))
	tm.store.EXPECT().SetChainMonitored(gomock.Any(), int64(5001), true).Return(nil)
	tm.mapClient.EXPECT().
		GetChainSnapshot(gomock.Any(), int64(5001)).
		Return(&domain.ChainSnapshot{}, nil).
		AnyTimes()

	tm.run(t)

	ctx := context.Background()
	require.NoError(t, tm.coordinator.MonitorChain(ctx, 5001, 900))
	s := tm.waitStream(t)
	tm.waitPublished(t)

	s.onConnected()

	require.Eventually(t, func() bool {
		status, err := tm.coordinator.Status(ctx)
		if err != nil || len(status.Chains) != 1 {
			return false
		}
		entry := status.Chains[0]
		return entry.MapID == 5001 &&
			entry.State == chainsync.ChainStateStreaming &&
			entry.LastSyncAt != nil
	}, 5*time.Second, 10*time.Millisecond)
}

func TestCoordinator_SnapshotFailureIsolatedPerChain(t *testing.T) {
	tm := setupTestCoordinator(t)

	tm.store.EXPECT().ListMonitoredChains(gomock.Any()).Return(nil, nil)
	tm.expectEmptyChain(1, testTopology(1))
	tm.expectEmptyChain(2, testTopology(2))
	tm.store.EXPECT().SetChainMonitored(gomock.Any(), int64(1), true).Return(nil)
	tm.store.EXPECT().SetChainMonitored(gomock.Any(), int64(2), true).Return(nil)

	pullErr := errors.New("map service unavailable")
	tm.mapClient.EXPECT().
		GetChainSnapshot(gomock.Any(), int64(1)).
		Return(nil, pullErr).
		AnyTimes()
	tm.mapClient.EXPECT().
		GetChainSnapshot(gomock.Any(), int64(2)).
		Return(&domain.ChainSnapshot{}, nil).
		AnyTimes()

	tm.run(t)

	ctx := context.Background()
	require.NoError(t, tm.coordinator.MonitorChain(ctx, 1, 900))
	require.NoError(t, tm.coordinator.MonitorChain(ctx, 2, 900))

	// The healthy chain still reconciles
	change := tm.waitPublished(t)
	assert.Equal(t, int64(2), change.MapID)

	// And the failing chain reports its error
	require.Eventually(t, func() bool {
		status, err := tm.coordinator.Status(ctx)
		if err != nil {
			return false
		}
		for _, entry := range status.Chains {
			if entry.MapID == 1 && entry.LastError != "" {
				return true
			}
		}
		return false
	}, 5*time.Second, 10*time.Millisecond)
}

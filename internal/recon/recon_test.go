package recon_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driftline/chainwatch/internal/domain"
	"github.com/driftline/chainwatch/internal/recon"
	"github.com/driftline/chainwatch/internal/store/schema"
)

var testNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func topologyOp(t *testing.T, ops []recon.Operation) recon.UpsertTopology {
	t.Helper()
	for _, op := range ops {
		if up, ok := op.(recon.UpsertTopology); ok {
			return up
		}
	}
	t.Fatal("no topology operation in batch")
	return recon.UpsertTopology{}
}

func departedCharacters(ops []recon.Operation) []int64 {
	var ids []int64
	for _, op := range ops {
		if dep, ok := op.(recon.DepartInhabitant); ok {
			ids = append(ids, dep.CharacterID)
		}
	}
	return ids
}

func upsertedCharacters(ops []recon.Operation) map[int64]*schema.SystemInhabitant {
	out := make(map[int64]*schema.SystemInhabitant)
	for _, op := range ops {
		if up, ok := op.(recon.UpsertInhabitant); ok {
			out[up.Inhabitant.CharacterID] = up.Inhabitant
		}
	}
	return out
}

func monitoredState(systemCount, connectionCount int) recon.LocalState {
	return recon.LocalState{
		Topology: &schema.ChainTopology{
			MapID:             5001,
			CorporationID:     900,
			MonitoringEnabled: true,
			SystemCount:       systemCount,
			ConnectionCount:   connectionCount,
		},
	}
}

func TestDiffSnapshot_NewChain(t *testing.T) {
	snapshot := &domain.ChainSnapshot{
		Systems: []domain.SystemPayload{
			{SolarSystemID: 31000001, SolarSystemName: "J123456"},
			{SolarSystemID: 31000002, SolarSystemName: "J654321"},
		},
		Inhabitants: []domain.InhabitantPayload{
			{CharacterID: 100, CharacterName: "Pilot One", SolarSystemID: 31000001, SolarSystemName: "J123456", ShipType: "Sabre"},
		},
		Connections: []domain.ConnectionPayload{
			{SourceSystemID: 31000001, TargetSystemID: 31000002, SignatureID: "ABC-123", Type: "K162"},
		},
	}

	ops := recon.DiffSnapshot(5001, snapshot, recon.LocalState{}, testNow)

	topology := topologyOp(t, ops).Topology
	assert.Equal(t, int64(5001), topology.MapID)
	assert.Equal(t, 2, topology.SystemCount)
	assert.Equal(t, 1, topology.ConnectionCount)
	assert.Equal(t, testNow, topology.LastActivityAt)
	assert.True(t, topology.MonitoringEnabled)

	inhabitants := upsertedCharacters(ops)
	require.Len(t, inhabitants, 1)
	assert.Equal(t, int64(31000001), inhabitants[100].SystemID)
	assert.True(t, inhabitants[100].Present)

	assert.Empty(t, departedCharacters(ops))
}

func TestDiffSnapshot_DepartsMissingAndMovedCharacters(t *testing.T) {
	local := monitoredState(2, 0)
	local.Inhabitants = []schema.SystemInhabitant{
		{MapID: 5001, CharacterID: 100, SystemID: 31000001, Present: true},
		{MapID: 5001, CharacterID: 101, SystemID: 31000001, Present: true},
		{MapID: 5001, CharacterID: 102, SystemID: 31000002, Present: true},
	}

	snapshot := &domain.ChainSnapshot{
		Systems: []domain.SystemPayload{
			{SolarSystemID: 31000001}, {SolarSystemID: 31000002},
		},
		Inhabitants: []domain.InhabitantPayload{
			// 100 stayed put, 101 moved, 102 vanished
			{CharacterID: 100, SolarSystemID: 31000001},
			{CharacterID: 101, SolarSystemID: 31000002},
		},
	}

	ops := recon.DiffSnapshot(5001, snapshot, local, testNow)

	assert.ElementsMatch(t, []int64{101, 102}, departedCharacters(ops))

	inhabitants := upsertedCharacters(ops)
	require.Len(t, inhabitants, 2)
	assert.Equal(t, int64(31000002), inhabitants[101].SystemID)
}

func TestDiffSnapshot_DuplicateCharacterLastWins(t *testing.T) {
	snapshot := &domain.ChainSnapshot{
		Inhabitants: []domain.InhabitantPayload{
			{CharacterID: 100, SolarSystemID: 31000001},
			{CharacterID: 100, SolarSystemID: 31000002},
		},
	}

	ops := recon.DiffSnapshot(5001, snapshot, recon.LocalState{}, testNow)

	inhabitants := upsertedCharacters(ops)
	require.Len(t, inhabitants, 1)
	assert.Equal(t, int64(31000002), inhabitants[100].SystemID)
}

func TestDiffSnapshot_RemovesStaleConnections(t *testing.T) {
	local := monitoredState(2, 2)
	local.Connections = []schema.ChainConnection{
		{MapID: 5001, SourceSystemID: 31000001, TargetSystemID: 31000002},
		{MapID: 5001, SourceSystemID: 31000001, TargetSystemID: 31000003},
	}

	snapshot := &domain.ChainSnapshot{
		Systems: []domain.SystemPayload{{SolarSystemID: 31000001}, {SolarSystemID: 31000002}},
		Connections: []domain.ConnectionPayload{
			{SourceSystemID: 31000001, TargetSystemID: 31000002, MassStatus: domain.MassStatusCritical},
		},
	}

	ops := recon.DiffSnapshot(5001, snapshot, local, testNow)

	var deleted []recon.DeleteConnection
	var upserted []recon.UpsertConnection
	for _, op := range ops {
		switch op := op.(type) {
		case recon.DeleteConnection:
			deleted = append(deleted, op)
		case recon.UpsertConnection:
			upserted = append(upserted, op)
		}
	}

	require.Len(t, deleted, 1)
	assert.Equal(t, int64(31000003), deleted[0].TargetSystemID)
	require.Len(t, upserted, 1)
	assert.Equal(t, "critical", upserted[0].Connection.MassStatus)

	assert.Equal(t, 1, topologyOp(t, ops).Topology.ConnectionCount)
}

func TestDiffSnapshot_DoesNotMutateLocalState(t *testing.T) {
	local := monitoredState(9, 9)
	snapshot := &domain.ChainSnapshot{}

	recon.DiffSnapshot(5001, snapshot, local, testNow)

	assert.Equal(t, 9, local.Topology.SystemCount)
	assert.Equal(t, 9, local.Topology.ConnectionCount)
}

func TestDiffEvent_NoTopologyDropsEvent(t *testing.T) {
	event := &domain.MapEvent{
		MapID: 5001,
		Type:  domain.EventTypeAddSystem,
		System: &domain.SystemPayload{
			SolarSystemID: 31000001,
		},
	}

	ops := recon.DiffEvent(event, recon.LocalState{}, testNow)
	assert.Nil(t, ops)
}

func TestDiffEvent_LocationChange_MovesCharacter(t *testing.T) {
	local := monitoredState(2, 1)
	local.Inhabitants = []schema.SystemInhabitant{
		{MapID: 5001, CharacterID: 100, SystemID: 31000001, Present: true},
	}

	event := &domain.MapEvent{
		MapID: 5001,
		Type:  domain.EventTypeCharacterLocationChanged,
		Location: &domain.CharacterLocationPayload{
			CharacterID:   100,
			CharacterName: "Pilot One",
			ShipType:      "Loki",
			CurrentLocation: domain.SolarSystem{
				SolarSystemID:   31000002,
				SolarSystemName: "J654321",
			},
		},
	}

	ops := recon.DiffEvent(event, local, testNow)

	assert.Equal(t, []int64{100}, departedCharacters(ops))
	inhabitants := upsertedCharacters(ops)
	require.Len(t, inhabitants, 1)
	assert.Equal(t, int64(31000002), inhabitants[100].SystemID)
}

func TestDiffEvent_LocationChange_SameSystemNoDeparture(t *testing.T) {
	local := monitoredState(2, 1)
	local.Inhabitants = []schema.SystemInhabitant{
		{MapID: 5001, CharacterID: 100, SystemID: 31000001, Present: true},
	}

	event := &domain.MapEvent{
		MapID: 5001,
		Type:  domain.EventTypeCharacterLocationChanged,
		Location: &domain.CharacterLocationPayload{
			CharacterID: 100,
			CurrentLocation: domain.SolarSystem{
				SolarSystemID: 31000001,
			},
		},
	}

	ops := recon.DiffEvent(event, local, testNow)
	assert.Empty(t, departedCharacters(ops))
	assert.Len(t, upsertedCharacters(ops), 1)
}

func TestDiffEvent_ShipChange_UnknownCharacterDropped(t *testing.T) {
	local := monitoredState(2, 1)

	event := &domain.MapEvent{
		MapID: 5001,
		Type:  domain.EventTypeCharacterShipChanged,
		Ship: &domain.CharacterShipPayload{
			CharacterID: 100,
			ShipType:    "Loki",
		},
	}

	ops := recon.DiffEvent(event, local, testNow)
	assert.Nil(t, ops)
}

func TestDiffEvent_ShipChange_PresentCharacter(t *testing.T) {
	local := monitoredState(2, 1)
	local.Inhabitants = []schema.SystemInhabitant{
		{MapID: 5001, CharacterID: 100, SystemID: 31000001, Present: true},
	}

	event := &domain.MapEvent{
		MapID: 5001,
		Type:  domain.EventTypeCharacterShipChanged,
		Ship: &domain.CharacterShipPayload{
			CharacterID: 100,
			ShipType:    "Loki",
		},
	}

	ops := recon.DiffEvent(event, local, testNow)
	require.NotEmpty(t, ops)

	ship, ok := ops[0].(recon.SetInhabitantShip)
	require.True(t, ok)
	assert.Equal(t, "Loki", ship.ShipType)
}

func TestDiffEvent_AddAndDeleteSystemCounts(t *testing.T) {
	local := monitoredState(1, 0)

	added := recon.DiffEvent(&domain.MapEvent{
		MapID:  5001,
		Type:   domain.EventTypeAddSystem,
		System: &domain.SystemPayload{SolarSystemID: 31000002},
	}, local, testNow)
	assert.Equal(t, 2, topologyOp(t, added).Topology.SystemCount)

	deleted := recon.DiffEvent(&domain.MapEvent{
		MapID:  5001,
		Type:   domain.EventTypeDeletedSystem,
		System: &domain.SystemPayload{SolarSystemID: 31000001},
	}, local, testNow)
	assert.Equal(t, 0, topologyOp(t, deleted).Topology.SystemCount)

	var departs []recon.DepartSystemInhabitants
	for _, op := range deleted {
		if dep, ok := op.(recon.DepartSystemInhabitants); ok {
			departs = append(departs, dep)
		}
	}
	require.Len(t, departs, 1)
	assert.Equal(t, int64(31000001), departs[0].SystemID)
}

func TestDiffEvent_DeletedSystem_CountNeverNegative(t *testing.T) {
	local := monitoredState(0, 0)

	ops := recon.DiffEvent(&domain.MapEvent{
		MapID:  5001,
		Type:   domain.EventTypeDeletedSystem,
		System: &domain.SystemPayload{SolarSystemID: 31000001},
	}, local, testNow)

	assert.Equal(t, 0, topologyOp(t, ops).Topology.SystemCount)
}

func TestDiffEvent_ConnectionAdded(t *testing.T) {
	local := monitoredState(2, 1)
	local.Connections = []schema.ChainConnection{
		{MapID: 5001, SourceSystemID: 31000001, TargetSystemID: 31000002},
	}

	fresh := recon.DiffEvent(&domain.MapEvent{
		MapID: 5001,
		Type:  domain.EventTypeConnectionAdded,
		Connection: &domain.ConnectionPayload{
			SourceSystemID: 31000001,
			TargetSystemID: 31000003,
		},
	}, local, testNow)
	assert.Equal(t, 2, topologyOp(t, fresh).Topology.ConnectionCount)

	// Re-announcing a known tuple must not inflate the count
	repeat := recon.DiffEvent(&domain.MapEvent{
		MapID: 5001,
		Type:  domain.EventTypeConnectionAdded,
		Connection: &domain.ConnectionPayload{
			SourceSystemID: 31000001,
			TargetSystemID: 31000002,
		},
	}, local, testNow)
	assert.Equal(t, 1, topologyOp(t, repeat).Topology.ConnectionCount)
}

func TestDiffEvent_ConnectionRemoved(t *testing.T) {
	local := monitoredState(2, 1)
	local.Connections = []schema.ChainConnection{
		{MapID: 5001, SourceSystemID: 31000001, TargetSystemID: 31000002},
	}

	ops := recon.DiffEvent(&domain.MapEvent{
		MapID: 5001,
		Type:  domain.EventTypeConnectionRemoved,
		Connection: &domain.ConnectionPayload{
			SourceSystemID: 31000001,
			TargetSystemID: 31000002,
		},
	}, local, testNow)

	del, ok := ops[0].(recon.DeleteConnection)
	require.True(t, ok)
	assert.Equal(t, int64(31000002), del.TargetSystemID)
	assert.Equal(t, 0, topologyOp(t, ops).Topology.ConnectionCount)

	// Removing an unknown tuple changes nothing
	unknown := recon.DiffEvent(&domain.MapEvent{
		MapID: 5001,
		Type:  domain.EventTypeConnectionRemoved,
		Connection: &domain.ConnectionPayload{
			SourceSystemID: 31000001,
			TargetSystemID: 31000009,
		},
	}, local, testNow)
	assert.Nil(t, unknown)
}

func TestDiffEvent_ConnectionUpdated_CreatesWithoutCountBump(t *testing.T) {
	local := monitoredState(2, 1)

	ops := recon.DiffEvent(&domain.MapEvent{
		MapID: 5001,
		Type:  domain.EventTypeConnectionUpdated,
		Connection: &domain.ConnectionPayload{
			SourceSystemID: 31000001,
			TargetSystemID: 31000002,
			MassStatus:     domain.MassStatusDestabilized,
		},
	}, local, testNow)

	up, ok := ops[0].(recon.UpsertConnection)
	require.True(t, ok)
	assert.Equal(t, "destabilized", up.Connection.MassStatus)
	assert.Equal(t, 1, topologyOp(t, ops).Topology.ConnectionCount)
}

func TestDiffEvent_ActivityOnlyEvents(t *testing.T) {
	local := monitoredState(2, 1)

	for _, eventType := range []domain.EventType{
		domain.EventTypeSystemMetadataChanged,
		domain.EventTypeSignatureAdded,
		domain.EventTypeSignatureRemoved,
		domain.EventTypeSignaturesUpdated,
	} {
		ops := recon.DiffEvent(&domain.MapEvent{
			MapID:     5001,
			Type:      eventType,
			System:    &domain.SystemPayload{SolarSystemID: 31000001},
			Signature: &domain.SignaturePayload{SignatureID: "ABC-123"},
		}, local, testNow)

		require.Len(t, ops, 1, "event %s", eventType)
		topology := topologyOp(t, ops).Topology
		assert.Equal(t, testNow, topology.LastActivityAt)
		assert.Equal(t, 2, topology.SystemCount)
	}

	kill := recon.DiffEvent(&domain.MapEvent{
		MapID: 5001,
		Type:  domain.EventTypeMapKill,
		Kill:  &domain.KillPayload{KillmailID: 1, SystemName: "J123456"},
	}, local, testNow)
	require.Len(t, kill, 1)
}

func TestDiffEvent_UnknownTypeProducesNothing(t *testing.T) {
	local := monitoredState(2, 1)

	ops := recon.DiffEvent(&domain.MapEvent{
		MapID: 5001,
		Type:  domain.EventType("rally_point_set"),
	}, local, testNow)
	assert.Nil(t, ops)
}

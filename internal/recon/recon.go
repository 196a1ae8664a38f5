package recon

import (
	"time"

	"github.com/driftline/chainwatch/internal/domain"
	"github.com/driftline/chainwatch/internal/store/schema"
)

// LocalState is the stored view of one chain, loaded before diffing.
// Inhabitants holds present rows only; departed history is irrelevant to
// reconciliation.
type LocalState struct {
	Topology    *schema.ChainTopology
	Inhabitants []schema.SystemInhabitant
	Connections []schema.ChainConnection
}

type connectionKey struct {
	sourceSystemID int64
	targetSystemID int64
}

// presentRow finds the present row for a character, nil when the character is
// not currently tracked in the chain
func (l LocalState) presentRow(characterID int64) *schema.SystemInhabitant {
	for i := range l.Inhabitants {
		if l.Inhabitants[i].CharacterID == characterID {
			return &l.Inhabitants[i]
		}
	}
	return nil
}

func (l LocalState) hasConnection(sourceSystemID, targetSystemID int64) bool {
	for i := range l.Connections {
		if l.Connections[i].SourceSystemID == sourceSystemID &&
			l.Connections[i].TargetSystemID == targetSystemID {
			return true
		}
	}
	return false
}

// touchedTopology returns a copy of the stored topology with the activity
// timestamp advanced. The input state is never mutated.
func touchedTopology(topology *schema.ChainTopology, now time.Time) *schema.ChainTopology {
	copied := *topology
	copied.LastActivityAt = now
	return &copied
}

// DiffSnapshot compares a full snapshot against the stored state and returns
// the operations that make the store match the snapshot. Re-running the same
// snapshot yields operations that change nothing.
func DiffSnapshot(mapID int64, snapshot *domain.ChainSnapshot, local LocalState, now time.Time) []Operation {
	var ops []Operation

	topology := &schema.ChainTopology{
		MapID:             mapID,
		MonitoringEnabled: true,
	}
	if local.Topology != nil {
		copied := *local.Topology
		topology = &copied
	}
	topology.SystemCount = len(snapshot.Systems)
	topology.ConnectionCount = len(snapshot.Connections)
	topology.LastActivityAt = now
	ops = append(ops, UpsertTopology{Topology: topology})

	// Snapshots can carry duplicate character entries; the last one wins.
	// Keep insertion order so the resulting batch is deterministic.
	inhabitantIndex := make(map[int64]int, len(snapshot.Inhabitants))
	var characterOrder []int64
	for i := range snapshot.Inhabitants {
		characterID := snapshot.Inhabitants[i].CharacterID
		if _, seen := inhabitantIndex[characterID]; !seen {
			characterOrder = append(characterOrder, characterID)
		}
		inhabitantIndex[characterID] = i
	}

	for i := range local.Inhabitants {
		row := &local.Inhabitants[i]
		idx, listed := inhabitantIndex[row.CharacterID]
		if listed && snapshot.Inhabitants[idx].SolarSystemID == row.SystemID {
			continue
		}
		// Gone from the chain, or seen in a different system; either way the
		// old presence ends here
		ops = append(ops, DepartInhabitant{
			MapID:       mapID,
			CharacterID: row.CharacterID,
			At:          now,
		})
	}

	for _, characterID := range characterOrder {
		entry := snapshot.Inhabitants[inhabitantIndex[characterID]]
		ops = append(ops, UpsertInhabitant{
			Inhabitant: &schema.SystemInhabitant{
				MapID:         mapID,
				CharacterID:   entry.CharacterID,
				CharacterName: entry.CharacterName,
				CorporationID: entry.CorporationID,
				AllianceID:    entry.AllianceID,
				SystemID:      entry.SolarSystemID,
				SystemName:    entry.SolarSystemName,
				ShipType:      entry.ShipType,
				Present:       true,
				LastSeenAt:    now,
				ArrivedAt:     now,
			},
		})
	}

	listedConnections := make(map[connectionKey]struct{}, len(snapshot.Connections))
	for i := range snapshot.Connections {
		entry := &snapshot.Connections[i]
		listedConnections[connectionKey{entry.SourceSystemID, entry.TargetSystemID}] = struct{}{}
	}
	for i := range local.Connections {
		row := &local.Connections[i]
		if _, listed := listedConnections[connectionKey{row.SourceSystemID, row.TargetSystemID}]; listed {
			continue
		}
		ops = append(ops, DeleteConnection{
			MapID:          mapID,
			SourceSystemID: row.SourceSystemID,
			TargetSystemID: row.TargetSystemID,
		})
	}
	for i := range snapshot.Connections {
		ops = append(ops, UpsertConnection{
			Connection: connectionRow(mapID, &snapshot.Connections[i]),
		})
	}

	return ops
}

// DiffEvent translates one stream event into store operations against the
// current state. A nil result means the event changes nothing and should not
// be published. Events for chains with no stored topology are dropped: the
// first snapshot establishes the baseline that events then adjust.
func DiffEvent(event *domain.MapEvent, local LocalState, now time.Time) []Operation {
	if local.Topology == nil {
		return nil
	}

	switch event.Type {
	case domain.EventTypeCharacterLocationChanged:
		return diffLocationChanged(event, local, now)

	case domain.EventTypeCharacterShipChanged:
		if local.presentRow(event.Ship.CharacterID) == nil {
			return nil
		}
		return []Operation{
			SetInhabitantShip{
				MapID:       event.MapID,
				CharacterID: event.Ship.CharacterID,
				ShipType:    event.Ship.ShipType,
				At:          now,
			},
			UpsertTopology{Topology: touchedTopology(local.Topology, now)},
		}

	case domain.EventTypeCharacterOnlineChanged:
		if local.presentRow(event.Online.CharacterID) == nil {
			return nil
		}
		return []Operation{
			SetInhabitantOnline{
				MapID:       event.MapID,
				CharacterID: event.Online.CharacterID,
				Online:      event.Online.Online,
				At:          now,
			},
			UpsertTopology{Topology: touchedTopology(local.Topology, now)},
		}

	case domain.EventTypeCharacterReadyChanged:
		if local.presentRow(event.Ready.CharacterID) == nil {
			return nil
		}
		return []Operation{
			SetInhabitantReady{
				MapID:       event.MapID,
				CharacterID: event.Ready.CharacterID,
				Ready:       event.Ready.Ready,
				At:          now,
			},
			UpsertTopology{Topology: touchedTopology(local.Topology, now)},
		}

	case domain.EventTypeAddSystem:
		topology := touchedTopology(local.Topology, now)
		topology.SystemCount++
		return []Operation{UpsertTopology{Topology: topology}}

	case domain.EventTypeDeletedSystem:
		topology := touchedTopology(local.Topology, now)
		if topology.SystemCount > 0 {
			topology.SystemCount--
		}
		return []Operation{
			DepartSystemInhabitants{
				MapID:    event.MapID,
				SystemID: event.System.SolarSystemID,
				At:       now,
			},
			UpsertTopology{Topology: topology},
		}

	case domain.EventTypeSystemMetadataChanged,
		domain.EventTypeSignatureAdded,
		domain.EventTypeSignatureRemoved,
		domain.EventTypeSignaturesUpdated,
		domain.EventTypeMapKill:
		// Tracked as chain activity only; the entities these describe live
		// outside this engine's store
		return []Operation{UpsertTopology{Topology: touchedTopology(local.Topology, now)}}

	case domain.EventTypeConnectionAdded:
		topology := touchedTopology(local.Topology, now)
		if !local.hasConnection(event.Connection.SourceSystemID, event.Connection.TargetSystemID) {
			topology.ConnectionCount++
		}
		return []Operation{
			UpsertConnection{Connection: connectionRow(event.MapID, event.Connection)},
			UpsertTopology{Topology: topology},
		}

	case domain.EventTypeConnectionRemoved:
		if !local.hasConnection(event.Connection.SourceSystemID, event.Connection.TargetSystemID) {
			return nil
		}
		topology := touchedTopology(local.Topology, now)
		if topology.ConnectionCount > 0 {
			topology.ConnectionCount--
		}
		return []Operation{
			DeleteConnection{
				MapID:          event.MapID,
				SourceSystemID: event.Connection.SourceSystemID,
				TargetSystemID: event.Connection.TargetSystemID,
			},
			UpsertTopology{Topology: topology},
		}

	case domain.EventTypeConnectionUpdated:
		// Creates the row when an earlier connection_added was missed, but a
		// status update on an unseen connection does not bump the count; the
		// next snapshot corrects it
		return []Operation{
			UpsertConnection{Connection: connectionRow(event.MapID, event.Connection)},
			UpsertTopology{Topology: touchedTopology(local.Topology, now)},
		}
	}

	return nil
}

func diffLocationChanged(event *domain.MapEvent, local LocalState, now time.Time) []Operation {
	payload := event.Location

	var ops []Operation
	if row := local.presentRow(payload.CharacterID); row != nil && row.SystemID != payload.CurrentLocation.SolarSystemID {
		ops = append(ops, DepartInhabitant{
			MapID:       event.MapID,
			CharacterID: payload.CharacterID,
			At:          now,
		})
	}

	ops = append(ops,
		UpsertInhabitant{
			Inhabitant: &schema.SystemInhabitant{
				MapID:         event.MapID,
				CharacterID:   payload.CharacterID,
				CharacterName: payload.CharacterName,
				CorporationID: payload.CorporationID,
				AllianceID:    payload.AllianceID,
				SystemID:      payload.CurrentLocation.SolarSystemID,
				SystemName:    payload.CurrentLocation.SolarSystemName,
				ShipType:      payload.ShipType,
				Present:       true,
				LastSeenAt:    now,
				ArrivedAt:     now,
			},
		},
		UpsertTopology{Topology: touchedTopology(local.Topology, now)},
	)
	return ops
}

func connectionRow(mapID int64, payload *domain.ConnectionPayload) *schema.ChainConnection {
	massStatus := payload.MassStatus
	if massStatus == "" {
		massStatus = domain.MassStatusUnknown
	}
	timeStatus := payload.TimeStatus
	if timeStatus == "" {
		timeStatus = domain.TimeStatusUnknown
	}

	return &schema.ChainConnection{
		MapID:          mapID,
		SourceSystemID: payload.SourceSystemID,
		TargetSystemID: payload.TargetSystemID,
		SourceName:     payload.SourceName,
		TargetName:     payload.TargetName,
		SignatureID:    payload.SignatureID,
		WormholeType:   payload.Type,
		MassStatus:     string(massStatus),
		TimeStatus:     string(timeStatus),
		EndOfLife:      payload.EndOfLife,
	}
}

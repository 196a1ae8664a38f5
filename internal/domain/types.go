package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventType identifies the kind of a map stream event. The strings match the
// wire frames sent by the map service.
type EventType string

const (
	EventTypeCharacterLocationChanged EventType = "character_location_changed"
	EventTypeCharacterShipChanged     EventType = "character_ship_changed"
	EventTypeCharacterOnlineChanged   EventType = "character_online_status_changed"
	EventTypeCharacterReadyChanged    EventType = "character_ready_status_changed"
	EventTypeAddSystem                EventType = "add_system"
	EventTypeDeletedSystem            EventType = "deleted_system"
	EventTypeSystemMetadataChanged    EventType = "system_metadata_changed"
	EventTypeConnectionAdded          EventType = "connection_added"
	EventTypeConnectionRemoved        EventType = "connection_removed"
	EventTypeConnectionUpdated        EventType = "connection_updated"
	EventTypeSignatureAdded           EventType = "signature_added"
	EventTypeSignatureRemoved         EventType = "signature_removed"
	EventTypeSignaturesUpdated        EventType = "signatures_updated"
	EventTypeMapKill                  EventType = "map_kill"
)

// MassStatus is the remaining throughput capacity of a wormhole connection
type MassStatus string

const (
	MassStatusStable       MassStatus = "stable"
	MassStatusDestabilized MassStatus = "destabilized"
	MassStatusCritical     MassStatus = "critical"
	MassStatusUnknown      MassStatus = "unknown"
)

// TimeStatus is the remaining lifetime of a wormhole connection
type TimeStatus string

const (
	TimeStatusStable    TimeStatus = "stable"
	TimeStatusEndOfLife TimeStatus = "end_of_life"
	TimeStatusUnknown   TimeStatus = "unknown"
)

// SolarSystem is a system reference as the map service reports it
type SolarSystem struct {
	SolarSystemID   int64  `json:"solar_system_id"`
	SolarSystemName string `json:"solar_system_name"`
}

// CharacterLocationPayload is the payload of a character_location_changed frame
type CharacterLocationPayload struct {
	CharacterID     int64       `json:"character_id"`
	CharacterName   string      `json:"character_name"`
	CorporationID   int64       `json:"corporation_id"`
	AllianceID      int64       `json:"alliance_id"`
	ShipType        string      `json:"ship_type"`
	CurrentLocation SolarSystem `json:"current_location"`
}

// CharacterShipPayload is the payload of a character_ship_changed frame
type CharacterShipPayload struct {
	CharacterID   int64  `json:"character_id"`
	CharacterName string `json:"character_name"`
	ShipType      string `json:"ship_type"`
}

// CharacterOnlinePayload is the payload of a character_online_status_changed frame
type CharacterOnlinePayload struct {
	CharacterID int64 `json:"character_id"`
	Online      bool  `json:"online"`
}

// CharacterReadyPayload is the payload of a character_ready_status_changed frame
type CharacterReadyPayload struct {
	CharacterID int64 `json:"character_id"`
	Ready       bool  `json:"ready"`
}

// SystemPayload is the payload of add_system, deleted_system and
// system_metadata_changed frames
type SystemPayload struct {
	SolarSystemID   int64  `json:"solar_system_id"`
	SolarSystemName string `json:"solar_system_name"`
}

// ConnectionPayload is the payload of connection_added, connection_removed
// and connection_updated frames, and the connection entry shape in snapshots
type ConnectionPayload struct {
	SourceSystemID int64      `json:"source_system_id"`
	SourceName     string     `json:"from_name"`
	TargetSystemID int64      `json:"target_system_id"`
	TargetName     string     `json:"to_name"`
	SignatureID    string     `json:"signature_id"`
	Type           string     `json:"type"`
	MassStatus     MassStatus `json:"mass_status"`
	TimeStatus     TimeStatus `json:"time_status"`
	EndOfLife      bool       `json:"eol"`
}

// SignaturePayload is the payload of signature_added/removed/updated frames
type SignaturePayload struct {
	SignatureID   string `json:"signature_id"`
	SolarSystemID int64  `json:"solar_system_id"`
}

// KillPayload is the payload of a map_kill frame
type KillPayload struct {
	KillmailID int64   `json:"killmail_id"`
	SystemName string  `json:"system_name"`
	Victim     string  `json:"victim"`
	Value      float64 `json:"value"`
}

// InhabitantPayload is the inhabitant entry shape in snapshots
type InhabitantPayload struct {
	CharacterID     int64  `json:"character_id"`
	CharacterName   string `json:"character_name"`
	CorporationID   int64  `json:"corporation_id"`
	AllianceID      int64  `json:"alliance_id"`
	SolarSystemID   int64  `json:"solar_system_id"`
	SolarSystemName string `json:"solar_system_name"`
	ShipType        string `json:"ship_type"`
}

// ChainSnapshot is a full point-in-time listing of a chain pulled from the
// map service
type ChainSnapshot struct {
	Systems     []SystemPayload     `json:"systems"`
	Inhabitants []InhabitantPayload `json:"inhabitants"`
	Connections []ConnectionPayload `json:"connections"`
}

// MapEvent is a parsed map stream event. Exactly one payload pointer is set,
// determined by Type; all of them are nil for event types this engine does
// not understand (Known reports false in that case).
type MapEvent struct {
	MapID        int64
	Type         EventType
	InitialState bool
	Raw          json.RawMessage

	Location   *CharacterLocationPayload
	Ship       *CharacterShipPayload
	Online     *CharacterOnlinePayload
	Ready      *CharacterReadyPayload
	System     *SystemPayload
	Connection *ConnectionPayload
	Signature  *SignaturePayload
	Kill       *KillPayload
}

// Known reports whether the event type is one this engine models
func (e *MapEvent) Known() bool {
	switch e.Type {
	case EventTypeCharacterLocationChanged, EventTypeCharacterShipChanged,
		EventTypeCharacterOnlineChanged, EventTypeCharacterReadyChanged,
		EventTypeAddSystem, EventTypeDeletedSystem, EventTypeSystemMetadataChanged,
		EventTypeConnectionAdded, EventTypeConnectionRemoved, EventTypeConnectionUpdated,
		EventTypeSignatureAdded, EventTypeSignatureRemoved, EventTypeSignaturesUpdated,
		EventTypeMapKill:
		return true
	}
	return false
}

// eventFrame is the raw wire shape of one stream frame
type eventFrame struct {
	Type         EventType       `json:"type"`
	Payload      json.RawMessage `json:"payload"`
	InitialState bool            `json:"initial_state"`
}

// ParseEventFrame decodes one stream frame into a typed MapEvent. Unknown
// event types parse successfully into an event with no payload set, so the
// caller can log and drop them. A malformed frame or payload returns an error.
func ParseEventFrame(mapID int64, data []byte) (*MapEvent, error) {
	var frame eventFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		return nil, fmt.Errorf("failed to decode event frame: %w", err)
	}
	if frame.Type == "" {
		return nil, fmt.Errorf("event frame missing type: %w", ErrMalformedFrame)
	}

	event := &MapEvent{
		MapID:        mapID,
		Type:         frame.Type,
		InitialState: frame.InitialState,
		Raw:          frame.Payload,
	}

	var err error
	switch frame.Type {
	case EventTypeCharacterLocationChanged:
		event.Location = &CharacterLocationPayload{}
		err = json.Unmarshal(frame.Payload, event.Location)
	case EventTypeCharacterShipChanged:
		event.Ship = &CharacterShipPayload{}
		err = json.Unmarshal(frame.Payload, event.Ship)
	case EventTypeCharacterOnlineChanged:
		event.Online = &CharacterOnlinePayload{}
		err = json.Unmarshal(frame.Payload, event.Online)
	case EventTypeCharacterReadyChanged:
		event.Ready = &CharacterReadyPayload{}
		err = json.Unmarshal(frame.Payload, event.Ready)
	case EventTypeAddSystem, EventTypeDeletedSystem, EventTypeSystemMetadataChanged:
		event.System = &SystemPayload{}
		err = json.Unmarshal(frame.Payload, event.System)
	case EventTypeConnectionAdded, EventTypeConnectionRemoved, EventTypeConnectionUpdated:
		event.Connection = &ConnectionPayload{}
		err = json.Unmarshal(frame.Payload, event.Connection)
	case EventTypeSignatureAdded, EventTypeSignatureRemoved, EventTypeSignaturesUpdated:
		event.Signature = &SignaturePayload{}
		err = json.Unmarshal(frame.Payload, event.Signature)
	case EventTypeMapKill:
		event.Kill = &KillPayload{}
		err = json.Unmarshal(frame.Payload, event.Kill)
	default:
		// Forward compatible: the coordinator logs and drops unknown types
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s payload: %w", frame.Type, err)
	}

	return event, nil
}

// ChangeKindReconciliation is the change kind published after a full
// reconciliation pass; routed events publish their EventType as the kind
const ChangeKindReconciliation = "reconciliation"

// ChainChange is the notification envelope published after operations for a
// chain have been durably applied
type ChainChange struct {
	ChangeID     string          `json:"change_id"`
	MapID        int64           `json:"map_id"`
	Kind         string          `json:"kind"`
	InitialState bool            `json:"initial_state,omitempty"`
	Payload      json.RawMessage `json:"payload,omitempty"`
	OccurredAt   time.Time       `json:"occurred_at"`
}

package recon

import (
	"context"
	"time"

	"github.com/driftline/chainwatch/internal/store"
	"github.com/driftline/chainwatch/internal/store/schema"
)

// Operation is a single idempotent mutation of the local topology store.
// Diff functions produce operation batches; the coordinator applies each
// batch inside one transaction.
type Operation interface {
	Apply(ctx context.Context, s store.Store) error
}

// UpsertTopology creates or refreshes a chain topology row
type UpsertTopology struct {
	Topology *schema.ChainTopology
}

func (op UpsertTopology) Apply(ctx context.Context, s store.Store) error {
	return s.UpsertChainTopology(ctx, op.Topology)
}

// UpsertInhabitant creates or refreshes a present inhabitant row
type UpsertInhabitant struct {
	Inhabitant *schema.SystemInhabitant
}

func (op UpsertInhabitant) Apply(ctx context.Context, s store.Store) error {
	return s.UpsertInhabitant(ctx, op.Inhabitant)
}

// SetInhabitantShip updates the hull on a character's present row
type SetInhabitantShip struct {
	MapID       int64
	CharacterID int64
	ShipType    string
	At          time.Time
}

func (op SetInhabitantShip) Apply(ctx context.Context, s store.Store) error {
	return s.SetInhabitantShip(ctx, op.MapID, op.CharacterID, op.ShipType, op.At)
}

// SetInhabitantOnline updates the online flag on a character's present row
type SetInhabitantOnline struct {
	MapID       int64
	CharacterID int64
	Online      bool
	At          time.Time
}

func (op SetInhabitantOnline) Apply(ctx context.Context, s store.Store) error {
	return s.SetInhabitantOnline(ctx, op.MapID, op.CharacterID, op.Online, op.At)
}

// SetInhabitantReady updates the fleet-ready flag on a character's present row
type SetInhabitantReady struct {
	MapID       int64
	CharacterID int64
	Ready       bool
	At          time.Time
}

func (op SetInhabitantReady) Apply(ctx context.Context, s store.Store) error {
	return s.SetInhabitantReady(ctx, op.MapID, op.CharacterID, op.Ready, op.At)
}

// DepartInhabitant soft-deletes a character's present row
type DepartInhabitant struct {
	MapID       int64
	CharacterID int64
	At          time.Time
}

func (op DepartInhabitant) Apply(ctx context.Context, s store.Store) error {
	return s.DepartInhabitant(ctx, op.MapID, op.CharacterID, op.At)
}

// DepartSystemInhabitants soft-deletes all present rows in one system
type DepartSystemInhabitants struct {
	MapID    int64
	SystemID int64
	At       time.Time
}

func (op DepartSystemInhabitants) Apply(ctx context.Context, s store.Store) error {
	return s.DepartSystemInhabitants(ctx, op.MapID, op.SystemID, op.At)
}

// UpsertConnection creates or updates a wormhole connection row
type UpsertConnection struct {
	Connection *schema.ChainConnection
}

func (op UpsertConnection) Apply(ctx context.Context, s store.Store) error {
	return s.UpsertConnection(ctx, op.Connection)
}

// DeleteConnection removes a collapsed wormhole connection
type DeleteConnection struct {
	MapID          int64
	SourceSystemID int64
	TargetSystemID int64
}

func (op DeleteConnection) Apply(ctx context.Context, s store.Store) error {
	return s.DeleteConnection(ctx, op.MapID, op.SourceSystemID, op.TargetSystemID)
}

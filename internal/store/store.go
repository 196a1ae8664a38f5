package store

import (
	"context"
	"time"

	"github.com/driftline/chainwatch/internal/store/schema"
)

// Store defines the interface for the local topology store
//
//go:generate mockgen -source=store.go -destination=../mocks/store.go -package=mocks -mock_names=Store=MockStore
type Store interface {
	// GetChainTopology retrieves a chain topology by map identifier, nil when absent
	GetChainTopology(ctx context.Context, mapID int64) (*schema.ChainTopology, error)
	// UpsertChainTopology creates or updates a chain topology keyed by map identifier
	UpsertChainTopology(ctx context.Context, topology *schema.ChainTopology) error
	// SetChainMonitored flips the monitoring flag without touching topology data
	SetChainMonitored(ctx context.Context, mapID int64, enabled bool) error
	// ListMonitoredChains returns all chains whose monitoring flag is set,
	// used to resume monitoring after a restart
	ListMonitoredChains(ctx context.Context) ([]schema.ChainTopology, error)

	// ListPresentInhabitants returns all inhabitants currently marked present in a chain
	ListPresentInhabitants(ctx context.Context, mapID int64) ([]schema.SystemInhabitant, error)
	// UpsertInhabitant creates or refreshes a present inhabitant row keyed by
	// (map_id, character_id, system_id)
	UpsertInhabitant(ctx context.Context, inhabitant *schema.SystemInhabitant) error
	// SetInhabitantShip updates the hull on a character's present row
	SetInhabitantShip(ctx context.Context, mapID, characterID int64, shipType string, seenAt time.Time) error
	// SetInhabitantOnline updates the online flag on a character's present row
	SetInhabitantOnline(ctx context.Context, mapID, characterID int64, online bool, seenAt time.Time) error
	// SetInhabitantReady updates the fleet-ready flag on a character's present row
	SetInhabitantReady(ctx context.Context, mapID, characterID int64, ready bool, seenAt time.Time) error
	// DepartInhabitant soft-deletes the present row for a character in a chain
	DepartInhabitant(ctx context.Context, mapID, characterID int64, departedAt time.Time) error
	// DepartSystemInhabitants soft-deletes all present rows in one system of a chain
	DepartSystemInhabitants(ctx context.Context, mapID, systemID int64, departedAt time.Time) error

	// ListConnections returns all connections of a chain
	ListConnections(ctx context.Context, mapID int64) ([]schema.ChainConnection, error)
	// UpsertConnection creates or updates a connection keyed by
	// (map_id, source_system_id, target_system_id)
	UpsertConnection(ctx context.Context, connection *schema.ChainConnection) error
	// DeleteConnection destroys a collapsed connection
	DeleteConnection(ctx context.Context, mapID, sourceSystemID, targetSystemID int64) error

	// WithTransaction runs fn against a transaction-scoped store, so one
	// chain's reconciliation batch applies atomically
	WithTransaction(ctx context.Context, fn func(tx Store) error) error
}

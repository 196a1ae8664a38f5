package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/driftline/chainwatch/internal/store/schema"
)

type pgStore struct {
	db *gorm.DB
}

// NewPGStore creates a new PostgreSQL store instance
func NewPGStore(db *gorm.DB) Store {
	return &pgStore{db: db}
}

// Migrate creates or updates the engine's tables
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&schema.ChainTopology{},
		&schema.SystemInhabitant{},
		&schema.ChainConnection{},
	)
}

// ConfigureConnectionPool configures the connection pool settings for a GORM
// database connection
func ConfigureConnectionPool(db *gorm.DB, maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime =
		NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime)

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	return nil
}

// NormalizeConnectionPoolSettings applies defaults and clamps pool settings
// into safe values.
//
// Defaults (when zero):
//   - MaxOpenConns: 20
//   - MaxIdleConns: 5
//   - ConnMaxLifetime: 5 minutes
//   - ConnMaxIdleTime: 10 minutes
//
// Notes:
//   - database/sql treats MaxOpenConns=0 as "unlimited"
//   - database/sql treats MaxIdleConns=0 as "no idle connections"
func NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) (int, int, time.Duration, time.Duration) {
	if maxOpenConns == 0 {
		maxOpenConns = 20
	}
	if maxIdleConns == 0 {
		maxIdleConns = 5
	}
	if connMaxLifetime == 0 {
		connMaxLifetime = 5 * time.Minute
	}
	if connMaxIdleTime == 0 {
		connMaxIdleTime = 10 * time.Minute
	}

	// MaxIdleConns must not exceed MaxOpenConns
	if maxIdleConns > maxOpenConns {
		maxIdleConns = maxOpenConns
	}

	return maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime
}

// GetChainTopology retrieves a chain topology by map identifier
func (s *pgStore) GetChainTopology(ctx context.Context, mapID int64) (*schema.ChainTopology, error) {
	var topology schema.ChainTopology
	err := s.db.WithContext(ctx).Where("map_id = ?", mapID).First(&topology).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get chain topology: %w", err)
	}

	return &topology, nil
}

// UpsertChainTopology creates or updates a chain topology keyed by map identifier
func (s *pgStore) UpsertChainTopology(ctx context.Context, topology *schema.ChainTopology) error {
	topology.UpdatedAt = time.Now().UTC()

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "map_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"monitoring_enabled", "system_count", "connection_count", "last_activity_at", "updated_at",
		}),
	}).Create(topology).Error
	if err != nil {
		return fmt.Errorf("failed to upsert chain topology: %w", err)
	}

	return nil
}

// ListMonitoredChains returns all chains whose monitoring flag is set
func (s *pgStore) ListMonitoredChains(ctx context.Context) ([]schema.ChainTopology, error) {
	var topologies []schema.ChainTopology
	err := s.db.WithContext(ctx).
		Where("monitoring_enabled = ?", true).
		Find(&topologies).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list monitored chains: %w", err)
	}

	return topologies, nil
}

// SetChainMonitored flips the monitoring flag for a chain
func (s *pgStore) SetChainMonitored(ctx context.Context, mapID int64, enabled bool) error {
	err := s.db.WithContext(ctx).
		Model(&schema.ChainTopology{}).
		Where("map_id = ?", mapID).
		Updates(map[string]interface{}{
			"monitoring_enabled": enabled,
			"updated_at":         time.Now().UTC(),
		}).Error
	if err != nil {
		return fmt.Errorf("failed to set chain monitored: %w", err)
	}

	return nil
}

// ListPresentInhabitants returns all inhabitants currently marked present in a chain
func (s *pgStore) ListPresentInhabitants(ctx context.Context, mapID int64) ([]schema.SystemInhabitant, error) {
	var inhabitants []schema.SystemInhabitant
	err := s.db.WithContext(ctx).
		Where("map_id = ? AND present = ?", mapID, true).
		Find(&inhabitants).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list present inhabitants: %w", err)
	}

	return inhabitants, nil
}

// UpsertInhabitant creates or refreshes a present inhabitant row. The natural
// key is (map_id, character_id, system_id) restricted to present rows; a new
// presence in the same system is one episode, not a new row. Exclusivity of
// presence across systems is the reconciliation engine's job (it emits a
// departure before a new presence), so no cross-system handling happens here.
func (s *pgStore) UpsertInhabitant(ctx context.Context, inhabitant *schema.SystemInhabitant) error {
	now := time.Now().UTC()

	var existing schema.SystemInhabitant
	err := s.db.WithContext(ctx).
		Where("map_id = ? AND character_id = ? AND system_id = ? AND present = ?",
			inhabitant.MapID, inhabitant.CharacterID, inhabitant.SystemID, true).
		First(&existing).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to look up inhabitant: %w", err)
		}

		inhabitant.Present = true
		inhabitant.DepartedAt = nil
		if inhabitant.ArrivedAt.IsZero() {
			inhabitant.ArrivedAt = inhabitant.LastSeenAt
		}
		if inhabitant.LastSeenAt.IsZero() {
			inhabitant.LastSeenAt = now
		}
		inhabitant.CreatedAt = now
		inhabitant.UpdatedAt = now
		if err := s.db.WithContext(ctx).Create(inhabitant).Error; err != nil {
			return fmt.Errorf("failed to create inhabitant: %w", err)
		}
		return nil
	}

	updates := map[string]interface{}{
		"character_name": inhabitant.CharacterName,
		"system_name":    inhabitant.SystemName,
		"last_seen_at":   inhabitant.LastSeenAt,
		"departed_at":    nil,
		"present":        true,
		"updated_at":     now,
	}
	if inhabitant.CorporationID != 0 {
		updates["corporation_id"] = inhabitant.CorporationID
	}
	if inhabitant.AllianceID != 0 {
		updates["alliance_id"] = inhabitant.AllianceID
	}
	if inhabitant.ShipType != "" {
		updates["ship_type"] = inhabitant.ShipType
	}

	if err := s.db.WithContext(ctx).Model(&existing).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to update inhabitant: %w", err)
	}

	return nil
}

// updatePresentInhabitant applies a field-level update to the present row of
// a character. Updating a character that was never observed present affects
// zero rows, which is fine: the caller already decided the event is droppable.
func (s *pgStore) updatePresentInhabitant(ctx context.Context, mapID, characterID int64, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now().UTC()

	err := s.db.WithContext(ctx).
		Model(&schema.SystemInhabitant{}).
		Where("map_id = ? AND character_id = ? AND present = ?", mapID, characterID, true).
		Updates(updates).Error
	if err != nil {
		return fmt.Errorf("failed to update present inhabitant: %w", err)
	}

	return nil
}

// SetInhabitantShip updates the hull of a character's present row
func (s *pgStore) SetInhabitantShip(ctx context.Context, mapID, characterID int64, shipType string, seenAt time.Time) error {
	return s.updatePresentInhabitant(ctx, mapID, characterID, map[string]interface{}{
		"ship_type":    shipType,
		"last_seen_at": seenAt,
	})
}

// SetInhabitantOnline updates the online flag of a character's present row
func (s *pgStore) SetInhabitantOnline(ctx context.Context, mapID, characterID int64, online bool, seenAt time.Time) error {
	return s.updatePresentInhabitant(ctx, mapID, characterID, map[string]interface{}{
		"online":       online,
		"last_seen_at": seenAt,
	})
}

// SetInhabitantReady updates the fleet-ready flag of a character's present row
func (s *pgStore) SetInhabitantReady(ctx context.Context, mapID, characterID int64, ready bool, seenAt time.Time) error {
	return s.updatePresentInhabitant(ctx, mapID, characterID, map[string]interface{}{
		"ready":        ready,
		"last_seen_at": seenAt,
	})
}

// DepartInhabitant soft-deletes the present row for a character in a chain
func (s *pgStore) DepartInhabitant(ctx context.Context, mapID, characterID int64, departedAt time.Time) error {
	err := s.db.WithContext(ctx).
		Model(&schema.SystemInhabitant{}).
		Where("map_id = ? AND character_id = ? AND present = ?", mapID, characterID, true).
		Updates(map[string]interface{}{
			"present":      false,
			"departed_at":  departedAt,
			"last_seen_at": departedAt,
			"updated_at":   time.Now().UTC(),
		}).Error
	if err != nil {
		return fmt.Errorf("failed to depart inhabitant: %w", err)
	}

	return nil
}

// DepartSystemInhabitants soft-deletes all present rows in one system of a chain
func (s *pgStore) DepartSystemInhabitants(ctx context.Context, mapID, systemID int64, departedAt time.Time) error {
	err := s.db.WithContext(ctx).
		Model(&schema.SystemInhabitant{}).
		Where("map_id = ? AND system_id = ? AND present = ?", mapID, systemID, true).
		Updates(map[string]interface{}{
			"present":      false,
			"departed_at":  departedAt,
			"last_seen_at": departedAt,
			"updated_at":   time.Now().UTC(),
		}).Error
	if err != nil {
		return fmt.Errorf("failed to depart system inhabitants: %w", err)
	}

	return nil
}

// ListConnections returns all connections of a chain
func (s *pgStore) ListConnections(ctx context.Context, mapID int64) ([]schema.ChainConnection, error) {
	var connections []schema.ChainConnection
	err := s.db.WithContext(ctx).
		Where("map_id = ?", mapID).
		Find(&connections).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list connections: %w", err)
	}

	return connections, nil
}

// UpsertConnection creates or updates a connection on its natural key
func (s *pgStore) UpsertConnection(ctx context.Context, connection *schema.ChainConnection) error {
	connection.UpdatedAt = time.Now().UTC()

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "map_id"}, {Name: "source_system_id"}, {Name: "target_system_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"source_name", "target_name", "signature_id", "wormhole_type",
			"mass_status", "time_status", "end_of_life", "updated_at",
		}),
	}).Create(connection).Error
	if err != nil {
		return fmt.Errorf("failed to upsert connection: %w", err)
	}

	return nil
}

// DeleteConnection destroys a collapsed connection
func (s *pgStore) DeleteConnection(ctx context.Context, mapID, sourceSystemID, targetSystemID int64) error {
	err := s.db.WithContext(ctx).
		Where("map_id = ? AND source_system_id = ? AND target_system_id = ?", mapID, sourceSystemID, targetSystemID).
		Delete(&schema.ChainConnection{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete connection: %w", err)
	}

	return nil
}

// WithTransaction runs fn against a transaction-scoped store
func (s *pgStore) WithTransaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&pgStore{db: tx})
	})
}

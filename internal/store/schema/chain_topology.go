package schema

import (
	"time"
)

// ChainTopology represents the chain_topologies table - one row per monitored
// wormhole chain, identified by the external map service identifier
type ChainTopology struct {
	// ID is the internal database primary key
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`
	// MapID is the external map service identifier for the chain
	MapID int64 `gorm:"column:map_id;not null;uniqueIndex"`
	// CorporationID is the corporation that owns the chain's home hole
	CorporationID int64 `gorm:"column:corporation_id;not null"`
	// MonitoringEnabled indicates whether the engine currently syncs this chain.
	// Monitoring is disabled, never erased.
	MonitoringEnabled bool `gorm:"column:monitoring_enabled;not null;default:true"`
	// SystemCount is the number of systems currently in the chain
	SystemCount int `gorm:"column:system_count;not null;default:0"`
	// ConnectionCount is the number of wormhole connections currently in the chain
	ConnectionCount int `gorm:"column:connection_count;not null;default:0"`
	// LastActivityAt records the most recent activity observed on the chain
	LastActivityAt time.Time `gorm:"column:last_activity_at;not null;default:now()"`
	// CreatedAt is the timestamp when this chain was first monitored
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now()"`
	// UpdatedAt is the timestamp of the last reconciliation touch
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now()"`
}

// TableName specifies the table name for the ChainTopology model
func (ChainTopology) TableName() string {
	return "chain_topologies"
}

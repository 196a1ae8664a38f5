package schema

import (
	"time"
)

// ChainConnection represents the chain_connections table - a wormhole link
// between two systems within a chain, uniquely identified by
// (map_id, source_system_id, target_system_id)
type ChainConnection struct {
	// ID is the internal database primary key
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`
	// MapID is the chain this connection belongs to
	MapID int64 `gorm:"column:map_id;not null;uniqueIndex:idx_connections_map_source_target,priority:1"`
	// SourceSystemID is the system the wormhole was scanned from
	SourceSystemID int64 `gorm:"column:source_system_id;not null;uniqueIndex:idx_connections_map_source_target,priority:2"`
	// TargetSystemID is the system the wormhole leads to
	TargetSystemID int64 `gorm:"column:target_system_id;not null;uniqueIndex:idx_connections_map_source_target,priority:3"`
	// SourceName is the source system's display name
	SourceName string `gorm:"column:source_name;not null;default:'';type:text"`
	// TargetName is the target system's display name
	TargetName string `gorm:"column:target_name;not null;default:'';type:text"`
	// SignatureID is the scan signature of the wormhole (e.g. "ABC-123")
	SignatureID string `gorm:"column:signature_id;not null;default:'';type:text"`
	// WormholeType is the hole classification (e.g. "K162")
	WormholeType string `gorm:"column:wormhole_type;not null;default:'';type:text"`
	// MassStatus is the remaining throughput capacity (stable|destabilized|critical|unknown)
	MassStatus string `gorm:"column:mass_status;not null;default:'unknown';type:text"`
	// TimeStatus is the remaining lifetime (stable|end_of_life|unknown)
	TimeStatus string `gorm:"column:time_status;not null;default:'unknown';type:text"`
	// EndOfLife indicates the hole is nearing natural collapse
	EndOfLife bool `gorm:"column:end_of_life;not null;default:false"`
	// CreatedAt is the timestamp when this connection was first observed
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now()"`
	// UpdatedAt is the timestamp of the last status update
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now()"`
}

// TableName specifies the table name for the ChainConnection model
func (ChainConnection) TableName() string {
	return "chain_connections"
}

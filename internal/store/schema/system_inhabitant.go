package schema

import (
	"time"
)

// SystemInhabitant represents the system_inhabitants table - a character's
// presence in one system of a chain. Presence is exclusive: at most one row
// per (map_id, character_id) has Present set. Departures are soft deletes
// (Present=false plus DepartedAt); rows are never removed by the engine.
type SystemInhabitant struct {
	// ID is the internal database primary key
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`
	// MapID is the chain this presence belongs to
	MapID int64 `gorm:"column:map_id;not null;index:idx_inhabitants_map_character,priority:1"`
	// CharacterID is the character's external identifier
	CharacterID int64 `gorm:"column:character_id;not null;index:idx_inhabitants_map_character,priority:2"`
	// CharacterName is the character's display name
	CharacterName string `gorm:"column:character_name;not null;type:text"`
	// CorporationID is the character's corporation
	CorporationID int64 `gorm:"column:corporation_id;not null;default:0"`
	// AllianceID is the character's alliance (0 when none)
	AllianceID int64 `gorm:"column:alliance_id;not null;default:0"`
	// SystemID is the solar system the character occupies
	SystemID int64 `gorm:"column:system_id;not null;index"`
	// SystemName is the solar system's display name
	SystemName string `gorm:"column:system_name;not null;type:text"`
	// ShipType is the hull the character was last seen flying
	ShipType string `gorm:"column:ship_type;not null;default:'';type:text"`
	// Online is the character's last reported online status
	Online bool `gorm:"column:online;not null;default:false"`
	// Ready is the character's last reported fleet-ready status
	Ready bool `gorm:"column:ready;not null;default:false"`
	// Present indicates the character is currently in this system
	Present bool `gorm:"column:present;not null;default:true"`
	// LastSeenAt is the most recent observation of the character in this system
	LastSeenAt time.Time `gorm:"column:last_seen_at;not null;default:now()"`
	// ArrivedAt is when the character was first observed in this system
	ArrivedAt time.Time `gorm:"column:arrived_at;not null;default:now()"`
	// DepartedAt is when the presence ended (nil while present)
	DepartedAt *time.Time `gorm:"column:departed_at"`
	// CreatedAt is the timestamp when this row was created
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now()"`
	// UpdatedAt is the timestamp of the last update to this row
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now()"`
}

// TableName specifies the table name for the SystemInhabitant model
func (SystemInhabitant) TableName() string {
	return "system_inhabitants"
}

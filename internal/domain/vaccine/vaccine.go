package vaccine

import (
	"time"

	"github.com/google/uuid"
)

type Category string

const (
	CategoryRoutine      Category = "routine"
	CategorySupplemental Category = "supplemental"
	CategoryOutbreak     Category = "outbreak"
)

func (c Category) IsValid() bool {
	switch c {
	case CategoryRoutine, CategorySupplemental, CategoryOutbreak:
		return true
	}
	return false
}

type Vaccine struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time  `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime"`
	DeletedAt *time.Time `gorm:"index"`

	Name        string   `gorm:"column:name;type:varchar(100);uniqueIndex;not null"`
	Category    Category `gorm:"column:category;type:varchar(30);not null;index"`
	Description string   `gorm:"column:description;type:text"`

	CurrentStock int `gorm:"column:current_stock;not null;default:0"`
	// MinStock is the reorder threshold. Informational only: nothing in the
	// engine blocks on it.
	MinStock int `gorm:"column:min_stock;not null;default:0"`

	CreatedBy uuid.UUID `gorm:"column:created_by;type:uuid;not null"`
}

func (Vaccine) TableName() string {
	return "inventory.vaccines"
}

// IsAvailable reports whether at least one unit can be administered today.
// Scheduling does not depend on this; only completion does.
func (v *Vaccine) IsAvailable() bool {
	return v.CurrentStock > 0
}

func (v *Vaccine) IsLowStock() bool {
	return v.CurrentStock <= v.MinStock
}

// Ref points at the vaccine a scheduled dose was recorded against. The id is
// preferred; the free-text name survives vaccines later removed from
// inventory, so historical rows still group correctly.
type Ref struct {
	ID   *uuid.UUID
	Name string
}

// ResolveName returns the live inventory name when the reference is still
// known, falling back to the recorded free-text name.
func (r Ref) ResolveName(lookup func(uuid.UUID) (string, bool)) string {
	if r.ID != nil && lookup != nil {
		if name, ok := lookup(*r.ID); ok {
			return name
		}
	}
	return r.Name
}

// MovementType classifies a stock change.
type MovementType string

const (
	MovementRestock    MovementType = "restock"
	MovementConsume    MovementType = "consume"
	MovementAdjustment MovementType = "adjustment"
)

// StockMovement is an append-only record of one stock change. The engine
// itself only needs the resulting stock value; the movement trail exists for
// the health center's inventory reports.
type StockMovement struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OccurredAt time.Time `gorm:"autoCreateTime;index"`

	VaccineID      uuid.UUID    `gorm:"column:vaccine_id;type:uuid;not null;index"`
	Type           MovementType `gorm:"column:type;type:varchar(20);not null"`
	Delta          int          `gorm:"column:delta;not null"`
	ResultingStock int          `gorm:"column:resulting_stock;not null"`
	Reason         string       `gorm:"column:reason;type:varchar(255)"`
	// Reference links a consumption back to the scheduled dose it served.
	Reference  *uuid.UUID `gorm:"column:reference;type:uuid;index"`
	RecordedBy uuid.UUID  `gorm:"column:recorded_by;type:uuid;not null"`
}

func (StockMovement) TableName() string {
	return "inventory.stock_movements"
}

type CreateVaccineCommand struct {
	Name         string
	Category     Category
	Description  string
	InitialStock int
	MinStock     int
	CreatedBy    uuid.UUID
}

type AdjustStockCommand struct {
	Delta      int
	Reason     string
	RecordedBy uuid.UUID
}

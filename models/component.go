package models

import "time"

const ComponentTable = "lab_components"

// Component is a stocked inventory item. AvailableQuantity moves only through
// borrow-lifecycle transitions (reserve on approval, release on return) and
// stays within [0, TotalQuantity].
type Component struct {
	ID          string `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string `gorm:"size:200;uniqueIndex;not null" json:"name"`
	Category    string `gorm:"size:100" json:"category"`
	Description string `gorm:"size:500" json:"description,omitempty"`

	TotalQuantity     int `gorm:"not null" json:"totalQuantity"`
	AvailableQuantity int `gorm:"not null" json:"availableQuantity"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Component) TableName() string { return ComponentTable }

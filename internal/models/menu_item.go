package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type MenuItem struct {
	ID           string                          `json:"id" gorm:"primaryKey;size:36"`
	RestaurantID string                          `json:"restaurant_id" gorm:"size:36;not null;index"`
	CategoryID   string                          `json:"category_id" gorm:"size:36;not null;index"`
	Name         string                          `json:"name" gorm:"not null"`
	Description  string                          `json:"description" gorm:"type:text"`
	Steps        *string                         `json:"steps,omitempty" gorm:"type:text"`
	Price        float64                         `json:"price" gorm:"not null"`
	ImageURL     *string                         `json:"image_url,omitempty"`
	IsAvailable  bool                            `json:"is_available" gorm:"not null"`
	ItemType     ItemType                        `json:"item_type" gorm:"not null;default:'single'"`
	Options      datatypes.JSONSlice[OptionGroup] `json:"options"`
	CreatedAt    time.Time                       `json:"created_at"`
	UpdatedAt    time.Time                       `json:"updated_at"`
}

func (m *MenuItem) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

type ItemType string

const (
	SingleItem ItemType = "single"
	SetMenu    ItemType = "set_menu"
)

// OptionGroup is one step of a set menu, e.g. "Choose a starter".
type OptionGroup struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	MinSelection int            `json:"min_selection"`
	MaxSelection int            `json:"max_selection"`
	Choices      []OptionChoice `json:"choices"`
}

// Required reports whether the group must be answered before ordering.
func (g OptionGroup) Required() bool {
	return g.MinSelection > 0
}

func (g OptionGroup) Choice(id string) (OptionChoice, bool) {
	for _, choice := range g.Choices {
		if choice.ID == id {
			return choice, true
		}
	}
	return OptionChoice{}, false
}

type OptionChoice struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	ItemID      *string `json:"item_id,omitempty"`
	ExtraPrice  float64 `json:"extra_price"`
	IsAvailable bool    `json:"is_available"`
}

package models

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Restaurant struct {
	ID          string    `json:"id" gorm:"primaryKey;size:36"`
	Name        string    `json:"name" gorm:"not null"`
	Slug        string    `json:"slug" gorm:"unique;not null"`
	Description *string   `json:"description,omitempty" gorm:"type:text"`
	Address     *string   `json:"address,omitempty"`
	Phone       *string   `json:"phone,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (r *Restaurant) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

var slugSeparator = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lower-cases name and collapses every run of characters outside [a-z0-9] into "-".
func Slugify(name string) string {
	return slugSeparator.ReplaceAllString(strings.ToLower(name), "-")
}

type Category struct {
	ID           string     `json:"id" gorm:"primaryKey;size:36"`
	RestaurantID string     `json:"restaurant_id" gorm:"size:36;not null;index"`
	Name         string     `json:"name" gorm:"not null"`
	SortOrder    int        `json:"sort_order" gorm:"not null;default:0"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	MenuItems    []MenuItem `json:"menu_items,omitempty" gorm:"foreignKey:CategoryID"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

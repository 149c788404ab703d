package models

import "strings"

// CustomOption is one user-added value extending an attribute category's
// fixed enumeration. Values are unique per category, case-insensitively,
// and are never deleted by the application.
type CustomOption struct {
	ID            uint   `gorm:"primaryKey" json:"-"`
	Category      string `gorm:"not null" json:"category"`
	CategoryLower string `gorm:"not null;index:idx_option_cat_val,unique" json:"-"`
	Value         string `gorm:"not null" json:"value"`
	ValueLower    string `gorm:"not null;index:idx_option_cat_val,unique" json:"-"`
	CreatedAt     string `gorm:"not null" json:"createdAt"`
}

// TableName specifies the table name for the CustomOption model
func (CustomOption) TableName() string {
	return "custom_options"
}

// NewCustomOption builds a normalized option record from raw user input
func NewCustomOption(category, value string) CustomOption {
	category = strings.TrimSpace(category)
	value = strings.TrimSpace(value)
	return CustomOption{
		Category:      category,
		CategoryLower: strings.ToLower(category),
		Value:         value,
		ValueLower:    strings.ToLower(value),
		CreatedAt:     NowISO(),
	}
}

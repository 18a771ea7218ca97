package models

import "strings"

// Country is the sole domain entity: one row in the countries table.
// Column names keep the legacy upper-case spelling of the source table, which
// is also why write payloads use upper-case keys on the wire.
type Country struct {
	Code        string `gorm:"column:CODE;primaryKey;size:32"`
	Name        string `gorm:"column:NAME;size:120;not null"`
	Description string `gorm:"column:DESCR;type:text"`
}

// TableName pins the legacy table name.
func (Country) TableName() string {
	return "countries"
}

// Normalise trims surrounding whitespace from all fields.
func (c *Country) Normalise() {
	c.Code = strings.TrimSpace(c.Code)
	c.Name = strings.TrimSpace(c.Name)
	c.Description = strings.TrimSpace(c.Description)
}

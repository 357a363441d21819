package models

import "time"

type Journal struct {
	JournalID   int        `gorm:"primaryKey;column:journal_id" json:"journal_id"`
	Name        string     `gorm:"column:name;uniqueIndex" json:"name"`
	Slug        string     `gorm:"column:slug;uniqueIndex" json:"slug"`
	IssnPrint   *string    `gorm:"column:issn_print" json:"issn_print,omitempty"`
	IssnOnline  *string    `gorm:"column:issn_online" json:"issn_online,omitempty"`
	Description string     `gorm:"column:description" json:"description"`
	IsActive    bool       `gorm:"column:is_active" json:"is_active"`
	CreateAt    *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt    *time.Time `gorm:"column:update_at" json:"update_at"`

	Sections []Section `gorm:"foreignKey:JournalID" json:"sections,omitempty"`
}

type Section struct {
	SectionID int        `gorm:"primaryKey;column:section_id" json:"section_id"`
	JournalID int        `gorm:"column:journal_id;uniqueIndex:idx_journal_section_slug" json:"journal_id"`
	Name      string     `gorm:"column:name" json:"name"`
	Slug      string     `gorm:"column:slug;uniqueIndex:idx_journal_section_slug" json:"slug"`
	CreateAt  *time.Time `gorm:"column:create_at" json:"create_at"`

	Journal *Journal `gorm:"foreignKey:JournalID" json:"journal,omitempty"`
}

// TableName overrides
func (Journal) TableName() string {
	return "journals"
}

func (Section) TableName() string {
	return "sections"
}

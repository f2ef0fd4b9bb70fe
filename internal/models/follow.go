// Package models contains data structures for the application's domain models.
package models

import "time"

// Follow is a directed subscription edge: User follows Author.
// The (user, author) pair is unique; deleting either side cascades.
type Follow struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	UserID   uint `gorm:"not null;uniqueIndex:idx_follows_user_author" json:"user_id"`
	User     User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	AuthorID uint `gorm:"not null;uniqueIndex:idx_follows_user_author" json:"author_id"`
	Author   User `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author,omitempty"`

	Created time.Time `gorm:"autoCreateTime;index" json:"created"`
}

// TableName specifies the table name for GORM.
func (Follow) TableName() string {
	return "follows"
}

// Package models contains data structures for the application's domain models.
package models

import "time"

// Comment represents a reply attached to one post by one author.
// Deleting the post or the author cascades to the comment.
type Comment struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Text     string `gorm:"type:text;not null" json:"text"`
	PostID   uint   `gorm:"not null;index" json:"post_id"`
	Post     Post   `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
	AuthorID uint   `gorm:"not null;index" json:"author_id"`
	Author   User   `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author"`

	Created time.Time `gorm:"autoCreateTime" json:"created"`
}

// Package models contains data structures for the application's domain models.
package models

import "time"

// Post represents a published text entry, optionally carrying an image and a group.
//
// Deleting the author cascades to their posts; deleting the group clears the
// posts' group reference instead.
type Post struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Text     string `gorm:"type:text;not null" json:"text"`
	AuthorID uint   `gorm:"not null;index" json:"author_id"`
	Author   User   `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author"`
	GroupID  *uint  `gorm:"index" json:"group_id,omitempty"`
	Group    *Group `gorm:"foreignKey:GroupID;constraint:OnDelete:SET NULL" json:"group,omitempty"`

	// ImagePath is the stored location of the uploaded original, relative to
	// the upload directory. Empty for text-only posts.
	ImagePath string `gorm:"size:512" json:"image_path,omitempty"`
	// ImageHash is the sha256 of the uploaded image content.
	ImageHash string `gorm:"size:64;index" json:"image_hash,omitempty"`

	// CommentsCount is not persisted; computed at query time.
	CommentsCount int `gorm:"->;-:migration" json:"comments_count"`

	PubDate   time.Time `gorm:"autoCreateTime;index" json:"pub_date"`
	UpdatedAt time.Time `json:"updated_at"`
}

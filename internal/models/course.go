package models

import "time"

type Course struct {
	ID    uint64 `gorm:"primarykey" json:"id"`
	Name  string `gorm:"type:varchar(255);uniqueIndex;not null" json:"name"`
	Level int    `gorm:"not null" json:"level"`
	// Cover mirrors the URL of the latest cover file. Files is authoritative.
	Cover     *string   `gorm:"type:varchar(1024)" json:"cover"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Files []File `gorm:"polymorphic:Fileable;polymorphicValue:Course" json:"files,omitempty"`
	Tasks []Task `gorm:"foreignKey:CourseID;constraint:OnDelete:SET NULL" json:"-"`
}

// Owner returns the file owner reference for this course.
func (c Course) Owner() OwnerRef {
	return CourseOwner(c.ID)
}

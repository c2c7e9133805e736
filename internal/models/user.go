package models

import (
	"time"
)

type User struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	Username     string    `gorm:"type:varchar(50)" json:"username"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"column:password;type:varchar(255);not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relations
	Files []File `gorm:"polymorphic:Fileable;polymorphicValue:User" json:"-"`
}

// Owner returns the file owner reference for this user.
func (u User) Owner() OwnerRef {
	return UserOwner(u.ID)
}

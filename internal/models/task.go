package models

import (
	"time"
)

type TaskStatus string

const (
	TaskStatusTodo TaskStatus = "TODO"
	TaskStatusDone TaskStatus = "DONE"
)

// Valid reports whether s is a known status.
func (s TaskStatus) Valid() bool {
	return s == TaskStatusTodo || s == TaskStatusDone
}

type Task struct {
	ID          uint64     `gorm:"primarykey" json:"id"`
	Title       string     `gorm:"type:varchar(255);not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	Status      TaskStatus `gorm:"type:varchar(20);not null;default:'TODO'" json:"status"`
	DueDate     *time.Time `json:"due_date"`
	CourseID    *uint64    `json:"course_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Relations
	Files []File `gorm:"polymorphic:Fileable;polymorphicValue:Task" json:"files,omitempty"`
}

// Owner returns the file owner reference for this task.
func (t Task) Owner() OwnerRef {
	return TaskOwner(t.ID)
}

package models

import (
	"time"
)

// File is an uploaded blob owned by exactly one Course, User or Task.
// FileableType/FileableID are written only through OwnerRef.
type File struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	FileableID   uint64    `gorm:"not null" json:"fileable_id"`
	FileableType string    `gorm:"type:varchar(20);not null" json:"fileable_type"`
	Name         string    `gorm:"type:varchar(255);not null" json:"name"`
	Path         string    `gorm:"type:varchar(512);not null" json:"path"`
	URL          string    `gorm:"type:varchar(1024)" json:"url"`
	MimeType     string    `gorm:"type:varchar(255);not null" json:"mime_type"`
	Size         int64     `gorm:"not null" json:"size"`
	UploadedAt   time.Time `gorm:"not null;autoCreateTime" json:"uploaded_at"`
}

// FileMetadata describes a blob that the upload layer already persisted.
type FileMetadata struct {
	Name     string
	Path     string
	URL      string
	MimeType string
	Size     int64
}

// NewFile builds an unsaved File row for owner.
func NewFile(owner OwnerRef, meta FileMetadata) File {
	return File{
		FileableID:   owner.ID(),
		FileableType: owner.Type(),
		Name:         meta.Name,
		Path:         meta.Path,
		URL:          meta.URL,
		MimeType:     meta.MimeType,
		Size:         meta.Size,
	}
}

// Owner decodes the stored type/id pair.
func (f File) Owner() (OwnerRef, error) {
	kind, err := ParseOwnerType(f.FileableType)
	if err != nil {
		return OwnerRef{}, err
	}
	return NewOwnerRef(kind, f.FileableID)
}

// Metadata returns the blob description of f.
func (f File) Metadata() FileMetadata {
	return FileMetadata{
		Name:     f.Name,
		Path:     f.Path,
		URL:      f.URL,
		MimeType: f.MimeType,
		Size:     f.Size,
	}
}

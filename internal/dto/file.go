package dto

import (
	"time"

	"github.com/yukikurage/school-management-api/internal/models"
)

// FileDTO represents a stored file in API responses
type FileDTO struct {
	ID           uint64    `json:"id"`
	Name         string    `json:"name"`
	Path         string    `json:"path"`
	URL          string    `json:"url"`
	MimeType     string    `json:"mimeType"`
	Size         int64     `json:"size"`
	FileableType string    `json:"fileable_type"`
	FileableID   uint64    `json:"fileable_id"`
	UploadedAt   time.Time `json:"uploaded_at"`
}

// ToFileDTO converts a File model to FileDTO
func ToFileDTO(file models.File) FileDTO {
	return FileDTO{
		ID:           file.ID,
		Name:         file.Name,
		Path:         file.Path,
		URL:          file.URL,
		MimeType:     file.MimeType,
		Size:         file.Size,
		FileableType: file.FileableType,
		FileableID:   file.FileableID,
		UploadedAt:   file.UploadedAt,
	}
}

// ToFileDTOs converts files, never returning nil
func ToFileDTOs(files []models.File) []FileDTO {
	out := make([]FileDTO, len(files))
	for i, f := range files {
		out[i] = ToFileDTO(f)
	}
	return out
}

package constants

import "time"

// Context keys
const (
	ContextKeyUserID     = "user_id"
	ContextKeyUserEmail  = "user_email"
	ContextKeyResourceID = "resource_id"
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Auth
const (
	MinPasswordLength = 6
	BcryptCost        = 10
	DefaultTokenTTL   = 2 * time.Hour
)

// Uploads
const (
	DefaultOwnerType  = "Course"
	CoverFormField    = "cover"
	FilesFormField    = "files"
	UploadFormField   = "file"
	DefaultUploadSize = 10 << 20
)

// Package media accepts image uploads from authenticated users. Images are
// written to a blob store (a local directory or an S3 bucket) under a
// UUID-based name and recorded in the uploads table.
package media

import (
	"bytes"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"
)

// formField is the multipart field that carries the image.
const formField = "image"

// Client-facing messages for upload errors.
const (
	msgNoFile       = "Please upload an image"
	msgNotAnImage   = "Only images are allowed"
	msgFileTooLarge = "File too large"
)

// maxOriginalNameLen matches uploads.original_name.
const maxOriginalNameLen = 255

// clampOriginalName shortens a client filename to fit the column, keeping
// its extension when there is room for one.
func clampOriginalName(name string) string {
	if utf8.RuneCountInString(name) <= maxOriginalNameLen {
		return name
	}
	ext := filepath.Ext(name)
	extLen := utf8.RuneCountInString(ext)
	if extLen >= maxOriginalNameLen {
		ext, extLen = "", 0
	}
	base := []rune(strings.TrimSuffix(name, ext))
	return string(base[:maxOriginalNameLen-extLen]) + ext
}

// Upload is one stored image as recorded in the database.
type Upload struct {
	ID           string    `json:"id"`
	UploadedBy   string    `json:"uploadedBy"`
	Filename     string    `json:"filename"`
	OriginalName string    `json:"originalName"`
	MimeType     string    `json:"mimeType"`
	FileSize     int64     `json:"size"`
	Location     string    `json:"location"`
	CreatedAt    time.Time `json:"createdAt"`
}

// UploadInput holds the validated input for storing an image.
type UploadInput struct {
	UploadedBy   string
	OriginalName string
	MimeType     string
	FileBytes    []byte
}

// UploadResponse describes the stored file. Field names follow the common
// multipart-upload convention so existing clients can read them.
type UploadResponse struct {
	ID           string `json:"id"`
	Fieldname    string `json:"fieldname"`
	Originalname string `json:"originalname"`
	Mimetype     string `json:"mimetype"`
	Destination  string `json:"destination"`
	Filename     string `json:"filename"`
	Path         string `json:"path"`
	Size         int64  `json:"size"`
}

// --- MIME Type Validation ---

// AllowedMimeTypes defines which MIME types are accepted for upload.
var AllowedMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

// MimeToExtension maps MIME types to file extensions.
var MimeToExtension = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
}

// validateMagicBytes checks that the file content's magic bytes match the
// declared MIME type, so a renamed text file is not stored as an image.
func validateMagicBytes(data []byte, declaredMIME string) bool {
	switch declaredMIME {
	case "image/jpeg":
		return bytes.HasPrefix(data, []byte{0xFF, 0xD8, 0xFF})
	case "image/png":
		return bytes.HasPrefix(data, []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A})
	case "image/gif":
		return bytes.HasPrefix(data, []byte("GIF87a")) || bytes.HasPrefix(data, []byte("GIF89a"))
	default:
		return false
	}
}

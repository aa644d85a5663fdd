package media

import (
	"context"
	"database/sql"
	"fmt"
)

// UploadRepository defines the data access contract for upload records.
type UploadRepository interface {
	Create(ctx context.Context, u *Upload) error
}

// uploadRepository implements UploadRepository with MariaDB queries.
type uploadRepository struct {
	db *sql.DB
}

// NewUploadRepository creates a new upload repository.
func NewUploadRepository(db *sql.DB) UploadRepository {
	return &uploadRepository{db: db}
}

// Create inserts a new upload record.
func (r *uploadRepository) Create(ctx context.Context, u *Upload) error {
	query := `INSERT INTO uploads (id, uploaded_by, filename, original_name,
	          mime_type, file_size, location, created_at)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		u.ID, u.UploadedBy, u.Filename, u.OriginalName,
		u.MimeType, u.FileSize, u.Location, u.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting upload: %w", err)
	}
	return nil
}

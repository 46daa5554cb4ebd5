package responses

import (
	"time"

	"pinshare/internal/domain/file"
)

// FileSummary is the upload and listing representation of a record.
type FileSummary struct {
	ID           uint      `json:"id"`
	Name         string    `json:"name"`
	Size         int64     `json:"size"`
	OriginalSize *int64    `json:"originalSize,omitempty"`
	Compressed   bool      `json:"compressed"`
	Type         string    `json:"type"`
	IpfsHash     string    `json:"ipfsHash"`
	UploadDate   time.Time `json:"uploadDate"`
	IsPublic     bool      `json:"isPublic"`
	Description  string    `json:"description"`
	Uploader     *Uploader `json:"uploader,omitempty"`
}

// Uploader identifies the owning account in listings and metadata.
type Uploader struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

// BuildFileSummary creates the response shape from a domain record.
func BuildFileSummary(rec *file.FileRecord, withUploader bool) FileSummary {
	summary := FileSummary{
		ID:           rec.ID,
		Name:         rec.Name,
		Size:         rec.Size,
		OriginalSize: rec.OriginalSize,
		Compressed:   rec.Compressed,
		Type:         rec.MediaType,
		IpfsHash:     rec.CID,
		UploadDate:   rec.CreatedAt,
		IsPublic:     rec.IsPublic,
		Description:  rec.Description,
	}
	if withUploader {
		summary.Uploader = &Uploader{ID: rec.OwnerID, Username: rec.OwnerName}
	}
	return summary
}

// BuildFileSummaries maps a slice of records.
func BuildFileSummaries(recs []*file.FileRecord, withUploader bool) []FileSummary {
	out := make([]FileSummary, 0, len(recs))
	for _, rec := range recs {
		out = append(out, BuildFileSummary(rec, withUploader))
	}
	return out
}

// UploadResponse wraps a successful upload.
type UploadResponse struct {
	Message string      `json:"message"`
	File    FileSummary `json:"file"`
}

// FileListResponse wraps file listings.
type FileListResponse struct {
	Files []FileSummary `json:"files"`
}

package file

import "time"

// FileRecord represents the durable metadata for a pinned upload.
type FileRecord struct {
	ID           uint      `json:"id"`
	Name         string    `json:"name"`
	Size         int64     `json:"size"`
	OriginalSize *int64    `json:"originalSize,omitempty"`
	Compressed   bool      `json:"compressed"`
	MediaType    string    `json:"type"`
	CID          string    `json:"ipfsHash"`
	OwnerID      uint      `json:"-"`
	OwnerName    string    `json:"-"`
	IsPublic     bool      `json:"isPublic"`
	Description  string    `json:"description"`
	AccessList   []uint    `json:"-"`
	CreatedAt    time.Time `json:"uploadDate"`
	UpdatedAt    time.Time `json:"-"`
}

// AccessibleBy reports whether the given user may read the record: public
// records, the owner, and users on the access list.
func (f *FileRecord) AccessibleBy(userID uint) bool {
	if f.IsPublic || f.OwnerID == userID {
		return true
	}
	for _, id := range f.AccessList {
		if id == userID {
			return true
		}
	}
	return false
}

// StagedUpload is a file written to local ephemeral storage for the duration
// of one upload request. The orchestrator always removes it before the
// request completes.
type StagedUpload struct {
	Path         string
	OriginalName string
	MediaType    string
	Size         int64
}

// CompressionOutcome describes the compressor's result. Exactly one file,
// the one at Path, remains on disk when it is returned.
type CompressionOutcome struct {
	Path           string
	Compressed     bool
	OriginalSize   int64
	CompressedSize int64
}

// FinalSize returns the byte size of the surviving file.
func (o CompressionOutcome) FinalSize() int64 {
	if o.Compressed {
		return o.CompressedSize
	}
	return o.OriginalSize
}

// UploadInput carries caller supplied attributes for a new upload.
type UploadInput struct {
	OwnerID     uint
	IsPublic    bool
	Description string
}

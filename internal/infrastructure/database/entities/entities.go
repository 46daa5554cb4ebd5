package entities

import "time"

// User represents the persisted account schema.
type User struct {
	ID           uint      `gorm:"primaryKey"`
	Username     string    `gorm:"type:varchar(150);uniqueIndex;not null"`
	Email        string    `gorm:"type:varchar(320);uniqueIndex;not null"`
	PasswordHash string    `gorm:"type:varchar(100);not null"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}

// FileRecord represents the persisted metadata of a pinned upload.
type FileRecord struct {
	ID           uint   `gorm:"primaryKey"`
	Name         string `gorm:"type:varchar(255);not null"`
	Size         int64  `gorm:"not null"`
	OriginalSize *int64
	Compressed   bool      `gorm:"not null;default:false"`
	MediaType    string    `gorm:"type:varchar(128);not null"`
	CID          string    `gorm:"column:cid;type:varchar(128);uniqueIndex;not null"`
	OwnerID      uint      `gorm:"index;not null"`
	Owner        User      `gorm:"foreignKey:OwnerID"`
	IsPublic     bool      `gorm:"index;not null;default:false"`
	Description  string    `gorm:"type:text;not null;default:''"`
	CreatedAt    time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (FileRecord) TableName() string {
	return "file_records"
}

// FileAccess grants one user read access to one file. The composite primary
// key makes repeated grants idempotent.
type FileAccess struct {
	FileID    uint      `gorm:"primaryKey;autoIncrement:false"`
	UserID    uint      `gorm:"primaryKey;autoIncrement:false;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (FileAccess) TableName() string {
	return "file_access"
}

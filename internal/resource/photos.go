package resource

import (
	"github.com/petermazzocco/go-activities/models"
	"gorm.io/gorm"
)

// Photos is the drive: plain uploaded images.
type Photos struct {
	gallery[models.Photo]
}

func NewPhotos(db *gorm.DB, uploads *Uploader, views Invalidator) *Photos {
	return &Photos{gallery[models.Photo]{
		db:      db,
		views:   views,
		uploads: uploads,
		kind:    "Photo",
		label:   "photo",
		path:    PathDrive,
		build: func(userID, name string, blob *StoredBlob) *models.Photo {
			return &models.Photo{
				UserID:      userID,
				Name:        name,
				URL:         blob.URL,
				StoragePath: blob.Key,
				Size:        blob.Size,
				MimeType:    blob.MimeType,
				Width:       blob.Width,
				Height:      blob.Height,
			}
		},
		storagePath: func(p *models.Photo) string { return p.StoragePath },
	}}
}

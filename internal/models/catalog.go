package models

import (
	"time"

	"github.com/google/uuid"
)

// ContentType classifies content (e.g. Movie, Series)
type ContentType struct {
	ID        uuid.UUID `json:"id" gorm:"type:text;primaryKey;column:id"`
	Name      string    `json:"name" gorm:"type:text;not null;uniqueIndex;column:name" validate:"required,min=1,max=100"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at"`
}

// TableName overrides the default table name
func (ContentType) TableName() string {
	return "content_types"
}

// NewContentType creates a new ContentType with generated UUID and timestamps
func NewContentType(name string) *ContentType {
	now := time.Now().UTC()
	return &ContentType{
		ID:        uuid.New(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Genre is a label that content can be tagged with
type Genre struct {
	ID        uuid.UUID `json:"id" gorm:"type:text;primaryKey;column:id"`
	Name      string    `json:"name" gorm:"type:text;not null;uniqueIndex;column:name" validate:"required,min=1,max=100"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at"`
}

// TableName overrides the default table name
func (Genre) TableName() string {
	return "genres"
}

// NewGenre creates a new Genre with generated UUID and timestamps
func NewGenre(name string) *Genre {
	now := time.Now().UTC()
	return &Genre{
		ID:        uuid.New(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ContentGenre links a content item to a genre
type ContentGenre struct {
	ContentID uuid.UUID `json:"content_id" gorm:"type:text;primaryKey;column:content_id"`
	GenreID   uuid.UUID `json:"genre_id" gorm:"type:text;primaryKey;column:genre_id"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
}

// TableName overrides the default table name
func (ContentGenre) TableName() string {
	return "content_genres"
}

// NewContentGenre creates a new link stamped with the current time
func NewContentGenre(contentID, genreID uuid.UUID) *ContentGenre {
	return &ContentGenre{
		ContentID: contentID,
		GenreID:   genreID,
		CreatedAt: time.Now().UTC(),
	}
}

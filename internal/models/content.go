package models

import (
	"time"

	"github.com/google/uuid"
)

// Content represents a movie or show in the catalog
type Content struct {
	ID            uuid.UUID    `json:"id" gorm:"type:text;primaryKey;column:id"`
	Title         string       `json:"title" gorm:"type:text;not null;column:title" validate:"required,min=1,max=255"`
	Description   *string      `json:"description,omitempty" gorm:"type:text;column:description"`
	ReleaseDate   *time.Time   `json:"release_date,omitempty" gorm:"type:date;column:release_date"`
	Duration      *string      `json:"duration,omitempty" gorm:"type:text;column:duration" validate:"omitempty,max=50"`
	Language      *string      `json:"language,omitempty" gorm:"type:text;column:language" validate:"omitempty,max=50"`
	ThumbnailURL  *string      `json:"thumbnail_url,omitempty" gorm:"type:text;column:thumbnail_url" validate:"omitempty,url"`
	VideoURL      *string      `json:"video_url,omitempty" gorm:"type:text;column:video_url" validate:"omitempty,url"`
	IsAvailable   bool         `json:"is_available" gorm:"not null;column:is_available"`
	ContentTypeID uuid.UUID    `json:"content_type_id" gorm:"type:text;not null;column:content_type_id" validate:"required"`
	ContentType   *ContentType `json:"content_type,omitempty" gorm:"foreignKey:ContentTypeID;references:ID"`
	CreatedAt     time.Time    `json:"created_at" gorm:"column:created_at"`
	UpdatedAt     time.Time    `json:"updated_at" gorm:"column:updated_at"`
}

// TableName overrides the default table name
func (Content) TableName() string {
	return "contents"
}

// NewContent creates a new available Content with generated UUID and timestamps
func NewContent(title string, contentTypeID uuid.UUID) *Content {
	now := time.Now().UTC()
	return &Content{
		ID:            uuid.New(),
		Title:         title,
		IsAvailable:   true,
		ContentTypeID: contentTypeID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Episode is a single numbered episode of a content item
type Episode struct {
	ID            uuid.UUID  `json:"id" gorm:"type:text;primaryKey;column:id"`
	ContentID     uuid.UUID  `json:"content_id" gorm:"type:text;not null;column:content_id" validate:"required"`
	SeasonNumber  int        `json:"season_number" gorm:"type:integer;not null;column:season_number" validate:"required,gt=0"`
	EpisodeNumber int        `json:"episode_number" gorm:"type:integer;not null;column:episode_number" validate:"required,gt=0"`
	Title         string     `json:"title" gorm:"type:text;not null;column:title" validate:"required,min=1,max=255"`
	Description   *string    `json:"description,omitempty" gorm:"type:text;column:description"`
	Duration      *string    `json:"duration,omitempty" gorm:"type:text;column:duration" validate:"omitempty,max=50"`
	ReleaseDate   *time.Time `json:"release_date,omitempty" gorm:"type:date;column:release_date"`
	ThumbnailURL  *string    `json:"thumbnail_url,omitempty" gorm:"type:text;column:thumbnail_url" validate:"omitempty,url"`
	VideoURL      *string    `json:"video_url,omitempty" gorm:"type:text;column:video_url" validate:"omitempty,url"`
	CreatedAt     time.Time  `json:"created_at" gorm:"column:created_at"`
	UpdatedAt     time.Time  `json:"updated_at" gorm:"column:updated_at"`
}

// TableName overrides the default table name
func (Episode) TableName() string {
	return "episodes"
}

// NewEpisode creates a new Episode with generated UUID and timestamps
func NewEpisode(contentID uuid.UUID, season, episode int, title string) *Episode {
	now := time.Now().UTC()
	return &Episode{
		ID:            uuid.New(),
		ContentID:     contentID,
		SeasonNumber:  season,
		EpisodeNumber: episode,
		Title:         title,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// WatchlistEntry records that a user saved a content item
type WatchlistEntry struct {
	UserID    uuid.UUID `json:"user_id" gorm:"type:text;primaryKey;column:user_id"`
	ContentID uuid.UUID `json:"content_id" gorm:"type:text;primaryKey;column:content_id"`
	AddedAt   time.Time `json:"added_at" gorm:"column:added_at"`
	Content   *Content  `json:"content,omitempty" gorm:"foreignKey:ContentID;references:ID"`
}

// TableName overrides the default table name
func (WatchlistEntry) TableName() string {
	return "watchlists"
}

// NewWatchlistEntry creates a new entry stamped with the current time
func NewWatchlistEntry(userID, contentID uuid.UUID) *WatchlistEntry {
	return &WatchlistEntry{
		UserID:    userID,
		ContentID: contentID,
		AddedAt:   time.Now().UTC(),
	}
}

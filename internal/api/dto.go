package api

import (
	"time"

	"github.com/stwalsh4118/reelhouse/internal/account"
	"github.com/stwalsh4118/reelhouse/internal/models"
)

// dateLayout is the wire format of release dates
const dateLayout = "2006-01-02"

// NamedResponse represents a genre or content type in API responses
type NamedResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ContentResponse represents a content item in API responses
type ContentResponse struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     *string   `json:"description,omitempty"`
	ReleaseDate     *string   `json:"release_date,omitempty"`
	Duration        *string   `json:"duration,omitempty"`
	Language        *string   `json:"language,omitempty"`
	ThumbnailURL    *string   `json:"thumbnail_url,omitempty"`
	VideoURL        *string   `json:"video_url,omitempty"`
	IsAvailable     bool      `json:"is_available"`
	ContentTypeID   string    `json:"content_type_id"`
	ContentTypeName string    `json:"content_type_name,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// EpisodeResponse represents an episode in API responses
type EpisodeResponse struct {
	ID            string    `json:"id"`
	ContentID     string    `json:"content_id"`
	SeasonNumber  int       `json:"season_number"`
	EpisodeNumber int       `json:"episode_number"`
	Title         string    `json:"title"`
	Description   *string   `json:"description,omitempty"`
	Duration      *string   `json:"duration,omitempty"`
	ReleaseDate   *string   `json:"release_date,omitempty"`
	ThumbnailURL  *string   `json:"thumbnail_url,omitempty"`
	VideoURL      *string   `json:"video_url,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// UserResponse represents a user in API responses; the password hash is never exposed
type UserResponse struct {
	ID        string    `json:"id"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Country   *string   `json:"country,omitempty"`
	RoleID    string    `json:"role_id"`
	RoleName  string    `json:"role_name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RoleResponse represents a role in API responses
type RoleResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// WatchlistEntryResponse represents a watchlist entry with its content
type WatchlistEntryResponse struct {
	UserID    string           `json:"user_id"`
	ContentID string           `json:"content_id"`
	AddedAt   time.Time        `json:"added_at"`
	Content   *ContentResponse `json:"content,omitempty"`
}

// AuthResponse is returned by register and login
type AuthResponse struct {
	Token     string        `json:"token"`
	Type      string        `json:"type"`
	ExpiresAt time.Time     `json:"expires_at"`
	User      *UserResponse `json:"user"`
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(dateLayout)
	return &s
}

// parseDate parses an optional YYYY-MM-DD value
func parseDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, *s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func toGenreResponse(g *models.Genre) NamedResponse {
	return NamedResponse{ID: g.ID.String(), Name: g.Name, CreatedAt: g.CreatedAt, UpdatedAt: g.UpdatedAt}
}

func toContentTypeResponse(ct *models.ContentType) NamedResponse {
	return NamedResponse{ID: ct.ID.String(), Name: ct.Name, CreatedAt: ct.CreatedAt, UpdatedAt: ct.UpdatedAt}
}

func toContentResponse(content *models.Content) *ContentResponse {
	resp := &ContentResponse{
		ID:            content.ID.String(),
		Title:         content.Title,
		Description:   content.Description,
		ReleaseDate:   formatDate(content.ReleaseDate),
		Duration:      content.Duration,
		Language:      content.Language,
		ThumbnailURL:  content.ThumbnailURL,
		VideoURL:      content.VideoURL,
		IsAvailable:   content.IsAvailable,
		ContentTypeID: content.ContentTypeID.String(),
		CreatedAt:     content.CreatedAt,
		UpdatedAt:     content.UpdatedAt,
	}
	if content.ContentType != nil {
		resp.ContentTypeName = content.ContentType.Name
	}
	return resp
}

func toEpisodeResponse(ep *models.Episode) *EpisodeResponse {
	return &EpisodeResponse{
		ID:            ep.ID.String(),
		ContentID:     ep.ContentID.String(),
		SeasonNumber:  ep.SeasonNumber,
		EpisodeNumber: ep.EpisodeNumber,
		Title:         ep.Title,
		Description:   ep.Description,
		Duration:      ep.Duration,
		ReleaseDate:   formatDate(ep.ReleaseDate),
		ThumbnailURL:  ep.ThumbnailURL,
		VideoURL:      ep.VideoURL,
		CreatedAt:     ep.CreatedAt,
		UpdatedAt:     ep.UpdatedAt,
	}
}

func toUserResponse(u *models.User) *UserResponse {
	resp := &UserResponse{
		ID:        u.ID.String(),
		FullName:  u.FullName,
		Email:     u.Email,
		Country:   u.Country,
		RoleID:    u.RoleID.String(),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
	if u.Role != nil {
		resp.RoleName = u.Role.Name.String()
	}
	return resp
}

func toRoleResponse(r *models.Role) *RoleResponse {
	return &RoleResponse{ID: r.ID.String(), Name: r.Name.String(), CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt}
}

func toWatchlistEntryResponse(e *models.WatchlistEntry) *WatchlistEntryResponse {
	resp := &WatchlistEntryResponse{
		UserID:    e.UserID.String(),
		ContentID: e.ContentID.String(),
		AddedAt:   e.AddedAt,
	}
	if e.Content != nil {
		resp.Content = toContentResponse(e.Content)
	}
	return resp
}

func toAuthResponse(s *account.Session) *AuthResponse {
	return &AuthResponse{
		Token:     s.Token,
		Type:      "Bearer",
		ExpiresAt: s.ExpiresAt,
		User:      toUserResponse(s.User),
	}
}

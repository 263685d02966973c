package db

// Repositories provides access to all database repositories
type Repositories struct {
	Users         *UserRepository
	Roles         *RoleRepository
	Content       *ContentRepository
	ContentTypes  *ContentTypeRepository
	Genres        *GenreRepository
	ContentGenres *ContentGenreRepository
	Episodes      *EpisodeRepository
	Watchlist     *WatchlistRepository
}

// NewRepositories creates a new repository collection
func NewRepositories(db *DB) *Repositories {
	return &Repositories{
		Users:         NewUserRepository(db),
		Roles:         NewRoleRepository(db),
		Content:       NewContentRepository(db),
		ContentTypes:  NewContentTypeRepository(db),
		Genres:        NewGenreRepository(db),
		ContentGenres: NewContentGenreRepository(db),
		Episodes:      NewEpisodeRepository(db),
		Watchlist:     NewWatchlistRepository(db),
	}
}

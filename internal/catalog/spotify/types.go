package spotify

// Spotify Web API response types.

// searchResponse is the top-level response from the search endpoint.
type searchResponse struct {
	Artists *artistPage `json:"artists,omitempty"`
	Albums  *albumPage  `json:"albums,omitempty"`
}

// artistPage is one page of artist search results.
type artistPage struct {
	Items []artistObject `json:"items"`
	Total int            `json:"total"`
	Next  string         `json:"next"`
}

// albumPage is one page of album results, shared by search and the
// artist-albums endpoint.
type albumPage struct {
	Items []albumObject `json:"items"`
	Total int           `json:"total"`
	Next  string        `json:"next"`
}

// artistObject is a Spotify artist entity.
type artistObject struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Popularity int    `json:"popularity"`
}

// albumObject is a Spotify album entity (simplified form).
type albumObject struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	AlbumType   string         `json:"album_type"`
	AlbumGroup  string         `json:"album_group,omitempty"`
	ReleaseDate string         `json:"release_date"`
	Artists     []artistObject `json:"artists"`
}

package api

import "time"

type Post struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tag       string    `json:"tag"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	HTML      string    `json:"html,omitempty"`
	Snippet   string    `json:"snippet,omitempty"`
}

type Counts struct {
	Total     int `json:"total"`
	Published int `json:"published"`
	Drafts    int `json:"drafts"`
}

type Query struct {
	Tag    string `json:"tag"`
	Search string `json:"search"`
	Sort   string `json:"sort"`
}

// View is the derived page state. Hero and Selected are nil when the filtered view is empty.
type View struct {
	Query       Query  `json:"query"`
	Posts       []Post `json:"posts"`
	Hero        *Post  `json:"hero"`
	MoreStories []Post `json:"moreStories"`
	Published   []Post `json:"published"`
	Drafts      []Post `json:"drafts"`
	Selected    *Post  `json:"selected"`
	Counts      Counts `json:"counts"`
}

type Form struct {
	EditingID string `json:"editingId,omitempty"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Tag       string `json:"tag"`
	Status    string `json:"status"`
}

// QueryRequest changes only the fields that are present
type QueryRequest struct {
	Tag    *string `json:"tag"`
	Search *string `json:"search"`
	Sort   *string `json:"sort"`
}

type FormRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
	Tag     *string `json:"tag"`
	Status  *string `json:"status"`
}

type ErrorResponse struct {
	Error  string   `json:"error"`
	Fields []string `json:"fields,omitempty"`
}

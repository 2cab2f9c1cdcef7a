package domain

import (
	"fmt"
	"time"
)

// Tag is the topical category of a post.
type Tag string

const (
	TagDev      Tag = "Dev"
	TagArte     Tag = "Arte"
	TagPersonal Tag = "Vida personal"
	TagEstudios Tag = "Estudios"

	// TagAll is only valid as a filter value, never as the tag of a post
	TagAll Tag = "Todos"
)

// Status is the publication state of a post.
type Status string

const (
	StatusDraft     Status = "Borrador"
	StatusPublished Status = "Publicado"
)

// SortOrder orders posts by creation time.
type SortOrder string

const (
	SortNewest SortOrder = "newest"
	SortOldest SortOrder = "oldest"
)

// Post represents a blog article.
// ID and CreatedAt are set once when the post is created and never change afterwards.
type Post struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tag       Tag       `json:"tag"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// IsPublished reports whether the post has status Publicado.
func (p Post) IsPublished() bool {
	return p.Status == StatusPublished
}

// Tags returns the post tags in display order.
func Tags() []Tag {
	return []Tag{TagDev, TagArte, TagPersonal, TagEstudios}
}

// FilterTags returns the values accepted by the tag filter, "Todos" first.
func FilterTags() []Tag {
	return append([]Tag{TagAll}, Tags()...)
}

// Statuses returns the post statuses in display order.
func Statuses() []Status {
	return []Status{StatusDraft, StatusPublished}
}

// ParseTag validates a post tag. "Todos" is rejected.
func ParseTag(s string) (Tag, error) {
	for _, t := range Tags() {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown tag %q", s)
}

// ParseFilterTag validates a filter value, which is either "Todos" or a post tag.
func ParseFilterTag(s string) (Tag, error) {
	if s == string(TagAll) {
		return TagAll, nil
	}
	return ParseTag(s)
}

// ParseStatus validates a post status.
func ParseStatus(s string) (Status, error) {
	for _, st := range Statuses() {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown status %q", s)
}

// ParseSortOrder never fails: anything other than "oldest" sorts newest first.
func ParseSortOrder(s string) SortOrder {
	if s == string(SortOldest) {
		return SortOldest
	}
	return SortNewest
}

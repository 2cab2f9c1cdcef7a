package application

import (
	"slices"

	"github.com/dfryer1193/bitacora/blog/domain"
)

// Query holds the three independent view controls.
type Query struct {
	Tag    domain.Tag       `json:"tag"`
	Search string           `json:"search"`
	Sort   domain.SortOrder `json:"sort"`
}

// DefaultQuery shows every post, newest first
func DefaultQuery() Query {
	return Query{
		Tag:  domain.TagAll,
		Sort: domain.SortNewest,
	}
}

// Counts are computed over the whole collection, ignoring the query.
type Counts struct {
	Total     int `json:"total"`
	Published int `json:"published"`
	Drafts    int `json:"drafts"`
}

// View is everything the page needs, derived from the collection and the query.
type View struct {
	Query Query

	// Posts is the filtered and sorted list every other list is taken from
	Posts       []domain.Post
	Hero        *domain.Post
	MoreStories []domain.Post
	Published   []domain.Post
	Drafts      []domain.Post

	// Selected is the post for the reading pane; nil only when Posts is empty
	Selected *domain.Post

	Counts Counts
}

// DeriveView runs the view pipeline: tag filter, text search, sort, hero pick,
// more-stories list, selection resolution and aggregate counts.
// It does not modify posts.
func DeriveView(posts []domain.Post, q Query, selectedID string) View {
	filtered := filterAndSort(posts, q)

	v := View{
		Query:       q,
		Posts:       filtered,
		MoreStories: make([]domain.Post, 0, len(filtered)),
		Published:   make([]domain.Post, 0, len(filtered)),
		Drafts:      make([]domain.Post, 0, len(filtered)),
		Counts:      countPosts(posts),
	}

	for _, p := range filtered {
		switch p.Status {
		case domain.StatusPublished:
			v.Published = append(v.Published, p)
		case domain.StatusDraft:
			v.Drafts = append(v.Drafts, p)
		}
	}

	switch {
	case len(v.Published) > 0:
		hero := v.Published[0]
		v.Hero = &hero
	case len(filtered) > 0:
		hero := filtered[0]
		v.Hero = &hero
	}

	for _, p := range filtered {
		if v.Hero != nil && p.ID == v.Hero.ID {
			continue
		}
		v.MoreStories = append(v.MoreStories, p)
	}

	if i := indexOf(filtered, selectedID); i >= 0 {
		selected := filtered[i]
		v.Selected = &selected
	} else if v.Hero != nil {
		selected := *v.Hero
		v.Selected = &selected
	}

	return v
}

// filterAndSort returns a new slice; posts is left untouched
func filterAndSort(posts []domain.Post, q Query) []domain.Post {
	matcher := newSearchMatcher(q.Search)

	result := make([]domain.Post, 0, len(posts))
	for _, p := range posts {
		if q.Tag != domain.TagAll && q.Tag != "" && p.Tag != q.Tag {
			continue
		}
		if !matcher.matches(p) {
			continue
		}
		result = append(result, p)
	}

	sortPosts(result, q.Sort)
	return result
}

// sortPosts orders by CreatedAt only. Equal timestamps keep their relative order.
func sortPosts(posts []domain.Post, order domain.SortOrder) {
	slices.SortStableFunc(posts, func(a, b domain.Post) int {
		if order == domain.SortOldest {
			return a.CreatedAt.Compare(b.CreatedAt)
		}
		return b.CreatedAt.Compare(a.CreatedAt)
	})
}

func countPosts(posts []domain.Post) Counts {
	c := Counts{Total: len(posts)}
	for _, p := range posts {
		switch p.Status {
		case domain.StatusPublished:
			c.Published++
		case domain.StatusDraft:
			c.Drafts++
		}
	}
	return c
}

func indexOf(posts []domain.Post, id string) int {
	if id == "" {
		return -1
	}
	return slices.IndexFunc(posts, func(p domain.Post) bool {
		return p.ID == id
	})
}

package rest

import (
	"github.com/dfryer1193/bitacora/api"
	"github.com/dfryer1193/bitacora/blog/application"
	"github.com/dfryer1193/bitacora/blog/domain"
)

func toApiPost(p domain.Post) api.Post {
	return api.Post{
		ID:        p.ID,
		Title:     p.Title,
		Content:   p.Content,
		Tag:       string(p.Tag),
		Status:    string(p.Status),
		CreatedAt: p.CreatedAt,
	}
}

func toApiPostPtr(p *domain.Post) *api.Post {
	if p == nil {
		return nil
	}
	out := toApiPost(*p)
	return &out
}

func toApiPosts(posts []domain.Post) []api.Post {
	out := make([]api.Post, 0, len(posts))
	for _, p := range posts {
		out = append(out, toApiPost(p))
	}
	return out
}

func toApiView(v application.View) api.View {
	return api.View{
		Query: api.Query{
			Tag:    string(v.Query.Tag),
			Search: v.Query.Search,
			Sort:   string(v.Query.Sort),
		},
		Posts:       toApiPosts(v.Posts),
		Hero:        toApiPostPtr(v.Hero),
		MoreStories: toApiPosts(v.MoreStories),
		Published:   toApiPosts(v.Published),
		Drafts:      toApiPosts(v.Drafts),
		Selected:    toApiPostPtr(v.Selected),
		Counts: api.Counts{
			Total:     v.Counts.Total,
			Published: v.Counts.Published,
			Drafts:    v.Counts.Drafts,
		},
	}
}

func toApiForm(f application.Form) api.Form {
	return api.Form{
		EditingID: f.EditingID,
		Title:     f.Title,
		Content:   f.Content,
		Tag:       string(f.Tag),
		Status:    string(f.Status),
	}
}

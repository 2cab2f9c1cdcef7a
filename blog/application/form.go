package application

import (
	"strings"

	"github.com/dfryer1193/bitacora/blog/domain"
)

// Form is the create/edit draft.
// An empty EditingID means a new post will be created on submit.
type Form struct {
	EditingID string        `json:"editingId,omitempty"`
	Title     string        `json:"title"`
	Content   string        `json:"content"`
	Tag       domain.Tag    `json:"tag"`
	Status    domain.Status `json:"status"`
}

// FormFields is a partial update of the draft; nil fields are left as they are.
type FormFields struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
	Tag     *string `json:"tag"`
	Status  *string `json:"status"`
}

// IsEditing reports whether the form edits an existing post
func (f Form) IsEditing() bool {
	return f.EditingID != ""
}

func blankForm() Form {
	return Form{
		Tag:    domain.TagDev,
		Status: domain.StatusDraft,
	}
}

func formFromPost(p domain.Post) Form {
	return Form{
		EditingID: p.ID,
		Title:     p.Title,
		Content:   p.Content,
		Tag:       p.Tag,
		Status:    p.Status,
	}
}

// apply copies the set fields without validating them; validation happens on submit
func (f Form) apply(fields FormFields) Form {
	if fields.Title != nil {
		f.Title = *fields.Title
	}
	if fields.Content != nil {
		f.Content = *fields.Content
	}
	if fields.Tag != nil {
		f.Tag = domain.Tag(*fields.Tag)
	}
	if fields.Status != nil {
		f.Status = domain.Status(*fields.Status)
	}
	return f
}

// submission is a validated form
type submission struct {
	title   string
	content string
	tag     domain.Tag
	status  domain.Status
}

func (f Form) validate() (submission, error) {
	s := submission{
		title:   strings.TrimSpace(f.Title),
		content: strings.TrimSpace(f.Content),
	}

	var invalid []string
	if s.title == "" {
		invalid = append(invalid, "title")
	}
	if s.content == "" {
		invalid = append(invalid, "content")
	}

	tag, err := domain.ParseTag(string(f.Tag))
	if err != nil {
		invalid = append(invalid, "tag")
	}
	status, err := domain.ParseStatus(string(f.Status))
	if err != nil {
		invalid = append(invalid, "status")
	}

	if len(invalid) > 0 {
		return submission{}, &ValidationError{Fields: invalid}
	}

	s.tag = tag
	s.status = status
	return s, nil
}

package application

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/dfryer1193/bitacora/blog/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Observer is notified about commands and writes, e.g. to export metrics.
type Observer interface {
	CommandFinished(command string, err error)
	PostsSaved(err error)
	CountsChanged(c Counts)
}

type noopObserver struct{}

func (noopObserver) CommandFinished(string, error) {}
func (noopObserver) PostsSaved(error)              {}
func (noopObserver) CountsChanged(Counts)          {}

type Option func(*Bitacora)

// WithClock replaces time.Now for stamping new posts
func WithClock(now func() time.Time) Option {
	return func(b *Bitacora) { b.now = now }
}

// WithIDGenerator replaces the UUID generator for new post ids
func WithIDGenerator(newID func() string) Option {
	return func(b *Bitacora) { b.newID = newID }
}

func WithObserver(o Observer) Option {
	return func(b *Bitacora) { b.observer = o }
}

// Bitacora owns the post collection and all view and form state.
// Every command runs under one mutex, so concurrent callers see the commands one at a time.
// Each command ends by repairing the selection; commands that change the collection save it.
type Bitacora struct {
	mu sync.Mutex

	store    domain.PostStore
	observer Observer
	now      func() time.Time
	newID    func() string

	posts      []domain.Post
	selectedID string
	query      Query
	form       Form
	closed     bool
}

// New loads the collection from store and selects its first post.
func New(ctx context.Context, store domain.PostStore, opts ...Option) *Bitacora {
	b := &Bitacora{
		store:    store,
		observer: noopObserver{},
		now:      time.Now,
		newID:    uuid.NewString,
		query:    DefaultQuery(),
		form:     blankForm(),
	}
	for _, opt := range opts {
		opt(b)
	}

	b.posts = store.Load(ctx)
	if len(b.posts) > 0 {
		b.selectedID = b.posts[0].ID
	}
	b.reconcileSelection()
	b.observer.CountsChanged(countPosts(b.posts))

	log.Info().Int("posts", len(b.posts)).Str("selected", b.selectedID).Msg("Bitacora loaded")
	return b
}

// Close ends the lifecycle; later mutating commands fail with ErrClosed
func (b *Bitacora) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.closed = true
	return nil
}

// View derives the current page state
func (b *Bitacora) View() View {
	b.mu.Lock()
	defer b.mu.Unlock()

	return DeriveView(b.posts, b.query, b.selectedID)
}

// Posts returns a copy of the collection in stored order
func (b *Bitacora) Posts() []domain.Post {
	b.mu.Lock()
	defer b.mu.Unlock()

	return slices.Clone(b.posts)
}

func (b *Bitacora) Post(id string) (domain.Post, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	i := indexOf(b.posts, id)
	if i < 0 {
		return domain.Post{}, fmt.Errorf("%w: %s", ErrPostNotFound, id)
	}
	return b.posts[i], nil
}

// SelectedID is the stored selection, which may be empty
func (b *Bitacora) SelectedID() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.selectedID
}

func (b *Bitacora) Query() Query {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.query
}

func (b *Bitacora) Form() Form {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.form
}

// Select stores id as the selection. The id is not checked; an id outside the
// filtered view is repaired right away.
func (b *Bitacora) Select(id string) error {
	return b.run("select", func() error {
		b.selectedID = id
		return nil
	})
}

// SetFilter accepts "Todos" or one of the post tags
func (b *Bitacora) SetFilter(tag string) error {
	return b.run("filter", func() error {
		t, err := domain.ParseFilterTag(tag)
		if err != nil {
			return fmt.Errorf("%w: %s", ErrUnknownTag, tag)
		}
		b.query.Tag = t
		return nil
	})
}

// SetSearch accepts any string; a blank term disables the search
func (b *Bitacora) SetSearch(term string) error {
	return b.run("search", func() error {
		b.query.Search = term
		return nil
	})
}

// SetSort treats anything but "oldest" as "newest"
func (b *Bitacora) SetSort(order string) error {
	return b.run("sort", func() error {
		b.query.Sort = domain.ParseSortOrder(order)
		return nil
	})
}

// UpdateForm edits the draft without validating it
func (b *Bitacora) UpdateForm(fields FormFields) (Form, error) {
	var form Form
	err := b.run("form", func() error {
		b.form = b.form.apply(fields)
		form = b.form
		return nil
	})
	return form, err
}

// StartEdit loads the post into the form and switches it to editing mode
func (b *Bitacora) StartEdit(id string) (Form, error) {
	var form Form
	err := b.run("edit", func() error {
		form = b.form
		i := indexOf(b.posts, id)
		if i < 0 {
			return fmt.Errorf("%w: %s", ErrPostNotFound, id)
		}
		b.form = formFromPost(b.posts[i])
		form = b.form
		return nil
	})
	return form, err
}

// CancelEdit discards the draft and returns to creating mode
func (b *Bitacora) CancelEdit() (Form, error) {
	form := blankForm()
	err := b.run("cancel", func() error {
		b.form = form
		return nil
	})
	return form, err
}

// SubmitResult is the post a submission created or updated.
type SubmitResult struct {
	Post    domain.Post
	Created bool
}

// Submit validates the draft and creates or updates a post.
// An invalid draft returns a *ValidationError and changes nothing, the form included.
func (b *Bitacora) Submit(ctx context.Context) (SubmitResult, error) {
	var result SubmitResult

	err := b.run("submit", func() error {
		s, err := b.form.validate()
		if err != nil {
			return err
		}

		if !b.form.IsEditing() {
			p := domain.Post{
				ID:        b.newID(),
				Title:     s.title,
				Content:   s.content,
				Tag:       s.tag,
				Status:    s.status,
				CreatedAt: b.now().UTC(),
			}
			b.posts = append([]domain.Post{p}, b.posts...)
			b.selectedID = p.ID
			b.form = blankForm()
			b.save(ctx)

			result = SubmitResult{Post: p, Created: true}
			return nil
		}

		id := b.form.EditingID
		b.form = blankForm()

		i := indexOf(b.posts, id)
		if i < 0 {
			// deleted from under the form; there is nothing left to update
			return fmt.Errorf("%w: %s", ErrPostNotFound, id)
		}

		p := &b.posts[i]
		p.Title = s.title
		p.Content = s.content
		p.Tag = s.tag
		p.Status = s.status
		b.save(ctx)

		result = SubmitResult{Post: *p}
		return nil
	})

	return result, err
}

// Delete removes a post. A deleted selection moves to the first post of the
// filtered view, or to nothing; a deleted post under edit resets the form.
// An unknown id changes nothing and returns ErrPostNotFound, so callers can
// ignore the error to get a total delete.
func (b *Bitacora) Delete(ctx context.Context, id string) error {
	return b.run("delete", func() error {
		i := indexOf(b.posts, id)
		if i < 0 {
			return fmt.Errorf("%w: %s", ErrPostNotFound, id)
		}

		b.posts = slices.Delete(b.posts, i, i+1)

		if b.selectedID == id {
			b.selectedID = ""
			if remaining := filterAndSort(b.posts, b.query); len(remaining) > 0 {
				b.selectedID = remaining[0].ID
			}
		}
		if b.form.EditingID == id {
			b.form = blankForm()
		}

		b.save(ctx)
		return nil
	})
}

// run executes one command under the lock and repairs the selection afterwards
func (b *Bitacora) run(command string, fn func() error) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		b.observer.CommandFinished(command, ErrClosed)
		return ErrClosed
	}

	err := fn()
	b.reconcileSelection()
	b.observer.CommandFinished(command, err)

	if err != nil {
		log.Debug().Err(err).Str("command", command).Msg("Command rejected")
	}
	return err
}

// reconcileSelection points a selection that fell out of the filtered view at
// the first filtered post. With an empty filtered view the selection is kept.
func (b *Bitacora) reconcileSelection() {
	filtered := filterAndSort(b.posts, b.query)
	if len(filtered) == 0 || indexOf(filtered, b.selectedID) >= 0 {
		return
	}
	b.selectedID = filtered[0].ID
}

// save mirrors the collection to the store. A failed write is logged and the
// in-memory collection stays authoritative.
func (b *Bitacora) save(ctx context.Context) {
	err := b.store.Save(ctx, b.posts)
	if err != nil {
		log.Error().Err(err).Int("posts", len(b.posts)).Msg("Failed to save posts")
	}
	b.observer.PostsSaved(err)
	b.observer.CountsChanged(countPosts(b.posts))
}

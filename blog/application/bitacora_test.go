package application

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/dfryer1193/bitacora/blog/domain"
)

// memoryStore is a domain.PostStore that records every save
type memoryStore struct {
	initial []domain.Post
	saves   [][]domain.Post
	saveErr error
}

func (m *memoryStore) Load(context.Context) []domain.Post {
	if len(m.initial) == 0 {
		return domain.SeedPosts(baseTime)
	}
	return slices.Clone(m.initial)
}

func (m *memoryStore) Save(_ context.Context, posts []domain.Post) error {
	if len(posts) == 0 {
		return nil
	}
	m.saves = append(m.saves, slices.Clone(posts))
	return m.saveErr
}

func (m *memoryStore) last() []domain.Post {
	if len(m.saves) == 0 {
		return nil
	}
	return m.saves[len(m.saves)-1]
}

type recordingObserver struct {
	commands []string
	failures []string
	saves    int
	counts   Counts
}

func (r *recordingObserver) CommandFinished(command string, err error) {
	r.commands = append(r.commands, command)
	if err != nil {
		r.failures = append(r.failures, command)
	}
}

func (r *recordingObserver) PostsSaved(error)        { r.saves++ }
func (r *recordingObserver) CountsChanged(c Counts) { r.counts = c }

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("new-%d", n)
	}
}

func steppingClock() func() time.Time {
	now := baseTime
	return func() time.Time {
		now = now.Add(time.Minute)
		return now
	}
}

func newTestBitacora(t *testing.T, store *memoryStore, opts ...Option) *Bitacora {
	t.Helper()
	opts = append([]Option{WithClock(steppingClock()), WithIDGenerator(sequentialIDs())}, opts...)
	b := New(context.Background(), store, opts...)
	t.Cleanup(func() { b.Close() })
	return b
}

func strPtr(s string) *string { return &s }

func fill(t *testing.T, b *Bitacora, title, content string, tag domain.Tag, status domain.Status) {
	t.Helper()
	_, err := b.UpdateForm(FormFields{
		Title:   strPtr(title),
		Content: strPtr(content),
		Tag:     strPtr(string(tag)),
		Status:  strPtr(string(status)),
	})
	if err != nil {
		t.Fatalf("UpdateForm failed: %v", err)
	}
}

func TestNew_LoadsAndSelectsFirst(t *testing.T) {
	b := newTestBitacora(t, &memoryStore{})

	if got := len(b.Posts()); got != 3 {
		t.Fatalf("len(Posts()) = %d, want 3", got)
	}
	if b.SelectedID() != "1" {
		t.Errorf("SelectedID() = %q, want %q", b.SelectedID(), "1")
	}
	if b.Query() != DefaultQuery() {
		t.Errorf("Query() = %+v, want %+v", b.Query(), DefaultQuery())
	}
	if f := b.Form(); f.IsEditing() || f.Tag != domain.TagDev || f.Status != domain.StatusDraft {
		t.Errorf("Form() = %+v, want blank form", f)
	}
}

func TestCreate_UniqueIDs(t *testing.T) {
	store := &memoryStore{}
	// real UUIDs, not the sequential test generator
	b := New(context.Background(), store)
	defer b.Close()

	seen := map[string]bool{}
	for _, p := range b.Posts() {
		seen[p.ID] = true
	}

	for i := 0; i < 50; i++ {
		fill(t, b, fmt.Sprintf("Título %d", i), "cuerpo", domain.TagEstudios, domain.StatusDraft)
		res, err := b.Submit(context.Background())
		if err != nil {
			t.Fatalf("Submit %d failed: %v", i, err)
		}
		if seen[res.Post.ID] {
			t.Fatalf("duplicate id %q", res.Post.ID)
		}
		seen[res.Post.ID] = true
	}

	if len(b.Posts()) != 53 {
		t.Errorf("len(Posts()) = %d, want 53", len(b.Posts()))
	}
}

func TestSubmit_CreateScenario(t *testing.T) {
	store := &memoryStore{}
	obs := &recordingObserver{}
	b := newTestBitacora(t, store, WithObserver(obs))
	before := b.View().Counts

	fill(t, b, "  Hola ", " Mundo  ", domain.TagDev, domain.StatusDraft)
	res, err := b.Submit(context.Background())
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	if !res.Created {
		t.Error("Created = false, want true")
	}
	if res.Post.Title != "Hola" || res.Post.Content != "Mundo" {
		t.Errorf("post = %+v, want trimmed title and content", res.Post)
	}
	if res.Post.CreatedAt.IsZero() {
		t.Error("CreatedAt not stamped")
	}

	posts := b.Posts()
	if len(posts) != 4 {
		t.Fatalf("len(Posts()) = %d, want 4", len(posts))
	}
	if posts[0].ID != res.Post.ID {
		t.Errorf("new post not prepended: first is %q", posts[0].ID)
	}
	if b.SelectedID() != res.Post.ID {
		t.Errorf("SelectedID() = %q, want %q", b.SelectedID(), res.Post.ID)
	}

	after := b.View().Counts
	if after.Drafts != before.Drafts+1 || after.Total != before.Total+1 {
		t.Errorf("counts %+v -> %+v, want one more draft", before, after)
	}
	if obs.counts != after {
		t.Errorf("observer counts = %+v, want %+v", obs.counts, after)
	}

	if f := b.Form(); f != blankForm() {
		t.Errorf("Form() = %+v, want blank", f)
	}
	if len(store.last()) != 4 {
		t.Errorf("saved %d posts, want 4", len(store.last()))
	}
}

func TestSubmit_InvalidIsRejectedSilently(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		content string
		tag     domain.Tag
		status  domain.Status
		fields  []string
	}{
		{name: "Empty title", title: "", content: "algo", tag: domain.TagDev, status: domain.StatusDraft, fields: []string{"title"}},
		{name: "Whitespace content", title: "algo", content: " \n\t", tag: domain.TagDev, status: domain.StatusDraft, fields: []string{"content"}},
		{name: "Both blank", title: " ", content: "", tag: domain.TagDev, status: domain.StatusDraft, fields: []string{"title", "content"}},
		{name: "Unknown tag", title: "a", content: "b", tag: "Todos", status: domain.StatusDraft, fields: []string{"tag"}},
		{name: "Unknown status", title: "a", content: "b", tag: domain.TagArte, status: "Archivado", fields: []string{"status"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &memoryStore{}
			b := newTestBitacora(t, store)

			fill(t, b, tt.title, tt.content, tt.tag, tt.status)
			formBefore := b.Form()

			_, err := b.Submit(context.Background())

			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Submit error = %v, want *ValidationError", err)
			}
			if !errors.Is(err, ErrInvalidSubmission) {
				t.Error("error does not unwrap to ErrInvalidSubmission")
			}
			if !slices.Equal(verr.Fields, tt.fields) {
				t.Errorf("Fields = %v, want %v", verr.Fields, tt.fields)
			}

			if len(b.Posts()) != 3 {
				t.Errorf("len(Posts()) = %d, want 3", len(b.Posts()))
			}
			if b.Form() != formBefore {
				t.Errorf("Form() = %+v, want unchanged %+v", b.Form(), formBefore)
			}
			if len(store.saves) != 0 {
				t.Errorf("store saved %d times, want 0", len(store.saves))
			}
		})
	}
}

func TestSubmit_EmptyTitleKeepsTypedContent(t *testing.T) {
	b := newTestBitacora(t, &memoryStore{})

	if _, err := b.UpdateForm(FormFields{Title: strPtr(""), Content: strPtr("algo")}); err != nil {
		t.Fatalf("UpdateForm failed: %v", err)
	}

	if _, err := b.Submit(context.Background()); err == nil {
		t.Fatal("expected validation error")
	}

	if b.Form().Content != "algo" {
		t.Errorf("Content = %q, want %q", b.Form().Content, "algo")
	}
	if len(b.Posts()) != 3 {
		t.Errorf("len(Posts()) = %d, want 3", len(b.Posts()))
	}
}

func TestSubmit_InvalidEditStaysInEditMode(t *testing.T) {
	b := newTestBitacora(t, &memoryStore{})

	if _, err := b.StartEdit("2"); err != nil {
		t.Fatalf("StartEdit failed: %v", err)
	}
	if _, err := b.UpdateForm(FormFields{Content: strPtr("   ")}); err != nil {
		t.Fatalf("UpdateForm failed: %v", err)
	}

	if _, err := b.Submit(context.Background()); !errors.Is(err, ErrInvalidSubmission) {
		t.Fatalf("Submit error = %v, want ErrInvalidSubmission", err)
	}

	if b.Form().EditingID != "2" {
		t.Errorf("EditingID = %q, want %q", b.Form().EditingID, "2")
	}
	p, _ := b.Post("2")
	if p.Content == "   " {
		t.Error("invalid edit reached the collection")
	}
}

func TestSubmit_EditScenario(t *testing.T) {
	store := &memoryStore{}
	b := newTestBitacora(t, store)
	original, err := b.Post("1")
	if err != nil {
		t.Fatalf("Post failed: %v", err)
	}
	// editing prepopulates the form
	if _, err := b.StartEdit("3"); err != nil {
		t.Fatalf("StartEdit failed: %v", err)
	}
	form := b.Form()
	if form.EditingID != "3" || form.Status != domain.StatusDraft || form.Tag != domain.TagArte {
		t.Fatalf("Form() = %+v, want post 3 prepopulated", form)
	}
	b.CancelEdit()

	form, err = b.StartEdit("1")
	if err != nil {
		t.Fatalf("StartEdit failed: %v", err)
	}
	if form.Title != original.Title || form.Content != original.Content {
		t.Errorf("Form() = %+v, want post 1 fields", form)
	}

	if _, err := b.UpdateForm(FormFields{Status: strPtr(string(domain.StatusDraft)), Title: strPtr("Nuevo título")}); err != nil {
		t.Fatalf("UpdateForm failed: %v", err)
	}
	res, err := b.Submit(context.Background())
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if res.Created {
		t.Error("Created = true for an edit")
	}

	posts := b.Posts()
	if len(posts) != 3 {
		t.Fatalf("len(Posts()) = %d, want 3", len(posts))
	}
	if posts[0].ID != "1" {
		t.Errorf("edited post moved: first is %q", posts[0].ID)
	}
	edited := posts[0]
	if edited.Title != "Nuevo título" || edited.Status != domain.StatusDraft {
		t.Errorf("edited = %+v", edited)
	}
	if edited.ID != original.ID || !edited.CreatedAt.Equal(original.CreatedAt) {
		t.Errorf("id/createdAt changed: %+v vs %+v", edited, original)
	}
	if b.Form().IsEditing() {
		t.Error("form still editing after submit")
	}
	if len(store.saves) != 1 {
		t.Errorf("store saved %d times, want 1", len(store.saves))
	}
}

func TestSubmit_EditPublishesDraft(t *testing.T) {
	b := newTestBitacora(t, &memoryStore{})
	original, _ := b.Post("3")

	b.StartEdit("3")
	b.UpdateForm(FormFields{Status: strPtr(string(domain.StatusPublished))})
	if _, err := b.Submit(context.Background()); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	p, _ := b.Post("3")
	if p.Status != domain.StatusPublished {
		t.Errorf("Status = %q, want Publicado", p.Status)
	}
	if p.ID != original.ID || !p.CreatedAt.Equal(original.CreatedAt) {
		t.Error("id or createdAt changed on edit")
	}
	if c := b.View().Counts; c.Published != 3 || c.Drafts != 0 || c.Total != 3 {
		t.Errorf("Counts = %+v", c)
	}
}

func TestStartEdit_UnknownPost(t *testing.T) {
	b := newTestBitacora(t, &memoryStore{})

	_, err := b.StartEdit("nope")
	if !errors.Is(err, ErrPostNotFound) {
		t.Errorf("StartEdit error = %v, want ErrPostNotFound", err)
	}
	if b.Form().IsEditing() {
		t.Error("form entered edit mode for an unknown post")
	}
}

func TestCancelEdit(t *testing.T) {
	b := newTestBitacora(t, &memoryStore{})

	b.StartEdit("2")
	form, err := b.CancelEdit()
	if err != nil {
		t.Fatalf("CancelEdit failed: %v", err)
	}
	if form != blankForm() || b.Form() != blankForm() {
		t.Errorf("Form() = %+v, want blank", b.Form())
	}
}

func TestSetFilter_ArteScenario(t *testing.T) {
	b := newTestBitacora(t, &memoryStore{})

	if err := b.SetFilter("Arte"); err != nil {
		t.Fatalf("SetFilter failed: %v", err)
	}

	v := b.View()
	assertIDs(t, "Posts", v.Posts, "3")
	if v.Selected == nil || v.Selected.ID != "3" {
		t.Errorf("Selected = %v, want 3", v.Selected)
	}
	// the stored selection follows the filter
	if b.SelectedID() != "3" {
		t.Errorf("SelectedID() = %q, want %q", b.SelectedID(), "3")
	}
}

func TestSetFilter_Unknown(t *testing.T) {
	b := newTestBitacora(t, &memoryStore{})

	if err := b.SetFilter("Música"); !errors.Is(err, ErrUnknownTag) {
		t.Errorf("SetFilter error = %v, want ErrUnknownTag", err)
	}
	if b.Query().Tag != domain.TagAll {
		t.Errorf("Tag = %q, want Todos", b.Query().Tag)
	}
}

func TestSetSearchAndSort(t *testing.T) {
	store := &memoryStore{initial: []domain.Post{
		newPost("a", domain.TagDev, domain.StatusPublished, 0),
		newPost("b", domain.TagDev, domain.StatusPublished, 10),
	}}
	b := newTestBitacora(t, store)

	assertIDs(t, "newest", b.View().Posts, "b", "a")

	b.SetSort("oldest")
	assertIDs(t, "oldest", b.View().Posts, "a", "b")

	b.SetSort("sideways")
	if b.Query().Sort != domain.SortNewest {
		t.Errorf("Sort = %q, want newest", b.Query().Sort)
	}

	b.SetSearch("contenido de a")
	assertIDs(t, "search", b.View().Posts, "a")
	if b.SelectedID() != "a" {
		t.Errorf("SelectedID() = %q, want a", b.SelectedID())
	}

	if len(store.saves) != 0 {
		t.Errorf("view controls saved %d times, want 0", len(store.saves))
	}
}

func TestSelect(t *testing.T) {
	b := newTestBitacora(t, &memoryStore{})

	b.Select("2")
	if b.SelectedID() != "2" || b.View().Selected.ID != "2" {
		t.Errorf("selection = %q / %v, want 2", b.SelectedID(), b.View().Selected)
	}

	// outside the filtered view: repaired to the first filtered post
	b.SetFilter("Dev")
	b.Select("3")
	if b.SelectedID() != "2" {
		t.Errorf("SelectedID() = %q, want 2", b.SelectedID())
	}
}

func TestDelete_SelectedFallsBackToFilteredView(t *testing.T) {
	store := &memoryStore{initial: []domain.Post{
		newPost("dev-old", domain.TagDev, domain.StatusPublished, 0),
		newPost("arte", domain.TagArte, domain.StatusPublished, 5),
		newPost("dev-new", domain.TagDev, domain.StatusDraft, 10),
	}}
	b := newTestBitacora(t, store)

	b.SetFilter("Dev")
	b.Select("dev-old")

	if err := b.Delete(context.Background(), "dev-old"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if b.SelectedID() != "dev-new" {
		t.Errorf("SelectedID() = %q, want dev-new", b.SelectedID())
	}
	assertIDs(t, "saved", store.last(), "arte", "dev-new")

	if err := b.Delete(context.Background(), "dev-new"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if b.SelectedID() != "" {
		t.Errorf("SelectedID() = %q, want none", b.SelectedID())
	}
	if v := b.View(); v.Selected != nil || v.Hero != nil {
		t.Errorf("view for empty filter has Selected=%v Hero=%v", v.Selected, v.Hero)
	}

	// widening the filter picks a selection again
	b.SetFilter("Todos")
	if b.SelectedID() != "arte" {
		t.Errorf("SelectedID() = %q, want arte", b.SelectedID())
	}
}

func TestDelete_UnselectedKeepsSelection(t *testing.T) {
	b := newTestBitacora(t, &memoryStore{})

	b.Select("2")
	if err := b.Delete(context.Background(), "3"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if b.SelectedID() != "2" {
		t.Errorf("SelectedID() = %q, want 2", b.SelectedID())
	}
}

func TestDelete_EditingResetsForm(t *testing.T) {
	b := newTestBitacora(t, &memoryStore{})

	b.StartEdit("2")
	if err := b.Delete(context.Background(), "2"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if b.Form() != blankForm() {
		t.Errorf("Form() = %+v, want blank", b.Form())
	}

	// deleting something else leaves the edit alone
	b.StartEdit("1")
	b.Delete(context.Background(), "3")
	if b.Form().EditingID != "1" {
		t.Errorf("EditingID = %q, want 1", b.Form().EditingID)
	}
}

func TestDelete_Unknown(t *testing.T) {
	store := &memoryStore{}
	b := newTestBitacora(t, store)

	if err := b.Delete(context.Background(), "nope"); !errors.Is(err, ErrPostNotFound) {
		t.Errorf("Delete error = %v, want ErrPostNotFound", err)
	}
	if len(b.Posts()) != 3 || len(store.saves) != 0 {
		t.Error("unknown delete changed state")
	}
}

func TestDelete_LastPostIsNotPersisted(t *testing.T) {
	store := &memoryStore{initial: []domain.Post{newPost("only", domain.TagDev, domain.StatusDraft, 0)}}
	b := newTestBitacora(t, store)

	if err := b.Delete(context.Background(), "only"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if len(b.Posts()) != 0 {
		t.Errorf("len(Posts()) = %d, want 0", len(b.Posts()))
	}
	if len(store.saves) != 0 {
		t.Errorf("empty collection saved %d times", len(store.saves))
	}
}

func TestSubmit_EditOfDeletedPost(t *testing.T) {
	b := newTestBitacora(t, &memoryStore{})

	b.StartEdit("2")
	// simulate the post disappearing while the form is open
	b.mu.Lock()
	b.posts = slices.DeleteFunc(b.posts, func(p domain.Post) bool { return p.ID == "2" })
	b.mu.Unlock()

	_, err := b.Submit(context.Background())
	if !errors.Is(err, ErrPostNotFound) {
		t.Errorf("Submit error = %v, want ErrPostNotFound", err)
	}
	if b.Form() != blankForm() {
		t.Errorf("Form() = %+v, want blank", b.Form())
	}
	if len(b.Posts()) != 2 {
		t.Errorf("len(Posts()) = %d, want 2", len(b.Posts()))
	}
}

func TestSaveFailureKeepsMemoryState(t *testing.T) {
	store := &memoryStore{saveErr: errors.New("quota exceeded")}
	obs := &recordingObserver{}
	b := newTestBitacora(t, store, WithObserver(obs))

	fill(t, b, "t", "c", domain.TagDev, domain.StatusDraft)
	if _, err := b.Submit(context.Background()); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if len(b.Posts()) != 4 {
		t.Errorf("len(Posts()) = %d, want 4", len(b.Posts()))
	}
	if obs.saves != 1 {
		t.Errorf("observer saves = %d, want 1", obs.saves)
	}
}

func TestClose_RejectsCommands(t *testing.T) {
	obs := &recordingObserver{}
	b := New(context.Background(), &memoryStore{}, WithObserver(obs))
	b.Close()

	if err := b.Select("2"); !errors.Is(err, ErrClosed) {
		t.Errorf("Select error = %v, want ErrClosed", err)
	}
	if _, err := b.Submit(context.Background()); !errors.Is(err, ErrClosed) {
		t.Errorf("Submit error = %v, want ErrClosed", err)
	}
	if !slices.Equal(obs.failures, []string{"select", "submit"}) {
		t.Errorf("failures = %v", obs.failures)
	}
	// reads still work
	if len(b.View().Posts) != 3 {
		t.Error("View() unavailable after Close")
	}
}

func TestConcurrentCommands(t *testing.T) {
	b := New(context.Background(), &memoryStore{})
	defer b.Close()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			b.SetSearch(fmt.Sprint(i))
			b.View()
			b.SetSearch("")
		}(i)
	}
	wg.Wait()

	if len(b.Posts()) != 3 {
		t.Errorf("len(Posts()) = %d, want 3", len(b.Posts()))
	}
}

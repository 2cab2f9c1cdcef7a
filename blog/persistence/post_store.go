package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dfryer1193/bitacora/blog/domain"
	"github.com/rs/zerolog/log"
)

var _ domain.PostStore = (*SlotPostStore)(nil)

// DefaultSlotKey is the slot the collection is mirrored to
const DefaultSlotKey = "bitacora-blog-posts"

// SlotPostStore mirrors the whole post collection, as a JSON array, into one slot.
type SlotPostStore struct {
	slots domain.SlotStore
	key   string
	now   func() time.Time
}

// NewPostStore creates a SlotPostStore writing to key, or DefaultSlotKey when key is empty
func NewPostStore(slots domain.SlotStore, key string) *SlotPostStore {
	if key == "" {
		key = DefaultSlotKey
	}
	return &SlotPostStore{
		slots: slots,
		key:   key,
		now:   time.Now,
	}
}

// Load reads the stored collection.
// An absent, unreadable, unparseable or empty slot yields the seed dataset instead; Load never fails.
func (s *SlotPostStore) Load(ctx context.Context) []domain.Post {
	raw, found, err := s.slots.Get(ctx, s.key)
	if err != nil {
		log.Warn().Err(err).Str("slot", s.key).Msg("Failed to read posts, loading seed data")
		return s.seed()
	}
	if !found {
		log.Info().Str("slot", s.key).Msg("No stored posts, loading seed data")
		return s.seed()
	}

	var stored []storedPost
	if err := json.Unmarshal(raw, &stored); err != nil {
		log.Warn().Err(err).Str("slot", s.key).Msg("Stored posts are corrupt, loading seed data")
		return s.seed()
	}
	if len(stored) == 0 {
		log.Info().Str("slot", s.key).Msg("Stored posts are empty, loading seed data")
		return s.seed()
	}

	posts := make([]domain.Post, 0, len(stored))
	for _, sp := range stored {
		posts = append(posts, sp.post())
	}

	log.Debug().Str("slot", s.key).Int("count", len(posts)).Msg("Loaded posts")
	return posts
}

// Save overwrites the slot with the whole collection.
// An empty collection is never written so that the next Load does not mistake it for data.
func (s *SlotPostStore) Save(ctx context.Context, posts []domain.Post) error {
	if len(posts) == 0 {
		return nil
	}

	raw, err := json.Marshal(posts)
	if err != nil {
		return fmt.Errorf("failed to encode posts: %w", err)
	}

	if err := s.slots.Put(ctx, s.key, raw); err != nil {
		return fmt.Errorf("failed to save posts: %w", err)
	}

	return nil
}

// storedPost is the slot's record shape. createdAt stays raw so that one bad
// date does not reject the whole collection.
type storedPost struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Tag       string `json:"tag"`
	Status    string `json:"status"`
	CreatedAt string `json:"createdAt"`
}

var createdAtLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func (sp storedPost) post() domain.Post {
	p := domain.Post{
		ID:      sp.ID,
		Title:   sp.Title,
		Content: sp.Content,
		Tag:     domain.Tag(sp.Tag),
		Status:  domain.Status(sp.Status),
	}

	for _, layout := range createdAtLayouts {
		if t, err := time.Parse(layout, sp.CreatedAt); err == nil {
			p.CreatedAt = t.UTC()
			return p
		}
	}
	// unparseable dates load as the zero time, which renders as no date
	if sp.CreatedAt != "" {
		log.Warn().Str("postId", sp.ID).Str("createdAt", sp.CreatedAt).Msg("Unparseable post date")
	}
	return p
}

func (s *SlotPostStore) seed() []domain.Post {
	return domain.SeedPosts(s.now().UTC())
}

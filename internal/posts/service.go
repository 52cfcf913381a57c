package posts

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jeremyjsx/blogapi/internal/auth"
	"github.com/jeremyjsx/blogapi/internal/events"
	"github.com/jeremyjsx/blogapi/internal/logger"
	"github.com/jeremyjsx/blogapi/internal/validation"
)

// maxSlugAttempts bounds how often a create re-generates its slug after
// losing an insert race.
const maxSlugAttempts = 5

const unknownCategoryMsg = "must reference existing categories"

type Service struct {
	repo       Repository
	categories CategoryLookup
	slugs      *SlugGenerator
	publisher  events.Publisher
	mirror     *Mirror
	now        func() time.Time
}

// NewService wires the post operations. publisher and mirror may be nil.
func NewService(repo Repository, categories CategoryLookup, publisher events.Publisher, mirror *Mirror) *Service {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &Service{
		repo:       repo,
		categories: categories,
		slugs:      NewSlugGenerator(repo),
		publisher:  publisher,
		mirror:     mirror,
		now:        time.Now,
	}
}

func (s *Service) CreatePost(ctx context.Context, owner *auth.Principal, in CreateInput) (*Post, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Excerpt = strings.TrimSpace(in.Excerpt)
	in.Content = strings.TrimSpace(in.Content)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	categoryIDs, err := s.resolveCategories(ctx, in.Categories)
	if err != nil {
		return nil, err
	}

	now := s.timestamp()
	p := &Post{
		ID:        uuid.New(),
		Title:     in.Title,
		Excerpt:   in.Excerpt,
		Content:   in.Content,
		UserID:    owner.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	log := logger.FromContext(ctx)
	for attempt := 1; ; attempt++ {
		p.Slug, err = s.slugs.Generate(ctx, p.Title)
		if err != nil {
			return nil, err
		}
		err = s.repo.Create(ctx, p, categoryIDs)
		if err == nil {
			break
		}
		if errors.Is(err, ErrUnknownCategory) {
			return nil, validation.Errors{"categories": unknownCategoryMsg}
		}
		if !errors.Is(err, ErrSlugExists) {
			return nil, err
		}
		if attempt == maxSlugAttempts {
			log.Warn("slug retries exhausted", "slug", p.Slug, "attempts", attempt)
			return nil, ErrConflict
		}
		log.Debug("slug taken at insert, retrying", "slug", p.Slug, "attempt", attempt)
	}

	created, err := s.repo.GetByID(ctx, p.ID)
	if err != nil {
		return nil, err
	}

	log.Info("post created", "post_id", created.ID, "slug", created.Slug)
	s.afterWrite(ctx, events.TypePostCreated, created)
	return created, nil
}

// ListPosts returns the owner's posts, optionally restricted to those whose
// title or content contains search, ignoring case.
func (s *Service) ListPosts(ctx context.Context, owner *auth.Principal, search string) ([]*PostSummary, error) {
	return s.repo.ListByOwner(ctx, owner.ID, strings.TrimSpace(search))
}

// GetPost returns a post owned by the requester. Other users' posts are
// reported as ErrForbidden.
func (s *Service) GetPost(ctx context.Context, requester *auth.Principal, id uuid.UUID) (*Post, error) {
	return s.owned(ctx, requester, id)
}

func (s *Service) UpdatePost(ctx context.Context, requester *auth.Principal, id uuid.UUID, in UpdateInput) (*Post, error) {
	trimPtr(in.Title)
	trimPtr(in.Excerpt)
	trimPtr(in.Content)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	p, err := s.owned(ctx, requester, id)
	if err != nil {
		return nil, err
	}

	var categoryIDs []uuid.UUID
	if in.Categories != nil {
		if categoryIDs, err = s.resolveCategories(ctx, *in.Categories); err != nil {
			return nil, err
		}
	}

	if in.Title != nil {
		p.Title = *in.Title
	}
	if in.Excerpt != nil {
		p.Excerpt = *in.Excerpt
	}
	if in.Content != nil {
		p.Content = *in.Content
	}
	p.UpdatedAt = s.timestamp()

	if err := s.repo.Update(ctx, p, categoryIDs); err != nil {
		if errors.Is(err, ErrUnknownCategory) {
			return nil, validation.Errors{"categories": unknownCategoryMsg}
		}
		return nil, err
	}

	updated, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("post updated", "post_id", updated.ID)
	s.afterWrite(ctx, events.TypePostUpdated, updated)
	return updated, nil
}

func (s *Service) DeletePost(ctx context.Context, requester *auth.Principal, id uuid.UUID) error {
	p, err := s.owned(ctx, requester, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	logger.FromContext(ctx).Info("post deleted", "post_id", p.ID, "slug", p.Slug)
	s.afterWrite(ctx, events.TypePostDeleted, p)
	return nil
}

func (s *Service) owned(ctx context.Context, requester *auth.Principal, id uuid.UUID) (*Post, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.UserID != requester.ID {
		return nil, ErrForbidden
	}
	return p, nil
}

// resolveCategories parses and de-duplicates ids, then checks they exist.
func (s *Service) resolveCategories(ctx context.Context, raw []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(raw))
	seen := make(map[uuid.UUID]bool, len(raw))
	for _, r := range raw {
		id, err := uuid.Parse(r)
		if err != nil {
			return nil, validation.Errors{"categories": "must contain valid identifiers"}
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}

	found, err := s.categories.ExistingIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		if !found[id] {
			return nil, validation.Errors{"categories": unknownCategoryMsg}
		}
	}
	return ids, nil
}

// afterWrite publishes the lifecycle event and refreshes the Markdown
// mirror. Failures are logged and never fail the request.
func (s *Service) afterWrite(ctx context.Context, eventType string, p *Post) {
	log := logger.FromContext(ctx)

	e := events.NewPostEvent(eventType, p.ID, p.UserID, p.Slug, p.Title)
	if err := s.publisher.PublishPostEvent(ctx, e); err != nil {
		log.Warn("publish post event failed", "type", eventType, "post_id", p.ID, "error", err)
	}

	var err error
	if eventType == events.TypePostDeleted {
		err = s.mirror.Remove(ctx, p.Slug)
	} else {
		err = s.mirror.Put(ctx, p)
	}
	if err != nil {
		log.Warn("sync markdown mirror failed", "post_id", p.ID, "slug", p.Slug, "error", err)
	}
}

func (s *Service) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

func trimPtr(v *string) {
	if v != nil {
		*v = strings.TrimSpace(*v)
	}
}

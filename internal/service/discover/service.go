package discover

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/oggyb/swipe-api/internal/app"
	"github.com/oggyb/swipe-api/internal/db"
	svcErr "github.com/oggyb/swipe-api/internal/errors"
	"github.com/oggyb/swipe-api/internal/repository"
	"github.com/oggyb/swipe-api/internal/service/profile"
	"github.com/oggyb/swipe-api/internal/utils/pagination"
	"github.com/oggyb/swipe-api/internal/utils/shuffle"
)

const (
	DefaultLimit = 10
	MaxLimit     = 50
)

// Query is one page request of a viewer's feed.
type Query struct {
	Cursor   string
	Limit    int
	MinAge   *int
	MaxAge   *int
	Province *string
	City     *string
}

// Page is the public-safe result of a feed request.
type Page struct {
	Users      []profile.PublicUser `json:"users"`
	NextCursor *string              `json:"nextCursor"`
	HasMore    bool                 `json:"hasMore"`
}

// Service selects discovery candidates.
// It reads only; nothing here writes to the store.
type Service struct {
	appCtx *app.AppContext
	users  *repository.UserRepository
	now    func() time.Time
}

func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx: appCtx,
		users:  repository.NewUserRepository(appCtx.DB),
		now:    time.Now,
	}
}

// Feed returns one page of the viewer's shuffled candidate list.
//
// Behavior:
//   - Re-queries the eligible set on every call: not the viewer, not yet
//     swiped by the viewer, two-sided gender compatible, inside the optional
//     age / province / city refinements.
//   - Shuffles the whole set with seed, so the same seed and set always give
//     the same order.
//   - Pages by cursor = id of the last candidate already received. A cursor
//     that is no longer in the set restarts from the top.
//
// Example:
//
//	svc.Feed(ctx, "u1", 42, Query{Limit: 2})
func (s *Service) Feed(ctx context.Context, viewerID string, seed uint32, q Query) (*Page, error) {
	s.appCtx.Logger.Debug("Feed called", "viewer", viewerID, "cursor", q.Cursor, "limit", q.Limit)

	if viewerID == "" {
		return nil, svcErr.Unauthenticated("Unauthorized")
	}
	if q.Limit <= 0 {
		q.Limit = DefaultLimit
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	if q.MinAge != nil && q.MaxAge != nil && *q.MinAge > *q.MaxAge {
		return nil, svcErr.InvalidArgument("minAge must not exceed maxAge")
	}

	viewer, err := s.users.GetByID(ctx, viewerID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, svcErr.NotFound("User not found")
	}
	if err != nil {
		s.appCtx.Logger.Error("GetByID failed", "viewer", viewerID, "err", err)
		return nil, svcErr.Map(err)
	}

	eligible, err := s.eligible(ctx, viewer, q)
	if err != nil {
		s.appCtx.Logger.Error("FindCandidates failed", "viewer", viewerID, "err", err)
		return nil, svcErr.Map(err)
	}

	shuffle.Shuffle(eligible, seed)
	window := pagination.Window(eligible, func(u db.User) string { return u.ID }, q.Cursor, q.Limit)

	now := s.now()
	page := &Page{
		Users:      make([]profile.PublicUser, 0, len(window.Items)),
		NextCursor: window.NextCursor,
		HasMore:    window.HasMore,
	}
	for i := range window.Items {
		page.Users = append(page.Users, profile.Public(&window.Items[i], now))
	}

	s.appCtx.Logger.Debug("Feed result", "viewer", viewerID, "eligible", len(eligible), "returned", len(page.Users), "has_more", page.HasMore)
	return page, nil
}

// eligible returns the viewer's candidates in stable id order.
func (s *Service) eligible(ctx context.Context, viewer *db.User, q Query) ([]db.User, error) {
	candidates, err := s.users.FindCandidates(ctx, repository.CandidateQuery{
		ViewerID: viewer.ID,
		Genders:  genderFilter(viewer.LookingForGenders),
		Province: q.Province,
		City:     q.City,
	})
	if err != nil {
		return nil, err
	}

	now := s.now()
	out := candidates[:0]
	for i := range candidates {
		c := &candidates[i]
		if !Compatible(viewer, c) {
			continue
		}
		age := c.EffectiveAge(now)
		if q.MinAge != nil && age < *q.MinAge {
			continue
		}
		if q.MaxAge != nil && age > *q.MaxAge {
			continue
		}
		out = append(out, *c)
	}
	return out, nil
}

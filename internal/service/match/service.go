package match

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
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// View is one match as seen by one of its participants.
type View struct {
	ID          string             `json:"id"`
	MatchedUser profile.PublicUser `json:"matchedUser"`
	CreatedAt   time.Time          `json:"createdAt"`
	Viewed      bool               `json:"viewed"`
}

// ListResult is a page of matches.
type ListResult struct {
	Matches    []View  `json:"matches"`
	NextCursor *string `json:"nextCursor"`
}

// Service exposes a user's matches and the unmatch operation.
type Service struct {
	appCtx    *app.AppContext
	matchRepo *repository.MatchRepository
	users     *repository.UserRepository
	now       func() time.Time
}

func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:    appCtx,
		matchRepo: repository.NewMatchRepository(appCtx.DB),
		users:     repository.NewUserRepository(appCtx.DB),
		now:       time.Now,
	}
}

// ForParticipant loads matchID and checks userID takes part in it.
// Unknown match → 404, outsider → 403.
func ForParticipant(ctx context.Context, repo *repository.MatchRepository, matchID, userID string) (*db.Match, error) {
	if userID == "" {
		return nil, svcErr.Unauthenticated("Unauthorized")
	}
	if matchID == "" {
		return nil, svcErr.InvalidArgument("Match ID required")
	}
	m, err := repo.GetByID(ctx, matchID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, svcErr.NotFound("Match not found")
	}
	if err != nil {
		return nil, svcErr.Map(err)
	}
	if !m.Has(userID) {
		return nil, svcErr.PermissionDenied("You are not part of this match")
	}
	return m, nil
}

// List returns userID's matches, newest first, with the other participant's
// public profile.
func (s *Service) List(ctx context.Context, userID string, token *string, limit int) (*ListResult, error) {
	s.appCtx.Logger.Debug("List matches called", "user", userID)

	if limit <= 0 {
		limit = DefaultLimit
	}
	limit = min(limit, MaxLimit)

	matches, next, err := s.matchRepo.ListForUser(ctx, userID, token, limit)
	if errors.Is(err, pagination.ErrInvalidToken) {
		return nil, svcErr.InvalidArgument("invalid pagination token")
	}
	if err != nil {
		s.appCtx.Logger.Error("ListForUser failed", "err", err)
		return nil, svcErr.Map(err)
	}

	views, err := s.views(ctx, userID, matches)
	if err != nil {
		return nil, err
	}
	return &ListResult{Matches: views, NextCursor: next}, nil
}

// ListUnviewed returns matches userID has not acknowledged yet.
func (s *Service) ListUnviewed(ctx context.Context, userID string) ([]View, error) {
	matches, err := s.matchRepo.ListUnviewed(ctx, userID)
	if err != nil {
		s.appCtx.Logger.Error("ListUnviewed failed", "err", err)
		return nil, svcErr.Map(err)
	}
	return s.views(ctx, userID, matches)
}

// UnviewedCount returns how many matches userID has not acknowledged.
// Cache-first strategy:
//  1. Attempts to read from Redis (matches:unviewed:userID).
//  2. On a miss or Redis error, counts in the DB.
//  3. On DB fetch, updates Redis with a 1h TTL.
func (s *Service) UnviewedCount(ctx context.Context, userID string) (int64, error) {
	if n, ok, err := s.appCtx.RedisCache.GetUnviewedCount(ctx, userID); err == nil && ok {
		s.appCtx.Logger.Debug("unviewed count cache hit", "user", userID, "count", n)
		return n, nil
	} else if err != nil {
		s.appCtx.Logger.Warn("Redis read failed, falling back to DB", "err", err)
	}

	n, err := s.matchRepo.CountUnviewed(ctx, userID)
	if err != nil {
		s.appCtx.Logger.Error("CountUnviewed failed", "err", err)
		return 0, svcErr.Map(err)
	}

	if err := s.appCtx.RedisCache.SetUnviewedCount(ctx, userID, n); err != nil {
		s.appCtx.Logger.Warn("Redis update failed", "err", err)
	}
	return n, nil
}

// MarkViewed sets only the caller's viewed flag on the match.
func (s *Service) MarkViewed(ctx context.Context, userID, matchID string) error {
	m, err := ForParticipant(ctx, s.matchRepo, matchID, userID)
	if err != nil {
		return err
	}
	if m.ViewedBy(userID) {
		return nil
	}
	if err := s.matchRepo.MarkViewed(ctx, m, userID); err != nil {
		s.appCtx.Logger.Error("MarkViewed failed", "match", matchID, "err", err)
		return svcErr.Map(err)
	}
	s.invalidate(ctx, userID)
	return nil
}

// Unmatch deletes the match, its messages and both swipe rows of the pair
// in one transaction, so either user can swipe on the other again.
func (s *Service) Unmatch(ctx context.Context, userID, matchID string) error {
	s.appCtx.Logger.Debug("Unmatch called", "user", userID, "match", matchID)

	m, err := ForParticipant(ctx, s.matchRepo, matchID, userID)
	if err != nil {
		return err
	}
	if err := s.matchRepo.DeleteWithSwipes(ctx, m); err != nil {
		s.appCtx.Logger.Error("DeleteWithSwipes failed", "match", matchID, "err", err)
		return svcErr.Map(err)
	}

	s.appCtx.Logger.Info("match removed", "match", m.ID, "by", userID)
	s.invalidate(ctx, m.User1ID, m.User2ID)
	return nil
}

func (s *Service) views(ctx context.Context, userID string, matches []db.Match) ([]View, error) {
	otherIDs := make([]string, 0, len(matches))
	for i := range matches {
		otherIDs = append(otherIDs, matches[i].Other(userID))
	}
	users, err := s.users.GetByIDs(ctx, otherIDs)
	if err != nil {
		s.appCtx.Logger.Error("GetByIDs failed", "err", err)
		return nil, svcErr.Map(err)
	}

	now := s.now()
	out := make([]View, 0, len(matches))
	for i := range matches {
		m := &matches[i]
		other, ok := users[m.Other(userID)]
		if !ok {
			continue
		}
		out = append(out, View{
			ID:          m.ID,
			MatchedUser: profile.Public(&other, now),
			CreatedAt:   m.CreatedAt,
			Viewed:      m.ViewedBy(userID),
		})
	}
	return out, nil
}

func (s *Service) invalidate(ctx context.Context, userIDs ...string) {
	if err := s.appCtx.RedisCache.InvalidateUnviewedCount(ctx, userIDs...); err != nil {
		s.appCtx.Logger.Warn("failed to invalidate unviewed count", "err", err)
	}
}

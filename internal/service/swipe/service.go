package swipe

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/oggyb/swipe-api/internal/app"
	"github.com/oggyb/swipe-api/internal/db"
	svcErr "github.com/oggyb/swipe-api/internal/errors"
	"github.com/oggyb/swipe-api/internal/repository"
)

// Result is the outcome of a recorded swipe.
type Result struct {
	Success bool   `json:"success"`
	Match   bool   `json:"match"`
	MatchID string `json:"matchId,omitempty"`
}

// Service records swipes and creates matches on reciprocal right swipes.
//
// There is no in-process locking: concurrent opposite-direction swipes are
// resolved by the unique pair index on matches.
type Service struct {
	appCtx    *app.AppContext
	users     *repository.UserRepository
	swipeRepo *repository.SwipeRepository
	matchRepo *repository.MatchRepository
}

func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:    appCtx,
		users:     repository.NewUserRepository(appCtx.DB),
		swipeRepo: repository.NewSwipeRepository(appCtx.DB),
		matchRepo: repository.NewMatchRepository(appCtx.DB),
	}
}

// RecordSwipe stores swiperID's decision on targetID.
//
// Behavior:
//   - Rejects, in order: missing caller, missing/invalid fields, self swipe,
//     an existing decision on the same target, an unknown target.
//   - Inserts the swipe. A left swipe ends there.
//   - A right swipe checks whether targetID already liked swiperID back and,
//     if so, creates the match for the canonical pair. Losing the insert race
//     to a concurrent request returns the existing match instead of failing.
//
// Example:
//
//	svc.RecordSwipe(ctx, "u2", "u1", "right") // {success: true, match: true, matchId: "..."}
func (s *Service) RecordSwipe(ctx context.Context, swiperID, targetID, direction string) (*Result, error) {
	s.appCtx.Logger.Debug("RecordSwipe called", "swiper", swiperID, "target", targetID, "direction", direction)

	if swiperID == "" {
		return nil, svcErr.Unauthenticated("Unauthorized")
	}
	if targetID == "" || direction == "" {
		return nil, svcErr.InvalidArgument("Missing swipedUserId or direction")
	}
	if direction != db.DirectionLeft && direction != db.DirectionRight {
		return nil, svcErr.InvalidArgument(`Direction must be "left" or "right"`)
	}
	if swiperID == targetID {
		return nil, svcErr.InvalidArgument("Cannot swipe on yourself")
	}

	exists, err := s.swipeRepo.Exists(ctx, swiperID, targetID)
	if err != nil {
		s.appCtx.Logger.Error("Exists failed", "err", err)
		return nil, svcErr.Map(err)
	}
	if exists {
		return nil, svcErr.InvalidArgument("Already swiped on this user")
	}

	found, err := s.users.Exists(ctx, targetID)
	if err != nil {
		s.appCtx.Logger.Error("user lookup failed", "target", targetID, "err", err)
		return nil, svcErr.Map(err)
	}
	if !found {
		return nil, svcErr.NotFound("User not found")
	}

	if err := s.swipeRepo.Create(ctx, swiperID, targetID, direction); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// same pair raced past the Exists check
			return nil, svcErr.InvalidArgument("Already swiped on this user")
		}
		s.appCtx.Logger.Error("Create swipe failed", "err", err)
		return nil, svcErr.Map(err)
	}

	if direction == db.DirectionLeft {
		return &Result{Success: true}, nil
	}

	mutual, err := s.swipeRepo.HasSwipedRight(ctx, targetID, swiperID)
	if err != nil {
		s.appCtx.Logger.Error("HasSwipedRight failed", "err", err)
		return nil, svcErr.Map(err)
	}
	if !mutual {
		return &Result{Success: true}, nil
	}

	matchID, err := s.createMatch(ctx, swiperID, targetID)
	if err != nil {
		return nil, err
	}
	return &Result{Success: true, Match: true, MatchID: matchID}, nil
}

// createMatch inserts the match or, when a concurrent request already did,
// returns the existing one.
func (s *Service) createMatch(ctx context.Context, a, b string) (string, error) {
	m, err := s.matchRepo.Create(ctx, a, b)
	switch {
	case err == nil:
		s.appCtx.Logger.Info("match created", "match", m.ID, "user1", m.User1ID, "user2", m.User2ID)
		s.invalidateBadges(ctx, a, b)
		return m.ID, nil

	case errors.Is(err, gorm.ErrDuplicatedKey):
		existing, lookupErr := s.matchRepo.GetByPair(ctx, a, b)
		if lookupErr != nil {
			s.appCtx.Logger.Error("GetByPair after duplicate failed", "err", lookupErr)
			return "", svcErr.Map(lookupErr)
		}
		s.appCtx.Logger.Debug("match already existed", "match", existing.ID)
		return existing.ID, nil

	default:
		s.appCtx.Logger.Error("Create match failed", "err", err)
		return "", svcErr.Map(err)
	}
}

func (s *Service) invalidateBadges(ctx context.Context, userIDs ...string) {
	if err := s.appCtx.RedisCache.InvalidateUnviewedCount(ctx, userIDs...); err != nil {
		s.appCtx.Logger.Warn("failed to invalidate unviewed count", "err", err)
	}
}

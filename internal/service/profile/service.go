package profile

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/oggyb/swipe-api/internal/app"
	"github.com/oggyb/swipe-api/internal/db"
	svcErr "github.com/oggyb/swipe-api/internal/errors"
	"github.com/oggyb/swipe-api/internal/repository"
	"github.com/oggyb/swipe-api/internal/utils/normalize"
	"github.com/oggyb/swipe-api/internal/validation"
)

const (
	MinAge = 18
	MaxAge = 120
)

// UpdateInput is a partial profile edit; nil fields are left unchanged.
// An empty Birthday string clears the birthday.
type UpdateInput struct {
	Name              *string   `json:"name" binding:"omitempty,min=1,max=100"`
	Bio               *string   `json:"bio" binding:"omitempty,max=500"`
	Age               *int      `json:"age" binding:"omitempty,min=18,max=120"`
	Birthday          *string   `json:"birthday"`
	ShowBirthday      *bool     `json:"showBirthday"`
	Gender            *string   `json:"gender" binding:"omitempty,gender"`
	LookingForGenders *[]string `json:"lookingForGenders" binding:"omitempty,min=1,dive,preference"`
	PhotoURL          *string   `json:"photoUrl" binding:"omitempty,max=512"`
	Photos            *[]string `json:"photos" binding:"omitempty,max=9"`
	Province          *string   `json:"province" binding:"omitempty,max=100"`
	City              *string   `json:"city" binding:"omitempty,max=100"`
}

// Service serves profile reads and owner edits.
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

func (s *Service) load(ctx context.Context, userID string) (*db.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, svcErr.NotFound("User not found")
	}
	if err != nil {
		s.appCtx.Logger.Error("GetByID failed", "user", userID, "err", err)
		return nil, svcErr.Map(err)
	}
	return u, nil
}

// Me returns the caller's own profile.
func (s *Service) Me(ctx context.Context, userID string) (*SelfUser, error) {
	u, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := Self(u, s.now())
	return &out, nil
}

// Get returns another user's public profile.
func (s *Service) Get(ctx context.Context, userID string) (*PublicUser, error) {
	if userID == "" {
		return nil, svcErr.InvalidArgument("User ID required")
	}
	u, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := Public(u, s.now())
	return &out, nil
}

// Update applies a partial edit to the caller's profile.
//
// A birthday, when present after the edit, overrides any age sent
// alongside it and is re-checked against MinAge.
func (s *Service) Update(ctx context.Context, userID string, in UpdateInput) (*SelfUser, error) {
	u, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, svcErr.InvalidArgument("name cannot be empty")
		}
		u.Name = name
	}
	if in.Bio != nil {
		u.Bio = strings.TrimSpace(*in.Bio)
	}
	if in.Age != nil {
		u.Age = *in.Age
	}
	if in.Birthday != nil {
		if *in.Birthday == "" {
			u.Birthday = nil
		} else {
			b, err := time.Parse(validation.DateLayout, *in.Birthday)
			if err != nil {
				return nil, svcErr.InvalidArgument("birthday must be a date formatted YYYY-MM-DD")
			}
			u.Birthday = &b
		}
	}
	if in.ShowBirthday != nil {
		u.ShowBirthday = *in.ShowBirthday
	}
	if in.Gender != nil {
		if !validation.IsGender(*in.Gender) {
			return nil, svcErr.InvalidArgument("gender must be one of Male, Female, Non-binary, Other")
		}
		u.Gender = *in.Gender
	}
	if in.LookingForGenders != nil {
		prefs := *in.LookingForGenders
		if len(prefs) == 0 {
			return nil, svcErr.InvalidArgument("lookingForGenders must have at least 1 entries")
		}
		for _, p := range prefs {
			if !validation.IsPreference(p) {
				return nil, svcErr.InvalidArgument("lookingForGenders entries must be one of Men, Women, Non-binary, Everyone")
			}
		}
		u.LookingForGenders = prefs
	}
	if in.PhotoURL != nil {
		u.PhotoURL = strings.TrimSpace(*in.PhotoURL)
	}
	if in.Photos != nil {
		u.Photos = *in.Photos
	}
	if in.Province != nil {
		u.Province = normalize.OptionalText(in.Province)
	}
	if in.City != nil {
		u.City = normalize.OptionalText(in.City)
	}

	if u.Birthday != nil {
		u.Age = db.AgeAt(*u.Birthday, s.now())
	}
	if u.Age < MinAge || u.Age > MaxAge {
		return nil, svcErr.InvalidArgument("age must be between 18 and 120")
	}

	if err := s.users.Save(ctx, u); err != nil {
		s.appCtx.Logger.Error("Save profile failed", "user", userID, "err", err)
		return nil, svcErr.Map(err)
	}

	s.appCtx.Logger.Debug("profile updated", "user", userID)
	out := Self(u, s.now())
	return &out, nil
}

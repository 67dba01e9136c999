package account

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/oggyb/swipe-api/internal/app"
	"github.com/oggyb/swipe-api/internal/auth"
	"github.com/oggyb/swipe-api/internal/db"
	svcErr "github.com/oggyb/swipe-api/internal/errors"
	"github.com/oggyb/swipe-api/internal/repository"
	"github.com/oggyb/swipe-api/internal/service/profile"
	"github.com/oggyb/swipe-api/internal/utils/normalize"
	"github.com/oggyb/swipe-api/internal/validation"
)

const minPasswordLength = 6

// SignupInput is the registration payload. Either Age or Birthday must be
// given; Birthday wins when both are.
type SignupInput struct {
	Email             string   `json:"email" binding:"required,email,max=128"`
	Password          string   `json:"password" binding:"required,min=6,max=72"`
	Name              string   `json:"name" binding:"required,max=100"`
	Age               *int     `json:"age" binding:"omitempty,min=18,max=120"`
	Birthday          *string  `json:"birthday" binding:"omitempty,date"`
	ShowBirthday      bool     `json:"showBirthday"`
	Gender            string   `json:"gender" binding:"required,gender"`
	LookingForGenders []string `json:"lookingForGenders" binding:"required,min=1,dive,preference"`
	Bio               string   `json:"bio" binding:"max=500"`
	PhotoURL          string   `json:"photoUrl" binding:"max=512"`
	Photos            []string `json:"photos" binding:"max=9"`
	Province          *string  `json:"province" binding:"omitempty,max=100"`
	City              *string  `json:"city" binding:"omitempty,max=100"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Session is returned by signup and login.
type Session struct {
	Token     string           `json:"token"`
	ExpiresAt time.Time        `json:"expiresAt"`
	User      profile.SelfUser `json:"user"`
}

// Service registers users and opens sessions.
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

// Signup creates the account and opens its first session.
//
// Behavior:
//   - Email is trimmed and lower-cased before the uniqueness check.
//   - Duplicate email → 409, whether caught up front or by the unique index.
//   - Age must end up within [profile.MinAge, profile.MaxAge].
func (s *Service) Signup(ctx context.Context, in SignupInput) (*Session, error) {
	email := normalize.Email(in.Email)
	name := strings.TrimSpace(in.Name)
	if email == "" || in.Password == "" || name == "" || in.Gender == "" || len(in.LookingForGenders) == 0 {
		return nil, svcErr.InvalidArgument("Missing required fields")
	}
	if len(in.Password) < minPasswordLength {
		return nil, svcErr.InvalidArgument("password must have at least 6 characters")
	}
	if !validation.IsGender(in.Gender) {
		return nil, svcErr.InvalidArgument("gender must be one of Male, Female, Non-binary, Other")
	}
	for _, p := range in.LookingForGenders {
		if !validation.IsPreference(p) {
			return nil, svcErr.InvalidArgument("lookingForGenders entries must be one of Men, Women, Non-binary, Everyone")
		}
	}

	u := &db.User{
		Email:             email,
		Name:              name,
		ShowBirthday:      in.ShowBirthday,
		Gender:            in.Gender,
		LookingForGenders: in.LookingForGenders,
		Bio:               strings.TrimSpace(in.Bio),
		PhotoURL:          strings.TrimSpace(in.PhotoURL),
		Photos:            in.Photos,
		Province:          normalize.OptionalText(in.Province),
		City:              normalize.OptionalText(in.City),
	}
	if u.Photos == nil {
		u.Photos = []string{}
	}

	switch {
	case in.Birthday != nil && *in.Birthday != "":
		b, err := time.Parse(validation.DateLayout, *in.Birthday)
		if err != nil {
			return nil, svcErr.InvalidArgument("birthday must be a date formatted YYYY-MM-DD")
		}
		u.Birthday = &b
		u.Age = db.AgeAt(b, s.now())
	case in.Age != nil:
		u.Age = *in.Age
	default:
		return nil, svcErr.InvalidArgument("age or birthday is required")
	}
	if u.Age < profile.MinAge || u.Age > profile.MaxAge {
		return nil, svcErr.InvalidArgument("age must be between 18 and 120")
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, svcErr.AlreadyExists("Email already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.appCtx.Logger.Error("GetByEmail failed", "err", err)
		return nil, svcErr.Map(err)
	}

	hash, err := auth.HashPassword(in.Password, s.appCtx.Config.Auth.BcryptCost)
	if err != nil {
		s.appCtx.Logger.Error("HashPassword failed", "err", err)
		return nil, svcErr.Map(err)
	}
	u.PasswordHash = hash

	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, svcErr.AlreadyExists("Email already exists")
		}
		s.appCtx.Logger.Error("Create user failed", "err", err)
		return nil, svcErr.Map(err)
	}

	s.appCtx.Logger.Info("user signed up", "user", u.ID)
	return s.session(u)
}

// Login checks credentials and opens a new session with a fresh shuffle seed.
//
// Failed attempts are counted per email in Redis. Once the count reaches
// RateLimit.LoginAttempts within RateLimit.LoginWindow further attempts get
// 429 until the window expires. A Redis outage does not block logins.
func (s *Service) Login(ctx context.Context, in LoginInput) (*Session, error) {
	email := normalize.Email(in.Email)
	if email == "" || in.Password == "" {
		return nil, svcErr.InvalidArgument("Email and password are required")
	}

	limit := s.appCtx.Config.RateLimit.LoginAttempts
	if n, err := s.appCtx.RedisCache.LoginAttempts(ctx, email); err != nil {
		s.appCtx.Logger.Warn("login attempt lookup failed", "err", err)
	} else if limit > 0 && n >= limit {
		return nil, svcErr.TooManyRequests("Too many login attempts, try again later")
	}

	u, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, s.failLogin(ctx, email)
	}
	if err != nil {
		s.appCtx.Logger.Error("GetByEmail failed", "err", err)
		return nil, svcErr.Map(err)
	}
	if err := auth.CheckPassword(u.PasswordHash, in.Password); err != nil {
		return nil, s.failLogin(ctx, email)
	}

	if err := s.appCtx.RedisCache.ResetLoginAttempts(ctx, email); err != nil {
		s.appCtx.Logger.Warn("login attempt reset failed", "err", err)
	}
	s.appCtx.Logger.Debug("user logged in", "user", u.ID)
	return s.session(u)
}

func (s *Service) failLogin(ctx context.Context, email string) error {
	if _, err := s.appCtx.RedisCache.IncrLoginAttempts(ctx, email, s.appCtx.Config.RateLimit.LoginWindow); err != nil {
		s.appCtx.Logger.Warn("login attempt increment failed", "err", err)
	}
	return svcErr.Unauthenticated("Invalid credentials")
}

func (s *Service) session(u *db.User) (*Session, error) {
	token, exp, err := s.appCtx.Tokens.Issue(u.ID, auth.NewShuffleSeed())
	if err != nil {
		s.appCtx.Logger.Error("Issue token failed", "err", err)
		return nil, svcErr.Map(err)
	}
	return &Session{Token: token, ExpiresAt: exp, User: profile.Self(u, s.now())}, nil
}

package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/oggyb/swipe-api/internal/db"
)

// UserRepository provides data access methods for the User model.
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new repository bound to the given DB connection.
func NewUserRepository(database *gorm.DB) *UserRepository {
	return &UserRepository{db: database}
}

// CandidateQuery narrows the rows FindCandidates returns.
//
// Genders nil means any gender; an empty non-nil slice matches nobody.
type CandidateQuery struct {
	ViewerID string
	Genders  []string
	Province *string
	City     *string
}

// Create inserts a new user. A taken email surfaces as gorm.ErrDuplicatedKey.
func (r *UserRepository) Create(ctx context.Context, u *db.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

// GetByID returns gorm.ErrRecordNotFound when the user does not exist.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*db.User, error) {
	var u db.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*db.User, error) {
	var u db.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByIDs loads the given users keyed by id. Unknown ids are skipped.
func (r *UserRepository) GetByIDs(ctx context.Context, ids []string) (map[string]db.User, error) {
	out := make(map[string]db.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var users []db.User
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	for _, u := range users {
		out[u.ID] = u
	}
	return out, nil
}

// Exists reports whether a user with id is present.
func (r *UserRepository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&db.User{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// Save writes every column of u.
func (r *UserRepository) Save(ctx context.Context, u *db.User) error {
	return r.db.WithContext(ctx).Save(u).Error
}

// FindCandidates returns users the viewer could be shown, before preference
// and age checks.
//
// Behavior:
//   - Excludes the viewer.
//   - Excludes anyone swiped on by the viewer, left or right.
//   - Restricts gender / province / city when the query sets them.
//   - Ordered by id ASC so callers get a stable base order to shuffle.
//
// Example:
//
//	repo.FindCandidates(ctx, CandidateQuery{ViewerID: "u1", Genders: []string{"Female"}})
func (r *UserRepository) FindCandidates(ctx context.Context, q CandidateQuery) ([]db.User, error) {
	var users []db.User

	if q.Genders != nil && len(q.Genders) == 0 {
		return users, nil
	}

	swiped := r.db.
		Table("swipes s").
		Select("1").
		Where("s.swiper_id = ? AND s.swiped_id = u.id", q.ViewerID)

	query := r.db.WithContext(ctx).
		Table("users u").
		Where("u.id <> ?", q.ViewerID).
		Where("NOT EXISTS (?)", swiped).
		Order("u.id ASC")

	if q.Genders != nil {
		query = query.Where("u.gender IN ?", q.Genders)
	}
	if q.Province != nil {
		query = query.Where("u.province = ?", *q.Province)
	}
	if q.City != nil {
		query = query.Where("u.city = ?", *q.City)
	}

	if err := query.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

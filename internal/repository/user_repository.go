package repository

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"ai-samples-api/internal/domain"
)

var ErrUserNotFound = errors.New("user not found")

// UserListQuery carries the per-request listing parameters. The active-state
// filter only applies when FilterByActive is set; IsActive alone cannot
// distinguish "inactive users" from "no filter".
type UserListQuery struct {
	PageRequest
	IsActive       bool
	FilterByActive bool
	Search         string
}

type UserRepository interface {
	FindByID(id string) (*domain.User, error)
	FindActiveByID(id string) (*domain.User, error)
	FindByUsername(username string) (*domain.User, error)
	FindByEmail(email string) (*domain.User, error)
	FindActiveByEmail(email string) (*domain.User, error)
	Exists(id string) (bool, error)
	Create(user *domain.User) error
	Update(user *domain.User) error
	ListPaged(q UserListQuery) (PageResult[domain.User], error)
}

type GormUserRepository struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) UserRepository { return &GormUserRepository{db: db} }

func (r *GormUserRepository) FindByID(id string) (*domain.User, error) {
	var u domain.User
	if err := r.db.First(&u, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *GormUserRepository) FindActiveByID(id string) (*domain.User, error) {
	var u domain.User
	if err := r.db.First(&u, "id = ? AND is_active = ?", id, true).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *GormUserRepository) FindByUsername(username string) (*domain.User, error) {
	var u domain.User
	if err := r.db.Where("lower(username) = ?", strings.ToLower(username)).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *GormUserRepository) FindByEmail(email string) (*domain.User, error) {
	var u domain.User
	if err := r.db.Where("lower(email) = ?", strings.ToLower(email)).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *GormUserRepository) FindActiveByEmail(email string) (*domain.User, error) {
	var u domain.User
	err := r.db.Where("lower(email) = ? AND is_active = ?", strings.ToLower(email), true).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *GormUserRepository) Exists(id string) (bool, error) {
	var count int64
	if err := r.db.Model(&domain.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormUserRepository) Create(user *domain.User) error { return r.db.Create(user).Error }
func (r *GormUserRepository) Update(user *domain.User) error { return r.db.Save(user).Error }

func (r *GormUserRepository) ListPaged(q UserListQuery) (PageResult[domain.User], error) {
	normalized := normalizePageRequest(q.PageRequest)
	out := PageResult[domain.User]{Page: normalized.Page, PageSize: normalized.PageSize}

	base := r.db.Model(&domain.User{})
	if q.FilterByActive {
		base = base.Where("is_active = ?", q.IsActive)
	}
	if search := strings.ToLower(strings.TrimSpace(q.Search)); search != "" {
		pattern := "%" + search + "%"
		base = base.Where("lower(username) LIKE ? OR lower(email) LIKE ?", pattern, pattern)
	}

	// Total is computed before offset/limit so it is invariant across pages.
	if err := base.Count(&out.Total).Error; err != nil {
		return PageResult[domain.User]{}, err
	}
	offset := (normalized.Page - 1) * normalized.PageSize
	if err := base.Order("created_at desc").Offset(offset).Limit(normalized.PageSize).Find(&out.Items).Error; err != nil {
		return PageResult[domain.User]{}, err
	}
	out.TotalPages = calcTotalPages(out.Total, normalized.PageSize)
	return out, nil
}

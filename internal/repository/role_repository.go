package repository

import (
	"errors"

	"gorm.io/gorm"

	"ai-samples-api/internal/domain"
)

var (
	ErrRoleNotFound     = errors.New("role not found")
	ErrUserRoleNotFound = errors.New("user role not found")
)

type RoleRepository interface {
	GetUserRoles(userID string) ([]domain.Role, error)
	Exists(roleID string) (bool, error)
	HasRole(userID, roleID string) (bool, error)
	Assign(assignment *domain.UserRole) error
	Remove(userID, roleID string) error
	List() ([]domain.Role, error)
	FindByName(name string) (*domain.Role, error)
}

type GormRoleRepository struct{ db *gorm.DB }

func NewRoleRepository(db *gorm.DB) RoleRepository { return &GormRoleRepository{db: db} }

func (r *GormRoleRepository) GetUserRoles(userID string) ([]domain.Role, error) {
	var roles []domain.Role
	err := r.db.
		Joins("JOIN user_roles ON user_roles.role_id = roles.id").
		Where("user_roles.user_id = ?", userID).
		Find(&roles).Error
	return roles, err
}

func (r *GormRoleRepository) Exists(roleID string) (bool, error) {
	var count int64
	if err := r.db.Model(&domain.Role{}).Where("id = ?", roleID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormRoleRepository) HasRole(userID, roleID string) (bool, error) {
	var count int64
	err := r.db.Model(&domain.UserRole{}).
		Where("user_id = ? AND role_id = ?", userID, roleID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormRoleRepository) Assign(assignment *domain.UserRole) error {
	return r.db.Create(assignment).Error
}

// Remove reports ErrUserRoleNotFound through the rows-affected count; a
// missing association is not a database fault.
func (r *GormRoleRepository) Remove(userID, roleID string) error {
	res := r.db.Where("user_id = ? AND role_id = ?", userID, roleID).Delete(&domain.UserRole{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrUserRoleNotFound
	}
	return nil
}

func (r *GormRoleRepository) List() ([]domain.Role, error) {
	var roles []domain.Role
	err := r.db.Order("name asc").Find(&roles).Error
	return roles, err
}

func (r *GormRoleRepository) FindByName(name string) (*domain.Role, error) {
	var role domain.Role
	if err := r.db.Where("name = ?", name).First(&role).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, err
	}
	return &role, nil
}

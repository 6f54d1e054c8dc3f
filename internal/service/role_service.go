package service

import (
	"errors"
	"log/slog"
	"time"

	"ai-samples-api/internal/domain"
	"ai-samples-api/internal/repository"
	"ai-samples-api/internal/result"
)

type RoleService struct {
	userRepo repository.UserRepository
	roleRepo repository.RoleRepository
}

func NewRoleService(userRepo repository.UserRepository, roleRepo repository.RoleRepository) *RoleService {
	return &RoleService{userRepo: userRepo, roleRepo: roleRepo}
}

func (s *RoleService) GetUserRoles(userID string) result.Result[[]domain.Role] {
	roles, err := s.roleRepo.GetUserRoles(userID)
	if err != nil {
		return result.Internal[[]domain.Role]("get user roles failed: " + err.Error())
	}
	if roles == nil {
		roles = []domain.Role{}
	}
	return result.OK(roles)
}

// AssignRoleToUser validates user, role and duplicate state in that order
// before inserting; the storage-level unique index backstops concurrent
// assigners racing past the duplicate check.
func (s *RoleService) AssignRoleToUser(userID, roleID string, assignedBy *string) result.Result[bool] {
	userExists, err := s.userRepo.Exists(userID)
	if err != nil {
		return result.Internal[bool]("assign role failed: " + err.Error())
	}
	if !userExists {
		return result.NotFound[bool]("user not found")
	}

	roleExists, err := s.roleRepo.Exists(roleID)
	if err != nil {
		return result.Internal[bool]("assign role failed: " + err.Error())
	}
	if !roleExists {
		return result.NotFound[bool]("role not found")
	}

	hasRole, err := s.roleRepo.HasRole(userID, roleID)
	if err != nil {
		return result.Internal[bool]("assign role failed: " + err.Error())
	}
	if hasRole {
		return result.Conflict[bool]("user already has this role")
	}

	assignment := &domain.UserRole{
		UserID:     userID,
		RoleID:     roleID,
		AssignedAt: time.Now().UTC(),
		AssignedBy: assignedBy,
	}
	if err := s.roleRepo.Assign(assignment); err != nil {
		return result.Internal[bool]("assign role failed: " + err.Error())
	}
	slog.Info("role assigned", "user_id", userID, "role_id", roleID)
	return result.OK(true)
}

func (s *RoleService) RemoveRoleFromUser(userID, roleID string) result.Result[bool] {
	if err := s.roleRepo.Remove(userID, roleID); err != nil {
		if errors.Is(err, repository.ErrUserRoleNotFound) {
			return result.NotFound[bool]("user does not have this role")
		}
		return result.Internal[bool]("remove role failed: " + err.Error())
	}
	slog.Info("role removed", "user_id", userID, "role_id", roleID)
	return result.OK(true)
}

func (s *RoleService) GetAllRoles() result.Result[[]domain.Role] {
	roles, err := s.roleRepo.List()
	if err != nil {
		return result.Internal[[]domain.Role]("list roles failed: " + err.Error())
	}
	if roles == nil {
		roles = []domain.Role{}
	}
	return result.OK(roles)
}

func (s *RoleService) GetRoleByName(name string) result.Result[*domain.Role] {
	role, err := s.roleRepo.FindByName(name)
	if err != nil {
		if errors.Is(err, repository.ErrRoleNotFound) {
			return result.NotFound[*domain.Role]("role not found")
		}
		return result.Internal[*domain.Role]("get role failed: " + err.Error())
	}
	return result.OK(role)
}

package service

import (
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"ai-samples-api/internal/domain"
	"ai-samples-api/internal/repository"
	"ai-samples-api/internal/result"
	"ai-samples-api/internal/security"
)

type CreateUserInput struct {
	Username string
	Email    string
	Password string
	IsActive bool
}

type UpdateUserInput struct {
	IsActive *bool
}

type UserService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) List(q repository.UserListQuery) result.Result[repository.PageResult[domain.User]] {
	page, err := s.userRepo.ListPaged(q)
	if err != nil {
		return result.Internal[repository.PageResult[domain.User]]("list users failed: " + err.Error())
	}
	if page.Items == nil {
		page.Items = []domain.User{}
	}
	return result.OK(page)
}

func (s *UserService) GetByID(id string) result.Result[*domain.User] {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return result.NotFound[*domain.User]("user not found")
		}
		return result.Internal[*domain.User]("get user failed: " + err.Error())
	}
	return result.OK(user)
}

func (s *UserService) Create(in CreateUserInput) result.Result[*domain.User] {
	if _, err := s.userRepo.FindByUsername(in.Username); err == nil {
		return result.Conflict[*domain.User]("username already exists")
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return result.Internal[*domain.User]("create user failed: " + err.Error())
	}
	if _, err := s.userRepo.FindByEmail(in.Email); err == nil {
		return result.Conflict[*domain.User]("email already exists")
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return result.Internal[*domain.User]("create user failed: " + err.Error())
	}

	hash, err := security.HashPassword(in.Password)
	if err != nil {
		return result.Internal[*domain.User]("create user failed: " + err.Error())
	}
	user := &domain.User{
		ID:           uuid.NewString(),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		IsActive:     in.IsActive,
	}
	if err := s.userRepo.Create(user); err != nil {
		return result.Internal[*domain.User]("create user failed: " + err.Error())
	}
	slog.Info("user created", "user_id", user.ID, "username", user.Username)
	return result.Created(user)
}

// Update mutates the active flag only; the updated timestamp is refreshed on
// every call whether or not the flag changed.
func (s *UserService) Update(id string, in UpdateUserInput) result.Result[*domain.User] {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return result.NotFound[*domain.User]("user not found")
		}
		return result.Internal[*domain.User]("update user failed: " + err.Error())
	}
	if in.IsActive != nil {
		user.IsActive = *in.IsActive
	}
	if err := s.userRepo.Update(user); err != nil {
		return result.Internal[*domain.User]("update user failed: " + err.Error())
	}
	slog.Info("user updated", "user_id", user.ID, "is_active", user.IsActive)
	return result.OK(user)
}

// Delete is a soft delete and is idempotent: an already-inactive user deletes
// successfully and stays inactive.
func (s *UserService) Delete(id string) result.Result[bool] {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return result.NotFound[bool]("user not found")
		}
		return result.Internal[bool]("delete user failed: " + err.Error())
	}
	user.IsActive = false
	if err := s.userRepo.Update(user); err != nil {
		return result.Internal[bool]("delete user failed: " + err.Error())
	}
	slog.Info("user deactivated", "user_id", user.ID)
	return result.OK(true)
}

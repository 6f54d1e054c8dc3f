package service

import (
	"context"

	"ai-samples-api/internal/domain"
	"ai-samples-api/internal/repository"
	"ai-samples-api/internal/result"
)

type AuthServiceInterface interface {
	Authenticate(email, password string) result.Result[*AuthResult]
	CurrentUser(ctx context.Context) result.Result[*domain.User]
}

type UserServiceInterface interface {
	List(q repository.UserListQuery) result.Result[repository.PageResult[domain.User]]
	GetByID(id string) result.Result[*domain.User]
	Create(in CreateUserInput) result.Result[*domain.User]
	Update(id string, in UpdateUserInput) result.Result[*domain.User]
	Delete(id string) result.Result[bool]
}

type RoleServiceInterface interface {
	GetUserRoles(userID string) result.Result[[]domain.Role]
	AssignRoleToUser(userID, roleID string, assignedBy *string) result.Result[bool]
	RemoveRoleFromUser(userID, roleID string) result.Result[bool]
	GetAllRoles() result.Result[[]domain.Role]
	GetRoleByName(name string) result.Result[*domain.Role]
}

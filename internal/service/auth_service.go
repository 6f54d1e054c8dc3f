package service

import (
	"context"
	"errors"
	"time"

	"ai-samples-api/internal/domain"
	"ai-samples-api/internal/repository"
	"ai-samples-api/internal/result"
	"ai-samples-api/internal/security"
)

// invalidCredentialsMessage is shared by the unknown-email and wrong-password
// paths so a caller cannot probe which accounts exist.
const invalidCredentialsMessage = "invalid credentials"

type AuthResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      UserInfo  `json:"user"`
}

type UserInfo struct {
	ID    string        `json:"id"`
	Email string        `json:"email"`
	Roles []domain.Role `json:"roles"`
}

type AuthService struct {
	userRepo repository.UserRepository
	roleRepo repository.RoleRepository
	jwtMgr   *security.JWTManager
}

func NewAuthService(userRepo repository.UserRepository, roleRepo repository.RoleRepository, jwtMgr *security.JWTManager) *AuthService {
	return &AuthService{userRepo: userRepo, roleRepo: roleRepo, jwtMgr: jwtMgr}
}

func (s *AuthService) Authenticate(email, password string) result.Result[*AuthResult] {
	user, err := s.userRepo.FindActiveByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return result.Unauthorized[*AuthResult](invalidCredentialsMessage)
		}
		return result.Internal[*AuthResult]("authentication failed: " + err.Error())
	}
	if !security.VerifyPassword(user.PasswordHash, password) {
		return result.Unauthorized[*AuthResult](invalidCredentialsMessage)
	}

	roles, err := s.roleRepo.GetUserRoles(user.ID)
	if err != nil {
		return result.Internal[*AuthResult]("authentication failed: " + err.Error())
	}
	roleNames := make([]string, 0, len(roles))
	for _, r := range roles {
		roleNames = append(roleNames, r.Name)
	}

	token, expiresAt, err := s.jwtMgr.Sign(user.ID, user.Email, roleNames)
	if err != nil {
		return result.Internal[*AuthResult]("authentication failed: " + err.Error())
	}
	if roles == nil {
		roles = []domain.Role{}
	}
	return result.OK(&AuthResult{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      UserInfo{ID: user.ID, Email: user.Email, Roles: roles},
	})
}

// CurrentUser resolves the caller from the authenticated request context.
// A user that has been soft-deleted since the token was issued reads as absent.
func (s *AuthService) CurrentUser(ctx context.Context) result.Result[*domain.User] {
	claims, ok := security.ClaimsFromContext(ctx)
	if !ok {
		return result.Unauthorized[*domain.User]("not authenticated")
	}
	if claims.Subject == "" {
		return result.Unauthorized[*domain.User]("invalid authentication context")
	}
	user, err := s.userRepo.FindActiveByID(claims.Subject)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return result.NotFound[*domain.User]("user not found")
		}
		return result.Internal[*domain.User]("resolve current user failed: " + err.Error())
	}
	return result.OK(user)
}

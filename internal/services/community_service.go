package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/studyhub-dev/studyhub/internal/models"
	"github.com/studyhub-dev/studyhub/internal/repository"
)

// Directory groups users by role. Users whose role is neither student nor
// teacher are left out.
type Directory struct {
	Students []models.User
	Teachers []models.User
}

type CommunityService struct {
	users repository.UserRepository
}

func NewCommunityService(users repository.UserRepository) *CommunityService {
	return &CommunityService{users: users}
}

func (s *CommunityService) Directory(ctx context.Context) (*Directory, error) {
	users, err := s.users.List(ctx)

	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	return &Directory{
		Students: lo.Filter(users, hasRole(RoleStudent)),
		Teachers: lo.Filter(users, hasRole(RoleTeacher)),
	}, nil
}

func hasRole(role string) func(models.User, int) bool {
	return func(user models.User, _ int) bool {
		return strings.EqualFold(user.Role, role)
	}
}

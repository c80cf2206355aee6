package app

import (
	"context"
	"fmt"
	"strings"

	"tourix/internal/domain"
)

type UserService struct {
	users domain.UserRepository
}

func NewUserService(u domain.UserRepository) *UserService {
	return &UserService{users: u}
}

func (s *UserService) Me(ctx context.Context, id string) (domain.User, error) {
	return s.users.GetUser(ctx, id)
}

// RecordSearchedCity stores a destination the user searched for. The list is
// newest-first and de-duplicated; trimming to the last three is left to the
// client, matching the upstream behavior.
func (s *UserService) RecordSearchedCity(ctx context.Context, id, city string) error {
	city = strings.TrimSpace(city)
	if city == "" {
		return fmt.Errorf("%w: city is required", domain.ErrValidation)
	}
	return s.users.AddSearchedCity(ctx, id, city)
}

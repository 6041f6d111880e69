package service

import (
	"context"

	"github.com/Astemirdum/library-management/library/internal/model"
	"github.com/Astemirdum/library-management/pkg/auth"
)

// ListStudents feeds the admin user table.
func (s *Service) ListStudents(ctx context.Context) ([]model.UserListItem, error) {
	users, err := s.repo.ListUsers(ctx, auth.RoleStudent)
	if err != nil {
		return nil, err
	}
	now := s.now()
	items := make([]model.UserListItem, 0, len(users))
	for _, u := range users {
		items = append(items, u.ListItem(now))
	}
	return items, nil
}

func (s *Service) CreateUser(ctx context.Context, req model.CreateUserRequest) (model.User, error) {
	hash, err := HashPassword(req.Password)
	if err != nil {
		return model.User{}, err
	}
	return s.repo.CreateUser(ctx, model.NewUser{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         req.Role,
	})
}

func (s *Service) GetUser(ctx context.Context, id int) (model.User, error) {
	return s.repo.GetUser(ctx, id)
}

func (s *Service) UpdateUser(ctx context.Context, id int, req model.UpdateUserRequest) (model.User, error) {
	return s.repo.UpdateUser(ctx, id, req)
}

func (s *Service) DeleteUser(ctx context.Context, id int) error {
	return s.repo.DeleteUser(ctx, id)
}

package attendance

import (
	"context"
	"errors"
	"fmt"

	"classtrack/internal/model"
)

// Roster management: users and sections are seeded or created via the
// management endpoints and persist indefinitely.

// CreateFaculty registers a new faculty user with a caller-supplied id.
func (s *Service) CreateFaculty(ctx context.Context, id, name string) (model.User, error) {
	if id == "" || name == "" {
		return model.User{}, errors.New("id and name required")
	}
	u := model.User{ID: id, Name: name, Role: model.RoleFaculty}
	if err := s.repo.CreateUser(ctx, u); err != nil {
		if errors.Is(err, ErrDuplicateUser) {
			return model.User{}, err
		}
		return model.User{}, fmt.Errorf("create faculty: %w", err)
	}
	return u, nil
}

// DeleteFaculty removes a faculty user by id.
func (s *Service) DeleteFaculty(ctx context.Context, id string) error {
	u, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return fmt.Errorf("resolve faculty: %w", err)
	}
	if u == nil || u.Role != model.RoleFaculty {
		return ErrInvalidFaculty
	}
	deleted, err := s.repo.DeleteUser(ctx, id)
	if err != nil {
		if errors.Is(err, ErrUserReferenced) {
			return err
		}
		return fmt.Errorf("delete faculty: %w", err)
	}
	if !deleted {
		return ErrInvalidFaculty
	}
	return nil
}

// ListUsers returns all users.
func (s *Service) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.repo.ListUsers(ctx)
}

// ListFaculty returns faculty users only.
func (s *Service) ListFaculty(ctx context.Context) ([]model.User, error) {
	return s.repo.ListFaculty(ctx)
}

// ListSections returns all sections.
func (s *Service) ListSections(ctx context.Context) ([]model.Section, error) {
	return s.repo.ListSections(ctx)
}

// GetSession returns a session by id, or nil when absent. Used by the QR
// page handler.
func (s *Service) GetSession(ctx context.Context, id string) (*model.Session, error) {
	return s.repo.GetSession(ctx, id)
}

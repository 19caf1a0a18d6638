// Package admin implements the operations behind the key-guarded admin API:
// listing users and changing roles. Role grants never pass through the
// public registration flow.
package admin

import (
	"context"
	"errors"
	"strings"

	"github.com/clinicbook/clinicbook/internal/observability/logger"
	"github.com/clinicbook/clinicbook/internal/store/core"
	"github.com/clinicbook/clinicbook/internal/store/usercache"
)

var (
	ErrInvalidRole = errors.New("invalid role")
	ErrNotFound    = errors.New("user not found")
	ErrInternal    = errors.New("internal error")
)

// Service exposes the admin operations.
type Service interface {
	ListUsers(ctx context.Context, page int) ([]core.User, int, error)
	SetRole(ctx context.Context, userID, role string) (*core.User, error)
}

// Deps carries the service collaborators.
type Deps struct {
	Repo     core.Repository
	Users    *usercache.Reader
	PageSize int
}

type service struct {
	deps Deps
}

// New builds the admin service.
func New(deps Deps) Service {
	if deps.PageSize <= 0 {
		deps.PageSize = 20
	}
	return &service{deps: deps}
}

func (s *service) ListUsers(ctx context.Context, page int) ([]core.User, int, error) {
	if page < 1 {
		page = 1
	}
	list, total, err := s.deps.Repo.ListUsers(ctx, s.deps.PageSize, (page-1)*s.deps.PageSize)
	if err != nil {
		logger.From(ctx).Error("list users failed", logger.Err(err))
		return nil, 0, ErrInternal
	}
	return list, total, nil
}

func (s *service) SetRole(ctx context.Context, userID, role string) (*core.User, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("admin"),
		logger.Op("SetRole"),
		logger.UserID(userID),
	)

	r := core.Role(strings.TrimSpace(strings.ToLower(role)))
	if !core.ValidRole(r) {
		return nil, ErrInvalidRole
	}

	if err := s.deps.Repo.UpdateUserRole(ctx, userID, r); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, ErrNotFound
		}
		log.Error("role update failed", logger.Err(err))
		return nil, ErrInternal
	}

	// Tokens already issued keep their old role claim until expiry; the
	// cached record must not.
	if s.deps.Users != nil {
		s.deps.Users.Invalidate(userID)
	}

	u, err := s.deps.Repo.GetUserByID(ctx, userID)
	if err != nil {
		log.Error("reload after role update failed", logger.Err(err))
		return nil, ErrInternal
	}

	log.Info("role updated", logger.Role(string(r)))
	return u, nil
}

package adapters

import (
	"context"
	"errors"

	"prooflayer/internal/admin"
	authModels "prooflayer/internal/auth/models"
	id "prooflayer/pkg/domain"
	dErrors "prooflayer/pkg/domain-errors"
	"prooflayer/pkg/platform/sentinel"
)

// AuthUserStore is the part of the auth user store admin reads.
type AuthUserStore interface {
	FindByID(ctx context.Context, userID id.UserID) (*authModels.User, error)
}

// UserStoreAdapter adapts an auth user store to admin's UserStore interface.
type UserStoreAdapter struct {
	store AuthUserStore
}

func NewUserStoreAdapter(store AuthUserStore) *UserStoreAdapter {
	return &UserStoreAdapter{store: store}
}

// FindByID returns the account or a not-found domain error.
func (a *UserStoreAdapter) FindByID(ctx context.Context, userID id.UserID) (*admin.User, error) {
	u, err := a.store.FindByID(ctx, userID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "user not found")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load user")
	}
	return mapUser(u), nil
}

func mapUser(u *authModels.User) *admin.User {
	return &admin.User{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		CreatedAt: u.CreatedAt,
	}
}

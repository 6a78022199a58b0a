package services

import (
	"context"
	"errors"
	"strings"

	"github.com/Ananth-NQI/hotelluxe-backend/internal/models"
	"github.com/Ananth-NQI/hotelluxe-backend/internal/storage"
)

// ProfileService reads and edits a user's own profile.
type ProfileService struct {
	store storage.Store
}

func NewProfileService(store storage.Store) *ProfileService {
	return &ProfileService{store: store}
}

func (p *ProfileService) GetProfile(ctx context.Context, userID uint) (*models.User, error) {
	user, err := p.store.GetUser(ctx, userID)
	if err != nil {
		return nil, mapStoreError(err, ErrUserNotFound)
	}
	return user, nil
}

// UpdateProfile changes the name and email. An empty email clears it.
func (p *ProfileService) UpdateProfile(ctx context.Context, userID uint, fullName, email string) (*models.User, error) {
	fullName = strings.TrimSpace(fullName)
	email = strings.ToLower(strings.TrimSpace(email))
	if fullName == "" {
		return nil, validationError("Full name is required")
	}
	if email != "" && !strings.Contains(email, "@") {
		return nil, validationError("Invalid email address")
	}

	user, err := p.store.GetUser(ctx, userID)
	if err != nil {
		return nil, mapStoreError(err, ErrUserNotFound)
	}

	if email != "" && email != user.EmailAddress() {
		other, err := p.store.GetUserByEmail(ctx, email)
		switch {
		case err == nil && other.ID != user.ID:
			return nil, validationError("Email already in use")
		case err != nil && !errors.Is(err, storage.ErrRecordNotFound):
			return nil, err
		}
	}

	user.FullName = fullName
	if email == "" {
		user.Email = nil
	} else {
		user.Email = &email
	}
	if err := p.store.UpdateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return nil, validationError("Email already in use")
		}
		return nil, err
	}
	return user, nil
}

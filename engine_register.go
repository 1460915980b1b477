package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Register validates the form, checks username/email uniqueness, uploads
// the avatar (and optional cover image), and creates the user with a
// hashed password. The returned view never carries the password hash or
// refresh token.
//
// A failure after the avatar upload but before record creation leaves an
// orphaned object in storage; there is no transactional cleanup.
func (e *Engine) Register(ctx context.Context, in RegisterInput) (*PublicUser, error) {
	if e == nil || e.store == nil {
		return nil, ErrEngineNotReady
	}

	fullname := strings.TrimSpace(in.Fullname)
	email := strings.TrimSpace(in.Email)
	username := strings.ToLower(strings.TrimSpace(in.Username))
	if fullname == "" || email == "" || username == "" || in.Password == "" {
		return nil, ErrFieldsRequired
	}

	existing, err := e.store.FindByIdentifier(ctx, username, email)
	switch {
	case err == nil && existing != nil:
		return nil, ErrAccountExists
	case err != nil && !errors.Is(err, ErrUserNotFound):
		return nil, fmt.Errorf("uniqueness check: %w", err)
	}

	if in.Avatar == nil {
		return nil, ErrAvatarRequired
	}

	hash, err := e.passwords.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFieldsRequired, err)
	}

	avatarURL, err := e.uploader.Upload(ctx, in.Avatar)
	if err != nil || avatarURL == "" {
		if err != nil {
			warnf("accounts: avatar upload failed: %v", err)
		}
		return nil, ErrAvatarRequired
	}

	coverURL := ""
	if in.CoverImage != nil {
		coverURL, err = e.uploader.Upload(ctx, in.CoverImage)
		if err != nil {
			// The cover image is optional; a failed upload degrades to an
			// absent cover rather than failing the registration.
			warnf("accounts: cover image upload failed: %v", err)
			coverURL = ""
		}
	}

	now := time.Now().UTC()
	u := &User{
		ID:            uuid.NewString(),
		Username:      username,
		Email:         email,
		Fullname:      fullname,
		PasswordHash:  hash,
		AvatarURL:     avatarURL,
		CoverImageURL: coverURL,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := e.store.Insert(ctx, u); err != nil {
		if errors.Is(err, ErrAccountExists) {
			return nil, ErrAccountExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	created, err := e.store.FindByID(ctx, u.ID)
	if err != nil {
		return nil, fmt.Errorf("read back created user: %w", err)
	}
	pub := created.Public()
	return &pub, nil
}

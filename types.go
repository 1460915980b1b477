package accounts

import (
	"context"
	"io"
	"time"
)

// User is the stored account record. PasswordHash and RefreshToken never
// leave the engine; callers receive [PublicUser] views instead.
type User struct {
	ID            string
	Username      string
	Email         string
	Fullname      string
	PasswordHash  string
	AvatarURL     string
	CoverImageURL string
	RefreshToken  string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Public returns the sanitized view of the user. The credential fields are
// not present on the returned type at all, so no serialization path can
// leak them.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:            u.ID,
		Username:      u.Username,
		Email:         u.Email,
		Fullname:      u.Fullname,
		AvatarURL:     u.AvatarURL,
		CoverImageURL: u.CoverImageURL,
		CreatedAt:     u.CreatedAt,
	}
}

// PublicUser is the sanitized user view returned by Register and Login.
type PublicUser struct {
	ID            string    `json:"id"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	Fullname      string    `json:"fullname"`
	AvatarURL     string    `json:"avatar"`
	CoverImageURL string    `json:"coverImage,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// TokenPair carries one issued access/refresh token pair.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// LoginResult is returned by [Engine.Login].
type LoginResult struct {
	User   PublicUser
	Tokens TokenPair
}

// FileUpload is one inbound multipart file. Reader is consumed exactly once
// by the uploader.
type FileUpload struct {
	Name        string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// RegisterInput carries the registration form. Avatar is mandatory;
// CoverImage may be nil.
type RegisterInput struct {
	Fullname   string
	Email      string
	Username   string
	Password   string
	Avatar     *FileUpload
	CoverImage *FileUpload
}

// Store is the credential-store interface the engine persists users
// through. Lookups that match no user return [ErrUserNotFound].
//
// SetRefreshToken and ClearRefreshToken update only the refresh-token
// field (and UpdatedAt); implementations must not re-validate or rewrite
// the rest of the document on that path.
type Store interface {
	FindByIdentifier(ctx context.Context, username, email string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	Insert(ctx context.Context, u *User) error
	SetRefreshToken(ctx context.Context, userID, token string) error
	ClearRefreshToken(ctx context.Context, userID string) error
}

// Uploader stores one file in object storage and returns its public URL.
// An empty URL with a nil error is treated by the engine as a failed
// upload.
type Uploader interface {
	Upload(ctx context.Context, f *FileUpload) (string, error)
}

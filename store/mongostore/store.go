// Package mongostore implements the accounts credential store on MongoDB.
// Users live in one collection with unique indexes on username and email;
// the refresh-token writes touch only that field so a token rotation never
// re-validates the rest of the document.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/cliptube/accounts"
)

const usersCollection = "users"

// Connect dials MongoDB and verifies the connection with a ping.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return client, nil
}

type userDoc struct {
	ID           string    `bson:"_id"`
	Username     string    `bson:"username"`
	Email        string    `bson:"email"`
	Fullname     string    `bson:"fullname"`
	Password     string    `bson:"password"`
	Avatar       string    `bson:"avatar"`
	CoverImage   string    `bson:"coverImage,omitempty"`
	RefreshToken string    `bson:"refreshToken,omitempty"`
	CreatedAt    time.Time `bson:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt"`
}

func (d *userDoc) toUser() *accounts.User {
	return &accounts.User{
		ID:            d.ID,
		Username:      d.Username,
		Email:         d.Email,
		Fullname:      d.Fullname,
		PasswordHash:  d.Password,
		AvatarURL:     d.Avatar,
		CoverImageURL: d.CoverImage,
		RefreshToken:  d.RefreshToken,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

// Store implements accounts.Store on a MongoDB database.
type Store struct {
	users *mongo.Collection
}

// New returns a Store over db's users collection.
func New(db *mongo.Database) *Store {
	return &Store{users: db.Collection(usersCollection)}
}

// EnsureIndexes creates the unique username and email indexes. Call once
// at startup.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)
	_, err := s.users.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: unique},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
	})
	if err != nil {
		return fmt.Errorf("create user indexes: %w", err)
	}
	return nil
}

// FindByIdentifier looks a user up by username or email; either may be
// empty. No match reports accounts.ErrUserNotFound.
func (s *Store) FindByIdentifier(ctx context.Context, username, email string) (*accounts.User, error) {
	var or []bson.M
	if username != "" {
		or = append(or, bson.M{"username": username})
	}
	if email != "" {
		or = append(or, bson.M{"email": email})
	}
	if len(or) == 0 {
		return nil, accounts.ErrUserNotFound
	}
	return s.findOne(ctx, bson.M{"$or": or})
}

// FindByID looks a user up by id. No match reports accounts.ErrUserNotFound.
func (s *Store) FindByID(ctx context.Context, id string) (*accounts.User, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

func (s *Store) findOne(ctx context.Context, filter bson.M) (*accounts.User, error) {
	var doc userDoc
	err := s.users.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, accounts.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return doc.toUser(), nil
}

// Insert stores a new user. Unique-index violations report
// accounts.ErrAccountExists so a registration race maps to the same
// conflict as the pre-insert uniqueness check.
func (s *Store) Insert(ctx context.Context, u *accounts.User) error {
	doc := userDoc{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		Fullname:     u.Fullname,
		Password:     u.PasswordHash,
		Avatar:       u.AvatarURL,
		CoverImage:   u.CoverImageURL,
		RefreshToken: u.RefreshToken,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
	_, err := s.users.InsertOne(ctx, doc)
	if mongo.IsDuplicateKeyError(err) {
		return accounts.ErrAccountExists
	}
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// SetRefreshToken overwrites the stored refresh token for the user.
func (s *Store) SetRefreshToken(ctx context.Context, userID, token string) error {
	res, err := s.users.UpdateByID(ctx, userID, bson.M{
		"$set": bson.M{"refreshToken": token, "updatedAt": time.Now().UTC()},
	})
	if err != nil {
		return fmt.Errorf("set refresh token: %w", err)
	}
	if res.MatchedCount == 0 {
		return accounts.ErrUserNotFound
	}
	return nil
}

// ClearRefreshToken removes the stored refresh token for the user.
func (s *Store) ClearRefreshToken(ctx context.Context, userID string) error {
	res, err := s.users.UpdateByID(ctx, userID, bson.M{
		"$unset": bson.M{"refreshToken": ""},
		"$set":   bson.M{"updatedAt": time.Now().UTC()},
	})
	if err != nil {
		return fmt.Errorf("clear refresh token: %w", err)
	}
	if res.MatchedCount == 0 {
		return accounts.ErrUserNotFound
	}
	return nil
}

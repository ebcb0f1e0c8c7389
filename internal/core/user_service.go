package core

import (
	"errors"
	"fmt"
	"net/url"

	"cramdeck.app/backend/internal/auth"
	"cramdeck.app/backend/internal/logger"
	"cramdeck.app/backend/internal/store"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

type UserService struct {
	store *store.FileStore
	log   *logger.Logger
}

func NewUserService(st *store.FileStore, log *logger.Logger) *UserService {
	return &UserService{store: st, log: log.With("service", "UserService")}
}

// Register creates a user with a hashed password. An empty profile picture
// gets a deterministic placeholder derived from the username.
func (s *UserService) Register(username, email, password, profilePicture string) (*store.User, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	if profilePicture == "" {
		profilePicture = "https://api.dicebear.com/9.x/initials/svg?seed=" + url.QueryEscape(username)
	}
	user, err := s.store.CreateUser(username, email, hash, profilePicture)
	if err != nil {
		return nil, err
	}
	s.log.Info("user registered", "user_id", user.ID, "username", username)
	return user, nil
}

// Login checks credentials. A missing user and a wrong password are the
// same failure to the caller.
func (s *UserService) Login(username, password string) (*store.User, error) {
	user, err := s.store.GetUserByUsername(username)
	if err != nil {
		return nil, err
	}
	if user == nil || !auth.CheckPasswordHash(password, user.Password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

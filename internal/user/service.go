package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"cnadmin/internal/auth"
	"cnadmin/internal/enums"
	"cnadmin/internal/utils"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserDisabled       = errors.New("user is disabled")
	ErrUsernameTaken      = errors.New("username already exists")
)

type UserService struct {
	repo UserRepositoryInterface
	db   *sql.DB
}

type UserServiceInterface interface {
	CreateUser(ctx context.Context, username, nickname, password string) (int64, error)
	ResetPassword(ctx context.Context, username, password string) error
	Authenticate(username, password string) (*User, error)
	GetUserByID(id int64) (*User, error)
}

func NewUserService(repo UserRepositoryInterface, db *sql.DB) UserServiceInterface {
	return &UserService{
		repo: repo,
		db:   db,
	}
}

// CreateUser creates an enabled user with a hashed password
func (s *UserService) CreateUser(ctx context.Context, username, nickname, password string) (int64, error) {
	existing, err := s.repo.GetByUsername(s.db, username)
	if err == nil && existing != nil {
		return 0, ErrUsernameTaken
	}
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return 0, err
	}

	hashedPassword, err := auth.GeneratePasswordHash(password)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}

	user := &User{
		Username: username,
		Nickname: nickname,
		Password: hashedPassword,
		Status:   enums.StatusEnable,
	}

	var id int64
	err = utils.WithTransaction(ctx, s.db, func(tx *sql.Tx) error {
		id, err = s.repo.Create(tx, user)
		return err
	})
	return id, err
}

func (s *UserService) ResetPassword(ctx context.Context, username, password string) error {
	user, err := s.repo.GetByUsername(s.db, username)
	if err != nil {
		return err
	}

	hashedPassword, err := auth.GeneratePasswordHash(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	return utils.WithTransaction(ctx, s.db, func(tx *sql.Tx) error {
		return s.repo.UpdatePassword(tx, user.UserID, hashedPassword)
	})
}

// Authenticate checks the credentials and returns the matching enabled user
func (s *UserService) Authenticate(username, password string) (*User, error) {
	user, err := s.repo.GetByUsername(s.db, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := auth.ComparePasswordHash([]byte(user.Password), password); err != nil {
		return nil, ErrInvalidCredentials
	}

	if user.Status != enums.StatusEnable {
		return user, ErrUserDisabled
	}

	return user, nil
}

func (s *UserService) GetUserByID(id int64) (*User, error) {
	return s.repo.GetByID(s.db, id)
}

package user

import (
	"database/sql"
	"errors"

	"github.com/sirupsen/logrus"
)

var ErrUserNotFound = errors.New("user not found")

type UserRepository struct{}

type UserRepositoryInterface interface {
	Create(tx *sql.Tx, user *User) (int64, error)
	GetByID(db *sql.DB, id int64) (*User, error)
	GetByUsername(db *sql.DB, username string) (*User, error)
	UpdatePassword(tx *sql.Tx, id int64, hashedPassword string) error
}

func NewUserRepository() UserRepositoryInterface {
	return &UserRepository{}
}

const selectUser = `
	SELECT user_id, username, nickname, password, status, create_time
	FROM sys_user
`

func scanUser(row *sql.Row) (*User, error) {
	user := &User{}
	err := row.Scan(
		&user.UserID,
		&user.Username,
		&user.Nickname,
		&user.Password,
		&user.Status,
		&user.CreateTime,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Create inserts a user whose password is already hashed
func (r *UserRepository) Create(tx *sql.Tx, user *User) (int64, error) {
	query := `
		INSERT INTO sys_user (username, nickname, password, status, create_time)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING user_id
	`

	var id int64
	err := tx.QueryRow(
		query,
		user.Username,
		user.Nickname,
		user.Password,
		user.Status.Value(),
	).Scan(&id)
	if err != nil {
		logrus.WithError(err).Error("Failed to create user")
		return 0, err
	}

	logrus.WithFields(logrus.Fields{
		"user_id":  id,
		"username": user.Username,
	}).Info("User created successfully")

	return id, nil
}

func (r *UserRepository) GetByID(db *sql.DB, id int64) (*User, error) {
	user, err := scanUser(db.QueryRow(selectUser+` WHERE user_id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		logrus.WithError(err).Error("Failed to get user by ID")
		return nil, err
	}
	return user, nil
}

func (r *UserRepository) GetByUsername(db *sql.DB, username string) (*User, error) {
	user, err := scanUser(db.QueryRow(selectUser+` WHERE username = $1`, username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		logrus.WithError(err).Error("Failed to get user by username")
		return nil, err
	}
	return user, nil
}

func (r *UserRepository) UpdatePassword(tx *sql.Tx, id int64, hashedPassword string) error {
	result, err := tx.Exec(`UPDATE sys_user SET password = $1 WHERE user_id = $2`, hashedPassword, id)
	if err != nil {
		logrus.WithError(err).Error("Failed to update password")
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrUserNotFound
	}

	logrus.WithField("user_id", id).Info("Password updated successfully")
	return nil
}

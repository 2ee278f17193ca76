package loginlog

import (
	"context"
	"database/sql"

	"github.com/sirupsen/logrus"
)

// Publisher hands a message to the queue. *queue.Publisher satisfies it.
type Publisher interface {
	Publish(ctx context.Context, payload any) error
}

type LoginLogServiceInterface interface {
	Record(ctx context.Context, log *LoginLog)
	Page(query PageQuery) ([]*LoginLog, int64, error)
}

type LoginLogService struct {
	repo      LoginLogRepositoryInterface
	db        *sql.DB
	publisher Publisher
}

func NewLoginLogService(repo LoginLogRepositoryInterface, db *sql.DB, publisher Publisher) LoginLogServiceInterface {
	return &LoginLogService{
		repo:      repo,
		db:        db,
		publisher: publisher,
	}
}

// Record queues a login attempt for the worker. A failing queue never fails the login.
func (s *LoginLogService) Record(ctx context.Context, log *LoginLog) {
	if err := s.publisher.Publish(ctx, log); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"username": log.Username,
			"status":   log.Status,
		}).Warn("Failed to queue login log")
	}
}

func (s *LoginLogService) Page(query PageQuery) ([]*LoginLog, int64, error) {
	query.normalize()
	return s.repo.Page(s.db, query)
}

package worker

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"cnadmin/internal/loginlog"
	"cnadmin/internal/utils"

	"github.com/sirupsen/logrus"
)

// errBadPayload marks messages that can never be stored and should not be retried.
type errBadPayload struct {
	err error
}

func (e errBadPayload) Error() string { return "invalid payload: " + e.err.Error() }
func (e errBadPayload) Unwrap() error { return e.err }

func decodeLoginLog(body []byte) (*loginlog.LoginLog, error) {
	var entry loginlog.LoginLog
	if err := json.Unmarshal(body, &entry); err != nil {
		return nil, errBadPayload{err}
	}
	if entry.Username == "" {
		return nil, errBadPayload{fmt.Errorf("username is empty")}
	}
	if entry.CreateTime.IsZero() {
		entry.CreateTime = time.Now()
	}
	return &entry, nil
}

func storeLoginLog(ctx context.Context, db *sql.DB, repo loginlog.LoginLogRepositoryInterface, entry *loginlog.LoginLog, workerID int) error {
	return utils.WithTransaction(ctx, db, func(tx *sql.Tx) error {
		id, err := repo.Create(tx, entry)
		if err != nil {
			return err
		}
		logrus.WithFields(logrus.Fields{
			"worker":   workerID,
			"log_id":   id,
			"username": entry.Username,
			"status":   entry.Status.Description(),
		}).Info("Login log stored")
		return nil
	})
}

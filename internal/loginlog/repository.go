package loginlog

import (
	"database/sql"
	"fmt"
	"strings"

	"cnadmin/internal/model"

	"github.com/sirupsen/logrus"
)

type LoginLogRepository struct{}

type LoginLogRepositoryInterface interface {
	Create(tx *sql.Tx, log *LoginLog) (int64, error)
	Page(db *sql.DB, query PageQuery) ([]*LoginLog, int64, error)
}

func NewLoginLogRepository() LoginLogRepositoryInterface {
	return &LoginLogRepository{}
}

func (r *LoginLogRepository) Create(tx *sql.Tx, log *LoginLog) (int64, error) {
	query := `
		INSERT INTO sys_log (
			user_id, username, client_ip, location, browser,
			status, description, create_time
		)
		VALUES (NULLIF($1::bigint, 0), $2, $3, $4, $5, $6, $7, $8)
		RETURNING log_id
	`

	var id int64
	err := tx.QueryRow(
		query,
		log.UserID,
		log.Username,
		log.ClientIP,
		log.Location,
		log.Browser,
		log.Status.Value(),
		log.Description,
		log.CreateTime,
	).Scan(&id)
	if err != nil {
		logrus.WithError(err).Error("Failed to insert login log")
		return 0, err
	}

	return id, nil
}

func (r *LoginLogRepository) Page(db *sql.DB, query PageQuery) ([]*LoginLog, int64, error) {
	var (
		conds []string
		args  []any
	)
	if query.Username != "" {
		args = append(args, model.ContainsPattern(query.Username))
		conds = append(conds, fmt.Sprintf("username LIKE $%d", len(args)))
	}
	if query.Status != 0 {
		args = append(args, query.Status.Value())
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int64
	if err := db.QueryRow("SELECT COUNT(*) FROM sys_log"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, query.Size, query.offset())
	rows, err := db.Query(fmt.Sprintf(`
		SELECT log_id, COALESCE(user_id, 0), username, client_ip, location, browser,
		       status, description, create_time
		FROM sys_log%s
		ORDER BY create_time DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)-1, len(args)), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	logs := []*LoginLog{}
	for rows.Next() {
		var l LoginLog
		if err := rows.Scan(
			&l.LogID,
			&l.UserID,
			&l.Username,
			&l.ClientIP,
			&l.Location,
			&l.Browser,
			&l.Status,
			&l.Description,
			&l.CreateTime,
		); err != nil {
			return nil, 0, err
		}
		logs = append(logs, &l)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return logs, total, nil
}

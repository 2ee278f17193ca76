package role

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"cnadmin/internal/model"

	"github.com/sirupsen/logrus"
)

var ErrRoleNotFound = errors.New("role not found")

type RoleRepository struct{}

type RoleRepositoryInterface interface {
	List(db *sql.DB, query ListQuery) ([]*Role, error)
	GetByID(db *sql.DB, id int64) (*Role, error)
	ListDeptIDs(db *sql.DB, roleID int64) ([]int64, error)
	ExistsByName(db *sql.DB, name string, excludeID int64) (bool, error)
	Create(tx *sql.Tx, role *Role) (int64, error)
	Update(tx *sql.Tx, role *Role) error
	Delete(tx *sql.Tx, id int64) error
	ReplaceDepts(tx *sql.Tx, roleID int64, deptIDs []int64) error
}

func NewRoleRepository() RoleRepositoryInterface {
	return &RoleRepository{}
}

var selectRole = `
	SELECT r.role_id, r.role_name, r.role_code, r.data_scope, r.description, r.role_sort, r.status,
	       ` + model.AuditColumns("r") + `
	FROM sys_role r
	` + model.AuditJoins("r")

type scanner interface {
	Scan(dest ...any) error
}

func scanRole(row scanner) (*Role, error) {
	role := &Role{}
	dest := append([]any{
		&role.RoleID,
		&role.RoleName,
		&role.RoleCode,
		&role.DataScope,
		&role.Description,
		&role.RoleSort,
		&role.Status,
	}, role.Audit.Targets()...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return role, nil
}

func (r *RoleRepository) List(db *sql.DB, query ListQuery) ([]*Role, error) {
	var (
		conds []string
		args  []any
	)
	if query.RoleName != "" {
		args = append(args, model.ContainsPattern(query.RoleName))
		conds = append(conds, fmt.Sprintf("r.role_name LIKE $%d", len(args)))
	}
	if query.Status != 0 {
		args = append(args, query.Status.Value())
		conds = append(conds, fmt.Sprintf("r.status = $%d", len(args)))
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	rows, err := db.Query(selectRole+where+" ORDER BY r.role_sort, r.role_id", args...)
	if err != nil {
		logrus.WithError(err).Error("Failed to list roles")
		return nil, err
	}
	defer rows.Close()

	roles := []*Role{}
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

func (r *RoleRepository) GetByID(db *sql.DB, id int64) (*Role, error) {
	role, err := scanRole(db.QueryRow(selectRole+" WHERE r.role_id = $1", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoleNotFound
		}
		logrus.WithError(err).WithField("role_id", id).Error("Failed to get role")
		return nil, err
	}
	return role, nil
}

func (r *RoleRepository) ListDeptIDs(db *sql.DB, roleID int64) ([]int64, error) {
	rows, err := db.Query(`SELECT dept_id FROM sys_role_dept WHERE role_id = $1 ORDER BY dept_id`, roleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *RoleRepository) ExistsByName(db *sql.DB, name string, excludeID int64) (bool, error) {
	var exists bool
	err := db.QueryRow(
		`SELECT EXISTS (SELECT 1 FROM sys_role WHERE role_name = $1 AND role_id <> $2)`,
		name, excludeID,
	).Scan(&exists)
	return exists, err
}

func (r *RoleRepository) Create(tx *sql.Tx, role *Role) (int64, error) {
	query := `
		INSERT INTO sys_role (
			role_name, role_code, data_scope, description, role_sort, status,
			create_user, create_time, update_user, update_time
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), $7, NOW())
		RETURNING role_id
	`

	var id int64
	err := tx.QueryRow(
		query,
		role.RoleName,
		role.RoleCode,
		role.DataScope.Value(),
		role.Description,
		role.RoleSort,
		role.Status.Value(),
		role.CreateUser,
	).Scan(&id)
	if err != nil {
		logrus.WithError(err).Error("Failed to create role")
		return 0, err
	}

	logrus.WithFields(logrus.Fields{
		"role_id":   id,
		"role_name": role.RoleName,
	}).Info("Role created successfully")

	return id, nil
}

func (r *RoleRepository) Update(tx *sql.Tx, role *Role) error {
	result, err := tx.Exec(`
		UPDATE sys_role
		SET role_name = $1, role_code = $2, data_scope = $3, description = $4,
		    role_sort = $5, status = $6, update_user = $7, update_time = NOW()
		WHERE role_id = $8
	`,
		role.RoleName,
		role.RoleCode,
		role.DataScope.Value(),
		role.Description,
		role.RoleSort,
		role.Status.Value(),
		role.UpdateUser,
		role.RoleID,
	)
	if err != nil {
		logrus.WithError(err).WithField("role_id", role.RoleID).Error("Failed to update role")
		return err
	}
	return requireAffected(result)
}

// Delete removes the role. sys_role_dept rows go with it by cascade.
func (r *RoleRepository) Delete(tx *sql.Tx, id int64) error {
	result, err := tx.Exec(`DELETE FROM sys_role WHERE role_id = $1`, id)
	if err != nil {
		logrus.WithError(err).WithField("role_id", id).Error("Failed to delete role")
		return err
	}
	return requireAffected(result)
}

func (r *RoleRepository) ReplaceDepts(tx *sql.Tx, roleID int64, deptIDs []int64) error {
	if _, err := tx.Exec(`DELETE FROM sys_role_dept WHERE role_id = $1`, roleID); err != nil {
		return err
	}
	for _, deptID := range deptIDs {
		if _, err := tx.Exec(
			`INSERT INTO sys_role_dept (role_id, dept_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			roleID, deptID,
		); err != nil {
			return fmt.Errorf("link dept %d: %w", deptID, err)
		}
	}
	return nil
}

func requireAffected(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrRoleNotFound
	}
	return nil
}

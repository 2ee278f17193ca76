package dept

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"cnadmin/internal/model"

	"github.com/sirupsen/logrus"
)

var ErrDeptNotFound = errors.New("dept not found")

type DeptRepository struct{}

type DeptRepositoryInterface interface {
	List(db *sql.DB, query ListQuery) ([]*DeptDetail, error)
	GetByID(db *sql.DB, id int64) (*DeptDetail, error)
	ExistsByName(db *sql.DB, name string, parentID, excludeID int64) (bool, error)
	HasChildren(db *sql.DB, id int64) (bool, error)
	IsDescendant(db *sql.DB, ancestorID, id int64) (bool, error)
	Create(tx *sql.Tx, dept *DeptDetail) (int64, error)
	Update(tx *sql.Tx, dept *DeptDetail) error
	Delete(tx *sql.Tx, id int64) error
}

func NewDeptRepository() DeptRepositoryInterface {
	return &DeptRepository{}
}

var selectDept = `
	SELECT d.dept_id, d.dept_name, d.parent_id, d.description, d.dept_sort, d.status,
	       COALESCE(p.dept_name, ''), ` + model.AuditColumns("d") + `
	FROM sys_dept d
	LEFT JOIN sys_dept p ON p.dept_id = d.parent_id
	` + model.AuditJoins("d")

type scanner interface {
	Scan(dest ...any) error
}

func scanDept(row scanner) (*DeptDetail, error) {
	d := &DeptDetail{}
	dest := append([]any{
		&d.DeptID,
		&d.DeptName,
		&d.ParentID,
		&d.Description,
		&d.DeptSort,
		&d.Status,
		&d.ParentName,
	}, d.Audit.Targets()...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return d, nil
}

func (r *DeptRepository) List(db *sql.DB, query ListQuery) ([]*DeptDetail, error) {
	var (
		conds []string
		args  []any
	)
	if query.DeptName != "" {
		args = append(args, model.ContainsPattern(query.DeptName))
		conds = append(conds, fmt.Sprintf("d.dept_name LIKE $%d", len(args)))
	}
	if query.Status != 0 {
		args = append(args, query.Status.Value())
		conds = append(conds, fmt.Sprintf("d.status = $%d", len(args)))
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	rows, err := db.Query(selectDept+where+" ORDER BY d.parent_id, d.dept_sort, d.dept_id", args...)
	if err != nil {
		logrus.WithError(err).Error("Failed to list depts")
		return nil, err
	}
	defer rows.Close()

	depts := []*DeptDetail{}
	for rows.Next() {
		d, err := scanDept(rows)
		if err != nil {
			return nil, err
		}
		depts = append(depts, d)
	}
	return depts, rows.Err()
}

func (r *DeptRepository) GetByID(db *sql.DB, id int64) (*DeptDetail, error) {
	d, err := scanDept(db.QueryRow(selectDept+" WHERE d.dept_id = $1", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDeptNotFound
		}
		logrus.WithError(err).WithField("dept_id", id).Error("Failed to get dept")
		return nil, err
	}
	return d, nil
}

func (r *DeptRepository) ExistsByName(db *sql.DB, name string, parentID, excludeID int64) (bool, error) {
	var exists bool
	err := db.QueryRow(`
		SELECT EXISTS (
			SELECT 1 FROM sys_dept WHERE dept_name = $1 AND parent_id = $2 AND dept_id <> $3
		)`,
		name, parentID, excludeID,
	).Scan(&exists)
	return exists, err
}

func (r *DeptRepository) HasChildren(db *sql.DB, id int64) (bool, error) {
	var exists bool
	err := db.QueryRow(`SELECT EXISTS (SELECT 1 FROM sys_dept WHERE parent_id = $1)`, id).Scan(&exists)
	return exists, err
}

// IsDescendant reports whether id sits anywhere below ancestorID.
func (r *DeptRepository) IsDescendant(db *sql.DB, ancestorID, id int64) (bool, error) {
	var exists bool
	err := db.QueryRow(`
		WITH RECURSIVE sub AS (
			SELECT dept_id FROM sys_dept WHERE parent_id = $1
			UNION ALL
			SELECT d.dept_id FROM sys_dept d JOIN sub ON d.parent_id = sub.dept_id
		)
		SELECT EXISTS (SELECT 1 FROM sub WHERE dept_id = $2)`,
		ancestorID, id,
	).Scan(&exists)
	return exists, err
}

func (r *DeptRepository) Create(tx *sql.Tx, dept *DeptDetail) (int64, error) {
	query := `
		INSERT INTO sys_dept (
			dept_name, parent_id, description, dept_sort, status,
			create_user, create_time, update_user, update_time
		)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), $6, NOW())
		RETURNING dept_id
	`

	var id int64
	err := tx.QueryRow(
		query,
		dept.DeptName,
		dept.ParentID,
		dept.Description,
		dept.DeptSort,
		dept.Status.Value(),
		dept.CreateUser,
	).Scan(&id)
	if err != nil {
		logrus.WithError(err).Error("Failed to create dept")
		return 0, err
	}

	logrus.WithFields(logrus.Fields{
		"dept_id":   id,
		"dept_name": dept.DeptName,
	}).Info("Dept created successfully")

	return id, nil
}

func (r *DeptRepository) Update(tx *sql.Tx, dept *DeptDetail) error {
	result, err := tx.Exec(`
		UPDATE sys_dept
		SET dept_name = $1, parent_id = $2, description = $3, dept_sort = $4, status = $5,
		    update_user = $6, update_time = NOW()
		WHERE dept_id = $7
	`,
		dept.DeptName,
		dept.ParentID,
		dept.Description,
		dept.DeptSort,
		dept.Status.Value(),
		dept.UpdateUser,
		dept.DeptID,
	)
	if err != nil {
		logrus.WithError(err).WithField("dept_id", dept.DeptID).Error("Failed to update dept")
		return err
	}
	return requireAffected(result)
}

func (r *DeptRepository) Delete(tx *sql.Tx, id int64) error {
	result, err := tx.Exec(`DELETE FROM sys_dept WHERE dept_id = $1`, id)
	if err != nil {
		logrus.WithError(err).WithField("dept_id", id).Error("Failed to delete dept")
		return err
	}
	return requireAffected(result)
}

func requireAffected(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrDeptNotFound
	}
	return nil
}

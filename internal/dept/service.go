package dept

import (
	"context"
	"database/sql"
	"errors"
	"io"

	"cnadmin/internal/utils"
)

var (
	ErrDeptNameExists  = errors.New("dept name already exists under this parent")
	ErrParentNotFound  = errors.New("parent dept not found")
	ErrInvalidParent   = errors.New("a dept cannot be moved under itself")
	ErrDeptHasChildren = errors.New("dept has child depts")
)

type DeptService struct {
	repo DeptRepositoryInterface
	db   *sql.DB
}

type DeptServiceInterface interface {
	List(query ListQuery) ([]*DeptDetail, error)
	Get(id int64) (*DeptDetail, error)
	Create(ctx context.Context, req *DeptRequest, operator int64) (int64, error)
	Update(ctx context.Context, id int64, req *DeptRequest, operator int64) error
	Delete(ctx context.Context, ids []int64) error
	Export(query ListQuery, w io.Writer) error
}

func NewDeptService(repo DeptRepositoryInterface, db *sql.DB) DeptServiceInterface {
	return &DeptService{
		repo: repo,
		db:   db,
	}
}

func (s *DeptService) List(query ListQuery) ([]*DeptDetail, error) {
	return s.repo.List(s.db, query)
}

func (s *DeptService) Get(id int64) (*DeptDetail, error) {
	return s.repo.GetByID(s.db, id)
}

func (s *DeptService) Create(ctx context.Context, req *DeptRequest, operator int64) (int64, error) {
	if err := s.checkParent(req.ParentID, 0); err != nil {
		return 0, err
	}
	if err := s.checkName(req.DeptName, req.ParentID, 0); err != nil {
		return 0, err
	}

	dept := req.toDept()
	dept.CreateUser = operator

	var id int64
	err := utils.WithTransaction(ctx, s.db, func(tx *sql.Tx) error {
		var err error
		id, err = s.repo.Create(tx, dept)
		return err
	})
	return id, err
}

func (s *DeptService) Update(ctx context.Context, id int64, req *DeptRequest, operator int64) error {
	if err := s.checkParent(req.ParentID, id); err != nil {
		return err
	}
	if err := s.checkName(req.DeptName, req.ParentID, id); err != nil {
		return err
	}

	dept := req.toDept()
	dept.DeptID = id
	dept.UpdateUser = operator

	return utils.WithTransaction(ctx, s.db, func(tx *sql.Tx) error {
		return s.repo.Update(tx, dept)
	})
}

// Delete removes all depts or none. Depts with children are refused.
func (s *DeptService) Delete(ctx context.Context, ids []int64) error {
	for _, id := range ids {
		hasChildren, err := s.repo.HasChildren(s.db, id)
		if err != nil {
			return err
		}
		if hasChildren {
			return ErrDeptHasChildren
		}
	}

	return utils.WithTransaction(ctx, s.db, func(tx *sql.Tx) error {
		for _, id := range ids {
			if err := s.repo.Delete(tx, id); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *DeptService) Export(query ListQuery, w io.Writer) error {
	depts, err := s.repo.List(s.db, query)
	if err != nil {
		return err
	}
	return WriteExcel(w, depts)
}

// checkParent validates parentID for dept id (0 when creating).
func (s *DeptService) checkParent(parentID, id int64) error {
	if parentID == 0 {
		return nil
	}
	if parentID == id {
		return ErrInvalidParent
	}
	if _, err := s.repo.GetByID(s.db, parentID); err != nil {
		if errors.Is(err, ErrDeptNotFound) {
			return ErrParentNotFound
		}
		return err
	}
	if id == 0 {
		return nil
	}
	below, err := s.repo.IsDescendant(s.db, id, parentID)
	if err != nil {
		return err
	}
	if below {
		return ErrInvalidParent
	}
	return nil
}

func (s *DeptService) checkName(name string, parentID, excludeID int64) error {
	exists, err := s.repo.ExistsByName(s.db, name, parentID, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return ErrDeptNameExists
	}
	return nil
}

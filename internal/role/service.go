package role

import (
	"context"
	"database/sql"
	"errors"

	"cnadmin/internal/utils"
)

var ErrRoleNameExists = errors.New("role name already exists")

type RoleService struct {
	repo RoleRepositoryInterface
	db   *sql.DB
}

type RoleServiceInterface interface {
	List(query ListQuery) ([]*Role, error)
	Get(id int64) (*RoleDetail, error)
	Create(ctx context.Context, req *RoleRequest, operator int64) (int64, error)
	Update(ctx context.Context, id int64, req *RoleRequest, operator int64) error
	Delete(ctx context.Context, ids []int64) error
}

func NewRoleService(repo RoleRepositoryInterface, db *sql.DB) RoleServiceInterface {
	return &RoleService{
		repo: repo,
		db:   db,
	}
}

func (s *RoleService) List(query ListQuery) ([]*Role, error) {
	return s.repo.List(s.db, query)
}

func (s *RoleService) Get(id int64) (*RoleDetail, error) {
	role, err := s.repo.GetByID(s.db, id)
	if err != nil {
		return nil, err
	}
	deptIDs, err := s.repo.ListDeptIDs(s.db, id)
	if err != nil {
		return nil, err
	}
	return &RoleDetail{Role: *role, DataScopeDeptIDs: deptIDs}, nil
}

func (s *RoleService) Create(ctx context.Context, req *RoleRequest, operator int64) (int64, error) {
	if err := s.checkName(req.RoleName, 0); err != nil {
		return 0, err
	}

	role, deptIDs := req.toRole()
	role.CreateUser = operator

	var id int64
	err := utils.WithTransaction(ctx, s.db, func(tx *sql.Tx) error {
		var err error
		id, err = s.repo.Create(tx, role)
		if err != nil {
			return err
		}
		return s.repo.ReplaceDepts(tx, id, deptIDs)
	})
	return id, err
}

func (s *RoleService) Update(ctx context.Context, id int64, req *RoleRequest, operator int64) error {
	if err := s.checkName(req.RoleName, id); err != nil {
		return err
	}

	role, deptIDs := req.toRole()
	role.RoleID = id
	role.UpdateUser = operator

	return utils.WithTransaction(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.repo.Update(tx, role); err != nil {
			return err
		}
		return s.repo.ReplaceDepts(tx, id, deptIDs)
	})
}

// Delete removes all roles or none.
func (s *RoleService) Delete(ctx context.Context, ids []int64) error {
	return utils.WithTransaction(ctx, s.db, func(tx *sql.Tx) error {
		for _, id := range ids {
			if err := s.repo.Delete(tx, id); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *RoleService) checkName(name string, excludeID int64) error {
	exists, err := s.repo.ExistsByName(s.db, name, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return ErrRoleNameExists
	}
	return nil
}

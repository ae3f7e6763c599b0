package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	studentDatamodel "github.com/frahmantamala/school-admin/internal/core/datamodel/student"
	"github.com/frahmantamala/school-admin/internal/student"
)

type StudentRepository struct {
	db *gorm.DB
}

func NewStudentRepository(db *gorm.DB) student.RepositoryAPI {
	return &StudentRepository{db: db}
}

func (r *StudentRepository) GetAll(ctx context.Context) ([]*studentDatamodel.Alumno, error) {
	var rows []*studentDatamodel.Alumno
	err := r.db.WithContext(ctx).Order("id DESC").Find(&rows).Error
	return rows, err
}

func (r *StudentRepository) GetByID(ctx context.Context, id int64) (*studentDatamodel.Alumno, error) {
	var row studentDatamodel.Alumno
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *StudentRepository) Create(ctx context.Context, a *studentDatamodel.Alumno) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *StudentRepository) CreateMany(ctx context.Context, rows []*studentDatamodel.Alumno) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&rows).Error
	})
}

func (r *StudentRepository) Update(ctx context.Context, a *studentDatamodel.Alumno) error {
	return r.db.WithContext(ctx).Save(a).Error
}

func (r *StudentRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&studentDatamodel.Alumno{}, id).Error
}

func (r *StudentRepository) UpdateGroup(ctx context.Context, grupo string, exclude []int64, changes map[string]interface{}) (int64, error) {
	res := groupScope(r.db.WithContext(ctx).Model(&studentDatamodel.Alumno{}), grupo, exclude).Updates(changes)
	return res.RowsAffected, res.Error
}

func (r *StudentRepository) DeleteGroup(ctx context.Context, grupo string, exclude []int64) (int64, error) {
	res := groupScope(r.db.WithContext(ctx), grupo, exclude).Delete(&studentDatamodel.Alumno{})
	return res.RowsAffected, res.Error
}

func groupScope(db *gorm.DB, grupo string, exclude []int64) *gorm.DB {
	db = db.Where("grupo = ?", grupo)
	if len(exclude) > 0 {
		db = db.Where("id NOT IN ?", exclude)
	}
	return db
}

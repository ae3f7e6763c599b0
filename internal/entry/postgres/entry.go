package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	entryDatamodel "github.com/frahmantamala/school-admin/internal/core/datamodel/entry"
	"github.com/frahmantamala/school-admin/internal/entry"
)

type EntryRepository struct {
	db *gorm.DB
}

func NewEntryRepository(db *gorm.DB) entry.RepositoryAPI {
	return &EntryRepository{db: db}
}

func (r *EntryRepository) joined(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&entryDatamodel.EntradaSalida{}).
		Select("entradas_salidas.*, alumnos.nombre AS nombre_alumno").
		Joins("LEFT JOIN alumnos ON alumnos.id = entradas_salidas.alumno_id")
}

func (r *EntryRepository) List(ctx context.Context) ([]*entryDatamodel.EntradaSalidaRow, error) {
	var rows []*entryDatamodel.EntradaSalidaRow
	err := r.joined(ctx).Order("entradas_salidas.id DESC").Scan(&rows).Error
	return rows, err
}

func (r *EntryRepository) GetByID(ctx context.Context, id int64) (*entryDatamodel.EntradaSalidaRow, error) {
	var row entryDatamodel.EntradaSalidaRow
	err := r.joined(ctx).Where("entradas_salidas.id = ?", id).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *EntryRepository) Create(ctx context.Context, row *entryDatamodel.EntradaSalida) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *EntryRepository) Update(ctx context.Context, row *entryDatamodel.EntradaSalida) error {
	return r.db.WithContext(ctx).Save(row).Error
}

func (r *EntryRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&entryDatamodel.EntradaSalida{}, id).Error
}

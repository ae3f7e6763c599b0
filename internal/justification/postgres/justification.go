package postgres

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"
	"gorm.io/gorm"

	justificationDatamodel "github.com/frahmantamala/school-admin/internal/core/datamodel/justification"
	"github.com/frahmantamala/school-admin/internal/justification"
)

const joinedColumns = "justificantes.*, alumnos.nombre AS alumno_nombre, alumnos.turno AS turno"

type JustificationRepository struct {
	db *gorm.DB
}

func NewJustificationRepository(db *gorm.DB) justification.RepositoryAPI {
	return &JustificationRepository{db: db}
}

func (r *JustificationRepository) joined(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&justificationDatamodel.Justificante{}).
		Select(joinedColumns).
		Joins("LEFT JOIN alumnos ON alumnos.id = justificantes.alumno_id")
}

func (r *JustificationRepository) List(ctx context.Context) ([]*justificationDatamodel.JustificanteRow, error) {
	var rows []*justificationDatamodel.JustificanteRow
	err := r.joined(ctx).Order("justificantes.id DESC").Scan(&rows).Error
	return rows, err
}

func (r *JustificationRepository) GetByID(ctx context.Context, id int64) (*justificationDatamodel.JustificanteRow, error) {
	var row justificationDatamodel.JustificanteRow
	err := r.joined(ctx).Where("justificantes.id = ?", id).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *JustificationRepository) Create(ctx context.Context, row *justificationDatamodel.Justificante, guard justification.Guard) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := runGuard(tx, row, guard); err != nil {
			return err
		}
		return tx.Create(row).Error
	})
}

func (r *JustificationRepository) Update(ctx context.Context, row *justificationDatamodel.Justificante, guard justification.Guard) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := runGuard(tx, row, guard); err != nil {
			return err
		}
		return tx.Save(row).Error
	})
}

func (r *JustificationRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&justificationDatamodel.Justificante{}, id).Error
}

func runGuard(tx *gorm.DB, row *justificationDatamodel.Justificante, guard justification.Guard) error {
	if guard == nil {
		return nil
	}
	var same []*justificationDatamodel.Justificante
	if err := tx.Where("alumno_id = ?", row.AlumnoID).Find(&same).Error; err != nil {
		return err
	}
	return guard(same)
}

// TotalsRepository answers the per-student count with a plain aggregate.
type TotalsRepository struct {
	db *sqlx.DB
}

func NewTotalsRepository(db *sqlx.DB) justification.TotalsReader {
	return &TotalsRepository{db: db}
}

const countByStudentQuery = `SELECT alumno_id, COUNT(*) AS total FROM justificantes GROUP BY alumno_id`

func (r *TotalsRepository) CountByStudent(ctx context.Context) (map[int64]int, error) {
	var rows []struct {
		AlumnoID int64 `db:"alumno_id"`
		Total    int   `db:"total"`
	}
	if err := r.db.SelectContext(ctx, &rows, countByStudentQuery); err != nil {
		return nil, err
	}
	totals := make(map[int64]int, len(rows))
	for _, row := range rows {
		totals[row.AlumnoID] = row.Total
	}
	return totals, nil
}

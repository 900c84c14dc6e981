package repository

import (
	"context"

	"github.com/yukikurage/business-management-api/internal/models"
	"gorm.io/gorm"
)

type ScoreRepository struct {
	*Repository[models.Score]
}

func NewScoreRepository(db *gorm.DB) *ScoreRepository {
	return &ScoreRepository{Repository: NewRepository[models.Score](db, "Score")}
}

// ListByEmployee lists every score the employee received
func (r *ScoreRepository) ListByEmployee(ctx context.Context, employeeID uint64) ([]models.Score, error) {
	var scores []models.Score
	if err := r.DB(ctx).Where("employee_id = ?", employeeID).Order("id").Find(&scores).Error; err != nil {
		return nil, r.translate(err)
	}
	return scores, nil
}

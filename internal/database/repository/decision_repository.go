package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/pivotpoint/backend-go/internal/database/models"
)

// DecisionRepository defines the interface for decision data operations.
// Every lookup is scoped to the owning user: a decision owned by someone
// else is indistinguishable from a missing one.
type DecisionRepository interface {
	ListByUser(userID uint, archived bool) ([]models.Decision, error)
	FindByID(userID, decisionID uint) (*models.Decision, error)
	Create(decision *models.Decision) error
	Save(decision *models.Decision) error
	DeleteWithItems(userID, decisionID uint) error
}

type decisionRepository struct {
	db *gorm.DB
}

// NewDecisionRepository creates a new decision repository instance
func NewDecisionRepository(db *gorm.DB) DecisionRepository {
	return &decisionRepository{db: db}
}

func (r *decisionRepository) ListByUser(userID uint, archived bool) ([]models.Decision, error) {
	var decisions []models.Decision
	err := r.db.
		Where("user_id = ? AND archived = ?", userID, archived).
		Order("updated_at DESC").
		Find(&decisions).Error
	if err != nil {
		return nil, err
	}
	return decisions, nil
}

func (r *decisionRepository) FindByID(userID, decisionID uint) (*models.Decision, error) {
	var decision models.Decision
	err := r.db.Where("id = ? AND user_id = ?", decisionID, userID).First(&decision).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDecisionNotFound
		}
		return nil, err
	}
	return &decision, nil
}

func (r *decisionRepository) Create(decision *models.Decision) error {
	return r.db.Create(decision).Error
}

// Save persists all fields and lets gorm re-stamp updated_at, so even a
// no-op update refreshes the watermark.
func (r *decisionRepository) Save(decision *models.Decision) error {
	return r.db.Save(decision).Error
}

// DeleteWithItems removes the decision's items before the decision itself
// so no orphaned rows are left behind. Deleting an absent or foreign
// decision is not an error: delete is idempotent.
func (r *decisionRepository) DeleteWithItems(userID, decisionID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var decision models.Decision
		err := tx.Where("id = ? AND user_id = ?", decisionID, userID).First(&decision).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}

		if err := tx.Where("decision_id = ?", decision.ID).Delete(&models.Item{}).Error; err != nil {
			return err
		}

		return tx.Delete(&decision).Error
	})
}

// Repository errors
var (
	ErrDecisionNotFound = errors.New("decision not found")
)

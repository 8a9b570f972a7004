package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/pivotpoint/backend-go/internal/database/models"
)

// ItemRepository defines the interface for item data operations. Item
// ownership is resolved through the parent decision, and every mutation
// re-stamps the parent's updated_at watermark in the same transaction.
type ItemRepository interface {
	ListByDecision(decisionID uint) ([]models.Item, error)
	FindByID(userID, itemID uint) (*models.Item, error)
	Create(userID uint, item *models.Item) error
	Update(item *models.Item) error
	Delete(userID, itemID uint) error
}

type itemRepository struct {
	db *gorm.DB
}

// NewItemRepository creates a new item repository instance
func NewItemRepository(db *gorm.DB) ItemRepository {
	return &itemRepository{db: db}
}

// ListByDecision returns all items of a decision in insertion order
func (r *itemRepository) ListByDecision(decisionID uint) ([]models.Item, error) {
	var items []models.Item
	err := r.db.
		Where("decision_id = ?", decisionID).
		Order("id ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *itemRepository) FindByID(userID, itemID uint) (*models.Item, error) {
	var item models.Item
	err := r.db.
		Joins("JOIN decisions ON decisions.id = items.decision_id").
		Where("items.id = ? AND decisions.user_id = ?", itemID, userID).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	return &item, nil
}

// Create inserts the item after verifying the parent decision belongs to
// the user, then bumps the parent's watermark.
func (r *itemRepository) Create(userID uint, item *models.Item) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var decision models.Decision
		err := tx.Where("id = ? AND user_id = ?", item.DecisionID, userID).First(&decision).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrDecisionNotFound
			}
			return err
		}

		if err := tx.Create(item).Error; err != nil {
			return err
		}

		return touchDecision(tx, item.DecisionID)
	})
}

// Update saves the item and bumps the parent's watermark. The caller is
// expected to have resolved the item through FindByID first.
func (r *itemRepository) Update(item *models.Item) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(item).Error; err != nil {
			return err
		}
		return touchDecision(tx, item.DecisionID)
	})
}

func (r *itemRepository) Delete(userID, itemID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var item models.Item
		err := tx.
			Joins("JOIN decisions ON decisions.id = items.decision_id").
			Where("items.id = ? AND decisions.user_id = ?", itemID, userID).
			First(&item).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrItemNotFound
			}
			return err
		}

		if err := tx.Delete(&item).Error; err != nil {
			return err
		}

		return touchDecision(tx, item.DecisionID)
	})
}

func touchDecision(tx *gorm.DB, decisionID uint) error {
	return tx.Model(&models.Decision{}).
		Where("id = ?", decisionID).
		UpdateColumn("updated_at", time.Now()).Error
}

// Repository errors
var (
	ErrItemNotFound = errors.New("item not found")
)

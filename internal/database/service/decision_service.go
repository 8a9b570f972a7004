package service

import (
	"errors"
	"log/slog"

	"github.com/pivotpoint/backend-go/internal/database/models"
	"github.com/pivotpoint/backend-go/internal/database/repository"
)

// DefaultDecisionTitle is used when a decision is created without a title
const DefaultDecisionTitle = "New Decision"

// DecisionBoard partitions a user's decisions into active and archived sets
type DecisionBoard struct {
	Active   []models.Decision `json:"active"`
	Archived []models.Decision `json:"archived"`
}

// DecisionService defines the interface for the decision/item aggregate.
// All operations are scoped to the authenticated user.
type DecisionService interface {
	List(userID uint) (*DecisionBoard, error)
	Create(userID uint, title string) (*models.Decision, error)
	Update(userID, decisionID uint, title *string, archived *bool) (*models.Decision, error)
	Delete(userID, decisionID uint) error
	AddItem(userID, decisionID uint, text string, weight float64, itemType string) (*models.Item, error)
	UpdateItem(userID, itemID uint, text *string, weight *float64) (*models.Item, error)
	DeleteItem(userID, itemID uint) error
}

type decisionService struct {
	decisionRepo repository.DecisionRepository
	itemRepo     repository.ItemRepository
	logger       *slog.Logger
}

// NewDecisionService creates a new decision service instance
func NewDecisionService(
	decisionRepo repository.DecisionRepository,
	itemRepo repository.ItemRepository,
	logger *slog.Logger,
) DecisionService {
	return &decisionService{
		decisionRepo: decisionRepo,
		itemRepo:     itemRepo,
		logger:       logger,
	}
}

func (s *decisionService) List(userID uint) (*DecisionBoard, error) {
	active, err := s.decisionRepo.ListByUser(userID, false)
	if err != nil {
		s.logger.Error("❌ [DecisionService] Failed to list active decisions", "user_id", userID, "error", err)
		return nil, err
	}

	archived, err := s.decisionRepo.ListByUser(userID, true)
	if err != nil {
		s.logger.Error("❌ [DecisionService] Failed to list archived decisions", "user_id", userID, "error", err)
		return nil, err
	}

	for i := range active {
		if err := s.attachItems(&active[i]); err != nil {
			return nil, err
		}
	}
	for i := range archived {
		if err := s.attachItems(&archived[i]); err != nil {
			return nil, err
		}
	}

	return &DecisionBoard{Active: active, Archived: archived}, nil
}

func (s *decisionService) Create(userID uint, title string) (*models.Decision, error) {
	if title == "" {
		title = DefaultDecisionTitle
	}

	decision := &models.Decision{
		UserID: userID,
		Title:  title,
		Pros:   []models.Item{},
		Cons:   []models.Item{},
	}

	if err := s.decisionRepo.Create(decision); err != nil {
		s.logger.Error("❌ [DecisionService] Failed to create decision", "user_id", userID, "error", err)
		return nil, err
	}

	s.logger.Info("✅ [DecisionService] Decision created", "user_id", userID, "decision_id", decision.ID)
	return decision, nil
}

func (s *decisionService) Update(userID, decisionID uint, title *string, archived *bool) (*models.Decision, error) {
	decision, err := s.decisionRepo.FindByID(userID, decisionID)
	if err != nil {
		return nil, err
	}

	// Partial update: absent fields stay untouched, but the watermark is
	// refreshed on every call, even a no-op body
	if title != nil {
		decision.Title = *title
	}
	if archived != nil {
		decision.Archived = *archived
	}

	if err := s.decisionRepo.Save(decision); err != nil {
		s.logger.Error("❌ [DecisionService] Failed to update decision", "decision_id", decisionID, "error", err)
		return nil, err
	}

	if err := s.attachItems(decision); err != nil {
		return nil, err
	}

	s.logger.Info("✅ [DecisionService] Decision updated", "decision_id", decisionID)
	return decision, nil
}

func (s *decisionService) Delete(userID, decisionID uint) error {
	if err := s.decisionRepo.DeleteWithItems(userID, decisionID); err != nil {
		s.logger.Error("❌ [DecisionService] Failed to delete decision", "decision_id", decisionID, "error", err)
		return err
	}

	s.logger.Info("✅ [DecisionService] Decision deleted", "decision_id", decisionID)
	return nil
}

func (s *decisionService) AddItem(userID, decisionID uint, text string, weight float64, itemType string) (*models.Item, error) {
	if text == "" {
		return nil, ErrItemTextRequired
	}

	if itemType == "" {
		itemType = models.ItemTypePro
	}
	if !models.ValidItemType(itemType) {
		return nil, ErrInvalidItemType
	}

	item := &models.Item{
		DecisionID: decisionID,
		Text:       text,
		Weight:     weight,
		Type:       itemType,
	}

	if err := s.itemRepo.Create(userID, item); err != nil {
		if errors.Is(err, repository.ErrDecisionNotFound) {
			return nil, err
		}
		s.logger.Error("❌ [DecisionService] Failed to add item", "decision_id", decisionID, "error", err)
		return nil, err
	}

	s.logger.Info("✅ [DecisionService] Item added", "decision_id", decisionID, "item_id", item.ID)
	return item, nil
}

func (s *decisionService) UpdateItem(userID, itemID uint, text *string, weight *float64) (*models.Item, error) {
	item, err := s.itemRepo.FindByID(userID, itemID)
	if err != nil {
		return nil, err
	}

	if text != nil {
		item.Text = *text
	}
	if weight != nil {
		item.Weight = *weight
	}

	if err := s.itemRepo.Update(item); err != nil {
		s.logger.Error("❌ [DecisionService] Failed to update item", "item_id", itemID, "error", err)
		return nil, err
	}

	s.logger.Info("✅ [DecisionService] Item updated", "item_id", itemID)
	return item, nil
}

func (s *decisionService) DeleteItem(userID, itemID uint) error {
	if err := s.itemRepo.Delete(userID, itemID); err != nil {
		if !errors.Is(err, repository.ErrItemNotFound) {
			s.logger.Error("❌ [DecisionService] Failed to delete item", "item_id", itemID, "error", err)
		}
		return err
	}

	s.logger.Info("✅ [DecisionService] Item deleted", "item_id", itemID)
	return nil
}

// attachItems loads the decision's items partitioned into pros and cons,
// each in insertion order
func (s *decisionService) attachItems(decision *models.Decision) error {
	items, err := s.itemRepo.ListByDecision(decision.ID)
	if err != nil {
		s.logger.Error("❌ [DecisionService] Failed to load items", "decision_id", decision.ID, "error", err)
		return err
	}

	decision.Pros = make([]models.Item, 0)
	decision.Cons = make([]models.Item, 0)
	for _, item := range items {
		if item.Type == models.ItemTypeCon {
			decision.Cons = append(decision.Cons, item)
		} else {
			decision.Pros = append(decision.Pros, item)
		}
	}

	return nil
}

// Service errors
var (
	ErrItemTextRequired = errors.New("item text is required")
	ErrInvalidItemType  = errors.New("item type must be pro or con")
)

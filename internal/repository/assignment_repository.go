package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"homequest/internal/apperr"
	"homequest/internal/model"
)

type AssignmentRepository interface {
	Create(assignment *model.Assignment) error
	FindByID(id uint) (*model.Assignment, error)
	FindByIDForLearner(id, learnerID uint) (*model.Assignment, error)
	FindByIDForGuardian(id, guardianID uint) (*model.Assignment, error)
	FindAllByLearner(learnerID uint) ([]model.Assignment, error)
	UpdateSortOrder(id uint, order int) error
	MarkInProgress(id uint) error
	MarkCompleted(id uint, at time.Time) error
	WithTx(tx *gorm.DB) AssignmentRepository
}

type assignmentRepository struct {
	db *gorm.DB
}

func NewAssignmentRepository(db *gorm.DB) AssignmentRepository {
	return &assignmentRepository{db: db}
}

func (r *assignmentRepository) WithTx(tx *gorm.DB) AssignmentRepository {
	return &assignmentRepository{db: tx}
}

func (r *assignmentRepository) Create(assignment *model.Assignment) error {
	// Associated legacy problems are created along with the assignment.
	return r.db.Create(assignment).Error
}

func (r *assignmentRepository) FindByID(id uint) (*model.Assignment, error) {
	var assignment model.Assignment
	if err := r.db.First(&assignment, id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &assignment, nil
}

func (r *assignmentRepository) FindByIDForLearner(id, learnerID uint) (*model.Assignment, error) {
	var assignment model.Assignment
	err := r.db.Where("id = ? AND learner_id = ?", id, learnerID).First(&assignment).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	return &assignment, nil
}

func (r *assignmentRepository) FindByIDForGuardian(id, guardianID uint) (*model.Assignment, error) {
	var assignment model.Assignment
	err := r.db.Where("id = ? AND guardian_id = ?", id, guardianID).First(&assignment).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	return &assignment, nil
}

func (r *assignmentRepository) FindAllByLearner(learnerID uint) ([]model.Assignment, error) {
	var assignments []model.Assignment
	err := r.db.Where("learner_id = ?", learnerID).
		Order("sort_order ASC NULLS LAST, created_at DESC").
		Find(&assignments).Error
	return assignments, err
}

func (r *assignmentRepository) UpdateSortOrder(id uint, order int) error {
	res := r.db.Model(&model.Assignment{}).Where("id = ?", id).Update("sort_order", order)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// MarkInProgress performs the one-way pending -> in_progress transition.
// A no-op when the assignment already moved on.
func (r *assignmentRepository) MarkInProgress(id uint) error {
	return r.db.Model(&model.Assignment{}).
		Where("id = ? AND status = ?", id, model.AssignmentStatusPending).
		Update("status", model.AssignmentStatusInProgress).Error
}

// MarkCompleted performs the forward transition into completed and stamps
// completed_at exactly once. Re-detecting completion on an already-completed
// assignment is a no-op, not an error.
func (r *assignmentRepository) MarkCompleted(id uint, at time.Time) error {
	return r.db.Model(&model.Assignment{}).
		Where("id = ? AND status <> ?", id, model.AssignmentStatusCompleted).
		Updates(map[string]interface{}{
			"status":       model.AssignmentStatusCompleted,
			"completed_at": at,
		}).Error
}

func translateNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.ErrNotFound
	}
	return err
}

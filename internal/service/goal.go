package service

import (
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/academic-hub/academic-hub-back/internal/db"
)

type (
	Goals struct {
		db     *gorm.DB
		logger *zap.SugaredLogger
	}

	GoalUpdate struct {
		Text        *string
		Description *string
		Priority    *string
		Completed   *bool
		DueDate     *time.Time
		ClearDue    bool
	}
)

func NewGoals(gdb *gorm.DB, logger *zap.SugaredLogger) *Goals {
	return &Goals{
		db:     gdb,
		logger: logger,
	}
}

func (s *Goals) List(ownerID uint64) ([]db.Goal, error) {
	goals := make([]db.Goal, 0)
	res := s.db.Where("user_id = ?", ownerID).Order("created_at DESC").Find(&goals)
	if res.Error != nil {
		return nil, errors.Wrap(res.Error, "list goals")
	}
	return goals, nil
}

func (s *Goals) Get(id, ownerID uint64) (*db.Goal, error) {
	model := db.Goal{}
	if err := s.db.First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "load goal")
	}
	if model.UserID != ownerID {
		return nil, ErrForbidden
	}
	return &model, nil
}

func (s *Goals) Create(ownerID uint64, text, description, priority string, dueDate *time.Time) (*db.Goal, error) {
	if priority == "" {
		priority = db.PriorityMedium
	}
	model := db.Goal{
		Text:        text,
		Description: description,
		Priority:    priority,
		DueDate:     dueDate,
		UserID:      ownerID,
	}
	if res := s.db.Create(&model); res.Error != nil {
		return nil, res.Error
	}
	return &model, nil
}

func (s *Goals) Update(id, ownerID uint64, upd GoalUpdate) (*db.Goal, error) {
	model, err := s.Get(id, ownerID)
	if err != nil {
		return nil, err
	}

	if upd.Text != nil {
		model.Text = *upd.Text
	}
	if upd.Description != nil {
		model.Description = *upd.Description
	}
	if upd.Priority != nil {
		model.Priority = *upd.Priority
	}
	if upd.Completed != nil {
		model.Completed = *upd.Completed
	}
	if upd.DueDate != nil {
		model.DueDate = upd.DueDate
	} else if upd.ClearDue {
		model.DueDate = nil
	}

	if err := s.db.Save(model).Error; err != nil {
		return nil, errors.Wrap(err, "update goal")
	}
	return model, nil
}

func (s *Goals) Delete(id, ownerID uint64) error {
	model, err := s.Get(id, ownerID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(model).Error; err != nil {
		return errors.Wrap(err, "delete goal")
	}
	return nil
}

func (s *Goals) ToggleCompleted(id, ownerID uint64) (*db.Goal, error) {
	model, err := s.Get(id, ownerID)
	if err != nil {
		return nil, err
	}
	if err := s.db.Model(model).Update("completed", !model.Completed).Error; err != nil {
		return nil, errors.Wrap(err, "toggle goal")
	}
	return model, nil
}

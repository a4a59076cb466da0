package service

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/academic-hub/academic-hub-back/internal/db"
)

type (
	Subjects struct {
		db     *gorm.DB
		logger *zap.SugaredLogger
	}

	SubjectUpdate struct {
		Name        *string
		Description *string
		Topics      *[]string
		Color       *string
	}
)

func NewSubjects(gdb *gorm.DB, logger *zap.SugaredLogger) *Subjects {
	return &Subjects{
		db:     gdb,
		logger: logger,
	}
}

// List expects page >= 1 and a positive limit; the HTTP layer normalizes
// whatever the client sent before calling in.
func (s *Subjects) List(ownerID uint64, page, limit int) ([]db.Subject, int64, error) {
	var total int64
	if err := s.db.Model(&db.Subject{}).Where("user_id = ?", ownerID).Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "count subjects")
	}

	subjects := make([]db.Subject, 0)
	res := s.db.
		Where("user_id = ?", ownerID).
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&subjects)
	if res.Error != nil {
		return nil, 0, errors.Wrap(res.Error, "list subjects")
	}
	return subjects, total, nil
}

func (s *Subjects) Get(id, ownerID uint64) (*db.Subject, error) {
	model := db.Subject{}
	if err := s.db.First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "load subject")
	}
	if model.UserID != ownerID {
		return nil, ErrForbidden
	}
	return &model, nil
}

func (s *Subjects) Create(ownerID uint64, name, description string, topics []string, color string) (*db.Subject, error) {
	if color == "" {
		color = db.DefaultSubjectColor
	}
	model := db.Subject{
		Name:        name,
		Description: description,
		Topics:      topics,
		Color:       color,
		UserID:      ownerID,
	}
	if res := s.db.Create(&model); res.Error != nil {
		return nil, res.Error
	}
	return &model, nil
}

func (s *Subjects) Update(id, ownerID uint64, upd SubjectUpdate) (*db.Subject, error) {
	model, err := s.Get(id, ownerID)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		model.Name = *upd.Name
	}
	if upd.Description != nil {
		model.Description = *upd.Description
	}
	if upd.Topics != nil {
		model.Topics = *upd.Topics
		// shrinking the topic list must not leave progress out of range
		if model.CompletedTopics > len(model.Topics) {
			model.CompletedTopics = len(model.Topics)
		}
	}
	if upd.Color != nil {
		model.Color = *upd.Color
	}

	if err := s.db.Save(model).Error; err != nil {
		return nil, errors.Wrap(err, "update subject")
	}
	return model, nil
}

func (s *Subjects) Delete(id, ownerID uint64) error {
	model, err := s.Get(id, ownerID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(model).Error; err != nil {
		return errors.Wrap(err, "delete subject")
	}
	return nil
}

// UpdateProgress rejects values outside [0, len(topics)] without touching
// the stored row.
func (s *Subjects) UpdateProgress(id, ownerID uint64, completedTopics int) (*db.Subject, error) {
	model, err := s.Get(id, ownerID)
	if err != nil {
		return nil, err
	}
	if completedTopics < 0 || completedTopics > len(model.Topics) {
		return nil, errors.Wrapf(ErrValidation, "completedTopics must be between 0 and %d", len(model.Topics))
	}

	if err := s.db.Model(model).Update("completed_topics", completedTopics).Error; err != nil {
		return nil, errors.Wrap(err, "update progress")
	}
	return model, nil
}

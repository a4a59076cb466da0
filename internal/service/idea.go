package service

import (
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/academic-hub/academic-hub-back/internal/db"
)

type (
	Ideas struct {
		db     *gorm.DB
		logger *zap.SugaredLogger
	}

	IdeaUpdate struct {
		Title    *string
		Content  *string
		Tags     *[]string
		Category *string
	}
)

func NewIdeas(gdb *gorm.DB, logger *zap.SugaredLogger) *Ideas {
	return &Ideas{
		db:     gdb,
		logger: logger,
	}
}

func (s *Ideas) List(ownerID uint64, category, search string) ([]db.Idea, error) {
	q := s.db.Where("user_id = ?", ownerID)
	if category != "" {
		q = q.Where("category = ?", category)
	}
	if search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		q = q.Where("LOWER(title) LIKE ? OR LOWER(content) LIKE ?", pattern, pattern)
	}

	ideas := make([]db.Idea, 0)
	res := q.Order("created_at DESC").Find(&ideas)
	if res.Error != nil {
		return nil, errors.Wrap(res.Error, "list ideas")
	}
	return ideas, nil
}

func (s *Ideas) Get(id, ownerID uint64) (*db.Idea, error) {
	model := db.Idea{}
	if err := s.db.First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "load idea")
	}
	if model.UserID != ownerID {
		return nil, ErrForbidden
	}
	return &model, nil
}

func (s *Ideas) Create(ownerID uint64, title, content string, tags []string, category string) (*db.Idea, error) {
	if category == "" {
		category = db.CategoryGeneral
	}
	if tags == nil {
		tags = []string{}
	}
	model := db.Idea{
		Title:    title,
		Content:  content,
		Tags:     tags,
		Category: category,
		UserID:   ownerID,
	}
	if res := s.db.Create(&model); res.Error != nil {
		return nil, res.Error
	}
	return &model, nil
}

func (s *Ideas) Update(id, ownerID uint64, upd IdeaUpdate) (*db.Idea, error) {
	model, err := s.Get(id, ownerID)
	if err != nil {
		return nil, err
	}

	if upd.Title != nil {
		model.Title = *upd.Title
	}
	if upd.Content != nil {
		model.Content = *upd.Content
	}
	if upd.Tags != nil {
		model.Tags = *upd.Tags
	}
	if upd.Category != nil {
		model.Category = *upd.Category
	}

	if err := s.db.Save(model).Error; err != nil {
		return nil, errors.Wrap(err, "update idea")
	}
	return model, nil
}

func (s *Ideas) Delete(id, ownerID uint64) error {
	model, err := s.Get(id, ownerID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(model).Error; err != nil {
		return errors.Wrap(err, "delete idea")
	}
	return nil
}

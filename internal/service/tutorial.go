package service

import (
	"context"
	"unicode/utf8"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/academic-hub/academic-hub-back/internal/db"
)

const maxTutorialDescription = 1000

type (
	Tutorials struct {
		db     *gorm.DB
		videos VideoProvider
		logger *zap.SugaredLogger
	}

	TutorialUpdate struct {
		Title       *string
		Channel     *string
		Description *string
		Watched     *bool
	}
)

func NewTutorials(gdb *gorm.DB, videos VideoProvider, logger *zap.SugaredLogger) *Tutorials {
	return &Tutorials{
		db:     gdb,
		videos: videos,
		logger: logger,
	}
}

func (s *Tutorials) List(ownerID uint64) ([]db.Tutorial, error) {
	tutorials := make([]db.Tutorial, 0)
	res := s.db.Where("user_id = ?", ownerID).Order("created_at DESC").Find(&tutorials)
	if res.Error != nil {
		return nil, errors.Wrap(res.Error, "list tutorials")
	}
	return tutorials, nil
}

func (s *Tutorials) Get(id, ownerID uint64) (*db.Tutorial, error) {
	model := db.Tutorial{}
	if err := s.db.First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "load tutorial")
	}
	if model.UserID != ownerID {
		return nil, ErrForbidden
	}
	return &model, nil
}

// Create resolves the URL against the external metadata provider and
// persists the composed record. The duplicate check runs before the
// provider call so a re-import never spends quota.
func (s *Tutorials) Create(ctx context.Context, ownerID uint64, url string) (*db.Tutorial, error) {
	videoID, ok := ExtractVideoID(url)
	if !ok {
		return nil, errors.Wrap(ErrValidation, "could not extract a video id from the URL")
	}

	var count int64
	if err := s.db.Model(&db.Tutorial{}).
		Where("url = ? AND user_id = ?", url, ownerID).
		Count(&count).Error; err != nil {
		return nil, errors.Wrap(err, "check tutorial uniqueness")
	}
	if count > 0 {
		return nil, errors.Wrap(ErrDuplicate, "tutorial already imported")
	}

	meta, err := s.videos.Fetch(ctx, videoID)
	if err != nil {
		return nil, err
	}

	model := db.Tutorial{
		Title:       meta.Title,
		Channel:     meta.Channel,
		Duration:    meta.Duration,
		URL:         url,
		Description: truncateDescription(meta.Description),
		UserID:      ownerID,
	}
	if meta.Thumbnail != "" {
		thumb := meta.Thumbnail
		model.Thumbnail = &thumb
	}
	if res := s.db.Create(&model); res.Error != nil {
		if isDuplicateKey(res.Error) {
			return nil, errors.Wrap(ErrDuplicate, "tutorial already imported")
		}
		return nil, res.Error
	}
	return &model, nil
}

func (s *Tutorials) Update(id, ownerID uint64, upd TutorialUpdate) (*db.Tutorial, error) {
	model, err := s.Get(id, ownerID)
	if err != nil {
		return nil, err
	}

	if upd.Title != nil {
		model.Title = *upd.Title
	}
	if upd.Channel != nil {
		model.Channel = *upd.Channel
	}
	if upd.Description != nil {
		model.Description = truncateDescription(*upd.Description)
	}
	if upd.Watched != nil {
		model.Watched = *upd.Watched
	}

	if err := s.db.Save(model).Error; err != nil {
		return nil, errors.Wrap(err, "update tutorial")
	}
	return model, nil
}

func (s *Tutorials) Delete(id, ownerID uint64) error {
	model, err := s.Get(id, ownerID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(model).Error; err != nil {
		return errors.Wrap(err, "delete tutorial")
	}
	return nil
}

// truncateDescription cuts to the column width in characters, never
// through the middle of a multi-byte rune.
func truncateDescription(s string) string {
	if utf8.RuneCountInString(s) <= maxTutorialDescription {
		return s
	}
	return string([]rune(s)[:maxTutorialDescription])
}

func (s *Tutorials) ToggleWatched(id, ownerID uint64) (*db.Tutorial, error) {
	model, err := s.Get(id, ownerID)
	if err != nil {
		return nil, err
	}
	if err := s.db.Model(model).Update("watched", !model.Watched).Error; err != nil {
		return nil, errors.Wrap(err, "toggle tutorial")
	}
	return model, nil
}

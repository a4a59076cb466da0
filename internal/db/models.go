package db

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"

	CategoryStudy    = "study"
	CategoryProject  = "project"
	CategoryResearch = "research"
	CategoryGeneral  = "general"

	DefaultSubjectColor = "#3B82F6"
)

type (
	BaseModel struct {
		ID        uint64    `gorm:"primarykey" json:"id"`
		CreatedAt time.Time `json:"createdAt"`
		UpdatedAt time.Time `json:"updatedAt"`
	}

	// StringList is stored as a JSON-serialized text column so the same
	// schema works on postgres and sqlite.
	StringList []string

	User struct {
		BaseModel
		Name                string     `gorm:"size:50;not null" json:"name"`
		Email               string     `gorm:"unique;not null" json:"email"`
		Password            string     `gorm:"not null" json:"-"`
		Role                string     `gorm:"size:20;not null;default:user" json:"role"`
		ResetPasswordToken  *string    `json:"-"`
		ResetPasswordExpire *time.Time `json:"-"`
	}

	Subject struct {
		BaseModel
		Name            string     `gorm:"size:100;not null" json:"name"`
		Description     string     `gorm:"size:500" json:"description"`
		Topics          StringList `gorm:"type:text" json:"topics"`
		CompletedTopics int        `gorm:"not null;default:0" json:"completedTopics"`
		Color           string     `gorm:"size:20;not null;default:#3B82F6" json:"color"`
		UserID          uint64     `gorm:"not null;index" json:"userId"`
		User            User       `json:"-"`
	}

	Goal struct {
		BaseModel
		Text        string     `gorm:"size:200;not null" json:"text"`
		Description string     `gorm:"size:500" json:"description"`
		Priority    string     `gorm:"size:10;not null;default:medium" json:"priority"`
		Completed   bool       `gorm:"not null;default:false" json:"completed"`
		DueDate     *time.Time `json:"dueDate"`
		UserID      uint64     `gorm:"not null;index" json:"userId"`
		User        User       `json:"-"`
	}

	Tutorial struct {
		BaseModel
		Title       string     `gorm:"size:200;not null" json:"title"`
		Channel     string     `gorm:"size:200" json:"channel"`
		Duration    string     `gorm:"size:20" json:"duration"`
		URL         string     `gorm:"size:500;not null;uniqueIndex:uidx_url_user_id" json:"url"`
		Thumbnail   *string    `json:"thumbnail"`
		Description string     `gorm:"size:1000" json:"description"`
		Watched     bool       `gorm:"not null;default:false" json:"watched"`
		UserID      uint64     `gorm:"not null;uniqueIndex:uidx_url_user_id" json:"userId"`
		User        User       `json:"-"`
	}

	Idea struct {
		BaseModel
		Title    string     `gorm:"size:200;not null" json:"title"`
		Content  string     `gorm:"size:2000;not null" json:"content"`
		Tags     StringList `gorm:"type:text" json:"tags"`
		Category string     `gorm:"size:20;not null;default:general" json:"category"`
		UserID   uint64     `gorm:"not null;index" json:"userId"`
		User     User       `json:"-"`
	}
)

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, errors.Wrap(err, "marshal string list")
	}
	return string(b), nil
}

func (l *StringList) Scan(src interface{}) error {
	if src == nil {
		*l = StringList{}
		return nil
	}
	var b []byte
	switch v := src.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return errors.Errorf("unsupported string list source type %T", src)
	}
	if len(b) == 0 {
		*l = StringList{}
		return nil
	}
	return errors.Wrap(json.Unmarshal(b, l), "unmarshal string list")
}

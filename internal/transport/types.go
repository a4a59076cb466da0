package transport

import (
	"time"
)

type (
	Envelope struct {
		Success    bool        `json:"success"`
		Token      string      `json:"token,omitempty"`
		Data       interface{} `json:"data,omitempty"`
		Count      *int        `json:"count,omitempty"`
		Pagination *Pagination `json:"pagination,omitempty"`
		Message    string      `json:"message,omitempty"`
	}

	Pagination struct {
		Page       int   `json:"page"`
		Limit      int   `json:"limit"`
		Total      int64 `json:"total"`
		TotalPages int   `json:"totalPages"`
	}

	RegisterReq struct {
		Name     string `json:"name" validate:"required,max=50"`
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=6"`
		Role     string `json:"role" validate:"omitempty,oneof=user admin"`
	}

	LoginReq struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	UpdateDetailsReq struct {
		Name  *string `json:"name" validate:"omitempty,max=50"`
		Email *string `json:"email" validate:"omitempty,email"`
	}

	UpdatePasswordReq struct {
		CurrentPassword string `json:"currentPassword" validate:"required"`
		NewPassword     string `json:"newPassword" validate:"required,min=6"`
	}

	ForgotPasswordReq struct {
		Email string `json:"email" validate:"required,email"`
	}

	ResetPasswordReq struct {
		Password string `json:"password" validate:"required,min=6"`
	}

	SubjectCreateReq struct {
		Name        string   `json:"name" validate:"required,max=100"`
		Description string   `json:"description" validate:"omitempty,max=500"`
		Topics      []string `json:"topics"`
		Color       string   `json:"color" validate:"omitempty,hexcolor"`
	}

	SubjectUpdateReq struct {
		Name        *string   `json:"name" validate:"omitempty,max=100"`
		Description *string   `json:"description" validate:"omitempty,max=500"`
		Topics      *[]string `json:"topics"`
		Color       *string   `json:"color" validate:"omitempty,hexcolor"`
	}

	SubjectProgressReq struct {
		CompletedTopics *int `json:"completedTopics" validate:"required"`
	}

	GoalCreateReq struct {
		Text        string     `json:"text" validate:"required,max=200"`
		Description string     `json:"description" validate:"omitempty,max=500"`
		Priority    string     `json:"priority" validate:"omitempty,oneof=low medium high"`
		DueDate     *time.Time `json:"dueDate"`
	}

	GoalUpdateReq struct {
		Text        *string    `json:"text" validate:"omitempty,max=200"`
		Description *string    `json:"description" validate:"omitempty,max=500"`
		Priority    *string    `json:"priority" validate:"omitempty,oneof=low medium high"`
		Completed   *bool      `json:"completed"`
		DueDate     *time.Time `json:"dueDate"`
		// an absent dueDate means "leave it alone", so clearing is explicit
		ClearDueDate bool `json:"clearDueDate"`
	}

	TutorialCreateReq struct {
		URL string `json:"url" validate:"required,url"`
	}

	TutorialUpdateReq struct {
		Title       *string `json:"title" validate:"omitempty,max=200"`
		Channel     *string `json:"channel" validate:"omitempty,max=200"`
		Description *string `json:"description" validate:"omitempty,max=1000"`
		Watched     *bool   `json:"watched"`
	}

	IdeaCreateReq struct {
		Title    string   `json:"title" validate:"required,max=200"`
		Content  string   `json:"content" validate:"required,max=2000"`
		Tags     []string `json:"tags"`
		Category string   `json:"category" validate:"omitempty,oneof=study project research general"`
	}

	IdeaUpdateReq struct {
		Title    *string   `json:"title" validate:"omitempty,max=200"`
		Content  *string   `json:"content" validate:"omitempty,max=2000"`
		Tags     *[]string `json:"tags"`
		Category *string   `json:"category" validate:"omitempty,oneof=study project research general"`
	}
)

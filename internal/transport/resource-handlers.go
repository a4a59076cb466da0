package transport

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/academic-hub/academic-hub-back/internal/service"
)

// Subjects

func (s *HTTPServer) SubjectList(c echo.Context) error {
	user, err := GetUserFromContext(c)
	if err != nil {
		return err
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	subjects, total, err := s.subjects.List(user.ID, page, limit)
	if err != nil {
		return err
	}

	count := len(subjects)
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return c.JSON(http.StatusOK, Envelope{
		Success: true,
		Data:    subjects,
		Count:   &count,
		Pagination: &Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages,
		},
	})
}

func (s *HTTPServer) SubjectGet(c echo.Context) error {
	user, err := GetUserFromContext(c)
	if err != nil {
		return err
	}
	id, err := GetAndParseParam(c, "id")
	if err != nil {
		return err
	}

	subject, err := s.subjects.Get(id, user.ID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, subject)
}

func (s *HTTPServer) SubjectCreate(c echo.Context) error {
	user, err := GetUserFromContext(c)
	if err != nil {
		return err
	}

	req := SubjectCreateReq{}
	if err := BindAndValidate(c, &req); err != nil {
		return err
	}

	subject, err := s.subjects.Create(user.ID, req.Name, req.Description, req.Topics, req.Color)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, subject)
}

func (s *HTTPServer) SubjectUpdate(c echo.Context) error {
	user, err := GetUserFromContext(c)
	if err != nil {
		return err
	}
	id, err := GetAndParseParam(c, "id")
	if err != nil {
		return err
	}

	req := SubjectUpdateReq{}
	if err := BindAndValidate(c, &req); err != nil {
		return err
	}

	subject, err := s.subjects.Update(id, user.ID, service.SubjectUpdate{
		Name:        req.Name,
		Description: req.Description,
		Topics:      req.Topics,
		Color:       req.Color,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, subject)
}

func (s *HTTPServer) SubjectDelete(c echo.Context) error {
	user, err := GetUserFromContext(c)
	if err != nil {
		return err
	}
	id, err := GetAndParseParam(c, "id")
	if err != nil {
		return err
	}

	if err := s.subjects.Delete(id, user.ID); err != nil {
		return err
	}
	return respond(c, http.StatusOK, map[string]interface{}{})
}

func (s *HTTPServer) SubjectProgress(c echo.Context) error {
	user, err := GetUserFromContext(c)
	if err != nil {
		return err
	}
	id, err := GetAndParseParam(c, "id")
	if err != nil {
		return err
	}

	req := SubjectProgressReq{}
	if err := BindAndValidate(c, &req); err != nil {
		return err
	}

	subject, err := s.subjects.UpdateProgress(id, user.ID, *req.CompletedTopics)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, subject)
}

// Goals

func (s *HTTPServer) GoalList(c echo.Context) error {
	user, err := GetUserFromContext(c)
	if err != nil {
		return err
	}

	goals, err := s.goals.List(user.ID)
	if err != nil {
		return err
	}
	return respondList(c, goals, len(goals))
}

func (s *HTTPServer) GoalGet(c echo.Context) error {
	user, err := GetUserFromContext(c)
	if err != nil {
		return err
	}
	id, err := GetAndParseParam(c, "id")
	if err != nil {
		return err
	}

	goal, err := s.goals.Get(id, user.ID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, goal)
}

func (s *HTTPServer) GoalCreate(c echo.Context) error {
	user, err := GetUserFromContext(c)
	if err != nil {
		return err
	}

	req := GoalCreateReq{}
	if err := BindAndValidate(c, &req); err != nil {
		return err
	}

	goal, err := s.goals.Create(user.ID, req.Text, req.Description, req.Priority, req.DueDate)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, goal)
}

func (s *HTTPServer) GoalUpdate(c echo.Context) error {
	user, err := GetUserFromContext(c)
	if err != nil {
		return err
	}
	id, err := GetAndParseParam(c, "id")
	if err != nil {
		return err
	}

	req := GoalUpdateReq{}
	if err := BindAndValidate(c, &req); err != nil {
		return err
	}

	goal, err := s.goals.Update(id, user.ID, service.GoalUpdate{
		Text:        req.Text,
		Description: req.Description,
		Priority:    req.Priority,
		Completed:   req.Completed,
		DueDate:     req.DueDate,
		ClearDue:    req.ClearDueDate,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, goal)
}

func (s *HTTPServer) GoalDelete(c echo.Context) error {
	user, err := GetUserFromContext(c)
	if err != nil {
		return err
	}
	id, err := GetAndParseParam(c, "id")
	if err != nil {
		return err
	}

	if err := s.goals.Delete(id, user.ID); err != nil {
		return err
	}
	return respond(c, http.StatusOK, map[string]interface{}{})
}

func (s *HTTPServer) GoalToggle(c echo.Context) error {
	user, err := GetUserFromContext(c)
	if err != nil {
		return err
	}
	id, err := GetAndParseParam(c, "id")
	if err != nil {
		return err
	}

	goal, err := s.goals.ToggleCompleted(id, user.ID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, goal)
}

// Tutorials

func (s *HTTPServer) TutorialList(c echo.Context) error {
	user, err := GetUserFromContext(c)
	if err != nil {
		return err
	}

	tutorials, err := s.tutorials.List(user.ID)
	if err != nil {
		return err
	}
	return respondList(c, tutorials, len(tutorials))
}

func (s *HTTPServer) TutorialGet(c echo.Context) error {
	user, err := GetUserFromContext(c)
	if err != nil {
		return err
	}
	id, err := GetAndParseParam(c, "id")
	if err != nil {
		return err
	}

	tutorial, err := s.tutorials.Get(id, user.ID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, tutorial)
}

func (s *HTTPServer) TutorialCreate(c echo.Context) error {
	user, err := GetUserFromContext(c)
	if err != nil {
		return err
	}

	req := TutorialCreateReq{}
	if err := BindAndValidate(c, &req); err != nil {
		return err
	}

	tutorial, err := s.tutorials.Create(c.Request().Context(), user.ID, req.URL)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, tutorial)
}

func (s *HTTPServer) TutorialUpdate(c echo.Context) error {
	user, err := GetUserFromContext(c)
	if err != nil {
		return err
	}
	id, err := GetAndParseParam(c, "id")
	if err != nil {
		return err
	}

	req := TutorialUpdateReq{}
	if err := BindAndValidate(c, &req); err != nil {
		return err
	}

	tutorial, err := s.tutorials.Update(id, user.ID, service.TutorialUpdate{
		Title:       req.Title,
		Channel:     req.Channel,
		Description: req.Description,
		Watched:     req.Watched,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, tutorial)
}

func (s *HTTPServer) TutorialDelete(c echo.Context) error {
	user, err := GetUserFromContext(c)
	if err != nil {
		return err
	}
	id, err := GetAndParseParam(c, "id")
	if err != nil {
		return err
	}

	if err := s.tutorials.Delete(id, user.ID); err != nil {
		return err
	}
	return respond(c, http.StatusOK, map[string]interface{}{})
}

func (s *HTTPServer) TutorialToggle(c echo.Context) error {
	user, err := GetUserFromContext(c)
	if err != nil {
		return err
	}
	id, err := GetAndParseParam(c, "id")
	if err != nil {
		return err
	}

	tutorial, err := s.tutorials.ToggleWatched(id, user.ID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, tutorial)
}

// Ideas

func (s *HTTPServer) IdeaList(c echo.Context) error {
	user, err := GetUserFromContext(c)
	if err != nil {
		return err
	}

	ideas, err := s.ideas.List(user.ID, c.QueryParam("category"), c.QueryParam("search"))
	if err != nil {
		return err
	}
	return respondList(c, ideas, len(ideas))
}

func (s *HTTPServer) IdeaGet(c echo.Context) error {
	user, err := GetUserFromContext(c)
	if err != nil {
		return err
	}
	id, err := GetAndParseParam(c, "id")
	if err != nil {
		return err
	}

	idea, err := s.ideas.Get(id, user.ID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, idea)
}

func (s *HTTPServer) IdeaCreate(c echo.Context) error {
	user, err := GetUserFromContext(c)
	if err != nil {
		return err
	}

	req := IdeaCreateReq{}
	if err := BindAndValidate(c, &req); err != nil {
		return err
	}

	idea, err := s.ideas.Create(user.ID, req.Title, req.Content, req.Tags, req.Category)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, idea)
}

func (s *HTTPServer) IdeaUpdate(c echo.Context) error {
	user, err := GetUserFromContext(c)
	if err != nil {
		return err
	}
	id, err := GetAndParseParam(c, "id")
	if err != nil {
		return err
	}

	req := IdeaUpdateReq{}
	if err := BindAndValidate(c, &req); err != nil {
		return err
	}

	idea, err := s.ideas.Update(id, user.ID, service.IdeaUpdate{
		Title:    req.Title,
		Content:  req.Content,
		Tags:     req.Tags,
		Category: req.Category,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, idea)
}

func (s *HTTPServer) IdeaDelete(c echo.Context) error {
	user, err := GetUserFromContext(c)
	if err != nil {
		return err
	}
	id, err := GetAndParseParam(c, "id")
	if err != nil {
		return err
	}

	if err := s.ideas.Delete(id, user.ID); err != nil {
		return err
	}
	return respond(c, http.StatusOK, map[string]interface{}{})
}

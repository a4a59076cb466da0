package transport

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func (s *HTTPServer) StatsSummary(c echo.Context) error {
	user, err := GetUserFromContext(c)
	if err != nil {
		return err
	}

	summary, err := s.stats.Summary(user.ID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, summary)
}

func (s *HTTPServer) SearchAll(c echo.Context) error {
	user, err := GetUserFromContext(c)
	if err != nil {
		return err
	}

	query := c.QueryParam("q")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query parameter 'q' is required")
	}

	hits, err := s.stats.SearchAll(
		user.ID,
		query,
		c.QueryParam("type"),
		c.QueryParam("priority"),
		c.QueryParam("sort"),
	)
	if err != nil {
		return err
	}
	return respondList(c, hits, len(hits))
}

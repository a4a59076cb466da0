package transport

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func (s *HTTPServer) Register(c echo.Context) error {
	req := RegisterReq{}
	if err := BindAndValidate(c, &req); err != nil {
		return err
	}

	user, token, err := s.auth.Register(req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, Envelope{Success: true, Token: token, Data: user})
}

func (s *HTTPServer) Login(c echo.Context) error {
	req := LoginReq{}
	if err := BindAndValidate(c, &req); err != nil {
		return err
	}

	user, token, err := s.auth.Login(req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, Envelope{Success: true, Token: token, Data: user})
}

func (s *HTTPServer) Me(c echo.Context) error {
	user, err := GetUserFromContext(c)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, user)
}

func (s *HTTPServer) UpdateDetails(c echo.Context) error {
	user, err := GetUserFromContext(c)
	if err != nil {
		return err
	}

	req := UpdateDetailsReq{}
	if err := BindAndValidate(c, &req); err != nil {
		return err
	}

	updated, err := s.auth.UpdateDetails(user.ID, req.Name, req.Email)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, updated)
}

func (s *HTTPServer) UpdatePassword(c echo.Context) error {
	user, err := GetUserFromContext(c)
	if err != nil {
		return err
	}

	req := UpdatePasswordReq{}
	if err := BindAndValidate(c, &req); err != nil {
		return err
	}

	updated, token, err := s.auth.UpdatePassword(user.ID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, Envelope{Success: true, Token: token, Data: updated})
}

// ForgotPassword returns the plaintext reset token in the response body;
// there is no mail delivery in this service.
func (s *HTTPServer) ForgotPassword(c echo.Context) error {
	req := ForgotPasswordReq{}
	if err := BindAndValidate(c, &req); err != nil {
		return err
	}

	token, err := s.auth.IssueResetToken(req.Email)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, map[string]string{"resetToken": token})
}

func (s *HTTPServer) ResetPassword(c echo.Context) error {
	resetToken := c.Param("resettoken")
	if resetToken == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid path param 'resettoken'")
	}

	req := ResetPasswordReq{}
	if err := BindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := s.auth.ConsumeResetToken(resetToken, req.Password)
	if err != nil {
		return err
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, Envelope{Success: true, Token: token, Data: user})
}

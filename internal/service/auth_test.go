package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/academic-hub/academic-hub-back/internal/db"
)

func TestRegister(t *testing.T) {
	auth, gdb := testAuth(t)

	t.Run("password is hashed at rest", func(t *testing.T) {
		user, token, err := auth.Register("Test User", "T@Example.com", "password123", "")
		require.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Equal(t, "t@example.com", user.Email)
		assert.Equal(t, db.RoleUser, user.Role)

		stored := db.User{}
		require.NoError(t, gdb.First(&stored, user.ID).Error)
		assert.NotEqual(t, "password123", stored.Password)
		assert.Greater(t, len(stored.Password), len("password123"))
	})

	t.Run("duplicate email is rejected case-insensitively", func(t *testing.T) {
		_, _, err := auth.Register("Other User", "t@EXAMPLE.com", "password456", "")
		assert.ErrorIs(t, err, ErrDuplicateEmail)
	})

	t.Run("short password is rejected", func(t *testing.T) {
		_, _, err := auth.Register("Test User", "short@example.com", "12345", "")
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("unknown role is rejected", func(t *testing.T) {
		_, _, err := auth.Register("Test User", "role@example.com", "password123", "root")
		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestLogin(t *testing.T) {
	auth, _ := testAuth(t)
	created := registerUser(t, auth, "t@example.com")

	t.Run("valid credentials resolve to the same user", func(t *testing.T) {
		user, token, err := auth.Login("t@example.com", "password123")
		require.NoError(t, err)
		assert.Equal(t, created.ID, user.ID)

		userID, err := testTokenService().Verify(token)
		require.NoError(t, err)
		assert.Equal(t, created.ID, userID)
	})

	t.Run("wrong password and unknown email fail identically", func(t *testing.T) {
		_, _, errPass := auth.Login("t@example.com", "wrongpassword")
		_, _, errMail := auth.Login("unknown@example.com", "password123")
		assert.ErrorIs(t, errPass, ErrInvalidCredentials)
		assert.ErrorIs(t, errMail, ErrInvalidCredentials)
	})
}

func TestUpdateDetails(t *testing.T) {
	auth, _ := testAuth(t)
	user := registerUser(t, auth, "a@example.com")
	registerUser(t, auth, "b@example.com")

	t.Run("rename", func(t *testing.T) {
		name := "Renamed"
		updated, err := auth.UpdateDetails(user.ID, &name, nil)
		require.NoError(t, err)
		assert.Equal(t, "Renamed", updated.Name)
	})

	t.Run("taken email is rejected", func(t *testing.T) {
		email := "B@example.com"
		_, err := auth.UpdateDetails(user.ID, nil, &email)
		assert.ErrorIs(t, err, ErrDuplicateEmail)
	})
}

func TestUpdatePassword(t *testing.T) {
	auth, _ := testAuth(t)
	user := registerUser(t, auth, "t@example.com")

	t.Run("wrong current password", func(t *testing.T) {
		_, _, err := auth.UpdatePassword(user.ID, "wrongpassword", "newpassword1")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("success rotates password and token", func(t *testing.T) {
		_, token, err := auth.UpdatePassword(user.ID, "password123", "newpassword1")
		require.NoError(t, err)
		assert.NotEmpty(t, token)

		_, _, err = auth.Login("t@example.com", "newpassword1")
		assert.NoError(t, err)
		_, _, err = auth.Login("t@example.com", "password123")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestResetTokenFlow(t *testing.T) {
	auth, gdb := testAuth(t)
	user := registerUser(t, auth, "t@example.com")

	t.Run("unknown email", func(t *testing.T) {
		_, err := auth.IssueResetToken("unknown@example.com")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("token is stored hashed and consumable once", func(t *testing.T) {
		plaintext, err := auth.IssueResetToken("t@example.com")
		require.NoError(t, err)
		require.NotEmpty(t, plaintext)

		stored := db.User{}
		require.NoError(t, gdb.First(&stored, user.ID).Error)
		require.NotNil(t, stored.ResetPasswordToken)
		assert.NotEqual(t, plaintext, *stored.ResetPasswordToken)

		reset, err := auth.ConsumeResetToken(plaintext, "resetpass1")
		require.NoError(t, err)
		assert.Equal(t, user.ID, reset.ID)

		_, _, err = auth.Login("t@example.com", "resetpass1")
		assert.NoError(t, err)

		// fields cleared after use
		stored = db.User{}
		require.NoError(t, gdb.First(&stored, user.ID).Error)
		assert.Nil(t, stored.ResetPasswordToken)
		assert.Nil(t, stored.ResetPasswordExpire)

		// second consume with the same token fails generically
		_, err = auth.ConsumeResetToken(plaintext, "resetpass2")
		assert.ErrorIs(t, err, ErrInvalidResetToken)
	})

	t.Run("expired token fails the same way", func(t *testing.T) {
		plaintext, err := auth.IssueResetToken("t@example.com")
		require.NoError(t, err)

		past := time.Now().Add(-time.Minute)
		require.NoError(t, gdb.Model(&db.User{}).
			Where("id = ?", user.ID).
			Update("reset_password_expire", past).Error)

		_, err = auth.ConsumeResetToken(plaintext, "resetpass3")
		assert.ErrorIs(t, err, ErrInvalidResetToken)
	})

	t.Run("short replacement password", func(t *testing.T) {
		plaintext, err := auth.IssueResetToken("t@example.com")
		require.NoError(t, err)

		_, err = auth.ConsumeResetToken(plaintext, "12345")
		assert.ErrorIs(t, err, ErrValidation)
	})
}

package service

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/academic-hub/academic-hub-back/internal/config"
	"github.com/academic-hub/academic-hub-back/internal/db"
)

// testDB opens a fresh in-memory sqlite database per test. The unique
// name keeps gorm's connection pool on the same database.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))
	return gdb
}

func testLogger() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

func testTokenService() *Token {
	return NewToken(&config.Config{
		JWTSecret:     "test-secret",
		JWTExpireDays: 30,
	})
}

func testAuth(t *testing.T) (*Auth, *gorm.DB) {
	t.Helper()
	gdb := testDB(t)
	return NewAuth(gdb, testTokenService(), testLogger()), gdb
}

func registerUser(t *testing.T, auth *Auth, email string) *db.User {
	t.Helper()
	user, _, err := auth.Register("Test User", email, "password123", "")
	require.NoError(t, err)
	return user
}

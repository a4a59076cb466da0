package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/academic-hub/academic-hub-back/internal/config"
	"github.com/academic-hub/academic-hub-back/internal/db"
	"github.com/academic-hub/academic-hub-back/internal/service"
)

type testServer struct {
	server *HTTPServer
	auth   *service.Auth
	tokens *service.Token
	db     *gorm.DB
	videos *stubProvider
}

type stubProvider struct {
	meta *service.VideoMetadata
	err  error
}

func (p *stubProvider) Fetch(_ context.Context, _ string) (*service.VideoMetadata, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.meta, nil
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))

	cfg := &config.Config{
		JWTSecret:     "test-secret",
		JWTExpireDays: 30,
	}
	log := zap.NewNop().Sugar()
	tokens := service.NewToken(cfg)
	auth := service.NewAuth(gdb, tokens, log)
	videos := &stubProvider{
		meta: &service.VideoMetadata{
			Title:    "Intro to Algorithms",
			Channel:  "MIT OpenCourseWare",
			Duration: "1:20:36",
		},
	}

	server := buildServer(HTTPServerParams{
		Config:    cfg,
		DB:        gdb,
		Tokens:    tokens,
		Auth:      auth,
		Subjects:  service.NewSubjects(gdb, log),
		Goals:     service.NewGoals(gdb, log),
		Tutorials: service.NewTutorials(gdb, videos, log),
		Ideas:     service.NewIdeas(gdb, log),
		Stats:     service.NewStats(gdb, log),
		Logger:    log,
	})

	return &testServer{
		server: server,
		auth:   auth,
		tokens: tokens,
		db:     gdb,
		videos: videos,
	}
}

// seedUser creates an identity through the service layer so API-level
// tests do not burn the auth rate budget.
func (ts *testServer) seedUser(t *testing.T, email string) (*db.User, string) {
	t.Helper()
	user, token, err := ts.auth.Register("Test User", email, "password123", "")
	require.NoError(t, err)
	return user, token
}

func (ts *testServer) request(t *testing.T, method, path, token, body string) (*httptest.ResponseRecorder, Envelope) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	ts.server.echo.ServeHTTP(rec, req)

	envelope := Envelope{}
	if strings.Contains(rec.Header().Get("Content-Type"), "json") && rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	}
	return rec, envelope
}

func dataField(t *testing.T, envelope Envelope, key string) interface{} {
	t.Helper()
	data, ok := envelope.Data.(map[string]interface{})
	require.True(t, ok, "data is not an object")
	return data[key]
}

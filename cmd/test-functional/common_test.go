package test_functional

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Envelope struct {
	Success bool                   `json:"success"`
	Token   string                 `json:"token"`
	Message string                 `json:"message"`
	Data    map[string]interface{} `json:"data"`
}

func TestAuthFlow(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	email := fmt.Sprintf("func-%d@example.com", time.Now().UnixNano())

	registerURL := AppBaseURL
	registerURL.Path = "/api/auth/register"

	got := Envelope{}
	resp, err := resty.New().
		R().
		SetHeader("Content-Type", "application/json").
		SetContext(ctx).
		SetResult(&got).
		SetBody(fmt.Sprintf(`
			{"name": "Functional User", "email": "%s", "password": "password123"}
		`, email)).
		Post(registerURL.String())
	require.Nil(t, err)

	require.Equal(t, http.StatusCreated, resp.StatusCode())
	require.True(t, got.Success)
	require.NotEmpty(t, got.Token)

	meURL := AppBaseURL
	meURL.Path = "/api/auth/me"

	me := Envelope{}
	resp, err = resty.New().
		R().
		SetContext(ctx).
		SetAuthToken(got.Token).
		SetResult(&me).
		Get(meURL.String())
	require.Nil(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode())
	assert.Equal(t, email, me.Data["email"])
}

func TestSubjectCrud(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	email := fmt.Sprintf("crud-%d@example.com", time.Now().UnixNano())

	registerURL := AppBaseURL
	registerURL.Path = "/api/auth/register"

	auth := Envelope{}
	resp, err := resty.New().
		R().
		SetHeader("Content-Type", "application/json").
		SetContext(ctx).
		SetResult(&auth).
		SetBody(fmt.Sprintf(`
			{"name": "Crud User", "email": "%s", "password": "password123"}
		`, email)).
		Post(registerURL.String())
	require.Nil(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode())

	cl := resty.New().SetAuthToken(auth.Token)

	subjectsURL := AppBaseURL
	subjectsURL.Path = "/api/subjects"

	created := Envelope{}
	resp, err = cl.R().
		SetHeader("Content-Type", "application/json").
		SetContext(ctx).
		SetResult(&created).
		SetBody(`{"name": "Math", "topics": ["Algebra", "Calculus"]}`).
		Post(subjectsURL.String())
	require.Nil(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode())

	id := created.Data["id"].(float64)

	progressURL := AppBaseURL
	progressURL.Path = fmt.Sprintf("/api/subjects/%.0f/progress", id)

	// out of bounds for a two-topic subject
	resp, err = cl.R().
		SetHeader("Content-Type", "application/json").
		SetContext(ctx).
		SetBody(`{"completedTopics": 3}`).
		Put(progressURL.String())
	require.Nil(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode())

	deleteURL := AppBaseURL
	deleteURL.Path = fmt.Sprintf("/api/subjects/%.0f", id)

	resp, err = cl.R().
		SetContext(ctx).
		Delete(deleteURL.String())
	require.Nil(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode())
}

package handler_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/findnest/findnest/internal/auth"
	"github.com/findnest/findnest/internal/handler"
	"github.com/findnest/findnest/internal/identity"
	"github.com/findnest/findnest/internal/model"
	"github.com/findnest/findnest/internal/repository/kv"
	"github.com/findnest/findnest/internal/service"
	"github.com/findnest/findnest/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type userStack struct {
	users *handler.UserHandler
	auth  *handler.AuthHandler
}

func newUserStack(t *testing.T) userStack {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s, err := store.NewSQLite(":memory:", logger)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	provider := identity.NewLocal(s, auth.NewPasswordServiceForTest(4), logger)
	svc := service.NewUserService(kv.NewUserRepo(s), provider, logger)

	tokens, err := auth.NewTokenService("test-secret-at-least-16-chars")
	require.NoError(t, err)

	return userStack{
		users: handler.NewUserHandler(svc, logger),
		auth:  handler.NewAuthHandler(provider, tokens, svc, logger),
	}
}

func createUser(t *testing.T, h *handler.UserHandler, body string) model.User {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/users", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.HandleCreate(rr, req)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var user model.User
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&user))
	return user
}

func TestUserHandler_HandleCreate(t *testing.T) {
	stack := newUserStack(t)

	t.Run("valid user", func(t *testing.T) {
		user := createUser(t, stack.users,
			`{"firstName":"Ana","lastName":"Reyes","email":"ana@example.com","password":"s3cret-pass"}`)

		assert.NotEmpty(t, user.ID)
		assert.Equal(t, "ana@example.com", user.Email)
		assert.Empty(t, user.Password, "the password never comes back")
	})

	t.Run("duplicate email", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/users",
			bytes.NewBufferString(`{"email":"ana@example.com","password":"other-pass"}`))
		rr := httptest.NewRecorder()
		stack.users.HandleCreate(rr, req)

		assert.Equal(t, http.StatusBadGateway, rr.Code)

		var errRes handler.ErrorResponse
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&errRes))
		assert.Equal(t, "identity_error", errRes.Error)
	})

	t.Run("missing password", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/users",
			bytes.NewBufferString(`{"email":"new@example.com"}`))
		rr := httptest.NewRecorder()
		stack.users.HandleCreate(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestUserHandler_GetListCount(t *testing.T) {
	stack := newUserStack(t)
	created := createUser(t, stack.users, `{"firstName":"Ana","email":"ana@example.com","password":"s3cret-pass"}`)
	createUser(t, stack.users, `{"firstName":"Ben","email":"ben@example.com","password":"s3cret-pass"}`)

	t.Run("get by id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/users/"+created.ID, nil)
		req.SetPathValue("id", created.ID)
		rr := httptest.NewRecorder()
		stack.users.HandleGetByID(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)

		var user model.User
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&user))
		assert.Equal(t, "Ana", user.FirstName)
	})

	t.Run("missing id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/users/nope", nil)
		req.SetPathValue("id", "nope")
		rr := httptest.NewRecorder()
		stack.users.HandleGetByID(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("list", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
		rr := httptest.NewRecorder()
		stack.users.HandleList(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)

		var users []model.User
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&users))
		assert.Len(t, users, 2)
	})

	t.Run("count", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/users/count", nil)
		rr := httptest.NewRecorder()
		stack.users.HandleCount(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)

		var count int
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&count))
		assert.Equal(t, 2, count)
	})
}

func TestUserHandler_HandleProfilePicture(t *testing.T) {
	stack := newUserStack(t)
	created := createUser(t, stack.users, `{"email":"ana@example.com","password":"s3cret-pass"}`)

	req := httptest.NewRequest(http.MethodPatch,
		"/api/users/"+created.ID+"/profile-picture?profilePictureUrl=https://cdn.example/p.png", nil)
	req.SetPathValue("id", created.ID)
	rr := httptest.NewRecorder()
	stack.users.HandleProfilePicture(rr, req)
	require.Equal(t, http.StatusNoContent, rr.Code)

	// The single-field write must land without touching the rest of the
	// profile.
	req = httptest.NewRequest(http.MethodGet, "/api/users/"+created.ID, nil)
	req.SetPathValue("id", created.ID)
	rr = httptest.NewRecorder()
	stack.users.HandleGetByID(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var user model.User
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&user))
	assert.Equal(t, "https://cdn.example/p.png", user.ProfilePicture)
	assert.Equal(t, "ana@example.com", user.Email)

	t.Run("missing url", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPatch, "/api/users/"+created.ID+"/profile-picture", nil)
		req.SetPathValue("id", created.ID)
		rr := httptest.NewRecorder()
		stack.users.HandleProfilePicture(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestUserHandler_HandleDelete(t *testing.T) {
	stack := newUserStack(t)
	created := createUser(t, stack.users, `{"email":"ana@example.com","password":"s3cret-pass"}`)

	req := httptest.NewRequest(http.MethodDelete, "/api/users/"+created.ID, nil)
	req.SetPathValue("id", created.ID)
	rr := httptest.NewRecorder()
	stack.users.HandleDelete(rr, req)
	require.Equal(t, http.StatusNoContent, rr.Code)

	// The identity is gone, so the same email can register again.
	createUser(t, stack.users, `{"email":"ana@example.com","password":"s3cret-pass"}`)
}

func TestAuthHandler_LoginAndMe(t *testing.T) {
	stack := newUserStack(t)
	created := createUser(t, stack.users,
		`{"firstName":"Ana","email":"ana@example.com","password":"s3cret-pass"}`)

	t.Run("wrong password", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
			bytes.NewBufferString(`{"email":"ana@example.com","password":"wrong"}`))
		rr := httptest.NewRecorder()
		stack.auth.HandleLogin(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("unknown email", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
			bytes.NewBufferString(`{"email":"ghost@example.com","password":"s3cret-pass"}`))
		rr := httptest.NewRecorder()
		stack.auth.HandleLogin(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code,
			"unknown email and wrong password must be indistinguishable")
	})

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		bytes.NewBufferString(`{"email":"ana@example.com","password":"s3cret-pass"}`))
	rr := httptest.NewRecorder()
	stack.auth.HandleLogin(rr, req)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&login))
	require.NotEmpty(t, login.Token)

	tokens, err := auth.NewTokenService("test-secret-at-least-16-chars")
	require.NoError(t, err)

	protected := auth.RequireAuth(tokens)(http.HandlerFunc(stack.auth.HandleMe))

	req = httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+login.Token)
	rr = httptest.NewRecorder()
	protected.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var me model.User
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&me))
	assert.Equal(t, created.ID, me.ID)
	assert.Equal(t, "Ana", me.FirstName)
}

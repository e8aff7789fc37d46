package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"gooxalert/internal/model"
	"gooxalert/internal/service"
	"gooxalert/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAuthService struct {
	user         *model.User
	signalements []model.Signalement
	tokens       *utils.TokenPair
	access       string
	telephone    string
	err          error
}

func (s *stubAuthService) Register(ctx context.Context, req model.RegisterRequest) (*model.User, error) {
	return s.user, s.err
}

func (s *stubAuthService) Login(ctx context.Context, telephone, password string) (*model.User, []model.Signalement, *utils.TokenPair, error) {
	return s.user, s.signalements, s.tokens, s.err
}

func (s *stubAuthService) Tokens(ctx context.Context, telephone, password string) (*utils.TokenPair, error) {
	return s.tokens, s.err
}

func (s *stubAuthService) Refresh(refreshToken string) (string, error) {
	return s.access, s.err
}

func (s *stubAuthService) ChangePassword(ctx context.Context, userID int, oldPassword, newPassword string) (*utils.TokenPair, error) {
	return s.tokens, s.err
}

func (s *stubAuthService) RequestPasswordReset(ctx context.Context, telephone string) (string, error) {
	return s.telephone, s.err
}

func (s *stubAuthService) ResetPassword(ctx context.Context, telephone, code, newPassword string) (*utils.TokenPair, error) {
	return s.tokens, s.err
}

func setupAuthRouter(svc service.AuthService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("/api")
	NewAuthHandler(svc).RegisterAuthRoutes(api, func(c *gin.Context) { c.Next() })
	return r
}

func postJSON(r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", path, bytes.NewBuffer(raw))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestRegisterHandler_Success(t *testing.T) {
	user := &model.User{ID: 1, FullName: "Awa Diop", Telephone: "00221771234567",
		Commune: "Dakar", Role: model.RoleUser, PasswordHash: "secret-hash"}
	router := setupAuthRouter(&stubAuthService{user: user})

	w := postJSON(router, "/api/register/", gin.H{
		"full_name": "Awa Diop",
		"telephone": "771234567",
		"commune":   "Dakar",
		"password":  "secret123",
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "success", body["status"])

	// The password hash must never leak into the response.
	assert.NotContains(t, w.Body.String(), "secret-hash")
	assert.NotContains(t, w.Body.String(), "password")
}

func TestRegisterHandler_ShortPassword(t *testing.T) {
	router := setupAuthRouter(&stubAuthService{})

	w := postJSON(router, "/api/register/", gin.H{
		"full_name": "Awa Diop",
		"telephone": "771234567",
		"commune":   "Dakar",
		"password":  "123",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "error", decodeBody(t, w)["status"])
}

func TestRegisterHandler_InvalidPhone(t *testing.T) {
	router := setupAuthRouter(&stubAuthService{err: service.ErrInvalidPhone})

	w := postJSON(router, "/api/register/", gin.H{
		"full_name": "Awa Diop",
		"telephone": "123456789",
		"commune":   "Dakar",
		"password":  "secret123",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "error", body["status"])
	errs, ok := body["errors"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, errs, "telephone")
}

func TestRegisterHandler_DuplicatePhone(t *testing.T) {
	router := setupAuthRouter(&stubAuthService{err: service.ErrPhoneAlreadyRegistered})

	w := postJSON(router, "/api/register/", gin.H{
		"full_name": "Awa Diop",
		"telephone": "771234567",
		"commune":   "Dakar",
		"password":  "secret123",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginHandler_Success(t *testing.T) {
	user := &model.User{ID: 1, Telephone: "00221771234567", Role: model.RoleUser}
	tokens := &utils.TokenPair{Access: "access-token", Refresh: "refresh-token"}
	router := setupAuthRouter(&stubAuthService{user: user, tokens: tokens})

	w := postJSON(router, "/api/login/", gin.H{"telephone": "771234567", "password": "secret123"})

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "success", body["status"])

	gotTokens, ok := body["tokens"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "access-token", gotTokens["access"])
	assert.Equal(t, "refresh-token", gotTokens["refresh"])

	// No reports yet: the list serializes as an empty array, not null.
	assert.Equal(t, []any{}, body["signalements"])
}

func TestLoginHandler_BadCredentials(t *testing.T) {
	router := setupAuthRouter(&stubAuthService{err: service.ErrInvalidCredentials})

	w := postJSON(router, "/api/login/", gin.H{"telephone": "771234567", "password": "wrong"})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "error", decodeBody(t, w)["status"])
}

func TestTokenRefreshHandler_InvalidToken(t *testing.T) {
	router := setupAuthRouter(&stubAuthService{err: assert.AnError})

	w := postJSON(router, "/api/token/refresh/", gin.H{"refresh": "bogus"})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequestPasswordResetHandler_UnknownPhone(t *testing.T) {
	router := setupAuthRouter(&stubAuthService{err: service.ErrUserNotFound})

	w := postJSON(router, "/api/demande-reinitialisation/", gin.H{"telephone": "771234567"})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestResetPasswordHandler_BadCode(t *testing.T) {
	router := setupAuthRouter(&stubAuthService{err: service.ErrInvalidResetCode})

	w := postJSON(router, "/api/reinitialiser-mot-de-passe/", gin.H{
		"telephone":    "771234567",
		"code":         "000000",
		"new_password": "brandnew1",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInternalErrorIsOpaque(t *testing.T) {
	router := setupAuthRouter(&stubAuthService{err: assert.AnError})

	w := postJSON(router, "/api/register/", gin.H{
		"full_name": "Awa Diop",
		"telephone": "771234567",
		"commune":   "Dakar",
		"password":  "secret123",
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	// The raw error text stays server-side.
	assert.NotContains(t, w.Body.String(), assert.AnError.Error())
}

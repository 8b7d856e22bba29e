package middleware

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uad-deukouway/housing-api/internal/models"
	"github.com/uad-deukouway/housing-api/internal/service"
)

type loaderStub struct {
	user *models.User
}

func (l *loaderStub) FindByID(ctx context.Context, id string) (*models.User, error) {
	if l.user == nil {
		return nil, sql.ErrNoRows
	}
	return l.user, nil
}

func newSessionAuth() *service.AuthService {
	return service.NewAuthService(nil, nil, nil, service.AuthServiceConfig{Secret: "secret", SessionTTL: time.Hour})
}

func protectedEngine(auth *service.AuthService, loader *loaderStub, adminOnly bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := []gin.HandlerFunc{Session(auth, loader)}
	if adminOnly {
		handlers = append(handlers, RequireAdmin())
	}
	handlers = append(handlers, func(c *gin.Context) {
		user, _ := CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"id": user.ID, "role": user.Role})
	})
	r.GET("/protected", handlers...)
	return r
}

func TestSessionRejectsMissingCookie(t *testing.T) {
	r := protectedEngine(newSessionAuth(), &loaderStub{}, false)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSessionRejectsGarbageToken(t *testing.T) {
	r := protectedEngine(newSessionAuth(), &loaderStub{user: &models.User{ID: "u1"}}, false)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "not-a-token"})
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSessionRejectsDeletedAccount(t *testing.T) {
	auth := newSessionAuth()
	token, err := auth.IssueToken(&models.User{ID: "gone", Email: "gone@example.com"})
	require.NoError(t, err)

	r := protectedEngine(auth, &loaderStub{}, false)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSessionLoadsFreshRole(t *testing.T) {
	auth := newSessionAuth()
	// token was issued while the account was a student; the store now says
	// admin, and the store wins
	token, err := auth.IssueToken(&models.User{ID: "u1", Email: "u1@example.com", Role: models.RoleStudent})
	require.NoError(t, err)

	loader := &loaderStub{user: &models.User{ID: "u1", Role: models.RoleAdmin}}
	r := protectedEngine(auth, loader, true)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireAdminForbidsStudents(t *testing.T) {
	auth := newSessionAuth()
	token, err := auth.IssueToken(&models.User{ID: "u1", Email: "u1@example.com"})
	require.NoError(t, err)

	loader := &loaderStub{user: &models.User{ID: "u1", Role: models.RoleStudent}}
	r := protectedEngine(auth, loader, true)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestOptionalSessionPassesAnonymous(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/open", OptionalSession(newSessionAuth(), &loaderStub{}), func(c *gin.Context) {
		_, ok := CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"authenticated": ok})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/open", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "false")
}

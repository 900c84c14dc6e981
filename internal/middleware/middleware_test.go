package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/business-management-api/internal/access"
	"github.com/yukikurage/business-management-api/internal/auth"
	"github.com/yukikurage/business-management-api/internal/constants"
	"github.com/yukikurage/business-management-api/internal/models"
	"github.com/yukikurage/business-management-api/internal/repository"
	"github.com/yukikurage/business-management-api/internal/testutil"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func authRouter(t *testing.T) (*gin.Engine, *auth.TokenManager, *models.User, *repository.Repositories) {
	t.Helper()
	db := testutil.NewDB(t)
	repos := repository.New(db)
	tokens := auth.NewTokenManager("secret", "test", time.Hour, time.Hour, time.Minute)
	user := testutil.CreateUser(t, db, "alice", models.RoleAdmin)

	r := gin.New()
	r.GET("/me", RequireAuth(access.NewGate(tokens), repos.Users), func(c *gin.Context) {
		current, ok := CurrentUser(c)
		require.True(t, ok)
		id, ok := GetUserID(c)
		require.True(t, ok)
		assert.Equal(t, current.ID, id)
		c.JSON(http.StatusOK, gin.H{"email": current.Email})
	})
	return r, tokens, user, repos
}

func get(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set(constants.HeaderAuthorization, "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAuth(t *testing.T) {
	r, tokens, user, repos := authRouter(t)

	accessToken, err := tokens.Issue(user.ID, auth.TokenAccess)
	require.NoError(t, err)
	w := get(r, "/me", accessToken)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "alice@example.com")

	assert.Equal(t, http.StatusUnauthorized, get(r, "/me", "").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "/me", "garbage").Code)

	refresh, err := tokens.Issue(user.ID, auth.TokenRefresh)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, get(r, "/me", refresh).Code, "refresh tokens are not access tokens")

	ghost, err := tokens.Issue(9999, auth.TokenAccess)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, get(r, "/me", ghost).Code)

	_, err = repos.Users.Update(context.Background(), user.ID, map[string]interface{}{"is_active": false})
	require.NoError(t, err)
	w = get(r, "/me", accessToken)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "ACCOUNT_DISABLED")
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), Logger(zap.NewNop()))
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(constants.ContextKeyRequestID))
	})

	w := get(r, "/ping", "")
	generated := w.Header().Get(constants.HeaderRequestID)
	assert.Len(t, generated, 36)
	assert.Equal(t, generated, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(constants.HeaderRequestID, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(constants.HeaderRequestID))
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(Recovery(zap.NewNop()))
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := get(r, "/boom", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
}

func TestRequireIDParams(t *testing.T) {
	r := gin.New()
	r.GET("/orgs/:org_id/departments/:dept_id", RequireIDParams("org_id", "dept_id"), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"org": ParamID(c, "org_id"), "dept": ParamID(c, "dept_id")})
	})

	w := get(r, "/orgs/3/departments/7", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"org":3,"dept":7}`, w.Body.String())

	assert.Equal(t, http.StatusBadRequest, get(r, "/orgs/abc/departments/7", "").Code)
	assert.Equal(t, http.StatusBadRequest, get(r, "/orgs/3/departments/0", "").Code)
	assert.Equal(t, http.StatusBadRequest, get(r, "/orgs/-1/departments/7", "").Code)
}

func TestRateLimit(t *testing.T) {
	limit, err := RateLimit(nil, "2-M")
	require.NoError(t, err)

	r := gin.New()
	r.POST("/auth/signin", limit, func(c *gin.Context) { c.Status(http.StatusNoContent) })

	codes := make([]int, 3)
	for i := range codes {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/auth/signin", nil))
		codes[i] = w.Code
	}
	assert.Equal(t, []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests}, codes)

	_, err = RateLimit(nil, "ten per minute")
	assert.Error(t, err)
}

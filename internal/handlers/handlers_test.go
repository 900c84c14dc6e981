package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/business-management-api/internal/access"
	"github.com/yukikurage/business-management-api/internal/auth"
	"github.com/yukikurage/business-management-api/internal/cache"
	"github.com/yukikurage/business-management-api/internal/constants"
	"github.com/yukikurage/business-management-api/internal/models"
	"github.com/yukikurage/business-management-api/internal/notify"
	"github.com/yukikurage/business-management-api/internal/repository"
	"github.com/yukikurage/business-management-api/internal/services"
	"github.com/yukikurage/business-management-api/internal/testutil"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type outbox struct {
	mu   sync.Mutex
	sent []notify.Invitation
}

func (o *outbox) EnqueueInvitation(_ context.Context, inv notify.Invitation) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sent = append(o.sent, inv)
}

type apiTestEnv struct {
	t       *testing.T
	db      *gorm.DB
	router  *gin.Engine
	tokens  *auth.TokenManager
	invites *cache.MemoryCache
	outbox  *outbox
}

func setupAPITestEnv(t *testing.T) *apiTestEnv {
	t.Helper()

	db := testutil.NewDB(t)
	repos := repository.New(db)
	log := zap.NewNop()
	tokens := auth.NewTokenManager("test-secret", "test", time.Hour, 2*time.Hour, time.Minute)
	hasher := auth.NewHasher(bcrypt.MinCost)
	invites := cache.NewMemoryCache()
	box := &outbox{}

	taskService := services.NewTaskService(repos, log)
	router, err := NewRouter(RouterConfig{
		Log:        log,
		Gate:       access.NewGate(tokens),
		UserLoader: repos.Users,
	}, Services{
		Auth:          services.NewAuthService(repos, tokens, hasher, invites, log),
		Users:         services.NewUserService(repos, tokens, hasher, log),
		Organizations: services.NewOrganizationService(repos, invites, box, time.Hour, log),
		Departments:   services.NewDepartmentService(repos, log),
		Meetings:      services.NewMeetingService(repos, log),
		Tasks:         taskService,
		AI:            services.NewAIService(repos, ""),
	})
	require.NoError(t, err)

	return &apiTestEnv{t: t, db: db, router: router, tokens: tokens, invites: invites, outbox: box}
}

func (e *apiTestEnv) token(user *models.User) string {
	e.t.Helper()
	token, err := e.tokens.Issue(user.ID, auth.TokenAccess)
	require.NoError(e.t, err)
	return token
}

func (e *apiTestEnv) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	e.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(e.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(constants.HeaderAuthorization, "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

// tenant seeds an organization with an Engineering department holding a
// manager (owner role) and a worker (contributor role).
type tenant struct {
	admin, manager, worker *models.User
	org                    *models.Organization
	dept                   *models.Department
	managerEmp, workerEmp  *models.Employee
}

func (e *apiTestEnv) seedTenant() tenant {
	t := e.t
	var tn tenant
	tn.admin = testutil.CreateUser(t, e.db, "admin", models.RoleAdmin)
	tn.org = testutil.CreateOrganization(t, e.db, tn.admin, "Acme")
	testutil.CreateEmployee(t, e.db, tn.admin, tn.org, nil, models.RoleAdmin)
	tn.dept = testutil.CreateDepartment(t, e.db, tn.org, "Engineering")
	tn.manager = testutil.CreateUser(t, e.db, "manager", models.RoleViewer)
	tn.managerEmp = testutil.CreateEmployee(t, e.db, tn.manager, tn.org, tn.dept, models.RoleOwner)
	tn.worker = testutil.CreateUser(t, e.db, "worker", models.RoleViewer)
	tn.workerEmp = testutil.CreateEmployee(t, e.db, tn.worker, tn.org, tn.dept, models.RoleContributor)
	return tn
}

func (tn tenant) path(suffix string) string {
	return fmt.Sprintf("/api/v1/organizations/%d%s", tn.org.ID, suffix)
}

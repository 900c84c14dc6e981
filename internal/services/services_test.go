package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/yukikurage/business-management-api/internal/auth"
	"github.com/yukikurage/business-management-api/internal/cache"
	"github.com/yukikurage/business-management-api/internal/models"
	"github.com/yukikurage/business-management-api/internal/notify"
	"github.com/yukikurage/business-management-api/internal/repository"
	"github.com/yukikurage/business-management-api/internal/testutil"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type recordingSender struct {
	mu   sync.Mutex
	sent []notify.Invitation
}

func (r *recordingSender) EnqueueInvitation(_ context.Context, inv notify.Invitation) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, inv)
}

// env is a seeded tenant: an admin who created Acme, an Engineering
// department with an owner-role manager and a contributor, and a Sales
// department with its own contributor.
type env struct {
	t     *testing.T
	ctx   context.Context
	db    *gorm.DB
	repos *repository.Repositories

	tokens  *auth.TokenManager
	hasher  *auth.Hasher
	invites *cache.MemoryCache
	sender  *recordingSender

	admin       *models.User
	org         *models.Organization
	engineering *models.Department
	sales       *models.Department

	adminEmp    *models.Employee
	managerUser *models.User
	manager     *models.Employee
	workerUser  *models.User
	worker      *models.Employee
	sellerUser  *models.User
	seller      *models.Employee
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := testutil.NewDB(t)
	e := &env{
		t:       t,
		ctx:     context.Background(),
		db:      db,
		repos:   repository.New(db),
		tokens:  auth.NewTokenManager("test-secret", "test", time.Hour, 2*time.Hour, time.Minute),
		hasher:  auth.NewHasher(bcrypt.MinCost),
		invites: cache.NewMemoryCache(),
		sender:  &recordingSender{},
	}

	e.admin = testutil.CreateUser(t, db, "admin", models.RoleAdmin)
	e.org = testutil.CreateOrganization(t, db, e.admin, "Acme")
	e.adminEmp = testutil.CreateEmployee(t, db, e.admin, e.org, nil, models.RoleAdmin)
	e.engineering = testutil.CreateDepartment(t, db, e.org, "Engineering")
	e.sales = testutil.CreateDepartment(t, db, e.org, "Sales")

	e.managerUser = testutil.CreateUser(t, db, "manager", models.RoleViewer)
	e.manager = testutil.CreateEmployee(t, db, e.managerUser, e.org, e.engineering, models.RoleOwner)
	e.workerUser = testutil.CreateUser(t, db, "worker", models.RoleViewer)
	e.worker = testutil.CreateEmployee(t, db, e.workerUser, e.org, e.engineering, models.RoleContributor)
	e.sellerUser = testutil.CreateUser(t, db, "seller", models.RoleViewer)
	e.seller = testutil.CreateEmployee(t, db, e.sellerUser, e.org, e.sales, models.RoleContributor)
	return e
}

func (e *env) log() *zap.Logger {
	return zap.NewNop()
}

func (e *env) authService() *AuthService {
	return NewAuthService(e.repos, e.tokens, e.hasher, e.invites, e.log())
}

func (e *env) userService() *UserService {
	return NewUserService(e.repos, e.tokens, e.hasher, e.log())
}

func (e *env) organizationService() *OrganizationService {
	return NewOrganizationService(e.repos, e.invites, e.sender, time.Hour, e.log())
}

func (e *env) departmentService() *DepartmentService {
	return NewDepartmentService(e.repos, e.log())
}

func (e *env) meetingService() *MeetingService {
	return NewMeetingService(e.repos, e.log())
}

func (e *env) taskService() *TaskService {
	return NewTaskService(e.repos, e.log())
}

// newMember adds a user employed in dept (nil for none) with role.
func (e *env) newMember(username string, dept *models.Department, role models.RoleName) (*models.User, *models.Employee) {
	user := testutil.CreateUser(e.t, e.db, username, models.RoleViewer)
	return user, testutil.CreateEmployee(e.t, e.db, user, e.org, dept, role)
}

// nowPlus returns a deadline hours from now, truncated for stable comparisons.
func nowPlus(hours int) time.Time {
	return time.Now().Add(time.Duration(hours) * time.Hour).Truncate(time.Second)
}

func (e *env) count(model interface{}) int64 {
	var n int64
	if err := e.db.Model(model).Count(&n).Error; err != nil {
		e.t.Fatalf("count: %v", err)
	}
	return n
}

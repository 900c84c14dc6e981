package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/business-management-api/internal/dto"
	"github.com/yukikurage/business-management-api/internal/models"
	"github.com/yukikurage/business-management-api/internal/services"
	"github.com/yukikurage/business-management-api/internal/testutil"
)

func TestOrganizationHandler_CreateAndList(t *testing.T) {
	env := setupAPITestEnv(t)
	admin := testutil.CreateUser(t, env.db, "founder", models.RoleAdmin)
	token := env.token(admin)

	w := env.do(http.MethodPost, "/api/v1/organizations", token, map[string]string{"name": "New Org", "description": "d"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created dto.OrganizationDTO
	decode(t, w, &created)
	assert.Equal(t, "New Org", created.Name)
	assert.Equal(t, admin.ID, created.CreatedBy)

	w = env.do(http.MethodGet, "/api/v1/organizations", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var orgs []dto.OrganizationDTO
	decode(t, w, &orgs)
	require.Len(t, orgs, 1)
	assert.Equal(t, created.ID, orgs[0].ID)

	w = env.do(http.MethodGet, fmt.Sprintf("/api/v1/organizations/%d", created.ID), token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(http.MethodPost, "/api/v1/organizations", token, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOrganizationHandler_CreateRequiresAdminAccount(t *testing.T) {
	env := setupAPITestEnv(t)
	viewer := testutil.CreateUser(t, env.db, "viewer", models.RoleViewer)

	w := env.do(http.MethodPost, "/api/v1/organizations", env.token(viewer), map[string]string{"name": "Nope"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestOrganizationHandler_UpdateAndDelete(t *testing.T) {
	env := setupAPITestEnv(t)
	tn := env.seedTenant()

	w := env.do(http.MethodPatch, tn.path(""), env.token(tn.manager), map[string]string{"name": "Hijacked"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(http.MethodPatch, tn.path(""), env.token(tn.admin), map[string]string{"description": "Updated"})
	require.Equal(t, http.StatusOK, w.Code)
	var updated dto.OrganizationDTO
	decode(t, w, &updated)
	assert.Equal(t, "Acme", updated.Name)
	assert.Equal(t, "Updated", updated.Description)

	w = env.do(http.MethodGet, "/api/v1/organizations/abc", env.token(tn.admin), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(http.MethodDelete, tn.path(""), env.token(tn.admin), nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = env.do(http.MethodGet, tn.path(""), env.token(tn.admin), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestOrganizationHandler_InviteAndJoin(t *testing.T) {
	env := setupAPITestEnv(t)
	tn := env.seedTenant()

	w := env.do(http.MethodPost, tn.path("/invite"), env.token(tn.admin), map[string]string{"email": "newbie@example.com"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var result services.InvitationResult
	decode(t, w, &result)
	assert.Equal(t, services.InvitationStatusPending, result.Status)
	assert.Equal(t, "Acme", result.OrganizationName)
	assert.NotContains(t, w.Body.String(), "code")

	require.Len(t, env.outbox.sent, 1)
	code := env.outbox.sent[0].Code
	require.NotEmpty(t, code)

	w = env.do(http.MethodPost, "/api/v1/auth/signup?code="+code, "", map[string]string{
		"username": "newbie",
		"email":    "newbie@example.com",
		"password": strongPassword,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var joined dto.UserDTO
	decode(t, w, &joined)
	assert.Equal(t, models.RoleViewer, joined.Role)

	w = env.do(http.MethodGet, tn.path("/employees"), env.token(tn.admin), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var employees dto.ListResponse[dto.EmployeeDTO]
	decode(t, w, &employees)
	assert.Equal(t, int64(4), employees.Pagination.Total)

	// The code is single use.
	w = env.do(http.MethodPost, "/api/v1/auth/signup?code="+code, "", map[string]string{
		"username": "again",
		"email":    "again@example.com",
		"password": strongPassword,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOrganizationHandler_InviteRequiresCreator(t *testing.T) {
	env := setupAPITestEnv(t)
	tn := env.seedTenant()

	w := env.do(http.MethodPost, tn.path("/invite"), env.token(tn.manager), map[string]string{"email": "x@example.com"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = env.do(http.MethodPost, tn.path("/invite"), env.token(tn.admin), map[string]string{"email": "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, env.outbox.sent)
}

func TestOrganizationHandler_RemoveEmployee(t *testing.T) {
	env := setupAPITestEnv(t)
	tn := env.seedTenant()

	w := env.do(http.MethodDelete, tn.path(fmt.Sprintf("/employees/%d", tn.workerEmp.ID)), env.token(tn.admin), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// The dismissed user can no longer authenticate.
	w = env.do(http.MethodGet, "/api/v1/users/me", env.token(tn.worker), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

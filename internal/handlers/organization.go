package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/business-management-api/internal/dto"
	apierrors "github.com/yukikurage/business-management-api/internal/errors"
	"github.com/yukikurage/business-management-api/internal/middleware"
	"github.com/yukikurage/business-management-api/internal/services"
)

type OrganizationHandler struct {
	orgService *services.OrganizationService
}

func NewOrganizationHandler(orgService *services.OrganizationService) *OrganizationHandler {
	return &OrganizationHandler{orgService: orgService}
}

// CreateOrganization creates a new organization
func (h *OrganizationHandler) CreateOrganization(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	type CreateOrgRequest struct {
		Name        string `json:"name" binding:"required,max=255"`
		Description string `json:"description"`
	}

	var req CreateOrgRequest
	if !bindJSON(c, &req) {
		return
	}

	org, err := h.orgService.Create(c.Request.Context(), user, services.OrganizationInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToOrganizationDTO(*org))
}

// ListOrganizations returns all organizations the user is employed by
func (h *OrganizationHandler) ListOrganizations(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	orgs, err := h.orgService.List(c.Request.Context(), user)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	out := make([]dto.OrganizationDTO, len(orgs))
	for i, org := range orgs {
		out[i] = dto.ToOrganizationDTO(org)
	}
	c.JSON(http.StatusOK, out)
}

func (h *OrganizationHandler) GetOrganization(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	org, err := h.orgService.Get(c.Request.Context(), user, middleware.ParamID(c, "org_id"))
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToOrganizationDTO(*org))
}

// UpdateOrganization applies a partial update
func (h *OrganizationHandler) UpdateOrganization(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	type UpdateOrgRequest struct {
		Name        *string `json:"name" binding:"omitempty,max=255"`
		Description *string `json:"description"`
	}

	var req UpdateOrgRequest
	if !bindJSON(c, &req) {
		return
	}

	org, err := h.orgService.Update(c.Request.Context(), user, middleware.ParamID(c, "org_id"), services.OrganizationUpdate{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToOrganizationDTO(*org))
}

func (h *OrganizationHandler) DeleteOrganization(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.orgService.Delete(c.Request.Context(), user, middleware.ParamID(c, "org_id")); err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Organization deleted successfully"})
}

// Invite issues an invitation code and queues the invitation email
func (h *OrganizationHandler) Invite(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	type InviteRequest struct {
		Email string `json:"email" binding:"required,email"`
	}

	var req InviteRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.orgService.Invite(c.Request.Context(), user, middleware.ParamID(c, "org_id"), req.Email)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

func (h *OrganizationHandler) ListEmployees(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	params, ok := listParams(c)
	if !ok {
		return
	}

	employees, total, err := h.orgService.ListEmployees(c.Request.Context(), user, middleware.ParamID(c, "org_id"), params)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewListResponse(employees, dto.ToEmployeeDTO, params, total))
}

// RemoveEmployee dismisses an employee by deactivating their account
func (h *OrganizationHandler) RemoveEmployee(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	employee, err := h.orgService.RemoveEmployee(c.Request.Context(), user,
		middleware.ParamID(c, "org_id"),
		middleware.ParamID(c, "employee_id"),
	)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToEmployeeDTO(*employee))
}

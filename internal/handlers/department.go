package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/business-management-api/internal/dto"
	apierrors "github.com/yukikurage/business-management-api/internal/errors"
	"github.com/yukikurage/business-management-api/internal/middleware"
	"github.com/yukikurage/business-management-api/internal/models"
	"github.com/yukikurage/business-management-api/internal/services"
)

type DepartmentHandler struct {
	deptService *services.DepartmentService
}

func NewDepartmentHandler(deptService *services.DepartmentService) *DepartmentHandler {
	return &DepartmentHandler{deptService: deptService}
}

func (h *DepartmentHandler) CreateDepartment(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	type CreateDepartmentRequest struct {
		Name        string `json:"name" binding:"required,max=255"`
		Description string `json:"description"`
	}

	var req CreateDepartmentRequest
	if !bindJSON(c, &req) {
		return
	}

	dept, err := h.deptService.Create(c.Request.Context(), user, middleware.ParamID(c, "org_id"), services.DepartmentInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToDepartmentDTO(*dept))
}

func (h *DepartmentHandler) ListDepartments(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	params, ok := listParams(c)
	if !ok {
		return
	}

	depts, total, err := h.deptService.List(c.Request.Context(), user, middleware.ParamID(c, "org_id"), params)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewListResponse(depts, dto.ToDepartmentDTO, params, total))
}

func (h *DepartmentHandler) GetDepartment(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	dept, err := h.deptService.Get(c.Request.Context(), user, middleware.ParamID(c, "org_id"), middleware.ParamID(c, "dept_id"))
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToDepartmentDTO(*dept))
}

func (h *DepartmentHandler) UpdateDepartment(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	type UpdateDepartmentRequest struct {
		Name        *string `json:"name" binding:"omitempty,max=255"`
		Description *string `json:"description"`
	}

	var req UpdateDepartmentRequest
	if !bindJSON(c, &req) {
		return
	}

	dept, err := h.deptService.Update(c.Request.Context(), user,
		middleware.ParamID(c, "org_id"),
		middleware.ParamID(c, "dept_id"),
		services.DepartmentUpdate{Name: req.Name, Description: req.Description},
	)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToDepartmentDTO(*dept))
}

// DeleteDepartment removes the department; its employees stay in the
// organization without one.
func (h *DepartmentHandler) DeleteDepartment(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	dept, err := h.deptService.Delete(c.Request.Context(), user, middleware.ParamID(c, "org_id"), middleware.ParamID(c, "dept_id"))
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToDepartmentDTO(*dept))
}

func (h *DepartmentHandler) ListEmployees(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	params, ok := listParams(c)
	if !ok {
		return
	}

	employees, total, err := h.deptService.ListEmployees(c.Request.Context(), user,
		middleware.ParamID(c, "org_id"),
		middleware.ParamID(c, "dept_id"),
		params,
	)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewListResponse(employees, dto.ToEmployeeDTO, params, total))
}

// AddEmployee attaches an employee to the department. Role defaults to
// contributor.
func (h *DepartmentHandler) AddEmployee(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	type AddEmployeeRequest struct {
		EmployeeID uint64           `json:"employee_id" binding:"required"`
		Role       *models.RoleName `json:"role"`
	}

	var req AddEmployeeRequest
	if !bindJSON(c, &req) {
		return
	}

	employee, err := h.deptService.AddEmployee(c.Request.Context(), user,
		middleware.ParamID(c, "org_id"),
		middleware.ParamID(c, "dept_id"),
		req.EmployeeID,
		req.Role,
	)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToEmployeeDTO(*employee))
}

func (h *DepartmentHandler) UpdateEmployee(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	type UpdateEmployeeRequest struct {
		Role models.RoleName `json:"role" binding:"required"`
	}

	var req UpdateEmployeeRequest
	if !bindJSON(c, &req) {
		return
	}

	employee, err := h.deptService.UpdateEmployeeRole(c.Request.Context(), user,
		middleware.ParamID(c, "org_id"),
		middleware.ParamID(c, "dept_id"),
		middleware.ParamID(c, "employee_id"),
		req.Role,
	)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToEmployeeDTO(*employee))
}

// RemoveEmployee detaches the employee and demotes them to viewer.
func (h *DepartmentHandler) RemoveEmployee(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	employee, err := h.deptService.RemoveEmployee(c.Request.Context(), user,
		middleware.ParamID(c, "org_id"),
		middleware.ParamID(c, "dept_id"),
		middleware.ParamID(c, "employee_id"),
	)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToEmployeeDTO(*employee))
}

package dto

import (
	"time"

	"github.com/yukikurage/business-management-api/internal/models"
	"github.com/yukikurage/business-management-api/internal/utils"
)

// ListResponse is the envelope for paginated collections
type ListResponse[T any] struct {
	Data       []T                      `json:"data"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// NewListResponse maps items through convert and attaches pagination metadata.
func NewListResponse[M, T any](items []M, convert func(M) T, params utils.ListParams, total int64) ListResponse[T] {
	data := make([]T, len(items))
	for i, item := range items {
		data[i] = convert(item)
	}
	return ListResponse[T]{Data: data, Pagination: params.Response(total)}
}

// MessageResponse is returned by endpoints without a resource body.
type MessageResponse struct {
	Message string `json:"message"`
}

// UserDTO represents a user in API responses
type UserDTO struct {
	ID        uint64          `json:"id"`
	Username  string          `json:"username"`
	Email     string          `json:"email"`
	IsActive  bool            `json:"is_active"`
	Role      models.RoleName `json:"role,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		IsActive:  user.IsActive,
		Role:      user.Role.Name,
		CreatedAt: user.CreatedAt,
	}
}

// OrganizationDTO represents an organization in API responses
type OrganizationDTO struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedBy   uint64    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}

func ToOrganizationDTO(org models.Organization) OrganizationDTO {
	return OrganizationDTO{
		ID:          org.ID,
		Name:        org.Name,
		Description: org.Description,
		CreatedBy:   org.UserID,
		CreatedAt:   org.CreatedAt,
	}
}

type DepartmentDTO struct {
	ID             uint64    `json:"id"`
	OrganizationID uint64    `json:"organization_id"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	CreatedBy      uint64    `json:"created_by"`
	CreatedAt      time.Time `json:"created_at"`
}

func ToDepartmentDTO(dept models.Department) DepartmentDTO {
	return DepartmentDTO{
		ID:             dept.ID,
		OrganizationID: dept.OrganizationID,
		Name:           dept.Name,
		Description:    dept.Description,
		CreatedBy:      dept.UserID,
		CreatedAt:      dept.CreatedAt,
	}
}

// EmployeeDTO represents an employment record. User is set when loaded.
type EmployeeDTO struct {
	ID             uint64          `json:"id"`
	OrganizationID uint64          `json:"organization_id"`
	DepartmentID   *uint64         `json:"department_id"`
	UserID         uint64          `json:"user_id"`
	Role           models.RoleName `json:"role,omitempty"`
	User           *UserDTO        `json:"user,omitempty"`
}

func ToEmployeeDTO(emp models.Employee) EmployeeDTO {
	dto := EmployeeDTO{
		ID:             emp.ID,
		OrganizationID: emp.OrganizationID,
		DepartmentID:   emp.DepartmentID,
		UserID:         emp.UserID,
		Role:           emp.Role.Name,
	}
	if emp.User.ID != 0 {
		user := ToUserDTO(emp.User)
		dto.User = &user
	}
	return dto
}

func toEmployeeDTOs(employees []models.Employee) []EmployeeDTO {
	out := make([]EmployeeDTO, len(employees))
	for i, emp := range employees {
		out[i] = ToEmployeeDTO(emp)
	}
	return out
}

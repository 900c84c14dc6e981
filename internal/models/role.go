package models

type RoleName string

const (
	RoleAdmin       RoleName = "admin"
	RoleOwner       RoleName = "owner"
	RoleContributor RoleName = "contributor"
	RoleViewer      RoleName = "viewer"
)

type PermissionName string

const (
	PermissionCreate PermissionName = "create"
	PermissionEdit   PermissionName = "edit"
	PermissionDelete PermissionName = "delete"
	PermissionRead   PermissionName = "read"
	PermissionShare  PermissionName = "share"
)

type Role struct {
	ID   uint64   `gorm:"primarykey" json:"id"`
	Name RoleName `gorm:"type:varchar(50);uniqueIndex;not null" json:"name"`

	// Relations
	Permissions []Permission `gorm:"many2many:role_permissions" json:"permissions,omitempty"`
}

type Permission struct {
	ID   uint64         `gorm:"primarykey" json:"id"`
	Name PermissionName `gorm:"type:varchar(50);uniqueIndex;not null" json:"name"`
}

// RolePermission is the join row; the composite key keeps (role, permission) unique.
type RolePermission struct {
	RoleID       uint64 `gorm:"primarykey" json:"role_id"`
	PermissionID uint64 `gorm:"primarykey" json:"permission_id"`
}

package models

type User struct {
	Base
	RoleRef
	Username     string `gorm:"type:varchar(100);uniqueIndex;not null" json:"username"`
	Email        string `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"type:varchar(255);not null" json:"-"`
	IsActive     bool   `gorm:"not null" json:"is_active"`
	IsSuperuser  bool   `gorm:"not null" json:"is_superuser"`

	// Relations
	Role      Role       `gorm:"foreignKey:RoleID" json:"role,omitempty"`
	Employees []Employee `gorm:"foreignKey:UserID" json:"-"`
}

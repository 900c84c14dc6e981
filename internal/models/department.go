package models

type Department struct {
	Base
	OrganizationRef
	UserRef
	Name        string `gorm:"type:varchar(255);uniqueIndex;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`

	// Relations
	Organization Organization `gorm:"foreignKey:OrganizationID" json:"-"`
	Employees    []Employee   `gorm:"foreignKey:DepartmentID" json:"employees,omitempty"`
}

package models

type Organization struct {
	Base
	UserRef
	Name        string `gorm:"type:varchar(255);uniqueIndex;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`

	// Relations
	Creator     User         `gorm:"foreignKey:UserID" json:"-"`
	Departments []Department `gorm:"foreignKey:OrganizationID" json:"departments,omitempty"`
	Employees   []Employee   `gorm:"foreignKey:OrganizationID" json:"employees,omitempty"`
}

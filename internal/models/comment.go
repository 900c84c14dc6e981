package models

type Comment struct {
	Base
	TaskRef
	CreatedBy uint64 `gorm:"not null;index" json:"created_by"`
	Content   string `gorm:"type:text;not null" json:"content"`
}

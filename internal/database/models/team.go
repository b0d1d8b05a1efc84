package models

// Team represents one coached team with its own training graph
type Team struct {
	BaseModel
	Name          string `json:"name" gorm:"not null;size:100" validate:"required,min=1,max=100"`
	Description   string `json:"description" gorm:"size:500" validate:"max=500"`
	CoverImageKey string `json:"cover_image_key,omitempty" gorm:"size:255"` // opaque media-store key

	// Relationships
	Memberships []Membership `json:"memberships,omitempty" gorm:"foreignKey:TeamID"`
	AccessCodes []AccessCode `json:"access_codes,omitempty" gorm:"foreignKey:TeamID"`
	Nodes       []Node       `json:"nodes,omitempty" gorm:"foreignKey:TeamID"`
	Edges       []Edge       `json:"edges,omitempty" gorm:"foreignKey:TeamID"`
	Posts       []Post       `json:"posts,omitempty" gorm:"foreignKey:TeamID"`
}

// TableName returns the table name for Team
func (Team) TableName() string {
	return "teams"
}

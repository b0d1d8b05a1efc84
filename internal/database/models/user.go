package models

// User represents an account known to the system. Credential verification and
// session handling live outside this service; only identity is stored here.
type User struct {
	BaseModel
	Username string `json:"username" gorm:"uniqueIndex;not null;size:50" validate:"required,min=1,max=50"`
	Email    string `json:"email" gorm:"uniqueIndex;not null;size:255" validate:"required,email,max=255"`
	FullName string `json:"full_name" gorm:"not null;size:200" validate:"required,max=200"`
}

// TableName returns the table name for User
func (User) TableName() string {
	return "users"
}

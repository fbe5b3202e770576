package models

// User is an author. Username and email are unique across all users.
type User struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	Username string `json:"username" gorm:"size:80;not null;uniqueIndex"`
	Email    string `json:"email" gorm:"size:120;not null;uniqueIndex"`
}

// TableName keeps the singular table name used by existing databases.
func (User) TableName() string {
	return "user"
}

// CreateUserRequest is the form submitted to POST /user/new.
type CreateUserRequest struct {
	Username string `form:"username" validate:"required"`
	Email    string `form:"email" validate:"required"`
}

package models

// Post is owned by exactly one User through UserID.
type Post struct {
	ID      uint   `json:"id" gorm:"primaryKey"`
	Title   string `json:"title" gorm:"size:120;not null"`
	Content string `json:"content" gorm:"type:text;not null"`
	UserID  uint   `json:"user_id" gorm:"not null;index"`

	// User only declares the foreign key for migrations; it is never preloaded.
	User User `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;"`
}

func (Post) TableName() string {
	return "post"
}

// CreatePostRequest is the form submitted to POST /post/new.
type CreatePostRequest struct {
	Title   string `form:"title" validate:"required"`
	Content string `form:"content" validate:"required"`
	UserID  uint   `form:"user_id" validate:"required"`
}

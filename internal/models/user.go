package models

import "time"

// User represents an account that can log in. The password hash is never
// serialized to JSON.
type User struct {
	ID         string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Email      string    `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	FirstName  string    `json:"first_name" gorm:"type:varchar(255)" validate:"required,max=255"`
	LastName   string    `json:"last_name" gorm:"type:varchar(255)" validate:"required,max=255"`
	Password   string    `json:"-" gorm:"type:varchar(255)" validate:"required,min=6"`
	IsActive   bool      `json:"is_active"`
	IsStaff    bool      `json:"is_staff"`
	DateJoined time.Time `json:"date_joined" gorm:"autoCreateTime"`
}

// FullName joins the first and last name for display purposes.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// Customer is the shopping profile attached 1:1 to a User. A customer owns
// their cart and orders; deleting a customer cascades to both.
type Customer struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	UserID    string    `json:"user_id" gorm:"uniqueIndex;type:varchar(36)"`
	User      User      `json:"user" gorm:"constraint:OnDelete:CASCADE"`
	Phone     string    `json:"phone" gorm:"type:varchar(255)" validate:"omitempty,max=255"`
	Address   string    `json:"address" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

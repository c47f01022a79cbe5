package model

type StaffStatus string

const (
	StaffStatusActive   StaffStatus = "active"
	StaffStatusInactive StaffStatus = "inactive"
)

type Staff struct {
	Base
	Name         string      `db:"name" json:"name"`
	Email        string      `db:"email" json:"email"`
	Phone        string      `db:"phone" json:"phone,omitempty"`
	PasswordHash string      `db:"password_hash" json:"-"`
	Status       StaffStatus `db:"status" json:"status"`
}

type RegisterStaffRequest struct {
	Name     string `json:"name" binding:"required,max=200"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone" binding:"max=32"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

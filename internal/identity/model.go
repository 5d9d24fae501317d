package identity

import "time"

const (
	RoleCustomer = "cliente"
	RoleOwner    = "pulperia"
)

type User struct {
	UserID   string `bson:"user_id" json:"user_id"`
	Name     string `bson:"name" json:"name"`
	Email    string `bson:"email" json:"email"`
	UserType string `bson:"user_type" json:"user_type"`
}

func (u *User) IsOwner() bool {
	return u.UserType == RoleOwner
}

type session struct {
	SessionToken string    `bson:"session_token"`
	UserID       string    `bson:"user_id"`
	ExpiresAt    time.Time `bson:"expires_at"`
}

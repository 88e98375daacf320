package model

import "time"

// RoleAdmin is the only role an admin session token may carry.
const RoleAdmin = "admin"

// Admin is a provisioned administrator. Records are created out of band
// (cmd/create-admin) and only read by the API.
type Admin struct {
	AdminID      string    `json:"adminId" firestore:"adminId"`
	Name         string    `json:"admin_name" firestore:"admin_name"`
	Username     string    `json:"username" firestore:"username"`
	PasswordHash string    `json:"-" firestore:"passwordHash"`
	Email        string    `json:"admin_email" firestore:"admin_email"`
	CreatedAt    time.Time `json:"createdAt" firestore:"createdAt"`
}

// AdminPrincipal is the identity carried inside an admin session token.
type AdminPrincipal struct {
	AdminID  string `json:"adminId"`
	Role     string `json:"role"`
	Username string `json:"username"`
}

// Principal builds the session principal for this admin.
func (a *Admin) Principal() AdminPrincipal {
	return AdminPrincipal{AdminID: a.AdminID, Role: RoleAdmin, Username: a.Username}
}

// AdminView holds the non-secret admin fields returned to clients.
type AdminView struct {
	AdminID  string `json:"adminId"`
	Username string `json:"username"`
	Name     string `json:"admin_name"`
	Email    string `json:"admin_email"`
}

// View strips secrets from the record.
func (a *Admin) View() AdminView {
	return AdminView{AdminID: a.AdminID, Username: a.Username, Name: a.Name, Email: a.Email}
}

// AdminLoginRequest is the payload for admin authentication.
type AdminLoginRequest struct {
	UsernameOrEmail string `json:"usernameOrEmail" binding:"required,max=255"`
	Password        string `json:"password" binding:"required,max=128"`
}

// LoginAttempt counts failed admin logins for one client and identifier.
type LoginAttempt struct {
	Count         int       `json:"count"`
	LastAttemptAt time.Time `json:"lastAttemptAt"`
}

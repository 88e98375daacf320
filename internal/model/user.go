package model

import (
	"slices"
	"time"
)

// RoleStudent is assigned to every self-registered user.
const RoleStudent = "student"

// User is a portal account document. The document id equals the identity
// provider uid.
type User struct {
	ID               string    `json:"id" firestore:"-"`
	FirstName        string    `json:"firstName" firestore:"firstName"`
	LastName         string    `json:"lastName" firestore:"lastName"`
	Username         string    `json:"username" firestore:"username"`
	Email            string    `json:"email" firestore:"email"`
	Phone            string    `json:"phone,omitempty" firestore:"phone,omitempty"`
	PhotoURL         string    `json:"photoURL,omitempty" firestore:"photoURL,omitempty"`
	EnrolledCourses  []string  `json:"enrolledCourses" firestore:"enrolledCourses"`
	CompletedCourses []string  `json:"completedCourses" firestore:"completedCourses"`
	Role             string    `json:"role" firestore:"role"`
	CreatedAt        time.Time `json:"createdAt" firestore:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt" firestore:"updatedAt"`
	LastActive       time.Time `json:"lastActive" firestore:"lastActive"`
}

// FullName joins first and last name the way the identity provider display name is built.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// IsEnrolled reports whether courseID is in the user's enrolled set.
func (u *User) IsEnrolled(courseID string) bool {
	return slices.Contains(u.EnrolledCourses, courseID)
}

// SignupRequest is the payload for student self-registration.
type SignupRequest struct {
	FirstName string `json:"firstName" binding:"required,max=50"`
	LastName  string `json:"lastName" binding:"required,max=50"`
	Username  string `json:"username" binding:"required,min=3,max=30,username"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
	Phone     string `json:"phone"`
}

// SignupResult is returned after a successful signup.
type SignupResult struct {
	UID     string `json:"uid"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// UpdateProfileRequest is a partial profile update; nil fields are left untouched.
type UpdateProfileRequest struct {
	FirstName *string `json:"firstName" binding:"omitnil,min=1,max=50"`
	LastName  *string `json:"lastName" binding:"omitnil,min=1,max=50"`
	Phone     *string `json:"phone"`
	PhotoURL  *string `json:"photoURL" binding:"omitnil,url_or_empty"`
}

// Empty reports whether no field was provided.
func (r *UpdateProfileRequest) Empty() bool {
	return r.FirstName == nil && r.LastName == nil && r.Phone == nil && r.PhotoURL == nil
}

// ChangesName reports whether the display name has to be refreshed.
func (r *UpdateProfileRequest) ChangesName() bool {
	return r.FirstName != nil || r.LastName != nil
}

// EnrollRequest is the payload for course enrollment.
type EnrollRequest struct {
	CourseID string `json:"courseId" binding:"required,max=128"`
}

// UserSummary is one row of the admin profile list.
type UserSummary struct {
	ID                    string    `json:"id"`
	FirstName             string    `json:"firstName"`
	LastName              string    `json:"lastName"`
	Username              string    `json:"username"`
	Email                 string    `json:"email"`
	Phone                 string    `json:"phone,omitempty"`
	Role                  string    `json:"role"`
	EnrolledCoursesCount  int       `json:"enrolledCoursesCount"`
	CompletedCoursesCount int       `json:"completedCoursesCount"`
	CreatedAt             time.Time `json:"createdAt"`
	LastActive            time.Time `json:"lastActive"`
}

// Summary builds the admin list row for this user.
func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:                    u.ID,
		FirstName:             u.FirstName,
		LastName:              u.LastName,
		Username:              u.Username,
		Email:                 u.Email,
		Phone:                 u.Phone,
		Role:                  u.Role,
		EnrolledCoursesCount:  len(u.EnrolledCourses),
		CompletedCoursesCount: len(u.CompletedCourses),
		CreatedAt:             u.CreatedAt,
		LastActive:            u.LastActive,
	}
}

// UserStats are figures derived from a user record for the admin detail view.
type UserStats struct {
	EnrolledCount    int     `json:"enrolledCount"`
	CompletedCount   int     `json:"completedCount"`
	CompletionRate   float64 `json:"completionRate"`
	LastActivityDays int     `json:"lastActivityDays"`
}

// UserProfile is the admin detail view of a user.
type UserProfile struct {
	ID               string    `json:"id"`
	FirstName        string    `json:"firstName"`
	LastName         string    `json:"lastName"`
	Username         string    `json:"username"`
	Email            string    `json:"email"`
	Phone            string    `json:"phone,omitempty"`
	PhotoURL         string    `json:"photoURL,omitempty"`
	Role             string    `json:"role"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
	LastActive       time.Time `json:"lastActive"`
	EnrolledCourses  []Course  `json:"enrolledCourses"`
	CompletedCourses []Course  `json:"completedCourses"`
	Stats            UserStats `json:"stats"`
}

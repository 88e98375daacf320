package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrNotAuthenticated   ErrCode = "NOT_AUTHENTICATED"
	ErrAdminAuthRequired  ErrCode = "ADMIN_AUTH_REQUIRED"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"
	ErrTokenExpired       ErrCode = "TOKEN_EXPIRED"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden      ErrCode = "FORBIDDEN"
	ErrOwnProfileOnly ErrCode = "OWN_PROFILE_ONLY"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation      ErrCode = "VALIDATION_ERROR"
	ErrUsernameTaken   ErrCode = "USERNAME_TAKEN"
	ErrEmailRegistered ErrCode = "EMAIL_REGISTERED"
	ErrNoUpdateData    ErrCode = "NO_UPDATE_DATA"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound             ErrCode = "NOT_FOUND"
	ErrAdminNotFound        ErrCode = "ADMIN_NOT_FOUND"
	ErrUserNotFound         ErrCode = "USER_NOT_FOUND"
	ErrCourseNotFound       ErrCode = "COURSE_NOT_FOUND"
	ErrAnnouncementNotFound ErrCode = "ANNOUNCEMENT_NOT_FOUND"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrInvalidCredentials:
		return "Invalid credentials"
	case ErrNotAuthenticated:
		return "Not authenticated"
	case ErrAdminAuthRequired:
		return "Admin authentication required"
	case ErrTokenRequired:
		return "Authorization header required"
	case ErrTokenInvalid:
		return "Invalid authentication token"
	case ErrTokenExpired:
		return "Authentication token expired"

	// ─── Authorization ─────────────────────────────────────────────────
	case ErrForbidden:
		return "Unauthorized"
	case ErrOwnProfileOnly:
		return "You can only update your own profile"

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed"
	case ErrUsernameTaken:
		return "Username is already taken"
	case ErrEmailRegistered:
		return "Email is already registered"
	case ErrNoUpdateData:
		return "No valid update data provided"

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Resource not found"
	case ErrAdminNotFound:
		return "Admin not found"
	case ErrUserNotFound:
		return "User not found"
	case ErrCourseNotFound:
		return "Course not found"
	case ErrAnnouncementNotFound:
		return "Announcement not found"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Too many login attempts. Please try again later."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "Internal server error"
	default:
		return "Unexpected error"
	}
}

package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/techincepto/portal-backend/internal/identity"
	"github.com/techincepto/portal-backend/internal/model"
	"github.com/techincepto/portal-backend/internal/repository"
)

// User-facing errors.
var (
	ErrUsernameTaken   = errors.New("username is already taken")
	ErrEmailRegistered = errors.New("email is already registered")
	ErrUserNotFound    = errors.New("user not found")
	ErrCourseNotFound  = errors.New("course not found")
	ErrSubjectMismatch = errors.New("token subject does not match user")
	ErrNoUpdateFields  = errors.New("no valid update data provided")
)

const signupMessage = "Account created successfully. Please check your email for verification link."

// UserService handles student accounts, enrollment and profile updates.
type UserService struct {
	users   UserStore
	courses CourseStore
	idp     identity.Provider
	mailer  Mailer
	log     zerolog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(users UserStore, courses CourseStore, idp identity.Provider, mailer Mailer, log zerolog.Logger) *UserService {
	return &UserService{
		users:   users,
		courses: courses,
		idp:     idp,
		mailer:  mailer,
		log:     log.With().Str("component", "user_service").Logger(),
	}
}

// Signup creates the identity account and the user record. If the record
// cannot be written the identity account is deleted again.
func (s *UserService) Signup(ctx context.Context, req *model.SignupRequest) (*model.SignupResult, error) {
	existing, err := s.users.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUsernameTaken
	}

	registered, err := s.idp.EmailRegistered(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if registered {
		return nil, ErrEmailRegistered
	}

	user := &model.User{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Username:  req.Username,
		Email:     req.Email,
		Phone:     req.Phone,
		Role:      model.RoleStudent,
	}

	uid, err := s.idp.CreateUser(ctx, identity.NewUser{
		Email:       req.Email,
		Password:    req.Password,
		DisplayName: user.FullName(),
	})
	if err != nil {
		if errors.Is(err, identity.ErrEmailExists) {
			return nil, ErrEmailRegistered
		}
		return nil, err
	}
	user.ID = uid

	if err := s.users.Create(ctx, user); err != nil {
		s.compensate(ctx, uid)
		if errors.Is(err, repository.ErrUsernameTaken) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}

	s.sendVerification(ctx, user)

	return &model.SignupResult{UID: uid, Email: req.Email, Message: signupMessage}, nil
}

// compensate removes an identity account whose user record was never written.
func (s *UserService) compensate(ctx context.Context, uid string) {
	if err := s.idp.DeleteUser(context.WithoutCancel(ctx), uid); err != nil {
		s.log.Error().Err(err).Str("uid", uid).Msg("Failed to delete orphaned identity account")
		return
	}
	s.log.Warn().Str("uid", uid).Msg("Deleted identity account after user record write failed")
}

func (s *UserService) sendVerification(ctx context.Context, u *model.User) {
	link, err := s.idp.EmailVerificationLink(ctx, u.Email)
	if err != nil {
		s.log.Warn().Err(err).Str("uid", u.ID).Msg("Failed to generate verification link")
		return
	}
	if err := s.mailer.SendVerification(ctx, u.Email, u.FullName(), link); err != nil {
		s.log.Warn().Err(err).Str("uid", u.ID).Msg("Failed to send verification email")
	}
}

// Enroll adds courseID to the user's enrolled courses. Enrolling twice is a no-op.
func (s *UserService) Enroll(ctx context.Context, userID, courseID string) (*model.CourseBrief, error) {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, ErrCourseNotFound
	}

	if err := s.users.Enroll(ctx, userID, courseID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	brief := course.Brief()
	return &brief, nil
}

// IsEnrolled reports whether the user is enrolled in courseID.
func (s *UserService) IsEnrolled(ctx context.Context, userID, courseID string) (bool, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return false, err
	}
	if user == nil {
		return false, ErrUserNotFound
	}
	return user.IsEnrolled(courseID), nil
}

// UpdateProfile applies a partial profile update and returns the fresh record.
// A name change is mirrored to the identity provider display name.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, req *model.UpdateProfileRequest) (*model.User, error) {
	if req.Empty() {
		return nil, ErrNoUpdateFields
	}

	if err := s.users.UpdateProfile(ctx, userID, req); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if req.ChangesName() {
		if err := s.idp.UpdateDisplayName(ctx, userID, user.FullName()); err != nil {
			s.log.Warn().Err(err).Str("uid", userID).Msg("Failed to update identity display name")
		}
	}
	return user, nil
}

// TouchActivity refreshes the user's lastActive timestamp.
func (s *UserService) TouchActivity(ctx context.Context, userID string) error {
	if err := s.users.TouchLastActive(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("touch activity: %w", err)
	}
	return nil
}

package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/campusconnect/alumni-api/internal/core/domain"
	"github.com/campusconnect/alumni-api/internal/core/ports"
)

// AuthService implements signup for both identity variants and login over
// both collections.
type AuthService struct {
	ids       ports.IdentityRepository
	jwtSecret string
	tokenTTL  time.Duration
	logger    zerolog.Logger
}

func NewAuthService(ids ports.IdentityRepository, jwtSecret string, tokenTTL time.Duration, logger zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{ids: ids, jwtSecret: jwtSecret, tokenTTL: tokenTTL, logger: logger}
}

// SignupStudent registers a student. The email must be free in both
// collections, not just the student one (see DESIGN.md on cross-collection
// email uniqueness).
func (s *AuthService) SignupStudent(ctx context.Context, in ports.StudentSignupInput) (*domain.Identity, error) {
	if in.FullName == "" || in.CollegeEmail == "" || in.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	taken, err := s.ids.EmailExists(ctx, in.CollegeEmail)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	created, err := s.ids.CreateStudent(ctx, &domain.Identity{
		Kind:           domain.KindStudent,
		FullName:       in.FullName,
		CollegeEmail:   in.CollegeEmail,
		PasswordHash:   string(hash),
		GraduationYear: in.GraduationYear,
		Course:         in.Course,
		USN:            in.USN,
		FieldOfStudy:   in.FieldOfStudy,
		LinkedIn:       in.LinkedIn,
		GitHub:         in.GitHub,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("id", created.ID).Str("kind", string(created.Kind)).Msg("identity registered")
	return created, nil
}

// SignupAlumni registers an alumni account. New accounts start unverified.
func (s *AuthService) SignupAlumni(ctx context.Context, in ports.AlumniSignupInput) (*domain.Identity, error) {
	if in.FullName == "" || in.CollegeEmail == "" || in.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	taken, err := s.ids.EmailExists(ctx, in.CollegeEmail)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	created, err := s.ids.CreateAlumni(ctx, &domain.Identity{
		Kind:              domain.KindAlumni,
		FullName:          in.FullName,
		CollegeEmail:      in.CollegeEmail,
		PasswordHash:      string(hash),
		GraduationYear:    in.GraduationYear,
		LinkedIn:          in.LinkedIn,
		DegreeCertificate: in.DegreeCertificate,
		Role:              "alumni",
		Verified:          false,
		CreatedAt:         now,
		UpdatedAt:         now,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("id", created.ID).Str("kind", string(created.Kind)).Msg("identity registered")
	return created, nil
}

// Login authenticates against whichever collection holds the email and
// returns a signed token carrying the identity id.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.Identity, error) {
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	id, err := s.ids.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(id.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.generateToken(id)
	if err != nil {
		return "", nil, err
	}
	return token, id, nil
}

func (s *AuthService) generateToken(id *domain.Identity) (string, error) {
	claims := jwt.MapClaims{
		"sub":  id.ID,
		"kind": string(id.Kind),
		"exp":  time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/campusconnect/alumni-api/internal/core/domain"
	"github.com/campusconnect/alumni-api/internal/core/ports"
)

// AuthHandler handles signup for both identity variants plus login.
type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type studentSignupRequest struct {
	FullName       string `json:"full_name"       validate:"required"`
	CollegeEmail   string `json:"college_email"   validate:"required,email"`
	Password       string `json:"password"        validate:"required,min=6"`
	GraduationYear int    `json:"graduation_year" validate:"required,gte=1900"`
	Course         string `json:"course"          validate:"required"`
	USN            string `json:"usn"`
	FieldOfStudy   string `json:"field_of_study"  validate:"required"`
	LinkedIn       string `json:"linkedin"        validate:"omitempty,url,startswith=https://www.linkedin.com/|startswith=https://linkedin.com/|startswith=http://www.linkedin.com/|startswith=http://linkedin.com/"`
	GitHub         string `json:"github"          validate:"omitempty,url,startswith=https://www.github.com/|startswith=https://github.com/|startswith=http://www.github.com/|startswith=http://github.com/"`
}

type alumniSignupRequest struct {
	FullName          string `json:"full_name"          validate:"required"`
	CollegeEmail      string `json:"college_email"      validate:"required,email"`
	Password          string `json:"password"           validate:"required,min=6"`
	GraduationYear    int    `json:"graduation_year"    validate:"required,gte=1900"`
	LinkedIn          string `json:"linkedin"           validate:"omitempty,url,startswith=https://www.linkedin.com/|startswith=https://linkedin.com/|startswith=http://www.linkedin.com/|startswith=http://linkedin.com/"`
	DegreeCertificate string `json:"degree_certificate" validate:"required"`
}

type loginRequest struct {
	CollegeEmail string `json:"college_email" validate:"required,email"`
	Password     string `json:"password"      validate:"required"`
}

type authResponse struct {
	Token string           `json:"token,omitempty"`
	User  *domain.Identity `json:"user,omitempty"`
}

// SignupStudent handles POST /api/auth/signup.
func (h *AuthHandler) SignupStudent(c echo.Context) error {
	var req studentSignupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.authService.SignupStudent(c.Request().Context(), ports.StudentSignupInput{
		FullName:       req.FullName,
		CollegeEmail:   req.CollegeEmail,
		Password:       req.Password,
		GraduationYear: req.GraduationYear,
		Course:         req.Course,
		USN:            req.USN,
		FieldOfStudy:   req.FieldOfStudy,
		LinkedIn:       req.LinkedIn,
		GitHub:         req.GitHub,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, authResponse{User: user})
}

// SignupAlumni handles POST /api/auth/alumni/signup.
func (h *AuthHandler) SignupAlumni(c echo.Context) error {
	var req alumniSignupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.authService.SignupAlumni(c.Request().Context(), ports.AlumniSignupInput{
		FullName:          req.FullName,
		CollegeEmail:      req.CollegeEmail,
		Password:          req.Password,
		GraduationYear:    req.GraduationYear,
		LinkedIn:          req.LinkedIn,
		DegreeCertificate: req.DegreeCertificate,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, authResponse{User: user})
}

// Login handles POST /api/auth/login. The email may belong to either
// collection; the issued token carries only the identity id.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, user, err := h.authService.Login(c.Request().Context(), req.CollegeEmail, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, authResponse{Token: token, User: user})
}

// Verify handles GET /api/auth/verify. Reaching the handler at all means the
// Auth middleware accepted the token.
func (h *AuthHandler) Verify(c echo.Context) error {
	if _, err := ctxIdentity(c); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "message": "token is valid"})
}

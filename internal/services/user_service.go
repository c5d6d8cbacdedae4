// Package services – UserService
//
// This file implements UserService: account registration with password policy
// checks, credential login, and the editable business profile. Successful
// register and login calls return a signed bearer token for the account.
package services

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"

	"github.com/tbourn/review-outreach/internal/auth"
	"github.com/tbourn/review-outreach/internal/domain"
	"github.com/tbourn/review-outreach/internal/repo"
)

var (
	emailRE       = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phoneStripRE  = regexp.MustCompile(`[\s\-()+]`)
	phoneDigitsRE = regexp.MustCompile(`^\d{10,15}$`)
	upperRE       = regexp.MustCompile(`[A-Z]`)
	lowerRE       = regexp.MustCompile(`[a-z]`)
	digitRE       = regexp.MustCompile(`\d`)
	specialRE     = regexp.MustCompile(`[!@#$%^&*(),.?":{}|<>]`)

	weakPasswords = map[string]struct{}{
		"password":  {},
		"12345678":  {},
		"qwerty123": {},
		"abc123456": {},
	}
)

// UserRepo defines the repository contract required by UserService.
type UserRepo interface {
	CreateUser(ctx context.Context, db *gorm.DB, u *domain.User) (*domain.User, error)
	GetUserByID(ctx context.Context, db *gorm.DB, id string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, db *gorm.DB, email string) (*domain.User, error)
	SaveUser(ctx context.Context, db *gorm.DB, u *domain.User) error
}

// RegisterInput carries the sign-up form.
type RegisterInput struct {
	FirstName       string
	LastName        string
	BusinessName    string
	Email           string
	Phone           string
	Password        string
	ConfirmPassword string
}

// ProfilePatch is a partial business profile update; nil fields are kept.
type ProfilePatch struct {
	BusinessName   *string
	BusinessType   *string
	Phone          *string
	Address        *string
	Description    *string
	Website        *string
	Facebook       *string
	Instagram      *string
	GoogleBusiness *string
	BusinessHours  *string
}

// AuthResult is returned by Register and Login.
type AuthResult struct {
	User        *domain.User `json:"user"`
	AccessToken string       `json:"access_token"`
	ExpiresIn   int64        `json:"expires_in"`
}

// UserService manages accounts and business profiles.
type UserService struct {
	DB        *gorm.DB
	Repo      UserRepo
	JWTSecret []byte
	TokenTTL  time.Duration
	// BcryptCost defaults to bcrypt.DefaultCost when zero.
	BcryptCost int
	// Locale drives title-casing of the business type.
	Locale language.Tag
}

// NewUserService constructs a UserService.
func NewUserService(db *gorm.DB, r UserRepo, jwtSecret string, ttl time.Duration) *UserService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &UserService{
		DB:        db,
		Repo:      r,
		JWTSecret: []byte(jwtSecret),
		TokenTTL:  ttl,
		Locale:    language.English,
	}
}

// Register validates in, stores a new account with a bcrypt password hash and
// returns it with an access token. The email is stored lower-cased.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	ctx, span := otel.Tracer("services/UserService").Start(ctx, "Register")
	defer span.End()

	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.BusinessName = strings.TrimSpace(in.BusinessName)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Phone = strings.TrimSpace(in.Phone)

	if err := validateRegistration(in); err != nil {
		return nil, err
	}

	if _, err := s.Repo.GetUserByEmail(ctx, s.DB, in.Email); err == nil {
		return nil, fieldError("email", ErrEmailTaken.Error(), ErrEmailTaken)
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost())
	if err != nil {
		return nil, err
	}

	u, err := s.Repo.CreateUser(ctx, s.DB, &domain.User{
		Email:        in.Email,
		PasswordHash: string(hash),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		BusinessName: in.BusinessName,
		BusinessType: domain.DefaultBusinessType,
		Phone:        in.Phone,
	})
	if errors.Is(err, repo.ErrDuplicate) {
		return nil, fieldError("email", ErrEmailTaken.Error(), ErrEmailTaken)
	}
	if err != nil {
		return nil, err
	}
	return s.issue(u)
}

// Login checks email and password and returns the account with a token.
func (s *UserService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	ctx, span := otel.Tracer("services/UserService").Start(ctx, "Login")
	defer span.End()

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	u, err := s.Repo.GetUserByEmail(ctx, s.DB, email)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil || !u.IsActive {
		return nil, ErrInvalidCredentials
	}
	return s.issue(u)
}

// Profile returns the account for userID.
func (s *UserService) Profile(ctx context.Context, userID string) (*domain.User, error) {
	u, err := s.Repo.GetUserByID(ctx, s.DB, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return u, err
}

// UpdateProfile applies p to the business profile of userID.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, p ProfilePatch) (*domain.User, error) {
	u, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}

	ve := &ValidationError{}
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = strings.TrimSpace(*v)
		}
	}
	set(&u.BusinessName, p.BusinessName)
	set(&u.Phone, p.Phone)
	set(&u.Address, p.Address)
	set(&u.Description, p.Description)
	set(&u.Website, p.Website)
	set(&u.Facebook, p.Facebook)
	set(&u.Instagram, p.Instagram)
	set(&u.GoogleBusiness, p.GoogleBusiness)
	set(&u.BusinessHours, p.BusinessHours)
	if p.BusinessType != nil {
		u.BusinessType = s.normalizeBusinessType(*p.BusinessType)
	}

	if utf8.RuneCountInString(u.BusinessName) < 2 {
		ve.add("name", "Business name must be at least 2 characters")
	} else if validate.Var(u.BusinessName, "max=100") != nil {
		ve.add("name", "Ensure this field has no more than 100 characters.")
	}
	if validate.Var(u.BusinessType, "max=50") != nil {
		ve.add("type", "Ensure this field has no more than 50 characters.")
	}
	if u.Phone != "" && !validPhone(u.Phone) {
		ve.add("phone", "Enter a valid phone number (10-15 digits)")
	}
	for field, v := range map[string]string{
		"website":        u.Website,
		"facebook":       u.Facebook,
		"instagram":      u.Instagram,
		"googleBusiness": u.GoogleBusiness,
	} {
		if v != "" && validate.Var(v, "url,max=255") != nil {
			ve.add(field, "Enter a valid URL.")
		}
	}
	if err := ve.orNil(); err != nil {
		return nil, err
	}

	if err := s.Repo.SaveUser(ctx, s.DB, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *UserService) issue(u *domain.User) (*AuthResult, error) {
	tok, err := auth.GenerateToken(u.ID, s.JWTSecret, s.TokenTTL)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: u, AccessToken: tok, ExpiresIn: int64(s.TokenTTL / time.Second)}, nil
}

func (s *UserService) cost() int {
	if s.BcryptCost == 0 {
		return bcrypt.DefaultCost
	}
	return s.BcryptCost
}

// normalizeBusinessType collapses whitespace and title-cases the value; blank
// input resets it to the default type.
func (s *UserService) normalizeBusinessType(v string) string {
	v = strings.Join(strings.Fields(v), " ")
	if v == "" {
		return domain.DefaultBusinessType
	}
	// Caser is stateful; build one per call.
	return cases.Title(s.Locale).String(v)
}

func validateRegistration(in RegisterInput) error {
	ve := &ValidationError{}

	checkName := func(field, label, v string) {
		switch {
		case v == "":
			ve.add(field, label+" is required")
		case utf8.RuneCountInString(v) < 2:
			ve.add(field, label+" must be at least 2 characters")
		}
	}
	checkName("first_name", "First name", in.FirstName)
	checkName("last_name", "Last name", in.LastName)
	checkName("business_name", "Business name", in.BusinessName)

	if in.Email == "" || validate.Var(in.Email, "email") != nil || !emailRE.MatchString(in.Email) {
		ve.add("email", "Enter a valid email address")
	}
	if in.Phone != "" && !validPhone(in.Phone) {
		ve.add("phone", "Enter a valid phone number (10-15 digits)")
	}

	if msg := passwordProblem(in.Password); msg != "" {
		ve.add("password", msg)
	}
	if in.Password != in.ConfirmPassword {
		ve.add("confirm_password", "Passwords do not match")
	}
	if _, failed := ve.Fields["password"]; !failed && in.Email != "" {
		pw := strings.ToLower(in.Password)
		local := strings.ToLower(strings.SplitN(in.Email, "@", 2)[0])
		first := strings.ToLower(in.FirstName)
		last := strings.ToLower(in.LastName)
		if (local != "" && strings.Contains(pw, local)) ||
			(first != "" && strings.Contains(pw, first)) ||
			(last != "" && strings.Contains(pw, last)) {
			ve.add("password", "Password should not contain your email or name")
		}
	}
	return ve.orNil()
}

// passwordProblem returns the first failed password rule, or "".
func passwordProblem(pw string) string {
	switch {
	case len(pw) < 8:
		return "Password must be at least 8 characters long"
	case !upperRE.MatchString(pw):
		return "Password must contain at least one uppercase letter"
	case !lowerRE.MatchString(pw):
		return "Password must contain at least one lowercase letter"
	case !digitRE.MatchString(pw):
		return "Password must contain at least one number"
	case !specialRE.MatchString(pw):
		return `Password must contain at least one special character (!@#$%^&*(),.?":{}|<>)`
	}
	if _, weak := weakPasswords[strings.ToLower(pw)]; weak {
		return "This password is too common. Choose a stronger password"
	}
	return ""
}

func validPhone(v string) bool {
	return phoneDigitsRE.MatchString(phoneStripRE.ReplaceAllString(v, ""))
}

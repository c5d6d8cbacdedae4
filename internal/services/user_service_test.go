package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/tbourn/review-outreach/internal/auth"
	"github.com/tbourn/review-outreach/internal/domain"
)

const testSecret = "test-secret"

func newUserSvc(t *testing.T) *UserService {
	t.Helper()
	svc := NewUserService(newServiceDB(t), dbRepo{}, testSecret, time.Hour)
	svc.BcryptCost = bcrypt.MinCost
	return svc
}

func validRegistration() RegisterInput {
	return RegisterInput{
		FirstName:       "Maria",
		LastName:        "Lopez",
		BusinessName:    "Lopez Bakery",
		Email:           "  Owner@Bakery.Test ",
		Phone:           "+1 (555) 123-4567",
		Password:        "Str0ng!Pass",
		ConfirmPassword: "Str0ng!Pass",
	}
}

func TestRegister_Success(t *testing.T) {
	svc := newUserSvc(t)

	res, err := svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)
	assert.Equal(t, "owner@bakery.test", res.User.Email)
	assert.Equal(t, domain.DefaultBusinessType, res.User.BusinessType)
	assert.True(t, res.User.IsActive)
	assert.NotEqual(t, "Str0ng!Pass", res.User.PasswordHash)
	assert.EqualValues(t, 3600, res.ExpiresIn)

	sub, err := auth.ParseToken(res.AccessToken, []byte(testSecret))
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, sub)
}

func TestRegister_EmailTaken(t *testing.T) {
	svc := newUserSvc(t)
	_, err := svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	in := validRegistration()
	in.Email = "OWNER@bakery.test"
	_, err = svc.Register(context.Background(), in)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.ErrorIs(t, err, ErrEmailTaken)
	assert.Contains(t, ve.Fields, "email")
}

func TestRegister_Validation(t *testing.T) {
	tests := []struct {
		name  string
		mut   func(*RegisterInput)
		field string
		msg   string
	}{
		{"missing first name", func(in *RegisterInput) { in.FirstName = " " }, "first_name", "First name is required"},
		{"short last name", func(in *RegisterInput) { in.LastName = "L" }, "last_name", "Last name must be at least 2 characters"},
		{"short business", func(in *RegisterInput) { in.BusinessName = "B" }, "business_name", "Business name must be at least 2 characters"},
		{"bad email", func(in *RegisterInput) { in.Email = "nope" }, "email", "Enter a valid email address"},
		{"bad phone", func(in *RegisterInput) { in.Phone = "12-34" }, "phone", "Enter a valid phone number (10-15 digits)"},
		{"short password", func(in *RegisterInput) { in.Password, in.ConfirmPassword = "Ab1!", "Ab1!" }, "password", "Password must be at least 8 characters long"},
		{"no upper", func(in *RegisterInput) { in.Password, in.ConfirmPassword = "str0ng!pass", "str0ng!pass" }, "password", "Password must contain at least one uppercase letter"},
		{"no lower", func(in *RegisterInput) { in.Password, in.ConfirmPassword = "STR0NG!PASS", "STR0NG!PASS" }, "password", "Password must contain at least one lowercase letter"},
		{"no digit", func(in *RegisterInput) { in.Password, in.ConfirmPassword = "Strong!Pass", "Strong!Pass" }, "password", "Password must contain at least one number"},
		{"no special", func(in *RegisterInput) { in.Password, in.ConfirmPassword = "Str0ngPass", "Str0ngPass" }, "password", `Password must contain at least one special character (!@#$%^&*(),.?":{}|<>)`},
		{"contains name", func(in *RegisterInput) { in.Password, in.ConfirmPassword = "Maria#2024x", "Maria#2024x" }, "password", "Password should not contain your email or name"},
		{"contains email local part", func(in *RegisterInput) { in.Password, in.ConfirmPassword = "Owner#2024x", "Owner#2024x" }, "password", "Password should not contain your email or name"},
		{"mismatch", func(in *RegisterInput) { in.ConfirmPassword = "Other!Pass1" }, "confirm_password", "Passwords do not match"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := newUserSvc(t)
			in := validRegistration()
			tc.mut(&in)

			_, err := svc.Register(context.Background(), in)
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tc.msg, ve.Fields[tc.field])
		})
	}
}

func TestRegister_PhoneOptional(t *testing.T) {
	svc := newUserSvc(t)
	in := validRegistration()
	in.Phone = ""
	_, err := svc.Register(context.Background(), in)
	require.NoError(t, err)
}

func TestLogin(t *testing.T) {
	svc := newUserSvc(t)
	reg, err := svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	res, err := svc.Login(context.Background(), " OWNER@bakery.test", "Str0ng!Pass")
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, res.User.ID)
	assert.NotEmpty(t, res.AccessToken)

	_, err = svc.Login(context.Background(), "owner@bakery.test", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(context.Background(), "nobody@bakery.test", "Str0ng!Pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(context.Background(), "", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// deactivated accounts cannot log in
	require.NoError(t, svc.DB.Model(&domain.User{}).Where("id = ?", reg.User.ID).Update("is_active", false).Error)
	_, err = svc.Login(context.Background(), "owner@bakery.test", "Str0ng!Pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestProfile_NotFound(t *testing.T) {
	svc := newUserSvc(t)
	_, err := svc.Profile(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrUserNotFound)
	_, err = svc.UpdateProfile(context.Background(), "ghost", ProfilePatch{})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdateProfile(t *testing.T) {
	svc := newUserSvc(t)
	u := seedUser(t, svc.DB, "u1", "Shop")

	got, err := svc.UpdateProfile(context.Background(), u.ID, ProfilePatch{
		BusinessName: strp("  Corner Cafe "),
		BusinessType: strp("coffee   shop"),
		Website:      strp("https://corner.example"),
		Address:      strp("1 Main St"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Corner Cafe", got.BusinessName)
	assert.Equal(t, "Coffee Shop", got.BusinessType)
	assert.Equal(t, "https://corner.example", got.Website)

	reloaded, err := svc.Profile(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Corner Cafe", reloaded.BusinessName)
	assert.Equal(t, "1 Main St", reloaded.Address)

	// blank type resets to the default
	got, err = svc.UpdateProfile(context.Background(), u.ID, ProfilePatch{BusinessType: strp("  ")})
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultBusinessType, got.BusinessType)
}

func TestUpdateProfile_Validation(t *testing.T) {
	svc := newUserSvc(t)
	u := seedUser(t, svc.DB, "u1", "Shop")

	_, err := svc.UpdateProfile(context.Background(), u.ID, ProfilePatch{
		BusinessName: strp("X"),
		Phone:        strp("123"),
		Instagram:    strp("not a url"),
	})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "Business name must be at least 2 characters", ve.Fields["name"])
	assert.Contains(t, ve.Fields, "phone")
	assert.Equal(t, "Enter a valid URL.", ve.Fields["instagram"])

	reloaded, err := svc.Profile(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Shop", reloaded.BusinessName, "nothing persisted on validation failure")
}

func TestValidationError_Message(t *testing.T) {
	ve := &ValidationError{}
	ve.add("b", "second")
	ve.add("a", "first")
	ve.add("a", "ignored")
	assert.Equal(t, "validation failed: a: first; b: second", ve.Error())
	assert.Nil(t, (&ValidationError{}).orNil())

	only := &ValidationError{Err: ErrEmptyContactIDs}
	assert.Equal(t, ErrEmptyContactIDs.Error(), only.Error())
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/review-outreach/internal/http/middleware"
	"github.com/tbourn/review-outreach/internal/services"
)

// RegisterRequest is the sign-up payload.
type RegisterRequest struct {
	FirstName       string `json:"first_name"       example:"Maria"`
	LastName        string `json:"last_name"        example:"Lopez"`
	BusinessName    string `json:"business_name"    example:"Lopez Bakery"`
	Email           string `json:"email"            example:"owner@bakery.example"`
	Phone           string `json:"phone"            example:"+1 555 123 4567"`
	Password        string `json:"password"         example:"Str0ng!Pass"`
	ConfirmPassword string `json:"confirm_password" example:"Str0ng!Pass"`
}

// LoginRequest is the credential payload.
type LoginRequest struct {
	Email    string `json:"email"    binding:"required" example:"owner@bakery.example"`
	Password string `json:"password" binding:"required" example:"Str0ng!Pass"`
}

// Register godoc
// @ID          register
// @Summary     Create an account
// @Description Registers a business account and returns it with an access token.
// @Tags        Auth
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.RegisterRequest  true  "Sign-up form"
//
// @Success     201  {object}  services.AuthResult
// @Failure     400  {object}  handlers.ErrorResponse  "Validation failed or email taken"
// @Router      /auth/register [post]
func (h *Handlers) Register(c *gin.Context) {
	var req RegisterRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.users.Register(c.Request.Context(), services.RegisterInput{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		BusinessName:    req.BusinessName,
		Email:           req.Email,
		Phone:           req.Phone,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		failService(c, err, ErrCodeCreateFailed)
		return
	}
	middleware.LoggerFrom(c).Info().Str("user_id", res.User.ID).Msg("account registered")
	ok(c, http.StatusCreated, res)
}

// Login godoc
// @ID          login
// @Summary     Log in
// @Tags        Auth
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.LoginRequest  true  "Credentials"
//
// @Success     200  {object}  services.AuthResult
// @Failure     400  {object}  handlers.ErrorResponse  "Email and password required"
// @Failure     401  {object}  handlers.ErrorResponse  "Invalid credentials"
// @Router      /auth/login [post]
func (h *Handlers) Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		failService(c, err, ErrCodeInternal)
		return
	}
	ok(c, http.StatusOK, res)
}

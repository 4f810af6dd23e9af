package rest

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"file-exchange-api/internal/application/ports"
	"file-exchange-api/internal/application/services"
	"file-exchange-api/internal/interface/api/rest/dto/auth"
	"file-exchange-api/internal/interface/api/rest/dto/user"
	"file-exchange-api/internal/interface/api/rest/middleware"
	"file-exchange-api/internal/interface/api/rest/response"
	"file-exchange-api/internal/interface/api/rest/validator"
)

const (
	msgMissingFields     = "Missing required fields!"
	msgMissingCredential = "Missing username or password!"
)

type SessionCookie struct {
	Name   string
	Secure bool
}

type AuthController struct {
	logger      *zap.Logger
	userService ports.UserService
	authService ports.Auth
	cookie      SessionCookie
	now         func() time.Time
}

func NewAuthController(
	r *gin.Engine,
	logger *zap.Logger,
	userService ports.UserService,
	authService ports.Auth,
	cookie SessionCookie,
) *AuthController {
	ac := &AuthController{
		logger:      logger,
		userService: userService,
		authService: authService,
		cookie:      cookie,
		now:         time.Now,
	}

	authn := middleware.Authenticate(authService, logger, cookie.Name)

	r.POST(RouteSignup, ac.SignupHandler)
	r.GET(RouteVerifyEmail, ac.VerifyEmailHandler)
	r.POST(RouteLogin, ac.LoginHandler)
	r.POST(RouteLogout, ac.LogoutHandler)
	r.POST(RouteCreateOpsUser, authn, ac.CreateOpsUserHandler)
	r.GET(RouteProfile, authn, ac.ProfileHandler)

	return ac
}

func (ac *AuthController) bindNewUser(c *gin.Context) (ports.NewUser, bool) {
	var req auth.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Message(c, http.StatusBadRequest, msgMissingFields)
		return ports.NewUser{}, false
	}

	req = validator.Normalize(req)
	if !validator.HasSignupFields(req) {
		response.Message(c, http.StatusBadRequest, msgMissingFields)
		return ports.NewUser{}, false
	}
	if errs := validator.ValidateSignup(req); errs != nil {
		response.Invalid(c, errs)
		return ports.NewUser{}, false
	}

	return ports.NewUser{Username: req.Username, Email: req.Email, Password: req.Password}, true
}

func (ac *AuthController) SignupHandler(c *gin.Context) {
	in, ok := ac.bindNewUser(c)
	if !ok {
		return
	}

	res, err := ac.userService.Signup(c.Request.Context(), in)
	if err != nil {
		response.Error(c, ac.logger, "Signup()", err)
		return
	}

	msg := "User created successfully! Please check your email to verify your account."
	if !res.EmailSent {
		msg = "User created but failed to send verification email. Please contact support."
	}

	c.JSON(http.StatusCreated, user.SignupResponse{
		Message:         msg,
		VerificationURL: res.VerificationURL,
	})
}

// VerifyEmailHandler always answers 200; the body says whether it worked.
func (ac *AuthController) VerifyEmailHandler(c *gin.Context) {
	_, err := ac.userService.VerifyEmail(c.Request.Context(), c.Param("token"))
	if err != nil {
		msg := "Error verifying email"
		if errors.Is(err, services.ErrInvalidVerificationToken) {
			msg = services.ErrInvalidVerificationToken.Message
		} else {
			ac.logger.Error("VerifyEmail() error", zap.Error(err))
		}
		c.JSON(http.StatusOK, user.VerifyResponse{Success: false, Message: msg})
		return
	}

	c.JSON(http.StatusOK, user.VerifyResponse{
		Success: true,
		Message: "Email verified successfully! You can now log in.",
	})
}

func (ac *AuthController) LoginHandler(c *gin.Context) {
	var req auth.LoginRequest
	if err := c.ShouldBind(&req); err != nil || !validator.ValidateLogin(req) {
		response.Message(c, http.StatusBadRequest, msgMissingCredential)
		return
	}

	res, err := ac.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		response.Error(c, ac.logger, "Login()", err)
		return
	}

	maxAge := int(res.SessionExpiresAt.Sub(ac.now()).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(ac.cookie.Name, res.SessionID, maxAge, "/", "", ac.cookie.Secure, true)

	c.JSON(http.StatusOK, user.LoginResponse{
		Message: "Login successful!",
		Token:   res.Token,
		User:    user.ToResponseUser(*res.User),
	})
}

func (ac *AuthController) LogoutHandler(c *gin.Context) {
	sid, _ := c.Cookie(ac.cookie.Name)
	if err := ac.authService.Logout(c.Request.Context(), sid); err != nil {
		response.Error(c, ac.logger, "Logout()", err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(ac.cookie.Name, "", -1, "/", "", ac.cookie.Secure, true)
	response.Message(c, http.StatusOK, "Logged out successfully!")
}

// CreateOpsUserHandler is open to any authenticated user.
func (ac *AuthController) CreateOpsUserHandler(c *gin.Context) {
	in, ok := ac.bindNewUser(c)
	if !ok {
		return
	}

	if _, err := ac.userService.CreateOpsUser(c.Request.Context(), in); err != nil {
		response.Error(c, ac.logger, "CreateOpsUser()", err)
		return
	}

	response.Message(c, http.StatusCreated, "Operations user created successfully!")
}

func (ac *AuthController) ProfileHandler(c *gin.Context) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, ac.logger, "ProfileHandler()", services.ErrMissingToken)
		return
	}

	c.JSON(http.StatusOK, user.ToProfile(*u))
}

package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dannykhan02/Lenny-media-backend/internal/api/middleware"
	"github.com/dannykhan02/Lenny-media-backend/internal/api/session"
	"github.com/dannykhan02/Lenny-media-backend/internal/core/domain"
	"github.com/dannykhan02/Lenny-media-backend/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
	transport   *session.Transport
}

func NewAuthHandler(authService ports.AuthService, transport *session.Transport) *AuthHandler {
	return &AuthHandler{authService: authService, transport: transport}
}

// --- Request / Response types ---

type loginRequest struct {
	Email    string `json:"email" validate:"max=254"`
	Password string `json:"password" validate:"max=72"`
}

type registerRequest struct {
	Email     string `json:"email" validate:"omitempty,studio_email"`
	Password  string `json:"password" validate:"max=72"`
	FullName  string `json:"full_name" validate:"max=120"`
	Role      string `json:"role" validate:"max=32"`
	Phone     string `json:"phone" validate:"max=32"`
	AvatarURL string `json:"avatar_url" validate:"omitempty,url,max=2048"`
}

type firstAdminRequest struct {
	Email    string `json:"email" validate:"omitempty,studio_email"`
	Password string `json:"password" validate:"max=72"`
	FullName string `json:"full_name" validate:"max=120"`
}

type updateProfileRequest struct {
	FullName  *string `json:"full_name" validate:"omitempty,min=1,max=120"`
	Phone     *string `json:"phone" validate:"omitempty,max=32"`
	AvatarURL *string `json:"avatar_url" validate:"omitempty,max=2048"`
}

type userStatusRequest struct {
	Active *bool `json:"is_active" validate:"required"`
}

type loginResponse struct {
	Message string            `json:"message"`
	User    domain.PublicUser `json:"user"`
	Token   string            `json:"token"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type registerResponse struct {
	Msg    string `json:"msg"`
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

type userResponse struct {
	Msg  string       `json:"msg"`
	User *domain.User `json:"user"`
}

type adminExistsResponse struct {
	AdminExists bool `json:"admin_exists"`
}

type meResponse struct {
	ID        string         `json:"id"`
	Email     string         `json:"email"`
	Role      domain.Role    `json:"role"`
	FullName  string         `json:"full_name"`
	Phone     string         `json:"phone"`
	AvatarURL string         `json:"avatar_url"`
	Claims    *domain.Claims `json:"claims"`
}

// Login authenticates a user and starts a cookie session.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      429   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.authService.Login(c.Request().Context(), ports.LoginInput{
		Email:    req.Email,
		Password: req.Password,
		Meta:     requestMeta(c),
	})
	if err != nil {
		return err
	}

	h.transport.Attach(c, res.Token.Value, res.Token.ExpiresAt)
	return c.JSON(http.StatusOK, loginResponse{
		Message: "Login successful",
		User:    res.User.Public(),
		Token:   res.Token.Value,
	})
}

// Logout ends the session. It succeeds with or without a valid token.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  messageResponse
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	claims := middleware.ClaimsFrom(c)
	if err := h.authService.Logout(c.Request().Context(), claims, requestMeta(c)); err != nil {
		return err
	}
	h.transport.Clear(c)
	return c.JSON(http.StatusOK, messageResponse{Message: "Logout successful"})
}

// Register creates a new account without starting a session.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  registerResponse
// @Failure      400   {object}  map[string]string
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FullName:  req.FullName,
		Role:      req.Role,
		Phone:     req.Phone,
		AvatarURL: req.AvatarURL,
		Meta:      requestMeta(c),
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, registerResponse{
		Msg:    "User registered successfully",
		UserID: user.ID,
		Email:  user.Email,
	})
}

// GetProfile returns the authenticated user's account.
//
// @Summary      Get own profile
// @Tags         profile
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.User
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /auth/profile [get]
func (h *AuthHandler) GetProfile(c echo.Context) error {
	claims, err := identity(c)
	if err != nil {
		return err
	}

	user, err := h.authService.GetProfile(c.Request().Context(), claims.Subject)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateProfile changes full name, phone or avatar of the authenticated user.
//
// @Summary      Update own profile
// @Tags         profile
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateProfileRequest  true  "Fields to change"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /auth/profile [put]
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	claims, err := identity(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.authService.UpdateProfile(c.Request().Context(), claims.Subject, domain.ProfileUpdate{
		FullName:  req.FullName,
		Phone:     req.Phone,
		AvatarURL: req.AvatarURL,
	}, requestMeta(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userResponse{Msg: "Profile updated successfully", User: user})
}

// CheckAdminExists reports whether the first-admin bootstrap is still open.
//
// @Summary      Check whether an admin exists
// @Tags         auth
// @Produce      json
// @Success      200  {object}  adminExistsResponse
// @Router       /auth/check-admin [get]
func (h *AuthHandler) CheckAdminExists(c echo.Context) error {
	exists, err := h.authService.CheckAdminExists(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, adminExistsResponse{AdminExists: exists})
}

// RegisterFirstAdmin creates the first administrator and logs them in.
//
// @Summary      Bootstrap the first admin
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      firstAdminRequest  true  "Admin account"
// @Success      201   {object}  userResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /auth/register-first-admin [post]
func (h *AuthHandler) RegisterFirstAdmin(c echo.Context) error {
	var req firstAdminRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.authService.BootstrapFirstAdmin(c.Request().Context(), ports.BootstrapInput{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Meta:     requestMeta(c),
	})
	if err != nil {
		return err
	}

	h.transport.Attach(c, res.Token.Value, res.Token.ExpiresAt)
	return c.JSON(http.StatusCreated, userResponse{Msg: "First admin created successfully", User: res.User})
}

// ListUsers returns every account.
//
// @Summary      List users
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.User
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /auth/users [get]
func (h *AuthHandler) ListUsers(c echo.Context) error {
	claims, err := identity(c)
	if err != nil {
		return err
	}

	users, err := h.authService.ListUsers(c.Request().Context(), claims)
	if err != nil {
		return err
	}
	if users == nil {
		users = []*domain.User{}
	}
	return c.JSON(http.StatusOK, users)
}

// SetUserStatus activates or deactivates an account.
//
// @Summary      Activate or deactivate a user
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "User ID"
// @Param        body  body      userStatusRequest  true  "New status"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /auth/users/{id}/status [patch]
func (h *AuthHandler) SetUserStatus(c echo.Context) error {
	claims, err := identity(c)
	if err != nil {
		return err
	}

	var req userStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.authService.SetUserActive(c.Request().Context(), claims, c.Param("id"), *req.Active, requestMeta(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userResponse{Msg: "User status updated", User: user})
}

// ListAuditEvents returns the newest auth audit events.
//
// @Summary      Recent auth events
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query     int  false  "Max events (1-200, default 50)"
// @Success      200    {array}   domain.AuditEvent
// @Failure      403    {object}  map[string]string
// @Router       /auth/audit [get]
func (h *AuthHandler) ListAuditEvents(c echo.Context) error {
	claims, err := identity(c)
	if err != nil {
		return err
	}

	var limit int
	if err := echo.QueryParamsBinder(c).Int("limit", &limit).BindError(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "limit must be an integer")
	}

	events, err := h.authService.ListAuditEvents(c.Request().Context(), claims, limit)
	if err != nil {
		return err
	}
	if events == nil {
		events = []*domain.AuditEvent{}
	}
	return c.JSON(http.StatusOK, events)
}

// Me returns the authenticated identity together with its token claims.
//
// @Summary      Current identity
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  meResponse
// @Failure      401  {object}  map[string]string
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	claims, err := identity(c)
	if err != nil {
		return err
	}

	user, err := h.authService.GetProfile(c.Request().Context(), claims.Subject)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, meResponse{
		ID:        user.ID,
		Email:     user.Email,
		Role:      user.Role,
		FullName:  user.FullName,
		Phone:     user.Phone,
		AvatarURL: user.AvatarURL,
		Claims:    claims,
	})
}

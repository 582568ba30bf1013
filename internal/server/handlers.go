package server

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/securehello/securehello/internal/auth"
	"github.com/securehello/securehello/internal/config"
	"github.com/securehello/securehello/internal/directory"
	"github.com/securehello/securehello/internal/observability"
	"github.com/securehello/securehello/internal/policy"
)

// Directory is the user-directory surface the admin handlers depend on.
type Directory interface {
	ListUsers(ctx context.Context) ([]directory.DirectoryUser, error)
	CreateUser(ctx context.Context, req directory.CreateUserRequest) error
	DeleteUser(ctx context.Context, username string) error
}

var _ Directory = (*directory.Client)(nil)

// HelloResponse is the payload for the greeting endpoints.
type HelloResponse struct {
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"`
}

// UserInfo describes the authenticated caller.
type UserInfo struct {
	Username string   `json:"username"`
	Email    string   `json:"email,omitempty"`
	Name     string   `json:"name,omitempty"`
	Picture  string   `json:"picture,omitempty"`
	Provider string   `json:"provider,omitempty"`
	Roles    []string `json:"roles"`
}

// AdminResponse is the payload for admin mutations.
type AdminResponse struct {
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"`
}

// AdminDashboard is the payload for the admin dashboard endpoint.
type AdminDashboard struct {
	Title     string                    `json:"title"`
	Message   string                    `json:"message"`
	Timestamp int64                     `json:"timestamp"`
	Users     []directory.DirectoryUser `json:"users"`
}

// LoginOptions lists the identity provider endpoints a frontend needs
// to drive an interactive login.
type LoginOptions struct {
	Provider         string `json:"provider"`
	Realm            string `json:"realm"`
	ClientID         string `json:"clientId"`
	AuthorizationURL string `json:"authorizationUrl"`
	TokenURL         string `json:"tokenUrl"`
	UserInfoURL      string `json:"userInfoUrl"`
	LoginPath        string `json:"loginPath"`
	SuccessPath      string `json:"successPath"`
	FailurePath      string `json:"failurePath"`
}

// Handlers implements the route surface.
type Handlers struct {
	cfg       *config.Config
	pol       policy.Policy
	directory Directory
	logger    observability.Logger
}

// NewHandlers creates the route handlers.
func NewHandlers(cfg *config.Config, pol policy.Policy, dir Directory, logger observability.Logger) *Handlers {
	if logger == nil {
		logger = observability.NopLogger()
	}
	return &Handlers{
		cfg:       cfg,
		pol:       pol,
		directory: dir,
		logger:    logger,
	}
}

// PublicHello serves the unauthenticated greeting.
func (h *Handlers) PublicHello(c *gin.Context) {
	c.JSON(http.StatusOK, HelloResponse{
		Message:   "Hello from the public endpoint!",
		Timestamp: time.Now().UnixMilli(),
	})
}

// Hello serves the authenticated greeting.
func (h *Handlers) Hello(c *gin.Context) {
	identity, err := auth.IdentityFromContextOrError(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	c.JSON(http.StatusOK, HelloResponse{
		Message:   "Hello, " + identity.Username + "! You are authenticated via " + identity.Provider + ".",
		Timestamp: time.Now().UnixMilli(),
	})
}

// CurrentUserInfo serves the caller's identity details.
func (h *Handlers) CurrentUserInfo(c *gin.Context) {
	identity, err := auth.IdentityFromContextOrError(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	roles := identity.Authorities
	if roles == nil {
		roles = []string{}
	}

	c.JSON(http.StatusOK, UserInfo{
		Username: identity.Username,
		Email:    identity.Email,
		Name:     identity.Name,
		Picture:  identity.Picture,
		Provider: identity.Provider,
		Roles:    roles,
	})
}

// AdminDashboard serves the admin overview including the user list.
func (h *Handlers) AdminDashboard(c *gin.Context) {
	users, err := h.directory.ListUsers(c.Request.Context())
	if err != nil {
		h.directoryError(c, "list users", err)
		return
	}

	c.JSON(http.StatusOK, AdminDashboard{
		Title:     "Admin Dashboard",
		Message:   "Welcome to the admin area",
		Timestamp: time.Now().UnixMilli(),
		Users:     users,
	})
}

// ListUsers serves the realm user list.
func (h *Handlers) ListUsers(c *gin.Context) {
	users, err := h.directory.ListUsers(c.Request.Context())
	if err != nil {
		h.directoryError(c, "list users", err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// CreateUser creates a realm user with the requested roles.
func (h *Handlers) CreateUser(c *gin.Context) {
	var req directory.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	if req.Username == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}

	if err := h.directory.CreateUser(c.Request.Context(), req); err != nil {
		h.directoryError(c, "create user", err)
		return
	}

	c.JSON(http.StatusOK, AdminResponse{
		Message:   "User " + req.Username + " created successfully",
		Timestamp: time.Now().UnixMilli(),
	})
}

// DeleteUser removes a realm user by username.
func (h *Handlers) DeleteUser(c *gin.Context) {
	username := c.Param("username")

	if err := h.directory.DeleteUser(c.Request.Context(), username); err != nil {
		h.directoryError(c, "delete user", err)
		return
	}

	c.JSON(http.StatusOK, AdminResponse{
		Message:   "User " + username + " deleted successfully",
		Timestamp: time.Now().UnixMilli(),
	})
}

// directoryError maps directory failures onto HTTP responses.
func (h *Handlers) directoryError(c *gin.Context, op string, err error) {
	h.logger.WithContext(c.Request.Context()).Error("directory operation failed",
		observability.String("operation", op),
		observability.Error(err),
	)

	var roleErr *directory.RoleNotFoundError
	if errors.As(err, &roleErr) {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "role not found: " + roleErr.Role,
		})
		return
	}

	var dirErr *directory.DirectoryError
	if errors.As(err, &dirErr) {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "directory error: " + dirErr.Detail,
		})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{"error": "directory unavailable"})
}

// LoginOptionsHandler serves the provider endpoints for interactive login.
func (h *Handlers) LoginOptionsHandler(c *gin.Context) {
	kc := h.cfg.Keycloak
	c.JSON(http.StatusOK, LoginOptions{
		Provider:         "keycloak",
		Realm:            kc.Realm,
		ClientID:         kc.ClientID,
		AuthorizationURL: kc.AuthURL(),
		TokenURL:         kc.TokenURL(),
		UserInfoURL:      kc.UserInfoURL(),
		LoginPath:        "/oauth2/authorization/keycloak",
		SuccessPath:      h.pol.LoginSuccessPath,
		FailurePath:      h.pol.LoginFailurePath,
	})
}

// LoginRedirect bootstraps an interactive login by redirecting to the
// provider's authorization endpoint. Token exchange happens between
// the frontend and the provider; this service only verifies the
// resulting bearer tokens.
func (h *Handlers) LoginRedirect(c *gin.Context) {
	kc := h.cfg.Keycloak

	query := url.Values{}
	query.Set("client_id", kc.ClientID)
	query.Set("response_type", "code")
	query.Set("scope", "openid profile email")
	if redirectURI := c.Query("redirect_uri"); redirectURI != "" {
		query.Set("redirect_uri", redirectURI)
	}

	c.Redirect(http.StatusFound, kc.AuthURL()+"?"+query.Encode())
}

// sessionCookieName is the cookie cleared on logout when the active
// policy variant allows a session.
const sessionCookieName = "JSESSIONID"

// Logout clears the session cookie when the variant allows one and
// redirects to the configured frontend logout target.
func (h *Handlers) Logout(c *gin.Context) {
	if h.pol.Session != policy.SessionStateless {
		c.SetCookie(sessionCookieName, "", -1, "/", "", false, true)
	}

	target := h.cfg.Frontend.LogoutRedirectURL
	if target == "" {
		target = h.pol.LogoutSuccessPath
	}
	c.Redirect(http.StatusFound, target)
}

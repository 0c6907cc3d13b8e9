package api

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log"
	"net/http"
	"time"

	"authportal/api/request"
	"authportal/config"
	"authportal/internal/auth"
	"authportal/internal/metrics"
	"authportal/middleware"
	"authportal/model"
	"authportal/service"

	"github.com/gin-gonic/gin"
)

// flashCookie identifies the browser's flash queue in Redis.
const flashCookie = "ap_flash"

// UserAPI exposes the page and form handlers for the auth flows.
type UserAPI struct {
	service *service.UserService
	session *auth.SessionManager
}

// NewUserAPI wires the service layer and session manager into the handlers.
func NewUserAPI(s *service.UserService, session *auth.SessionManager) *UserAPI {
	return &UserAPI{service: s, session: session}
}

// Index renders the entry page, or forwards straight to the dashboard
// when a session is already active.
func (u *UserAPI) Index(c *gin.Context) {
	if _, ok := middleware.CurrentPrincipal(c, u.session); ok {
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}
	u.render(c, http.StatusOK, "index.html", gin.H{})
}

// Login verifies credentials and establishes the session cookie.
func (u *UserAPI) Login(c *gin.Context) {
	if _, ok := middleware.CurrentPrincipal(c, u.session); ok {
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}

	var form request.LoginForm
	_ = c.ShouldBind(&form)

	principal, err := u.service.Login(form.Username, form.Password)
	switch {
	case errors.Is(err, service.ErrMissingCredentials):
		metrics.IncLogin("bad_request")
		u.flash(c, "error", "Please enter both username and password")
		c.Redirect(http.StatusFound, "/")
		return
	case errors.Is(err, service.ErrInvalidCredentials):
		metrics.IncLogin("unauthorized")
		u.flash(c, "error", "Invalid username or password")
		c.Redirect(http.StatusFound, "/")
		return
	case err != nil:
		metrics.IncLogin("internal_error")
		log.Printf("login failed: %v", err)
		u.flash(c, "error", "Login failed. Please try again.")
		c.Redirect(http.StatusFound, "/")
		return
	}

	token, err := auth.GenerateSessionToken(*principal)
	if err != nil {
		metrics.IncLogin("internal_error")
		log.Printf("issuing session token: %v", err)
		u.flash(c, "error", "Login failed. Please try again.")
		c.Redirect(http.StatusFound, "/")
		return
	}

	cfg := config.GlobalConfig.Session
	c.SetCookie(cfg.CookieName, token, int(cfg.Expire), "/", "", false, true)
	metrics.IncLogin("success")
	c.Redirect(http.StatusFound, "/dashboard")
}

// RegisterPage renders the registration form.
func (u *UserAPI) RegisterPage(c *gin.Context) {
	u.render(c, http.StatusOK, "register.html", gin.H{})
}

// Register handles new account creation. Every validation and conflict
// message is flashed together; only a clean form reaches the store.
func (u *UserAPI) Register(c *gin.Context) {
	var form request.RegisterForm
	_ = c.ShouldBind(&form)

	_, err := u.service.Register(service.RegisterInput{
		Username:        form.Username,
		Password:        form.Password,
		ConfirmPassword: form.ConfirmPassword,
		Email:           form.Email,
		IDNumber:        form.IDNumber,
		Gender:          form.Gender,
		PhoneNumber:     form.PhoneNumber,
	})
	if err != nil {
		var vErr *service.ValidationError
		switch {
		case errors.As(err, &vErr):
			metrics.IncRegister("rejected")
			for _, msg := range vErr.Messages {
				u.flash(c, "error", msg)
			}
		case errors.Is(err, service.ErrUserExists):
			metrics.IncRegister("conflict")
			u.flash(c, "error", "Username, email, or ID number already exists")
		default:
			metrics.IncRegister("internal_error")
			log.Printf("registration failed: %v", err)
			u.flash(c, "error", "Registration failed. Please try again.")
		}
		u.render(c, http.StatusOK, "register.html", gin.H{})
		return
	}

	metrics.IncRegister("success")
	u.flash(c, "success", "Registration successful! Please login.")
	c.Redirect(http.StatusFound, "/")
}

// Dashboard displays the signed-in user's name and email.
func (u *UserAPI) Dashboard(c *gin.Context) {
	v, ok := c.Get(middleware.PrincipalKey)
	if !ok {
		c.Redirect(http.StatusFound, "/")
		return
	}
	p := v.(model.Principal)
	u.render(c, http.StatusOK, "dashboard.html", gin.H{
		"username": p.Username,
		"email":    p.Email,
	})
}

// Logout revokes the session token, clears the cookie unconditionally
// and returns to the entry page.
func (u *UserAPI) Logout(c *gin.Context) {
	cfg := config.GlobalConfig.Session
	if token, err := c.Cookie(cfg.CookieName); err == nil && token != "" {
		if claims, perr := auth.ParseSessionToken(token); perr == nil {
			if ttl := time.Until(claims.ExpiresAt.Time); ttl > 0 {
				if berr := u.session.AddBlackList(token, ttl); berr != nil {
					log.Printf("blacklisting session token: %v", berr)
				}
			}
		}
	}
	c.SetCookie(cfg.CookieName, "", -1, "/", "", false, true)

	metrics.IncLogout("success")
	u.flash(c, "success", "You have been logged out")
	c.Redirect(http.StatusFound, "/")
}

// flash queues a one-shot message for the next rendered page.
func (u *UserAPI) flash(c *gin.Context, level, message string) {
	if err := u.session.PushFlash(u.flashID(c), level, message); err != nil {
		log.Printf("pushing flash: %v", err)
	}
}

// render pops pending flashes into the template data and renders.
func (u *UserAPI) render(c *gin.Context, status int, tmpl string, data gin.H) {
	flashes, err := u.session.PopFlashes(u.flashID(c))
	if err != nil {
		log.Printf("popping flashes: %v", err)
	}
	data["flashes"] = flashes
	c.HTML(status, tmpl, data)
}

// flashID returns the browser's flash queue id, minting the cookie on
// first use. A freshly minted id is cached on the request context so a
// flash-then-render cycle within one request shares the same queue.
func (u *UserAPI) flashID(c *gin.Context) string {
	if id := c.GetString(flashCookie); id != "" {
		return id
	}
	if id, err := c.Cookie(flashCookie); err == nil && id != "" {
		c.Set(flashCookie, id)
		return id
	}
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "anonymous"
	}
	id := hex.EncodeToString(b)
	c.SetCookie(flashCookie, id, 0, "/", "", false, true)
	c.Set(flashCookie, id)
	return id
}

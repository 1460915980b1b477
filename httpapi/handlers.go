package httpapi

import (
	"context"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cliptube/accounts"
	"github.com/cliptube/accounts/jwt"
)

const (
	accessCookie  = "accessToken"
	refreshCookie = "refreshToken"
)

// Service is the engine surface the handlers need. *accounts.Engine
// satisfies it; tests substitute fakes.
type Service interface {
	Register(ctx context.Context, in accounts.RegisterInput) (*accounts.PublicUser, error)
	Login(ctx context.Context, username, email, password string) (*accounts.LoginResult, error)
	Logout(ctx context.Context, userID string) error
	Refresh(ctx context.Context, presented string) (accounts.TokenPair, error)
	ParseAccess(token string) (*jwt.AccessClaims, error)
}

// CookieConfig controls the token cookies. Secure should only be disabled
// for local development.
type CookieConfig struct {
	AccessMaxAge  time.Duration
	RefreshMaxAge time.Duration
	Secure        bool
}

// Handler holds the HTTP endpoints.
type Handler struct {
	service Service
	cookies CookieConfig
}

// NewHandler returns a Handler over the given service.
func NewHandler(service Service, cookies CookieConfig) *Handler {
	return &Handler{service: service, cookies: cookies}
}

// Register handles the multipart registration form: fields fullname,
// email, username, password; file fields avatar (required) and coverImage
// (optional, first file used).
func (h *Handler) Register(c echo.Context) error {
	in := accounts.RegisterInput{
		Fullname: c.FormValue("fullname"),
		Email:    c.FormValue("email"),
		Username: c.FormValue("username"),
		Password: c.FormValue("password"),
	}

	avatar, closeAvatar, err := formFile(c, "avatar")
	if err == nil {
		defer closeAvatar()
		in.Avatar = avatar
	}
	cover, closeCover, err := formFile(c, "coverImage")
	if err == nil {
		defer closeCover()
		in.CoverImage = cover
	}

	user, err := h.service.Register(c.Request().Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusCreated, user, "User registered successfully")
}

type loginRequest struct {
	Username string `json:"username" form:"username"`
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// Login authenticates by username or email and sets both token cookies.
func (h *Handler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, accounts.ErrFieldsRequired)
	}

	result, err := h.service.Login(c.Request().Context(), req.Username, req.Email, req.Password)
	if err != nil {
		return respondError(c, err)
	}

	h.setTokenCookies(c, result.Tokens)
	return respond(c, http.StatusOK, echo.Map{
		"user":         result.User,
		"accessToken":  result.Tokens.AccessToken,
		"refreshToken": result.Tokens.RefreshToken,
	}, "User logged in successfully")
}

// Logout clears the stored refresh token for the authenticated caller and
// expires both cookies. It sits behind RequireAuth.
func (h *Handler) Logout(c echo.Context) error {
	claims, ok := claimsFrom(c)
	if !ok {
		return respondError(c, accounts.ErrUnauthorized)
	}

	if err := h.service.Logout(c.Request().Context(), claims.Subject); err != nil {
		return respondError(c, err)
	}

	h.clearTokenCookies(c)
	return respond(c, http.StatusOK, echo.Map{}, "User logged out")
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" form:"refreshToken"`
}

// Refresh rotates the token pair. The presented token comes from the
// refreshToken cookie, or from the request body as a fallback.
func (h *Handler) Refresh(c echo.Context) error {
	presented := ""
	if cookie, err := c.Cookie(refreshCookie); err == nil {
		presented = cookie.Value
	}
	if presented == "" {
		var req refreshRequest
		if err := c.Bind(&req); err == nil {
			presented = req.RefreshToken
		}
	}

	pair, err := h.service.Refresh(c.Request().Context(), presented)
	if err != nil {
		return respondError(c, err)
	}

	h.setTokenCookies(c, pair)
	return respond(c, http.StatusOK, pair, "Access token refreshed")
}

func (h *Handler) setTokenCookies(c echo.Context, pair accounts.TokenPair) {
	c.SetCookie(h.tokenCookie(accessCookie, pair.AccessToken, h.cookies.AccessMaxAge))
	c.SetCookie(h.tokenCookie(refreshCookie, pair.RefreshToken, h.cookies.RefreshMaxAge))
}

func (h *Handler) clearTokenCookies(c echo.Context) {
	c.SetCookie(h.tokenCookie(accessCookie, "", -time.Second))
	c.SetCookie(h.tokenCookie(refreshCookie, "", -time.Second))
}

func (h *Handler) tokenCookie(name, value string, maxAge time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(maxAge / time.Second),
		HttpOnly: true,
		Secure:   h.cookies.Secure,
		SameSite: http.SameSiteStrictMode,
	}
}

func formFile(c echo.Context, field string) (*accounts.FileUpload, func(), error) {
	header, err := c.FormFile(field)
	if err != nil {
		return nil, nil, err
	}
	file, err := header.Open()
	if err != nil {
		return nil, nil, err
	}
	return &accounts.FileUpload{
		Name:        header.Filename,
		ContentType: contentTypeOf(header),
		Size:        header.Size,
		Reader:      file,
	}, func() { _ = file.Close() }, nil
}

func contentTypeOf(header *multipart.FileHeader) string {
	return header.Header.Get("Content-Type")
}

package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	Users  UserStore
	Tokens *TokenManager
}

func NewHandler(users UserStore, tokens *TokenManager) *Handler {
	return &Handler{Users: users, Tokens: tokens}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string     `json:"token"`
	User  PublicUser `json:"user"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (h *Handler) Register(c *fiber.Ctx) error {
	var body registerRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	email := normalizeEmail(body.Email)
	if email == "" || body.Password == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Email and password are required")
	}

	if _, err := h.Users.FindByEmail(c.UserContext(), email); err == nil {
		return fiber.NewError(fiber.StatusConflict, "Email already in use")
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}

	hash, err := HashPassword(body.Password)
	if err != nil {
		return err
	}

	user := &User{
		Name:         strings.TrimSpace(body.Name),
		Email:        email,
		PasswordHash: hash,
	}
	if err := h.Users.Create(c.UserContext(), user); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return fiber.NewError(fiber.StatusConflict, "Email already in use")
		}
		return err
	}

	token, err := h.Tokens.Sign(user.ID.Hex())
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(authResponse{Token: token, User: user.Public()})
}

func (h *Handler) Login(c *fiber.Ctx) error {
	var body loginRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	email := normalizeEmail(body.Email)
	if email == "" || body.Password == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Email and password are required")
	}

	// Unknown email and wrong password produce the same response so the
	// endpoint cannot be used to enumerate accounts.
	user, err := h.Users.FindByEmail(c.UserContext(), email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid credentials")
		}
		return err
	}
	if !VerifyPassword(body.Password, user.PasswordHash) {
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid credentials")
	}

	token, err := h.Tokens.Sign(user.ID.Hex())
	if err != nil {
		return err
	}

	return c.JSON(authResponse{Token: token, User: user.Public()})
}

func (h *Handler) Me(c *fiber.Ctx) error {
	uid, err := UserID(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}

	user, err := h.Users.FindByID(c.UserContext(), uid)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
		}
		return err
	}

	return c.JSON(fiber.Map{"user": user.Public()})
}

package auth

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"stocktrack-backend/internal/config"
	"stocktrack-backend/internal/models"
	"stocktrack-backend/internal/store"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type GoogleLoginRequest struct {
	IDToken string `json:"idToken"`
	Email   string `json:"email"`
	Name    string `json:"name"`
}

func userSummary(user *models.User) fiber.Map {
	return fiber.Map{
		"id":    user.ID,
		"email": user.Email,
		"name":  user.Name,
		"role":  user.Role,
	}
}

// POST /api/auth/register
func RegisterHandler(cfg *config.Config, sel *store.Selector) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body RegisterRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Email = strings.TrimSpace(strings.ToLower(body.Email))
		body.Name = strings.TrimSpace(body.Name)

		fields := map[string]string{}
		if body.Email == "" || !strings.Contains(body.Email, "@") {
			fields["email"] = "valid email is required"
		}
		if len(body.Password) < 6 {
			fields["password"] = "password must be at least 6 characters"
		}
		if body.Name == "" {
			fields["name"] = "name is required"
		}
		if len(fields) > 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":  "Invalid input",
				"fields": fields,
			})
		}

		st := sel.Current()

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Println("register: hash password:", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Internal server error")
		}

		user := models.User{
			Email:        body.Email,
			PasswordHash: string(hash),
			Name:         body.Name,
			Role:         models.RoleUser,
			Provider:     models.ProviderLocal,
		}
		if err := st.CreateUser(&user); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				return fiber.NewError(fiber.StatusBadRequest, "User already exists")
			}
			log.Println("register: create user:", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Internal server error")
		}

		token, err := GenerateToken(cfg.JWTSecret, &user)
		if err != nil {
			log.Println("register: sign token:", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Internal server error")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message": "User created successfully",
			"user":    userSummary(&user),
			"token":   token,
		})
	}
}

// POST /api/auth/login
func LoginHandler(cfg *config.Config, sel *store.Selector) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body LoginRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Email = strings.TrimSpace(strings.ToLower(body.Email))

		user, err := sel.Current().GetUserByEmail(body.Email)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusUnauthorized, "Invalid credentials")
			}
			log.Println("login: lookup user:", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Internal server error")
		}

		// Federated accounts have no password hash and cannot log in locally.
		if user.PasswordHash == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid credentials")
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(body.Password)); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid credentials")
		}

		token, err := GenerateToken(cfg.JWTSecret, user)
		if err != nil {
			log.Println("login: sign token:", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Internal server error")
		}

		return c.JSON(fiber.Map{
			"message": "Login successful",
			"user":    userSummary(user),
			"token":   token,
		})
	}
}

// POST /api/auth/google
//
// The client sends its Google profile after the Firebase sign-in. The token
// is not re-verified server side; an existing local account with the same
// email gets the external identity attached instead of a second account.
func GoogleLoginHandler(cfg *config.Config, sel *store.Selector) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body GoogleLoginRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Email = strings.TrimSpace(strings.ToLower(body.Email))
		body.Name = strings.TrimSpace(body.Name)

		if body.IDToken == "" || body.Email == "" || body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Missing required fields")
		}

		st := sel.Current()

		user, err := st.GetUserByEmail(body.Email)
		switch {
		case errors.Is(err, store.ErrNotFound):
			user = &models.User{
				Email:      body.Email,
				Name:       body.Name,
				Role:       models.RoleUser,
				ExternalID: externalID(body.Email),
				Provider:   models.ProviderGoogle,
			}
			if err := st.CreateUser(user); err != nil {
				log.Println("google login: create user:", err)
				return fiber.NewError(fiber.StatusInternalServerError, "Internal server error")
			}
		case err != nil:
			log.Println("google login: lookup user:", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Internal server error")
		case user.ExternalID == "":
			id := externalID(body.Email)
			provider := models.ProviderGoogle
			user, err = st.UpdateUser(user.ID, store.UserUpdate{
				ExternalID: &id,
				Provider:   &provider,
			})
			if err != nil {
				log.Println("google login: link account:", err)
				return fiber.NewError(fiber.StatusInternalServerError, "Internal server error")
			}
		}

		token, err := GenerateToken(cfg.JWTSecret, user)
		if err != nil {
			log.Println("google login: sign token:", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Internal server error")
		}

		return c.JSON(fiber.Map{
			"message": "Google login successful",
			"user":    userSummary(user),
			"token":   token,
		})
	}
}

func externalID(email string) string {
	return fmt.Sprintf("google_%s_%d", email, time.Now().UnixNano())
}

// GET /api/auth/me
func MeHandler(sel *store.Selector) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := sel.Current().GetUser(UserID(c))
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "User not found")
			}
			log.Println("me: lookup user:", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Internal server error")
		}
		return c.JSON(fiber.Map{"user": userSummary(user)})
	}
}

package server

import (
	"fmt"
	"strconv"
	"time"

	"fieldops/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login handles user authentication
// @Summary Log in with username (or email) and password
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body loginRequest true "Login credentials"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/login [post]
func (s *Server) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.Username == "" || req.Password == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Username and password are required"))
	}

	user, err := s.userRepo.GetByUsername(c.Context(), req.Username)
	if err != nil {
		return respondWithAppError(c, err)
	}
	if user == nil {
		// Allow logging in with the email address as well.
		user, err = s.userRepo.GetByEmail(c.Context(), req.Username)
		if err != nil {
			return respondWithAppError(c, err)
		}
	}
	if user == nil {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Invalid credentials"))
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Invalid credentials"))
	}

	token, err := s.generateToken(user)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user":  user,
	})
}

// Logout revokes the presented token by blacklisting its JTI
// @Summary Log out and revoke the current token
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /auth/logout [post]
func (s *Server) Logout(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
		tokenString := authHeader[7:]
		token, _, err := jwt.NewParser().ParseUnverified(tokenString, jwt.MapClaims{})
		if err == nil {
			if claims, ok := token.Claims.(jwt.MapClaims); ok {
				jti, _ := claims["jti"].(string)
				exp, _ := claims["exp"].(float64)
				if jti != "" && s.redis != nil {
					ttl := time.Until(time.Unix(int64(exp), 0))
					if ttl > 0 {
						s.redis.Set(c.Context(), "blacklist:"+jti, "1", ttl)
					}
				}
			}
		}
	}
	return c.JSON(fiber.Map{"message": "Logged out"})
}

// generateToken creates a signed JWT for the user.
func (s *Server) generateToken(user *models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  strconv.FormatUint(uint64(user.ID), 10),
		"role": string(user.Role),
		"iss":  "fieldops-api",
		"aud":  "fieldops-client",
		"jti":  generateJTI(),
		"iat":  now.Unix(),
		"nbf":  now.Unix(),
		"exp":  now.Add(7 * 24 * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}

// generateJTI creates a unique token identifier for revocation tracking.
func generateJTI() string {
	return fmt.Sprintf("fo-%s", uuid.NewString())
}

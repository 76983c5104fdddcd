package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/receptive/reviews-backend/internal/db"
	"github.com/receptive/reviews-backend/internal/models"
	"github.com/receptive/reviews-backend/internal/services"
)

// Protect is the identity stage: it validates the bearer token and
// resolves the full user record (minus password hash) into the request
// context for later stages and handlers.
func Protect(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Not authorized, no token"})
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Not authorized, invalid token format"})
	}

	userID, err := services.VerifyJWT(tokenString)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Not authorized, token failed"})
	}

	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Not authorized, token failed"})
	}

	var user models.User
	err = db.GetCollection("users").FindOne(c.Context(), bson.M{"_id": objID},
		options.FindOne().SetProjection(bson.M{"password": 0})).Decode(&user)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Not authorized, user not found"})
	}

	c.Locals("user", &user)
	return c.Next()
}

// CurrentUser returns the user resolved by Protect, or nil when the
// route is not identity-gated.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals("user").(*models.User)
	return user
}

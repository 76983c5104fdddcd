package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/receptive/reviews-backend/internal/httperr"
	"github.com/receptive/reviews-backend/internal/middleware"
	"github.com/receptive/reviews-backend/internal/services"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	IsAdmin  bool   `json:"isAdmin"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterHandler creates a new user account.
func RegisterHandler(c *fiber.Ctx) error {
	var request registerRequest
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body"})
	}

	user, err := services.RegisterUser(c.Context(), request.Name, request.Email, request.Password, request.Phone)
	if err != nil {
		return httperr.Respond(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User registered successfully",
		"user":    user,
	})
}

// LoginHandler authenticates a user and issues a bearer token.
func LoginHandler(c *fiber.Ctx) error {
	var request loginRequest
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body"})
	}

	token, user, err := services.LoginUser(c.Context(), request.Email, request.Password)
	if err != nil {
		return httperr.Respond(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Login successful",
		"token":   token,
		"user":    user,
	})
}

// GetMeHandler returns a user's public profile. Neither the password
// hash nor the admin flag leaves this endpoint.
func GetMeHandler(c *fiber.Ctx) error {
	user, err := services.GetUserByID(c.Context(), c.Params("userId"))
	if err != nil {
		return httperr.Respond(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "User data retrieved successfully",
		"user": fiber.Map{
			"id":         user.ID,
			"name":       user.Name,
			"email":      user.Email,
			"phone":      user.Phone,
			"created_at": user.CreatedAt,
		},
	})
}

// ProfileHandler echoes the user resolved by the identity stage.
func ProfileHandler(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "Profile data",
		"user":    middleware.CurrentUser(c),
	})
}

// ListUsersHandler returns all users without password hashes.
func ListUsersHandler(c *fiber.Ctx) error {
	users, err := services.ListUsers(c.Context())
	if err != nil {
		return httperr.Respond(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "users": users})
}

// DeleteUserHandler permanently removes a user.
func DeleteUserHandler(c *fiber.Ctx) error {
	if err := services.DeleteUser(c.Context(), c.Params("id")); err != nil {
		return httperr.Respond(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "message": "User deleted successfully"})
}

// AdminCreateUserHandler lets an admin create a user, optionally with
// the admin flag set.
func AdminCreateUserHandler(c *fiber.Ctx) error {
	var request registerRequest
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body"})
	}

	user, err := services.CreateUserByAdmin(c.Context(), request.Name, request.Email, request.Password, request.Phone, request.IsAdmin)
	if err != nil {
		return httperr.Respond(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User created successfully by admin",
		"user":    user,
	})
}

// AdminLoginHandler verifies admin credentials without issuing a token.
func AdminLoginHandler(c *fiber.Ctx) error {
	var request loginRequest
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body"})
	}

	user, err := services.AdminLogin(c.Context(), request.Email, request.Password)
	if err != nil {
		return httperr.Respond(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"user": fiber.Map{
			"name":    user.Name,
			"email":   user.Email,
			"isAdmin": user.IsAdmin,
		},
	})
}

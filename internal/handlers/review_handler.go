package handlers

import (
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/receptive/reviews-backend/internal/httperr"
	"github.com/receptive/reviews-backend/internal/media"
	"github.com/receptive/reviews-backend/internal/middleware"
	"github.com/receptive/reviews-backend/internal/services"
)

// Image caps per endpoint: the create form sends up to 4 images, the
// edit form up to 5.
const (
	createImageLimit = 4
	editImageLimit   = 5
)

// ReviewHandler exposes the review surface over the moderation service.
type ReviewHandler struct {
	service *services.ReviewService
}

func NewReviewHandler(service *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{service: service}
}

// formImages pulls the uploaded image files from a multipart form, if
// one was sent at all.
func formImages(c *fiber.Ctx) []*multipart.FileHeader {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil
	}
	return form.File["images"]
}

// GetAllReviews returns every review, newest first, with display names.
func (h *ReviewHandler) GetAllReviews(c *fiber.Ctx) error {
	reviews, err := h.service.ListReviews(c.Context())
	if err != nil {
		return httperr.Respond(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "reviews": reviews})
}

// CreateReview stores a new review for the authenticated user.
func (h *ReviewHandler) CreateReview(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	urls, err := media.Ingest(c.Context(), formImages(c), createImageLimit)
	if err != nil {
		return httperr.Respond(c, err)
	}

	review, err := h.service.CreateReview(c.Context(), user.ID, c.FormValue("content"), c.FormValue("ratings"), urls)
	if err != nil {
		return httperr.Respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "review": review})
}

// EditReview updates a review's rating, content and images.
func (h *ReviewHandler) EditReview(c *fiber.Ctx) error {
	urls, err := media.Ingest(c.Context(), formImages(c), editImageLimit)
	if err != nil {
		return httperr.Respond(c, err)
	}

	review, err := h.service.EditReview(c.Context(), strings.TrimSpace(c.Params("id")),
		c.FormValue("rating"), c.FormValue("comment"), c.FormValue("existingImages"), urls)
	if err != nil {
		return httperr.Respond(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Review updated successfully",
		"review": fiber.Map{
			"_id":        review.ID,
			"content":    review.Content,
			"ratings":    review.Ratings,
			"author":     review.Author,
			"createdAt":  review.CreatedAt,
			"isapproved": review.IsApproved,
			"images":     review.Images,
		},
	})
}

// LikeReview toggles the acting user's like on a review.
func (h *ReviewHandler) LikeReview(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	review, err := h.service.LikeReview(c.Context(), c.Params("reviewId"), user.ID)
	if err != nil {
		return httperr.Respond(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "review": review})
}

// RemoveLike removes the acting user's like from a review.
func (h *ReviewHandler) RemoveLike(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	review, err := h.service.RemoveLike(c.Context(), c.Params("reviewId"), user.ID)
	if err != nil {
		return httperr.Respond(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "review": review})
}

// DeleteReview permanently removes a review.
func (h *ReviewHandler) DeleteReview(c *fiber.Ctx) error {
	if err := h.service.DeleteReview(c.Context(), c.Params("reviewId")); err != nil {
		return httperr.Respond(c, err)
	}
	return c.JSON(fiber.Map{"message": "Review deleted successfully"})
}

// UserDelete removes a review on a route that requires a bearer token
// to be present but does not resolve it further.
func (h *ReviewHandler) UserDelete(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[1] == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "No token provided"})
	}

	if err := h.service.UserDelete(c.Context(), c.Params("id")); err != nil {
		return httperr.Respond(c, err)
	}
	return c.JSON(fiber.Map{"message": "Review deleted successfully"})
}

// AdminAddReview injects a pre-approved demo review.
func (h *ReviewHandler) AdminAddReview(c *fiber.Ctx) error {
	var request struct {
		Content  string `json:"content"`
		Ratings  string `json:"ratings"`
		DemoName string `json:"demoName"`
	}
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}

	review, err := h.service.AdminAddReview(c.Context(), request.Content, request.Ratings, request.DemoName)
	if err != nil {
		return httperr.Respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "review": review})
}

// ApproveReview marks a review as approved.
func (h *ReviewHandler) ApproveReview(c *fiber.Ctx) error {
	review, err := h.service.ApproveReview(c.Context(), c.Params("id"))
	if err != nil {
		return httperr.Respond(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "review": review})
}

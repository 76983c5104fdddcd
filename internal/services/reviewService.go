package services

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/receptive/reviews-backend/internal/httperr"
	"github.com/receptive/reviews-backend/internal/models"
	"github.com/receptive/reviews-backend/internal/realtime"
)

// Realtime event names pushed to connected viewers.
const (
	EventNewReview   = "newReview"
	EventLiked       = "review:liked"
	EventLikeRemoved = "review:likeRemoved"
	EventDeleted     = "review:deleted"
)

// AuthorRef is the slice of the author record exposed alongside a
// review. Email is only filled where the endpoint historically exposed
// it; the id and name are all list rendering needs.
type AuthorRef struct {
	ID    primitive.ObjectID `json:"_id"`
	Name  string             `json:"name"`
	Email string             `json:"email,omitempty"`
}

// ReviewView is a review enriched for API responses: the author
// reference is expanded and the display name resolved.
type ReviewView struct {
	models.Review
	Author      *AuthorRef `json:"author,omitempty"`
	DisplayName string     `json:"displayName,omitempty"`
}

// ReviewService orchestrates review moderation and queries. Broadcasts
// go through the injected hub, strictly after the corresponding store
// write has returned.
type ReviewService struct {
	reviews *mongo.Collection
	users   *mongo.Collection
	hub     *realtime.Hub
}

func NewReviewService(db *mongo.Database, hub *realtime.Hub) *ReviewService {
	return &ReviewService{
		reviews: db.Collection("reviews"),
		users:   db.Collection("users"),
		hub:     hub,
	}
}

// populate expands the author reference on a review. withEmail controls
// whether the author's email is included in the view.
func (s *ReviewService) populate(ctx context.Context, review models.Review, withEmail bool) ReviewView {
	view := ReviewView{Review: review}
	if review.Author == nil {
		view.DisplayName = review.DisplayName("")
		return view
	}

	var author models.User
	err := s.users.FindOne(ctx, bson.M{"_id": *review.Author},
		options.FindOne().SetProjection(bson.M{"name": 1, "email": 1})).Decode(&author)
	if err != nil {
		view.DisplayName = review.DisplayName("")
		return view
	}

	ref := &AuthorRef{ID: author.ID, Name: author.Name}
	if withEmail {
		ref.Email = author.Email
	}
	view.Author = ref
	view.DisplayName = review.DisplayName(author.Name)
	return view
}

// ListReviews returns all reviews newest first, each with its resolved
// display name.
func (s *ReviewService) ListReviews(ctx context.Context) ([]ReviewView, error) {
	cursor, err := s.reviews.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var reviews []models.Review
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, err
	}

	authors, err := s.authorsFor(ctx, reviews)
	if err != nil {
		return nil, err
	}

	views := make([]ReviewView, 0, len(reviews))
	for _, r := range reviews {
		view := ReviewView{Review: r}
		if r.Author != nil {
			if author, ok := authors[*r.Author]; ok {
				view.Author = &AuthorRef{ID: author.ID, Name: author.Name, Email: author.Email}
				view.DisplayName = r.DisplayName(author.Name)
			}
		} else {
			view.DisplayName = r.DisplayName("")
		}
		views = append(views, view)
	}
	return views, nil
}

// authorsFor batch-fetches the author records referenced by a page of
// reviews, selecting name and email only.
func (s *ReviewService) authorsFor(ctx context.Context, reviews []models.Review) (map[primitive.ObjectID]models.User, error) {
	ids := make([]primitive.ObjectID, 0, len(reviews))
	seen := make(map[primitive.ObjectID]bool)
	for _, r := range reviews {
		if r.Author != nil && !seen[*r.Author] {
			seen[*r.Author] = true
			ids = append(ids, *r.Author)
		}
	}
	authors := make(map[primitive.ObjectID]models.User, len(ids))
	if len(ids) == 0 {
		return authors, nil
	}

	cursor, err := s.users.Find(ctx, bson.M{"_id": bson.M{"$in": ids}},
		options.Find().SetProjection(bson.M{"name": 1, "email": 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	for _, u := range users {
		authors[u.ID] = u
	}
	return authors, nil
}

// CreateReview persists a new unapproved review for a user and
// broadcasts it.
func (s *ReviewService) CreateReview(ctx context.Context, userID primitive.ObjectID, content, ratings string, images []string) (ReviewView, error) {
	now := time.Now()
	review := models.Review{
		ID:         primitive.NewObjectID(),
		Author:     &userID,
		Content:    content,
		Ratings:    ratings,
		Likes:      []primitive.ObjectID{},
		Images:     images,
		IsApproved: false,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if _, err := s.reviews.InsertOne(ctx, review); err != nil {
		return ReviewView{}, err
	}

	populated := s.populate(ctx, review, false)
	s.hub.Broadcast(EventNewReview, populated)
	return populated, nil
}

// EditReview updates content, rating and image list, and sends the
// review back through moderation. existingImagesJSON, when non-empty,
// is a JSON array naming the previously stored image URLs to keep.
func (s *ReviewService) EditReview(ctx context.Context, id, rating, comment, existingImagesJSON string, newImages []string) (models.Review, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Review{}, httperr.Validation("Invalid review ID format")
	}

	var review models.Review
	err = s.reviews.FindOne(ctx, bson.M{"_id": objID}).Decode(&review)
	if err == mongo.ErrNoDocuments {
		return models.Review{}, httperr.NotFound("Review not found")
	}
	if err != nil {
		return models.Review{}, err
	}

	if rating == "" || comment == "" {
		return models.Review{}, httperr.Validation("Rating and comment are required")
	}
	value, err := strconv.ParseFloat(rating, 64)
	if err != nil || value < 1 || value > 5 {
		return models.Review{}, httperr.Validation("Rating must be between 1 and 5")
	}

	images := review.Images
	if existingImagesJSON != "" {
		var existing []string
		if err := json.Unmarshal([]byte(existingImagesJSON), &existing); err != nil {
			return models.Review{}, httperr.Validation("Invalid existing images list")
		}
		images = existing
	}
	images = append(images, newImages...)
	if len(images) > 5 {
		return models.Review{}, httperr.Validation("A maximum of 5 images are allowed")
	}

	review.ApplyEdit(strconv.FormatInt(int64(value), 10), comment, images)

	_, err = s.reviews.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": bson.M{
		"ratings":    review.Ratings,
		"content":    review.Content,
		"images":     review.Images,
		"isapproved": review.IsApproved,
		"updated_at": review.UpdatedAt,
	}})
	if err != nil {
		return models.Review{}, err
	}
	return review, nil
}

// LikeReview toggles the acting user's membership in the like set and
// broadcasts the result.
func (s *ReviewService) LikeReview(ctx context.Context, reviewID string, userID primitive.ObjectID) (ReviewView, error) {
	review, err := s.findReview(ctx, reviewID)
	if err != nil {
		return ReviewView{}, err
	}

	review.ToggleLike(userID)
	if err := s.saveLikes(ctx, review); err != nil {
		return ReviewView{}, err
	}

	populated := s.populate(ctx, review, true)
	s.hub.Broadcast(EventLiked, populated)
	return populated, nil
}

// RemoveLike removes the acting user from the like set and broadcasts
// the result. Removing an absent like is a no-op.
func (s *ReviewService) RemoveLike(ctx context.Context, reviewID string, userID primitive.ObjectID) (ReviewView, error) {
	review, err := s.findReview(ctx, reviewID)
	if err != nil {
		return ReviewView{}, err
	}

	review.Unlike(userID)
	if err := s.saveLikes(ctx, review); err != nil {
		return ReviewView{}, err
	}

	populated := s.populate(ctx, review, true)
	s.hub.Broadcast(EventLikeRemoved, populated)
	return populated, nil
}

// DeleteReview permanently removes a review and broadcasts its id.
func (s *ReviewService) DeleteReview(ctx context.Context, reviewID string) error {
	review, err := s.findReview(ctx, reviewID)
	if err != nil {
		return err
	}

	if _, err := s.reviews.DeleteOne(ctx, bson.M{"_id": review.ID}); err != nil {
		return err
	}

	s.hub.Broadcast(EventDeleted, bson.M{"reviewId": reviewID})
	return nil
}

// UserDelete removes a review without broadcasting. The route only
// checks that a bearer token is present; the handler owns that check.
func (s *ReviewService) UserDelete(ctx context.Context, reviewID string) error {
	review, err := s.findReview(ctx, reviewID)
	if err != nil {
		return err
	}
	_, err = s.reviews.DeleteOne(ctx, bson.M{"_id": review.ID})
	return err
}

// AdminAddReview injects a pre-approved demo review and broadcasts it.
func (s *ReviewService) AdminAddReview(ctx context.Context, content, ratings, demoName string) (models.Review, error) {
	if ratings == "" {
		return models.Review{}, httperr.Validation("Ratings is required")
	}

	now := time.Now()
	review := models.Review{
		ID:         primitive.NewObjectID(),
		DemoName:   demoName,
		Content:    content,
		Ratings:    ratings,
		Likes:      []primitive.ObjectID{},
		Images:     []string{},
		IsFake:     true,
		IsApproved: true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if _, err := s.reviews.InsertOne(ctx, review); err != nil {
		return models.Review{}, err
	}

	s.hub.Broadcast(EventNewReview, review)
	return review, nil
}

// ApproveReview marks a review as approved.
func (s *ReviewService) ApproveReview(ctx context.Context, reviewID string) (models.Review, error) {
	review, err := s.findReview(ctx, reviewID)
	if err != nil {
		return models.Review{}, err
	}

	review.Approve()
	_, err = s.reviews.UpdateOne(ctx, bson.M{"_id": review.ID}, bson.M{"$set": bson.M{
		"isapproved": review.IsApproved,
		"updated_at": review.UpdatedAt,
	}})
	if err != nil {
		return models.Review{}, err
	}
	return review, nil
}

func (s *ReviewService) findReview(ctx context.Context, reviewID string) (models.Review, error) {
	objID, err := primitive.ObjectIDFromHex(reviewID)
	if err != nil {
		return models.Review{}, httperr.Validation("Invalid review ID format")
	}

	var review models.Review
	err = s.reviews.FindOne(ctx, bson.M{"_id": objID}).Decode(&review)
	if err == mongo.ErrNoDocuments {
		return models.Review{}, httperr.NotFound("Review not found")
	}
	if err != nil {
		return models.Review{}, err
	}
	return review, nil
}

// saveLikes writes back the like set read-modify-write style. Two
// concurrent toggles on the same review can interleave; the lost-update
// window is an accepted tradeoff.
func (s *ReviewService) saveLikes(ctx context.Context, review models.Review) error {
	_, err := s.reviews.UpdateOne(ctx, bson.M{"_id": review.ID}, bson.M{"$set": bson.M{
		"likes":      review.Likes,
		"updated_at": time.Now(),
	}})
	return err
}

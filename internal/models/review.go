package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Review is the moderated testimonial document. Exactly one of Author and
// DemoName names the reviewer: demo reviews (IsFake) carry DemoName and no
// author, real reviews carry the author's id. Likes holds user ids with
// set semantics, enforced by ToggleLike/Unlike.
type Review struct {
	ID         primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	Author     *primitive.ObjectID  `bson:"author,omitempty" json:"author,omitempty"`
	DemoName   string               `bson:"demoName,omitempty" json:"demoName,omitempty"`
	Content    string               `bson:"content" json:"content"`
	Ratings    string               `bson:"ratings" json:"ratings"`
	Likes      []primitive.ObjectID `bson:"likes" json:"likes"`
	Images     []string             `bson:"images" json:"images"`
	IsFake     bool                 `bson:"isFake" json:"isFake"`
	IsApproved bool                 `bson:"isapproved" json:"isapproved"`
	CreatedAt  time.Time            `bson:"created_at" json:"createdAt"`
	UpdatedAt  time.Time            `bson:"updated_at" json:"updatedAt"`
}

// DisplayName resolves the reviewer's public name. authorName is the name
// of the populated author record, ignored for demo reviews.
func (r *Review) DisplayName(authorName string) string {
	if r.IsFake {
		return r.DemoName
	}
	return authorName
}

// ToggleLike adds userID to the like set if absent and removes it if
// present. Reports whether the review is liked by userID afterwards.
func (r *Review) ToggleLike(userID primitive.ObjectID) bool {
	for i, id := range r.Likes {
		if id == userID {
			r.Likes = append(r.Likes[:i], r.Likes[i+1:]...)
			return false
		}
	}
	r.Likes = append(r.Likes, userID)
	return true
}

// Unlike removes userID from the like set. No-op when absent.
func (r *Review) Unlike(userID primitive.ObjectID) {
	kept := r.Likes[:0]
	for _, id := range r.Likes {
		if id != userID {
			kept = append(kept, id)
		}
	}
	r.Likes = kept
}

// LikedBy reports whether userID is in the like set.
func (r *Review) LikedBy(userID primitive.ObjectID) bool {
	for _, id := range r.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

// ApplyEdit replaces content, rating and images, and sends the review back
// through moderation.
func (r *Review) ApplyEdit(ratings, content string, images []string) {
	r.Ratings = ratings
	r.Content = content
	r.Images = images
	r.IsApproved = false
	r.UpdatedAt = time.Now()
}

// Approve marks the review as approved.
func (r *Review) Approve() {
	r.IsApproved = true
	r.UpdatedAt = time.Now()
}

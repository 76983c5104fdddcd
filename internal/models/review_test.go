package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestToggleLikeRoundTrip(t *testing.T) {
	review := Review{Likes: []primitive.ObjectID{}}
	user := primitive.NewObjectID()

	liked := review.ToggleLike(user)
	assert.True(t, liked)
	assert.Equal(t, []primitive.ObjectID{user}, review.Likes)

	liked = review.ToggleLike(user)
	assert.False(t, liked)
	assert.Empty(t, review.Likes)
}

func TestToggleLikeNeverDuplicates(t *testing.T) {
	review := Review{Likes: []primitive.ObjectID{}}
	user := primitive.NewObjectID()

	review.ToggleLike(user)
	review.ToggleLike(user)
	review.ToggleLike(user)

	require.Len(t, review.Likes, 1)
	assert.True(t, review.LikedBy(user))
}

func TestToggleLikePreservesOtherUsers(t *testing.T) {
	alice := primitive.NewObjectID()
	bob := primitive.NewObjectID()
	review := Review{Likes: []primitive.ObjectID{alice}}

	review.ToggleLike(bob)
	assert.Equal(t, []primitive.ObjectID{alice, bob}, review.Likes)

	review.ToggleLike(alice)
	assert.Equal(t, []primitive.ObjectID{bob}, review.Likes)
}

func TestUnlikeIsIdempotent(t *testing.T) {
	user := primitive.NewObjectID()
	review := Review{Likes: []primitive.ObjectID{user}}

	review.Unlike(user)
	assert.Empty(t, review.Likes)

	review.Unlike(user)
	assert.Empty(t, review.Likes)
}

func TestApplyEditForcesRemoderation(t *testing.T) {
	for _, approved := range []bool{true, false} {
		review := Review{IsApproved: approved, Ratings: "5", Content: "great"}
		review.ApplyEdit("3", "okay", []string{"https://cdn.example.com/a.jpg"})

		assert.False(t, review.IsApproved)
		assert.Equal(t, "3", review.Ratings)
		assert.Equal(t, "okay", review.Content)
		assert.Equal(t, []string{"https://cdn.example.com/a.jpg"}, review.Images)
		assert.False(t, review.UpdatedAt.IsZero())
	}
}

func TestApprove(t *testing.T) {
	review := Review{}
	review.Approve()
	assert.True(t, review.IsApproved)
}

func TestDisplayName(t *testing.T) {
	demo := Review{IsFake: true, DemoName: "Happy Customer"}
	assert.Equal(t, "Happy Customer", demo.DisplayName("ignored"))

	authorID := primitive.NewObjectID()
	real := Review{Author: &authorID}
	assert.Equal(t, "Alice", real.DisplayName("Alice"))
}

package handlers

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"backend/internal/models"
)

func TestUpsertReviewAppendsNewReviewer(t *testing.T) {
	alice := primitive.NewObjectID()
	bob := primitive.NewObjectID()

	reviews := upsertReview(nil, models.Review{User: alice, Name: "alice", Rating: 4, Comment: "good"})
	reviews = upsertReview(reviews, models.Review{User: bob, Name: "bob", Rating: 2, Comment: "meh"})

	if len(reviews) != 2 {
		t.Fatalf("expected 2 reviews, got %d", len(reviews))
	}
	for _, review := range reviews {
		if review.ID.IsZero() {
			t.Fatal("appended review must be assigned an id")
		}
	}
}

func TestUpsertReviewUpdatesInPlace(t *testing.T) {
	alice := primitive.NewObjectID()

	reviews := upsertReview(nil, models.Review{User: alice, Name: "alice", Rating: 4, Comment: "good"})
	firstID := reviews[0].ID

	reviews = upsertReview(reviews, models.Review{User: alice, Rating: 1, Comment: "changed my mind"})

	if len(reviews) != 1 {
		t.Fatalf("repeat submission must not add a review, got %d", len(reviews))
	}
	if reviews[0].ID != firstID {
		t.Fatal("updating a review must keep its id")
	}
	if reviews[0].Rating != 1 || reviews[0].Comment != "changed my mind" {
		t.Fatalf("review not updated: rating=%v comment=%q", reviews[0].Rating, reviews[0].Comment)
	}
}

func TestAverageRating(t *testing.T) {
	if got := averageRating(nil); got != 0 {
		t.Fatalf("empty review list must average 0, got %v", got)
	}

	reviews := []models.Review{{Rating: 5}, {Rating: 4}, {Rating: 3}}
	if got := averageRating(reviews); got != 4 {
		t.Fatalf("expected average 4, got %v", got)
	}
}

func TestRemoveReviewByID(t *testing.T) {
	target := primitive.NewObjectID()
	reviews := []models.Review{
		{ID: target, Rating: 5},
		{ID: primitive.NewObjectID(), Rating: 3},
	}

	filtered, removed := removeReviewByID(reviews, target)
	if !removed {
		t.Fatal("expected review to be removed")
	}
	if len(filtered) != 1 {
		t.Fatalf("expected 1 review left, got %d", len(filtered))
	}
	if got := averageRating(filtered); got != 3 {
		t.Fatalf("expected average 3 after removal, got %v", got)
	}

	if _, removed := removeReviewByID(filtered, target); removed {
		t.Fatal("removing an absent review must report false")
	}

	empty, removed := removeReviewByID(filtered, filtered[0].ID)
	if !removed || len(empty) != 0 {
		t.Fatalf("expected empty review list, removed=%v len=%d", removed, len(empty))
	}
	if got := averageRating(empty); got != 0 {
		t.Fatalf("removing the last review must reset the average to 0, got %v", got)
	}
}

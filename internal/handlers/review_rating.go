package handlers

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"backend/internal/models"
)

// upsertReview enforces the one-review-per-user rule: a repeat submission by
// the same user updates the existing entry in place, otherwise the review is
// appended.
func upsertReview(reviews []models.Review, incoming models.Review) []models.Review {
	for i := range reviews {
		if reviews[i].User == incoming.User {
			reviews[i].Rating = incoming.Rating
			reviews[i].Comment = incoming.Comment
			return reviews
		}
	}

	if incoming.ID.IsZero() {
		incoming.ID = primitive.NewObjectID()
	}
	return append(reviews, incoming)
}

// averageRating is the aggregate rating: the arithmetic mean of all review
// ratings, 0 when there are none.
func averageRating(reviews []models.Review) float64 {
	if len(reviews) == 0 {
		return 0
	}

	var sum float64
	for _, review := range reviews {
		sum += review.Rating
	}
	return sum / float64(len(reviews))
}

// removeReviewByID filters the review out by identity; the second return
// reports whether anything was removed.
func removeReviewByID(reviews []models.Review, reviewID primitive.ObjectID) ([]models.Review, bool) {
	filtered := make([]models.Review, 0, len(reviews))
	removed := false
	for _, review := range reviews {
		if review.ID == reviewID {
			removed = true
			continue
		}
		filtered = append(filtered, review)
	}
	return filtered, removed
}

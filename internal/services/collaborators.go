package services

import (
	"context"

	"spark-chat/internal/domain/user"
)

//go:generate mockgen -source=collaborators.go -destination=mocks/mock_collaborators.go -package=mocks

// ProfileProvider returns display data for a user, or ErrNotFound.
type ProfileProvider interface {
	GetProfile(ctx context.Context, userID string) (user.Profile, error)
}

// IcebreakerGenerator produces conversation openers from requester to recipient.
type IcebreakerGenerator interface {
	Generate(ctx context.Context, requesterID, recipientID string, n int) ([]string, error)
}

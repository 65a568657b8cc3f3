package identity

import (
	"context"

	"github.com/google/uuid"
)

// ProfileRepository defines persistence operations for contractor profiles
type ProfileRepository interface {
	Save(ctx context.Context, profile *Profile) error
	Update(ctx context.Context, profile *Profile) error
	FindByID(ctx context.Context, id uuid.UUID) (*Profile, error)
	FindByEmail(ctx context.Context, email string) (*Profile, error)
	FindByStripeCustomerID(ctx context.Context, customerID string) (*Profile, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

package user

import (
	"context"

	domain "user-deletion-service/internal/domain/user"
)

// Usecase defines the user administration operations exposed to transports.
type Usecase interface {
	DeleteUser(ctx context.Context, in DeleteUserRequest) (*DeleteUserResponse, error)
}

// Provider is the identity provider's admin API.
type Provider interface {
	DeleteUser(ctx context.Context, userID string) error
}

// AuditRepository persists one record per provider call.
type AuditRepository interface {
	Create(ctx context.Context, rec *domain.DeletionRecord) error
}

// EventPublisher announces confirmed deletions to other services.
type EventPublisher interface {
	PublishUserDeleted(ctx context.Context, evt domain.UserDeletedEvent) error
}

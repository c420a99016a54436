package identity

import (
	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shared"
)

// SellerRegisteredEvent is raised when a seller account is created
type SellerRegisteredEvent struct {
	shared.BaseDomainEvent
	SellerID     uuid.UUID `json:"seller_id"`
	Email        string    `json:"email"`
	BusinessName string    `json:"business_name"`
}

// EventType returns the event type name
func (e *SellerRegisteredEvent) EventType() string {
	return "SellerRegistered"
}

// NewSellerRegisteredEvent creates a new SellerRegisteredEvent
func NewSellerRegisteredEvent(s *Seller) *SellerRegisteredEvent {
	return &SellerRegisteredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("SellerRegistered", "Seller", s.ID, s.TenantID),
		SellerID:        s.ID,
		Email:           s.Email,
		BusinessName:    s.BusinessName,
	}
}

// SellerSuspendedEvent is raised when a seller account is suspended
type SellerSuspendedEvent struct {
	shared.BaseDomainEvent
	SellerID uuid.UUID `json:"seller_id"`
	Email    string    `json:"email"`
}

// EventType returns the event type name
func (e *SellerSuspendedEvent) EventType() string {
	return "SellerSuspended"
}

// NewSellerSuspendedEvent creates a new SellerSuspendedEvent
func NewSellerSuspendedEvent(s *Seller) *SellerSuspendedEvent {
	return &SellerSuspendedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("SellerSuspended", "Seller", s.ID, s.TenantID),
		SellerID:        s.ID,
		Email:           s.Email,
	}
}

package services

import (
	"context"

	"github.com/yukikurage/business-management-api/internal/notify"
)

// PendingInvitation is the cached record behind an invitation code.
type PendingInvitation struct {
	Email          string `json:"email"`
	OrganizationID uint64 `json:"organization_id"`
	InvitedBy      uint64 `json:"invited_by"`
}

// InvitationStatusPending is reported for freshly issued invitations.
const InvitationStatusPending = "Pending"

// InvitationResult describes an issued invitation. The code itself is only
// delivered by email.
type InvitationResult struct {
	Email            string `json:"email"`
	OrganizationID   uint64 `json:"organization_id"`
	OrganizationName string `json:"organization_name"`
	InvitedBy        uint64 `json:"invited_by"`
	Status           string `json:"status"`
}

// InvitationSender enqueues invitation emails without blocking on delivery.
type InvitationSender interface {
	EnqueueInvitation(ctx context.Context, inv notify.Invitation)
}

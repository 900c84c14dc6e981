// Package notify delivers invitation emails out of band. The API enqueues
// jobs; the worker pops them and talks to SMTP.
package notify

import (
	"net/url"
	"strings"
)

// Invitation is the job payload pushed by the invite endpoint.
type Invitation struct {
	Code             string `json:"code"`
	OrganizationID   uint64 `json:"organization_id"`
	OrganizationName string `json:"organization_name"`
	InviterEmail     string `json:"inviter_email"`
	InviteeEmail     string `json:"invitee_email"`
}

// JoinURL builds the link the invitee follows to sign up.
func (i Invitation) JoinURL(baseURL string) string {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return baseURL + "auth/join/invitation?code=" + url.QueryEscape(i.Code)
}

package constants

import "time"

// Context keys
const (
	ContextKeyUserID    = "user_id"
	ContextKeyUser      = "current_user"
	ContextKeyRequestID = "request_id"
)

// Headers
const (
	HeaderAuthorization = "Authorization"
	HeaderRequestID     = "X-Request-ID"
	BearerScheme        = "Bearer"
)

// Password policy
const (
	MinPasswordLength      = 8
	MaxPasswordLength      = 30
	PasswordSpecialSymbols = "!-@_#$%^&*"
)

// Pagination
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Invitations
const (
	InvitationCodeLength = 21
	InvitationTTL        = 7 * 24 * time.Hour
	InvitationQueueKey   = "queue:invitation_emails"
)

// Scores
const (
	MinScoreValue = 1
	MaxScoreValue = 10
)

// AI
const (
	MaxAIGeneratedTasks = 20
)

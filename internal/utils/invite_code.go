package utils

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/yukikurage/business-management-api/internal/constants"
)

const inviteAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// GenerateInviteCode generates a URL-safe random invitation code
func GenerateInviteCode() (string, error) {
	code, err := gonanoid.Generate(inviteAlphabet, constants.InvitationCodeLength)
	if err != nil {
		return "", fmt.Errorf("failed to generate invite code: %w", err)
	}
	return code, nil
}

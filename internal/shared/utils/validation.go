package utils

import (
	"fmt"
	"html"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"

	"github.com/GriffinCanCode/novashell/internal/shared/types"
)

// String length limits
const (
	MaxIDLength      = 128
	MaxTitleLength   = 120
	MaxMessageLength = 500
	MaxQueryLength   = 64
	MaxPINLength     = 32
)

// Regular expressions for validation
var (
	// SafeIDPattern allows alphanumeric, hyphens, underscores
	SafeIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
)

// strict drops every tag, leaving only text
var strict = bluemonday.StrictPolicy()

// maxSanitizePasses bounds nested entity encodings such as &amp;lt;
const maxSanitizePasses = 8

// SanitizeText strips markup and surrounding whitespace from user text and
// returns plain text. Each pass sanitizes and decodes entities; the text is
// only returned once a pass leaves it unchanged, so decoded entities can
// never surface as markup. Input that never settles is returned escaped.
func SanitizeText(s string) string {
	for range maxSanitizePasses {
		plain := html.UnescapeString(strict.Sanitize(s))
		if plain == s {
			return strings.TrimSpace(plain)
		}
		s = plain
	}
	return strings.TrimSpace(strict.Sanitize(s))
}

// ValidateID validates an identifier (app ID, notification ID)
func ValidateID(id, fieldName string, required bool) error {
	if id == "" {
		if required {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}

	if len(id) > MaxIDLength {
		return fmt.Errorf("%s exceeds maximum length of %d characters", fieldName, MaxIDLength)
	}

	if !SafeIDPattern.MatchString(id) {
		return fmt.Errorf("%s contains invalid characters (only alphanumeric, hyphens, and underscores allowed)", fieldName)
	}

	return nil
}

// ValidateToggle checks that name is a known device toggle
func ValidateToggle(name string) error {
	for _, t := range types.Toggles {
		if string(t) == name {
			return nil
		}
	}
	return fmt.Errorf("unknown toggle %q", name)
}

// ValidateKind checks a notification kind. Empty means info.
func ValidateKind(kind types.NotificationKind) error {
	if kind == "" || kind.Valid() {
		return nil
	}
	return fmt.Errorf("invalid notification kind %q (use info, warning, success or error)", kind)
}

// ValidateQuery validates a catalog search query
func ValidateQuery(q string) error {
	if utf8.RuneCountInString(q) > MaxQueryLength {
		return fmt.Errorf("query exceeds maximum length of %d characters", MaxQueryLength)
	}
	return nil
}

// ValidateNotification sanitizes and checks a user submitted notification.
// It returns the cleaned title and message.
func ValidateNotification(title, message string, kind types.NotificationKind) (string, string, error) {
	title = SanitizeText(title)
	message = SanitizeText(message)

	switch {
	case title == "":
		return "", "", fmt.Errorf("title is required")
	case message == "":
		return "", "", fmt.Errorf("message is required")
	case utf8.RuneCountInString(title) > MaxTitleLength:
		return "", "", fmt.Errorf("title exceeds maximum length of %d characters", MaxTitleLength)
	case utf8.RuneCountInString(message) > MaxMessageLength:
		return "", "", fmt.Errorf("message exceeds maximum length of %d characters", MaxMessageLength)
	}

	if err := ValidateKind(kind); err != nil {
		return "", "", err
	}
	return title, message, nil
}

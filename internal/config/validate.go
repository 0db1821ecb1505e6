package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Feature names a command capability whose credentials must be present.
type Feature string

const (
	FeatureNotion   Feature = "notion"
	FeatureTMDB     Feature = "tmdb"
	FeatureCalendar Feature = "calendar"
	FeatureNAS      Feature = "nas"
	FeatureServer   Feature = "server"
)

var structValidator = newStructValidator()

func newStructValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	return v
}

// Validate ensures the configuration is structurally usable: ranges, formats,
// and URLs. Credentials are checked separately by ValidateFor.
func (c *Config) Validate() error {
	if err := structValidator.Struct(c); err != nil {
		return formatValidationError(err)
	}
	if c.Matching.DecisiveMargin > c.Matching.DecisiveScore {
		return errors.New("matching.decisive_margin must not exceed matching.decisive_score")
	}
	if _, _, err := net.SplitHostPort(c.Server.Bind); err != nil {
		return fmt.Errorf("server.bind must be host:port: %w", err)
	}
	return nil
}

// ValidateFor checks the credentials and paths each requested feature needs.
func (c *Config) ValidateFor(features ...Feature) error {
	var problems []string
	for _, feature := range features {
		switch feature {
		case FeatureNotion:
			if c.Notion.Token == "" {
				problems = append(problems, "notion.token is required (or set NOTION_TOKEN)")
			}
			if c.Notion.DatabaseID == "" {
				problems = append(problems, "notion.database_id is required (or set DATABASE_ID)")
			}
		case FeatureTMDB:
			if c.TMDB.APIKey == "" {
				problems = append(problems, "tmdb.api_key is required (or set TMDB_API_KEY)")
			}
		case FeatureCalendar:
			if !c.Calendar.Enabled {
				continue
			}
			if c.Calendar.CredentialsFile == "" {
				problems = append(problems, "calendar.credentials_file is required (or set GOOGLE_CALENDAR_CREDENTIALS)")
			} else if _, err := os.Stat(c.Calendar.CredentialsFile); err != nil {
				problems = append(problems, fmt.Sprintf("calendar.credentials_file: %v", err))
			}
			if c.Calendar.CalendarID == "" {
				problems = append(problems, "calendar.calendar_id is required (or set GOOGLE_CALENDAR_ID)")
			}
		case FeatureNAS:
			if c.NAS.Root == "" {
				problems = append(problems, "nas.root is required")
			}
		case FeatureServer:
			if c.Server.Bind == "" {
				problems = append(problems, "server.bind is required")
			}
		default:
			problems = append(problems, fmt.Sprintf("unknown feature %q", feature))
		}
	}
	if len(problems) == 0 {
		return nil
	}
	defaultPath, err := DefaultConfigPath()
	if err != nil {
		defaultPath = defaultConfigPath
	}
	return fmt.Errorf("%s. Edit %s (create with 'reelsync config init')", strings.Join(problems, "; "), defaultPath)
}

func formatValidationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		messages = append(messages, fmt.Sprintf("%s %s", fieldPath(fe), friendlyMessage(fe)))
	}
	return errors.New(strings.Join(messages, "; "))
}

// fieldPath turns Config.Matching.TitleSimilarity into matching.title_similarity
// style names that match the TOML keys users edit.
func fieldPath(fe validator.FieldError) string {
	namespace := fe.StructNamespace()
	parts := strings.Split(namespace, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	for i, part := range parts {
		parts[i] = snakeCase(part)
	}
	return strings.Join(parts, ".")
}

func snakeCase(name string) string {
	var b strings.Builder
	runes := []rune(name)
	for i, r := range runes {
		upper := r >= 'A' && r <= 'Z'
		if upper && i > 0 {
			prevLower := runes[i-1] >= 'a' && runes[i-1] <= 'z'
			nextLower := i+1 < len(runes) && runes[i+1] >= 'a' && runes[i+1] <= 'z'
			if prevLower || nextLower {
				b.WriteByte('_')
			}
		}
		if upper {
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

func friendlyMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "url":
		return "must be a valid URL"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "lte":
		return "must be less than or equal to " + fe.Param()
	case "min":
		return "must have at least " + fe.Param() + " entries"
	case "startswith":
		return "must start with " + fe.Param()
	default:
		return "is invalid"
	}
}

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is the package-level validator instance.
var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the configuration against the struct tags. The service
// refuses to start on an invalid config, so every violation is reported in
// one pass rather than failing on the first.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	var sb strings.Builder

	sb.WriteString("config validation failed:")

	for _, fe := range fieldErrs {
		sb.WriteString("\n  ")
		sb.WriteString(describeViolation(fe))
	}

	return errors.New(sb.String())
}

// describeViolation renders one field error as "<key path> <constraint>".
func describeViolation(fe validator.FieldError) string {
	field := keyPath(fe.Namespace())

	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "required_if":
		return fmt.Sprintf("%s is required when %s", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation: %s", field, fe.Tag())
	}
}

// keyPath lowers a struct namespace like "Config.Server.Port" to the config
// key "server.port" so messages match what users write in YAML.
func keyPath(namespace string) string {
	parts := strings.Split(namespace, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}

	for i := range parts {
		parts[i] = strings.ToLower(parts[i])
	}

	return strings.Join(parts, ".")
}

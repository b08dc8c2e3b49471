package flow

import (
	"errors"
	"fmt"
	"os"
	"regexp"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var (
	// validate is a singleton validator instance
	validate *validator.Validate

	stageIDPattern = regexp.MustCompile(`^[a-z][a-z0-9_-]*$`)
)

func init() {
	validate = validator.New()
}

// LoadTemplate reads a custom process template from a YAML file.
// Built-in templates cover the three standard processes; custom
// files let a deployment describe its own.
func LoadTemplate(path string) (*TemplateSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read template %s: %w", path, err)
	}

	var spec TemplateSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("parse template %s: %w", path, err)
	}

	if err := ValidateTemplate(&spec); err != nil {
		return nil, fmt.Errorf("template %s: %w", path, err)
	}
	return &spec, nil
}

// ValidateTemplate checks a template spec for structural problems:
// struct-tag constraints, duplicate stage ids, missing entry stage.
// Connections to unknown stages are a warning-level condition the
// simulation tolerates, so they are not rejected here.
func ValidateTemplate(spec *TemplateSpec) error {
	if spec == nil {
		return errors.New("template cannot be nil")
	}

	if err := validate.Struct(spec); err != nil {
		return formatValidationError(err)
	}

	seen := make(map[string]bool, len(spec.Stages))
	hasEntry := false
	for _, st := range spec.Stages {
		if seen[st.ID] {
			return fmt.Errorf("Stages: duplicate stage id %q", st.ID)
		}
		seen[st.ID] = true
		if !stageIDPattern.MatchString(st.ID) {
			return fmt.Errorf("Stages: stage id %q is invalid (lowercase alphanumeric, may contain - or _)", st.ID)
		}
		if st.X == 0 {
			hasEntry = true
		}
	}
	if !hasEntry {
		return errors.New("Stages: template has no entry stage (x == 0)")
	}

	for _, c := range spec.Connections {
		if c.From == c.To {
			return fmt.Errorf("Connections: self loop on stage %q", c.From)
		}
	}
	return nil
}

// formatValidationError converts validator errors to a more user-friendly format
func formatValidationError(err error) error {
	if err == nil {
		return nil
	}

	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	for _, e := range validationErrs {
		field := e.Field()
		tag := e.Tag()
		param := e.Param()

		switch tag {
		case "required":
			return fmt.Errorf("%s: field is required", field)
		case "min":
			return fmt.Errorf("%s: must be at least %s", field, param)
		case "gte":
			return fmt.Errorf("%s: must be at least %s", field, param)
		default:
			return fmt.Errorf("%s: validation failed (%s)", field, tag)
		}
	}

	return err
}

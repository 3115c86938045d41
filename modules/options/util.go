package options

import (
	"errors"
	"strconv"
	"strings"
)

func WithRequired(option Option, required bool) *Option {
	option.Required = required
	return &option
}

func WithDefaultValue(option Option, value string) *Option {
	option.Value = value
	return &option
}

func WithDescription(option Option, description string) *Option {
	option.Description = description
	return &option
}

func WithValueList(option Option, values []string) *Option {
	option.ValueList = values
	return &option
}

func CreateDeepCopyOfOptions(original []*Option) []*Option {
	copiedOptions := make([]*Option, len(original))

	for i, option := range original {
		newOption := *option
		copiedOptions[i] = &newOption
	}

	return copiedOptions
}

// ValidateOption checks a single option's value against its declared
// constraints: required presence, value format, value list, and type.
func ValidateOption(opt *Option) error {

	// Not required and empty
	if !opt.Required && opt.Value == "" {
		return nil
	}

	// Required and empty
	if opt.Required && opt.Value == "" {
		return errors.New(opt.Name + " is required")
	}

	if opt.ValueFormat != nil && !opt.ValueFormat.MatchString(opt.Value) {
		return errors.New(opt.Name + " is an invalid format")
	}

	if opt.ValueList != nil {
		valid := false
		for _, value := range opt.ValueList {
			if strings.EqualFold(value, opt.Value) {
				valid = true
				break
			}
		}
		if !valid {
			return errors.New(opt.Name + " is not a valid option. Valid options are: " + strings.Join(opt.ValueList, ", "))
		}
	}

	// Check if the option value is of the correct type when non-string
	switch opt.Type {
	case Bool:
		if _, err := strconv.ParseBool(opt.Value); err != nil {
			return errors.New(opt.Name + " must be a boolean")
		}
	case Int:
		if _, err := strconv.Atoi(opt.Value); err != nil {
			return errors.New(opt.Name + " must be an integer")
		}
	}

	return nil
}

func ValidateOptions(opts []*Option) error {
	for _, opt := range opts {
		if err := ValidateOption(opt); err != nil {
			return err
		}
	}
	return nil
}

package main

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/at-ishikawa/coursely/internal/course"
	"github.com/at-ishikawa/coursely/internal/enrollment"
	"github.com/at-ishikawa/coursely/internal/interaction"
)

// StatusFlag filters enrollments by status.
type StatusFlag enrollment.Status

// Set implements pflag.Value.
func (s *StatusFlag) Set(v string) error {
	switch enrollment.Status(v) {
	case enrollment.StatusActive, enrollment.StatusCompleted:
		*s = StatusFlag(v)
	default:
		return fmt.Errorf("invalid value %q, valid values are %q or %q", v, enrollment.StatusActive, enrollment.StatusCompleted)
	}
	return nil
}

// String implements pflag.Value.
func (s *StatusFlag) String() string {
	if s == nil {
		return ""
	}
	return string(*s)
}

// Type implements pflag.Value.
func (s *StatusFlag) Type() string {
	return "StatusFlag"
}

// DifficultyFlag filters courses by difficulty.
type DifficultyFlag course.Difficulty

// Set implements pflag.Value.
func (d *DifficultyFlag) Set(v string) error {
	if _, ok := course.Difficulty(v).Ordinal(); !ok {
		return fmt.Errorf("invalid value %q, valid values are %q, %q or %q", v, course.Beginner, course.Intermediate, course.Advanced)
	}
	*d = DifficultyFlag(v)
	return nil
}

// String implements pflag.Value.
func (d *DifficultyFlag) String() string {
	if d == nil {
		return ""
	}
	return string(*d)
}

// Type implements pflag.Value.
func (d *DifficultyFlag) Type() string {
	return "DifficultyFlag"
}

// InteractionTypeFlag is one of the recorded interaction kinds.
type InteractionTypeFlag interaction.Type

// Set implements pflag.Value.
func (i *InteractionTypeFlag) Set(v string) error {
	if !interaction.Type(v).Valid() {
		return fmt.Errorf("invalid value %q: %w", v, interaction.ErrInvalidType)
	}
	*i = InteractionTypeFlag(v)
	return nil
}

// String implements pflag.Value.
func (i *InteractionTypeFlag) String() string {
	if i == nil {
		return ""
	}
	return string(*i)
}

// Type implements pflag.Value.
func (i *InteractionTypeFlag) Type() string {
	return "InteractionTypeFlag"
}

var (
	_ pflag.Value = (*StatusFlag)(nil)
	_ pflag.Value = (*DifficultyFlag)(nil)
	_ pflag.Value = (*InteractionTypeFlag)(nil)
)

// addUserFlag registers --user, which overrides client.user_id from the config.
func addUserFlag(flags *pflag.FlagSet, userID *string) {
	flags.StringVar(userID, "user", "", "act as this user id (defaults to client.user_id / COURSELY_USER_ID)")
}

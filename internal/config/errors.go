package config

import (
	"fmt"
	"strings"
)

// ErrorKind classifies a configuration error.
type ErrorKind int

const (
	// UnknownEngine: an engine option names an engine the catalog does not know.
	UnknownEngine ErrorKind = iota
	// MissingArgument: an engine option was given without its value.
	MissingArgument
	// InvalidName: an explicit project name is not a valid package name.
	InvalidName
	// ConflictingOptions: more than one option selects the view engine.
	ConflictingOptions
	// UnknownOption: an option the CLI does not define.
	UnknownOption
)

func (k ErrorKind) String() string {
	switch k {
	case UnknownEngine:
		return "unknown engine"
	case MissingArgument:
		return "missing argument"
	case InvalidName:
		return "invalid name"
	case ConflictingOptions:
		return "conflicting options"
	case UnknownOption:
		return "unknown option"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// Error is a user-facing configuration error. It is always detected before
// planning starts, so no file has been touched when one is returned.
type Error struct {
	Kind    ErrorKind
	Options []string // offending option names, e.g. "--css"
	Value   string
}

func (e *Error) Error() string {
	option := strings.Join(e.Options, "' and '")

	switch e.Kind {
	case UnknownEngine:
		return fmt.Sprintf("option '%s' has unknown engine '%s'", option, e.Value)
	case MissingArgument:
		return fmt.Sprintf("option '%s <engine>' argument missing", option)
	case InvalidName:
		return fmt.Sprintf("invalid project name '%s'", e.Value)
	case ConflictingOptions:
		return fmt.Sprintf("options '%s' cannot be used together", option)
	case UnknownOption:
		return fmt.Sprintf("unknown option '%s'", option)
	default:
		return fmt.Sprintf("%s: '%s'", e.Kind, option)
	}
}

// Is lets errors.Is match on kind: errors.Is(err, &config.Error{Kind: config.InvalidName}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Package errors carries the error vocabulary shared by the resolution
// pipeline. Failures are classified by Kind so adapters can record the
// operation that failed, callers can branch on category, and transient
// failures stay distinguishable from permanent ones.
package errors

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Kind is the category of a failure.
type Kind uint8

const (
	KindUnknown    Kind = iota // unclassified
	KindConfig                 // configuration loading or validation
	KindGit                    // repository access
	KindRegistry               // published-version lookup
	KindOverride               // override file parsing
	KindWorkspace              // workspace or manifest scanning
	KindNetwork                // transport-level failure
	KindIO                     // local file access
	KindValidation             // rejected input
	KindNotFound               // missing resource
	KindTimeout                // deadline exhausted
	KindInternal               // invariant violation
)

var kindNames = [...]string{
	KindUnknown:    "unknown",
	KindConfig:     "configuration",
	KindGit:        "git",
	KindRegistry:   "registry",
	KindOverride:   "override",
	KindWorkspace:  "workspace",
	KindNetwork:    "network",
	KindIO:         "io",
	KindValidation: "validation",
	KindNotFound:   "not_found",
	KindTimeout:    "timeout",
	KindInternal:   "internal",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// recoverableDefault reports whether errors of a kind are worth retrying
// absent more specific knowledge. Network and timeout failures pass,
// validation failures pass because the caller can fix the input.
func recoverableDefault(k Kind) bool {
	return k == KindNetwork || k == KindTimeout || k == KindValidation
}

// Error is the error type produced throughout the module. Construct it
// through the kind helpers, Wrap, or E rather than as a literal.
type Error struct {
	Kind        Kind   // failure category
	Op          string // operation that failed, e.g. "git.ListTags"
	Message     string // human-readable description
	Err         error  // wrapped cause, if any
	Recoverable bool   // whether retrying could help
}

// Error renders "op: message: cause", omitting the parts that are empty.
func (e *Error) Error() string {
	if e.Op != "" {
		if e.Err != nil {
			return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
		}
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap exposes the cause to the errors package.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error by kind, and by op as well when the target
// carries one. A target with only a kind acts as a sentinel for that
// whole category.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Op == "" {
		return e.Kind == t.Kind
	}
	return e.Kind == t.Kind && e.Op == t.Op
}

func newError(kind Kind, op, message string, err error) *Error {
	return &Error{
		Kind:        kind,
		Op:          op,
		Message:     message,
		Err:         err,
		Recoverable: recoverableDefault(kind),
	}
}

// Wrap attaches a kind, operation, and message to a cause. The
// recoverable flag follows the kind's default.
func Wrap(err error, kind Kind, op string, message string) *Error {
	return newError(kind, op, message, err)
}

// E assembles an Error from loosely typed arguments: a Kind, up to two
// strings (the first becomes the operation, the second the message), a
// cause, and a bool for the recoverable flag. Unrecognized argument
// types are ignored.
func E(args ...any) *Error {
	e := &Error{}
	for _, arg := range args {
		switch a := arg.(type) {
		case Kind:
			e.Kind = a
		case string:
			if e.Op == "" {
				e.Op = a
			} else if e.Message == "" {
				e.Message = a
			}
		case error:
			e.Err = a
		case bool:
			e.Recoverable = a
		}
	}
	return e
}

// GetKind extracts the kind from anywhere in an error chain, returning
// KindUnknown for errors this package did not produce.
func GetKind(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsRecoverable reports whether the error chain carries a recoverable
// classification.
func IsRecoverable(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Recoverable
	}
	return false
}

// Each adapter-facing kind gets a constructor pair: a bare form for new
// failures and a Wrap form for annotating causes.

// Config reports a configuration problem.
func Config(op, message string) *Error { return newError(KindConfig, op, message, nil) }

// ConfigWrap annotates a cause as a configuration problem.
func ConfigWrap(err error, op, message string) *Error { return newError(KindConfig, op, message, err) }

// Git reports a repository access problem.
func Git(op, message string) *Error { return newError(KindGit, op, message, nil) }

// GitWrap annotates a cause as a repository access problem.
func GitWrap(err error, op, message string) *Error { return newError(KindGit, op, message, err) }

// Registry reports a published-version lookup problem.
func Registry(op, message string) *Error { return newError(KindRegistry, op, message, nil) }

// RegistryWrap annotates a cause as a registry lookup problem.
func RegistryWrap(err error, op, message string) *Error {
	return newError(KindRegistry, op, message, err)
}

// Override reports a malformed override file.
func Override(op, message string) *Error { return newError(KindOverride, op, message, nil) }

// OverrideWrap annotates a cause as an override file problem.
func OverrideWrap(err error, op, message string) *Error {
	return newError(KindOverride, op, message, err)
}

// Workspace reports a workspace or manifest problem.
func Workspace(op, message string) *Error { return newError(KindWorkspace, op, message, nil) }

// WorkspaceWrap annotates a cause as a workspace problem.
func WorkspaceWrap(err error, op, message string) *Error {
	return newError(KindWorkspace, op, message, err)
}

// Validation reports rejected input. Validation errors are recoverable;
// the caller can correct the input and try again.
func Validation(op, message string) *Error { return newError(KindValidation, op, message, nil) }

// ValidationWrap annotates a cause as rejected input.
func ValidationWrap(err error, op, message string) *Error {
	return newError(KindValidation, op, message, err)
}

// NotFound reports a missing resource.
func NotFound(op, message string) *Error { return newError(KindNotFound, op, message, nil) }

// Network reports a transport-level failure.
func Network(op, message string) *Error { return newError(KindNetwork, op, message, nil) }

// Timeout reports an exhausted deadline.
func Timeout(op, message string) *Error { return newError(KindTimeout, op, message, nil) }

// Internal reports a violated invariant.
func Internal(op, message string) *Error { return newError(KindInternal, op, message, nil) }

// sensitivePatterns matches registry and forge credentials. Word
// boundaries keep the token patterns from firing inside longer strings.
var sensitivePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\bnpm_[a-zA-Z0-9]{36,}\b`),        // npm automation tokens
	regexp.MustCompile(`\bgh[posh]_[a-zA-Z0-9]{36,}\b`),   // GitHub tokens
	regexp.MustCompile(`\bBearer\s+[a-zA-Z0-9_-]{20,}\b`), // bearer credentials
	regexp.MustCompile(`://[^:]+:[^@]+@`),                 // userinfo in URLs
}

// sensitiveMarkers flags strings that merely mention credential
// material without matching a token shape.
var sensitiveMarkers = []string{"api_key", "apikey", "secret", "password", "token"}

// RedactSensitive replaces credential material in s with [REDACTED].
func RedactSensitive(s string) string {
	out := s
	for _, p := range sensitivePatterns {
		out = p.ReplaceAllString(out, "[REDACTED]")
	}
	return out
}

// RedactError returns err with credential material stripped from its
// message. The original error is returned untouched, chain intact, when
// nothing needed redacting.
func RedactError(err error) error {
	if err == nil {
		return nil
	}
	redacted := RedactSensitive(err.Error())
	if redacted == err.Error() {
		return err
	}
	return fmt.Errorf("%s", redacted)
}

// WrapSafe is Wrap for causes that may embed credentials, such as
// url.Error values that echo a request URL with userinfo in it.
func WrapSafe(err error, kind Kind, op, message string) *Error {
	if err == nil {
		return newError(kind, op, message, nil)
	}
	return newError(kind, op, message, RedactError(err))
}

// IsSensitive reports whether s looks like it carries credential
// material.
func IsSensitive(s string) bool {
	for _, p := range sensitivePatterns {
		if p.MatchString(s) {
			return true
		}
	}
	for _, m := range sensitiveMarkers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}

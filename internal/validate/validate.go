// Package validate implements ordered request validation. A route declares
// its rules in order; evaluation stops at the first failing rule and only
// that rule's message is reported.
package validate

import (
	"cmp"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/stockroom/internal/apperror"
)

// contextKeyBody is the Echo context key holding the bound, validated body.
const contextKeyBody = "validated_body"

// InvalidBodyMessage is returned when the request body cannot be decoded.
const InvalidBodyMessage = "Invalid request body"

// Rule is one (field, predicate, message) triple.
type Rule struct {
	Field   string
	Message string
	ok      func() bool
}

// Passes runs the rule's predicate.
func (r Rule) Passes() bool {
	return r.ok()
}

// String builds a rule over a string value.
func String(field, value string, pred func(string) bool, message string) Rule {
	return Rule{Field: field, Message: message, ok: func() bool { return pred(value) }}
}

// Required builds a rule that passes when an optional value was supplied.
// Used for numeric fields where zero is a legitimate value.
func Required[T any](field string, value *T, message string) Rule {
	return Rule{Field: field, Message: message, ok: func() bool { return value != nil }}
}

// Within builds a rule that passes when an optional value lies in [lo, hi].
// An absent value passes; pair it with Required when the field is mandatory.
func Within[T cmp.Ordered](field string, value *T, lo, hi T, message string) Rule {
	return Rule{Field: field, Message: message, ok: func() bool {
		return value == nil || (*value >= lo && *value <= hi)
	}}
}

// First returns the first failing rule, or nil when every rule passes.
func First(rules []Rule) *Rule {
	for i := range rules {
		if !rules[i].Passes() {
			return &rules[i]
		}
	}
	return nil
}

// --- Predicates ---

// NotEmpty passes for strings containing something other than whitespace.
func NotEmpty(s string) bool {
	return strings.TrimSpace(s) != ""
}

// MinLength returns a predicate requiring at least n characters.
func MinLength(n int) func(string) bool {
	return func(s string) bool {
		return utf8.RuneCountInString(s) >= n
	}
}

// MaxLength returns a predicate allowing at most n characters.
func MaxLength(n int) func(string) bool {
	return func(s string) bool {
		return utf8.RuneCountInString(s) <= n
	}
}

// Email passes for a bare address like "ana@example.com". Display names,
// angle brackets and dotless domains are rejected.
func Email(s string) bool {
	if s == "" || strings.TrimSpace(s) != s {
		return false
	}
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s || addr.Name != "" {
		return false
	}
	at := strings.LastIndexByte(s, '@')
	domain := s[at+1:]
	return strings.Contains(domain, ".") &&
		!strings.HasPrefix(domain, ".") &&
		!strings.HasSuffix(domain, ".")
}

// --- Echo integration ---

// Body returns middleware that binds the request body into a fresh T, runs
// the rules produced for it, and either rejects the request with the first
// failing message or stores the value for the handler (see Bound).
func Body[T any](rules func(*T) []Rule) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := new(T)
			if err := (&echo.DefaultBinder{}).BindBody(c, req); err != nil {
				return apperror.NewBadRequest(InvalidBodyMessage)
			}

			if failed := First(rules(req)); failed != nil {
				return apperror.NewValidation(failed.Message)
			}

			c.Set(contextKeyBody, req)
			return next(c)
		}
	}
}

// Bound returns the body stored by Body, or nil when the middleware did not
// run for this route.
func Bound[T any](c echo.Context) *T {
	v, ok := c.Get(contextKeyBody).(*T)
	if !ok {
		return nil
	}
	return v
}

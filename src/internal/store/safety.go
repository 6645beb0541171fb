package store

import (
	"errors"
	"strings"

	"github.com/lib/pq"
)

// SuppressingUserInputError runs query and fully materializes its
// result. An error recognized as a benign user-input syntax mistake is
// suppressed and yields a nil result; any other error is returned
// unchanged.
func SuppressingUserInputError(query func() ([]Ref, error)) ([]Ref, error) {
	refs, err := query()
	if err != nil {
		if IsBenignUserInputError(err) {
			return nil, nil
		}
		return nil, err
	}
	return refs, nil
}

// IsBenignUserInputError reports whether err is a PostgreSQL data or
// syntax error whose message points at user-supplied regular-expression
// or jsonpath syntax. Filter expressions written by users cannot be
// validated ahead of execution, so the server's message text is the
// only available signal. The match is deliberately narrow and never by
// error class alone, so genuine backend failures keep bubbling up.
func IsBenignUserInputError(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	switch pqErr.Code.Class() {
	case "22", "42": // data exception; syntax error or access rule violation
	default:
		return false
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "invalid regular expression"):
		return true
	case strings.Contains(msg, "syntax error") && strings.Contains(msg, "jsonpath input"):
		return true
	case strings.Contains(msg, "unexpected end of quoted string") && strings.Contains(msg, "jsonpath input"):
		return true
	}
	return false
}

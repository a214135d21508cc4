package service

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/sakif/journal-api/internal/apperror"
)

// Validation limits. Lengths are counted in characters, not bytes.
const (
	MinNameLength     = 2
	MaxNameLength     = 100
	MinPasswordLength = 6
	MaxPasswordLength = 128
	MaxTitleLength    = 200
	MaxContentLength  = 50000
)

// Whitespace includes Unicode separators such as U+00A0; RE2 \s alone is ASCII only.
var emailPattern = regexp.MustCompile(`^[^\s\p{Z}@]+@[^\s\p{Z}@]+\.[^\s\p{Z}@]+$`)

// fieldErrors collects every failed check so the caller sees all problems
// with the input at once.
type fieldErrors []apperror.FieldError

func (fe *fieldErrors) add(field, message string) {
	*fe = append(*fe, apperror.FieldError{Field: field, Message: message})
}

// err returns nil when no check failed.
func (fe fieldErrors) err() error {
	if len(fe) == 0 {
		return nil
	}
	return apperror.Validation(fe...)
}

func charCount(s string) int {
	return utf8.RuneCountInString(s)
}

func (fe *fieldErrors) checkEmail(email string) {
	switch {
	case strings.TrimSpace(email) == "":
		fe.add("email", "Email is required")
	case !emailPattern.MatchString(email):
		fe.add("email", "Email format is invalid")
	}
}

func (fe *fieldErrors) checkName(name string) {
	n := charCount(strings.TrimSpace(name))
	switch {
	case n == 0:
		fe.add("name", "Name is required")
	case n < MinNameLength:
		fe.add("name", "Name must be at least 2 characters")
	case n > MaxNameLength:
		fe.add("name", "Name must be less than 100 characters")
	}
}

func (fe *fieldErrors) checkPassword(field, password string) {
	n := charCount(password)
	switch {
	case n == 0:
		fe.add(field, "Password is required")
	case n < MinPasswordLength:
		fe.add(field, "Password must be at least 6 characters")
	case n > MaxPasswordLength:
		fe.add(field, "Password must be less than 128 characters")
	}
}

// checkTitle validates an already trimmed title. emptyMessage differs
// between create ("required") and update ("cannot be empty").
func (fe *fieldErrors) checkTitle(title, emptyMessage string) {
	n := charCount(title)
	switch {
	case n == 0:
		fe.add("title", emptyMessage)
	case n > MaxTitleLength:
		fe.add("title", "Title must be less than 200 characters")
	}
}

func (fe *fieldErrors) checkContent(content string) {
	if charCount(content) > MaxContentLength {
		fe.add("content", "Content must be less than 50,000 characters")
	}
}

func validateRegistration(email, name, password string) error {
	var fe fieldErrors
	fe.checkEmail(email)
	fe.checkName(name)
	fe.checkPassword("password", password)
	return fe.err()
}

func validateNewEntry(title, content string) error {
	var fe fieldErrors
	fe.checkTitle(title, "Title is required")
	fe.checkContent(content)
	return fe.err()
}

func validateEntryUpdate(title, content *string) error {
	var fe fieldErrors
	if title != nil {
		fe.checkTitle(*title, "Title cannot be empty")
	}
	if content != nil {
		fe.checkContent(*content)
	}
	if title == nil && content == nil {
		fe.add("input", "At least one field (title or content) must be provided for update")
	}
	return fe.err()
}

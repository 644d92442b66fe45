package resource

import (
	"net/url"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	maxTitleLength   = 255
	maxContentLength = 1000
)

var ratingPattern = regexp.MustCompile(`^[1-5]$`)

// checker collects the first failure per field.
type checker struct {
	fields []FieldError
}

func (c *checker) check(ok bool, field, message string) {
	if ok {
		return
	}
	for _, f := range c.fields {
		if f.Field == field {
			return
		}
	}
	c.fields = append(c.fields, FieldError{Field: field, Message: message})
}

func (c *checker) err() error {
	if len(c.fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: c.fields}
}

func (c *checker) id(field, value, message string) {
	_, err := uuid.Parse(value)
	c.check(err == nil, field, message)
}

// text requires a non-blank value of at most max runes.
func (c *checker) text(field, value string, max int, required, tooLong string) {
	value = strings.TrimSpace(value)
	c.check(value != "", field, required)
	c.check(utf8.RuneCountInString(value) <= max, field, tooLong)
}

func (c *checker) rating(field, value string) {
	c.check(ratingPattern.MatchString(value), field, "Rating must be between 1 and 5")
}

func (c *checker) httpURL(field, value, message string) {
	u, err := url.ParseRequestURI(value)
	c.check(err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != "", field, message)
}

func (c *checker) oneOf(field, value string, allowed []string, message string) {
	c.check(slices.Contains(allowed, value), field, message)
}

func validID(kind, id string) error {
	var c checker
	c.id("id", id, "Invalid "+strings.ToLower(kind)+" ID")
	return c.err()
}

package validator

import (
	"net/mail"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"bookmark-api/internal/interface/api/rest/dto/auth"
	"bookmark-api/internal/interface/api/rest/dto/bookmark"
)

const (
	minPasswordLen = 8
	maxPasswordLen = 72 // bcrypt safe

	maxTitleLen       = 255
	maxLinkLen        = 2048
	maxDescriptionLen = 2000
)

func IsUUID(s string) (bool, uuid.UUID) {
	id, err := uuid.Parse(s)
	return err == nil, id
}

func ValidateSignup(r auth.Credentials) map[string]string {
	errs := validateEmail(r.Email)

	// password is not trimmed
	if strings.TrimSpace(r.Password) == "" {
		errs["password"] = "password is required"
	} else if l := utf8.RuneCountInString(r.Password); l < minPasswordLen || l > maxPasswordLen {
		errs["password"] = "password length must be 8-72 characters"
	}

	return orNil(errs)
}

// ValidateLogin only checks presence; a wrong password is the service's answer.
func ValidateLogin(r auth.Credentials) map[string]string {
	errs := validateEmail(r.Email)
	if r.Password == "" {
		errs["password"] = "password is required"
	}

	return orNil(errs)
}

func validateEmail(raw string) map[string]string {
	errs := make(map[string]string)
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		errs["email"] = "email is required"
	} else if _, err := mail.ParseAddress(email); err != nil {
		errs["email"] = "invalid email format"
	}
	return errs
}

func ValidateCreateBookmark(r bookmark.CreateRequest) map[string]string {
	errs := make(map[string]string)

	title := strings.TrimSpace(r.Title)
	if title == "" {
		errs["title"] = "title is required"
	} else if utf8.RuneCountInString(title) > maxTitleLen {
		errs["title"] = "title must be at most 255 characters"
	}
	validateOptional(errs, r.Link, r.Description)

	return orNil(errs)
}

func ValidateUpdateBookmark(r bookmark.UpdateRequest) map[string]string {
	errs := make(map[string]string)

	if ok, _ := IsUUID(r.ID); !ok {
		errs["id"] = "id must be a valid UUID"
	}
	if r.Title != nil {
		if t := strings.TrimSpace(*r.Title); t == "" {
			errs["title"] = "title must not be empty"
		} else if utf8.RuneCountInString(t) > maxTitleLen {
			errs["title"] = "title must be at most 255 characters"
		}
	}
	validateOptional(errs, r.Link, r.Description)

	return orNil(errs)
}

func validateOptional(errs map[string]string, link, description *string) {
	if link != nil && strings.TrimSpace(*link) != "" && !isHTTPURL(*link) {
		errs["link"] = "link must be an absolute http(s) URL"
	}
	if description != nil && utf8.RuneCountInString(*description) > maxDescriptionLen {
		errs["description"] = "description must be at most 2000 characters"
	}
}

func isHTTPURL(s string) bool {
	if len(s) > maxLinkLen {
		return false
	}
	u, err := url.ParseRequestURI(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func orNil(errs map[string]string) map[string]string {
	if len(errs) == 0 {
		return nil
	}
	return errs
}

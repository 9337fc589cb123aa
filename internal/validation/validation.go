// Package validation checks request payloads and reports failures as a
// map of field name to message, the shape forms consume to render
// per-field errors.
package validation

import (
	"net/mail"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"
)

// Errors maps an input field to its validation message.
type Errors map[string]string

// OK reports whether validation passed.
func (e Errors) OK() bool { return len(e) == 0 }

// RegisterInput is the payload of POST /api/users/register.
type RegisterInput struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// Validate enforces the registration rules: name 2-30 runes, valid email,
// password 6-30 runes with matching confirmation.
func (in RegisterInput) Validate() Errors {
	errs := Errors{}
	name := strings.TrimSpace(in.Name)
	switch {
	case name == "":
		errs["name"] = "Name field is required"
	case utf8.RuneCountInString(name) < 2 || utf8.RuneCountInString(name) > 30:
		errs["name"] = "Name must be between 2 and 30 characters"
	}
	checkEmail(errs, in.Email)
	switch {
	case in.Password == "":
		errs["password"] = "Password field is required"
	case len(in.Password) < 6 || len(in.Password) > 30:
		errs["password"] = "Password must be between 6 and 30 characters"
	}
	switch {
	case in.ConfirmPassword == "":
		errs["confirmPassword"] = "Password confirmation field is required"
	case in.ConfirmPassword != in.Password:
		errs["confirmPassword"] = "Passwords must match"
	}
	return errs
}

// LoginInput is the payload of POST /api/users/login.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate enforces presence and email shape only; credential checking is
// the issuer's job.
func (in LoginInput) Validate() Errors {
	errs := Errors{}
	checkEmail(errs, in.Email)
	if in.Password == "" {
		errs["password"] = "Password field is required"
	}
	return errs
}

// ProfileInput is the payload of POST /api/profile. Skills accepts a
// comma-separated string; social links are optional but must parse as
// absolute URLs when present.
type ProfileInput struct {
	Handle         string `json:"handle"`
	Status         string `json:"status"`
	Skills         string `json:"skills"`
	Company        string `json:"company"`
	Website        string `json:"website"`
	Location       string `json:"location"`
	Bio            string `json:"bio"`
	GitHubUsername string `json:"githubusername"`
	YouTube        string `json:"youtube"`
	Twitter        string `json:"twitter"`
	Facebook       string `json:"facebook"`
	LinkedIn       string `json:"linkedin"`
	Instagram      string `json:"instagram"`
}

// Validate enforces handle 2-40 runes, required status and skills, and
// URL shape for the optional links.
func (in ProfileInput) Validate() Errors {
	errs := Errors{}
	handle := strings.TrimSpace(in.Handle)
	switch {
	case handle == "":
		errs["handle"] = "Profile handle is required"
	case utf8.RuneCountInString(handle) < 2 || utf8.RuneCountInString(handle) > 40:
		errs["handle"] = "Handle must be between 2 and 40 characters"
	}
	if strings.TrimSpace(in.Status) == "" {
		errs["status"] = "Status field is required"
	}
	if strings.TrimSpace(in.Skills) == "" {
		errs["skills"] = "Skills field is required"
	}
	checkURL(errs, "website", in.Website)
	checkURL(errs, "youtube", in.YouTube)
	checkURL(errs, "twitter", in.Twitter)
	checkURL(errs, "facebook", in.Facebook)
	checkURL(errs, "linkedin", in.LinkedIn)
	checkURL(errs, "instagram", in.Instagram)
	return errs
}

// PostInput is the payload of POST /api/posts and of comment creation.
type PostInput struct {
	Text string `json:"text"`
}

// Validate enforces the 10-300 character post body rule.
func (in PostInput) Validate() Errors {
	errs := Errors{}
	text := strings.TrimSpace(in.Text)
	switch {
	case text == "":
		errs["text"] = "Text field is required"
	case utf8.RuneCountInString(text) < 10 || utf8.RuneCountInString(text) > 300:
		errs["text"] = "Posts must be between 10 and 300 characters"
	}
	return errs
}

// ExperienceInput is the payload of POST /api/profile/experience. Dates
// use the 2006-01-02 wire format; To may be empty while Current is true.
type ExperienceInput struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	From        string `json:"from"`
	To          string `json:"to"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

// Validate enforces required title/company/from and date ordering.
func (in ExperienceInput) Validate() Errors {
	errs := Errors{}
	if strings.TrimSpace(in.Title) == "" {
		errs["title"] = "Job title field is required"
	}
	if strings.TrimSpace(in.Company) == "" {
		errs["company"] = "Company field is required"
	}
	checkDates(errs, in.From, in.To)
	return errs
}

// EducationInput is the payload of POST /api/profile/education.
type EducationInput struct {
	School       string `json:"school"`
	Degree       string `json:"degree"`
	FieldOfStudy string `json:"fieldofstudy"`
	From         string `json:"from"`
	To           string `json:"to"`
	Current      bool   `json:"current"`
	Description  string `json:"description"`
}

// Validate enforces required school/degree/fieldofstudy/from and date
// ordering.
func (in EducationInput) Validate() Errors {
	errs := Errors{}
	if strings.TrimSpace(in.School) == "" {
		errs["school"] = "School field is required"
	}
	if strings.TrimSpace(in.Degree) == "" {
		errs["degree"] = "Degree field is required"
	}
	if strings.TrimSpace(in.FieldOfStudy) == "" {
		errs["fieldofstudy"] = "Field of study is required"
	}
	checkDates(errs, in.From, in.To)
	return errs
}

// DateFormat is the wire format for experience/education dates.
const DateFormat = "2006-01-02"

// ParseDate parses a wire-format date; the caller must have validated it.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateFormat, strings.TrimSpace(s))
}

func checkEmail(errs Errors, email string) {
	email = strings.TrimSpace(email)
	if email == "" {
		errs["email"] = "Email field is required"
		return
	}
	if a, err := mail.ParseAddress(email); err != nil || a.Address != email {
		errs["email"] = "Email is invalid"
	}
}

func checkURL(errs Errors, field, raw string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		errs[field] = "Not a valid URL"
	}
}

func checkDates(errs Errors, from, to string) {
	from = strings.TrimSpace(from)
	if from == "" {
		errs["from"] = "From date field is required"
		return
	}
	f, err := ParseDate(from)
	if err != nil {
		errs["from"] = "Not a valid date"
		return
	}
	if to = strings.TrimSpace(to); to != "" {
		t, err := ParseDate(to)
		if err != nil {
			errs["to"] = "Not a valid date"
			return
		}
		if t.Before(f) {
			errs["to"] = "To date must be after from date"
		}
	}
}

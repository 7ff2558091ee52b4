package employee

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"employee-directory/internal/domain"
)

// Field rules. Any client that validates employees must use the same literals.
// Go's \s is ASCII-only; the email class also excludes \v, every Unicode
// separator and U+FEFF so it rejects what a JavaScript \s rejects.
const (
	EmailPattern    = `^[^\s\v\p{Z}\x{FEFF}@]+@[^\s\v\p{Z}\x{FEFF}@]+\.[^\s\v\p{Z}\x{FEFF}@]+$`
	PhonePattern    = `^\+?[1-9]\d{0,15}$`
	PhoneMinLength  = 10
	PhoneStripChars = " -()"
)

const (
	MsgNameRequired     = "Name is required"
	MsgEmailInvalid     = "Valid email is required"
	MsgPositionRequired = "Position is required"
	MsgPhoneInvalid     = "Valid phone number is required"
)

const (
	tagNotBlank = "notblank"
	tagEmail    = "employee_email"
	tagPhone    = "employee_phone"
)

var (
	emailRe = regexp.MustCompile(EmailPattern)
	phoneRe = regexp.MustCompile(PhonePattern)

	fieldMessages = map[string]string{
		"name":     MsgNameRequired,
		"email":    MsgEmailInvalid,
		"position": MsgPositionRequired,
		"phone":    MsgPhoneInvalid,
	}
)

type fieldsDoc struct {
	Name     string `json:"name"     validate:"notblank"`
	Email    string `json:"email"    validate:"employee_email"`
	Position string `json:"position" validate:"notblank"`
	Phone    string `json:"phone"    validate:"employee_phone"`
}

// Rules validates employee input with go-playground/validator.
type Rules struct {
	v *validator.Validate
}

func NewRules() *Rules {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// registration only fails on an empty tag or nil func
	_ = v.RegisterValidation(tagNotBlank, func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation(tagEmail, func(fl validator.FieldLevel) bool {
		return ValidEmail(fl.Field().String())
	})
	_ = v.RegisterValidation(tagPhone, func(fl validator.FieldLevel) bool {
		return ValidPhone(fl.Field().String())
	})
	return &Rules{v: v}
}

func ValidEmail(s string) bool { return emailRe.MatchString(strings.TrimSpace(s)) }

func ValidPhone(s string) bool {
	p := StripPhone(strings.TrimSpace(s))
	return len(p) >= PhoneMinLength && phoneRe.MatchString(p)
}

// StripPhone drops the separators users commonly type into phone numbers.
func StripPhone(s string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(PhoneStripChars, r) {
			return -1
		}
		return r
	}, s)
}

// Normalize trims every field and lowercases the email.
func Normalize(f domain.EmployeeFields) domain.EmployeeFields {
	return domain.EmployeeFields{
		Name:     strings.TrimSpace(f.Name),
		Email:    strings.ToLower(strings.TrimSpace(f.Email)),
		Position: strings.TrimSpace(f.Position),
		Phone:    strings.TrimSpace(f.Phone),
	}
}

func NormalizePatch(p domain.EmployeePatch) domain.EmployeePatch {
	trim := func(s *string, lower bool) *string {
		if s == nil {
			return nil
		}
		v := strings.TrimSpace(*s)
		if lower {
			v = strings.ToLower(v)
		}
		return &v
	}
	return domain.EmployeePatch{
		Name:     trim(p.Name, false),
		Email:    trim(p.Email, true),
		Position: trim(p.Position, false),
		Phone:    trim(p.Phone, false),
	}
}

// Validate checks a complete set of fields. It returns *domain.ValidationError.
func (r *Rules) Validate(f domain.EmployeeFields) error {
	err := r.v.Struct(fieldsDoc{Name: f.Name, Email: f.Email, Position: f.Position, Phone: f.Phone})
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &domain.ValidationError{}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, domain.FieldError{Field: fe.Field(), Message: fieldMessages[fe.Field()]})
	}
	return out
}

// ValidatePatch checks only the fields the patch names.
func (r *Rules) ValidatePatch(p domain.EmployeePatch) error {
	checks := []struct {
		field string
		val   *string
		tag   string
	}{
		{"name", p.Name, tagNotBlank},
		{"email", p.Email, tagEmail},
		{"position", p.Position, tagNotBlank},
		{"phone", p.Phone, tagPhone},
	}
	out := &domain.ValidationError{}
	for _, c := range checks {
		if c.val == nil {
			continue
		}
		if err := r.v.Var(*c.val, c.tag); err != nil {
			var verrs validator.ValidationErrors
			if !errors.As(err, &verrs) {
				return err
			}
			out.Fields = append(out.Fields, domain.FieldError{Field: c.field, Message: fieldMessages[c.field]})
		}
	}
	if len(out.Fields) > 0 {
		return out
	}
	return nil
}

package validate

import (
	"errors"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
)

// emailPattern is deliberately loose: local part, "@", and a domain with at
// least one dot. The provider enforces its own opaque restrictions on top;
// this check only rejects input that cannot possibly be an address.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const (
	msgMissingFields      = "Email and password are required"
	msgInvalidEmail       = "Invalid email format or domain"
	msgInvalidEmailDetail = "Invalid email format or domain. Please use a valid email address."
	msgPasswordTooShort   = "Password must be at least 8 characters long"
)

// DomainPolicy narrows which email domains the gateway accepts. The deny
// list always wins; when an allow list is configured, unlisted domains are
// rejected; with no allow list only syntax and the deny list apply.
type DomainPolicy struct {
	Allow []string
	Deny  []string
}

func (p DomainPolicy) permitted(domain string) bool {
	domain = strings.ToLower(domain)

	for _, d := range p.Deny {
		if strings.EqualFold(d, domain) {
			return false
		}
	}

	if len(p.Allow) == 0 {
		return true
	}

	for _, d := range p.Allow {
		if strings.EqualFold(d, domain) {
			return true
		}
	}
	return false
}

// Validator checks credential input before any provider call is made, so
// obviously invalid requests fail fast with a clear message instead of
// surfacing the provider's generic rejection.
type Validator struct {
	policy DomainPolicy
}

func New(policy DomainPolicy) *Validator {
	return &Validator{policy: policy}
}

// Registration validates a sign-up payload. A nil return means valid.
func (v *Validator) Registration(email, password string) error {
	if err := v.email(email, msgInvalidEmailDetail); err != nil {
		return err
	}

	return validation.Validate(password,
		validation.Required.Error(msgMissingFields),
		validation.Length(8, 0).Error(msgPasswordTooShort),
	)
}

// Email validates a login identifier. Login reuses the same syntax and
// domain policy as registration but reports the shorter message.
func (v *Validator) Email(email string) error {
	return v.email(email, msgInvalidEmail)
}

func (v *Validator) email(email, msg string) error {
	return validation.Validate(email,
		validation.Required.Error(msgMissingFields),
		validation.Match(emailPattern).Error(msg),
		validation.By(v.domainRule(msg)),
	)
}

func (v *Validator) domainRule(msg string) validation.RuleFunc {
	return func(value any) error {
		email, _ := value.(string)

		at := strings.LastIndex(email, "@")
		if at < 0 {
			return nil // syntax rule already rejected it
		}

		if !v.policy.permitted(email[at+1:]) {
			return errors.New(msg)
		}
		return nil
	}
}

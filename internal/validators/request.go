package validators

import (
	"context"
	"net/mail"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/lightningsoon/KeyMinder/models"
	"github.com/nbutton23/zxcvbn-go"
)

// Field name constants used to restrict validation to a subset of fields.
const (
	// FieldUsername targets the login name of an account.
	FieldUsername = "username"

	// FieldPassword only requires the login password to be present.
	FieldPassword = "password"

	// FieldPasswordPolicy enforces length and zxcvbn strength on a new
	// login password.
	FieldPasswordPolicy = "password_policy"

	// FieldEmail targets the optional contact address.
	FieldEmail = "email"

	FieldOldPassword = "old_password"
	FieldNewPassword = "new_password"

	FieldTitle         = "title"
	FieldEntryUsername = "entry_username"
	FieldEntryPassword = "entry_password"

	FieldLength = "length"
	FieldWords  = "words"
)

const (
	MinPasswordLength = 8
	MaxPasswordLength = 256
	maxUsernameLength = 64

	MinGeneratedLength = 4
	MaxGeneratedLength = 128
	MinPassphraseWords = 3
	MaxPassphraseWords = 20
)

// RequestValidator validates every request model the services accept.
type RequestValidator struct {
	// minPasswordScore is the lowest zxcvbn score (0..4) a new login
	// password may have.
	minPasswordScore int
}

// NewRequestValidator returns a Validator enforcing minPasswordScore on new
// login passwords.
func NewRequestValidator(minPasswordScore int) Validator {
	return &RequestValidator{minPasswordScore: minPasswordScore}
}

// Validate dispatches on the dynamic type of obj. Both value and pointer
// forms are accepted.
//
// Supported types and their default fields:
//   - models.Credentials: username, password policy, email
//   - models.ChangePasswordRequest: old password, new password
//   - models.PasswordEntry: title, entry username, entry password
//   - models.EntryUpdate: every present field, at least one field
//   - models.GeneratorOptions: length
//   - models.PassphraseOptions: words
func (v *RequestValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.Credentials:
		return v.validateCredentials(value, fields...)
	case *models.Credentials:
		return v.validateCredentials(*value, fields...)

	case models.ChangePasswordRequest:
		return v.validateChangePassword(value, fields...)
	case *models.ChangePasswordRequest:
		return v.validateChangePassword(*value, fields...)

	case models.PasswordEntry:
		return v.validateEntry(value, fields...)
	case *models.PasswordEntry:
		return v.validateEntry(*value, fields...)

	case models.EntryUpdate:
		return v.validateEntryUpdate(value)
	case *models.EntryUpdate:
		return v.validateEntryUpdate(*value)

	case models.GeneratorOptions:
		return v.validateGeneratorOptions(value)
	case *models.GeneratorOptions:
		return v.validateGeneratorOptions(*value)

	case models.PassphraseOptions:
		return v.validatePassphraseOptions(value)
	case *models.PassphraseOptions:
		return v.validatePassphraseOptions(*value)

	default:
		return ErrUnsupportedType
	}
}

func (v *RequestValidator) validateCredentials(c models.Credentials, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldUsername, FieldPasswordPolicy, FieldEmail}
	}

	for _, f := range fields {
		switch f {
		case FieldUsername:
			if !validUsername(c.Username) {
				return ErrInvalidUsername
			}
		case FieldPassword:
			if c.Password == "" {
				return ErrEmptyPassword
			}
		case FieldPasswordPolicy:
			if err := v.checkPasswordPolicy(c.Password, c.Username); err != nil {
				return err
			}
		case FieldEmail:
			if c.Email != nil && *c.Email != "" {
				if _, err := mail.ParseAddress(*c.Email); err != nil {
					return ErrInvalidEmail
				}
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *RequestValidator) validateChangePassword(r models.ChangePasswordRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldOldPassword, FieldNewPassword}
	}

	for _, f := range fields {
		switch f {
		case FieldOldPassword:
			if r.OldPassword == "" {
				return ErrEmptyPassword
			}
		case FieldNewPassword:
			if r.NewPassword == r.OldPassword {
				return ErrSamePassword
			}
			if err := v.checkPasswordPolicy(r.NewPassword); err != nil {
				return err
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *RequestValidator) validateEntry(e models.PasswordEntry, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldTitle, FieldEntryUsername, FieldEntryPassword}
	}

	for _, f := range fields {
		switch f {
		case FieldTitle:
			if strings.TrimSpace(e.Title) == "" {
				return ErrEmptyTitle
			}
		case FieldEntryUsername:
			if strings.TrimSpace(e.Username) == "" {
				return ErrEmptyEntryUsername
			}
		case FieldEntryPassword:
			if e.Password == "" {
				return ErrEmptyEntryPassword
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

// validateEntryUpdate applies the create rules to the fields present in u.
func (v *RequestValidator) validateEntryUpdate(u models.EntryUpdate) error {
	if u.IsEmpty() {
		return ErrNoFieldsToUpdate
	}
	if u.Title != nil && strings.TrimSpace(*u.Title) == "" {
		return ErrEmptyTitle
	}
	if u.Username != nil && strings.TrimSpace(*u.Username) == "" {
		return ErrEmptyEntryUsername
	}
	if u.Password != nil && *u.Password == "" {
		return ErrEmptyEntryPassword
	}
	return nil
}

func (v *RequestValidator) validateGeneratorOptions(o models.GeneratorOptions) error {
	if o.Length < MinGeneratedLength || o.Length > MaxGeneratedLength {
		return ErrInvalidLength
	}
	return nil
}

func (v *RequestValidator) validatePassphraseOptions(o models.PassphraseOptions) error {
	if o.Words < MinPassphraseWords || o.Words > MaxPassphraseWords {
		return ErrInvalidWordCount
	}
	return nil
}

// checkPasswordPolicy rejects passwords that are too short, too long or
// guessable. userInputs (the username) count against the zxcvbn score.
func (v *RequestValidator) checkPasswordPolicy(password string, userInputs ...string) error {
	n := utf8.RuneCountInString(password)
	switch {
	case password == "":
		return ErrEmptyPassword
	case n < MinPasswordLength:
		return ErrPasswordTooShort
	case n > MaxPasswordLength:
		return ErrPasswordTooLong
	}

	if v.minPasswordScore > 0 && zxcvbn.PasswordStrength(password, userInputs).Score < v.minPasswordScore {
		return ErrWeakPassword
	}
	return nil
}

func validUsername(username string) bool {
	if username == "" || utf8.RuneCountInString(username) > maxUsernameLength {
		return false
	}
	return strings.IndexFunc(username, unicode.IsSpace) < 0
}

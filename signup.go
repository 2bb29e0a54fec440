package voxo

import (
	"context"
	stderrors "errors"
	"strings"
	"time"
	"unicode"

	validation "github.com/go-ozzo/ozzo-validation"
	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

// FieldError is a single violated signup rule.
type FieldError struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// SignupRejection carries everything a 403 response needs: the submitted
// (sanitized) username and the collected rule violations.
type SignupRejection struct {
	Username string       `json:"username"`
	Errors   []FieldError `json:"errors"`
}

// SignupPayload is the request body for account creation.
type SignupPayload struct {
	Username        string `json:"username" form:"username"`
	Password        string `json:"password" form:"password"`
	ConfirmPassword string `json:"confirmPassword" form:"confirmPassword"`
}

// Validate will run validation rules
func (p SignupPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Username, usernameRules()...),
		validation.Field(&p.Password, passwordRules()...),
		validation.Field(&p.ConfirmPassword, confirmPasswordRules(p.Password)...),
	)
}

// FieldErrors evaluates each field independently and returns the violations
// in a fixed field order. Within a field the first broken rule reports.
func (p SignupPayload) FieldErrors() []FieldError {
	var out []FieldError

	if err := validation.Validate(p.Username, usernameRules()...); err != nil {
		out = append(out, FieldError{Field: "username", Message: err.Error()})
	}
	if err := validation.Validate(p.Password, passwordRules()...); err != nil {
		out = append(out, FieldError{Field: "password", Message: err.Error()})
	}
	if err := validation.Validate(p.ConfirmPassword, confirmPasswordRules(p.Password)...); err != nil {
		out = append(out, FieldError{Field: "confirmPassword", Message: err.Error()})
	}

	return out
}

func usernameRules() []validation.Rule {
	return []validation.Rule{
		validation.Required.Error("Username can not be empty."),
		validation.By(noWhitespace("No spaces are allowed in the username.")),
		validation.Length(3, 0).Error("Username must contain at least 3 characters."),
		validation.Length(0, 16).Error("Username can not be longer than 16 characters."),
	}
}

func passwordRules() []validation.Rule {
	return []validation.Rule{
		validation.Required.Error("Password can not be empty."),
		validation.By(noWhitespace("No spaces are allowed in the password.")),
		validation.Length(8, 0).Error("Password must contain at least 8 characters."),
	}
}

func confirmPasswordRules(password string) []validation.Rule {
	return []validation.Rule{
		validation.By(stringEquals(password, "Passwords do not match.")),
	}
}

func noWhitespace(msg string) validation.RuleFunc {
	return func(value any) error {
		s, _ := value.(string)
		if strings.IndexFunc(s, unicode.IsSpace) >= 0 {
			return stderrors.New(msg)
		}
		return nil
	}
}

// stringEquals checks the raw values byte for byte, before any trimming.
func stringEquals(expected, msg string) validation.RuleFunc {
	return func(value any) error {
		s, _ := value.(string)
		if s != expected {
			return stderrors.New(msg)
		}
		return nil
	}
}

// RegisterUserHandler runs the signup flow against the store.
type RegisterUserHandler struct {
	repo   RepositoryManager
	logger Logger
}

// NewRegisterUserHandler wires the handler to a repository manager.
func NewRegisterUserHandler(repo RepositoryManager) *RegisterUserHandler {
	return &RegisterUserHandler{
		repo:   repo,
		logger: defLogger{},
	}
}

func (h *RegisterUserHandler) WithLogger(logger Logger) *RegisterUserHandler {
	h.logger = logger
	return h
}

// Execute creates the account. A non-nil SignupRejection means the request
// was refused for user-correctable reasons; the error return is reserved
// for infrastructure failures.
//
// The taken-username check deliberately runs before field validation, so a
// taken name short-circuits and masks field-level errors. The check and the
// insert are not one transaction; the unique index on lower(username)
// backstops concurrent signups and the resulting conflict maps to the same
// rejection.
func (h *RegisterUserHandler) Execute(ctx context.Context, payload SignupPayload) (*SignupRejection, error) {
	select {
	case <-ctx.Done():
		return nil, goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during user registration",
		)
	default:
		return h.execute(ctx, payload)
	}
}

func (h *RegisterUserHandler) execute(ctx context.Context, payload SignupPayload) (*SignupRejection, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	// the sanitized username is what gets validated and stored
	username := SanitizeUsername(payload.Username)
	payload.Username = username

	taken, err := h.repo.Users().UsernameTaken(ctx, username)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to check username availability")
	}

	if taken {
		return &SignupRejection{
			Username: username,
			Errors:   []FieldError{{Field: "username", Message: MsgUsernameTaken}},
		}, nil
	}

	if fieldErrs := payload.FieldErrors(); len(fieldErrs) > 0 {
		return &SignupRejection{
			Username: username,
			Errors:   fieldErrs,
		}, nil
	}

	hash, err := HashPassword(payload.Password)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
	}

	user := &User{
		Username:     username,
		PasswordHash: hash,
	}

	err = h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		_, err := h.repo.Users().CreateTx(ctx, tx, user)
		return err
	})

	if err != nil {
		if isUniqueViolation(err) {
			// lost the race: another signup claimed the name between the
			// check and the insert
			h.logger.Warn("signup insert conflict for %s", username)
			return &SignupRejection{
				Username: username,
				Errors:   []FieldError{{Field: "username", Message: MsgUsernameTaken}},
			}, nil
		}

		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "user registration transaction failed")
	}

	return nil, nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

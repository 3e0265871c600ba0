package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/snapbook/opsconsole/internal/domain/session"
	"github.com/snapbook/opsconsole/internal/port/outbound"
)

// AuthService errors.
var (
	ErrInvalidLogin  = errors.New("invalid login input")
	ErrEmptyResponse = errors.New("login response carried no token")
)

var phonePattern = regexp.MustCompile(`^\+?[0-9]{6,15}$`)

// loginInput is validated before any backend call.
type loginInput struct {
	Phone string `validate:"required,phone"`
	Code  string `validate:"required,numeric,min=4,max=8"`
}

type codeInput struct {
	Phone string `validate:"required,phone"`
}

// AuthService runs the phone + verification code login flow and owns the
// transitions of the session store.
type AuthService struct {
	api      outbound.AuthAPI
	store    *session.Store
	validate *validator.Validate
	logger   *slog.Logger
}

// NewAuthService creates an AuthService.
func NewAuthService(api outbound.AuthAPI, store *session.Store, logger *slog.Logger) *AuthService {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	return &AuthService{
		api:      api,
		store:    store,
		validate: v,
		logger:   logger,
	}
}

// RequestCode asks the backend to send a verification code. It returns the
// code's expiry as reported by the backend.
func (s *AuthService) RequestCode(ctx context.Context, phone string) (string, error) {
	in := codeInput{Phone: strings.TrimSpace(phone)}
	if err := s.validate.Struct(in); err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidLogin, describe(err))
	}
	resp, err := s.api.SendCode(ctx, in.Phone)
	if err != nil {
		return "", err
	}
	s.logger.Info("verification code requested", "expires_at", resp.ExpiredAt)
	return resp.ExpiredAt, nil
}

// Login exchanges phone and code for a session and stores it. Invalid input
// and application failures leave an existing session in place; a 401 from
// the backend clears it like any other call.
func (s *AuthService) Login(ctx context.Context, phone, code string) (*session.Session, error) {
	in := loginInput{Phone: strings.TrimSpace(phone), Code: strings.TrimSpace(code)}
	if err := s.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidLogin, describe(err))
	}

	resp, err := s.api.Login(ctx, in.Phone, in.Code)
	if err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, ErrEmptyResponse
	}

	sess := session.Session{Token: resp.Token, User: resp.User, Roles: resp.Roles}
	if err := s.store.Set(ctx, sess); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	s.logger.Info("operator logged in", "roles", sess.Roles, "token", session.Fingerprint(sess.Token))
	return &sess, nil
}

// Logout clears the session. It never contacts the backend.
func (s *AuthService) Logout(ctx context.Context) error {
	return s.store.Clear(ctx)
}

// Current returns the stored session, if any.
func (s *AuthService) Current(ctx context.Context) (*session.Session, bool) {
	if !s.store.IsAuthenticated(ctx) {
		return nil, false
	}
	sess, ok := s.store.Get(ctx)
	if !ok {
		// Token present but the session object is unreadable.
		token, _ := s.store.Token(ctx)
		return &session.Session{Token: token}, true
	}
	return sess, true
}

// describe turns validation errors into one operator-facing sentence.
func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "phone":
			msgs = append(msgs, field+" must be a phone number")
		case "numeric":
			msgs = append(msgs, field+" must be digits only")
		case "min", "max":
			msgs = append(msgs, field+" must be 4-8 digits")
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid (%s)", field, fe.Tag()))
		}
	}
	return strings.Join(msgs, "; ")
}

package application

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tourhub/tourhub-api/config"
	"github.com/tourhub/tourhub-api/internal/domain/entity"
	"github.com/tourhub/tourhub-api/internal/domain/repository"
	"github.com/tourhub/tourhub-api/pkg/apperror"
	"github.com/tourhub/tourhub-api/pkg/helpers"
	"github.com/tourhub/tourhub-api/pkg/mailer"
	"github.com/tourhub/tourhub-api/pkg/query"
)

// AuthService owns credentials: password hashing and verification, token
// issuance, and the password-reset lifecycle. Identity resolution for
// requests lives in the middleware guard, which only reads.
type AuthService struct {
	Users  repository.UserRepository
	JWT    *helpers.JWTManager
	Pub    *helpers.RabbitPublisher
	Cfg    *config.Config
	Logger *logrus.Logger
}

func NewAuthService(users repository.UserRepository, jwt *helpers.JWTManager, pub *helpers.RabbitPublisher, cfg *config.Config, logger *logrus.Logger) *AuthService {
	return &AuthService{Users: users, JWT: jwt, Pub: pub, Cfg: cfg, Logger: logger}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type SignupInput struct {
	Name     string
	Email    string
	Password string
}

// Signup creates an account with the user role. Roles are assigned by
// administrators afterwards; accepting one from the signup payload would
// let anyone register as admin.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*entity.User, error) {
	hash, err := helpers.HashPassword(in.Password, s.Cfg.BcryptCost)
	if err != nil {
		return nil, err
	}
	u := &entity.User{
		Name:     in.Name,
		Email:    normalizeEmail(in.Email),
		Password: hash,
		Role:     entity.RoleUser,
	}
	if err := s.Users.Create(ctx, u); err != nil {
		return nil, err
	}

	if s.Pub != nil && s.Cfg.MailSendEnabled {
		job := mailer.EmailJob{
			To:       u.Email,
			Template: mailer.TemplateWelcome,
			Data:     map[string]any{"Name": u.Name, "AppName": s.Cfg.AppName},
		}
		if err := s.Pub.PublishJSON(ctx, job); err != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Warn("welcome email enqueue failed")
		}
	}
	return u, nil
}

// Login verifies email/password. The message never reveals which of the two
// was wrong.
func (s *AuthService) Login(ctx context.Context, email, password string) (*entity.User, error) {
	u, err := s.Users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil || u == nil || !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, apperror.New(apperror.KindAuthInvalid, "Incorrect email or password")
	}
	return u, nil
}

// IssueToken signs a fresh stateless token for the user.
func (s *AuthService) IssueToken(u *entity.User) (string, time.Time, error) {
	token, exp, err := s.JWT.Generate(u.ID)
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Error("token generation failed")
	}
	return token, exp, err
}

func (s *AuthService) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindNotFound, "No user found with that ID", err)
	}
	return u, nil
}

func (s *AuthService) ListUsers(ctx context.Context, d query.Descriptor) ([]*entity.User, error) {
	return s.Users.List(ctx, d)
}

type UpdateMeInput struct {
	Name  string
	Email string
}

// UpdateMe updates profile fields only. Password changes go through
// UpdatePassword so passwordChangedAt stays accurate.
func (s *AuthService) UpdateMe(ctx context.Context, userID string, in UpdateMeInput) (*entity.User, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindNotFound, "No user found with that ID", err)
	}
	if in.Name != "" {
		u.Name = in.Name
	}
	if in.Email != "" {
		u.Email = normalizeEmail(in.Email)
	}
	if err := s.Users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// DeactivateMe soft-deletes the account. The row stays; default lookups
// stop returning it.
func (s *AuthService) DeactivateMe(ctx context.Context, userID string) error {
	return s.Users.Deactivate(ctx, userID)
}

// passwordChangedAt is backdated one second so a token issued in the same
// second as the change is not considered stale.
func passwordChangeTime() time.Time {
	return time.Now().Add(-time.Second)
}

// UpdatePassword rotates the password of a logged-in user after verifying
// the current one.
func (s *AuthService) UpdatePassword(ctx context.Context, userID, current, newPassword string) (*entity.User, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindNotFound, "No user found with that ID", err)
	}
	if !helpers.CompareHashAndPassword(u.Password, current) {
		return nil, apperror.New(apperror.KindAuthInvalid, "Your current password is wrong.")
	}
	hash, err := helpers.HashPassword(newPassword, s.Cfg.BcryptCost)
	if err != nil {
		return nil, err
	}
	changedAt := passwordChangeTime()
	if err := s.Users.UpdatePassword(ctx, u.ID, hash, changedAt); err != nil {
		return nil, err
	}
	u.Password = hash
	u.PasswordChangedAt = &changedAt
	return u, nil
}

// ForgotPassword generates a reset token, stores only its digest with a
// 10-minute expiry, and queues the plain value for email delivery. If the
// enqueue fails the stored digest and expiry are cleared before the failure
// propagates, so no orphaned reset token stays active.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	u, err := s.Users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return apperror.Wrap(apperror.KindNotFound, "There is no user with email address.", err)
	}

	plain, digest, err := helpers.GenResetToken()
	if err != nil {
		return err
	}
	expires := time.Now().Add(helpers.ResetTokenTTL)
	if err := s.Users.SetResetToken(ctx, u.ID, digest, expires); err != nil {
		return err
	}

	resetURL := strings.TrimRight(s.Cfg.ResetURLBase, "/") + "/" + plain
	job := mailer.EmailJob{
		To:       u.Email,
		Template: mailer.TemplatePasswordReset,
		Data:     map[string]any{"Name": u.Name, "ResetURL": resetURL},
	}

	var sendErr error
	if s.Pub == nil || !s.Cfg.MailSendEnabled {
		s.Logger.WithField("user_id", u.ID).Warn("mail delivery disabled; reset token dropped")
		sendErr = errNoMailTransport
	} else {
		sendErr = s.Pub.PublishJSON(ctx, job)
	}
	if sendErr != nil {
		if clearErr := s.Users.ClearResetToken(ctx, u.ID); clearErr != nil {
			s.Logger.WithError(clearErr).WithField("user_id", u.ID).Error("failed to clear orphaned reset token")
		}
		return apperror.Wrap(apperror.KindUnknown, "There was an error sending the email. Try again later!", sendErr)
	}
	return nil
}

var errNoMailTransport = &noMailTransportError{}

type noMailTransportError struct{}

func (*noMailTransportError) Error() string { return "mail transport unavailable" }

// ResetPassword consumes a reset token: the digest of the supplied plain
// value must match a stored, unexpired digest. The token is single-use;
// both stored fields are cleared on success.
func (s *AuthService) ResetPassword(ctx context.Context, plainToken, newPassword string) (*entity.User, error) {
	digest := helpers.HashResetToken(plainToken)
	u, err := s.Users.GetByResetDigest(ctx, digest, time.Now())
	if err != nil {
		return nil, apperror.Wrap(apperror.KindResetToken, "Token is invalid or has expired", err)
	}

	hash, err := helpers.HashPassword(newPassword, s.Cfg.BcryptCost)
	if err != nil {
		return nil, err
	}
	changedAt := passwordChangeTime()
	if err := s.Users.UpdatePassword(ctx, u.ID, hash, changedAt); err != nil {
		return nil, err
	}
	if err := s.Users.ClearResetToken(ctx, u.ID); err != nil {
		return nil, err
	}
	u.Password = hash
	u.PasswordChangedAt = &changedAt
	u.PasswordResetToken = nil
	u.PasswordResetExpires = nil
	return u, nil
}

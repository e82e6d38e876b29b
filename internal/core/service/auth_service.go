package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/pawcare/auth-service/internal/api/metrics"
	"github.com/pawcare/auth-service/internal/core/domain"
	"github.com/pawcare/auth-service/internal/core/ports"
)

// Client-facing messages. Unknown email and wrong password share one message.
const (
	msgInvalidCredentials   = "Invalid email or password"
	msgLoginDeactivated     = "Account is deactivated. Please contact support."
	msgAccountDeactivated   = "Account is deactivated"
	msgUserExists           = "User with this email already exists"
	msgRefreshRequired      = "Refresh token is required"
	msgInvalidRefresh       = "Invalid or expired refresh token"
	msgSessionNotFound      = "Session not found"
	msgSessionExpired       = "Session expired"
	msgAuthHeaderMissing    = "Authorization header missing or malformed"
	msgInvalidAccess        = "Invalid or expired access token"
	msgUserNotFound         = "User not found"
	msgWrongCurrentPassword = "Current password is incorrect"
)

// dummyPassword is hashed once to give unknown-email logins the same bcrypt cost.
const dummyPassword = "dummy-password-for-timing"

// AuthService implements ports.AuthService.
type AuthService struct {
	users    ports.UserRepository
	sessions *SessionService
	hasher   ports.PasswordHasher
	tokens   ports.TokenIssuer
	audit    ports.AuditRecorder
	log      zerolog.Logger
	now      func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

// Option configures an AuthService.
type Option func(*AuthService)

// WithClock replaces time.Now for timestamps written by the service.
func WithClock(now func() time.Time) Option {
	return func(s *AuthService) { s.now = now }
}

// WithAuditRecorder sends auth events to r. Without it events are discarded.
func WithAuditRecorder(r ports.AuditRecorder) Option {
	return func(s *AuthService) { s.audit = r }
}

func NewAuthService(
	users ports.UserRepository,
	sessions *SessionService,
	hasher ports.PasswordHasher,
	tokens ports.TokenIssuer,
	log zerolog.Logger,
	opts ...Option,
) *AuthService {
	s := &AuthService{
		users:    users,
		sessions: sessions,
		hasher:   hasher,
		tokens:   tokens,
		audit:    nopRecorder{},
		log:      log,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ ports.AuthService = (*AuthService)(nil)

// Register creates an active account and signs it in on the calling device.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	res, err := s.register(ctx, in)
	s.observe("register", err)
	return res, err
}

func (s *AuthService) register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	role := in.Role
	if role == "" {
		role = domain.RoleUser
	}
	if !role.Valid() {
		return nil, domain.Validation("Validation failed", map[string]string{"role": "must be a known role"})
	}

	if _, err := s.users.FindByEmail(ctx, in.Email); err == nil {
		return nil, domain.Conflict(msgUserExists)
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, domain.Internal("Registration failed", err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, domain.Internal("Registration failed", err)
	}

	now := s.now().UTC()
	created, err := s.users.Create(ctx, &domain.User{
		Email:        in.Email,
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Phone:        in.Phone,
		Role:         role,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		// Lost a race with a concurrent registration for the same email.
		if errors.Is(err, domain.ErrUserExists) {
			return nil, domain.Conflict(msgUserExists)
		}
		return nil, domain.Internal("Registration failed", err)
	}

	// The account stays even when no session could be opened; the user can
	// still log in, but registering again reports a conflict.
	res, err := s.openSession(ctx, created, in.Device)
	if err != nil {
		s.log.Warn().Err(err).Str("user_id", created.ID).Msg("register: user created without a session")
		return nil, err
	}

	s.record(domain.AuditRegistered, created.ID, created.Email, "", in.Device)
	s.log.Info().Str("user_id", created.ID).Str("role", string(role)).Msg("user registered")
	return res, nil
}

// Login checks credentials and opens a new session; existing sessions of the
// user are left alone.
func (s *AuthService) Login(ctx context.Context, in ports.LoginInput) (*ports.AuthResult, error) {
	res, err := s.login(ctx, in)
	s.observe("login", err)
	return res, err
}

func (s *AuthService) login(ctx context.Context, in ports.LoginInput) (*ports.AuthResult, error) {
	user, err := s.users.FindByEmail(ctx, in.Email)
	if errors.Is(err, domain.ErrUserNotFound) {
		s.burnHash(in.Password)
		s.record(domain.AuditLoginFailed, "", in.Email, "unknown_email", in.Device)
		return nil, domain.Unauthorized(msgInvalidCredentials)
	}
	if err != nil {
		return nil, domain.Internal("Login failed", err)
	}

	ok, err := s.hasher.Verify(in.Password, user.PasswordHash)
	if err != nil {
		return nil, domain.Internal("Login failed", err)
	}
	if !ok {
		s.record(domain.AuditLoginFailed, user.ID, user.Email, "bad_password", in.Device)
		return nil, domain.Unauthorized(msgInvalidCredentials)
	}

	// Checked after the password so the response does not reveal account state
	// to someone who does not know the password.
	if !user.Active {
		s.record(domain.AuditLoginFailed, user.ID, user.Email, "inactive", in.Device)
		return nil, domain.Forbidden(msgLoginDeactivated)
	}

	res, err := s.openSession(ctx, user, in.Device)
	if err != nil {
		return nil, err
	}

	s.record(domain.AuditLoginSucceeded, user.ID, user.Email, "", in.Device)
	return res, nil
}

// Refresh exchanges a live refresh token for a new access token. The refresh
// token and its session are not rotated.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*ports.RefreshResult, error) {
	res, err := s.refresh(ctx, refreshToken)
	s.observe("refresh", err)
	return res, err
}

func (s *AuthService) refresh(ctx context.Context, refreshToken string) (*ports.RefreshResult, error) {
	if refreshToken == "" {
		return nil, domain.Unauthorized(msgRefreshRequired)
	}

	claims, ok := s.tokens.VerifyRefreshToken(refreshToken)
	if !ok {
		return nil, domain.Unauthorized(msgInvalidRefresh)
	}

	session, err := s.sessions.Get(ctx, refreshToken)
	if errors.Is(err, domain.ErrSessionNotFound) {
		s.record(domain.AuditRefreshRejected, claims.UserID, claims.Email, "session_not_found", domain.DeviceInfo{})
		return nil, domain.Unauthorized(msgSessionNotFound)
	}
	if err != nil {
		return nil, domain.Internal("Token refresh failed", err)
	}

	if s.sessions.Expired(session) {
		s.dropSession(ctx, refreshToken, "expired")
		s.record(domain.AuditRefreshRejected, session.UserID, claims.Email, "session_expired", session.Device)
		return nil, domain.Unauthorized(msgSessionExpired)
	}

	user := session.User
	if user == nil {
		s.dropSession(ctx, refreshToken, "orphaned")
		s.record(domain.AuditRefreshRejected, session.UserID, claims.Email, "user_missing", session.Device)
		return nil, domain.Unauthorized(msgSessionNotFound)
	}
	if claims.UserID != session.UserID {
		return nil, domain.Unauthorized(msgInvalidRefresh)
	}
	if !user.Active {
		s.dropSession(ctx, refreshToken, "inactive")
		s.record(domain.AuditRefreshRejected, user.ID, user.Email, "inactive", session.Device)
		return nil, domain.Forbidden(msgAccountDeactivated)
	}

	// Claims come from the current user record, so a role change shows up on
	// the next refresh.
	access, err := s.tokens.IssueAccessToken(user.Claims())
	if err != nil {
		return nil, domain.Internal("Token refresh failed", err)
	}
	metrics.TokensIssuedTotal.WithLabelValues("access").Inc()

	s.record(domain.AuditTokenRefreshed, user.ID, user.Email, "", session.Device)
	return &ports.RefreshResult{AccessToken: access, ExpiresIn: s.expiresIn()}, nil
}

// Logout ends the session keyed by the refresh token, if any. It never fails
// because the session is already gone.
func (s *AuthService) Logout(ctx context.Context, in ports.LogoutInput) (ports.LogoutResult, error) {
	res, err := s.logout(ctx, in)
	s.observe("logout", err)
	return res, err
}

func (s *AuthService) logout(ctx context.Context, in ports.LogoutInput) (ports.LogoutResult, error) {
	if in.RefreshToken == "" && in.AccessToken == "" {
		return ports.LogoutResult{NoActiveSession: true}, nil
	}

	// Only used to attribute the audit event; never trusted for access.
	token := in.RefreshToken
	if token == "" {
		token = in.AccessToken
	}
	claims, _ := s.tokens.DecodeUnsafe(token)

	if in.RefreshToken != "" {
		err := s.sessions.Delete(ctx, in.RefreshToken)
		switch {
		case err == nil:
			metrics.SessionsDeletedTotal.WithLabelValues("logout").Inc()
		case errors.Is(err, domain.ErrSessionNotFound):
			s.log.Debug().Str("user_id", claims.UserID).Msg("logout: session already gone")
		default:
			s.log.Warn().Err(err).Str("user_id", claims.UserID).Msg("logout: session delete failed")
		}
	}

	s.record(domain.AuditLogout, claims.UserID, claims.Email, "", in.Device)
	return ports.LogoutResult{}, nil
}

// Me resolves an access token to the current profile of its user.
func (s *AuthService) Me(ctx context.Context, accessToken string) (*domain.UserView, error) {
	res, err := s.me(ctx, accessToken)
	s.observe("me", err)
	return res, err
}

func (s *AuthService) me(ctx context.Context, accessToken string) (*domain.UserView, error) {
	if accessToken == "" {
		return nil, domain.Unauthorized(msgAuthHeaderMissing)
	}

	claims, ok := s.tokens.VerifyAccessToken(accessToken)
	if !ok {
		return nil, domain.Unauthorized(msgInvalidAccess)
	}

	user, err := s.activeUser(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}

	view := user.View()
	return &view, nil
}

// LogoutAll deletes every session of userID and returns how many there were.
func (s *AuthService) LogoutAll(ctx context.Context, userID string) (int64, error) {
	n, err := s.logoutAll(ctx, userID)
	s.observe("logout_all", err)
	return n, err
}

func (s *AuthService) logoutAll(ctx context.Context, userID string) (int64, error) {
	n, err := s.sessions.DeleteAllForUser(ctx, userID)
	if err != nil {
		return 0, domain.Internal("Logout failed", err)
	}
	metrics.SessionsDeletedTotal.WithLabelValues("logout_all").Add(float64(n))

	s.record(domain.AuditSessionsRevoked, userID, "", "logout_all", domain.DeviceInfo{})
	return n, nil
}

// ChangePassword replaces the password after checking the current one and
// signs the user out everywhere.
func (s *AuthService) ChangePassword(ctx context.Context, in ports.ChangePasswordInput) error {
	err := s.changePassword(ctx, in)
	s.observe("change_password", err)
	return err
}

func (s *AuthService) changePassword(ctx context.Context, in ports.ChangePasswordInput) error {
	user, err := s.activeUser(ctx, in.UserID)
	if err != nil {
		return err
	}

	ok, err := s.hasher.Verify(in.CurrentPassword, user.PasswordHash)
	if err != nil {
		return domain.Internal("Password change failed", err)
	}
	if !ok {
		return domain.Unauthorized(msgWrongCurrentPassword)
	}
	if in.NewPassword == in.CurrentPassword {
		return domain.Validation("Validation failed", map[string]string{
			"newPassword": "must differ from the current password",
		})
	}

	hash, err := s.hasher.Hash(in.NewPassword)
	if err != nil {
		return domain.Internal("Password change failed", err)
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hash, s.now().UTC()); err != nil {
		return domain.Internal("Password change failed", err)
	}

	n, err := s.sessions.DeleteAllForUser(ctx, user.ID)
	if err != nil {
		return domain.Internal("Password changed but sessions could not be revoked", err)
	}
	metrics.SessionsDeletedTotal.WithLabelValues("password_changed").Add(float64(n))

	s.record(domain.AuditPasswordChanged, user.ID, user.Email, "", in.Device)
	return nil
}

// SetUserActive flips the active flag. Deactivation also deletes every
// session, so refresh stops working at once; issued access tokens still pass
// the gate until they expire.
func (s *AuthService) SetUserActive(ctx context.Context, userID string, active bool) (*domain.UserView, error) {
	res, err := s.setUserActive(ctx, userID, active)
	s.observe("set_status", err)
	return res, err
}

func (s *AuthService) setUserActive(ctx context.Context, userID string, active bool) (*domain.UserView, error) {
	if err := s.users.SetActive(ctx, userID, active, s.now().UTC()); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.NotFound(msgUserNotFound)
		}
		return nil, domain.Internal("Status update failed", err)
	}

	reason := "activated"
	if !active {
		reason = "deactivated"
		n, err := s.sessions.DeleteAllForUser(ctx, userID)
		if err != nil {
			return nil, domain.Internal("Status update failed", err)
		}
		metrics.SessionsDeletedTotal.WithLabelValues("deactivated").Add(float64(n))
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.NotFound(msgUserNotFound)
		}
		return nil, domain.Internal("Status update failed", err)
	}

	s.record(domain.AuditStatusChanged, user.ID, user.Email, reason, domain.DeviceInfo{})
	view := user.View()
	return &view, nil
}

// openSession issues a token pair for user and stores the refresh token as a
// new session.
func (s *AuthService) openSession(ctx context.Context, user *domain.User, device domain.DeviceInfo) (*ports.AuthResult, error) {
	claims := user.Claims()

	access, err := s.tokens.IssueAccessToken(claims)
	if err != nil {
		return nil, domain.Internal("Failed to issue tokens", err)
	}
	refresh, err := s.tokens.IssueRefreshToken(claims)
	if err != nil {
		return nil, domain.Internal("Failed to issue tokens", err)
	}
	metrics.TokensIssuedTotal.WithLabelValues("access").Inc()
	metrics.TokensIssuedTotal.WithLabelValues("refresh").Inc()

	if _, err := s.sessions.Create(ctx, user.ID, refresh, device); err != nil {
		return nil, domain.Internal("Failed to create session", err)
	}

	return &ports.AuthResult{
		User:      user.View(),
		Tokens:    domain.AuthTokens{AccessToken: access, RefreshToken: refresh},
		ExpiresIn: s.expiresIn(),
	}, nil
}

func (s *AuthService) activeUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, domain.NotFound(msgUserNotFound)
	}
	if err != nil {
		return nil, domain.Internal("Failed to load user", err)
	}
	if !user.Active {
		return nil, domain.Forbidden(msgAccountDeactivated)
	}
	return user, nil
}

// dropSession deletes a session that failed a refresh check. Failures are
// logged and do not change the response.
func (s *AuthService) dropSession(ctx context.Context, token, reason string) {
	if err := s.sessions.Delete(ctx, token); err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
		s.log.Warn().Err(err).Str("reason", reason).Msg("refresh: session delete failed")
		return
	}
	metrics.SessionsDeletedTotal.WithLabelValues(reason).Inc()
}

func (s *AuthService) burnHash(password string) {
	s.dummyOnce.Do(func() {
		hash, err := s.hasher.Hash(dummyPassword)
		if err != nil {
			s.log.Warn().Err(err).Msg("dummy hash unavailable")
			return
		}
		s.dummyHash = hash
	})
	if s.dummyHash != "" {
		_, _ = s.hasher.Verify(password, s.dummyHash)
	}
}

func (s *AuthService) expiresIn() int {
	return int(s.tokens.AccessTokenTTL() / time.Second)
}

func (s *AuthService) record(typ domain.AuditEventType, userID, email, reason string, device domain.DeviceInfo) {
	s.audit.Record(domain.AuditEvent{
		Type:       typ,
		UserID:     userID,
		Email:      email,
		Reason:     reason,
		Device:     device,
		OccurredAt: s.now().UTC(),
	})
}

func (s *AuthService) observe(flow string, err error) {
	result := "success"
	if err != nil {
		result = domain.KindOf(err).String()
	}
	metrics.AttemptsTotal.WithLabelValues(flow, result).Inc()
}

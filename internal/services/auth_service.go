package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/studyhub-dev/studyhub/internal/auth"
	"github.com/studyhub-dev/studyhub/internal/models"
	"github.com/studyhub-dev/studyhub/internal/repository"
	"gorm.io/datatypes"
)

const (
	RoleStudent = "Student"
	RoleTeacher = "Teacher"
)

// Roles are the options offered by the registration form.
var Roles = []string{RoleStudent, RoleTeacher}

// EduEmailMarkers are the substrings accepted as proof of an educational domain.
var EduEmailMarkers = []string{".edu", ".ac.", ".edu."}

func IsEduEmail(email string) bool {
	lower := strings.ToLower(email)
	return lo.ContainsBy(EduEmailMarkers, func(marker string) bool {
		return strings.Contains(lower, marker)
	})
}

type RegisterInput struct {
	Name        string
	Email       string
	Institution string
	Role        string
}

type LoginResult struct {
	User    *models.User
	Session *models.Session
	Token   string
}

// CurrentSession is the authenticated state of one request. User is nil when
// the session is valid but its user row no longer exists.
type CurrentSession struct {
	SessionID string
	UserID    uint
	User      *models.User
}

func (c *CurrentSession) LoggedIn() bool {
	return c != nil && c.User != nil
}

type AuthService struct {
	clock
	users    repository.UserRepository
	sessions repository.SessionRepository
	signer   *auth.TokenSigner
	ttl      time.Duration
}

func NewAuthService(
	users repository.UserRepository,
	sessions repository.SessionRepository,
	signer *auth.TokenSigner,
	ttl time.Duration,
) *AuthService {
	return &AuthService{
		clock:    systemClock(),
		users:    users,
		sessions: sessions,
		signer:   signer,
		ttl:      ttl,
	}
}

func (s *AuthService) TTL() time.Duration {
	return s.ttl
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if !IsEduEmail(in.Email) {
		return nil, ErrInvalidEmail
	}

	role := strings.TrimSpace(in.Role)
	if role == "" {
		role = RoleStudent
	}

	_, err := s.users.GetByEmail(ctx, in.Email)

	if err == nil {
		return nil, ErrEmailTaken
	}

	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("check existing user: %w", err)
	}

	user := &models.User{
		Name:        in.Name,
		Email:       in.Email,
		Institution: in.Institution,
		Role:        role,
		JoinDate:    datatypes.Date(s.now()),
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

// Login opens a session for the user registered under exactly this email,
// ignoring surrounding whitespace.
func (s *AuthService) Login(ctx context.Context, email string) (*LoginResult, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))

	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	now := s.now().UTC().Truncate(time.Second)

	session := &models.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	token, err := s.signer.GenerateJWT(session.ID, session.ExpiresAt)

	if err != nil {
		return nil, fmt.Errorf("sign session token: %w", err)
	}

	return &LoginResult{User: user, Session: session, Token: token}, nil
}

func (s *AuthService) Resolve(ctx context.Context, token string) (*CurrentSession, error) {
	sessionID, err := s.signer.VerifyJWT(token)

	if err != nil {
		return nil, ErrInvalidSession
	}

	session, err := s.sessions.GetActive(ctx, sessionID, s.now().UTC())

	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidSession
		}
		return nil, fmt.Errorf("load session: %w", err)
	}

	current := &CurrentSession{
		SessionID: session.ID,
		UserID:    session.UserID,
	}

	user, err := s.users.GetByID(ctx, session.UserID)

	switch {
	case err == nil:
		current.User = user
	case errors.Is(err, repository.ErrNotFound):
		// Session stays valid; the caller renders it as logged out.
	default:
		return nil, fmt.Errorf("load session user: %w", err)
	}

	return current, nil
}

func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

package account

import (
	"context"
	"strings"
	"time"

	"github.com/oggyb/swipe-match/internal/app"
	"github.com/oggyb/swipe-match/internal/auth"
	"github.com/oggyb/swipe-match/internal/db"
	svcErr "github.com/oggyb/swipe-match/internal/errors"
	"github.com/oggyb/swipe-match/internal/repository"
	"github.com/oggyb/swipe-match/internal/utils/validate"
)

// RegisterInput is the body of POST /auth/register.
type RegisterInput struct {
	Name                 string  `json:"name" validate:"required,max=255,singleline"`
	Email                string  `json:"email" validate:"required,email,max=191"`
	Password             string  `json:"password" validate:"required,min=8"`
	PasswordConfirmation string  `json:"password_confirmation" validate:"required,eqfield=Password"`
	Age                  int     `json:"age" validate:"required,gte=18,lte=120"`
	Location             string  `json:"location" validate:"required,max=255,singleline"`
	Bio                  *string `json:"bio" validate:"omitempty,max=500"`
}

// LoginInput is the body of POST /auth/login.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Session is an authenticated user with a freshly issued token.
type Session struct {
	User      *db.User
	Token     string
	ExpiresAt time.Time
}

// Service implements registration, login and logout.
type Service struct {
	appCtx   *app.AppContext
	users    repository.UserStore
	pictures repository.PictureStore
	tokens   *auth.TokenManager
}

// NewService creates the account service with repositories built from AppContext.
func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:   appCtx,
		users:    repository.NewUserRepository(appCtx.DB),
		pictures: repository.NewPictureRepository(appCtx.DB, appCtx.Config.DB.TxRetries),
		tokens:   auth.NewTokenManager(appCtx.Config),
	}
}

// Register creates a user and signs them in.
//
// Behavior:
//   - Field rules are checked first; all failures come back in one ValidationError.
//   - Email is trimmed and lower-cased; a taken email is ErrEmailTaken.
//   - The password is stored as a bcrypt hash.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	in.Email = normalizeEmail(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	in.Location = strings.TrimSpace(in.Location)
	if err := validate.Struct(in); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &db.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Age:          in.Age,
		Location:     in.Location,
		Bio:          in.Bio,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.appCtx.Logger.Info("user registered", "user_id", user.ID)
	return s.issue(user)
}

// Login checks credentials. Unknown email and wrong password are the same
// ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, in LoginInput) (*Session, error) {
	in.Email = normalizeEmail(in.Email)
	if err := validate.Struct(in); err != nil {
		return nil, err
	}

	user, err := s.users.FindByEmail(ctx, in.Email)
	if svcErr.Is(err, svcErr.ErrNotFound) {
		return nil, svcErr.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := auth.CheckPassword(user.PasswordHash, in.Password); err != nil {
		return nil, err
	}
	return s.issue(user)
}

// Me returns the caller's own record and pictures.
func (s *Service) Me(ctx context.Context, userID uint64) (*db.User, []db.Picture, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	pics, err := s.pictures.ListByUser(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	return user, pics, nil
}

// Logout revokes the token until it would have expired anyway.
func (s *Service) Logout(ctx context.Context, claims *auth.Claims) error {
	ttl := claims.TTL(time.Now())
	if ttl <= 0 {
		return nil
	}
	return s.appCtx.RedisCache.RevokeToken(ctx, claims.ID, ttl)
}

func (s *Service) issue(user *db.User) (*Session, error) {
	token, claims, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, err
	}
	return &Session{User: user, Token: token, ExpiresAt: claims.ExpiresAt.Time}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

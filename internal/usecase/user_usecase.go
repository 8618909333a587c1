package usecase

import (
	"context"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/dpa-app/dpa-server/internal/domain"
	"github.com/dpa-app/dpa-server/internal/infrastructure/metrics"
)

// UserUseCase handles sign-up, authentication and profile management.
type UserUseCase struct {
	userRepo UserRepository
	idGen    IDGenerator
	metrics  *metrics.Metrics
}

// NewUserUseCase creates a new UserUseCase. metrics may be nil.
func NewUserUseCase(userRepo UserRepository, idGen IDGenerator, metrics *metrics.Metrics) *UserUseCase {
	return &UserUseCase{
		userRepo: userRepo,
		idGen:    idGen,
		metrics:  metrics,
	}
}

// RegisterInput represents input for creating a user.
type RegisterInput struct {
	Email    string
	Password string
}

// Register creates a new user with a hashed password.
func (uc *UserUseCase) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))

	if err := domain.ValidateEmail(email); err != nil {
		return nil, err
	}

	if err := domain.ValidatePassword(input.Password); err != nil {
		return nil, err
	}

	existing, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailTaken
	}

	hashed, err := hashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:             uc.idGen.Generate(),
		Email:          email,
		HashedPassword: hashed,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	user.HashedPassword = ""

	return user, nil
}

// Authenticate verifies credentials and returns the user.
func (uc *UserUseCase) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := uc.userRepo.GetByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		return nil, err
	}
	if user == nil {
		uc.recordAuth("failure", "unknown_email")
		return nil, domain.ErrInvalidCredentials
	}

	if err := verifyPassword(user.HashedPassword, password); err != nil {
		uc.recordAuth("failure", "wrong_password")
		return nil, domain.ErrInvalidCredentials
	}

	uc.recordAuth("success", "")
	user.HashedPassword = ""

	return user, nil
}

func (uc *UserUseCase) recordAuth(status, reason string) {
	if uc.metrics == nil {
		return
	}

	uc.metrics.AuthAttempts.WithLabelValues(status).Inc()
	if reason != "" {
		uc.metrics.AuthFailures.WithLabelValues(reason).Inc()
	}
}

// GetUser retrieves a user by ID.
func (uc *UserUseCase) GetUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := uc.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user.HashedPassword = ""

	return user, nil
}

// ChangeUsername sets a new globally-unique username. A user may change
// their username at most once every domain.UsernameCooldown.
func (uc *UserUseCase) ChangeUsername(ctx context.Context, userID, username string) (*domain.User, error) {
	if err := domain.ValidateUsername(username); err != nil {
		return nil, err
	}

	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if ok, _ := user.CanChangeUsername(now); !ok {
		return nil, domain.ErrUsernameCooldown
	}

	taken, err := uc.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if taken != nil && taken.ID != userID {
		return nil, domain.ErrUsernameTaken
	}

	user.Username = username
	user.LastUsernameChange = &now
	user.UpdatedAt = now

	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	user.HashedPassword = ""

	return user, nil
}

// SetProfilePhoto selects one of the built-in profile pictures.
func (uc *UserUseCase) SetProfilePhoto(ctx context.Context, userID string, index int) (*domain.User, error) {
	if err := domain.ValidateProfilePhoto(index); err != nil {
		return nil, err
	}

	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.ProfilePhoto = &index
	user.UpdatedAt = time.Now().UTC()

	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	user.HashedPassword = ""

	return user, nil
}

// ChangePassword replaces the password after verifying the current one.
func (uc *UserUseCase) ChangePassword(ctx context.Context, userID, current, next string) error {
	if err := domain.ValidatePassword(next); err != nil {
		return err
	}

	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := verifyPassword(user.HashedPassword, current); err != nil {
		return domain.ErrInvalidCredentials
	}

	hashed, err := hashPassword(next)
	if err != nil {
		return err
	}

	user.HashedPassword = hashed
	user.UpdatedAt = time.Now().UTC()

	return uc.userRepo.Update(ctx, user)
}

// ChangeEmail replaces the email after verifying the password.
func (uc *UserUseCase) ChangeEmail(ctx context.Context, userID, password, email string) (*domain.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	if err := domain.ValidateEmail(email); err != nil {
		return nil, err
	}

	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := verifyPassword(user.HashedPassword, password); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	taken, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if taken != nil && taken.ID != userID {
		return nil, domain.ErrEmailTaken
	}

	user.Email = email
	user.UpdatedAt = time.Now().UTC()

	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	user.HashedPassword = ""

	return user, nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	return string(hash), nil
}

func verifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

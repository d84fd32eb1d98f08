package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"wellbeing/model"
	"wellbeing/services"
	"wellbeing/utils"

	"github.com/pquerna/otp/totp"
)

const twoFactorIssuer = "FaceTheFacts"

type UserService struct {
	repo UserStore
	now  func() time.Time
}

func NewUserService(repo UserStore) *UserService {
	return &UserService{repo: repo, now: time.Now}
}

// Register creates an account with the default calibration threshold. An
// empty signature is recorded as "Not Signed".
func (s *UserService) Register(ctx context.Context, req model.RegisterRequest) (*model.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	username := strings.TrimSpace(req.Username)

	existing, err := s.repo.FindUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}
	existing, err = s.repo.FindUserByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if existing != nil {
		return nil, ErrUsernameTaken
	}

	hashed, err := services.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	signature := strings.TrimSpace(req.Signature)
	if signature == "" {
		signature = model.UnsignedConsent
	}

	now := s.now().UTC()
	user := &model.User{
		UserID:               utils.NewID(),
		Username:             username,
		Email:                email,
		Password:             hashed,
		CreatedAt:            now,
		ConsentSignature:     signature,
		ConsentDate:          now,
		CalibrationThreshold: model.DefaultCalibrationThreshold,
	}
	if err := s.repo.AddUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to add user: %w", err)
	}
	return user, nil
}

// Authenticate checks credentials and, when enabled, the TOTP code.
func (s *UserService) Authenticate(ctx context.Context, req model.LoginRequest) (*model.User, error) {
	user, err := s.repo.FindUserByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidLogin
	}

	ok, err := services.VerifyPassword(user.Password, req.Password)
	if err != nil || !ok {
		return nil, ErrInvalidLogin
	}

	if user.TwoFactorEnabled {
		if req.TwoFactorCode == "" {
			return nil, ErrTwoFactorRequired
		}
		if !totp.Validate(req.TwoFactorCode, user.TwoFactorSecret) {
			return nil, ErrInvalidTwoFactor
		}
	}
	return user, nil
}

func (s *UserService) Profile(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.repo.FindUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, userID string, req model.ProfileUpdateRequest) (*model.User, error) {
	user, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	username := strings.TrimSpace(req.Username)

	if email != user.Email {
		other, err := s.repo.FindUserByEmail(ctx, email)
		if err != nil {
			return nil, fmt.Errorf("failed to check email: %w", err)
		}
		if other != nil {
			return nil, ErrEmailTaken
		}
	}
	if username != user.Username {
		other, err := s.repo.FindUserByUsername(ctx, username)
		if err != nil {
			return nil, fmt.Errorf("failed to check username: %w", err)
		}
		if other != nil {
			return nil, ErrUsernameTaken
		}
	}

	if err := s.repo.UpdateProfile(ctx, userID, username, email); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	user.Username = username
	user.Email = email
	return user, nil
}

// SaveCalibration stores the personal blink threshold. A missing or zero
// threshold is rejected.
func (s *UserService) SaveCalibration(ctx context.Context, userID string, threshold *float64) error {
	if threshold == nil || *threshold == 0 {
		return ErrInvalidThreshold
	}
	if err := s.repo.SaveCalibration(ctx, userID, *threshold); err != nil {
		return fmt.Errorf("failed to save calibration: %w", err)
	}
	return nil
}

// TwoFactorSetup is the provisioning data shown to the user once.
type TwoFactorSetup struct {
	Secret string `json:"secret"`
	URL    string `json:"url"`
}

// SetupTwoFactor stores a fresh secret without enabling it; EnableTwoFactor
// turns it on after the user proves they can produce codes.
func (s *UserService) SetupTwoFactor(ctx context.Context, userID string) (*TwoFactorSetup, error) {
	user, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.TwoFactorEnabled {
		return nil, ErrTwoFactorState
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      twoFactorIssuer,
		AccountName: user.Email,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate two factor secret: %w", err)
	}
	if err := s.repo.SetTwoFactor(ctx, userID, key.Secret(), false); err != nil {
		return nil, fmt.Errorf("failed to store two factor secret: %w", err)
	}
	return &TwoFactorSetup{Secret: key.Secret(), URL: key.URL()}, nil
}

func (s *UserService) EnableTwoFactor(ctx context.Context, userID, code string) error {
	user, err := s.Profile(ctx, userID)
	if err != nil {
		return err
	}
	if user.TwoFactorEnabled || user.TwoFactorSecret == "" {
		return ErrTwoFactorState
	}
	if !totp.Validate(code, user.TwoFactorSecret) {
		return ErrInvalidTwoFactor
	}
	return s.repo.SetTwoFactor(ctx, userID, user.TwoFactorSecret, true)
}

func (s *UserService) DisableTwoFactor(ctx context.Context, userID, code string) error {
	user, err := s.Profile(ctx, userID)
	if err != nil {
		return err
	}
	if !user.TwoFactorEnabled {
		return ErrTwoFactorState
	}
	if !totp.Validate(code, user.TwoFactorSecret) {
		return ErrInvalidTwoFactor
	}
	return s.repo.SetTwoFactor(ctx, userID, "", false)
}

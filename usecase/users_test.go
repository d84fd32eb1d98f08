package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"wellbeing/model"

	"github.com/pquerna/otp/totp"
)

func TestRegisterDefaults(t *testing.T) {
	f := newFixture(t)
	svc := NewUserService(f.users)
	ctx := context.Background()

	user, err := svc.Register(ctx, model.RegisterRequest{
		Username: "alice",
		Email:    "Alice@Example.com",
		Password: "secret1!",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Errorf("email not normalised: %s", user.Email)
	}
	if user.ConsentSignature != model.UnsignedConsent {
		t.Errorf("signature = %q, want %q", user.ConsentSignature, model.UnsignedConsent)
	}
	if user.CalibrationThreshold != model.DefaultCalibrationThreshold || user.IsCalibrated {
		t.Errorf("calibration defaults wrong: %+v", user)
	}
	if user.Password == "secret1!" {
		t.Error("password stored in plain text")
	}

	if _, err := svc.Register(ctx, model.RegisterRequest{Username: "other", Email: "alice@example.com", Password: "secret1!"}); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("duplicate email err = %v", err)
	}
	if _, err := svc.Register(ctx, model.RegisterRequest{Username: "alice", Email: "new@example.com", Password: "secret1!"}); !errors.Is(err, ErrUsernameTaken) {
		t.Errorf("duplicate username err = %v", err)
	}
}

func TestAuthenticate(t *testing.T) {
	f := newFixture(t)
	svc := NewUserService(f.users)
	ctx := context.Background()

	if _, err := svc.Register(ctx, model.RegisterRequest{Username: "alice", Email: "alice@example.com", Password: "secret1!", Signature: "Alice A."}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	tests := []struct {
		name    string
		req     model.LoginRequest
		wantErr error
	}{
		{"valid", model.LoginRequest{Email: "alice@example.com", Password: "secret1!"}, nil},
		{"wrong password", model.LoginRequest{Email: "alice@example.com", Password: "nope"}, ErrInvalidLogin},
		{"unknown email", model.LoginRequest{Email: "bob@example.com", Password: "secret1!"}, ErrInvalidLogin},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Authenticate(ctx, tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSaveCalibration(t *testing.T) {
	f := newFixture(t)
	svc := NewUserService(f.users)
	ctx := context.Background()
	f.addUser(t, "u1", "alice")

	zero := 0.0
	if err := svc.SaveCalibration(ctx, "u1", nil); !errors.Is(err, ErrInvalidThreshold) {
		t.Errorf("nil threshold err = %v", err)
	}
	if err := svc.SaveCalibration(ctx, "u1", &zero); !errors.Is(err, ErrInvalidThreshold) {
		t.Errorf("zero threshold err = %v", err)
	}
	user, _ := f.users.FindUser(ctx, "u1")
	if user.IsCalibrated {
		t.Fatal("rejected calibration changed the user")
	}

	threshold := 0.21
	if err := svc.SaveCalibration(ctx, "u1", &threshold); err != nil {
		t.Fatalf("SaveCalibration: %v", err)
	}
	user, _ = f.users.FindUser(ctx, "u1")
	if !user.IsCalibrated || user.CalibrationThreshold != 0.21 {
		t.Errorf("calibration not stored: %+v", user)
	}
}

func TestTwoFactorFlow(t *testing.T) {
	f := newFixture(t)
	svc := NewUserService(f.users)
	ctx := context.Background()

	if _, err := svc.Register(ctx, model.RegisterRequest{Username: "alice", Email: "alice@example.com", Password: "secret1!"}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	user, _ := f.users.FindUserByEmail(ctx, "alice@example.com")

	setup, err := svc.SetupTwoFactor(ctx, user.UserID)
	if err != nil {
		t.Fatalf("SetupTwoFactor: %v", err)
	}
	if err := svc.EnableTwoFactor(ctx, user.UserID, "000000"); !errors.Is(err, ErrInvalidTwoFactor) {
		t.Errorf("bad code err = %v", err)
	}

	code, err := totp.GenerateCode(setup.Secret, time.Now())
	if err != nil {
		t.Fatalf("GenerateCode: %v", err)
	}
	if err := svc.EnableTwoFactor(ctx, user.UserID, code); err != nil {
		t.Fatalf("EnableTwoFactor: %v", err)
	}

	login := model.LoginRequest{Email: "alice@example.com", Password: "secret1!"}
	if _, err := svc.Authenticate(ctx, login); !errors.Is(err, ErrTwoFactorRequired) {
		t.Errorf("login without code err = %v", err)
	}
	login.TwoFactorCode = code
	if _, err := svc.Authenticate(ctx, login); err != nil {
		t.Errorf("login with code: %v", err)
	}

	if err := svc.DisableTwoFactor(ctx, user.UserID, code); err != nil {
		t.Fatalf("DisableTwoFactor: %v", err)
	}
	if _, err := svc.Authenticate(ctx, model.LoginRequest{Email: "alice@example.com", Password: "secret1!"}); err != nil {
		t.Errorf("login after disable: %v", err)
	}
}

func TestLoginSessionLimit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewLoginSessionService(f.logins, 2, time.Hour)

	var first string
	for i := 0; i < 3; i++ {
		s, err := svc.Open(ctx, "u1", "", "127.0.0.1")
		if err != nil {
			t.Fatalf("Open: %v", err)
		}
		if i == 0 {
			first = s.SessionID
		}
		time.Sleep(2 * time.Millisecond)
	}

	active, _ := svc.Active(ctx, "u1")
	if len(active) != 2 {
		t.Fatalf("active sessions = %d, want 2", len(active))
	}
	if svc.Validate(ctx, first) {
		t.Error("oldest session should have been ended")
	}

	if err := svc.EndAll(ctx, "u1"); err != nil {
		t.Fatalf("EndAll: %v", err)
	}
	active, _ = svc.Active(ctx, "u1")
	if len(active) != 0 {
		t.Errorf("sessions left after EndAll: %d", len(active))
	}
}

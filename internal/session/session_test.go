package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/steemit/condenser/internal/models"
	"github.com/steemit/condenser/pkg/config"
)

func testConfig() *config.SessionConfig {
	return &config.SessionConfig{KeyPrefix: "test:session", TTL: time.Hour}
}

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return tok
}

func TestSignInFiresResetOnIdentityChange(t *testing.T) {
	m := NewManager(testConfig(), nil)

	resets := 0
	m.OnReset(func() { resets++ })

	if err := m.SignIn("tok-a", models.User{ID: 1, Username: "alice"}); err != nil {
		t.Fatalf("SignIn(alice) error: %v", err)
	}
	if resets != 1 {
		t.Errorf("resets after first sign-in = %d, want 1", resets)
	}

	// Same identity again: no reset
	if err := m.SignIn("tok-a2", models.User{ID: 1, Username: "alice"}); err != nil {
		t.Fatalf("SignIn(alice again) error: %v", err)
	}
	if resets != 1 {
		t.Errorf("resets after re-sign-in = %d, want 1", resets)
	}

	// Switching accounts clears the previous user's state
	if err := m.SignIn("tok-b", models.User{ID: 2, Username: "bob"}); err != nil {
		t.Fatalf("SignIn(bob) error: %v", err)
	}
	if resets != 2 {
		t.Errorf("resets after account switch = %d, want 2", resets)
	}

	if u := m.CurrentUser(); u == nil || u.ID != 2 {
		t.Errorf("CurrentUser() = %+v, want id 2", u)
	}
}

func TestSignOut(t *testing.T) {
	m := NewManager(testConfig(), nil)

	resets := 0
	m.OnReset(func() { resets++ })

	if err := m.SignIn("tok", models.User{ID: 1, Username: "alice"}); err != nil {
		t.Fatalf("SignIn error: %v", err)
	}
	m.SignOut()

	if m.SignedIn() {
		t.Error("SignedIn() = true after SignOut")
	}
	if m.Token() != "" {
		t.Error("Token() should be empty after SignOut")
	}
	if resets != 2 { // one for sign-in identity change, one for sign-out
		t.Errorf("resets = %d, want 2", resets)
	}
}

func TestSignInDerivesIdentityFromToken(t *testing.T) {
	m := NewManager(testConfig(), nil)

	tok := signedToken(t, jwt.MapClaims{"user_id": float64(42), "exp": time.Now().Add(time.Hour).Unix()})
	if err := m.SignIn(tok, models.User{Username: "carol"}); err != nil {
		t.Fatalf("SignIn error: %v", err)
	}

	u := m.CurrentUser()
	if u == nil || u.ID != 42 {
		t.Errorf("CurrentUser() = %+v, want id 42", u)
	}
}

func TestUserIDFromToken(t *testing.T) {
	tests := []struct {
		name    string
		claims  jwt.MapClaims
		want    int64
		wantErr bool
	}{
		{"numeric user_id", jwt.MapClaims{"user_id": float64(7)}, 7, false},
		{"string user_id", jwt.MapClaims{"user_id": "9"}, 9, false},
		{"subject fallback", jwt.MapClaims{"sub": "13"}, 13, false},
		{"no identity", jwt.MapClaims{"foo": "bar"}, 0, true},
		{"non-numeric subject", jwt.MapClaims{"sub": "alice"}, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok := signedToken(t, tt.claims)
			got, err := UserIDFromToken(tok)
			if (err != nil) != tt.wantErr {
				t.Fatalf("UserIDFromToken() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("UserIDFromToken() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestUserIDFromGarbageToken(t *testing.T) {
	if _, err := UserIDFromToken("not-a-jwt"); err == nil {
		t.Error("expected error for malformed token")
	}
}

func TestRestoreWithoutStore(t *testing.T) {
	m := NewManager(testConfig(), nil)
	if err := m.Restore(); err != nil {
		t.Errorf("Restore() with disabled cache should be a no-op, got: %v", err)
	}
	if m.SignedIn() {
		t.Error("SignedIn() = true after empty restore")
	}
}

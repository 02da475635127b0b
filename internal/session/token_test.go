package session

import (
	"errors"
	"strings"
	"testing"

	"github.com/entnt-dental/clinic-service/internal/store"
)

func TestCodec_MintParseRoundTrip(t *testing.T) {
	codec := NewCodecWithKey([]byte("test-key"))

	in := Principal{
		UserID:    "2",
		Role:      store.RolePatient,
		Email:     "john@entnt.in",
		PatientID: "p1",
	}
	token, err := codec.Mint(in)
	if err != nil {
		t.Fatalf("Mint failed: %v", err)
	}

	out, err := codec.Parse(token)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if *out != in {
		t.Errorf("Round trip mismatch: got %+v, want %+v", *out, in)
	}
}

func TestCodec_AdminHasNoPatientID(t *testing.T) {
	codec := NewCodecWithKey([]byte("test-key"))

	token, err := codec.Mint(Principal{UserID: "1", Role: store.RoleAdmin, Email: "admin@entnt.in"})
	if err != nil {
		t.Fatalf("Mint failed: %v", err)
	}
	out, err := codec.Parse(token)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if out.PatientID != "" {
		t.Errorf("Expected empty PatientID, got %q", out.PatientID)
	}
}

func TestCodec_RejectsBadTokens(t *testing.T) {
	codec := NewCodecWithKey([]byte("test-key"))
	other := NewCodecWithKey([]byte("other-key"))

	valid, err := codec.Mint(Principal{UserID: "1", Role: store.RoleAdmin, Email: "admin@entnt.in"})
	if err != nil {
		t.Fatalf("Mint failed: %v", err)
	}

	testCases := []struct {
		name    string
		token   string
		wantErr error
	}{
		{name: "empty", token: "", wantErr: ErrNoToken},
		{name: "garbage", token: "not.a.token", wantErr: ErrInvalidToken},
		{name: "tampered payload", token: tamper(valid), wantErr: ErrInvalidToken},
		{name: "wrong key", token: mustMint(t, other), wantErr: ErrInvalidToken},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := codec.Parse(tc.token); !errors.Is(err, tc.wantErr) {
				t.Errorf("Parse() error = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func mustMint(t *testing.T, c *Codec) string {
	t.Helper()
	token, err := c.Mint(Principal{UserID: "1", Role: store.RoleAdmin, Email: "admin@entnt.in"})
	if err != nil {
		t.Fatalf("Mint failed: %v", err)
	}
	return token
}

// tamper flips a character in the payload segment so the signature no
// longer matches.
func tamper(token string) string {
	parts := strings.Split(token, ".")
	payload := []byte(parts[1])
	if payload[0] == 'A' {
		payload[0] = 'B'
	} else {
		payload[0] = 'A'
	}
	parts[1] = string(payload)
	return strings.Join(parts, ".")
}

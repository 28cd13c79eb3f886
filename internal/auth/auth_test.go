package auth

import (
	"errors"
	"testing"
	"time"
)

var testUser = User{
	Name:       "A Teacher",
	Email:      "teacher@x.edu",
	Role:       RoleFaculty,
	Department: "Computer Engineering",
}

func TestIssueParseRoundtrip(t *testing.T) {
	tokens, err := Issue(testUser, "classtrack", "secret", time.Minute, time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	claims, err := Parse(tokens.AccessToken, "secret", "classtrack")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.Email != testUser.Email || claims.Role != RoleFaculty || claims.Department != testUser.Department {
		t.Errorf("claims = %+v, want user fields carried through", claims)
	}
}

func TestParseRejectsIssuerAndKeyMismatch(t *testing.T) {
	tokens, err := Issue(testUser, "classtrack", "secret", time.Minute, time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := Parse(tokens.AccessToken, "secret", "someone-else"); err == nil {
		t.Error("issuer mismatch accepted")
	}
	if _, err := Parse(tokens.AccessToken, "wrong-key", "classtrack"); err == nil {
		t.Error("wrong signing key accepted")
	}
}

func TestRegistryAuthenticate(t *testing.T) {
	r := NewRegistry()
	if err := r.Add(testUser, "pw"); err != nil {
		t.Fatalf("Add: %v", err)
	}

	if _, err := r.Authenticate("teacher@x.edu", "pw"); err != nil {
		t.Errorf("valid login: %v", err)
	}
	if _, err := r.Authenticate("teacher@x.edu", "nope"); !errors.Is(err, ErrBadCredentials) {
		t.Errorf("wrong password = %v, want ErrBadCredentials", err)
	}
	if _, err := r.Authenticate("ghost@x.edu", "pw"); !errors.Is(err, ErrBadCredentials) {
		t.Errorf("unknown email = %v, want ErrBadCredentials", err)
	}

	if err := r.Add(testUser, "pw2"); !errors.Is(err, ErrDuplicateEmail) {
		t.Errorf("duplicate email = %v, want ErrDuplicateEmail", err)
	}
}

func TestRegistryBlocking(t *testing.T) {
	r := NewRegistry()
	if err := r.Add(testUser, "pw"); err != nil {
		t.Fatalf("Add: %v", err)
	}

	if err := r.SetBlocked(testUser.Email, true); err != nil {
		t.Fatalf("SetBlocked: %v", err)
	}
	if _, err := r.Authenticate(testUser.Email, "pw"); !errors.Is(err, ErrBlocked) {
		t.Errorf("blocked login = %v, want ErrBlocked", err)
	}

	if err := r.SetBlocked(testUser.Email, false); err != nil {
		t.Fatalf("unblock: %v", err)
	}
	if _, err := r.Authenticate(testUser.Email, "pw"); err != nil {
		t.Errorf("unblocked login: %v", err)
	}
}

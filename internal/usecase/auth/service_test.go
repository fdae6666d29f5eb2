package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/topicd/internal/domain"
)

// --- Mocks ---

type mockVerifier struct {
	tokens map[string]domain.Claims
	err    error
	calls  int
}

func (m *mockVerifier) VerifyIDToken(_ context.Context, token string) (domain.Claims, error) {
	m.calls++
	if m.err != nil {
		return domain.Claims{}, m.err
	}
	c, ok := m.tokens[token]
	if !ok {
		return domain.Claims{}, errors.New("signature mismatch")
	}
	return c, nil
}

// --- Tests ---

func TestVerify_EmptyToken(t *testing.T) {
	mv := &mockVerifier{}
	svc := New(mv)

	_, err := svc.Verify(context.Background(), "")
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if mv.calls != 0 {
		t.Errorf("provider must not be called for an empty token, got %d calls", mv.calls)
	}
}

func TestVerify_ValidToken(t *testing.T) {
	svc := New(&mockVerifier{tokens: map[string]domain.Claims{
		"good": {Subject: "uid-1", Issuer: "https://securetoken.google.com/p"},
	}})

	claims, err := svc.Verify(context.Background(), "good")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.Subject != "uid-1" {
		t.Errorf("subject: got %q", claims.Subject)
	}
}

func TestVerify_FailuresAreIndistinguishable(t *testing.T) {
	causes := []error{
		errors.New("ID token has expired"),
		errors.New("failed to verify token signature"),
		errors.New("incorrect number of segments"),
		context.DeadlineExceeded,
	}

	for _, cause := range causes {
		svc := New(&mockVerifier{err: cause})
		_, err := svc.Verify(context.Background(), "some-token")
		if err != domain.ErrUnauthorized {
			t.Errorf("cause %q: expected bare ErrUnauthorized, got %v", cause, err)
		}
	}
}

func TestVerify_GarbageMatchesEmpty(t *testing.T) {
	svc := New(&mockVerifier{})

	_, errEmpty := svc.Verify(context.Background(), "")
	_, errGarbage := svc.Verify(context.Background(), "garbage")
	if errEmpty != errGarbage {
		t.Errorf("empty and garbage tokens must yield the same outcome: %v vs %v", errEmpty, errGarbage)
	}
}

func TestVerify_ClaimsWithoutSubject(t *testing.T) {
	svc := New(&mockVerifier{tokens: map[string]domain.Claims{"anon": {}}})

	_, err := svc.Verify(context.Background(), "anon")
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

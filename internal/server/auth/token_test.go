package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/mediatube/accounts/internal/common"
)

func newTestCodec() *Codec {
	return NewCodec([]byte("access-secret"), []byte("refresh-secret"), time.Hour, 2*time.Hour)
}

func TestMintAndVerify_Access(t *testing.T) {
	t.Parallel()

	c := newTestCodec()

	tok, err := c.MintAccess("user-123")
	if err != nil {
		t.Fatalf("MintAccess error: %v", err)
	}

	userID, err := c.Verify(tok, PurposeAccess)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if userID != "user-123" {
		t.Fatalf("userID mismatch: got %q want %q", userID, "user-123")
	}
}

func TestMintAndVerify_Refresh(t *testing.T) {
	t.Parallel()

	c := newTestCodec()

	tok, err := c.MintRefresh("user-456")
	if err != nil {
		t.Fatalf("MintRefresh error: %v", err)
	}

	userID, err := c.Verify(tok, PurposeRefresh)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if userID != "user-456" {
		t.Fatalf("userID mismatch: got %q want %q", userID, "user-456")
	}
}

func TestVerify_Expired(t *testing.T) {
	t.Parallel()

	c := NewCodec([]byte("a"), []byte("r"), -1*time.Second, -1*time.Second)

	tok, err := c.MintAccess("u1")
	if err != nil {
		t.Fatalf("MintAccess error: %v", err)
	}

	_, err = c.Verify(tok, PurposeAccess)
	if !errors.Is(err, common.ErrTokenExpired) {
		t.Fatalf("expected common.ErrTokenExpired, got %v", err)
	}
}

func TestVerify_CrossPurposeRejected(t *testing.T) {
	t.Parallel()

	c := newTestCodec()

	access, err := c.MintAccess("u2")
	if err != nil {
		t.Fatalf("MintAccess error: %v", err)
	}
	refresh, err := c.MintRefresh("u2")
	if err != nil {
		t.Fatalf("MintRefresh error: %v", err)
	}

	if _, err := c.Verify(access, PurposeRefresh); !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("access token accepted as refresh: %v", err)
	}
	if _, err := c.Verify(refresh, PurposeAccess); !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("refresh token accepted as access: %v", err)
	}
}

func TestVerify_TypeTagRejectedEvenWithSharedSecret(t *testing.T) {
	t.Parallel()

	// same secret for both purposes: only the token_type tag can tell them
	// apart, so this exercises the defense-in-depth check
	c := NewCodec([]byte("shared"), []byte("shared"), time.Hour, time.Hour)

	refresh, err := c.MintRefresh("u3")
	if err != nil {
		t.Fatalf("MintRefresh error: %v", err)
	}

	if _, err := c.Verify(refresh, PurposeAccess); !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("refresh token accepted as access despite type tag: %v", err)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	t.Parallel()

	c := newTestCodec()
	other := NewCodec([]byte("different"), []byte("secrets"), time.Hour, time.Hour)

	tok, err := c.MintAccess("u4")
	if err != nil {
		t.Fatalf("MintAccess error: %v", err)
	}

	if _, err := other.Verify(tok, PurposeAccess); !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected common.ErrInvalidToken, got %v", err)
	}
}

func TestVerify_Malformed(t *testing.T) {
	t.Parallel()

	c := newTestCodec()

	if _, err := c.Verify("not.a.jwt", PurposeAccess); !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected common.ErrInvalidToken, got %v", err)
	}
	if _, err := c.Verify("", PurposeAccess); !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected common.ErrInvalidToken for empty token, got %v", err)
	}
}

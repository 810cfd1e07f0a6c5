package auth

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/geocoder89/homage/internal/domain/token"
	"github.com/geocoder89/homage/internal/domain/user"
	"go.opentelemetry.io/otel/attribute"
)

const (
	secretLength   = 40
	secretAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

type TokenStore struct {
	tokens TokenRepository
	users  UserFinder
	key    []byte
	now    func() time.Time

	// compared against when no row exists so lookups cost the same
	dummyHash string
}

func NewTokenStore(tokens TokenRepository, users UserFinder, hashKey string) *TokenStore {
	s := &TokenStore{
		tokens: tokens,
		users:  users,
		key:    []byte(hashKey),
		now:    func() time.Time { return time.Now().UTC() },
	}
	s.dummyHash = s.hash("dummy-secret-for-missing-rows")

	return s
}

// Issue creates a token for u labelled with deviceLabel and returns its
// plaintext form. The plaintext is never retrievable again.
func (s *TokenStore) Issue(ctx context.Context, u user.User, deviceLabel string) (string, error) {
	ctx, span := tracer.Start(ctx, "auth.IssueToken")
	defer span.End()
	span.SetAttributes(attribute.Int64("user.id", u.ID))

	secret, err := randomSecret(secretLength)
	if err != nil {
		return "", fmt.Errorf("generate token secret: %w", err)
	}

	row, err := s.tokens.Create(ctx, token.Token{
		UserID:    u.ID,
		Name:      deviceLabel,
		TokenHash: s.hash(secret),
		CreatedAt: s.now(),
	})
	if err != nil {
		return "", fmt.Errorf("store token: %w", err)
	}

	return token.Format(row.ID, secret), nil
}

// Resolve maps a presented bearer token to its owning user.
func (s *TokenStore) Resolve(ctx context.Context, presented string) (user.User, error) {
	ctx, span := tracer.Start(ctx, "auth.ResolveToken")
	defer span.End()

	id, secret, hasID, ok := token.Split(presented)
	if !ok {
		_ = hmac.Equal([]byte(s.dummyHash), []byte(s.hash(presented)))
		return user.User{}, ErrUnauthenticated
	}

	hash := s.hash(secret)

	var (
		row token.Token
		err error
	)

	if hasID {
		row, err = s.tokens.GetByID(ctx, id)
	} else {
		row, err = s.tokens.GetByHash(ctx, hash)
	}

	if err != nil {
		if !errors.Is(err, token.ErrNotFound) {
			return user.User{}, fmt.Errorf("load token: %w", err)
		}
		row.TokenHash = s.dummyHash
		row.ID = 0
	}

	if !hmac.Equal([]byte(row.TokenHash), []byte(hash)) || row.ID == 0 {
		return user.User{}, ErrUnauthenticated
	}

	if err := s.tokens.TouchLastUsed(ctx, row.ID, s.now()); err != nil {
		slog.Default().WarnContext(ctx, "token_touch_failed", "token_id", row.ID, "err", err)
	}

	u, err := s.users.FindByID(ctx, row.UserID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.User{}, ErrUnauthenticated
		}
		return user.User{}, fmt.Errorf("load token owner: %w", err)
	}

	span.SetAttributes(attribute.Int64("user.id", u.ID))

	return u, nil
}

// RevokeAll deletes every token belonging to userID and reports how many
// were removed.
func (s *TokenStore) RevokeAll(ctx context.Context, userID int64) (int64, error) {
	ctx, span := tracer.Start(ctx, "auth.RevokeAllTokens")
	defer span.End()
	span.SetAttributes(attribute.Int64("user.id", userID))

	n, err := s.tokens.DeleteAllForUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("revoke tokens: %w", err)
	}

	return n, nil
}

// Deterministic HMAC hash keyed by the server-side secret.
func (s *TokenStore) hash(secret string) string {
	h := hmac.New(sha256.New, s.key)
	h.Write([]byte(secret))
	return hex.EncodeToString(h.Sum(nil))
}

func randomSecret(n int) (string, error) {
	max := big.NewInt(int64(len(secretAlphabet)))
	out := make([]byte, n)

	for i := range out {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = secretAlphabet[idx.Int64()]
	}

	return string(out), nil
}

package services

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/crypto/bcrypt"

	"alfredoptarigan/cv-coach/internal/models"
	"alfredoptarigan/cv-coach/internal/repositories"
	"alfredoptarigan/cv-coach/internal/testhelpers"
)

func newAuthForTest(t *testing.T) (*authService, repositories.CandidateRepository) {
	t.Helper()
	db := testhelpers.SetupTestDB(t)
	repo := repositories.NewCandidateRepository(db)
	return NewAuthService(repo, "test-secret", time.Hour, zaptest.NewLogger(t)).(*authService), repo
}

func registerRequest(email string) *models.RegisterRequest {
	return &models.RegisterRequest{
		Name:            "Ana Torres",
		Email:           email,
		Password:        "Sup3rSecret",
		ConfirmPassword: "Sup3rSecret",
	}
}

func TestRegister(t *testing.T) {
	auth, repo := newAuthForTest(t)

	candidate, err := auth.Register(registerRequest("Ana@Example.com "))
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", candidate.Email)

	stored, err := repo.FindByEmail("ana@example.com")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("Sup3rSecret")))

	_, err = auth.Register(registerRequest("ANA@example.com"))
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegister_PasswordMismatch(t *testing.T) {
	auth, _ := newAuthForTest(t)

	req := registerRequest("ana@example.com")
	req.ConfirmPassword = "different"

	_, err := auth.Register(req)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "confirm_password")
}

func TestRegister_PasswordLongerThanBcryptAccepts(t *testing.T) {
	auth, repo := newAuthForTest(t)

	// "ñ" is two bytes, so 40 of them pass a rune-counted max=72 but not bcrypt
	for _, password := range []string{strings.Repeat("a", 80), strings.Repeat("ñ", 40)} {
		req := registerRequest("ana@example.com")
		req.Password = password
		req.ConfirmPassword = password

		_, err := auth.Register(req)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "max", verr.Fields["password"])
	}

	_, err := repo.FindByEmail("ana@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRefresh(t *testing.T) {
	auth, _ := newAuthForTest(t)
	candidate, err := auth.Register(registerRequest("ana@example.com"))
	require.NoError(t, err)

	issued := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	auth.now = func() time.Time { return issued }
	first, err := auth.Login(&models.LoginRequest{Email: "ana@example.com", Password: "Sup3rSecret"})
	require.NoError(t, err)

	auth.now = func() time.Time { return issued.Add(30 * time.Minute) }
	refreshed, err := auth.Refresh(candidate.ID)
	require.NoError(t, err)
	assert.NotEqual(t, first.AccessToken, refreshed.AccessToken)

	// the first token has expired by now, the refreshed one has not
	auth.now = func() time.Time { return issued.Add(75 * time.Minute) }
	_, err = auth.ParseToken(first.AccessToken)
	assert.ErrorIs(t, err, ErrUnauthorized)
	id, err := auth.ParseToken(refreshed.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, candidate.ID, id)

	_, err = auth.Refresh(uuid.New())
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestLoginAndParseToken(t *testing.T) {
	auth, repo := newAuthForTest(t)
	candidate, err := auth.Register(registerRequest("ana@example.com"))
	require.NoError(t, err)

	resp, err := auth.Login(&models.LoginRequest{Email: "ana@example.com", Password: "Sup3rSecret"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, int64(3600), resp.ExpiresIn)
	assert.Equal(t, candidate.ID.String(), resp.CandidateID)

	id, err := auth.ParseToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, candidate.ID, id)

	stored, err := repo.FindByID(candidate.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored.LastLoginAt)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	auth, _ := newAuthForTest(t)
	_, err := auth.Register(registerRequest("ana@example.com"))
	require.NoError(t, err)

	_, err = auth.Login(&models.LoginRequest{Email: "ana@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = auth.Login(&models.LoginRequest{Email: "nobody@example.com", Password: "Sup3rSecret"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestParseToken_Rejects(t *testing.T) {
	auth, _ := newAuthForTest(t)
	id := uuid.New()

	sign := func(method jwt.SigningMethod, key interface{}, claims jwt.MapClaims) string {
		signed, err := jwt.NewWithClaims(method, claims).SignedString(key)
		require.NoError(t, err)
		return signed
	}

	tests := map[string]string{
		"garbage":       "not-a-token",
		"wrong secret":  sign(jwt.SigningMethodHS256, []byte("other"), jwt.MapClaims{"sub": id.String(), "exp": time.Now().Add(time.Hour).Unix()}),
		"expired":       sign(jwt.SigningMethodHS256, []byte("test-secret"), jwt.MapClaims{"sub": id.String(), "exp": time.Now().Add(-time.Hour).Unix()}),
		"no expiry":     sign(jwt.SigningMethodHS256, []byte("test-secret"), jwt.MapClaims{"sub": id.String()}),
		"non uuid sub":  sign(jwt.SigningMethodHS256, []byte("test-secret"), jwt.MapClaims{"sub": "42", "exp": time.Now().Add(time.Hour).Unix()}),
		"none alg":      sign(jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, jwt.MapClaims{"sub": id.String(), "exp": time.Now().Add(time.Hour).Unix()}),
	}

	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := auth.ParseToken(token)
			assert.ErrorIs(t, err, ErrUnauthorized)
		})
	}
}

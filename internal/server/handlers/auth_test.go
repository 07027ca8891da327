package handlers

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/razetka2010/telegram-password-manager/internal/models"
	"github.com/razetka2010/telegram-password-manager/internal/server/session"
	"github.com/razetka2010/telegram-password-manager/internal/server/storage"
	"github.com/razetka2010/telegram-password-manager/pkg/api"
)

const testBotToken = "123456:TEST_TOKEN"

// mockUserStorage is a mock implementation of UserStorage for testing
type mockUserStorage struct {
	users       map[int64]*models.User // telegram_id -> User
	nextID      int64
	upsertError error
	lookupError error
}

func newMockUserStorage() *mockUserStorage {
	return &mockUserStorage{users: make(map[int64]*models.User)}
}

func (m *mockUserStorage) UpsertUser(ctx context.Context, user *models.User) (*models.User, error) {
	if m.upsertError != nil {
		return nil, m.upsertError
	}
	existing, ok := m.users[user.TelegramID]
	if ok {
		existing.Username = user.Username
		existing.FirstName = user.FirstName
		existing.LastName = user.LastName
		existing.IsPremium = user.IsPremium
		return existing, nil
	}
	m.nextID++
	stored := *user
	stored.ID = m.nextID
	stored.CreatedAt = time.Now()
	m.users[user.TelegramID] = &stored
	return &stored, nil
}

func (m *mockUserStorage) GetUserByID(ctx context.Context, userID int64) (*models.User, error) {
	for _, u := range m.users {
		if u.ID == userID {
			return u, nil
		}
	}
	return nil, storage.ErrUserNotFound
}

func (m *mockUserStorage) LookupSession(ctx context.Context, userID, telegramID int64) (*models.User, error) {
	if m.lookupError != nil {
		return nil, m.lookupError
	}
	u, ok := m.users[telegramID]
	if !ok || u.ID != userID {
		return nil, storage.ErrUserNotFound
	}
	return u, nil
}

// mockAuthLogStorage is a mock implementation of AuthLogStorage for testing
type mockAuthLogStorage struct {
	logError error
	entries  []int64 // user IDs of logged authentications
}

func (m *mockAuthLogStorage) LogAuth(ctx context.Context, userID int64, ipAddress, userAgent string) error {
	if m.logError != nil {
		return m.logError
	}
	m.entries = append(m.entries, userID)
	return nil
}

// signInitData собирает валидную строку initData с корректной подписью
func signInitData(t *testing.T, botToken string, fields map[string]string) string {
	t.Helper()

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+fields[k])
	}

	mac := hmac.New(sha256.New, []byte("WebAppData"))
	mac.Write([]byte(botToken))
	secretKey := mac.Sum(nil)

	mac = hmac.New(sha256.New, secretKey)
	mac.Write([]byte(strings.Join(pairs, "\n")))
	hash := hex.EncodeToString(mac.Sum(nil))

	values := url.Values{}
	for k, v := range fields {
		values.Set(k, v)
	}
	values.Set("hash", hash)

	return values.Encode()
}

func telegramFields(telegramID int64, premium bool) map[string]string {
	return map[string]string{
		"user": fmt.Sprintf(
			`{"id":%d,"first_name":"Alice","username":"alice","language_code":"ru","is_premium":%t}`,
			telegramID, premium),
		"auth_date": fmt.Sprintf("%d", time.Now().Unix()),
		"query_id":  "AAH_test_query",
	}
}

func setupAuthHandler(t *testing.T, users *mockUserStorage, authLogs *mockAuthLogStorage, cfg AuthConfig) *AuthHandler {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sessions := session.NewService(users, nil, 7*24*time.Hour)
	return NewAuthHandler(logger, users, authLogs, sessions, cfg)
}

func doAuth(t *testing.T, h *AuthHandler, body any) *httptest.ResponseRecorder {
	t.Helper()

	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/auth", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.Authenticate(rec, req)
	return rec
}

func TestAuthenticate_Success(t *testing.T) {
	users := newMockUserStorage()
	authLogs := &mockAuthLogStorage{}
	h := setupAuthHandler(t, users, authLogs, AuthConfig{BotToken: testBotToken})

	initData := signInitData(t, testBotToken, telegramFields(111, false))
	rec := doAuth(t, h, api.AuthRequest{InitData: initData})

	require.Equal(t, http.StatusOK, rec.Code)

	var resp api.AuthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))

	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.SessionToken)
	assert.Equal(t, int64(111), resp.User.TelegramID)
	assert.Equal(t, "alice", resp.User.Username)
	assert.True(t, resp.Permissions.CanAdd)
	assert.True(t, resp.Permissions.CanDelete)
	assert.Equal(t, models.MaxPasswordsStandard, resp.Permissions.MaxPasswords)

	// аудит-запись создана
	require.Len(t, authLogs.entries, 1)
	assert.Equal(t, resp.User.ID, authLogs.entries[0])
}

func TestAuthenticate_PremiumQuota(t *testing.T) {
	users := newMockUserStorage()
	h := setupAuthHandler(t, users, &mockAuthLogStorage{}, AuthConfig{BotToken: testBotToken})

	initData := signInitData(t, testBotToken, telegramFields(222, true))
	rec := doAuth(t, h, api.AuthRequest{InitData: initData})

	require.Equal(t, http.StatusOK, rec.Code)

	var resp api.AuthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, models.MaxPasswordsPremium, resp.Permissions.MaxPasswords)
}

func TestAuthenticate_RepeatUpdatesProfile(t *testing.T) {
	users := newMockUserStorage()
	h := setupAuthHandler(t, users, &mockAuthLogStorage{}, AuthConfig{BotToken: testBotToken})

	first := doAuth(t, h, api.AuthRequest{
		InitData: signInitData(t, testBotToken, telegramFields(333, false)),
	})
	require.Equal(t, http.StatusOK, first.Code)

	fields := telegramFields(333, false)
	fields["user"] = `{"id":333,"first_name":"Alice","username":"alice_new"}`
	second := doAuth(t, h, api.AuthRequest{
		InitData: signInitData(t, testBotToken, fields),
	})
	require.Equal(t, http.StatusOK, second.Code)

	var firstResp, secondResp api.AuthResponse
	require.NoError(t, json.NewDecoder(first.Body).Decode(&firstResp))
	require.NoError(t, json.NewDecoder(second.Body).Decode(&secondResp))

	// та же учетная запись, обновленный профиль
	assert.Equal(t, firstResp.User.ID, secondResp.User.ID)
	assert.Equal(t, "alice_new", secondResp.User.Username)
}

func TestAuthenticate_InvalidSignature(t *testing.T) {
	h := setupAuthHandler(t, newMockUserStorage(), &mockAuthLogStorage{}, AuthConfig{BotToken: testBotToken})

	// подписано другим ботом
	initData := signInitData(t, "999:OTHER_TOKEN", telegramFields(111, false))
	rec := doAuth(t, h, api.AuthRequest{InitData: initData})

	require.Equal(t, http.StatusUnauthorized, rec.Code)

	var resp api.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.False(t, resp.Success)
	assert.Equal(t, api.ReasonInvalidAssertion, resp.Reason)
}

func TestAuthenticate_StaleInitData(t *testing.T) {
	h := setupAuthHandler(t, newMockUserStorage(), &mockAuthLogStorage{}, AuthConfig{
		BotToken:       testBotToken,
		MaxInitDataAge: time.Hour,
	})

	fields := telegramFields(111, false)
	fields["auth_date"] = fmt.Sprintf("%d", time.Now().Add(-2*time.Hour).Unix())
	rec := doAuth(t, h, api.AuthRequest{InitData: signInitData(t, testBotToken, fields)})

	require.Equal(t, http.StatusUnauthorized, rec.Code)

	var resp api.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, api.ReasonStaleAssertion, resp.Reason)
}

func TestAuthenticate_MissingInitData(t *testing.T) {
	h := setupAuthHandler(t, newMockUserStorage(), &mockAuthLogStorage{}, AuthConfig{BotToken: testBotToken})

	rec := doAuth(t, h, api.AuthRequest{InitData: ""})

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp api.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, api.ReasonValidation, resp.Reason)
}

func TestAuthenticate_InvalidBody(t *testing.T) {
	h := setupAuthHandler(t, newMockUserStorage(), &mockAuthLogStorage{}, AuthConfig{BotToken: testBotToken})

	req := httptest.NewRequest(http.MethodPost, "/api/auth", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	h.Authenticate(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthenticate_MissingUserField(t *testing.T) {
	h := setupAuthHandler(t, newMockUserStorage(), &mockAuthLogStorage{}, AuthConfig{BotToken: testBotToken})

	fields := telegramFields(111, false)
	delete(fields, "user")
	rec := doAuth(t, h, api.AuthRequest{InitData: signInitData(t, testBotToken, fields)})

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp api.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, api.ReasonValidation, resp.Reason)
}

func TestAuthenticate_StorageError(t *testing.T) {
	users := newMockUserStorage()
	users.upsertError = errors.New("disk full")
	h := setupAuthHandler(t, users, &mockAuthLogStorage{}, AuthConfig{BotToken: testBotToken})

	rec := doAuth(t, h, api.AuthRequest{
		InitData: signInitData(t, testBotToken, telegramFields(111, false)),
	})

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp api.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, api.ReasonUnavailable, resp.Reason)
}

func TestAuthenticate_AuthLogFailureIsNotFatal(t *testing.T) {
	authLogs := &mockAuthLogStorage{logError: errors.New("log table locked")}
	h := setupAuthHandler(t, newMockUserStorage(), authLogs, AuthConfig{BotToken: testBotToken})

	rec := doAuth(t, h, api.AuthRequest{
		InitData: signInitData(t, testBotToken, telegramFields(111, false)),
	})

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthenticate_InsecureSkipValidation(t *testing.T) {
	h := setupAuthHandler(t, newMockUserStorage(), &mockAuthLogStorage{}, AuthConfig{
		InsecureSkipValidation: true,
	})

	// без подписи вообще, только данные
	values := url.Values{}
	values.Set("user", `{"id":444,"first_name":"Bob"}`)
	values.Set("auth_date", fmt.Sprintf("%d", time.Now().Unix()))

	rec := doAuth(t, h, api.AuthRequest{InitData: values.Encode()})

	require.Equal(t, http.StatusOK, rec.Code)

	var resp api.AuthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, int64(444), resp.User.TelegramID)
}

func TestAuthenticate_DebugFieldOnlyInDevMode(t *testing.T) {
	initData := signInitData(t, "999:OTHER_TOKEN", telegramFields(111, false))

	t.Run("dev mode exposes debug", func(t *testing.T) {
		h := setupAuthHandler(t, newMockUserStorage(), &mockAuthLogStorage{}, AuthConfig{
			BotToken: testBotToken,
			DevMode:  true,
		})
		rec := doAuth(t, h, api.AuthRequest{InitData: initData})

		var resp api.ErrorResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.NotEmpty(t, resp.Debug)
	})

	t.Run("production hides debug", func(t *testing.T) {
		h := setupAuthHandler(t, newMockUserStorage(), &mockAuthLogStorage{}, AuthConfig{
			BotToken: testBotToken,
		})
		rec := doAuth(t, h, api.AuthRequest{InitData: initData})

		var resp api.ErrorResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Empty(t, resp.Debug)
	})
}

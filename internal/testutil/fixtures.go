package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/johe/social-app/internal/domain"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserBuilder creates test users with a builder pattern
type UserBuilder struct {
	email    string
	username string
	password string
	role     domain.Role
}

// NewUserBuilder creates a new UserBuilder with default values
func NewUserBuilder() *UserBuilder {
	suffix := uuid.New().String()[:8]
	return &UserBuilder{
		email:    fmt.Sprintf("testuser_%s@example.com", suffix),
		username: fmt.Sprintf("testuser_%s", suffix),
		password: "testpassword123",
		role:     domain.RoleMember,
	}
}

// WithEmail sets the email
func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.email = email
	return b
}

// WithUsername sets the username
func (b *UserBuilder) WithUsername(username string) *UserBuilder {
	b.username = username
	return b
}

// WithPassword sets the password
func (b *UserBuilder) WithPassword(password string) *UserBuilder {
	b.password = password
	return b
}

// WithRole sets the role
func (b *UserBuilder) WithRole(role domain.Role) *UserBuilder {
	b.role = role
	return b
}

// Build creates the user in the database and returns the user with the raw password
func (b *UserBuilder) Build(t *testing.T, db *gorm.DB) (*domain.User, string) {
	t.Helper()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(b.password), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		Email:        b.email,
		Username:     b.username,
		PasswordHash: string(hashedPassword),
		Role:         b.role,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user, b.password
}

// LoginResponse matches the API auth response
type LoginResponse struct {
	AccessToken string `json:"accessToken"`
	UserID      string `json:"userId"`
	Role        string `json:"role"`
	Username    string `json:"username"`
}

// BuildAndLogin creates the user in the database and logs in via the API,
// returning the user, the access token and the refresh cookie
func (b *UserBuilder) BuildAndLogin(t *testing.T, ts *TestServer) (*domain.User, string, *http.Cookie) {
	t.Helper()

	user, password := b.Build(t, ts.DB.DB)
	accessToken, cookie := Login(t, ts, b.username, password)
	user.Role = b.role
	return user, accessToken, cookie
}

// Login performs an API login and returns the access token and refresh cookie
func Login(t *testing.T, ts *TestServer, username, password string) (string, *http.Cookie) {
	t.Helper()

	reqBody := map[string]string{
		"username": username,
		"password": password,
	}
	body, _ := json.Marshal(reqBody)

	resp, err := http.Post(ts.APIURL("/auth/login"), "application/json", bytes.NewBuffer(body))
	if err != nil {
		t.Fatalf("failed to log in: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected login status code: %d", resp.StatusCode)
	}

	var loginResp LoginResponse
	if err := json.NewDecoder(resp.Body).Decode(&loginResp); err != nil {
		t.Fatalf("failed to decode login response: %v", err)
	}

	return loginResp.AccessToken, RefreshCookie(resp)
}

// RefreshCookie extracts the refresh-token cookie from a response, or nil
func RefreshCookie(resp *http.Response) *http.Cookie {
	for _, cookie := range resp.Cookies() {
		if cookie.Name == "refreshToken" {
			return cookie
		}
	}
	return nil
}

// RefreshTokenBuilder creates refresh token records directly in the database
type RefreshTokenBuilder struct {
	userID    uuid.UUID
	expiresAt time.Time
}

// NewRefreshTokenBuilder creates a builder with a week-long expiry
func NewRefreshTokenBuilder(userID uuid.UUID) *RefreshTokenBuilder {
	return &RefreshTokenBuilder{
		userID:    userID,
		expiresAt: time.Now().Add(7 * 24 * time.Hour),
	}
}

// WithExpiresAt sets the expiry; use a past time to build an expired token
func (b *RefreshTokenBuilder) WithExpiresAt(expiresAt time.Time) *RefreshTokenBuilder {
	b.expiresAt = expiresAt
	return b
}

// Build creates the refresh token in the database
func (b *RefreshTokenBuilder) Build(t *testing.T, db *gorm.DB) *domain.RefreshToken {
	t.Helper()

	token := &domain.RefreshToken{
		Token:     uuid.New().String() + uuid.New().String(),
		UserID:    b.userID,
		ExpiresAt: b.expiresAt,
		CreatedAt: time.Now(),
	}

	if err := db.Create(token).Error; err != nil {
		t.Fatalf("failed to create refresh token: %v", err)
	}

	return token
}

// PostBuilder creates test posts
type PostBuilder struct {
	author *domain.User
	text   string
}

// NewPostBuilder creates a builder with default text
func NewPostBuilder() *PostBuilder {
	return &PostBuilder{
		text: "hello from a test post",
	}
}

// WithAuthor sets the post author
func (b *PostBuilder) WithAuthor(user *domain.User) *PostBuilder {
	b.author = user
	return b
}

// WithText sets the post text
func (b *PostBuilder) WithText(text string) *PostBuilder {
	b.text = text
	return b
}

// Build creates the post in the database
func (b *PostBuilder) Build(t *testing.T, db *gorm.DB) *domain.Post {
	t.Helper()

	if b.author == nil {
		user, _ := NewUserBuilder().Build(t, db)
		b.author = user
	}

	post := &domain.Post{
		ID:        uuid.New(),
		UserID:    b.author.ID,
		Text:      b.text,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := db.Create(post).Error; err != nil {
		t.Fatalf("failed to create post: %v", err)
	}

	return post
}

// CreateAuthenticatedRequest creates an HTTP request with auth token
func CreateAuthenticatedRequest(t *testing.T, method, url string, body interface{}, token string) *http.Request {
	t.Helper()

	var bodyReader *bytes.Buffer
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		bodyReader = bytes.NewBuffer(jsonBody)
	} else {
		bodyReader = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequestWithContext(context.Background(), method, url, bodyReader)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req
}

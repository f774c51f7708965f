package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stylofitness/storefront-api/internal/dto"
	"github.com/stylofitness/storefront-api/internal/model"
)

type mockUserRepo struct {
	users  map[string]*model.User
	byID   map[int64]*model.User
	nextID int64
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User), byID: make(map[int64]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	m.nextID++
	user.ID = m.nextID
	user.CreatedAt = time.Now()
	m.users[strings.ToLower(user.Email)] = user
	m.byID[user.ID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id int64) (*model.User, error) {
	return m.byID[id], nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	return m.users[strings.ToLower(email)], nil
}

func TestAuthService_Register(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewAuthService(repo, "test-secret", time.Hour)

	resp, err := svc.Register(context.Background(), dto.RegisterRequest{
		Name: "Lucia Ramos", Email: "lucia@example.com", Password: "password123", Phone: "987654321",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "lucia@example.com", resp.User.Email)
	assert.Equal(t, model.RoleCustomer, resp.User.Role)
	assert.NotEqual(t, "password123", repo.byID[resp.User.ID].Password)
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewAuthService(repo, "test-secret", time.Hour)

	repo.users["lucia@example.com"] = &model.User{ID: 1, Email: "lucia@example.com"}

	_, err := svc.Register(context.Background(), dto.RegisterRequest{
		Name: "Lucia", Email: "lucia@example.com", Password: "password123",
	})
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestAuthService_Login(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewAuthService(repo, "test-secret", time.Hour)

	hashed, err := HashPassword("password123")
	require.NoError(t, err)
	repo.users["staff@example.com"] = &model.User{
		ID: 7, Name: "Carlos", Email: "staff@example.com", Password: hashed, Role: model.RoleWorker,
	}

	resp, err := svc.Login(context.Background(), dto.LoginRequest{
		Email: "staff@example.com", Password: "password123",
	})
	require.NoError(t, err)

	token, err := jwt.Parse(resp.Token, func(*jwt.Token) (any, error) { return []byte("test-secret"), nil })
	require.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, "7", claims["sub"])
	assert.Equal(t, "worker", claims["role"])
	assert.Equal(t, "Carlos", claims["name"])
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewAuthService(repo, "test-secret", time.Hour)

	hashed, err := HashPassword("password123")
	require.NoError(t, err)
	repo.users["staff@example.com"] = &model.User{ID: 7, Email: "staff@example.com", Password: hashed}

	_, err = svc.Login(context.Background(), dto.LoginRequest{Email: "staff@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), dto.LoginRequest{Email: "nobody@example.com", Password: "x"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Register_NormalizesEmail(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewAuthService(repo, "test-secret", time.Hour)

	resp, err := svc.Register(context.Background(), dto.RegisterRequest{
		Name: " Lucia Ramos ", Email: "  Lucia@Example.COM ", Password: "password123",
	})
	require.NoError(t, err)
	assert.Equal(t, "lucia@example.com", resp.User.Email)
	assert.Equal(t, "Lucia Ramos", repo.byID[resp.User.ID].Name)

	_, err = svc.Login(context.Background(), dto.LoginRequest{Email: "LUCIA@example.com ", Password: "password123"})
	assert.NoError(t, err)
}

func TestAuthService_Login_UnknownRole(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewAuthService(repo, "test-secret", time.Hour)

	hashed, err := HashPassword("password123")
	require.NoError(t, err)
	repo.users["old@example.com"] = &model.User{
		ID: 9, Email: "old@example.com", Password: hashed, Role: model.Role("superuser"),
	}

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Email: "old@example.com", Password: "password123"})
	assert.ErrorIs(t, err, ErrAccountRole)
	assert.Nil(t, resp)

	_, err = svc.Login(context.Background(), dto.LoginRequest{Email: "old@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

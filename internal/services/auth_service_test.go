package services_test

import (
	"testing"

	"lapak/internal/models"
	"lapak/internal/repositories"
	"lapak/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestRegisterCreatesUserAndCustomer(t *testing.T) {
	store := repositories.NewMockStore()
	service := services.NewAuthService(store, "test-secret")

	user := &models.User{
		Email:     "buyer@example.com",
		FirstName: "Budi",
		LastName:  "Santoso",
		Password:  "password123",
	}
	customer, err := service.Register(user, "0812000111", "Jl. Merdeka 1")
	require.NoError(t, err)
	assert.NotEmpty(t, customer.ID)
	assert.Equal(t, user.ID, customer.UserID)
	assert.Equal(t, "0812000111", customer.Phone)

	// The password was hashed before storage.
	stored, err := store.Users().GetByEmail("buyer@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "password123", stored.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("password123")))
	assert.True(t, stored.IsActive)
	assert.False(t, stored.IsStaff)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	store := repositories.NewMockStore()
	service := services.NewAuthService(store, "test-secret")

	first := &models.User{Email: "buyer@example.com", FirstName: "Budi", LastName: "Santoso", Password: "password123"}
	_, err := service.Register(first, "", "")
	require.NoError(t, err)

	second := &models.User{Email: "buyer@example.com", FirstName: "Siti", LastName: "Rahma", Password: "password456"}
	_, err = service.Register(second, "", "")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
}

func TestLoginIssuesValidToken(t *testing.T) {
	store := repositories.NewMockStore()
	service := services.NewAuthService(store, "test-secret")

	user := &models.User{Email: "buyer@example.com", FirstName: "Budi", LastName: "Santoso", Password: "password123"}
	customer, err := service.Register(user, "", "")
	require.NoError(t, err)

	token, err := service.Login("buyer@example.com", "password123")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims["user_id"])
	assert.Equal(t, customer.ID, claims["customer_id"])
	assert.Equal(t, "buyer@example.com", claims["email"])
	assert.Equal(t, false, claims["is_staff"])
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	store := repositories.NewMockStore()
	service := services.NewAuthService(store, "test-secret")

	user := &models.User{Email: "buyer@example.com", FirstName: "Budi", LastName: "Santoso", Password: "password123"}
	_, err := service.Register(user, "", "")
	require.NoError(t, err)

	_, err = service.Login("buyer@example.com", "wrong-password")
	assert.EqualError(t, err, "invalid credentials")

	// Unknown emails produce the same message.
	_, err = service.Login("nobody@example.com", "password123")
	assert.EqualError(t, err, "invalid credentials")
}

func TestValidateTokenRejectsForeignSignature(t *testing.T) {
	store := repositories.NewMockStore()
	service := services.NewAuthService(store, "test-secret")
	other := services.NewAuthService(store, "other-secret")

	user := &models.User{Email: "buyer@example.com", FirstName: "Budi", LastName: "Santoso", Password: "password123"}
	_, err := service.Register(user, "", "")
	require.NoError(t, err)
	token, err := service.Login("buyer@example.com", "password123")
	require.NoError(t, err)

	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}

func TestUpdateProfilePartialFields(t *testing.T) {
	store := repositories.NewMockStore()
	service := services.NewAuthService(store, "test-secret")

	user := &models.User{Email: "buyer@example.com", FirstName: "Budi", LastName: "Santoso", Password: "password123"}
	_, err := service.Register(user, "0812000111", "Jl. Merdeka 1")
	require.NoError(t, err)

	// Empty fields keep their previous values.
	updated, err := service.UpdateProfile(user.ID, "", "", "0812999888", "")
	require.NoError(t, err)
	assert.Equal(t, "Budi", updated.User.FirstName)
	assert.Equal(t, "0812999888", updated.Phone)
	assert.Equal(t, "Jl. Merdeka 1", updated.Address)

	updated, err = service.UpdateProfile(user.ID, "Budiman", "", "", "")
	require.NoError(t, err)
	assert.Equal(t, "Budiman", updated.User.FirstName)

	profile, err := service.GetProfile(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Budiman", profile.User.FirstName)
	assert.Equal(t, "0812999888", profile.Phone)
}

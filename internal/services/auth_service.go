package services

import (
	"fmt"
	"log"
	"time"

	"lapak/internal/models"
	"lapak/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles registration, login and token validation.
type AuthService struct {
	store      repositories.Store
	jwtSecret  []byte
	tokenDurat time.Duration // Duration for which JWT is valid
}

// NewAuthService creates a new AuthService.
func NewAuthService(store repositories.Store, jwtSecret string) *AuthService {
	return &AuthService{
		store:      store,
		jwtSecret:  []byte(jwtSecret),
		tokenDurat: 24 * time.Hour, // Token valid for 24 hours
	}
}

// Register creates the user account and its customer profile in one
// transaction, hashing the password first.
func (s *AuthService) Register(user *models.User, phone, address string) (*models.Customer, error) {
	if existing, err := s.store.Users().GetByEmail(user.Email); err == nil && existing != nil {
		return nil, fmt.Errorf("email '%s' already registered", user.Email)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = string(hashedPassword)
	user.IsActive = true

	var customer *models.Customer
	err = s.store.Transaction(func(tx repositories.Store) error {
		if err := tx.Users().Create(user); err != nil {
			return err
		}
		customer = &models.Customer{UserID: user.ID, User: *user, Phone: phone, Address: address}
		return tx.Users().CreateCustomer(customer)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to register user: %w", err)
	}
	return customer, nil
}

// Login authenticates a user by email and returns a signed JWT.
func (s *AuthService) Login(email, password string) (string, error) {
	user, err := s.store.Users().GetByEmail(email)
	if err != nil {
		// Do not reveal whether the email exists.
		return "", fmt.Errorf("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", fmt.Errorf("invalid credentials")
	}

	customer, err := s.store.Users().GetCustomerByUserID(user.ID)
	if err != nil {
		return "", fmt.Errorf("failed to resolve customer profile: %w", err)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":     user.ID,
		"customer_id": customer.ID,
		"email":       user.Email,
		"is_staff":    user.IsStaff,
		"exp":         time.Now().Add(s.tokenDurat).Unix(),
		"iat":         time.Now().Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken parses and validates a JWT, returning the claims if valid.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		log.Printf("Token validation error: %v", err)
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, fmt.Errorf("invalid token")
}

// GetProfile retrieves the customer profile for a user.
func (s *AuthService) GetProfile(userID string) (*models.Customer, error) {
	return s.store.Users().GetCustomerByUserID(userID)
}

// UpdateProfile applies partial updates to the customer profile and its
// user's name fields.
func (s *AuthService) UpdateProfile(userID string, firstName, lastName, phone, address string) (*models.Customer, error) {
	customer, err := s.store.Users().GetCustomerByUserID(userID)
	if err != nil {
		return nil, err
	}
	if firstName != "" {
		customer.User.FirstName = firstName
	}
	if lastName != "" {
		customer.User.LastName = lastName
	}
	if phone != "" {
		customer.Phone = phone
	}
	if address != "" {
		customer.Address = address
	}
	if err := s.store.Users().UpdateCustomer(customer); err != nil {
		return nil, err
	}
	return customer, nil
}

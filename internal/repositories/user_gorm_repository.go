package repositories

import (
	"errors"
	"fmt"

	"lapak/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{
		db: db,
	}
}

// Create creates a new user in the database.
func (r *GORMUserRepository) Create(user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if err := r.db.Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByEmail retrieves a user by their email from the database.
func (r *GORMUserRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user with email %s not found", email)
		}
		return nil, fmt.Errorf("failed to get user by email %s: %w", email, err)
	}
	return &user, nil
}

// GetByID retrieves a user by their ID from the database.
func (r *GORMUserRepository) GetByID(id string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user with ID %s not found", id)
		}
		return nil, fmt.Errorf("failed to get user by ID %s: %w", id, err)
	}
	return &user, nil
}

// StaffEmails retrieves the email addresses of all staff users.
func (r *GORMUserRepository) StaffEmails() ([]string, error) {
	var emails []string
	err := r.db.Model(&models.User{}).Where("is_staff = ?", true).Pluck("email", &emails).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get staff emails: %w", err)
	}
	return emails, nil
}

// CreateCustomer creates a new customer profile in the database.
func (r *GORMUserRepository) CreateCustomer(customer *models.Customer) error {
	if customer.ID == "" {
		customer.ID = uuid.New().String()
	}
	if err := r.db.Omit("User").Create(customer).Error; err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}
	return nil
}

// GetCustomerByUserID retrieves the customer profile belonging to a user.
func (r *GORMUserRepository) GetCustomerByUserID(userID string) (*models.Customer, error) {
	var customer models.Customer
	if err := r.db.Preload("User").First(&customer, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to get customer for user %s: %w", userID, err)
	}
	return &customer, nil
}

// GetCustomerByID retrieves a customer by their ID.
func (r *GORMUserRepository) GetCustomerByID(id string) (*models.Customer, error) {
	var customer models.Customer
	if err := r.db.Preload("User").First(&customer, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to get customer %s: %w", id, err)
	}
	return &customer, nil
}

// UpdateCustomer updates a customer profile and its user row.
func (r *GORMUserRepository) UpdateCustomer(customer *models.Customer) error {
	if err := r.db.Omit("User").Save(customer).Error; err != nil {
		return fmt.Errorf("failed to update customer: %w", err)
	}
	if customer.User.ID != "" {
		if err := r.db.Save(&customer.User).Error; err != nil {
			return fmt.Errorf("failed to update customer user: %w", err)
		}
	}
	return nil
}

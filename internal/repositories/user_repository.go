package repositories

import "lapak/internal/models"

// UserRepository defines the interface for user and customer data access.
type UserRepository interface {
	Create(user *models.User) error
	GetByEmail(email string) (*models.User, error)
	GetByID(id string) (*models.User, error)
	// StaffEmails returns the addresses of every staff user; these are the
	// recipients of low-stock notifications.
	StaffEmails() ([]string, error)

	CreateCustomer(customer *models.Customer) error
	GetCustomerByUserID(userID string) (*models.Customer, error)
	GetCustomerByID(id string) (*models.Customer, error)
	UpdateCustomer(customer *models.Customer) error
}

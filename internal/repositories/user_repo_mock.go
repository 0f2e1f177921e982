package repositories

import (
	"fmt"
	"time"

	"lapak/internal/models"

	"github.com/google/uuid"
)

// mockUserRepo is the in-memory implementation of UserRepository.
type mockUserRepo struct {
	s *MockStore
}

// Create adds a new user.
func (r *mockUserRepo) Create(user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.DateJoined.IsZero() {
		user.DateJoined = time.Now()
	}
	r.s.users[user.ID] = *user
	return nil
}

// GetByEmail returns a user by their email.
func (r *mockUserRepo) GetByEmail(email string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if u.Email == email {
			user := u
			return &user, nil
		}
	}
	return nil, fmt.Errorf("user with email %s not found", email)
}

// GetByID returns a user by their ID.
func (r *mockUserRepo) GetByID(id string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	user, ok := r.s.users[id]
	if !ok {
		return nil, fmt.Errorf("user with ID %s not found", id)
	}
	return &user, nil
}

// StaffEmails returns the email addresses of all staff users.
func (r *mockUserRepo) StaffEmails() ([]string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var emails []string
	for _, u := range r.s.users {
		if u.IsStaff {
			emails = append(emails, u.Email)
		}
	}
	return emails, nil
}

// CreateCustomer adds a new customer profile.
func (r *mockUserRepo) CreateCustomer(customer *models.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if customer.ID == "" {
		customer.ID = uuid.New().String()
	}
	stored := *customer
	stored.User = models.User{}
	r.s.customers[customer.ID] = stored
	return nil
}

// GetCustomerByUserID returns the customer profile belonging to a user.
func (r *mockUserRepo) GetCustomerByUserID(userID string) (*models.Customer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, c := range r.s.customers {
		if c.UserID == userID {
			customer := c
			if u, ok := r.s.users[c.UserID]; ok {
				customer.User = u
			}
			return &customer, nil
		}
	}
	return nil, models.ErrCustomerNotFound
}

// GetCustomerByID returns a customer by their ID.
func (r *mockUserRepo) GetCustomerByID(id string) (*models.Customer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	customer, ok := r.s.customers[id]
	if !ok {
		return nil, models.ErrCustomerNotFound
	}
	if u, ok := r.s.users[customer.UserID]; ok {
		customer.User = u
	}
	return &customer, nil
}

// UpdateCustomer updates a customer profile and its user.
func (r *mockUserRepo) UpdateCustomer(customer *models.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.customers[customer.ID]; !ok {
		return models.ErrCustomerNotFound
	}
	stored := *customer
	stored.User = models.User{}
	r.s.customers[customer.ID] = stored
	if customer.User.ID != "" {
		r.s.users[customer.User.ID] = customer.User
	}
	return nil
}

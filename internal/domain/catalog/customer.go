package catalog

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopdesk/backend/internal/domain/shared"
)

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phonePattern = regexp.MustCompile(`^\+7\d{10}$|^\d{11}$`)
)

// Customer represents a shop customer
// It is the aggregate root for customer-related operations
type Customer struct {
	shared.BaseEntity
	Name  string `gorm:"type:varchar(200);not null"`
	Email string `gorm:"type:varchar(200);not null;uniqueIndex"`
	Phone string `gorm:"type:varchar(50)"`
}

// TableName returns the table name for GORM
func (Customer) TableName() string {
	return "customers"
}

// NewCustomer creates a new customer. Email is required and stored lowercased;
// phone is optional.
func NewCustomer(name, email, phone string) (*Customer, error) {
	if err := validateCustomerName(name); err != nil {
		return nil, err
	}
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	if phone != "" {
		if err := ValidatePhone(phone); err != nil {
			return nil, err
		}
	}

	return &Customer{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Email:      strings.ToLower(email),
		Phone:      phone,
	}, nil
}

// Update updates the customer's contact information
func (c *Customer) Update(name, email, phone string) error {
	if err := validateCustomerName(name); err != nil {
		return err
	}
	if err := ValidateEmail(email); err != nil {
		return err
	}
	if phone != "" {
		if err := ValidatePhone(phone); err != nil {
			return err
		}
	}

	c.Name = name
	c.Email = strings.ToLower(email)
	c.Phone = phone
	c.UpdatedAt = time.Now()

	return nil
}

// ValidateEmail checks the email against the accepted address format
func ValidateEmail(email string) error {
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}
	if !emailPattern.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Email format is invalid")
	}
	return nil
}

// ValidatePhone checks the phone number against the accepted formats
// (+7 followed by 10 digits, or a plain 11-digit number)
func ValidatePhone(phone string) error {
	if !phonePattern.MatchString(phone) {
		return shared.NewDomainError("INVALID_PHONE", "Phone format is invalid")
	}
	return nil
}

func validateCustomerName(name string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Customer name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Customer name cannot exceed 200 characters")
	}
	return nil
}

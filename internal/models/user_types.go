package models

import (
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// UserProfile holds the contact and address fields that get snapshotted
// onto an order header at checkout. It is a plain value object; anything
// authentication-specific stays out of it.
type UserProfile struct {
	FullName     string  `json:"fullName" db:"full_name"`
	PhoneNumber  string  `json:"phoneNumber" db:"phone_number"`
	AddressLine1 string  `json:"addressLine1" db:"address_line1"`
	AddressLine2 *string `json:"addressLine2,omitempty" db:"address_line2"`
	City         string  `json:"city" db:"city"`
	State        string  `json:"state" db:"state"`
	Postcode     string  `json:"postcode" db:"postcode"`
}

// User is the model for the 'users' table. A non-zero CompanyID marks an
// invoice-billed (company) account; zero means an individual shopper who
// pays through the hosted payment session.
type User struct {
	ID           int64  `json:"id" db:"id"`
	Email        string `json:"email" db:"email"`
	PasswordHash string `json:"-" db:"password_hash"`
	CompanyID    int64  `json:"companyId" db:"company_id"`
	Status       string `json:"status" db:"status"`

	Profile UserProfile `json:"profile"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// Password Helper (Standard)
type Password struct {
	Plaintext *string
	Hash      string
}

func (p *Password) Set(plaintextPassword string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintextPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	p.Hash = string(hash)
	p.Plaintext = &plaintextPassword
	return nil
}

func (p *Password) Matches(plaintextPassword string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(p.Hash), []byte(plaintextPassword))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

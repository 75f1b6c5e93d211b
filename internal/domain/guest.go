package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	minGuestAge = 18
	maxGuestAge = 120
)

type GuestAge struct {
	value int
}

func NewGuestAge(value int) (GuestAge, error) {
	if value < minGuestAge {
		return GuestAge{}, ErrGuestTooYoung
	}
	if value > maxGuestAge {
		return GuestAge{}, ErrInvalidAge
	}
	return GuestAge{value: value}, nil
}

func (a GuestAge) Value() int { return a.value }

type Guest struct {
	id        uuid.UUID
	firstName string
	lastName  string
	email     string
	phone     string
	age       GuestAge
	createdAt time.Time
}

func NewGuest(firstName, lastName, email, phone string, age GuestAge, now time.Time) (*Guest, error) {
	return RestoreGuest(uuid.New(), firstName, lastName, email, phone, age, now)
}

// RestoreGuest rebuilds a guest loaded from storage; the same field rules apply.
func RestoreGuest(id uuid.UUID, firstName, lastName, email, phone string, age GuestAge, createdAt time.Time) (*Guest, error) {
	if strings.TrimSpace(firstName) == "" {
		return nil, ErrFirstNameRequired
	}
	if strings.TrimSpace(lastName) == "" {
		return nil, ErrLastNameRequired
	}
	if strings.TrimSpace(email) == "" {
		return nil, ErrEmailRequired
	}
	if age.value == 0 {
		return nil, ErrGuestAgeRequired
	}
	return &Guest{
		id:        id,
		firstName: firstName,
		lastName:  lastName,
		email:     email,
		phone:     phone,
		age:       age,
		createdAt: createdAt,
	}, nil
}

func (g *Guest) ID() uuid.UUID        { return g.id }
func (g *Guest) FirstName() string    { return g.firstName }
func (g *Guest) LastName() string     { return g.lastName }
func (g *Guest) Email() string        { return g.email }
func (g *Guest) Phone() string        { return g.phone }
func (g *Guest) Age() GuestAge        { return g.age }
func (g *Guest) CreatedAt() time.Time { return g.createdAt }

func (g *Guest) FullName() string {
	return g.firstName + " " + g.lastName
}

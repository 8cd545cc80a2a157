// Package seed generates fake customer records for the admin populate
// endpoint.
package seed

import (
	"fmt"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/okellodaniel/customerbase/internal/models"
)

// Seeded data stays inside a narrower, adult age band than the API accepts
const (
	minAge = 18
	maxAge = 80
)

// Generator produces fake customers with unique email addresses
type Generator struct {
	faker *gofakeit.Faker
	seen  map[string]struct{}
}

// NewGenerator creates a generator that will never emit an email in taken
func NewGenerator(taken []string) *Generator {
	seen := make(map[string]struct{}, len(taken))
	for _, email := range taken {
		seen[email] = struct{}{}
	}
	return &Generator{
		faker: gofakeit.New(0), // random seed
		seen:  seen,
	}
}

// Customers generates count fake customers. It gives up on a record after
// too many email collisions rather than looping forever, so the returned
// slice may be shorter than count when the email space is exhausted.
func (g *Generator) Customers(count int) []*models.Customer {
	customers := make([]*models.Customer, 0, count)

	for i := 0; i < count; i++ {
		customer, ok := g.next()
		if !ok {
			break
		}
		customers = append(customers, customer)
	}

	return customers
}

func (g *Generator) next() (*models.Customer, bool) {
	const maxAttempts = 100

	for attempt := 0; attempt < maxAttempts; attempt++ {
		email := g.faker.Email()
		if _, dup := g.seen[email]; dup {
			// Salt the local part and retry
			email = fmt.Sprintf("%s.%s", g.faker.LetterN(6), email)
			if _, dup := g.seen[email]; dup {
				continue
			}
		}
		g.seen[email] = struct{}{}

		return &models.Customer{
			Name:  g.faker.Name(),
			Email: email,
			Age:   g.faker.Number(minAge, maxAge),
		}, true
	}

	return nil, false
}

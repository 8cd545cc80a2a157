package seed

import (
	"strings"
	"testing"
)

func TestGenerator_Customers(t *testing.T) {
	customers := NewGenerator(nil).Customers(200)

	if len(customers) != 200 {
		t.Fatalf("generated %d customers, want 200", len(customers))
	}

	emails := make(map[string]struct{}, len(customers))
	for _, c := range customers {
		if c.Name == "" {
			t.Error("generated customer with empty name")
		}
		if !strings.Contains(c.Email, "@") {
			t.Errorf("generated invalid email %q", c.Email)
		}
		if c.Age < minAge || c.Age > maxAge {
			t.Errorf("age %d outside [%d, %d]", c.Age, minAge, maxAge)
		}
		if _, dup := emails[c.Email]; dup {
			t.Errorf("duplicate email %q", c.Email)
		}
		emails[c.Email] = struct{}{}
	}
}

func TestGenerator_AvoidsTakenEmails(t *testing.T) {
	taken := []string{"taken@example.com"}
	g := NewGenerator(taken)

	for _, c := range g.Customers(100) {
		if c.Email == "taken@example.com" {
			t.Fatal("generator reused a taken email")
		}
	}
}

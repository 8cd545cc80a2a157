package tui

import (
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/okellodaniel/customerbase/internal/models"
)

const (
	fieldName = iota
	fieldEmail
	fieldAge
	fieldCount
)

var fieldLabels = [fieldCount]string{"Name", "Email", "Age"}

// customerForm is the add/edit input form: three text fields with a
// focus cursor
type customerForm struct {
	values [fieldCount]string
	focus  int
	errMsg string
}

func newAddForm() customerForm {
	return customerForm{}
}

func newEditForm(c models.Customer) customerForm {
	f := customerForm{}
	f.values[fieldName] = c.Name
	f.values[fieldEmail] = c.Email
	f.values[fieldAge] = strconv.Itoa(c.Age)
	return f
}

// handleKey applies one keystroke to the form. submit is true when the
// user finished the last field with enter.
func (f *customerForm) handleKey(msg tea.KeyMsg) (submit, cancel bool) {
	switch msg.Type {
	case tea.KeyEsc:
		return false, true

	case tea.KeyEnter:
		if f.focus == fieldCount-1 {
			return true, false
		}
		f.focus++

	case tea.KeyTab, tea.KeyDown:
		f.focus = (f.focus + 1) % fieldCount

	case tea.KeyShiftTab, tea.KeyUp:
		f.focus = (f.focus - 1 + fieldCount) % fieldCount

	case tea.KeyBackspace:
		value := f.values[f.focus]
		if value != "" {
			f.values[f.focus] = value[:len(value)-1]
		}

	case tea.KeyRunes, tea.KeySpace:
		f.values[f.focus] += string(msg.Runes)
	}

	return false, false
}

// draft builds the create payload from the form, validating locally
// before anything is submitted
func (f *customerForm) draft() (*models.CustomerDraft, error) {
	age, err := parseAge(f.values[fieldAge])
	if err != nil {
		return nil, err
	}

	draft := &models.CustomerDraft{
		Name:  strings.TrimSpace(f.values[fieldName]),
		Email: strings.TrimSpace(f.values[fieldEmail]),
		Age:   age,
	}
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	return draft, nil
}

// patch computes the diff between the form and the record being edited.
// Untouched fields stay nil so they are never sent.
func (f *customerForm) patch(orig models.Customer) (*models.CustomerPatch, error) {
	patch := &models.CustomerPatch{}

	if name := strings.TrimSpace(f.values[fieldName]); name != orig.Name {
		patch.Name = &name
	}
	if email := strings.TrimSpace(f.values[fieldEmail]); email != orig.Email {
		patch.Email = &email
	}

	age, err := parseAge(f.values[fieldAge])
	if err != nil {
		return nil, err
	}
	if age != orig.Age {
		patch.Age = &age
	}

	if !patch.Empty() {
		if err := patch.Validate(); err != nil {
			return nil, err
		}
	}

	return patch, nil
}

func parseAge(raw string) (int, error) {
	age, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, models.ErrInvalidInput("age must be a number")
	}
	return age, nil
}

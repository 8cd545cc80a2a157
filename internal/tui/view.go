package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/okellodaniel/customerbase/internal/view"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("244")).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("57"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("124")).
			Padding(0, 1)

	modalStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2)

	focusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205"))
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

func spinnerFrame() string {
	idx := int(time.Now().UnixMilli()/100) % len(spinnerFrames)
	return spinnerFrames[idx]
}

func (m Model) View() string {
	snap := m.store.Snapshot()

	// Before anything has loaded, errors and progress own the screen
	if !snap.Loaded {
		if snap.Err != "" {
			return m.fullScreen(
				errorStyle.Render("Could not load customers") + "\n\n" +
					snap.Err + "\n\n" +
					dimStyle.Render("press r to retry, q to quit"))
		}
		return m.fullScreen(spinnerFrame() + " Loading customers…")
	}

	switch m.mode {
	case modeAdd:
		return m.fullScreen(m.renderForm("Add customer"))
	case modeEdit:
		return m.fullScreen(m.renderForm(fmt.Sprintf("Edit customer #%d", m.editing.ID)))
	case modeConfirmDelete:
		return m.fullScreen(m.renderConfirm(snap))
	}

	return m.renderList(snap)
}

func (m Model) renderList(snap view.Snapshot) string {
	var b strings.Builder

	title := "customerbase"
	if snap.Loading {
		title += "  " + spinnerFrame()
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n\n")

	if m.banner != "" {
		b.WriteString(errorStyle.Render(m.banner))
		b.WriteString(dimStyle.Render("  (esc to dismiss)"))
		b.WriteString("\n\n")
	} else if snap.Err != "" {
		b.WriteString(errorStyle.Render(snap.Err))
		b.WriteString(dimStyle.Render("  (esc to dismiss, r to retry)"))
		b.WriteString("\n\n")
	}

	b.WriteString(headerStyle.Render(fmt.Sprintf("%-6s %-28s %-32s %5s", "ID", "NAME", "EMAIL", "AGE")))
	b.WriteString("\n")

	if len(snap.Records) == 0 {
		b.WriteString(dimStyle.Render("no customers yet — press a to add one"))
		b.WriteString("\n")
	}

	for i, c := range snap.Records {
		row := fmt.Sprintf("%-6d %-28s %-32s %5d", c.ID, truncate(c.Name, 28), truncate(c.Email, 32), c.Age)
		if i == m.cursor {
			row = selectedStyle.Render(row)
		}
		b.WriteString(row)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("page %d of %d · %d customers", snap.Page, snap.TotalPages, snap.Total)))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("←/→ page · ↑/↓ select · a add · e edit · d delete · r reload · q quit"))

	return b.String()
}

func (m Model) renderForm(title string) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n\n")

	for i, label := range fieldLabels {
		line := fmt.Sprintf("%-6s %s", label+":", m.form.values[i])
		if i == m.form.focus {
			line = focusStyle.Render("> " + line + "█")
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	if m.form.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(m.form.errMsg))
	}

	b.WriteString("\n\n")
	b.WriteString(dimStyle.Render("enter next/submit · tab switch field · esc cancel"))

	return modalStyle.Render(b.String())
}

func (m Model) renderConfirm(snap view.Snapshot) string {
	if snap.Pending == nil {
		return ""
	}

	body := fmt.Sprintf("Delete customer %q (#%d)?\n\n", snap.Pending.Name, snap.Pending.ID) +
		dimStyle.Render("y/enter confirm · n/esc cancel")

	return modalStyle.Render(errorStyle.Render(" Confirm deletion ") + "\n\n" + body)
}

func (m Model) fullScreen(content string) string {
	if m.width == 0 || m.height == 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 1 {
		return s[:max]
	}
	return s[:max-1] + "…"
}

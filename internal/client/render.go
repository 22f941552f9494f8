package client

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/lightningsoon/KeyMinder/models"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	helpStyle   = lipgloss.NewStyle().Faint(true)
	errorStyle  = lipgloss.NewStyle().Bold(true)
	detailStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

func renderEntries(w io.Writer, entries []models.PasswordEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, helpStyle.Render("no entries yet, add one with `keyminder add`"))
		return
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "TITLE", "USERNAME", "URL", "CATEGORY", "TAGS").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	for _, e := range entries {
		t.Row(e.ID, e.Title, e.Username, deref(e.URL), deref(e.Category), strings.Join(e.Tags, ", "))
	}

	fmt.Fprintln(w, t.Render())
	fmt.Fprintln(w, helpStyle.Render(fmt.Sprintf("%d entries", len(entries))))
}

// renderEntry prints one entry. The password line is left out when
// showPassword is false.
func renderEntry(w io.Writer, e models.PasswordEntry, showPassword bool) {
	var b strings.Builder
	field := func(name, value string) {
		if value != "" {
			fmt.Fprintf(&b, "%s %s\n", titleStyle.Render(name+":"), value)
		}
	}

	field("Title", e.Title)
	field("Username", e.Username)
	if showPassword {
		field("Password", e.Password)
	}
	field("URL", deref(e.URL))
	field("Notes", deref(e.Notes))
	field("Category", deref(e.Category))
	field("Tags", strings.Join(e.Tags, ", "))
	if e.LastUsed != nil {
		field("Last used", e.LastUsed.Local().Format(time.DateTime))
	}
	field("ID", e.ID)

	fmt.Fprintln(w, detailStyle.Render(strings.TrimRight(b.String(), "\n")))
}

func renderError(w io.Writer, err error) {
	fmt.Fprintln(w, errorStyle.Render("error: ")+err.Error())
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"pet-adoption-web/internal/domain/applications"
	"pet-adoption-web/internal/domain/pets"
	"pet-adoption-web/internal/domain/shelters"
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("238"))).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func PetsTable(list []pets.Pet, p pets.Pagination) string {
	if len(list) == 0 {
		return disabledStyle.Render("No pets match these filters.")
	}
	t := newTable("ID", "Name", "Species", "Breed", "Age", "Status", "Shelter")
	for _, pet := range list {
		t.Row(pet.ID, pet.Name, string(pet.Species), pet.Breed, pet.Age.String(), string(pet.Status), pet.Shelter.Label())
	}
	return t.Render() + "\n" + pageLine(p.CurrentPage, p.TotalPages, p.TotalCount)
}

func SheltersTable(list []shelters.Shelter, p shelters.Pagination) string {
	if len(list) == 0 {
		return disabledStyle.Render("No shelters found.")
	}
	t := newTable("ID", "Name", "Location", "Email", "Phone")
	for _, s := range list {
		t.Row(s.ID, s.ShelterName, s.Location(), s.Email, s.Phone)
	}
	return t.Render() + "\n" + pageLine(p.CurrentPage, p.TotalPages, p.TotalCount)
}

func ApplicationsTable(list []applications.Application) string {
	if len(list) == 0 {
		return disabledStyle.Render("No applications yet.")
	}
	t := newTable("ID", "Pet", "Adopter", "Status", "Submitted", "Rejection reason")
	for _, a := range list {
		submitted := ""
		if !a.CreatedAt.IsZero() {
			submitted = a.CreatedAt.Format("2006-01-02")
		}
		t.Row(a.ID, a.Pet.Label(), a.Adopter.Label(), StatusLabel(a.Status), submitted, a.RejectionReason)
	}
	return t.Render()
}

// StatusLabel colorea el estado de una solicitud.
func StatusLabel(s applications.Status) string {
	switch s {
	case applications.StatusApproved:
		return okStyle.Render(string(s))
	case applications.StatusRejected:
		return errorStyle.Render(string(s))
	default:
		return labelStyle.Render(string(s))
	}
}

func pageLine(current, total, count int) string {
	if total <= 0 {
		return ""
	}
	return helpStyle.Render(fmt.Sprintf("page %d of %d • %d results", current, total, count))
}

// Success y Failure formatean el resultado de un comando.
func Success(msg string) string { return okStyle.Render("✓ " + strings.TrimSpace(msg)) }

func Failure(msg string) string { return errorStyle.Render("✗ " + strings.TrimSpace(msg)) }

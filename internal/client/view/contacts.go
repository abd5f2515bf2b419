package view

import "github.com/palmlink/palmlink/internal/models"

// ContactGrid holds the flat, display-ready contact sequence. There is no
// grouping and no diffing: every update replaces the whole list, which is
// cheap at contact-list sizes and correct because mutations always trigger
// a server reload.
type ContactGrid struct {
	items []models.Contact
}

// SetAll replaces the grid contents with a copy of items.
func (g *ContactGrid) SetAll(items []models.Contact) {
	g.items = make([]models.Contact, len(items))
	copy(g.items, items)
}

// Items returns the current sequence. Callers must not mutate it.
func (g *ContactGrid) Items() []models.Contact {
	return g.items
}

// Len returns the number of entries.
func (g *ContactGrid) Len() int { return len(g.items) }

// TypeLabel maps a contact type to its display name. Unknown types render
// as the raw code rather than disappearing.
func TypeLabel(t models.ContactType) string {
	switch t {
	case models.Instagram:
		return "Instagram"
	case models.WhatsApp:
		return "WhatsApp"
	case models.Facebook:
		return "Facebook"
	case models.X:
		return "X"
	case models.LinkedIn:
		return "LinkedIn"
	case models.Email:
		return "Email"
	case models.Phone:
		return "Phone"
	default:
		return string(t)
	}
}

package client

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/xavierca1/polyglot-leads/internal/entity"
)

// FilterByEmail keeps the leads submitted under email, compared case-insensitively.
// It only shapes what is displayed: anyone able to list leads sees them all, so
// access control must come from the server's /me/leads.
func FilterByEmail(leads []*entity.Lead, email string) []*entity.Lead {
	out := []*entity.Lead{}
	if strings.TrimSpace(email) == "" {
		return out
	}
	for _, l := range leads {
		if l.BelongsTo(email) {
			out = append(out, l)
		}
	}
	return out
}

// Search refines an already fetched page. A lead matches when the query is a
// case-insensitive substring of its name, email, translated message, tag or
// assignee. A blank query keeps every lead.
func Search(leads []*entity.Lead, query string) []*entity.Lead {
	fold := cases.Fold()
	q := fold.String(strings.TrimSpace(query))
	if q == "" {
		return leads
	}

	out := []*entity.Lead{}
	for _, l := range leads {
		for _, field := range searchFields(l) {
			if strings.Contains(fold.String(field), q) {
				out = append(out, l)
				break
			}
		}
	}
	return out
}

func searchFields(l *entity.Lead) []string {
	fields := []string{l.Name, l.Email, l.TranslatedMessage}
	if l.Tag != nil {
		fields = append(fields, string(*l.Tag))
	}
	if l.AssignedTo != nil {
		fields = append(fields, *l.AssignedTo)
	}
	return fields
}

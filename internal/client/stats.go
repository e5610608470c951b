package client

import (
	"time"

	"github.com/xavierca1/polyglot-leads/internal/entity"
)

type Stats struct {
	Total        int
	Latest       time.Time
	HasLatest    bool
	AgentsActive int
	TagsUsed     int
}

// ComputeStats summarizes a page. Latest is taken from the first lead, which
// is the newest because the server lists newest first.
func ComputeStats(leads []*entity.Lead, total int) Stats {
	s := Stats{Total: total}
	if len(leads) > 0 {
		s.Latest = leads[0].CreatedAt
		s.HasLatest = true
	}

	agents := map[string]struct{}{}
	tags := map[entity.Tag]struct{}{}
	for _, l := range leads {
		if l.AssignedTo != nil && *l.AssignedTo != "" {
			agents[*l.AssignedTo] = struct{}{}
		}
		if l.Tag != nil && *l.Tag != "" {
			tags[*l.Tag] = struct{}{}
		}
	}
	s.AgentsActive = len(agents)
	s.TagsUsed = len(tags)
	return s
}

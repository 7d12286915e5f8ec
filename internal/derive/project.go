// Package derive computes display projections from resource snapshots.
// Every function here is pure: same snapshot and filters in, same
// projection out, the snapshot untouched. Projections are recomputed on
// every render; nothing is memoized.
package derive

import (
	"sort"
	"strings"

	"careerdesk/internal/api"
)

// FilterMessages returns the messages whose subject, body, or recruiter
// name contains query, case-insensitively (OR across fields). An empty
// query returns the input order unchanged.
func FilterMessages(msgs []api.Message, query string) []api.Message {
	query = strings.TrimSpace(strings.ToLower(query))
	if query == "" {
		return msgs
	}
	out := make([]api.Message, 0, len(msgs))
	for _, m := range msgs {
		if strings.Contains(strings.ToLower(m.Subject), query) ||
			strings.Contains(strings.ToLower(m.Body), query) ||
			strings.Contains(strings.ToLower(m.RecruiterName), query) {
			out = append(out, m)
		}
	}
	return out
}

// FilterByStatus returns the messages with the given status; empty
// status means all.
func FilterByStatus(msgs []api.Message, status string) []api.Message {
	if status == "" {
		return msgs
	}
	out := make([]api.Message, 0, len(msgs))
	for _, m := range msgs {
		if m.Status == status {
			out = append(out, m)
		}
	}
	return out
}

// CountByStatus tallies messages per status locally. Views prefer the
// server's MessageStats; this is the projection used when the stats
// fetch degrades.
func CountByStatus(msgs []api.Message) api.MessageStats {
	var s api.MessageStats
	s.Total = len(msgs)
	for _, m := range msgs {
		switch m.Status {
		case api.StatusDraft:
			s.Draft++
		case api.StatusReady:
			s.Ready++
		case api.StatusSent:
			s.Sent++
		case api.StatusResponded:
			s.Responded++
		}
	}
	return s
}

// SkillGroup is one category of skills with its match coverage.
type SkillGroup struct {
	Category string
	Skills   []api.Skill
	Matched  int
}

// GroupSkills groups skills by category. Groups are sorted by category
// name; skills keep their server order within a group.
func GroupSkills(skills []api.Skill) []SkillGroup {
	byCat := make(map[string]*SkillGroup)
	var order []string
	for _, sk := range skills {
		g, ok := byCat[sk.Category]
		if !ok {
			g = &SkillGroup{Category: sk.Category}
			byCat[sk.Category] = g
			order = append(order, sk.Category)
		}
		g.Skills = append(g.Skills, sk)
		if sk.Matched {
			g.Matched++
		}
	}
	sort.Strings(order)
	out := make([]SkillGroup, 0, len(order))
	for _, cat := range order {
		out = append(out, *byCat[cat])
	}
	return out
}

// Coverage returns matched/total as a whole percentage clamped to
// [0, 100]. A zero total is 0, not a division crash.
func Coverage(matched, total int) int {
	if total <= 0 {
		return 0
	}
	pct := matched * 100 / total
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// UnreadNotifications returns only the unread entries, server order
// preserved.
func UnreadNotifications(ns []api.Notification) []api.Notification {
	out := make([]api.Notification, 0, len(ns))
	for _, n := range ns {
		if !n.Read {
			out = append(out, n)
		}
	}
	return out
}

// SortResumesByScore returns a copy sorted by ATS score descending,
// ties broken by title for a stable display. The input is not mutated.
func SortResumesByScore(rs []api.Resume) []api.Resume {
	out := make([]api.Resume, len(rs))
	copy(out, rs)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].ATSScore != out[j].ATSScore {
			return out[i].ATSScore > out[j].ATSScore
		}
		return out[i].Title < out[j].Title
	})
	return out
}

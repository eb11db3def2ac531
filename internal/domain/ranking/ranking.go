// Package ranking orders event participants for leaderboards and result lists.
//
// The order is: placement ascending (set before unset), then score descending
// (set before unset), then name ascending with Unicode case folding, then user
// ID. Sorting is stable, so fully equal participants keep their input order.
// Every function here is pure and safe for concurrent use.
package ranking

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/cases"

	"gamenight/internal/domain"
	"gamenight/internal/domain/entities"
)

// Entry is a ranked participant. Position is 1-based within the ranked output.
type Entry struct {
	Participant entities.Participant
	Position    int
	Label       string
}

// Leaderboard ranks attended participants that have a score or a placement.
func Leaderboard(participants []entities.Participant) []Entry {
	return rank(participants, func(p entities.Participant) bool {
		return p.Status == domain.StatusAttended && p.HasResult()
	})
}

// Roster ranks every participant except spectators, whatever their status.
func Roster(participants []entities.Participant) []Entry {
	return rank(participants, func(p entities.Participant) bool {
		return p.Role != domain.RoleSpectator
	})
}

// Sort returns a sorted copy of participants without filtering.
func Sort(participants []entities.Participant) []entities.Participant {
	keyed := keyParticipants(participants, nil)
	slices.SortStableFunc(keyed, compareKeyed)
	out := make([]entities.Participant, len(keyed))
	for i, k := range keyed {
		out[i] = k.p
	}
	return out
}

// Compare orders two participants with the full tie-break chain.
func Compare(a, b entities.Participant) int {
	fold := cases.Fold()
	return compareKeyed(
		keyed{p: a, name: fold.String(a.Name())},
		keyed{p: b, name: fold.String(b.Name())},
	)
}

// Label is the presentation label for a ranked participant. An explicit
// placement always wins over the position in the sorted output.
func Label(placement *int, position int) string {
	n := position
	if placement != nil {
		n = *placement
	}
	switch n {
	case 1:
		return "🥇"
	case 2:
		return "🥈"
	case 3:
		return "🥉"
	}
	return fmt.Sprintf("#%d", n)
}

type keyed struct {
	p    entities.Participant
	name string
}

func rank(participants []entities.Participant, keep func(entities.Participant) bool) []Entry {
	keyed := keyParticipants(participants, keep)
	slices.SortStableFunc(keyed, compareKeyed)
	out := make([]Entry, len(keyed))
	for i, k := range keyed {
		out[i] = Entry{
			Participant: k.p,
			Position:    i + 1,
			Label:       Label(k.p.Placement, i+1),
		}
	}
	return out
}

func keyParticipants(participants []entities.Participant, keep func(entities.Participant) bool) []keyed {
	// cases.Caser is stateful; one per call keeps ranking concurrency-safe.
	fold := cases.Fold()
	out := make([]keyed, 0, len(participants))
	for _, p := range participants {
		if keep != nil && !keep(p) {
			continue
		}
		out = append(out, keyed{p: p, name: fold.String(p.Name())})
	}
	return out
}

func compareKeyed(a, b keyed) int {
	if c := comparePlacement(a.p.Placement, b.p.Placement); c != 0 {
		return c
	}
	if c := compareScore(a.p.Score, b.p.Score); c != 0 {
		return c
	}
	if c := strings.Compare(a.name, b.name); c != 0 {
		return c
	}
	return strings.Compare(a.p.UserID, b.p.UserID)
}

func comparePlacement(a, b *int) int {
	switch {
	case a != nil && b != nil:
		return cmp.Compare(*a, *b)
	case a != nil:
		return -1
	case b != nil:
		return 1
	}
	return 0
}

// Higher scores first.
func compareScore(a, b *float64) int {
	switch {
	case a != nil && b != nil:
		return cmp.Compare(*b, *a)
	case a != nil:
		return -1
	case b != nil:
		return 1
	}
	return 0
}

package scheduler

import (
	"math/rand"

	"github.com/andrifar/lemdik-sched-api/internal/models"
)

// SequenceSubjects orders a team's subject pool so every prerequisite
// precedes its dependent. The pool is shuffled first so independent
// subjects land in a different order on every run, then a visited-set
// depth-first walk emits each subject exactly once. The explicit stack
// keeps depth bounded for long prerequisite chains.
func SequenceSubjects(pool []models.Subject, rng *rand.Rand) []models.Subject {
	shuffled := make([]models.Subject, len(pool))
	copy(shuffled, pool)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	byID := make(map[string]models.Subject, len(shuffled))
	for _, subject := range shuffled {
		byID[subject.ID] = subject
	}

	visited := make(map[string]struct{}, len(shuffled))
	ordered := make([]models.Subject, 0, len(shuffled))

	for _, subject := range shuffled {
		if _, seen := visited[subject.ID]; seen {
			continue
		}

		// Walk up the prerequisite chain collecting unvisited ancestors,
		// then emit them top-down before the subject itself.
		chain := []models.Subject{subject}
		visited[subject.ID] = struct{}{}
		current := subject
		for current.PrerequisiteID != nil {
			prereq, ok := byID[*current.PrerequisiteID]
			if !ok {
				break
			}
			if _, seen := visited[prereq.ID]; seen {
				break
			}
			visited[prereq.ID] = struct{}{}
			chain = append(chain, prereq)
			current = prereq
		}
		for i := len(chain) - 1; i >= 0; i-- {
			ordered = append(ordered, chain[i])
		}
	}

	return ordered
}

package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrifar/lemdik-sched-api/internal/models"
)

func subjectWithPrereq(id string, category models.Category, prereq string) models.Subject {
	s := models.Subject{ID: id, Name: id, Category: category}
	if prereq != "" {
		s.PrerequisiteID = &prereq
	}
	return s
}

func positions(ordered []models.Subject) map[string]int {
	pos := make(map[string]int, len(ordered))
	for i, subject := range ordered {
		pos[subject.ID] = i
	}
	return pos
}

func TestSequenceSubjectsTopologicalOrder(t *testing.T) {
	pool := []models.Subject{
		subjectWithPrereq("basics", models.CategoryMilitary, ""),
		subjectWithPrereq("advanced", models.CategoryMilitary, "basics"),
		subjectWithPrereq("expert", models.CategoryMilitary, "advanced"),
		subjectWithPrereq("law", models.CategoryCivic, ""),
		subjectWithPrereq("ethics", models.CategoryCivic, "law"),
	}

	// Shuffling varies across seeds; the topological property must not.
	for seed := int64(1); seed <= 25; seed++ {
		ordered := SequenceSubjects(pool, NewRand(seed))
		require.Len(t, ordered, len(pool))

		pos := positions(ordered)
		assert.Less(t, pos["basics"], pos["advanced"], "seed %d", seed)
		assert.Less(t, pos["advanced"], pos["expert"], "seed %d", seed)
		assert.Less(t, pos["law"], pos["ethics"], "seed %d", seed)
	}
}

func TestSequenceSubjectsEachSubjectOnce(t *testing.T) {
	pool := []models.Subject{
		subjectWithPrereq("a", models.CategoryCivic, ""),
		subjectWithPrereq("b", models.CategoryCivic, "a"),
		subjectWithPrereq("c", models.CategoryMilitary, "a"),
		subjectWithPrereq("d", models.CategoryMilitary, ""),
	}

	ordered := SequenceSubjects(pool, NewRand(7))
	require.Len(t, ordered, 4)

	seen := make(map[string]int)
	for _, subject := range ordered {
		seen[subject.ID]++
	}
	for id, count := range seen {
		assert.Equal(t, 1, count, "subject %s duplicated", id)
	}
}

func TestSequenceSubjectsMissingPrerequisiteIgnored(t *testing.T) {
	pool := []models.Subject{
		subjectWithPrereq("orphan", models.CategoryCivic, "not-in-pool"),
	}

	ordered := SequenceSubjects(pool, NewRand(1))
	require.Len(t, ordered, 1)
	assert.Equal(t, "orphan", ordered[0].ID)
}

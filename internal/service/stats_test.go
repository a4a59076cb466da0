package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/academic-hub/academic-hub-back/internal/db"
)

type statsFixture struct {
	stats     *Stats
	auth      *Auth
	subjects  *Subjects
	goals     *Goals
	tutorials *Tutorials
	ideas     *Ideas
	db        *gorm.DB
}

func newStatsFixture(t *testing.T) *statsFixture {
	t.Helper()
	gdb := testDB(t)
	logger := testLogger()
	return &statsFixture{
		stats:     NewStats(gdb, logger),
		auth:      NewAuth(gdb, testTokenService(), logger),
		subjects:  NewSubjects(gdb, logger),
		goals:     NewGoals(gdb, logger),
		tutorials: NewTutorials(gdb, defaultStub(), logger),
		ideas:     NewIdeas(gdb, logger),
		db:        gdb,
	}
}

func TestSummaryEmpty(t *testing.T) {
	f := newStatsFixture(t)
	owner := registerUser(t, f.auth, "owner@example.com")

	summary, err := f.stats.Summary(owner.ID)
	require.NoError(t, err)

	assert.Zero(t, summary.SubjectCount)
	assert.Zero(t, summary.GoalStats.Total)
	// no goals means 0%, not a division by zero
	assert.Zero(t, summary.GoalStats.CompletionPercentage)
	assert.Empty(t, summary.SubjectDistribution)
}

func TestSummary(t *testing.T) {
	f := newStatsFixture(t)
	owner := registerUser(t, f.auth, "owner@example.com")
	other := registerUser(t, f.auth, "other@example.com")

	subject, err := f.subjects.Create(owner.ID, "Math", "", []string{"Algebra", "Calculus", "Geometry"}, "#FF0000")
	require.NoError(t, err)
	_, err = f.subjects.UpdateProgress(subject.ID, owner.ID, 1)
	require.NoError(t, err)

	g1, err := f.goals.Create(owner.ID, "Goal one", "", db.PriorityHigh, nil)
	require.NoError(t, err)
	_, err = f.goals.Create(owner.ID, "Goal two", "", db.PriorityHigh, nil)
	require.NoError(t, err)
	_, err = f.goals.Create(owner.ID, "Goal three", "", db.PriorityLow, nil)
	require.NoError(t, err)
	_, err = f.goals.ToggleCompleted(g1.ID, owner.ID)
	require.NoError(t, err)

	tut, err := f.tutorials.Create(context.Background(), owner.ID, watchURL)
	require.NoError(t, err)
	_, err = f.tutorials.ToggleWatched(tut.ID, owner.ID)
	require.NoError(t, err)

	_, err = f.ideas.Create(owner.ID, "Idea", "content", nil, db.CategoryStudy)
	require.NoError(t, err)
	_, err = f.ideas.Create(owner.ID, "Idea", "content", nil, db.CategoryStudy)
	require.NoError(t, err)

	// another owner's rows must never leak into the summary
	_, err = f.goals.Create(other.ID, "Foreign goal", "", db.PriorityHigh, nil)
	require.NoError(t, err)

	summary, err := f.stats.Summary(owner.ID)
	require.NoError(t, err)

	assert.Equal(t, int64(1), summary.SubjectCount)

	assert.Equal(t, int64(3), summary.GoalStats.Total)
	assert.Equal(t, int64(1), summary.GoalStats.Completed)
	assert.Equal(t, int64(2), summary.GoalStats.Pending)
	assert.Equal(t, 33, summary.GoalStats.CompletionPercentage)
	assert.Equal(t, int64(2), summary.GoalStats.ByPriority[db.PriorityHigh])
	assert.Equal(t, int64(1), summary.GoalStats.ByPriority[db.PriorityLow])

	assert.Equal(t, int64(1), summary.TutorialStats.Total)
	assert.Equal(t, int64(1), summary.TutorialStats.Watched)
	assert.Equal(t, int64(0), summary.TutorialStats.Unwatched)

	assert.Equal(t, int64(2), summary.IdeaStats.Total)
	assert.Equal(t, int64(2), summary.IdeaStats.ByCategory[db.CategoryStudy])

	require.Len(t, summary.SubjectDistribution, 1)
	assert.Equal(t, "Math", summary.SubjectDistribution[0].Name)
	assert.Equal(t, 3, summary.SubjectDistribution[0].TopicCount)
	assert.Equal(t, 1, summary.SubjectDistribution[0].CompletedTopics)
	assert.Equal(t, "#FF0000", summary.SubjectDistribution[0].Color)

	// everything above was just written, so it all counts as recent
	assert.Equal(t, int64(3), summary.RecentActivity.Goals)
	assert.Equal(t, int64(1), summary.RecentActivity.Subjects)
	assert.Equal(t, int64(1), summary.RecentActivity.Tutorials)
	assert.Equal(t, int64(2), summary.RecentActivity.Ideas)
}

func TestSearchAll(t *testing.T) {
	f := newStatsFixture(t)
	owner := registerUser(t, f.auth, "owner@example.com")
	other := registerUser(t, f.auth, "other@example.com")

	_, err := f.subjects.Create(owner.ID, "Linear Algebra", "vector spaces", []string{"Matrices"}, "")
	require.NoError(t, err)
	_, err = f.goals.Create(owner.ID, "Finish algebra homework", "", db.PriorityHigh, nil)
	require.NoError(t, err)
	_, err = f.goals.Create(owner.ID, "Algebra recap", "", db.PriorityLow, nil)
	require.NoError(t, err)
	_, err = f.ideas.Create(owner.ID, "Study plan", "focus on algebra drills", []string{"math"}, db.CategoryStudy)
	require.NoError(t, err)
	_, err = f.subjects.Create(other.ID, "Algebra too", "", nil, "")
	require.NoError(t, err)

	t.Run("matches across types, owner scoped", func(t *testing.T) {
		hits, err := f.stats.SearchAll(owner.ID, "ALGEBRA", "", "", "")
		require.NoError(t, err)
		assert.Len(t, hits, 4)

		types := map[string]int{}
		for _, hit := range hits {
			types[hit.Type]++
		}
		assert.Equal(t, 1, types[SearchTypeSubject])
		assert.Equal(t, 2, types[SearchTypeGoal])
		assert.Equal(t, 1, types[SearchTypeIdea])
	})

	t.Run("type filter", func(t *testing.T) {
		hits, err := f.stats.SearchAll(owner.ID, "algebra", SearchTypeGoal, "", "")
		require.NoError(t, err)
		assert.Len(t, hits, 2)
	})

	t.Run("priority filter applies to goals only", func(t *testing.T) {
		hits, err := f.stats.SearchAll(owner.ID, "algebra", "", db.PriorityHigh, "")
		require.NoError(t, err)
		// both non-goal hits remain, low-priority goal drops out
		assert.Len(t, hits, 3)
		for _, hit := range hits {
			if hit.Type == SearchTypeGoal {
				assert.Equal(t, db.PriorityHigh, hit.Priority)
			}
		}
	})

	t.Run("priority sort ranks goals first", func(t *testing.T) {
		hits, err := f.stats.SearchAll(owner.ID, "algebra", "", "", SortPriority)
		require.NoError(t, err)
		require.Len(t, hits, 4)
		assert.Equal(t, db.PriorityHigh, hits[0].Priority)
		assert.Equal(t, db.PriorityLow, hits[1].Priority)
	})

	t.Run("oldest sort is ascending", func(t *testing.T) {
		hits, err := f.stats.SearchAll(owner.ID, "algebra", "", "", SortOldest)
		require.NoError(t, err)
		require.Len(t, hits, 4)
		for i := 1; i < len(hits); i++ {
			assert.False(t, hits[i].CreatedAt.Before(hits[i-1].CreatedAt))
		}
	})

	t.Run("idea tags and category are searchable", func(t *testing.T) {
		hits, err := f.stats.SearchAll(owner.ID, "math", "", "", "")
		require.NoError(t, err)
		require.Len(t, hits, 1)
		assert.Equal(t, SearchTypeIdea, hits[0].Type)
	})
}

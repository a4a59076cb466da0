package service

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/academic-hub/academic-hub-back/internal/db"
)

const recentActivityWindow = 7 * 24 * time.Hour

const (
	SearchTypeSubject  = "subject"
	SearchTypeGoal     = "goal"
	SearchTypeTutorial = "tutorial"
	SearchTypeIdea     = "idea"

	SortNewest   = "newest"
	SortOldest   = "oldest"
	SortPriority = "priority"
)

type (
	Stats struct {
		db     *gorm.DB
		logger *zap.SugaredLogger
	}

	GoalStats struct {
		Total                int64            `json:"total"`
		Completed            int64            `json:"completed"`
		Pending              int64            `json:"pending"`
		CompletionPercentage int              `json:"completionPercentage"`
		ByPriority           map[string]int64 `json:"byPriority"`
	}

	TutorialStats struct {
		Total     int64 `json:"total"`
		Watched   int64 `json:"watched"`
		Unwatched int64 `json:"unwatched"`
	}

	IdeaStats struct {
		Total      int64            `json:"total"`
		ByCategory map[string]int64 `json:"byCategory"`
	}

	SubjectDistribution struct {
		Name            string `json:"name"`
		TopicCount      int    `json:"topicCount"`
		CompletedTopics int    `json:"completedTopics"`
		Color           string `json:"color"`
	}

	RecentActivity struct {
		Goals     int64 `json:"goals"`
		Subjects  int64 `json:"subjects"`
		Tutorials int64 `json:"tutorials"`
		Ideas     int64 `json:"ideas"`
	}

	Summary struct {
		SubjectCount        int64                 `json:"subjectCount"`
		GoalStats           GoalStats             `json:"goalStats"`
		TutorialStats       TutorialStats         `json:"tutorialStats"`
		IdeaStats           IdeaStats             `json:"ideaStats"`
		SubjectDistribution []SubjectDistribution `json:"subjectDistribution"`
		RecentActivity      RecentActivity        `json:"recentActivity"`
	}

	SearchHit struct {
		Type        string    `json:"type"`
		ID          uint64    `json:"id"`
		Title       string    `json:"title"`
		Description string    `json:"description"`
		Priority    string    `json:"priority,omitempty"`
		Category    string    `json:"category,omitempty"`
		CreatedAt   time.Time `json:"createdAt"`
	}
)

func NewStats(gdb *gorm.DB, logger *zap.SugaredLogger) *Stats {
	return &Stats{
		db:     gdb,
		logger: logger,
	}
}

func (s *Stats) Summary(ownerID uint64) (*Summary, error) {
	summary := Summary{
		SubjectDistribution: make([]SubjectDistribution, 0),
	}

	var err error
	if summary.SubjectCount, err = s.countWhere("subjects", squirrel.Eq{"user_id": ownerID}); err != nil {
		return nil, err
	}

	if summary.GoalStats, err = s.goalStats(ownerID); err != nil {
		return nil, err
	}
	if summary.TutorialStats, err = s.tutorialStats(ownerID); err != nil {
		return nil, err
	}
	if summary.IdeaStats, err = s.ideaStats(ownerID); err != nil {
		return nil, err
	}

	subjects := make([]db.Subject, 0)
	if err := s.db.Where("user_id = ?", ownerID).Order("created_at DESC").Find(&subjects).Error; err != nil {
		return nil, errors.Wrap(err, "load subjects for distribution")
	}
	for _, subject := range subjects {
		summary.SubjectDistribution = append(summary.SubjectDistribution, SubjectDistribution{
			Name:            subject.Name,
			TopicCount:      len(subject.Topics),
			CompletedTopics: subject.CompletedTopics,
			Color:           subject.Color,
		})
	}

	if summary.RecentActivity, err = s.recentActivity(ownerID); err != nil {
		return nil, err
	}

	return &summary, nil
}

func (s *Stats) goalStats(ownerID uint64) (GoalStats, error) {
	stats := GoalStats{ByPriority: map[string]int64{}}

	sql, args, err := squirrel.
		Select("priority", "COUNT(*) AS n").
		From("goals").
		Where(squirrel.Eq{"user_id": ownerID}).
		GroupBy("priority").
		ToSql()
	if err != nil {
		return stats, errors.Wrap(err, "build goal priority sql")
	}
	rows := make([]struct {
		Priority string
		N        int64
	}, 0)
	if err := s.db.Raw(sql, args...).Scan(&rows).Error; err != nil {
		return stats, errors.Wrap(err, "scan goal priorities")
	}
	for _, row := range rows {
		stats.ByPriority[row.Priority] = row.N
		stats.Total += row.N
	}

	completed, err := s.countWhere("goals", squirrel.Eq{"user_id": ownerID, "completed": true})
	if err != nil {
		return stats, err
	}
	stats.Completed = completed
	stats.Pending = stats.Total - completed
	if stats.Total > 0 {
		stats.CompletionPercentage = int(math.Round(float64(completed) / float64(stats.Total) * 100))
	}
	return stats, nil
}

func (s *Stats) tutorialStats(ownerID uint64) (TutorialStats, error) {
	stats := TutorialStats{}
	var err error
	if stats.Total, err = s.countWhere("tutorials", squirrel.Eq{"user_id": ownerID}); err != nil {
		return stats, err
	}
	if stats.Watched, err = s.countWhere("tutorials", squirrel.Eq{"user_id": ownerID, "watched": true}); err != nil {
		return stats, err
	}
	stats.Unwatched = stats.Total - stats.Watched
	return stats, nil
}

func (s *Stats) ideaStats(ownerID uint64) (IdeaStats, error) {
	stats := IdeaStats{ByCategory: map[string]int64{}}

	sql, args, err := squirrel.
		Select("category", "COUNT(*) AS n").
		From("ideas").
		Where(squirrel.Eq{"user_id": ownerID}).
		GroupBy("category").
		ToSql()
	if err != nil {
		return stats, errors.Wrap(err, "build idea category sql")
	}
	rows := make([]struct {
		Category string
		N        int64
	}, 0)
	if err := s.db.Raw(sql, args...).Scan(&rows).Error; err != nil {
		return stats, errors.Wrap(err, "scan idea categories")
	}
	for _, row := range rows {
		stats.ByCategory[row.Category] = row.N
		stats.Total += row.N
	}
	return stats, nil
}

func (s *Stats) recentActivity(ownerID uint64) (RecentActivity, error) {
	activity := RecentActivity{}
	cutoff := time.Now().Add(-recentActivityWindow)

	counts := []struct {
		table string
		dest  *int64
	}{
		{"goals", &activity.Goals},
		{"subjects", &activity.Subjects},
		{"tutorials", &activity.Tutorials},
		{"ideas", &activity.Ideas},
	}
	for _, c := range counts {
		n, err := s.countWhere(c.table,
			squirrel.Eq{"user_id": ownerID},
			squirrel.Gt{"updated_at": cutoff})
		if err != nil {
			return activity, err
		}
		*c.dest = n
	}
	return activity, nil
}

func (s *Stats) countWhere(table string, conds ...squirrel.Sqlizer) (int64, error) {
	b := squirrel.Select("COUNT(*)").From(table)
	for _, cond := range conds {
		b = b.Where(cond)
	}
	sql, args, err := b.ToSql()
	if err != nil {
		return 0, errors.Wrapf(err, "build count sql for %s", table)
	}
	var n int64
	if err := s.db.Raw(sql, args...).Scan(&n).Error; err != nil {
		return 0, errors.Wrapf(err, "count %s", table)
	}
	return n, nil
}

// SearchAll runs a case-insensitive substring match over the
// type-appropriate fields of each collection and merges the hits.
func (s *Stats) SearchAll(ownerID uint64, query, typeFilter, priorityFilter, sortOrder string) ([]SearchHit, error) {
	pattern := "%" + strings.ToLower(query) + "%"
	hits := make([]SearchHit, 0)

	wantType := func(t string) bool {
		return typeFilter == "" || typeFilter == t
	}

	if wantType(SearchTypeSubject) {
		subjects := make([]db.Subject, 0)
		if err := s.searchTable("subjects", ownerID, pattern, nil,
			&subjects, "name", "description", "topics"); err != nil {
			return nil, err
		}
		for _, m := range subjects {
			hits = append(hits, SearchHit{
				Type:        SearchTypeSubject,
				ID:          m.ID,
				Title:       m.Name,
				Description: m.Description,
				CreatedAt:   m.CreatedAt,
			})
		}
	}

	if wantType(SearchTypeGoal) {
		var extra squirrel.Sqlizer
		if priorityFilter != "" {
			extra = squirrel.Eq{"priority": priorityFilter}
		}
		goals := make([]db.Goal, 0)
		if err := s.searchTable("goals", ownerID, pattern, extra,
			&goals, "text", "description"); err != nil {
			return nil, err
		}
		for _, m := range goals {
			hits = append(hits, SearchHit{
				Type:        SearchTypeGoal,
				ID:          m.ID,
				Title:       m.Text,
				Description: m.Description,
				Priority:    m.Priority,
				CreatedAt:   m.CreatedAt,
			})
		}
	}

	if wantType(SearchTypeTutorial) {
		tutorials := make([]db.Tutorial, 0)
		if err := s.searchTable("tutorials", ownerID, pattern, nil,
			&tutorials, "title", "channel", "description"); err != nil {
			return nil, err
		}
		for _, m := range tutorials {
			hits = append(hits, SearchHit{
				Type:        SearchTypeTutorial,
				ID:          m.ID,
				Title:       m.Title,
				Description: m.Description,
				CreatedAt:   m.CreatedAt,
			})
		}
	}

	if wantType(SearchTypeIdea) {
		ideas := make([]db.Idea, 0)
		if err := s.searchTable("ideas", ownerID, pattern, nil,
			&ideas, "title", "content", "tags", "category"); err != nil {
			return nil, err
		}
		for _, m := range ideas {
			hits = append(hits, SearchHit{
				Type:        SearchTypeIdea,
				ID:          m.ID,
				Title:       m.Title,
				Description: m.Content,
				Category:    m.Category,
				CreatedAt:   m.CreatedAt,
			})
		}
	}

	sortHits(hits, sortOrder)
	return hits, nil
}

func (s *Stats) searchTable(table string, ownerID uint64, pattern string, extra squirrel.Sqlizer, dest interface{}, columns ...string) error {
	match := make(squirrel.Or, 0, len(columns))
	for _, column := range columns {
		match = append(match, squirrel.Expr("LOWER("+column+") LIKE ?", pattern))
	}

	b := squirrel.
		Select("*").
		From(table).
		Where(squirrel.Eq{"user_id": ownerID}).
		Where(match)
	if extra != nil {
		b = b.Where(extra)
	}
	sql, args, err := b.ToSql()
	if err != nil {
		return errors.Wrapf(err, "build search sql for %s", table)
	}
	if err := s.db.Raw(sql, args...).Scan(dest).Error; err != nil {
		return errors.Wrapf(err, "search %s", table)
	}
	return nil
}

func sortHits(hits []SearchHit, sortOrder string) {
	switch sortOrder {
	case SortOldest:
		sort.SliceStable(hits, func(i, j int) bool {
			return hits[i].CreatedAt.Before(hits[j].CreatedAt)
		})
	case SortPriority:
		rank := map[string]int{
			db.PriorityHigh:   3,
			db.PriorityMedium: 2,
			db.PriorityLow:    1,
		}
		sort.SliceStable(hits, func(i, j int) bool {
			return rank[hits[i].Priority] > rank[hits[j].Priority]
		})
	default: // newest
		sort.SliceStable(hits, func(i, j int) bool {
			return hits[i].CreatedAt.After(hits[j].CreatedAt)
		})
	}
}

package recommend

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/coursely/internal/course"
	"github.com/at-ishikawa/coursely/internal/database"
	"github.com/at-ishikawa/coursely/internal/enrollment"
	"github.com/at-ishikawa/coursely/internal/interaction"
)

func intPtr(v int) *int { return &v }

func ids(recs []Recommendation) []string {
	result := make([]string, len(recs))
	for i, r := range recs {
		result[i] = r.Course.ID
	}
	return result
}

func TestRecommend_RanksMatchingBeginnerCourseFirst(t *testing.T) {
	profile := Profile{SkillLevel: course.Beginner, PreferredTopics: []string{"AI", "Python"}}
	catalog := []course.Course{
		{ID: "y", Difficulty: course.Advanced, Topics: database.StringList{"Design"}},
		{ID: "x", Difficulty: course.Beginner, Topics: database.StringList{"AI", "Python", "Stats"}},
	}

	got, err := Recommend(profile, catalog, nil, nil, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, ids(got))
	assert.InDelta(t, 70.0, got[0].MatchScore, 1e-9)
	assert.InDelta(t, 0.0, got[1].MatchScore, 1e-9)
}

func TestRecommend_Scoring(t *testing.T) {
	tests := []struct {
		name         string
		profile      Profile
		catalog      []course.Course
		interactions []interaction.Interaction
		wantScore    float64
	}{
		{
			name:    "adjacent level adds one",
			profile: Profile{SkillLevel: course.Intermediate},
			catalog: []course.Course{{ID: "a", Difficulty: course.Advanced}},
			// 1 * 10
			wantScore: 10,
		},
		{
			name:      "unknown level adds nothing",
			profile:   Profile{SkillLevel: "expert"},
			catalog:   []course.Course{{ID: "a", Difficulty: "expert"}},
			wantScore: 0,
		},
		{
			name:      "popularity and rating",
			profile:   Profile{},
			catalog:   []course.Course{{ID: "a", TotalEnrollments: 99, Rating: 4.5}},
			wantScore: (0.1*math.Log(100) + 0.2*4.5) * 10,
		},
		{
			name:    "positive interaction on a similar course",
			profile: Profile{},
			catalog: []course.Course{
				{ID: "a", Category: "AI", Topics: database.StringList{"AI", "Python"}},
				{ID: "liked", Category: "AI", Topics: database.StringList{"AI", "Python", "Stats"}},
			},
			interactions: []interaction.Interaction{
				{CourseID: "liked", InteractionType: interaction.TypeLike},
				{CourseID: "liked", InteractionType: interaction.TypeView, TimeSpent: intPtr(600)},
				{CourseID: "liked", InteractionType: interaction.TypeView, TimeSpent: intPtr(60)},
			},
			// two positive interactions, each +1 category +0.5*2 topics
			wantScore: 40,
		},
		{
			name:    "interactions on the scored course itself are ignored",
			profile: Profile{},
			catalog: []course.Course{{ID: "a", Category: "AI", Topics: database.StringList{"AI"}}},
			interactions: []interaction.Interaction{
				{CourseID: "a", InteractionType: interaction.TypeComplete},
			},
			wantScore: 0,
		},
		{
			name:    "interactions on courses outside the catalog are ignored",
			profile: Profile{},
			catalog: []course.Course{{ID: "a", Category: "AI"}},
			interactions: []interaction.Interaction{
				{CourseID: "retired", InteractionType: interaction.TypeLike},
			},
			wantScore: 0,
		},
		{
			name:    "score is capped at 100",
			profile: Profile{SkillLevel: course.Beginner, PreferredTopics: []string{"a", "b", "c", "d", "e"}},
			catalog: []course.Course{
				{ID: "a", Difficulty: course.Beginner, Topics: database.StringList{"a", "b", "c", "d", "e"}, Rating: 5},
			},
			wantScore: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Recommend(tt.profile, tt.catalog, tt.interactions, nil, 0)
			require.NoError(t, err)
			require.NotEmpty(t, got)
			assert.Equal(t, "a", got[0].Course.ID)
			assert.InDelta(t, tt.wantScore, got[0].MatchScore, 1e-9)
		})
	}
}

func TestRecommend_Properties(t *testing.T) {
	profile := Profile{SkillLevel: course.Intermediate, PreferredTopics: []string{"Go", "Cloud", "AI"}}
	catalog := make([]course.Course, 0, 20)
	topics := [][]string{{"Go"}, {"Cloud", "AI"}, {"Design"}, {"Go", "Cloud", "AI", "Ops"}, {}}
	levels := []course.Difficulty{course.Beginner, course.Intermediate, course.Advanced}
	for i := 0; i < 20; i++ {
		catalog = append(catalog, course.Course{
			ID:               string(rune('a' + i)),
			Category:         []string{"Dev", "Data"}[i%2],
			Difficulty:       levels[i%3],
			Topics:           topics[i%len(topics)],
			Rating:           float64(i%6) * 0.9,
			TotalEnrollments: i * 37,
		})
	}
	interactions := []interaction.Interaction{
		{CourseID: "b", InteractionType: interaction.TypeComplete},
		{CourseID: "d", InteractionType: interaction.TypeLike},
		{CourseID: "e", InteractionType: interaction.TypeView, TimeSpent: intPtr(900)},
	}
	enrolled := []string{"a", "d", "h", "zz"}

	first, err := Recommend(profile, catalog, interactions, enrolled, 15)
	require.NoError(t, err)
	second, err := Recommend(profile, catalog, interactions, enrolled, 15)
	require.NoError(t, err)

	t.Run("deterministic", func(t *testing.T) {
		assert.Equal(t, first, second)
	})
	t.Run("enrolled courses never appear", func(t *testing.T) {
		for _, r := range first {
			assert.NotContains(t, enrolled, r.Course.ID)
		}
	})
	t.Run("scores within bounds and sorted", func(t *testing.T) {
		assert.Len(t, first, 15)
		for i, r := range first {
			assert.GreaterOrEqual(t, r.MatchScore, 0.0)
			assert.LessOrEqual(t, r.MatchScore, 100.0)
			if i > 0 {
				assert.GreaterOrEqual(t, first[i-1].MatchScore, r.MatchScore)
			}
		}
	})
}

func TestRecommend_Limits(t *testing.T) {
	catalog := make([]course.Course, 0, 10)
	for i := 0; i < 10; i++ {
		catalog = append(catalog, course.Course{ID: string(rune('a' + i))})
	}

	tests := []struct {
		name    string
		catalog []course.Course
		limit   int
		wantIDs []string
		wantErr error
	}{
		{name: "zero uses default of six and keeps catalog order on ties", catalog: catalog, limit: 0, wantIDs: []string{"a", "b", "c", "d", "e", "f"}},
		{name: "explicit limit", catalog: catalog, limit: 2, wantIDs: []string{"a", "b"}},
		{name: "limit above catalog size", catalog: catalog[:3], limit: 10, wantIDs: []string{"a", "b", "c"}},
		{name: "empty catalog", catalog: nil, limit: 6, wantIDs: []string{}},
		{name: "negative limit", catalog: catalog, limit: -1, wantErr: ErrInvalidLimit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Recommend(Profile{}, tt.catalog, nil, nil, tt.limit)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.ErrorIs(t, err, enrollment.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantIDs, ids(got))
		})
	}
}

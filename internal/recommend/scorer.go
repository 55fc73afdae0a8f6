// Package recommend ranks catalog courses a user has not enrolled in.
package recommend

import (
	"fmt"
	"math"
	"sort"

	"github.com/at-ishikawa/coursely/internal/course"
	"github.com/at-ishikawa/coursely/internal/enrollment"
	"github.com/at-ishikawa/coursely/internal/interaction"
)

// DefaultLimit is used when a limit of 0 is requested.
const DefaultLimit = 6

const (
	topicMatchWeight   = 2.0
	sameLevelBonus     = 3.0
	adjacentLevelBonus = 1.0
	sameCategoryBonus  = 1.0
	sharedTopicWeight  = 0.5
	popularityWeight   = 0.1
	ratingWeight       = 0.2
	matchScoreScale    = 10.0
	maxMatchScore      = 100.0
)

// ErrInvalidLimit is returned for a negative limit.
var ErrInvalidLimit = fmt.Errorf("%w: limit must not be negative", enrollment.ErrInvalidInput)

// Profile is the part of a user the scorer looks at.
type Profile struct {
	SkillLevel      course.Difficulty
	PreferredTopics []string
}

// Recommendation is a course with its 0-100 match score.
type Recommendation struct {
	Course     course.Course `json:"course"`
	MatchScore float64       `json:"matchScore"`
}

// Recommend scores every catalog course whose id is not in enrolledCourseIDs and returns the best limit
// of them, highest match score first. Equal scores keep catalog order.
func Recommend(profile Profile, catalog []course.Course, interactions []interaction.Interaction, enrolledCourseIDs []string, limit int) ([]Recommendation, error) {
	if limit < 0 {
		return nil, ErrInvalidLimit
	}
	if limit == 0 {
		limit = DefaultLimit
	}

	enrolled := toSet(enrolledCourseIDs)
	preferred := toSet(profile.PreferredTopics)
	byID := make(map[string]*course.Course, len(catalog))
	for i := range catalog {
		if _, ok := byID[catalog[i].ID]; !ok {
			byID[catalog[i].ID] = &catalog[i]
		}
	}
	var positive []*course.Course
	for _, in := range interactions {
		if !in.Positive() {
			continue
		}
		if c, ok := byID[in.CourseID]; ok {
			positive = append(positive, c)
		}
	}

	recommendations := make([]Recommendation, 0, len(catalog))
	for _, c := range catalog {
		if _, ok := enrolled[c.ID]; ok {
			continue
		}
		score := contentScore(c, profile.SkillLevel, preferred) +
			collaborativeScore(c, positive) +
			popularityWeight*math.Log(float64(c.TotalEnrollments)+1) +
			ratingWeight*c.Rating
		recommendations = append(recommendations, Recommendation{
			Course:     c,
			MatchScore: clamp(score*matchScoreScale, 0, maxMatchScore),
		})
	}

	sort.SliceStable(recommendations, func(i, j int) bool {
		return recommendations[i].MatchScore > recommendations[j].MatchScore
	})
	if len(recommendations) > limit {
		recommendations = recommendations[:limit]
	}
	return recommendations, nil
}

func contentScore(c course.Course, level course.Difficulty, preferred map[string]struct{}) float64 {
	score := topicMatchWeight * float64(countShared(c.Topics, preferred))

	userLevel, userOK := level.Ordinal()
	courseLevel, courseOK := c.Difficulty.Ordinal()
	if !userOK || !courseOK {
		return score
	}
	switch distance := userLevel - courseLevel; {
	case distance == 0:
		score += sameLevelBonus
	case distance == 1 || distance == -1:
		score += adjacentLevelBonus
	}
	return score
}

// collaborativeScore rewards similarity to courses the user reacted to positively, other than c itself.
func collaborativeScore(c course.Course, positive []*course.Course) float64 {
	if len(positive) == 0 {
		return 0
	}
	topics := toSet(c.Topics)
	var score float64
	for _, other := range positive {
		if other.ID == c.ID {
			continue
		}
		if other.Category == c.Category {
			score += sameCategoryBonus
		}
		score += sharedTopicWeight * float64(countShared(other.Topics, topics))
	}
	return score
}

func countShared(topics []string, set map[string]struct{}) int {
	seen := make(map[string]struct{}, len(topics))
	n := 0
	for _, t := range topics {
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		if _, ok := set[t]; ok {
			n++
		}
	}
	return n
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		set[item] = struct{}{}
	}
	return set
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

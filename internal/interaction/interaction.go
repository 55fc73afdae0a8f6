// Package interaction provides the append-only log of user interactions with courses.
package interaction

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/at-ishikawa/coursely/internal/database"
)

// ErrInvalidType is returned for an interaction type outside the known set.
var ErrInvalidType = errors.New("invalid interaction type")

// Type is the kind of an interaction.
type Type string

const (
	TypeView     Type = "view"
	TypeEnroll   Type = "enroll"
	TypeLike     Type = "like"
	TypeComplete Type = "complete"
	TypeRate     Type = "rate"
	TypeShare    Type = "share"
)

// LongDwellSeconds is the time spent above which any interaction counts as positive.
const LongDwellSeconds = 300

// Valid reports whether t is a known interaction type.
func (t Type) Valid() bool {
	switch t {
	case TypeView, TypeEnroll, TypeLike, TypeComplete, TypeRate, TypeShare:
		return true
	}
	return false
}

// Interaction is one recorded user action on a course.
type Interaction struct {
	ID              string    `db:"id" json:"id"`
	UserID          string    `db:"user_id" json:"userId"`
	CourseID        string    `db:"course_id" json:"courseId"`
	InteractionType Type      `db:"interaction_type" json:"interactionType"`
	TimeSpent       *int      `db:"time_spent" json:"timeSpent,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"createdAt"`
}

// Positive reports whether the interaction signals interest: a like, a completion, or a long dwell.
func (i Interaction) Positive() bool {
	if i.InteractionType == TypeLike || i.InteractionType == TypeComplete {
		return true
	}
	return i.TimeSpent != nil && *i.TimeSpent > LongDwellSeconds
}

//go:generate mockgen -source=interaction.go -destination=../mocks/interaction/mock_interaction.go -package=mock_interaction

// Repository defines operations for the interaction log.
type Repository interface {
	Create(ctx context.Context, i *Interaction) error
	BatchCreate(ctx context.Context, interactions []Interaction) error
	FindByUser(ctx context.Context, userID string) ([]Interaction, error)
}

// DBRepository implements Repository using MySQL.
type DBRepository struct {
	db *sqlx.DB
}

// NewDBRepository creates a new DBRepository.
func NewDBRepository(db *sqlx.DB) *DBRepository {
	return &DBRepository{db: db}
}

// Create inserts one interaction, filling in ID and CreatedAt when unset.
func (r *DBRepository) Create(ctx context.Context, i *Interaction) error {
	if !i.InteractionType.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidType, i.InteractionType)
	}
	fillDefaults(i)
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO user_interactions (id, user_id, course_id, interaction_type, time_spent, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		i.ID, i.UserID, i.CourseID, i.InteractionType, i.TimeSpent, i.CreatedAt)
	if err != nil {
		return fmt.Errorf("db.ExecContext(insert user_interaction) > %w", err)
	}
	return nil
}

// BatchCreate inserts interactions with a single multi-row statement.
func (r *DBRepository) BatchCreate(ctx context.Context, interactions []Interaction) error {
	if len(interactions) == 0 {
		return nil
	}
	columns := []string{"id", "user_id", "course_id", "interaction_type", "time_spent", "created_at"}
	args := make([]any, 0, len(interactions)*len(columns))
	for idx := range interactions {
		i := &interactions[idx]
		if !i.InteractionType.Valid() {
			return fmt.Errorf("%w: %q", ErrInvalidType, i.InteractionType)
		}
		fillDefaults(i)
		args = append(args, i.ID, i.UserID, i.CourseID, i.InteractionType, i.TimeSpent, i.CreatedAt)
	}
	query := database.BuildMultiRowInsert("user_interactions", columns, len(interactions))
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("db.ExecContext(batch insert user_interactions) > %w", err)
	}
	return nil
}

// FindByUser returns the user's interactions, oldest first.
func (r *DBRepository) FindByUser(ctx context.Context, userID string) ([]Interaction, error) {
	var interactions []Interaction
	if err := r.db.SelectContext(ctx, &interactions,
		"SELECT * FROM user_interactions WHERE user_id = ? ORDER BY created_at, id", userID); err != nil {
		return nil, fmt.Errorf("db.SelectContext(user_interactions by user) > %w", err)
	}
	return interactions, nil
}

func fillDefaults(i *Interaction) {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	if i.CreatedAt.IsZero() {
		i.CreatedAt = time.Now().UTC()
	}
}

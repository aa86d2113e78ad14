package repositories

import (
	"context"
	"time"

	"github.com/ddex3/Shaked-Role-Economy-Gamification-Discord-Bot-sub001/gamebot/database/models"
	"github.com/uptrace/bun"
)

type QuestRepository interface {
	DefinitionsByType(ctx context.Context, questType string) ([]*models.QuestDefinition, error)
	// RandomDefinitions selects count period-matching definitions without
	// replacement.
	RandomDefinitions(ctx context.Context, questType string, count int) ([]*models.QuestDefinition, error)
	CreateDefinition(ctx context.Context, def *models.QuestDefinition) error
	// Assignments returns every assignment for the user with its definition
	// loaded. Expiry is decided lazily by the caller from assigned_at.
	Assignments(ctx context.Context, userID string) ([]*models.UserQuest, error)
	CreateAssignment(ctx context.Context, assignment *models.UserQuest) error
	UpdateProgress(ctx context.Context, assignment *models.UserQuest) error
	// Complete transitions an assignment to the terminal completed state.
	// The conditional write makes the transition happen at most once; a
	// false return means another caller already completed it. A non-nil
	// reward runs inside the same transaction against a transaction-scoped
	// user store, so the completed flag and the reward writes commit or
	// roll back together.
	Complete(ctx context.Context, assignmentID int64, progress int64, claimedAt time.Time, reward func(ctx context.Context, users UserRepository) error) (bool, error)
}

type questRepository struct {
	db *bun.DB
}

func NewQuestRepository(db *bun.DB) QuestRepository {
	return &questRepository{db: db}
}

func (r *questRepository) DefinitionsByType(ctx context.Context, questType string) ([]*models.QuestDefinition, error) {
	var defs []*models.QuestDefinition
	err := r.db.NewSelect().
		Model(&defs).
		Where("type = ?", questType).
		Order("quest_id ASC").
		Scan(ctx)
	return defs, err
}

func (r *questRepository) RandomDefinitions(ctx context.Context, questType string, count int) ([]*models.QuestDefinition, error) {
	var defs []*models.QuestDefinition
	err := r.db.NewSelect().
		Model(&defs).
		Where("type = ?", questType).
		OrderExpr("RANDOM()").
		Limit(count).
		Scan(ctx)
	return defs, err
}

func (r *questRepository) CreateDefinition(ctx context.Context, def *models.QuestDefinition) error {
	def.CreatedAt = time.Now()
	def.UpdatedAt = time.Now()
	_, err := r.db.NewInsert().Model(def).Exec(ctx)
	return err
}

func (r *questRepository) Assignments(ctx context.Context, userID string) ([]*models.UserQuest, error) {
	var assignments []*models.UserQuest
	err := r.db.NewSelect().
		Model(&assignments).
		Relation("QuestDefinition").
		Where("uq.user_id = ?", userID).
		Order("uq.assigned_at DESC", "uq.quest_id ASC").
		Scan(ctx)
	return assignments, err
}

func (r *questRepository) CreateAssignment(ctx context.Context, assignment *models.UserQuest) error {
	assignment.CreatedAt = time.Now()
	assignment.UpdatedAt = time.Now()
	_, err := r.db.NewInsert().Model(assignment).Exec(ctx)
	return err
}

func (r *questRepository) UpdateProgress(ctx context.Context, assignment *models.UserQuest) error {
	_, err := r.db.NewUpdate().
		Model((*models.UserQuest)(nil)).
		Set("progress = ?", assignment.Progress).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", assignment.ID).
		Where("completed = false").
		Exec(ctx)
	return err
}

func (r *questRepository) Complete(ctx context.Context, assignmentID int64, progress int64, claimedAt time.Time, reward func(ctx context.Context, users UserRepository) error) (bool, error) {
	transitioned := false
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewUpdate().
			Model((*models.UserQuest)(nil)).
			Set("progress = ?", progress).
			Set("completed = true").
			Set("claimed_at = ?", claimedAt).
			Set("updated_at = ?", time.Now()).
			Where("id = ?", assignmentID).
			Where("completed = false").
			Exec(ctx)
		if err != nil {
			return err
		}

		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return nil
		}
		transitioned = true

		if reward != nil {
			return reward(ctx, NewUserRepository(tx))
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return transitioned, nil
}

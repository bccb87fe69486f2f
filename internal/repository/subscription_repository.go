package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/corpai/corp-agent-backend/internal/model"
)

// SubscriptionStore covers the plan catalogue and per-user grants.
type SubscriptionStore interface {
	// ListPlans returns the full catalogue ordered by price.
	ListPlans(ctx context.Context) ([]model.SubscriptionPlan, error)
	// GetPlanByID fetches one plan. sql.ErrNoRows when unknown.
	GetPlanByID(ctx context.Context, id uint64) (model.SubscriptionPlan, error)
	// GetPlanByName fetches one plan by its unique name.
	GetPlanByName(ctx context.Context, name string) (model.SubscriptionPlan, error)
	// ActiveForUser returns the user's governing grant and its plan:
	// the active, unexpired grant with the latest end date.
	// sql.ErrNoRows when the user holds no current grant.
	ActiveForUser(ctx context.Context, userID uint64, now time.Time) (model.UserSubscription, model.SubscriptionPlan, error)
	// ActiveForUserAndPlan returns the user's current grant of one
	// specific plan, used to make subscribe idempotent.
	ActiveForUserAndPlan(ctx context.Context, userID, planID uint64, now time.Time) (model.UserSubscription, error)
	// Create inserts a grant and returns its id.
	Create(ctx context.Context, s *model.UserSubscription) (uint64, error)
}

// SubscriptionRepo implements SubscriptionStore on MySQL.
type SubscriptionRepo struct{ DB *sql.DB }

func NewSubscriptionRepo(db *sql.DB) *SubscriptionRepo { return &SubscriptionRepo{DB: db} }

const planColumns = "id,name,price,duration_days,features"

// ListPlans returns the catalogue, cheapest first.
func (r *SubscriptionRepo) ListPlans(ctx context.Context) ([]model.SubscriptionPlan, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+planColumns+" FROM subscription_plans ORDER BY price ASC, id ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plans []model.SubscriptionPlan
	for rows.Next() {
		var p model.SubscriptionPlan
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.DurationDays, &p.Features); err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	return plans, rows.Err()
}

// GetPlanByID fetches a plan by id.
func (r *SubscriptionRepo) GetPlanByID(ctx context.Context, id uint64) (model.SubscriptionPlan, error) {
	var p model.SubscriptionPlan
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+planColumns+" FROM subscription_plans WHERE id=? LIMIT 1", id).
		Scan(&p.ID, &p.Name, &p.Price, &p.DurationDays, &p.Features)
	return p, err
}

// GetPlanByName fetches a plan by its unique name.
func (r *SubscriptionRepo) GetPlanByName(ctx context.Context, name string) (model.SubscriptionPlan, error) {
	var p model.SubscriptionPlan
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+planColumns+" FROM subscription_plans WHERE name=? LIMIT 1", name).
		Scan(&p.ID, &p.Name, &p.Price, &p.DurationDays, &p.Features)
	return p, err
}

// ActiveForUser returns the grant that currently governs the user, joined
// with its plan. When grants overlap the one ending last wins.
func (r *SubscriptionRepo) ActiveForUser(ctx context.Context, userID uint64, now time.Time) (model.UserSubscription, model.SubscriptionPlan, error) {
	var s model.UserSubscription
	var p model.SubscriptionPlan
	err := r.DB.QueryRowContext(ctx,
		`SELECT s.id, s.user_id, s.plan_id, s.start_date, s.end_date, s.active,
		        p.id, p.name, p.price, p.duration_days, p.features
		 FROM user_subscriptions s
		 JOIN subscription_plans p ON p.id = s.plan_id
		 WHERE s.user_id=? AND s.active=1 AND s.end_date > ?
		 ORDER BY s.end_date DESC LIMIT 1`,
		userID, now).Scan(
		&s.ID, &s.UserID, &s.PlanID, &s.StartDate, &s.EndDate, &s.Active,
		&p.ID, &p.Name, &p.Price, &p.DurationDays, &p.Features)
	return s, p, err
}

// ActiveForUserAndPlan returns the user's current grant of one plan.
func (r *SubscriptionRepo) ActiveForUserAndPlan(ctx context.Context, userID, planID uint64, now time.Time) (model.UserSubscription, error) {
	var s model.UserSubscription
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, user_id, plan_id, start_date, end_date, active
		 FROM user_subscriptions
		 WHERE user_id=? AND plan_id=? AND active=1 AND end_date > ?
		 ORDER BY end_date DESC LIMIT 1`,
		userID, planID, now).Scan(
		&s.ID, &s.UserID, &s.PlanID, &s.StartDate, &s.EndDate, &s.Active)
	return s, err
}

// Create inserts a grant and returns its ID.
func (r *SubscriptionRepo) Create(ctx context.Context, s *model.UserSubscription) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO user_subscriptions (user_id, plan_id, start_date, end_date, active) VALUES (?,?,?,?,?)",
		s.UserID, s.PlanID, s.StartDate, s.EndDate, s.Active)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	s.ID = uint64(id)
	return s.ID, nil
}

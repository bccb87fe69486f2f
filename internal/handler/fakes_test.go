package handler

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/corpai/corp-agent-backend/internal/model"
	"github.com/corpai/corp-agent-backend/internal/repository"
)

// fakeStore holds in-memory state shared by the three store fakes, seeded
// like the production schema so handlers run against realistic data.
type fakeStore struct {
	mu        sync.Mutex
	users     map[uint64]model.User
	nextUser  uint64
	roles     []model.Role
	plans     []model.SubscriptionPlan
	subs      []model.UserSubscription
	nextGrant uint64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users: make(map[uint64]model.User),
		roles: []model.Role{
			{ID: 1, Name: model.RoleAdmin},
			{ID: 2, Name: model.RoleUser},
			{ID: 3, Name: model.RoleFinance},
			{ID: 4, Name: model.RoleNetworkOps},
			{ID: 5, Name: model.RoleFraudTeam},
		},
		plans: []model.SubscriptionPlan{
			{ID: 1, Name: model.PlanBasic, Price: 0, DurationDays: 30, Features: "basic_tools"},
			{ID: 2, Name: model.PlanProfessional, Price: 19.99, DurationDays: 30, Features: "basic_tools,hr_tools,reviews,social_media"},
			{ID: 3, Name: model.PlanEnterprise, Price: 49.99, DurationDays: 30, Features: "basic_tools,hr_tools,reviews,social_media,legal,supply_chain"},
		},
	}
}

// The store interfaces overlap in method names, so each gets its own view
// over the shared state.
type fakeUsers struct{ *fakeStore }
type fakeRoles struct{ *fakeStore }
type fakeSubs struct{ *fakeStore }

func (f *fakeStore) userView() repository.UserStore         { return fakeUsers{f} }
func (f *fakeStore) roleView() repository.RoleStore         { return fakeRoles{f} }
func (f *fakeStore) subsView() repository.SubscriptionStore { return fakeSubs{f} }

// ----- repository.UserStore -----

func (f fakeUsers) Create(_ context.Context, u *model.User) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !u.HasPassword() && !u.HasOAuth() {
		return 0, repository.ErrNoAuthMethod
	}
	u.Email = repository.NormalizeEmail(u.Email)
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return 0, repository.ErrEmailExists
		}
	}
	f.nextUser++
	u.ID = f.nextUser
	u.CreatedAt = time.Now().UTC()
	u.UpdatedAt = u.CreatedAt
	f.users[u.ID] = *u
	return u.ID, nil
}

func (f fakeUsers) GetByEmail(_ context.Context, email string) (model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	email = repository.NormalizeEmail(email)
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, sql.ErrNoRows
}

func (f fakeUsers) GetByID(_ context.Context, id uint64) (model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return model.User{}, sql.ErrNoRows
	}
	return u, nil
}

func (f fakeUsers) GetByOAuth(_ context.Context, provider, oauthID string) (model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.HasOAuth() && *u.OAuthProvider == provider && *u.OAuthID == oauthID {
			return u, nil
		}
	}
	return model.User{}, sql.ErrNoRows
}

func (f fakeUsers) LinkOAuth(_ context.Context, userID uint64, provider, oauthID string, fullName, pictureURL *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return sql.ErrNoRows
	}
	u.OAuthProvider = &provider
	u.OAuthID = &oauthID
	if fullName != nil {
		u.FullName = *fullName
	}
	if pictureURL != nil {
		u.ProfilePictureURL = pictureURL
	}
	u.IsVerified = true
	f.users[userID] = u
	return nil
}

func (f fakeUsers) RefreshOAuthProfile(_ context.Context, userID uint64, fullName, pictureURL *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return sql.ErrNoRows
	}
	if fullName != nil {
		u.FullName = *fullName
	}
	if pictureURL != nil {
		u.ProfilePictureURL = pictureURL
	}
	f.users[userID] = u
	return nil
}

// ----- repository.RoleStore -----

func (f fakeRoles) GetByName(_ context.Context, name string) (model.Role, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.roles {
		if r.Name == name {
			return r, nil
		}
	}
	return model.Role{}, sql.ErrNoRows
}

func (f fakeRoles) GetByID(_ context.Context, id uint64) (model.Role, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.roles {
		if r.ID == id {
			return r, nil
		}
	}
	return model.Role{}, sql.ErrNoRows
}

// ----- repository.SubscriptionStore -----

func (f fakeSubs) ListPlans(_ context.Context) ([]model.SubscriptionPlan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.SubscriptionPlan, len(f.plans))
	copy(out, f.plans)
	return out, nil
}

func (f fakeSubs) GetPlanByID(_ context.Context, id uint64) (model.SubscriptionPlan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.plans {
		if p.ID == id {
			return p, nil
		}
	}
	return model.SubscriptionPlan{}, sql.ErrNoRows
}

func (f fakeSubs) GetPlanByName(_ context.Context, name string) (model.SubscriptionPlan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.plans {
		if p.Name == name {
			return p, nil
		}
	}
	return model.SubscriptionPlan{}, sql.ErrNoRows
}

func (f fakeSubs) ActiveForUser(_ context.Context, userID uint64, now time.Time) (model.UserSubscription, model.SubscriptionPlan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var best model.UserSubscription
	found := false
	for _, s := range f.subs {
		if s.UserID == userID && s.Current(now) {
			if !found || s.EndDate.After(best.EndDate) {
				best = s
				found = true
			}
		}
	}
	if !found {
		return model.UserSubscription{}, model.SubscriptionPlan{}, sql.ErrNoRows
	}
	for _, p := range f.plans {
		if p.ID == best.PlanID {
			return best, p, nil
		}
	}
	return model.UserSubscription{}, model.SubscriptionPlan{}, sql.ErrNoRows
}

func (f fakeSubs) ActiveForUserAndPlan(_ context.Context, userID, planID uint64, now time.Time) (model.UserSubscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var best model.UserSubscription
	found := false
	for _, s := range f.subs {
		if s.UserID == userID && s.PlanID == planID && s.Current(now) {
			if !found || s.EndDate.After(best.EndDate) {
				best = s
				found = true
			}
		}
	}
	if !found {
		return model.UserSubscription{}, sql.ErrNoRows
	}
	return best, nil
}

func (f fakeSubs) Create(_ context.Context, s *model.UserSubscription) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextGrant++
	s.ID = f.nextGrant
	f.subs = append(f.subs, *s)
	return s.ID, nil
}

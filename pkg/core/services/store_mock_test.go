package services

import (
	"context"
	"sort"
	"time"

	"github.com/communitykitchenhq/shiftdesk/pkg/core/model"
	"github.com/communitykitchenhq/shiftdesk/pkg/db"
)

// mockStore is an in-memory db.Store for service tests. InShiftTx records
// the lock scope and runs the callback against the same maps; the services
// only write after their checks pass, so rollback fidelity is not needed
// here.
type mockStore struct {
	shifts     map[string]*db.Shift
	shiftTypes map[string]*db.ShiftType
	signups    map[string]*db.Signup
	volunteers map[string]*db.Volunteer
	ruleRows   []db.AutoAcceptRule

	lockScopes [][]string

	txErr error // forced error, returned before fn runs
}

func newMockStore() *mockStore {
	return &mockStore{
		shifts:     make(map[string]*db.Shift),
		shiftTypes: make(map[string]*db.ShiftType),
		signups:    make(map[string]*db.Signup),
		volunteers: make(map[string]*db.Volunteer),
	}
}

func (m *mockStore) addShift(s db.Shift) *db.Shift {
	copied := s
	m.shifts[s.ID] = &copied
	return &copied
}

func (m *mockStore) addShiftType(st db.ShiftType) {
	copied := st
	m.shiftTypes[st.ID] = &copied
}

func (m *mockStore) addSignup(s db.Signup) *db.Signup {
	copied := s
	m.signups[s.ID] = &copied
	return &copied
}

func (m *mockStore) addVolunteer(v db.Volunteer) *db.Volunteer {
	copied := v
	m.volunteers[v.ID] = &copied
	return &copied
}

// TxRunner

func (m *mockStore) InShiftTx(ctx context.Context, shiftIDs []string, fn func(tx db.ShiftTx) error) error {
	m.lockScopes = append(m.lockScopes, shiftIDs)
	if m.txErr != nil {
		return m.txErr
	}
	return fn(m)
}

// ShiftTx + ShiftStore

func (m *mockStore) GetShift(ctx context.Context, shiftID string) (*db.Shift, error) {
	shift, ok := m.shifts[shiftID]
	if !ok {
		return nil, model.ErrShiftNotFound
	}
	copied := *shift
	return &copied, nil
}

func (m *mockStore) CountConfirmed(ctx context.Context, shiftID string) (int, error) {
	count := 0
	for _, signup := range m.signups {
		if signup.ShiftID == shiftID && signup.Status == model.StatusConfirmed {
			count++
		}
	}
	return count, nil
}

func (m *mockStore) GetSignup(ctx context.Context, signupID string) (*db.Signup, error) {
	signup, ok := m.signups[signupID]
	if !ok {
		return nil, model.ErrSignupNotFound
	}
	copied := *signup
	return &copied, nil
}

func (m *mockStore) GetSignupForVolunteerAndShift(ctx context.Context, volunteerID, shiftID string) (*db.Signup, error) {
	for _, signup := range m.signups {
		if signup.VolunteerID == volunteerID && signup.ShiftID == shiftID {
			copied := *signup
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *mockStore) ListConfirmedForVolunteerBetween(ctx context.Context, volunteerID string, from, to time.Time) ([]db.Signup, error) {
	var results []db.Signup
	for _, signup := range m.signups {
		if signup.VolunteerID != volunteerID || signup.Status != model.StatusConfirmed {
			continue
		}
		shift, ok := m.shifts[signup.ShiftID]
		if !ok {
			continue
		}
		if !shift.Start.Before(from) && shift.Start.Before(to) {
			results = append(results, *signup)
		}
	}
	return results, nil
}

func (m *mockStore) ListWaitlisted(ctx context.Context, shiftID string) ([]db.Signup, error) {
	var results []db.Signup
	for _, signup := range m.signups {
		if signup.ShiftID == shiftID && signup.Status == model.StatusWaitlisted {
			results = append(results, *signup)
		}
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].CreatedAt.Before(results[j].CreatedAt)
	})
	return results, nil
}

func (m *mockStore) InsertSignup(ctx context.Context, signup *db.Signup) error {
	copied := *signup
	m.signups[signup.ID] = &copied
	return nil
}

func (m *mockStore) UpdateSignup(ctx context.Context, signup *db.Signup) error {
	if _, ok := m.signups[signup.ID]; !ok {
		return model.ErrSignupNotFound
	}
	copied := *signup
	m.signups[signup.ID] = &copied
	return nil
}

func (m *mockStore) ListShiftsBetween(ctx context.Context, from, to time.Time) ([]db.Shift, error) {
	var results []db.Shift
	for _, shift := range m.shifts {
		if !shift.Start.Before(from) && shift.Start.Before(to) {
			results = append(results, *shift)
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Start.Before(results[j].Start) })
	return results, nil
}

func (m *mockStore) InsertShifts(ctx context.Context, shifts []db.Shift) error {
	for _, shift := range shifts {
		copied := shift
		m.shifts[shift.ID] = &copied
	}
	return nil
}

func (m *mockStore) GetShiftType(ctx context.Context, shiftTypeID string) (*db.ShiftType, error) {
	shiftType, ok := m.shiftTypes[shiftTypeID]
	if !ok {
		return nil, model.ErrShiftNotFound
	}
	copied := *shiftType
	return &copied, nil
}

func (m *mockStore) ListShiftTypes(ctx context.Context) ([]db.ShiftType, error) {
	var results []db.ShiftType
	for _, shiftType := range m.shiftTypes {
		results = append(results, *shiftType)
	}
	return results, nil
}

// VolunteerStore

func (m *mockStore) GetVolunteer(ctx context.Context, volunteerID string) (*db.Volunteer, error) {
	volunteer, ok := m.volunteers[volunteerID]
	if !ok {
		return nil, model.ErrVolunteerNotFound
	}
	copied := *volunteer
	return &copied, nil
}

func (m *mockStore) ListActiveVolunteers(ctx context.Context) ([]db.Volunteer, error) {
	var results []db.Volunteer
	for _, volunteer := range m.volunteers {
		if volunteer.Active {
			results = append(results, *volunteer)
		}
	}
	return results, nil
}

func (m *mockStore) UpdateVolunteerRecord(ctx context.Context, volunteer *db.Volunteer) error {
	if _, ok := m.volunteers[volunteer.ID]; !ok {
		return model.ErrVolunteerNotFound
	}
	copied := *volunteer
	m.volunteers[volunteer.ID] = &copied
	return nil
}

func (m *mockStore) SetVolunteerActive(ctx context.Context, volunteerID string, active bool) error {
	volunteer, ok := m.volunteers[volunteerID]
	if !ok {
		return model.ErrVolunteerNotFound
	}
	volunteer.Active = active
	return nil
}

// RuleStore

func (m *mockStore) ListRules(ctx context.Context) ([]db.AutoAcceptRule, error) {
	return append([]db.AutoAcceptRule(nil), m.ruleRows...), nil
}

func (m *mockStore) InsertRule(ctx context.Context, rule *db.AutoAcceptRule) error {
	m.ruleRows = append(m.ruleRows, *rule)
	return nil
}

// SignupReader

func (m *mockStore) ListSignupsForShift(ctx context.Context, shiftID string) ([]db.Signup, error) {
	var results []db.Signup
	for _, signup := range m.signups {
		if signup.ShiftID == shiftID {
			results = append(results, *signup)
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].CreatedAt.Before(results[j].CreatedAt) })
	return results, nil
}

func (m *mockStore) ListSignupsForVolunteer(ctx context.Context, volunteerID string) ([]db.Signup, error) {
	var results []db.Signup
	for _, signup := range m.signups {
		if signup.VolunteerID == volunteerID {
			results = append(results, *signup)
		}
	}
	return results, nil
}

// mockNotifier captures published events for assertions
type mockNotifier struct {
	events []model.NotificationEvent
}

func (m *mockNotifier) Publish(event model.NotificationEvent) {
	m.events = append(m.events, event)
}

func (m *mockNotifier) kinds() []model.NotificationKind {
	kinds := make([]model.NotificationKind, len(m.events))
	for i, event := range m.events {
		kinds[i] = event.Kind
	}
	return kinds
}

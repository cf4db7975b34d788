package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/ShepherdBook/models"
)

type memorySelectionStore struct {
	mu         sync.Mutex
	nextID     int
	selections []*models.WeeklySelection
	creates    int
	findErr    error
}

func newMemorySelectionStore() *memorySelectionStore {
	return &memorySelectionStore{nextID: 1}
}

func (s *memorySelectionStore) FindByWeek(ctx context.Context, year, weekNumber int) (*models.WeeklySelection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findErr != nil {
		return nil, s.findErr
	}
	for _, sel := range s.selections {
		if sel.Year == year && sel.Week_Number == weekNumber {
			copied := *sel
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *memorySelectionStore) Create(ctx context.Context, sel models.WeeklySelection) (*models.WeeklySelection, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creates++
	for _, existing := range s.selections {
		if existing.Year == sel.Year && existing.Week_Number == sel.Week_Number {
			copied := *existing
			return &copied, false, nil
		}
	}
	sel.Weekly_Selection_ID = s.nextID
	s.nextID++
	stored := sel
	s.selections = append(s.selections, &stored)
	copied := stored
	return &copied, true, nil
}

func (s *memorySelectionStore) IncrementSendCount(ctx context.Context, selectionID, limit int) (*models.WeeklySelection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sel := range s.selections {
		if sel.Weekly_Selection_ID != selectionID {
			continue
		}
		if sel.Sent_Count >= limit {
			return nil, ErrSendLimitExceeded
		}
		sel.Sent_Count++
		sel.Prayer_Sent = true
		copied := *sel
		return &copied, nil
	}
	return nil, ErrSendLimitExceeded
}

func (s *memorySelectionStore) List(ctx context.Context, limit int) ([]models.WeeklySelection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.WeeklySelection, 0, len(s.selections))
	for _, sel := range s.selections {
		out = append(out, *sel)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year > out[j].Year
		}
		return out[i].Week_Number > out[j].Week_Number
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *memorySelectionStore) get(id int) models.WeeklySelection {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sel := range s.selections {
		if sel.Weekly_Selection_ID == id {
			return *sel
		}
	}
	return models.WeeklySelection{}
}

// memoryCandidatePool reads prior selections straight from the store it is paired with.
type memoryCandidatePool struct {
	store         *memorySelectionStore
	members       []models.Member
	families      []models.Family
	familyMembers map[int][]int
	err           error
}

func (p *memoryCandidatePool) EligibleMembers(ctx context.Context) ([]models.Member, error) {
	if p.err != nil {
		return nil, p.err
	}
	var out []models.Member
	for _, m := range p.members {
		if m.IsEligible() {
			out = append(out, m)
		}
	}
	return out, nil
}

func (p *memoryCandidatePool) AllFamilies(ctx context.Context) ([]models.Family, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.families, nil
}

func (p *memoryCandidatePool) PriorSelections(ctx context.Context) ([]models.SelectionRef, error) {
	if p.err != nil {
		return nil, p.err
	}
	all, _ := p.store.List(ctx, 1<<20)
	refs := make([]models.SelectionRef, 0, len(all))
	for _, sel := range all {
		refs = append(refs, models.SelectionRef{
			Selection_Type: sel.Selection_Type,
			Member_ID:      sel.Member_ID,
			Family_ID:      sel.Family_ID,
		})
	}
	return refs, nil
}

func (p *memoryCandidatePool) Member(ctx context.Context, memberID int) (*models.Member, error) {
	for _, m := range p.members {
		if m.Member_ID == memberID {
			copied := m
			return &copied, nil
		}
	}
	return nil, nil
}

func (p *memoryCandidatePool) Family(ctx context.Context, familyID int) (*models.Family, error) {
	for _, f := range p.families {
		if f.Family_ID == familyID {
			copied := f
			return &copied, nil
		}
	}
	return nil, nil
}

func (p *memoryCandidatePool) FamilyMembers(ctx context.Context, familyID int) ([]models.Member, error) {
	var out []models.Member
	for _, id := range p.familyMembers[familyID] {
		m, _ := p.Member(ctx, id)
		if m != nil {
			out = append(out, *m)
		}
	}
	return out, nil
}

// scriptedRandom replays fixed draws; once exhausted it returns zero.
type scriptedRandom struct {
	mu     sync.Mutex
	floats []float64
	ints   []int
}

func (r *scriptedRandom) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.floats) == 0 {
		return 0
	}
	f := r.floats[0]
	r.floats = r.floats[1:]
	return f
}

func (r *scriptedRandom) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.ints) == 0 {
		return 0
	}
	i := r.ints[0]
	r.ints = r.ints[1:]
	return i % n
}

type fakeSMSSender struct {
	mu      sync.Mutex
	batches [][]SMSMessage
	result  *SMSBatchResult
	err     error
}

func (f *fakeSMSSender) SendBatch(ctx context.Context, messages []SMSMessage) (*SMSBatchResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batches = append(f.batches, messages)
	if f.err != nil {
		return nil, f.err
	}
	if f.result != nil {
		return f.result, nil
	}
	return &SMSBatchResult{SuccessCount: len(messages)}, nil
}

func (f *fakeSMSSender) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.batches)
}

type fakeEmailSender struct {
	mu        sync.Mutex
	attempted []string
	failFor   map[string]bool
}

func (f *fakeEmailSender) SendOne(ctx context.Context, to, subject, html string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attempted = append(f.attempted, to)
	if f.failFor[to] {
		return errors.New("mailbox unavailable")
	}
	return nil
}

type recordedAudit struct {
	user       models.AppUser
	action     string
	entityType string
	entry      AuditEntry
}

type fakeAuditRecorder struct {
	mu      sync.Mutex
	entries []recordedAudit
}

func (f *fakeAuditRecorder) Record(ctx context.Context, user models.AppUser, action, entityType string, entry AuditEntry) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, recordedAudit{user: user, action: action, entityType: entityType, entry: entry})
}

func strPtr(s string) *string { return &s }

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func member(id int, first, last, phone, email string) models.Member {
	m := models.Member{
		Member_ID:         id,
		First_Name:        first,
		Last_Name:         last,
		Membership_Status: models.MembershipStatusActive,
		Life_Status:       models.LifeStatusAlive,
	}
	if phone != "" {
		m.Phone_Number = strPtr(phone)
	}
	if email != "" {
		m.Email = strPtr(email)
	}
	return m
}

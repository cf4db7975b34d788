package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/ShepherdBook/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var adminUser = models.AppUser{App_User_ID: 1, Name: "Pastor Admin", Email: "admin@example.com", Role: models.AppUserRoleAdmin}

type dispatchFixture struct {
	store *memorySelectionStore
	pool  *memoryCandidatePool
	sms   *fakeSMSSender
	email *fakeEmailSender
	audit *fakeAuditRecorder
	svc   *PrayerDispatchService
}

// newDispatchFixture forces the draw onto family X, whose members are A and B.
func newDispatchFixture(members []models.Member) *dispatchFixture {
	store := newMemorySelectionStore()
	ids := make([]int, 0, len(members))
	for _, m := range members {
		ids = append(ids, m.Member_ID)
	}
	pool := &memoryCandidatePool{
		store:         store,
		members:       members,
		families:      []models.Family{{Family_ID: 10, Family_Name: "Smith Family"}},
		familyMembers: map[int][]int{10: ids},
	}
	selections := NewWeeklySelectionService(store, pool, time.UTC,
		WithRandomSource(&scriptedRandom{floats: []float64{0.9}}),
		WithClock(fixedClock(monday)),
	)

	f := &dispatchFixture{
		store: store,
		pool:  pool,
		sms:   &fakeSMSSender{},
		email: &fakeEmailSender{failFor: map[string]bool{}},
		audit: &fakeAuditRecorder{},
	}
	f.svc = NewPrayerDispatchService(selections, store,
		WithSMSSender(f.sms),
		WithEmailSender(f.email),
		WithAuditRecorder(f.audit),
	)
	return f
}

func smithFamily() []models.Member {
	return []models.Member{
		member(1, "Anna", "Smith", "23480000001", "anna@example.com"),
		member(2, "Bola", "Smith", "23480000002", "bola@example.com"),
	}
}

func TestDispatchSMSScenario(t *testing.T) {
	f := newDispatchFixture(smithFamily())
	ctx := context.Background()
	custom := strings.Repeat("a", 170)

	result, err := f.svc.Dispatch(ctx, adminUser, models.PrayerChannelSMS, &custom)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Sent)
	assert.Equal(t, 0, result.Failed)
	assert.Equal(t, 2, result.Total)

	require.Equal(t, 1, f.sms.calls())
	batch := f.sms.batches[0]
	require.Len(t, batch, 2)
	assert.Equal(t, "23480000001", batch[0].To)
	assert.Equal(t, "23480000002", batch[1].To)
	for _, msg := range batch {
		assert.Equal(t, 160, utf8.RuneCountInString(msg.Body))
	}

	sel := f.store.get(1)
	assert.Equal(t, 1, sel.Sent_Count)
	assert.True(t, sel.Prayer_Sent)

	_, err = f.svc.Dispatch(ctx, adminUser, models.PrayerChannelSMS, &custom)
	require.NoError(t, err)
	assert.Equal(t, 2, f.store.get(1).Sent_Count)

	result, err = f.svc.Dispatch(ctx, adminUser, models.PrayerChannelSMS, &custom)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrSendLimitExceeded)
	assert.Equal(t, 2, f.store.get(1).Sent_Count)
	assert.Equal(t, 2, f.sms.calls(), "third dispatch must not reach the provider")
	assert.Len(t, f.audit.entries, 2)
}

func TestDispatchSendCapAppliesAcrossChannels(t *testing.T) {
	f := newDispatchFixture(smithFamily())
	ctx := context.Background()

	_, err := f.svc.Dispatch(ctx, adminUser, models.PrayerChannelSMS, nil)
	require.NoError(t, err)
	_, err = f.svc.Dispatch(ctx, adminUser, models.PrayerChannelEmail, nil)
	require.NoError(t, err)

	_, err = f.svc.Dispatch(ctx, adminUser, models.PrayerChannelEmail, nil)
	assert.ErrorIs(t, err, ErrSendLimitExceeded)
	assert.Len(t, f.email.attempted, 2)
}

func TestDispatchTruncatesLongSMS(t *testing.T) {
	f := newDispatchFixture(smithFamily())
	custom := strings.Repeat("x", 200)

	_, err := f.svc.Dispatch(context.Background(), adminUser, models.PrayerChannelSMS, &custom)
	require.NoError(t, err)
	require.Equal(t, 1, f.sms.calls())
	assert.Equal(t, strings.Repeat("x", 160), f.sms.batches[0][0].Body)
}

func TestDispatchEmailPartialFailure(t *testing.T) {
	members := []models.Member{
		member(1, "Anna", "Smith", "", "anna@example.com"),
		member(2, "Bola", "Smith", "", "bola@example.com"),
		member(3, "Chike", "Smith", "", "chike@example.com"),
	}
	f := newDispatchFixture(members)
	f.email.failFor["bola@example.com"] = true

	result, err := f.svc.Dispatch(context.Background(), adminUser, models.PrayerChannelEmail, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Sent)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 3, result.Total)
	assert.Equal(t, []string{"anna@example.com", "bola@example.com", "chike@example.com"}, f.email.attempted)
	assert.Equal(t, 1, f.store.get(1).Sent_Count)
}

func TestDispatchRendersNamePlaceholder(t *testing.T) {
	f := newDispatchFixture(smithFamily())
	custom := "Praying for {name} today. God bless {name}."

	_, err := f.svc.Dispatch(context.Background(), adminUser, models.PrayerChannelSMS, &custom)
	require.NoError(t, err)
	assert.Equal(t, "Praying for Smith Family today. God bless Smith Family.", f.sms.batches[0][0].Body)
}

func TestDispatchWithoutContacts(t *testing.T) {
	tests := []struct {
		name    string
		members []models.Member
		channel string
		details string
	}{
		{
			name:    "sms without phones",
			members: []models.Member{member(1, "Anna", "Smith", "", "anna@example.com"), member(2, "Bola", "Smith", "  ", "")},
			channel: models.PrayerChannelSMS,
			details: "no valid phone numbers found",
		},
		{
			name:    "email without addresses",
			members: []models.Member{member(1, "Anna", "Smith", "23480000001", "")},
			channel: models.PrayerChannelEmail,
			details: "no valid emails found",
		},
		{
			name:    "family without members",
			members: nil,
			channel: models.PrayerChannelSMS,
			details: "no valid phone numbers found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newDispatchFixture(tt.members)

			result, err := f.svc.Dispatch(context.Background(), adminUser, tt.channel, nil)
			assert.Nil(t, result)
			assert.ErrorIs(t, err, ErrNoContactInfo)
			assert.Contains(t, err.Error(), tt.details)
			assert.Equal(t, 0, f.sms.calls())
			assert.Empty(t, f.email.attempted)
			assert.Equal(t, 0, f.store.get(1).Sent_Count)
			assert.Empty(t, f.audit.entries)
		})
	}
}

func TestDispatchSMSProviderErrorCountsAsFailed(t *testing.T) {
	f := newDispatchFixture(smithFamily())
	f.sms.err = errors.New("gateway timeout")

	result, err := f.svc.Dispatch(context.Background(), adminUser, models.PrayerChannelSMS, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Sent)
	assert.Equal(t, 2, result.Failed)
	assert.Equal(t, 2, result.Total)
	assert.Equal(t, 1, f.store.get(1).Sent_Count)
}

func TestDispatchReportsProviderCounts(t *testing.T) {
	f := newDispatchFixture(smithFamily())
	f.sms.result = &SMSBatchResult{SuccessCount: 1, FailedCount: 1, Errors: []string{"23480000002: invalid number"}}

	result, err := f.svc.Dispatch(context.Background(), adminUser, models.PrayerChannelSMS, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Sent)
	assert.Equal(t, 1, result.Failed)
}

func TestDispatchChannelChecks(t *testing.T) {
	f := newDispatchFixture(smithFamily())

	_, err := f.svc.Dispatch(context.Background(), adminUser, "fax", nil)
	assert.ErrorIs(t, err, ErrUnsupportedChannel)

	noEmail := NewPrayerDispatchService(f.svc.selections, f.store, WithSMSSender(f.sms))
	_, err = noEmail.Dispatch(context.Background(), adminUser, models.PrayerChannelEmail, nil)
	assert.ErrorIs(t, err, ErrChannelUnavailable)

	noSMS := NewPrayerDispatchService(f.svc.selections, f.store, WithEmailSender(f.email))
	_, err = noSMS.Dispatch(context.Background(), adminUser, models.PrayerChannelSMS, nil)
	assert.ErrorIs(t, err, ErrChannelUnavailable)

	assert.Empty(t, f.store.selections, "rejected channels must not create a selection")
}

func TestDispatchWritesAuditEntry(t *testing.T) {
	f := newDispatchFixture(smithFamily())

	_, err := f.svc.Dispatch(context.Background(), adminUser, models.PrayerChannelEmail, nil)
	require.NoError(t, err)

	require.Len(t, f.audit.entries, 1)
	entry := f.audit.entries[0]
	assert.Equal(t, adminUser.App_User_ID, entry.user.App_User_ID)
	assert.Equal(t, models.AuditActionSend, entry.action)
	assert.Equal(t, models.AuditEntityWeeklySelection, entry.entityType)
	assert.Equal(t, "1", entry.entry.EntityID)
	assert.Equal(t, "Smith Family", entry.entry.EntityName)
	assert.Contains(t, entry.entry.Details, "channel=email")
	assert.Contains(t, entry.entry.Details, "sent=2")
}

func TestConcurrentDispatchNeverExceedsCap(t *testing.T) {
	f := newDispatchFixture(smithFamily())

	const callers = 6
	var wg sync.WaitGroup
	var mu sync.Mutex
	var succeeded, limited int
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Dispatch(context.Background(), adminUser, models.PrayerChannelSMS, nil)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, ErrSendLimitExceeded):
				limited++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, models.MaxWeeklyPrayerSends, succeeded)
	assert.Equal(t, callers-models.MaxWeeklyPrayerSends, limited)
	assert.Equal(t, models.MaxWeeklyPrayerSends, f.sms.calls())
	assert.Equal(t, models.MaxWeeklyPrayerSends, f.store.get(1).Sent_Count)
}

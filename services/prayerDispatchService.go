package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/ShepherdBook/initializers"
	"github.com/ShepherdBook/models"
	"go.uber.org/zap"
)

// PrayerDispatchService sends the weekly prayer message to the current selection.
type PrayerDispatchService struct {
	selections *WeeklySelectionService
	store      SelectionStore
	sms        SMSSender
	email      EmailSender
	audit      AuditRecorder
	locker     KeyedLocker
}

type DispatchOption func(*PrayerDispatchService)

func WithSMSSender(sender SMSSender) DispatchOption {
	return func(s *PrayerDispatchService) { s.sms = sender }
}

func WithEmailSender(sender EmailSender) DispatchOption {
	return func(s *PrayerDispatchService) { s.email = sender }
}

func WithAuditRecorder(audit AuditRecorder) DispatchOption {
	return func(s *PrayerDispatchService) { s.audit = audit }
}

func WithDispatchLocker(l KeyedLocker) DispatchOption {
	return func(s *PrayerDispatchService) { s.locker = l }
}

func NewPrayerDispatchService(selections *WeeklySelectionService, store SelectionStore, opts ...DispatchOption) *PrayerDispatchService {
	s := &PrayerDispatchService{
		selections: selections,
		store:      store,
		locker:     NewMemoryLocker(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dispatch sends the prayer message for this week's selection over channel. Individual
// recipient failures are counted in the result, not returned as errors. Each completed
// dispatch uses one of the week's MaxWeeklyPrayerSends.
func (s *PrayerDispatchService) Dispatch(ctx context.Context, user models.AppUser, channel string, customMessage *string) (*models.SendPrayerResult, error) {
	switch channel {
	case models.PrayerChannelSMS:
		if s.sms == nil {
			return nil, fmt.Errorf("%w: sms", ErrChannelUnavailable)
		}
	case models.PrayerChannelEmail:
		if s.email == nil {
			return nil, fmt.Errorf("%w: email", ErrChannelUnavailable)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedChannel, channel)
	}

	current, err := s.selections.Current(ctx)
	if err != nil {
		return nil, err
	}
	key := current.WeekKey()

	unlock, err := s.locker.Lock(ctx, weekLockKey("dispatch", key))
	if err != nil {
		return nil, fmt.Errorf("failed to lock dispatch for week %d-%d: %w", key.Year, key.WeekNumber, err)
	}
	defer unlock()

	// Re-read under the lock so the cap check sees sends that finished while we waited.
	sel, err := s.store.FindByWeek(ctx, key.Year, key.WeekNumber)
	if err != nil {
		return nil, err
	}
	if sel == nil {
		return nil, ErrSelectionNotFound
	}

	if sel.Sent_Count >= models.MaxWeeklyPrayerSends {
		return nil, ErrSendLimitExceeded
	}

	candidate, err := s.selections.Resolve(ctx, *sel)
	if err != nil {
		return nil, err
	}
	recipients := candidate.Recipients()
	contacts := ResolveContacts(candidate)
	displayName := candidate.DisplayName()

	if channel == models.PrayerChannelSMS && len(contacts.Phones) == 0 {
		return nil, fmt.Errorf("%w: no valid phone numbers found", ErrNoContactInfo)
	}
	if channel == models.PrayerChannelEmail && len(contacts.Emails) == 0 {
		return nil, fmt.Errorf("%w: no valid emails found", ErrNoContactInfo)
	}

	message := RenderPrayerMessage(customMessage, displayName)

	var sent, failed int
	if channel == models.PrayerChannelSMS {
		sent, failed = s.sendSMS(ctx, contacts.Phones, message)
	} else {
		sent, failed = s.sendEmails(ctx, contacts.Emails, message)
	}

	// The send attempt is over; finish bookkeeping even if the caller has gone away.
	bookkeeping := context.WithoutCancel(ctx)

	if _, err := s.store.IncrementSendCount(bookkeeping, sel.Weekly_Selection_ID, models.MaxWeeklyPrayerSends); err != nil {
		if errors.Is(err, ErrSendLimitExceeded) {
			initializers.Log.Warn("Send cap reached by a concurrent dispatch",
				zap.Int("weeklySelectionId", sel.Weekly_Selection_ID))
		} else {
			initializers.Log.Error("Failed to record prayer dispatch",
				zap.Int("weeklySelectionId", sel.Weekly_Selection_ID), zap.Error(err))
		}
	}

	if s.audit != nil {
		s.audit.Record(bookkeeping, user, models.AuditActionSend, models.AuditEntityWeeklySelection, AuditEntry{
			EntityID:   strconv.Itoa(sel.Weekly_Selection_ID),
			EntityName: displayName,
			Details: fmt.Sprintf("channel=%s recipients=%d sent=%d failed=%d",
				channel, len(recipients), sent, failed),
		})
	}

	initializers.Log.Info("Prayer message dispatched",
		zap.Int("weeklySelectionId", sel.Weekly_Selection_ID),
		zap.String("channel", channel),
		zap.Int("recipients", len(recipients)),
		zap.Int("sent", sent),
		zap.Int("failed", failed),
	)

	return &models.SendPrayerResult{
		Sent:    sent,
		Failed:  failed,
		Total:   len(recipients),
		Message: fmt.Sprintf("Prayer message sent to %d of %d contacts of %s via %s", sent, sent+failed, displayName, channel),
	}, nil
}

// sendSMS sends one batch. A provider-level error fails every number in it.
func (s *PrayerDispatchService) sendSMS(ctx context.Context, phones []string, message string) (int, int) {
	body := TruncateSMS(message)
	batch := make([]SMSMessage, 0, len(phones))
	for _, phone := range phones {
		batch = append(batch, SMSMessage{To: phone, Body: body})
	}

	result, err := s.sms.SendBatch(ctx, batch)
	if err != nil {
		initializers.Log.Error("SMS batch failed", zap.Int("messages", len(batch)), zap.Error(err))
		return 0, len(batch)
	}
	for _, providerErr := range result.Errors {
		initializers.Log.Warn("SMS recipient failed", zap.String("error", providerErr))
	}
	return result.SuccessCount, result.FailedCount
}

// sendEmails tries every address in order; one failure does not stop the rest.
func (s *PrayerDispatchService) sendEmails(ctx context.Context, emails []string, message string) (int, int) {
	var sent, failed int
	for _, to := range emails {
		if err := SendPrayerEmail(ctx, s.email, to, message); err != nil {
			initializers.Log.Warn("Prayer email failed", zap.String("to", to), zap.Error(err))
			failed++
			continue
		}
		sent++
	}
	return sent, failed
}

var prayerDispatchService *PrayerDispatchService

func SetPrayerDispatchService(s *PrayerDispatchService) {
	prayerDispatchService = s
}

func GetPrayerDispatchService() *PrayerDispatchService {
	return prayerDispatchService
}

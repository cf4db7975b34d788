package services

import (
	"github.com/ShepherdBook/initializers"
	"go.uber.org/zap"
)

// InitWeeklyPrayerServices builds the selection and dispatch singletons from the
// initialized database, optional Redis client and channel services.
func InitWeeklyPrayerServices(cfg *initializers.AppConfig) error {
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	var dispatchLocker KeyedLocker = NewMemoryLocker()
	if initializers.Redis != nil {
		dispatchLocker = NewRedisLocker(initializers.Redis, "shepherd:lock:")
		initializers.Log.Info("Dispatch locks shared through Redis")
	}

	store := NewDBSelectionStore(initializers.DB)
	pool := NewDBCandidatePool(initializers.DB)

	selectionOpts := []SelectionOption{WithSelectionLocker(NewMemoryLocker())}
	if push := GetPushNotificationService(); push != nil {
		selectionOpts = append(selectionOpts, WithAnnouncer(push))
	}
	selections := NewWeeklySelectionService(store, pool, loc, selectionOpts...)

	dispatchOpts := []DispatchOption{
		WithDispatchLocker(dispatchLocker),
		WithAuditRecorder(NewDBAuditRecorder(initializers.DB)),
	}
	if cfg.SMSAPIURL != "" {
		dispatchOpts = append(dispatchOpts, WithSMSSender(NewSMSService(SMSConfig{
			APIURL:   cfg.SMSAPIURL,
			APIKey:   cfg.SMSAPIKey,
			SenderID: cfg.SMSSenderID,
			Timeout:  cfg.SMSTimeout,
		})))
	} else {
		initializers.Log.Warn("SMS_API_URL not set. SMS prayer dispatch will not be available.")
	}
	if email := GetEmailService(); email != nil {
		dispatchOpts = append(dispatchOpts, WithEmailSender(email))
	}

	SetWeeklySelectionService(selections)
	SetPrayerDispatchService(NewPrayerDispatchService(selections, store, dispatchOpts...))

	initializers.Log.Info("Weekly prayer services initialized", zap.String("timezone", loc.String()))
	return nil
}

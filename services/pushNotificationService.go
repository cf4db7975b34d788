package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/ShepherdBook/initializers"
	"github.com/ShepherdBook/models"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// topicSender is the slice of the FCM client the announcer uses.
type topicSender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// PushNotificationService announces weekly selections on an FCM topic the congregation app subscribes to.
type PushNotificationService struct {
	fcmClient topicSender
	topic     string
}

var pushService *PushNotificationService

func InitPushNotificationService(serviceAccountPath, topic string) {
	var app *firebase.App
	var err error

	if serviceAccountPath != "" {
		opt := option.WithCredentialsFile(serviceAccountPath)
		app, err = firebase.NewApp(context.Background(), nil, opt)
		if err != nil {
			initializers.Log.Warn("Failed to initialize Firebase app with service account", zap.Error(err))
			return
		}
	} else {
		app, err = firebase.NewApp(context.Background(), nil)
		if err != nil {
			initializers.Log.Warn("Failed to initialize Firebase app with ADC", zap.Error(err))
			return
		}
	}

	client, err := app.Messaging(context.Background())
	if err != nil {
		initializers.Log.Warn("Failed to get Firebase messaging client", zap.Error(err))
		return
	}

	pushService = &PushNotificationService{fcmClient: client, topic: topic}
	initializers.Log.Info("Push notification service initialized with FCM", zap.String("topic", topic))
}

func GetPushNotificationService() *PushNotificationService {
	return pushService
}

func (s *PushNotificationService) AnnounceSelection(ctx context.Context, sel models.WeeklySelection, displayName string) error {
	if s == nil || s.fcmClient == nil {
		return fmt.Errorf("FCM client not initialized")
	}

	message := &messaging.Message{
		Topic: s.topic,
		Notification: &messaging.Notification{
			Title: "This week's prayer focus",
			Body:  fmt.Sprintf("This week we are praying for %s.", displayName),
		},
		Data: map[string]string{
			"type":              "weekly_selection",
			"weeklySelectionId": strconv.Itoa(sel.Weekly_Selection_ID),
			"selectionType":     sel.Selection_Type,
			"year":              strconv.Itoa(sel.Year),
			"weekNumber":        strconv.Itoa(sel.Week_Number),
		},
	}

	sendCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	response, err := s.fcmClient.Send(sendCtx, message)
	if err != nil {
		return fmt.Errorf("failed to send FCM topic message: %w", err)
	}

	initializers.Log.Info("Weekly selection announced",
		zap.String("topic", s.topic), zap.String("messageId", response))
	return nil
}

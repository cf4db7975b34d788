package services

import "errors"

var (
	ErrStorageUnavailable    = errors.New("storage unavailable")
	ErrNoCandidatesAvailable = errors.New("no members or families available for selection")
	ErrSendLimitExceeded     = errors.New("prayer message already sent twice this week")
	ErrNoContactInfo         = errors.New("no contact information for selection")
	ErrSelectionNotFound     = errors.New("weekly selection not found")
	ErrUnsupportedChannel    = errors.New("unsupported prayer channel")
	ErrChannelUnavailable    = errors.New("prayer channel not configured")
)

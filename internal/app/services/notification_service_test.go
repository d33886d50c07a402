package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/hostelhub/internal/pkg/apperrors"
)

func newTestNotificationService() (*NotificationService, *fakeNotificationStore, *fakeMailer) {
	store := &fakeNotificationStore{}
	mailer := &fakeMailer{}
	svc := NewNotificationService(store, mailer, testLogger)
	svc.now = fixedClock(time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC))
	return svc, store, mailer
}

func TestNotificationService_ListMostRecentFirst(t *testing.T) {
	svc, _, _ := newTestNotificationService()
	ctx := context.Background()

	for _, subject := range []string{"first", "second", "third"} {
		_, err := svc.Send(ctx, NotificationInput{Subject: subject, Message: "body", Recipients: "a@iiitdmj.ac.in"})
		require.NoError(t, err)
	}

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "third", list[0].Subject)
	assert.Equal(t, "second", list[1].Subject)
	assert.Equal(t, "first", list[2].Subject)
	assert.True(t, list[0].SentAt.After(list[1].SentAt))
}

func TestNotificationService_SendNormalizesRecipients(t *testing.T) {
	svc, _, mailer := newTestNotificationService()

	n, err := svc.Send(context.Background(), NotificationInput{
		Subject:    " Water supply ",
		Message:    "No water 2-4pm",
		Recipients: "A@iiitdmj.ac.in; b@iiitdmj.ac.in,a@iiitdmj.ac.in\nc@iiitdmj.ac.in",
	})
	require.NoError(t, err)

	assert.Equal(t, "Water supply", n.Subject)
	assert.Equal(t, "a@iiitdmj.ac.in, b@iiitdmj.ac.in, c@iiitdmj.ac.in", n.Recipients)
	require.NoError(t, svc.WaitForMail(context.Background()))
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, []string{"a@iiitdmj.ac.in", "b@iiitdmj.ac.in", "c@iiitdmj.ac.in"}, mailer.sent[0])
}

func TestNotificationService_MailFailureKeepsLogEntry(t *testing.T) {
	svc, store, mailer := newTestNotificationService()
	mailer.err = errors.New("smtp: connection refused")

	n, err := svc.Send(context.Background(), NotificationInput{Subject: "s", Message: "m", Recipients: "a@iiitdmj.ac.in"})
	require.NoError(t, err)
	assert.NotZero(t, n.ID)
	assert.Len(t, store.notifications, 1)

	require.NoError(t, svc.WaitForMail(context.Background()))
	assert.Equal(t, 1, mailer.sentCount())
}

func TestNotificationService_SlowMailDoesNotBlockSend(t *testing.T) {
	svc, store, mailer := newTestNotificationService()
	mailer.release = make(chan struct{})

	n, err := svc.Send(context.Background(), NotificationInput{Subject: "Mess closed", Message: "m", Recipients: "a@iiitdmj.ac.in"})
	require.NoError(t, err)
	assert.NotZero(t, n.ID)
	assert.Len(t, store.notifications, 1)
	assert.Zero(t, mailer.sentCount())

	waitCtx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, svc.WaitForMail(waitCtx), context.DeadlineExceeded)

	close(mailer.release)
	require.NoError(t, svc.WaitForMail(context.Background()))
	assert.Equal(t, 1, mailer.sentCount())
	assert.Equal(t, []bool{true}, mailer.deadlines)
}

func TestNotificationService_MailTimesOut(t *testing.T) {
	svc, _, mailer := newTestNotificationService()
	svc.mailTimeout = 10 * time.Millisecond
	mailer.release = make(chan struct{})
	defer close(mailer.release)

	ctx, cancel := context.WithCancel(context.Background())
	_, err := svc.Send(ctx, NotificationInput{Subject: "s", Message: "m", Recipients: "a@iiitdmj.ac.in"})
	require.NoError(t, err)
	cancel()

	waitCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	require.NoError(t, svc.WaitForMail(waitCtx))
	assert.Zero(t, mailer.sentCount())
}

func TestNotificationService_SendValidation(t *testing.T) {
	svc, store, mailer := newTestNotificationService()
	ctx := context.Background()

	_, err := svc.Send(ctx, NotificationInput{Subject: "", Message: "m", Recipients: "a@iiitdmj.ac.in"})
	assertFieldError(t, err, "subject")

	_, err = svc.Send(ctx, NotificationInput{Subject: "Water cut\r\nBcc: attacker@evil.com", Message: "m", Recipients: "a@iiitdmj.ac.in"})
	assertFieldError(t, err, "subject")

	_, err = svc.Send(ctx, NotificationInput{Subject: "s", Message: "  ", Recipients: "a@iiitdmj.ac.in"})
	assertFieldError(t, err, "message")

	_, err = svc.Send(ctx, NotificationInput{Subject: "s", Message: "m", Recipients: " ,; "})
	assert.ErrorIs(t, err, apperrors.ErrNoRecipients)
	assertFieldError(t, err, "recipients")

	_, err = svc.Send(ctx, NotificationInput{Subject: "s", Message: "m", Recipients: "a@iiitdmj.ac.in, not-an-email"})
	assertFieldError(t, err, "recipients")

	assert.Empty(t, store.notifications)
	assert.Empty(t, mailer.sent)
}

func TestNotificationService_PublishesToLiveFeed(t *testing.T) {
	svc, _, mailer := newTestNotificationService()
	publisher := &fakePublisher{}
	svc.WithPublisher(publisher)

	mailer.err = errors.New("smtp: connection refused")
	n, err := svc.Send(context.Background(), NotificationInput{Subject: "Mess timings", Message: "Dinner at 8", Recipients: "B@iiitdmj.ac.in, a@iiitdmj.ac.in"})
	require.NoError(t, err)

	assert.Equal(t, []string{"b@iiitdmj.ac.in", "a@iiitdmj.ac.in"}, publisher.published[n.ID])

	_, err = svc.Send(context.Background(), NotificationInput{Subject: "", Message: "x", Recipients: "a@iiitdmj.ac.in"})
	require.Error(t, err)
	assert.Len(t, publisher.published, 1)
	require.NoError(t, svc.WaitForMail(context.Background()))
}

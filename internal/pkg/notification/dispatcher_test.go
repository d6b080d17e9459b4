package notification

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/joblink/internal/app/models"
)

type sentMail struct {
	to, subject, body string
}

type fakeMailer struct {
	mu       sync.Mutex
	failures int
	calls    int
	sent     []sentMail
}

func (m *fakeMailer) Send(_ context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.failures < 0 || m.calls <= m.failures {
		return errors.New("smtp unavailable")
	}
	m.sent = append(m.sent, sentMail{to, subject, body})
	return nil
}

func (m *fakeMailer) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *fakeMailer) Sent() []sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]sentMail(nil), m.sent...)
}

type fakeBroker struct {
	ch         chan Event
	publishErr error
	mu         sync.Mutex
	published  int
	closed     bool
}

func newFakeBroker() *fakeBroker {
	return &fakeBroker{ch: make(chan Event, 16)}
}

func (b *fakeBroker) Publish(_ context.Context, ev Event) error {
	if b.publishErr != nil {
		return b.publishErr
	}
	b.mu.Lock()
	b.published++
	b.mu.Unlock()
	b.ch <- ev
	return nil
}

func (b *fakeBroker) Consume(ctx context.Context, handler func(context.Context, Event) bool) error {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case ev := <-b.ch:
				handler(ctx, ev)
			}
		}
	}()
	return nil
}

func (b *fakeBroker) Close() error {
	b.mu.Lock()
	b.closed = true
	b.mu.Unlock()
	return nil
}

func hireEvent() Event {
	convID := int64(9)
	return Event{
		RecipientEmail: "ada@example.com",
		RecipientName:  "Ada Lovelace",
		JobID:          1,
		JobTitle:       "Backend Intern",
		Company:        "Acme",
		StudentID:      7,
		ConversationID: &convID,
		Outcome:        OutcomeHire,
	}
}

func newTestDispatcher(t *testing.T, cfg Config, mailer *fakeMailer, broker Broker) *Dispatcher {
	t.Helper()
	d := NewDispatcher(cfg, mailer, broker, zerolog.Nop())
	d.sleep = func(context.Context, time.Duration) error { return nil }
	require.NoError(t, d.Start(context.Background()))
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = d.Stop(ctx)
	})
	return d
}

func TestDispatcherDeliversEvent(t *testing.T) {
	mailer := &fakeMailer{}
	d := newTestDispatcher(t, Config{Workers: 2, QueueSize: 4, MaxAttempts: 3, BaseURL: "https://joblink.app"}, mailer, nil)

	d.Notify(hireEvent())

	require.Eventually(t, func() bool { return d.Stats().Sent == 1 }, time.Second, 5*time.Millisecond)
	sent := mailer.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "ada@example.com", sent[0].to)
	assert.Contains(t, sent[0].subject, HireHeadline)
	assert.Contains(t, sent[0].body, "https://joblink.app/conversations/9")
	assert.Equal(t, int64(1), d.Stats().Queued)
}

func TestDispatcherRetriesUntilSuccess(t *testing.T) {
	mailer := &fakeMailer{failures: 2}
	d := newTestDispatcher(t, Config{Workers: 1, QueueSize: 4, MaxAttempts: 4}, mailer, nil)

	d.Notify(hireEvent())

	require.Eventually(t, func() bool { return d.Stats().Sent == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 3, mailer.Calls())
	assert.Equal(t, int64(2), d.Stats().Retried)
	assert.Equal(t, int64(0), d.Stats().Failed)
}

func TestDispatcherGivesUpAfterMaxAttempts(t *testing.T) {
	mailer := &fakeMailer{failures: -1}
	d := newTestDispatcher(t, Config{Workers: 1, QueueSize: 4, MaxAttempts: 3}, mailer, nil)

	d.Notify(hireEvent())

	require.Eventually(t, func() bool { return d.Stats().Failed == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 3, mailer.Calls())
	assert.Equal(t, int64(0), d.Stats().Sent)
}

func TestNotifyDropsWhenQueueFull(t *testing.T) {
	d := NewDispatcher(Config{Workers: 1, QueueSize: 1}, &fakeMailer{}, nil, zerolog.Nop())

	d.Notify(hireEvent())
	d.Notify(hireEvent())

	st := d.Stats()
	assert.Equal(t, int64(1), st.Queued)
	assert.Equal(t, int64(1), st.Dropped)
}

func TestNotifyAfterStopIsDropped(t *testing.T) {
	mailer := &fakeMailer{}
	d := NewDispatcher(Config{Workers: 1, QueueSize: 4}, mailer, nil, zerolog.Nop())
	require.NoError(t, d.Start(context.Background()))
	require.NoError(t, d.Stop(context.Background()))

	d.Notify(hireEvent())

	assert.Equal(t, int64(1), d.Stats().Dropped)
	assert.Equal(t, 0, mailer.Calls())
}

func TestStartTwiceFails(t *testing.T) {
	d := newTestDispatcher(t, Config{}, &fakeMailer{}, nil)
	assert.Error(t, d.Start(context.Background()))
}

func TestDispatcherThroughBroker(t *testing.T) {
	mailer := &fakeMailer{}
	broker := newFakeBroker()
	d := newTestDispatcher(t, Config{Workers: 1, QueueSize: 4}, mailer, broker)

	d.Notify(hireEvent())

	require.Eventually(t, func() bool { return d.Stats().Sent == 1 }, time.Second, 5*time.Millisecond)
	broker.mu.Lock()
	assert.Equal(t, 1, broker.published)
	broker.mu.Unlock()
}

func TestDispatcherFallsBackWhenPublishFails(t *testing.T) {
	mailer := &fakeMailer{}
	broker := newFakeBroker()
	broker.publishErr = errors.New("connection reset")
	d := newTestDispatcher(t, Config{Workers: 1, QueueSize: 4}, mailer, broker)

	d.Notify(hireEvent())

	require.Eventually(t, func() bool { return d.Stats().Sent == 1 }, time.Second, 5*time.Millisecond)
}

func TestOutcomeFor(t *testing.T) {
	o, ok := OutcomeFor(models.StatusShortlisted)
	assert.True(t, ok)
	assert.Equal(t, OutcomeHire, o)

	o, ok = OutcomeFor(models.StatusRejected)
	assert.True(t, ok)
	assert.Equal(t, OutcomeNonHire, o)

	_, ok = OutcomeFor(models.StatusUnderReview)
	assert.False(t, ok)
}

func TestRender(t *testing.T) {
	ev := hireEvent()
	subject, body, err := Render(ev, "https://joblink.app/")
	require.NoError(t, err)
	assert.Equal(t, "Shortlisted for in-person interview: Backend Intern at Acme", subject)
	assert.Contains(t, body, "Hello Ada Lovelace,")
	assert.Contains(t, body, "https://joblink.app/conversations/9")

	ev.Outcome = OutcomeNonHire
	ev.RecipientName = ""
	subject, body, err = Render(ev, "")
	require.NoError(t, err)
	assert.Equal(t, "Update on your application: Backend Intern at Acme", subject)
	assert.Contains(t, body, "Hello there,")
	assert.NotContains(t, body, "conversations/")

	ev.Outcome = "bogus"
	_, _, err = Render(ev, "")
	assert.Error(t, err)
}

package notification

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/kmohsen11/Argos/internal/entity"
)

func record() *entity.PreorderRecord {
	return &entity.PreorderRecord{
		ID:          "0b9f3d55-7a43-4a53-9d55-2f6f7c1f9a10",
		FirstName:   "Ada",
		LastName:    "Lovelace",
		Email:       "ada@example.com",
		ProductType: entity.ProductShorts,
		Size:        entity.SizeM,
		DeviceType:  entity.DeviceAppleWatch,
		Status:      entity.StatusPending,
		CreatedAt:   time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestRelayClientPostsWireBody(t *testing.T) {
	bodies := make(chan entity.PreorderNotification, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var n entity.PreorderNotification
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&n))
		bodies <- n
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := NewRelayClient(srv.URL, srv.Client())
	require.NoError(t, c.Notify(context.Background(), record()))

	got := <-bodies
	assert.Equal(t, entity.PreorderNotification{
		FirstName:   "Ada",
		LastName:    "Lovelace",
		Email:       "ada@example.com",
		ProductType: "shorts",
		Size:        "M",
		DeviceType:  "apple_watch",
	}, got)
}

func TestRelayClientSurfacesMailError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"mail_error","message":"535 auth failed"}`))
	}))
	defer srv.Close()

	err := NewRelayClient(srv.URL, srv.Client()).Notify(context.Background(), record())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
	assert.Contains(t, err.Error(), "mail_error")
	assert.Contains(t, err.Error(), "535 auth failed")
}

func TestRelayClientPlainErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	err := NewRelayClient(srv.URL, srv.Client()).Notify(context.Background(), record())
	assert.EqualError(t, err, "relay returned 502")
}

func TestRelayClientTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := NewRelayClient(srv.URL, srv.Client()).Notify(ctx, record())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishEvent(ctx context.Context, topic string, key string, event any) error {
	return m.Called(ctx, topic, key, event).Error(0)
}

func TestEventNotifierPublishesPreorderPlaced(t *testing.T) {
	rec := record()
	pub := new(mockPublisher)
	pub.On("PublishEvent", mock.Anything, DefaultTopic, rec.ID, mock.MatchedBy(func(e entity.PreorderPlaced) bool {
		return e.OrderID == rec.ID && e.Email == rec.Email && e.EventID != "" && e.PlacedAt.Equal(rec.CreatedAt)
	})).Return(nil).Once()

	require.NoError(t, NewEventNotifier(pub, "").Notify(context.Background(), rec))
	pub.AssertExpectations(t)
}

func TestEventNotifierWrapsPublishError(t *testing.T) {
	pub := new(mockPublisher)
	pub.On("PublishEvent", mock.Anything, "custom", mock.Anything, mock.Anything).Return(errors.New("broker down"))

	err := NewEventNotifier(pub, "custom").Notify(context.Background(), record())
	assert.ErrorContains(t, err, "broker down")
}

type mockDispatcher struct {
	mock.Mock
}

func (m *mockDispatcher) Dispatch(ctx context.Context, n entity.PreorderNotification) error {
	return m.Called(ctx, n).Error(0)
}

func TestMailConsumerHandle(t *testing.T) {
	rec := record()
	payload, err := json.Marshal(entity.NewPreorderPlaced("evt-1", rec))
	require.NoError(t, err)

	d := new(mockDispatcher)
	d.On("Dispatch", mock.Anything, rec.Request().Notification()).Return(nil).Once()

	c := NewMailConsumer(nil, d, "", "mailer", time.Second)
	require.NoError(t, c.Handle(context.Background(), payload))
	d.AssertExpectations(t)
}

func TestMailConsumerSkipsBadPayloads(t *testing.T) {
	d := new(mockDispatcher)
	c := NewMailConsumer(nil, d, "", "mailer", 0)

	assert.NoError(t, c.Handle(context.Background(), []byte("{not json")))
	assert.NoError(t, c.Handle(context.Background(), []byte(`{"orderId":"x","firstName":"Ada"}`)))
	d.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything)
}

func TestMailConsumerReturnsDispatchError(t *testing.T) {
	payload, err := json.Marshal(entity.NewPreorderPlaced("evt-1", record()))
	require.NoError(t, err)

	d := new(mockDispatcher)
	d.On("Dispatch", mock.Anything, mock.Anything).Return(errors.New("smtp down"))

	err = NewMailConsumer(nil, d, "", "mailer", 0).Handle(context.Background(), payload)
	assert.ErrorContains(t, err, "smtp down")
}

func TestNoop(t *testing.T) {
	assert.NoError(t, Noop{}.Notify(context.Background(), record()))
}

package client

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgepay/edgepay-gobackend/internal/handlers"
	"github.com/edgepay/edgepay-gobackend/internal/models"
	"github.com/edgepay/edgepay-gobackend/internal/services"
	"github.com/edgepay/edgepay-gobackend/internal/store"
)

func newTestBackend(t *testing.T) (*httptest.Server, *store.MemoryStore) {
	t.Helper()
	memStore := store.NewMemoryStore()
	svc := services.NewLinkService(memStore, zerolog.Nop())
	handler := handlers.NewLinkHandler(svc, zerolog.Nop())
	server := httptest.NewServer(handlers.NewRouter(handler, zerolog.Nop(), nil))
	t.Cleanup(server.Close)
	return server, memStore
}

func TestStoreFetchAll(t *testing.T) {
	server, _ := newTestBackend(t)
	api := New(server.URL, "")
	linkStore := NewStore(api, zerolog.Nop())

	_, err := api.CreateLink(context.Background(), CreateLinkPayload{Amount: 10, Description: "first link"})
	require.NoError(t, err)
	_, err = api.CreateLink(context.Background(), CreateLinkPayload{Amount: 20, Description: "second link"})
	require.NoError(t, err)

	linkStore.FetchAll(context.Background())
	assert.False(t, linkStore.Loading())
	assert.Len(t, linkStore.Links(), 2)
}

func TestStoreFetchAllFailureKeepsPreviousState(t *testing.T) {
	server, _ := newTestBackend(t)
	api := New(server.URL, "")
	linkStore := NewStore(api, zerolog.Nop())

	_, err := linkStore.Add(context.Background(), CreateLinkPayload{Amount: 10, Description: "kept link"})
	require.NoError(t, err)
	require.Len(t, linkStore.Links(), 1)

	server.Close()
	linkStore.FetchAll(context.Background())

	// Failure leaves the previous collection in place and clears loading.
	assert.False(t, linkStore.Loading())
	assert.Len(t, linkStore.Links(), 1)
}

func TestStoreAddPrepends(t *testing.T) {
	server, _ := newTestBackend(t)
	api := New(server.URL, "")
	linkStore := NewStore(api, zerolog.Nop())

	first, err := linkStore.Add(context.Background(), CreateLinkPayload{Amount: 10, Description: "first link"})
	require.NoError(t, err)
	second, err := linkStore.Add(context.Background(), CreateLinkPayload{Amount: 20, Description: "second link"})
	require.NoError(t, err)

	links := linkStore.Links()
	require.Len(t, links, 2)
	assert.Equal(t, second.ID, links[0].ID)
	assert.Equal(t, first.ID, links[1].ID)

	// The server record is returned: id, status and timestamp assigned.
	assert.NotEmpty(t, second.ID)
	assert.Equal(t, models.StatusPending, second.Status)
	assert.NotZero(t, second.CreatedAt)
}

func TestStoreAddFailure(t *testing.T) {
	server, _ := newTestBackend(t)
	api := New(server.URL, "")
	linkStore := NewStore(api, zerolog.Nop())

	_, err := linkStore.Add(context.Background(), CreateLinkPayload{Amount: -1, Description: "bad link"})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.Status)
	assert.Empty(t, linkStore.Links())
}

func TestStoreRemoveOptimistic(t *testing.T) {
	server, _ := newTestBackend(t)
	api := New(server.URL, "")
	linkStore := NewStore(api, zerolog.Nop())

	link, err := linkStore.Add(context.Background(), CreateLinkPayload{Amount: 10, Description: "doomed link"})
	require.NoError(t, err)

	require.NoError(t, linkStore.Remove(context.Background(), link.ID))
	assert.Empty(t, linkStore.Links())

	_, err = api.GetLink(context.Background(), link.ID)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 404, apiErr.Status)
}

func TestStoreRemoveRollbackOnFailure(t *testing.T) {
	server, _ := newTestBackend(t)
	api := New(server.URL, "")
	linkStore := NewStore(api, zerolog.Nop())

	link, err := linkStore.Add(context.Background(), CreateLinkPayload{Amount: 10, Description: "flaky link"})
	require.NoError(t, err)

	// Delete the record behind the store's back so the remote delete 404s.
	require.NoError(t, api.DeleteLink(context.Background(), link.ID))

	err = linkStore.Remove(context.Background(), link.ID)
	require.Error(t, err)

	// The optimistic removal was rolled back.
	restored, found := linkStore.FindByID(link.ID)
	assert.True(t, found)
	assert.Equal(t, link.ID, restored.ID)
}

func TestStoreFindByIDIsLocal(t *testing.T) {
	server, _ := newTestBackend(t)
	api := New(server.URL, "")
	linkStore := NewStore(api, zerolog.Nop())

	link, err := linkStore.Add(context.Background(), CreateLinkPayload{Amount: 10, Description: "local link"})
	require.NoError(t, err)

	// No network: the lookup works even after the server is gone.
	server.Close()
	found, ok := linkStore.FindByID(link.ID)
	assert.True(t, ok)
	assert.Equal(t, link.ID, found.ID)

	_, ok = linkStore.FindByID("missing")
	assert.False(t, ok)
}

func TestStoreSubscribe(t *testing.T) {
	server, _ := newTestBackend(t)
	api := New(server.URL, "")
	linkStore := NewStore(api, zerolog.Nop())

	notifications := 0
	unsubscribe := linkStore.Subscribe(func() { notifications++ })

	_, err := linkStore.Add(context.Background(), CreateLinkPayload{Amount: 10, Description: "watched link"})
	require.NoError(t, err)
	assert.Equal(t, 1, notifications)

	unsubscribe()
	_, err = linkStore.Add(context.Background(), CreateLinkPayload{Amount: 20, Description: "unwatched link"})
	require.NoError(t, err)
	assert.Equal(t, 1, notifications)
}

func TestStorePayRefreshesOnFailure(t *testing.T) {
	server, memStore := newTestBackend(t)
	api := New(server.URL, "")
	linkStore := NewStore(api, zerolog.Nop())

	expiry := time.Now().UnixMilli() - 1000
	require.NoError(t, memStore.Create(context.Background(), models.PaymentLink{
		ID:          "expired-link",
		Amount:      25,
		Currency:    models.Currency,
		Description: "expired link",
		Status:      models.StatusPending,
		CreatedAt:   expiry - 60000,
		ExpiresAt:   &expiry,
	}))

	latest, err := linkStore.Pay(context.Background(), "expired-link")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expired")
	// The refreshed view carries the effective status.
	assert.Equal(t, models.StatusExpired, latest.Status)
}

func TestStorePay(t *testing.T) {
	server, _ := newTestBackend(t)
	api := New(server.URL, "")
	linkStore := NewStore(api, zerolog.Nop())

	link, err := linkStore.Add(context.Background(), CreateLinkPayload{Amount: 50, Description: "Consulting"})
	require.NoError(t, err)

	paid, err := linkStore.Pay(context.Background(), link.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPaid, paid.Status)
}

func TestClientShareURL(t *testing.T) {
	api := New("http://localhost:8080", "https://pay.example.com/")
	assert.Equal(t, "https://pay.example.com/pay/abc", api.ShareURL("abc"))

	api = New("http://localhost:8080", "")
	assert.Equal(t, "http://localhost:8080/pay/abc", api.ShareURL("abc"))
}

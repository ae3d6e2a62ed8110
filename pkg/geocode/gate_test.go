package geocode

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/eslteacher902010/new-england-catholic-group-finder/internal/errdef"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var newEngland = []string{"MA", "ME", "NH", "VT", "RI", "CT"}

type mockClient struct {
	mock.Mock
}

func (m *mockClient) Geocode(ctx context.Context, query string) (*Result, error) {
	called := m.Called(query)
	result, _ := called.Get(0).(*Result)
	return result, called.Error(1)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestClassifyAccepted(t *testing.T) {
	client := &mockClient{}
	client.
		On("Geocode", "Boston, MA 02108").
		Return(&Result{Lat: 42.36, Lon: -71.06, StateCode: "MA", Postcode: "02108"}, nil)
	gate := NewGate(discardLogger(), client, newEngland)

	classification := gate.Classify(context.Background(), "Boston", "MA", "02108")

	assert.True(t, classification.Accepted)
	assert.Equal(t, "MA", classification.StateCode)
	assert.Equal(t, ConfidenceVerified, classification.Confidence)
	require.NotNil(t, classification.Lat)
	assert.InDelta(t, 42.36, *classification.Lat, 0.001)
	client.AssertExpectations(t)
}

func TestClassifyOutsideAllowList(t *testing.T) {
	client := &mockClient{}
	client.
		On("Geocode", "Albany, NY").
		Return(&Result{Lat: 42.65, Lon: -73.75, StateCode: "NY"}, nil)
	gate := NewGate(discardLogger(), client, newEngland)

	classification := gate.Classify(context.Background(), "Albany", "NY", "")

	assert.False(t, classification.Accepted)
	assert.Equal(t, "NY", classification.StateCode)
	assert.Equal(t, ConfidenceVerified, classification.Confidence)
}

func TestClassifyNoResultFailsOpen(t *testing.T) {
	client := &mockClient{}
	client.
		On("Geocode", mock.Anything).
		Return(nil, nil)
	gate := NewGate(discardLogger(), client, newEngland)

	classification := gate.Classify(context.Background(), "Atlantis", "ma", "")

	assert.True(t, classification.Accepted)
	assert.Equal(t, "MA", classification.StateCode)
	assert.Equal(t, ConfidenceUnverified, classification.Confidence)
	assert.Nil(t, classification.Lat)
	assert.Nil(t, classification.Lon)
}

func TestClassifyProviderErrorFailsOpen(t *testing.T) {
	client := &mockClient{}
	client.
		On("Geocode", mock.Anything).
		Return(nil, errdef.NewUnavailable("geocoding provider unavailable"))
	gate := NewGate(discardLogger(), client, newEngland)

	classification := gate.Classify(context.Background(), "Boston", "MA", "")

	assert.True(t, classification.Accepted)
	assert.Equal(t, ConfidenceUnverified, classification.Confidence)
}

func TestClassifyLowercaseAllowListEntries(t *testing.T) {
	client := &mockClient{}
	client.
		On("Geocode", mock.Anything).
		Return(&Result{Lat: 41.82, Lon: -71.41, StateCode: "ri"}, nil)
	gate := NewGate(discardLogger(), client, []string{"ri"})

	classification := gate.Classify(context.Background(), "Providence", "RI", "")

	assert.True(t, classification.Accepted)
	assert.Equal(t, "RI", classification.StateCode)
}

func TestClientGeocode(t *testing.T) {
	t.Run("result", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Boston, MA", r.URL.Query().Get("q"))
			assert.Equal(t, "test-key", r.URL.Query().Get("key"))
			_ = json.NewEncoder(w).Encode(map[string]any{
				"results": []map[string]any{
					{
						"geometry":   map[string]any{"lat": 42.36, "lng": -71.06},
						"components": map[string]any{"state_code": "MA", "postcode": "02108"},
					},
				},
			})
		}))
		defer server.Close()

		client := NewClient(discardLogger(), server.URL, "test-key")
		result, err := client.Geocode(context.Background(), "Boston, MA")

		require.NoError(t, err)
		require.NotNil(t, result)
		assert.Equal(t, "MA", result.StateCode)
		assert.Equal(t, "02108", result.Postcode)
		assert.InDelta(t, 42.36, result.Lat, 0.001)
		assert.InDelta(t, -71.06, result.Lon, 0.001)
	})

	t.Run("no result", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"results": []}`))
		}))
		defer server.Close()

		client := NewClient(discardLogger(), server.URL, "test-key")
		result, err := client.Geocode(context.Background(), "nowhere")

		require.NoError(t, err)
		assert.Nil(t, result)
	})

	t.Run("out-of-range coordinates treated as no result", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"results": [{"geometry": {"lat": 142.0, "lng": -71.0}, "components": {"state_code": "MA"}}]}`))
		}))
		defer server.Close()

		client := NewClient(discardLogger(), server.URL, "test-key")
		result, err := client.Geocode(context.Background(), "Boston, MA")

		require.NoError(t, err)
		assert.Nil(t, result)
	})

	t.Run("server errors retried once then unavailable", func(t *testing.T) {
		var requests int
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests++
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		client := NewClient(discardLogger(), server.URL, "test-key")
		_, err := client.Geocode(context.Background(), "Boston, MA")

		assert.True(t, errdef.IsUnavailable(err))
		assert.Equal(t, 2, requests)
	})

	t.Run("client errors not retried", func(t *testing.T) {
		var requests int
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests++
			w.WriteHeader(http.StatusForbidden)
		}))
		defer server.Close()

		client := NewClient(discardLogger(), server.URL, "bad-key")
		_, err := client.Geocode(context.Background(), "Boston, MA")

		assert.True(t, errdef.IsUnavailable(err))
		assert.Equal(t, 1, requests)
	})
}

package DistanceMatrix

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var bangalore = []Coordinate{
	{Lat: 12.97, Lng: 77.59},
	{Lat: 12.93, Lng: 77.61},
}

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func TestGetDistanceMatrix(t *testing.T) {
	var calls int
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		require.Equal(t, "/table/v1/driving/77.59,12.97;77.61,12.93", r.URL.Path)
		require.Equal(t, "distance", r.URL.Query().Get("annotations"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"code":"Ok","distances":[[0,4000.4],[3980.1,0]]}`))
	})

	client := NewOSRMClient(server.URL+"/", "driving", time.Second)
	matrix, err := client.GetDistanceMatrix(context.Background(), bangalore)
	require.NoError(t, err)
	require.Equal(t, 1, calls, "matrix must be fetched in one batched request")
	require.Equal(t, Matrix{{0, 4000.4}, {3980.1, 0}}, matrix)
	require.Equal(t, 2, matrix.Size())
}

func TestGetDistanceMatrixFailures(t *testing.T) {
	testCases := []struct {
		name   string
		status int
		body   string
	}{
		{name: "ServerError", status: http.StatusInternalServerError, body: `{"code":"Ok","distances":[[0,1],[1,0]]}`},
		{name: "TooManyRequests", status: http.StatusTooManyRequests, body: `{}`},
		{name: "NotJSON", status: http.StatusOK, body: `<html>bad gateway</html>`},
		{name: "CodeNotOk", status: http.StatusOK, body: `{"code":"InvalidQuery","message":"Query string malformed"}`},
		{name: "MissingDistances", status: http.StatusOK, body: `{"code":"Ok"}`},
		{name: "ShortMatrix", status: http.StatusOK, body: `{"code":"Ok","distances":[[0,1]]}`},
		{name: "ShortRow", status: http.StatusOK, body: `{"code":"Ok","distances":[[0,1],[1]]}`},
		{name: "NullCell", status: http.StatusOK, body: `{"code":"Ok","distances":[[0,null],[1,0]]}`},
		{name: "NegativeCell", status: http.StatusOK, body: `{"code":"Ok","distances":[[0,-5],[1,0]]}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			})

			client := NewOSRMClient(server.URL, "driving", time.Second)
			matrix, err := client.GetDistanceMatrix(context.Background(), bangalore)
			require.Error(t, err)
			require.True(t, errors.Is(err, ErrRoutingService))
			require.Nil(t, matrix)
		})
	}
}

func TestGetDistanceMatrixTimeout(t *testing.T) {
	release := make(chan struct{})
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	client := NewOSRMClient(server.URL, "driving", 50*time.Millisecond)

	start := time.Now()
	_, err := client.GetDistanceMatrix(context.Background(), bangalore)
	require.ErrorIs(t, err, ErrRoutingService)
	require.Less(t, time.Since(start), 2*time.Second)
}

func TestGetDistanceMatrixCanceledContext(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("request must not reach the server")
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewOSRMClient(server.URL, "driving", time.Second)
	_, err := client.GetDistanceMatrix(ctx, bangalore)
	require.ErrorIs(t, err, ErrRoutingService)
	require.ErrorIs(t, err, context.Canceled)
}

func TestCoordinateString(t *testing.T) {
	require.Equal(t, "-0.1276,51.5072", Coordinate{Lat: 51.5072, Lng: -0.1276}.String())
}

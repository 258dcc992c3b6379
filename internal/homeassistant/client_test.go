package homeassistant

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingServer captures the last request and answers with a fixed status
// and body.
type recordingServer struct {
	*httptest.Server

	requests int
	method   string
	path     string
	auth     string
	body     []byte
}

func newRecordingServer(status int, responseBody string) *recordingServer {
	rs := &recordingServer{}
	rs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rs.requests++
		rs.method = r.Method
		rs.path = r.URL.Path
		rs.auth = r.Header.Get("Authorization")
		rs.body, _ = io.ReadAll(r.Body)
		w.WriteHeader(status)
		io.WriteString(w, responseBody)
	}))
	return rs
}

func TestVerify(t *testing.T) {
	srv := newRecordingServer(http.StatusOK, `{"message":"API running."}`)
	defer srv.Close()

	client := NewClient(srv.URL, "token123")
	err := client.Verify(context.Background())
	require.NoError(t, err)

	assert.Equal(t, http.MethodGet, srv.method)
	assert.Equal(t, "/api/", srv.path)
	assert.Equal(t, "Bearer token123", srv.auth)
}

func TestVerifyStatusRange(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr bool
	}{
		{name: "200 succeeds", status: 200},
		{name: "201 succeeds", status: 201},
		{name: "250 succeeds", status: 250},
		{name: "298 succeeds", status: 298},
		{name: "299 fails, boundary excluded", status: 299, wantErr: true},
		{name: "301 fails", status: 301, wantErr: true},
		{name: "401 fails", status: 401, wantErr: true},
		{name: "500 fails", status: 500, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newRecordingServer(tt.status, "nope")
			defer srv.Close()

			err := NewClient(srv.URL, "t").Verify(context.Background())
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}

			var statusErr *StatusError
			require.ErrorAs(t, err, &statusErr)
			assert.Equal(t, tt.status, statusErr.Code)
		})
	}
}

func TestVerifyMissingCredentials(t *testing.T) {
	srv := newRecordingServer(http.StatusOK, "")
	defer srv.Close()

	tests := []struct {
		name    string
		baseURL string
		token   string
	}{
		{name: "no token", baseURL: srv.URL, token: ""},
		{name: "no URL", baseURL: "", token: "t"},
		{name: "neither", baseURL: "", token: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewClient(tt.baseURL, tt.token).Verify(context.Background())
			assert.ErrorIs(t, err, ErrMissingCredentials)
		})
	}

	assert.Zero(t, srv.requests, "missing credentials must not hit the network")
}

func TestVerifyErrorBodyTruncated(t *testing.T) {
	srv := newRecordingServer(http.StatusBadGateway, strings.Repeat("x", 1000))
	defer srv.Close()

	err := NewClient(srv.URL, "t").Verify(context.Background())

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.LessOrEqual(t, len(statusErr.Body), maxErrorBody)
	assert.Contains(t, err.Error(), "HTTP 502")
}

func TestVerifyConnectionRefused(t *testing.T) {
	srv := newRecordingServer(http.StatusOK, "")
	srv.Close() // nothing listening anymore

	err := NewClient(srv.URL, "t").Verify(context.Background())
	require.Error(t, err)

	var statusErr *StatusError
	assert.False(t, errors.As(err, &statusErr), "transport failure, not a status failure")
	assert.Contains(t, err.Error(), "connection error")
}

func TestPressButton(t *testing.T) {
	srv := newRecordingServer(http.StatusOK, "[]")
	defer srv.Close()

	client := NewClient(srv.URL+"/", "token123") // trailing slash tolerated
	err := client.PressButton(context.Background(), "button.office_pc")
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, srv.method)
	assert.Equal(t, "/api/services/button/press", srv.path)
	assert.Equal(t, "Bearer token123", srv.auth)

	var payload map[string]string
	require.NoError(t, json.Unmarshal(srv.body, &payload))
	assert.Equal(t, map[string]string{"entity_id": "button.office_pc"}, payload)
}

func TestPressButtonMissingCredentials(t *testing.T) {
	err := NewClient("", "").PressButton(context.Background(), "button.office_pc")
	assert.ErrorIs(t, err, ErrMissingCredentials)
}

func TestPressButtonStatusFailure(t *testing.T) {
	srv := newRecordingServer(http.StatusUnauthorized, "401: Unauthorized")
	defer srv.Close()

	err := NewClient(srv.URL, "bad").PressButton(context.Background(), "button.office_pc")

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusUnauthorized, statusErr.Code)
	assert.Equal(t, "401: Unauthorized", statusErr.Body)
}

func TestStatusErrorMessage(t *testing.T) {
	assert.Equal(t, "HTTP 503", (&StatusError{Code: 503}).Error())
	assert.Equal(t, "HTTP 404: not found", (&StatusError{Code: 404, Body: "not found"}).Error())
}

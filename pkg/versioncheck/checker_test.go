package versioncheck

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haldre/modhaven/pkg/errors"
	"github.com/haldre/modhaven/pkg/model"
)

func serveVersionFile(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCheckRemoteStringVersion(t *testing.T) {
	srv := serveVersionFile(t, `{
		// published by the mod author
		"modVersion": "1.1",
		"directDownloadURL": "https://example.com/modB-1.1.zip"
	}`)

	c := NewChecker(5*time.Second, DefaultConcurrency)
	entry := &model.ModEntry{ID: "modB", Version: "1.0", VersionCheckerURL: srv.URL}

	remote, err := c.CheckRemote(context.Background(), entry)
	require.NoError(t, err)
	assert.Equal(t, "1.1", remote.Version)
	assert.Equal(t, "https://example.com/modB-1.1.zip", remote.DirectDownloadURL)
	assert.True(t, IsNewer(entry, remote))
}

func TestCheckRemoteObjectVersion(t *testing.T) {
	srv := serveVersionFile(t, `{
		modVersion: {major: 2, minor: 3, patch: 1},
		directDownloadURL: "https://example.com/modC.zip",
	}`)

	c := NewChecker(5*time.Second, DefaultConcurrency)
	entry := &model.ModEntry{ID: "modC", Version: "2.3.0", VersionCheckerURL: srv.URL}

	remote, err := c.CheckRemote(context.Background(), entry)
	require.NoError(t, err)
	assert.Equal(t, "2.3.1", remote.Version)
	assert.True(t, IsNewer(entry, remote))
}

func TestCheckRemoteEqualVersionIsNotNewer(t *testing.T) {
	srv := serveVersionFile(t, `{"modVersion": "1.0"}`)

	c := NewChecker(5*time.Second, DefaultConcurrency)
	entry := &model.ModEntry{ID: "modA", Version: "1.0", VersionCheckerURL: srv.URL}

	remote, err := c.CheckRemote(context.Background(), entry)
	require.NoError(t, err)
	assert.False(t, IsNewer(entry, remote))
}

func TestCheckRemoteNoURL(t *testing.T) {
	c := NewChecker(time.Second, DefaultConcurrency)
	_, err := c.CheckRemote(context.Background(), &model.ModEntry{ID: "modA"})
	assert.ErrorIs(t, err, errors.ErrNoVersionCheckerURL)
}

func TestCheckRemoteServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	c := NewChecker(time.Second, DefaultConcurrency)
	_, err := c.CheckRemote(context.Background(), &model.ModEntry{ID: "modA", VersionCheckerURL: srv.URL})
	assert.ErrorIs(t, err, errors.ErrVersionCheckFailed)
}

func TestCheckRemoteMalformedBody(t *testing.T) {
	srv := serveVersionFile(t, `{"modVersion": `)

	c := NewChecker(time.Second, DefaultConcurrency)
	_, err := c.CheckRemote(context.Background(), &model.ModEntry{ID: "modA", VersionCheckerURL: srv.URL})
	assert.ErrorIs(t, err, errors.ErrVersionCheckFailed)
}

func TestCheckAll(t *testing.T) {
	newer := serveVersionFile(t, `{"modVersion": "2.0", "directDownloadURL": "https://example.com/modB.zip"}`)
	same := serveVersionFile(t, `{"modVersion": "1.0"}`)
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(broken.Close)

	entries := []*model.ModEntry{
		{ID: "modA", Version: "1.0"}, // no checker URL, skipped
		{ID: "modB", Version: "1.0", VersionCheckerURL: newer.URL},
		{ID: "modC", Version: "1.0", VersionCheckerURL: same.URL},
		{ID: "modD", Version: "1.0", VersionCheckerURL: broken.URL},
	}

	c := NewChecker(5*time.Second, DefaultConcurrency)
	updates := c.CheckAll(context.Background(), entries)

	require.Len(t, updates, 1)
	assert.Equal(t, "modB", updates[0].Entry.ID)
	assert.Equal(t, "2.0", updates[0].Remote.Version)
}

func TestCheckAllBoundsConcurrency(t *testing.T) {
	var (
		mu       sync.Mutex
		inFlight int
		maxSeen  int
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		mu.Lock()
		inFlight++
		if inFlight > maxSeen {
			maxSeen = inFlight
		}
		mu.Unlock()

		time.Sleep(20 * time.Millisecond)

		mu.Lock()
		inFlight--
		mu.Unlock()
		_, _ = w.Write([]byte(`{"modVersion": "2.0"}`))
	}))
	t.Cleanup(srv.Close)

	entries := make([]*model.ModEntry, 6)
	for i := range entries {
		entries[i] = &model.ModEntry{ID: fmt.Sprintf("mod%d", i), Version: "1.0", VersionCheckerURL: srv.URL}
	}

	c := NewChecker(5*time.Second, 1)
	updates := c.CheckAll(context.Background(), entries)

	assert.Len(t, updates, 6)
	assert.Equal(t, 1, maxSeen)
}

func TestNewCheckerConcurrencyFloor(t *testing.T) {
	assert.Equal(t, DefaultConcurrency, NewChecker(time.Second, 0).concurrency)
	assert.Equal(t, 2, NewChecker(time.Second, 2).concurrency)
}

func TestNormalizeVersion(t *testing.T) {
	got, err := normalizeVersion(map[string]interface{}{"major": float64(1), "minor": "2"})
	require.NoError(t, err)
	assert.Equal(t, "1.2.0", got)

	_, err = normalizeVersion(nil)
	assert.Error(t, err)

	_, err = normalizeVersion(42.0)
	assert.Error(t, err)
}

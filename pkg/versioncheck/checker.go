// Package versioncheck compares installed mod versions against the metadata
// each mod publishes at its version checker URL. Checks are read-only with
// respect to the registry; an accepted update re-enters the install pipeline
// as a Download intent.
package versioncheck

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/yosuke-furukawa/json5/encoding/json5"
	"golang.org/x/sync/errgroup"

	"github.com/haldre/modhaven/internal/logger"
	"github.com/haldre/modhaven/pkg/errors"
	"github.com/haldre/modhaven/pkg/manifest"
	"github.com/haldre/modhaven/pkg/model"
)

// DefaultConcurrency bounds the number of in-flight remote checks.
const DefaultConcurrency = 4

// maxBodySize caps how much of a version file is read.
const maxBodySize = 1 << 20

// Update is the update-available signal for a single installed mod.
type Update struct {
	Entry  *model.ModEntry
	Remote *model.RemoteVersionInfo
}

// Checker fetches and compares remote version metadata.
type Checker struct {
	client      *http.Client
	userAgent   string
	concurrency int
}

// NewChecker creates a checker with the given HTTP timeout and bound on
// parallel remote checks. A concurrency below 1 falls back to the default.
func NewChecker(timeout time.Duration, concurrency int) *Checker {
	if concurrency < 1 {
		concurrency = DefaultConcurrency
	}
	return &Checker{
		client:      &http.Client{Timeout: timeout},
		userAgent:   "modhaven/1.0",
		concurrency: concurrency,
	}
}

// remoteVersionFile is the wire form of a published version file. Version
// files are as loosely formatted as manifests, so they go through the same
// comment stripping and JSON5 decoding, and the version itself may be either
// a string or a major/minor/patch object.
type remoteVersionFile struct {
	ModVersion        interface{} `json:"modVersion"`
	DirectDownloadURL string      `json:"directDownloadURL"`
}

// CheckRemote fetches the remote metadata for a single mod. It returns the
// normalized info regardless of whether the remote version is newer; callers
// decide what counts as an update.
func (c *Checker) CheckRemote(ctx context.Context, entry *model.ModEntry) (*model.RemoteVersionInfo, error) {
	if entry.VersionCheckerURL == "" {
		return nil, errors.ErrNoVersionCheckerURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, entry.VersionCheckerURL, http.NoBody)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrVersionCheckFailed, "%s: %v", entry.ID, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Wrapf(errors.ErrVersionCheckFailed, "%s: unexpected status code %d", entry.ID, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, errors.Wrapf(errors.ErrVersionCheckFailed, "%s: %v", entry.ID, err)
	}

	var wire remoteVersionFile
	if err := json5.Unmarshal(manifest.StripComments(body), &wire); err != nil {
		return nil, errors.Wrapf(errors.ErrVersionCheckFailed, "%s: malformed version file: %v", entry.ID, err)
	}

	versionStr, err := normalizeVersion(wire.ModVersion)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrVersionCheckFailed, "%s: %v", entry.ID, err)
	}

	return &model.RemoteVersionInfo{
		Version:           versionStr,
		DirectDownloadURL: wire.DirectDownloadURL,
	}, nil
}

// CheckAll checks every entry with a version checker URL concurrently and
// returns an update signal for each strictly newer remote version. Failed or
// incomparable checks are logged and skipped, never fatal.
func (c *Checker) CheckAll(ctx context.Context, entries []*model.ModEntry) []Update {
	var (
		mu      sync.Mutex
		updates []Update
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)

	for _, entry := range entries {
		if entry.VersionCheckerURL == "" {
			continue
		}
		g.Go(func() error {
			remote, err := c.CheckRemote(ctx, entry)
			if err != nil {
				logger.Warn("version check failed", logger.Fields{"mod": entry.ID, "error": err.Error()})
				return nil
			}
			if !IsNewer(entry, remote) {
				return nil
			}
			mu.Lock()
			updates = append(updates, Update{Entry: entry, Remote: remote})
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return updates
}

// IsNewer reports whether remote is strictly newer than the entry's local
// version. Unparseable versions on either side compare as not newer.
func IsNewer(entry *model.ModEntry, remote *model.RemoteVersionInfo) bool {
	local := entry.GetVersion()
	remoteVersion := remote.GetVersion()
	if local == nil || remoteVersion == nil {
		return false
	}
	return remoteVersion.GreaterThan(local)
}

// normalizeVersion renders the modVersion field to a version string. It
// accepts a plain string or an object with major/minor/patch components.
func normalizeVersion(raw interface{}) (string, error) {
	switch v := raw.(type) {
	case nil:
		return "", fmt.Errorf("version file has no modVersion")
	case string:
		if v == "" {
			return "", fmt.Errorf("version file has an empty modVersion")
		}
		return v, nil
	case map[string]interface{}:
		return fmt.Sprintf("%s.%s.%s",
			versionPart(v["major"]),
			versionPart(v["minor"]),
			versionPart(v["patch"])), nil
	default:
		return "", fmt.Errorf("unsupported modVersion type %T", raw)
	}
}

func versionPart(raw interface{}) string {
	switch v := raw.(type) {
	case string:
		if v == "" {
			return "0"
		}
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	default:
		return "0"
	}
}

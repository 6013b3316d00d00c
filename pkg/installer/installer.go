// Package installer implements the install pipeline: intake of archives,
// folders or downloads, staged extraction, nested-root location, conflict
// detection with suspend/resume, atomic placement and result emission.
//
// Each install attempt runs as its own task and terminates with exactly one
// Success or Error message. A task that hits a conflict emits a Duplicate
// message instead, keeps its staged directory on disk and ends its active
// work; it is only revived by a fresh Resumed intent carrying the same
// destination.
package installer

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/haldre/modhaven/internal/logger"
	"github.com/haldre/modhaven/pkg/download"
	"github.com/haldre/modhaven/pkg/errors"
	"github.com/haldre/modhaven/pkg/fsutil"
	"github.com/haldre/modhaven/pkg/hook"
	"github.com/haldre/modhaven/pkg/manifest"
	"github.com/haldre/modhaven/pkg/model"
)

const stagingPrefix = "stage-"

// messageBuffer keeps slow consumers from stalling placement of unrelated
// tasks.
const messageBuffer = 16

// Service runs install tasks and emits their messages.
type Service struct {
	modsDir     string
	stagingDir  string
	downloadDir string
	extractor   Extractor
	fetcher     Fetcher
	hooks       *hook.Manager

	messages chan model.InstallMessage
	wg       sync.WaitGroup
}

// NewService creates an install service. modsDir is the final mod location,
// stagingDir the parent for temporary extraction roots and downloadDir the
// archive cache for Download intents. fetcher and hooks may be nil when
// downloads or lifecycle hooks are not needed.
func NewService(modsDir, stagingDir, downloadDir string, extractor Extractor, fetcher Fetcher, hooks *hook.Manager) *Service {
	return &Service{
		modsDir:     modsDir,
		stagingDir:  stagingDir,
		downloadDir: downloadDir,
		extractor:   extractor,
		fetcher:     fetcher,
		hooks:       hooks,
		messages:    make(chan model.InstallMessage, messageBuffer),
	}
}

// Messages returns the stream of install messages. Every task delivers
// exactly one terminal Success or Error; a Duplicate precedes the terminal
// message of the task that resumes it.
func (s *Service) Messages() <-chan model.InstallMessage {
	return s.messages
}

// Install starts the tasks described by the intent and returns immediately.
// Initial intents fan out one task per source; Resumed and Download intents
// run as a single task. The snapshot is the caller's read-only view of the
// registry at intake time.
func (s *Service) Install(ctx context.Context, intent model.InstallIntent, snapshot map[string]string) error {
	switch intent.Kind {
	case model.IntentInitial:
		if len(intent.Sources) == 0 {
			return fmt.Errorf("initial install intent has no sources")
		}
		for _, source := range intent.Sources {
			s.wg.Add(1)
			go func(src string) {
				defer s.wg.Done()
				s.runInitial(ctx, src, snapshot)
			}(source)
		}
	case model.IntentResumed:
		if intent.Entry == nil || intent.Destination.Staged == "" || intent.Destination.Resolved == "" {
			return fmt.Errorf("resumed install intent is missing its suspended state")
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.runResumed(intent)
		}()
	case model.IntentDownload:
		if intent.Entry == nil {
			return fmt.Errorf("download install intent has no mod entry")
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.runDownload(ctx, intent.Entry, snapshot)
		}()
	default:
		return fmt.Errorf("unknown install intent kind %d", intent.Kind)
	}
	return nil
}

// Wait blocks until every started task has emitted its terminal or Duplicate
// message.
func (s *Service) Wait() {
	s.wg.Wait()
}

// runInitial handles one user-provided source. Archive files are extracted
// into fresh staging; folders are copied there so the pipeline never mutates
// the user's directory.
func (s *Service) runInitial(ctx context.Context, source string, snapshot map[string]string) {
	info, err := os.Stat(source)
	if err != nil {
		s.emitError(errors.Wrapf(err, "failed to read install source %s", source))
		return
	}

	stageDir, err := s.newStageDir()
	if err != nil {
		s.emitError(err)
		return
	}

	if info.IsDir() {
		if err := fsutil.CopyDir(source, filepath.Join(stageDir, filepath.Base(source))); err != nil {
			s.discardStaging(stageDir)
			s.emitError(errors.Wrapf(err, "failed to stage folder %s", source))
			return
		}
	} else {
		if err := s.extractor.Extract(ctx, source, stageDir); err != nil {
			s.discardStaging(stageDir)
			s.emitError(errors.Wrapf(errors.ErrExtractionFailed, "%s: %v", filepath.Base(source), err))
			return
		}
	}

	s.advanceStaged(stageDir, snapshot)
}

// runDownload resolves the mod's remote archive and then behaves exactly like
// an archive install, full conflict detection included.
func (s *Service) runDownload(ctx context.Context, entry *model.ModEntry, snapshot map[string]string) {
	if s.fetcher == nil {
		s.emitError(fmt.Errorf("no download manager configured"))
		return
	}
	if entry.RemoteVersion == nil || entry.RemoteVersion.DirectDownloadURL == "" {
		s.emitError(errors.Wrapf(errors.ErrNoDownloadURL, "%s has no direct download URL", entry.ID))
		return
	}

	parsed, err := url.Parse(entry.RemoteVersion.DirectDownloadURL)
	if err != nil {
		s.emitError(errors.Wrapf(errors.ErrNoDownloadURL, "%s: %v", entry.ID, err))
		return
	}

	archivePath, err := s.fetcher.Fetch(ctx, download.Item{
		ID:       entry.ID,
		URL:      parsed,
		Filename: downloadFilename(entry, parsed),
	}, download.Options{Dir: s.downloadDir})
	if err != nil {
		s.emitError(err)
		return
	}

	stageDir, err := s.newStageDir()
	if err != nil {
		s.emitError(err)
		return
	}
	if err := s.extractor.Extract(ctx, archivePath, stageDir); err != nil {
		s.discardStaging(stageDir)
		s.emitError(errors.Wrapf(errors.ErrExtractionFailed, "%s: %v", entry.ID, err))
		return
	}

	s.advanceStaged(stageDir, snapshot)
}

// advanceStaged runs the root-location, conflict-check and placement states
// on a populated staging directory.
func (s *Service) advanceStaged(stageDir string, snapshot map[string]string) {
	root, err := LocateRoot(stageDir)
	if err != nil {
		s.discardStaging(stageDir)
		s.emitError(err)
		return
	}
	if root == "" {
		s.discardStaging(stageDir)
		s.emitError(errors.ErrNoModFound)
		return
	}

	entry, err := manifest.Parse(manifest.PathFor(root))
	if err != nil {
		s.discardStaging(stageDir)
		s.emitError(err)
		return
	}

	dest := filepath.Join(s.modsDir, entry.ID)
	conflict := DetectConflict(entry, s.modsDir, snapshot)
	if conflict.IsConflict() {
		logger.Debug("install suspended on conflict", logger.Fields{
			"mod":    entry.ID,
			"staged": root,
		})
		s.messages <- model.DuplicateMessage(conflict, model.PendingDestination{Staged: root, Resolved: dest}, entry)
		return
	}

	s.place(root, dest)
}

// runResumed removes the conflicting entry the user confirmed overwriting and
// places the held staging root. A resume whose staged root is gone was
// already resumed once and is rejected as stale.
func (s *Service) runResumed(intent model.InstallIntent) {
	staged := intent.Destination.Staged
	if _, err := os.Stat(staged); os.IsNotExist(err) {
		s.emitError(errors.Wrapf(errors.ErrStaleResume, "staged directory %s no longer exists", staged))
		return
	}

	if intent.Conflict.IsConflict() && intent.Conflict.Path != "" {
		if err := os.RemoveAll(intent.Conflict.Path); err != nil {
			// The staged root stays on disk for diagnosis.
			s.emitError(errors.Wrapf(errors.ErrConflictRemoval, "%s: %v", intent.Conflict.Path, err))
			return
		}
	}

	s.place(staged, intent.Destination.Resolved)
}

// place moves the root into its destination, re-parses the moved manifest and
// emits the terminal message. The re-parse guards against corruption
// introduced during the move and yields the entry the registry will hold.
func (s *Service) place(root, dest string) {
	if err := fsutil.MoveAtomic(root, dest); err != nil {
		s.emitError(errors.Wrapf(errors.ErrPlacementFailed, "%s: %v", dest, err))
		return
	}

	entry, err := manifest.Parse(manifest.PathFor(dest))
	if err != nil {
		s.emitError(errors.Wrapf(err, "mod at %s is unreadable after placement", dest))
		return
	}

	s.cleanupStagingParent(root)
	s.runPostInstallHook(entry)
	s.messages <- model.SuccessMessage(entry)
}

func (s *Service) emitError(err error) {
	s.messages <- model.ErrorMessage(err)
}

func (s *Service) newStageDir() (string, error) {
	if err := fsutil.EnsureDir(s.stagingDir); err != nil {
		return "", errors.Wrap(err, "failed to create staging parent")
	}
	stageDir, err := os.MkdirTemp(s.stagingDir, stagingPrefix)
	if err != nil {
		return "", errors.Wrap(err, "failed to create staging directory")
	}
	return stageDir, nil
}

// discardStaging removes a staging directory after a terminal failure.
func (s *Service) discardStaging(stageDir string) {
	if err := os.RemoveAll(stageDir); err != nil {
		logger.Warn("failed to remove staging directory", logger.Fields{
			"path":  stageDir,
			"error": err.Error(),
		})
	}
}

// cleanupStagingParent removes the per-task staging directory the moved root
// came out of. Cleanup failure cannot invalidate a completed placement, so it
// is logged and swallowed.
func (s *Service) cleanupStagingParent(root string) {
	parent := s.stagingParentOf(root)
	if parent == "" {
		return
	}
	if err := os.RemoveAll(parent); err != nil {
		logger.Warn("failed to clean staging directory", logger.Fields{
			"path":  parent,
			"error": err.Error(),
		})
	}
}

// stagingParentOf returns the per-task staging directory containing path, or
// "" when path is not under this service's staging parent.
func (s *Service) stagingParentOf(path string) string {
	rel, err := filepath.Rel(s.stagingDir, path)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return ""
	}
	first := strings.Split(rel, string(filepath.Separator))[0]
	return filepath.Join(s.stagingDir, first)
}

func (s *Service) runPostInstallHook(entry *model.ModEntry) {
	if s.hooks == nil {
		return
	}
	err := s.hooks.Execute(hook.PostInstall, hook.Context{
		ModID:      entry.ID,
		ModName:    entry.Name,
		ModVersion: entry.Version,
		ModPath:    entry.Path,
	})
	if err != nil {
		logger.Warn("post-install hook failed", logger.Fields{
			"mod":   entry.ID,
			"error": err.Error(),
		})
	}
}

// SweepStaging removes leftover staging directories. A Duplicate that is
// never resumed leaves its staging on disk deliberately; this sweep is the
// external policy that bounds the leak. Returns the number of entries
// removed.
func (s *Service) SweepStaging() (int, error) {
	entries, err := os.ReadDir(s.stagingDir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, errors.Wrap(err, "failed to read staging parent")
	}

	removed := 0
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), stagingPrefix) {
			continue
		}
		path := filepath.Join(s.stagingDir, entry.Name())
		if err := os.RemoveAll(path); err != nil {
			logger.Warn("failed to sweep staging directory", logger.Fields{
				"path":  path,
				"error": err.Error(),
			})
			continue
		}
		removed++
	}
	return removed, nil
}

func downloadFilename(entry *model.ModEntry, u *url.URL) string {
	if base := filepath.Base(u.Path); base != "." && base != "/" && base != "" {
		return base
	}
	return entry.ID + ".zip"
}

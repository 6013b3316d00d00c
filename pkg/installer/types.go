//go:generate mockgen -destination=./mocks/installer.go . Extractor,Fetcher

package installer

import (
	"context"

	"github.com/haldre/modhaven/pkg/download"
)

// Extractor unpacks an archive into a directory. The archive manager is the
// production implementation.
type Extractor interface {
	Extract(ctx context.Context, archivePath, destDir string) error
}

// Fetcher resolves a remote mod source to a local archive path. The download
// manager is the production implementation.
type Fetcher interface {
	Fetch(ctx context.Context, item download.Item, opts download.Options) (string, error)
}

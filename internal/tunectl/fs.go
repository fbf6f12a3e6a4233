package tunectl

import "tunectl/internal/common/fsutil"

// checkpointPresent reports whether a downloaded checkpoint already exists.
// The external downloader also skips-if-present; checking here avoids even
// launching it on a re-run.
func checkpointPresent(dir string) bool {
	return fsutil.DirNonEmpty(dir)
}

package cas

import (
	"archive/tar"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/klauspost/compress/zstd"
	"go.trai.ch/zerr"
	"go.weft.build/weft/internal/core/domain"
	"go.weft.build/weft/internal/core/ports"
)

var _ ports.ObjectStore = (*ObjectStore)(nil)

// ObjectStore implements ports.ObjectStore as a local directory of
// tar+zstd archives, one per cache fingerprint, sharded two hex characters
// deep so no directory holds an unbounded number of entries.
type ObjectStore struct {
	root     string
	readOnly bool

	// locks holds one *sync.Mutex per fingerprint currently being
	// written or restored, so two workers racing on the same cache key
	// (a diamond graph's shared dependency, re-run twice) serialize
	// instead of corrupting each other's archive.
	locks sync.Map
}

// NewObjectStore creates an ObjectStore rooted at root. When readOnly is
// true, TryStore is a no-op; used for a run that must never populate the
// shared cache (e.g. CI workers reading a warmed cache built elsewhere).
func NewObjectStore(root string, readOnly bool) *ObjectStore {
	return &ObjectStore{root: root, readOnly: readOnly}
}

func (s *ObjectStore) archivePath(fp domain.CacheFingerprint) string {
	key := string(fp)
	shard := key
	if len(shard) > 2 {
		shard = shard[:2]
	}
	return filepath.Join(s.root, shard, key+".tar.zst")
}

func (s *ObjectStore) lockFor(fp domain.CacheFingerprint) *sync.Mutex {
	mu, _ := s.locks.LoadOrStore(fp, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// TryRestore extracts the archive for fingerprint into destDir. Returns
// false, nil on a cache miss (no such archive).
func (s *ObjectStore) TryRestore(fp domain.CacheFingerprint, destDir string) (bool, error) {
	mu := s.lockFor(fp)
	mu.Lock()
	defer mu.Unlock()

	f, err := os.Open(s.archivePath(fp)) //nolint:gosec // path is derived from a hex fingerprint, not user input
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, zerr.With(zerr.Wrap(domain.ErrCache, "failed to open cache archive"), "fingerprint", string(fp))
	}
	defer f.Close() //nolint:errcheck // best-effort close in defer

	zr, err := zstd.NewReader(f)
	if err != nil {
		return false, zerr.With(zerr.Wrap(domain.ErrCache, "failed to open zstd stream"), "fingerprint", string(fp))
	}
	defer zr.Close()

	if err := os.MkdirAll(destDir, 0o750); err != nil {
		return false, zerr.Wrap(err, "failed to create restore destination")
	}

	tr := tar.NewReader(zr)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return false, zerr.With(zerr.Wrap(domain.ErrCache, "failed to read cache archive"), "fingerprint", string(fp))
		}

		target := filepath.Join(destDir, hdr.Name)
		if hdr.Typeflag == tar.TypeDir {
			if err := os.MkdirAll(target, 0o750); err != nil {
				return false, zerr.Wrap(err, "failed to create restored directory")
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
			return false, zerr.Wrap(err, "failed to create restored file's parent directory")
		}
		out, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, os.FileMode(hdr.Mode)) //nolint:gosec // mode comes from our own archive
		if err != nil {
			return false, zerr.Wrap(err, "failed to create restored file")
		}
		if _, err := io.Copy(out, tr); err != nil { //nolint:gosec // archive contents are self-produced
			out.Close() //nolint:errcheck // already failing
			return false, zerr.Wrap(err, "failed to write restored file")
		}
		if err := out.Close(); err != nil {
			return false, zerr.Wrap(err, "failed to close restored file")
		}
	}

	return true, nil
}

// TryStore archives outputs (paths relative to baseDir) under fingerprint.
// Writes go to a temp file in the shard directory and are atomically
// renamed into place, so a concurrent TryRestore never observes a
// partially-written archive.
func (s *ObjectStore) TryStore(fp domain.CacheFingerprint, baseDir string, outputs []string) error {
	if s.readOnly {
		return nil
	}

	mu := s.lockFor(fp)
	mu.Lock()
	defer mu.Unlock()

	dest := s.archivePath(fp)
	if _, err := os.Stat(dest); err == nil {
		return nil // already cached by a previous run
	}

	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return zerr.Wrap(err, "failed to create cache shard directory")
	}

	tmp, err := os.CreateTemp(dir, ".object-*.tmp")
	if err != nil {
		return zerr.Wrap(err, "failed to create temp cache archive")
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck // no-op once renamed

	if err := writeArchive(tmp, baseDir, outputs); err != nil {
		tmp.Close() //nolint:errcheck // already failing
		return err
	}
	if err := tmp.Close(); err != nil {
		return zerr.Wrap(err, "failed to close temp cache archive")
	}

	if err := os.Rename(tmpName, dest); err != nil {
		return zerr.With(zerr.Wrap(domain.ErrCache, "failed to rename cache archive into place"), "fingerprint", string(fp))
	}

	return nil
}

func writeArchive(w io.Writer, baseDir string, outputs []string) error {
	zw, err := zstd.NewWriter(w)
	if err != nil {
		return zerr.Wrap(err, "failed to open zstd writer")
	}
	defer zw.Close()

	tw := tar.NewWriter(zw)
	defer tw.Close()

	for _, rel := range outputs {
		if err := addToArchive(tw, baseDir, rel); err != nil {
			return err
		}
	}

	return nil
}

// addToArchive expands pattern (a glob relative to baseDir) and walks each
// match, adding every file and directory it finds to tw.
func addToArchive(tw *tar.Writer, baseDir, pattern string) error {
	matches, err := filepath.Glob(filepath.Join(baseDir, pattern))
	if err != nil {
		return err
	}

	for _, root := range matches {
		err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				if os.IsNotExist(err) {
					return nil
				}
				return err
			}

			name, err := filepath.Rel(baseDir, path)
			if err != nil {
				return err
			}

			hdr, err := tar.FileInfoHeader(info, "")
			if err != nil {
				return err
			}
			hdr.Name = filepath.ToSlash(name)

			if err := tw.WriteHeader(hdr); err != nil {
				return err
			}

			if info.IsDir() {
				return nil
			}

			f, err := os.Open(path) //nolint:gosec // path derives from a declared task output
			if err != nil {
				return err
			}
			defer f.Close() //nolint:errcheck // best-effort close in defer

			_, err = io.Copy(tw, f)
			return err
		})
		if err != nil {
			return err
		}
	}

	return nil
}

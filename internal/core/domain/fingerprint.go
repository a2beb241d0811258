package domain

import (
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// CacheFingerprint is the content-addressed key for one task's cacheable
// output: a digest over the exact command, every input file's hash in
// sorted order, the tool-version tag, and the config tag. Two runs that
// fingerprint identically are guaranteed to produce the same outputs.
type CacheFingerprint string

// ComputeFingerprint hashes command, the sorted contents of files, and the
// two opaque tags into a single fingerprint. toolVersionTag distinguishes
// builds made with different compiler/runtime versions; configTag
// distinguishes builds made under different repository-wide configuration
// (e.g. a bumped lockfile). Either may be empty.
func ComputeFingerprint(command string, files *FileHashMap, toolVersionTag, configTag string) CacheFingerprint {
	h := xxhash.New()

	writeField(h, command)
	writeField(h, toolVersionTag)
	writeField(h, configTag)

	for _, path := range files.SortedPaths() {
		hash, _ := files.Get(path)
		writeField(h, path)
		writeField(h, hash)
	}

	return CacheFingerprint(strconv.FormatUint(h.Sum64(), 16))
}

// writeField writes s followed by a NUL separator, so that adjacent fields
// of different lengths never collide ("ab"+"c" vs "a"+"bc").
func writeField(h *xxhash.Digest, s string) {
	_, _ = h.WriteString(s)
	_, _ = h.Write([]byte{0})
}

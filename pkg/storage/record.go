package storage

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Backup filenames carry the schedule name and a sortable timestamp so that
// artifact age can be derived without trusting backend modification times.
// Shape: backup_<schedule>_<20060102_150405>.hbk[.gz][.enc]

const (
	nameTimeLayout = "20060102_150405"
	nameExt        = ".hbk"
	gzipExt        = ".gz"
	encExt         = ".enc"
)

var (
	backupNameRe   = regexp.MustCompile(`^backup_(.+)_(\d{8}_\d{6})\.hbk(\.gz)?(\.enc)?$`)
	scheduleSlugRe = regexp.MustCompile(`[^a-zA-Z0-9-]+`)
)

// EncodeBackupName builds the artifact filename for one run.
func EncodeBackupName(schedule string, ts time.Time, compressed, encrypted bool) string {
	name := fmt.Sprintf("backup_%s_%s%s", ScheduleSlug(schedule), ts.Format(nameTimeLayout), nameExt)
	if compressed {
		name += gzipExt
	}
	if encrypted {
		name += encExt
	}
	return name
}

// ScheduleSlug normalizes a schedule name for filename embedding.
func ScheduleSlug(schedule string) string {
	slug := scheduleSlugRe.ReplaceAllString(strings.TrimSpace(schedule), "-")
	return strings.Trim(slug, "-")
}

// ParseBackupName extracts the schedule slug and timestamp from an artifact
// filename. ok is false for names this service did not produce.
func ParseBackupName(filename string) (schedule string, ts time.Time, ok bool) {
	m := backupNameRe.FindStringSubmatch(filename)
	if m == nil {
		return "", time.Time{}, false
	}
	parsed, err := time.ParseInLocation(nameTimeLayout, m[2], time.Local)
	if err != nil {
		return "", time.Time{}, false
	}
	return m[1], parsed, true
}

// IsBackupName reports whether filename matches the artifact naming scheme.
func IsBackupName(filename string) bool {
	_, _, ok := ParseBackupName(filename)
	return ok
}

// IsCompressedName reports whether the artifact went through gzip.
func IsCompressedName(filename string) bool {
	return strings.Contains(filename, gzipExt)
}

// IsEncryptedName reports whether the artifact went through the cipher.
func IsEncryptedName(filename string) bool {
	return strings.HasSuffix(filename, encExt)
}

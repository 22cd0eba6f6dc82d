package cache

import (
	"bytes"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"github.com/jamesainslie/dirtally/pkg/dirtally/report"
)

// CacheVersion is incremented when the encoded report format changes.
// Entries written by another version are treated as missing.
const CacheVersion = 1

// KeySeparator separates the namespace from the rest of a key.
const KeySeparator = '\x00'

// Key namespaces.
const (
	reportNamespace = "report"
	runNamespace    = "run"
)

// CachedReport is a report stored under the digest of its input.
type CachedReport struct {
	Version   int
	CreatedAt time.Time
	Report    report.Report
}

// Run is one entry of the analysis history.
type Run struct {
	ID            string
	Time          time.Time
	Source        string
	Digest        string
	TotalSize     int64
	SmallTotal    int64
	Deficit       int64
	Candidate     string
	CandidateSize int64
	Cached        bool
}

func encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decode(data []byte, v any) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(v)
}

// Digest identifies a transcript analysed with the given options. Any change
// to the text or to an option yields a different digest.
func Digest(text string, opts report.Options) string {
	h := sha256.New()
	h.Write([]byte(text))
	h.Write([]byte{KeySeparator})
	h.Write([]byte(strconv.FormatInt(opts.Limit, 10)))
	h.Write([]byte{KeySeparator})
	h.Write([]byte(strconv.FormatInt(opts.Capacity, 10)))
	h.Write([]byte{KeySeparator})
	h.Write([]byte(strconv.FormatInt(opts.Required, 10)))
	return hex.EncodeToString(h.Sum(nil))
}

// MakeKeyPrefix returns the prefix shared by every key of a namespace.
func MakeKeyPrefix(namespace string) []byte {
	return []byte(namespace + string(KeySeparator))
}

// reportKey builds report\x00<digest>.
func reportKey(digest string) []byte {
	return append(MakeKeyPrefix(reportNamespace), digest...)
}

// runKey builds run\x00<zero-padded unix nanos>\x00<id> so that runs sort
// chronologically.
func runKey(r Run) []byte {
	return []byte(fmt.Sprintf("%s%c%020d%c%s",
		runNamespace, KeySeparator, r.Time.UnixNano(), KeySeparator, r.ID))
}

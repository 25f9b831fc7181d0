package driver

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"sort"
	"strconv"
	"strings"

	"cbind/internal/ir"
)

// Digest is a SHA-256 cache key.
type Digest [sha256.Size]byte

func (d Digest) String() string { return hex.EncodeToString(d[:]) }

// CacheKey hashes the dump bytes together with everything that changes
// the report: target, opaque and hidden names, and the --all switch.
// Name lists are order-insensitive.
func CacheKey(dump []byte, opts ir.Options, all bool) Digest {
	h := sha256.New()
	_, _ = h.Write(dump)
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(opts.Target.Triple))
	writeNames(h, "opaque", opts.OpaqueTypes)
	writeNames(h, "hidden", opts.HiddenTypes)
	_, _ = h.Write([]byte("all=" + strconv.FormatBool(all)))
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

func writeNames(h io.Writer, label string, names []string) {
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)
	_, _ = h.Write([]byte("\x00" + label + "=" + strings.Join(sorted, "\x1f")))
}

package services

import (
	"fmt"
	"mime"
	"path"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	storageKeyPrefix = "bookmarks"
	maxFileNameLen   = 100
	// prefix/YYYY/MM/DD/<ts>/<owner>/<name>
	storageKeySegments = 7
	ownerSegment       = 5
)

var reservedNames = map[string]struct{}{
	"con": {}, "prn": {}, "aux": {}, "nul": {},
	"com1": {}, "com2": {}, "com3": {}, "com4": {}, "com5": {}, "com6": {}, "com7": {}, "com8": {}, "com9": {},
	"lpt1": {}, "lpt2": {}, "lpt3": {}, "lpt4": {}, "lpt5": {}, "lpt6": {}, "lpt7": {}, "lpt8": {}, "lpt9": {},
}

// storageKey builds "bookmarks/YYYY/MM/DD/<ts-nanos>/<owner-hex>/<name.ext>".
func storageKey(now time.Time, ownerID uuid.UUID, fileName, contentType string) string {
	now = now.UTC()
	return fmt.Sprintf(
		"%s/%04d/%02d/%02d/%d/%s/%s",
		storageKeyPrefix,
		now.Year(), int(now.Month()), now.Day(),
		now.UnixNano(),
		ownerHex(ownerID),
		safeFileName(fileName, contentType),
	)
}

// keyOwnedBy reports whether key was issued by storageKey for ownerID.
func keyOwnedBy(ownerID uuid.UUID, key string) bool {
	parts := strings.Split(key, "/")
	if len(parts) != storageKeySegments || parts[0] != storageKeyPrefix {
		return false
	}
	for _, p := range parts {
		if p == "" || p == "." || p == ".." {
			return false
		}
	}
	return parts[ownerSegment] == ownerHex(ownerID)
}

func ownerHex(id uuid.UUID) string { return strings.ReplaceAll(id.String(), "-", "") }

// safeFileName reduces a client file name to lowercase ASCII [a-z0-9-] plus
// an extension, falling back to one derived from contentType, then ".bin".
func safeFileName(original, contentType string) string {
	s := strings.ReplaceAll(strings.TrimSpace(original), "\\", "/")
	s = path.Base(s)
	if s == "." || s == ".." || s == "/" {
		s = ""
	}

	// strip accents: "résumé" -> "resume"
	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn), norm.NFC)
	if out, _, err := transform.String(t, s); err == nil {
		s = out
	}

	ext := strings.ToLower(path.Ext(s))
	base := strings.TrimSuffix(s, path.Ext(s))
	if !validExt(ext) {
		ext = ""
	}
	if ext == "" {
		if exts, _ := mime.ExtensionsByType(contentType); len(exts) > 0 {
			ext = exts[0]
		} else {
			ext = ".bin"
		}
	}

	var b strings.Builder
	b.Grow(len(base))
	dash := false
	for _, r := range strings.ToLower(base) {
		switch {
		case r < utf8.RuneSelf && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
			dash = false
		case r == '-' || r == '_' || r == '.' || unicode.IsSpace(r):
			if !dash {
				b.WriteByte('-')
				dash = true
			}
		}
	}
	base = strings.Trim(b.String(), "-")

	if base == "" {
		base = "file"
	}
	if _, bad := reservedNames[base]; bad {
		base = "_" + base
	}
	if limit := maxFileNameLen - len(ext); len(base) > limit {
		base = strings.TrimRight(base[:limit], "-")
	}

	return base + ext
}

func validExt(ext string) bool {
	if len(ext) < 2 || len(ext) > 10 {
		return false
	}
	for _, r := range ext[1:] {
		if r >= utf8.RuneSelf || !(unicode.IsLetter(r) || unicode.IsDigit(r)) {
			return false
		}
	}
	return true
}

func isMn(r rune) bool { return unicode.Is(unicode.Mn, r) }

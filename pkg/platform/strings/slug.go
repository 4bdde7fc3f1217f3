package strings

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/google/uuid"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxSlugLength bounds Slugify output.
const MaxSlugLength = 48

// Slugify derives a URL-safe slug: accents are stripped, letters and digits
// are lower-cased, every other run of characters becomes one hyphen.
//
//	Slugify("Café Déjà Vu!") // "cafe-deja-vu"
func Slugify(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	pendingHyphen := false
	for _, r := range strings.ToLower(folded) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			if pendingHyphen && b.Len() > 0 {
				// A hyphen must be followed by one more byte.
				if b.Len()+2 > MaxSlugLength {
					break
				}
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			if b.Len() >= MaxSlugLength {
				break
			}
			continue
		}
		pendingHyphen = true
	}
	return strings.TrimRight(b.String(), "-")
}

// suffixedAttempts is how many numbered suffixes SlugCandidate tries before
// switching to random ones.
const suffixedAttempts = 4

// SlugCandidate returns the slug to try on the given attempt, counting from
// one. The first attempt is base itself, the next few append -2, -3 and so on,
// and later attempts append a short random token so a heavily shared base
// (the fallback slug, a common company name) still finds a free value. The
// result never exceeds MaxSlugLength.
func SlugCandidate(base string, attempt int) string {
	if attempt <= 1 {
		return base
	}
	suffix := strconv.Itoa(attempt)
	if attempt > suffixedAttempts {
		suffix = strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	}
	if keep := MaxSlugLength - len(suffix) - 1; len(base) > keep {
		base = strings.TrimRight(base[:keep], "-")
	}
	return base + "-" + suffix
}

package posts

import (
	"context"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// fallbackSlug is the base used when a title has no letters or digits.
const fallbackSlug = "post"

// Letters that do not decompose into an ASCII base plus a combining mark.
var transliterations = strings.NewReplacer(
	"ß", "ss",
	"æ", "ae",
	"ø", "o",
	"œ", "oe",
	"ł", "l",
	"đ", "d",
	"ð", "d",
	"þ", "th",
	"ı", "i",
)

// Slugify maps a title to its URL-safe base form: lowercase ASCII letters
// and digits separated by single hyphens.
func Slugify(title string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, strings.ToLower(title))
	if err != nil {
		folded = strings.ToLower(title)
	}
	folded = transliterations.Replace(folded)

	var b strings.Builder
	hyphen := false
	for _, r := range folded {
		if ('a' <= r && r <= 'z') || ('0' <= r && r <= '9') {
			if hyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			hyphen = false
			b.WriteRune(r)
			continue
		}
		hyphen = true
	}

	if b.Len() == 0 {
		return fallbackSlug
	}
	return b.String()
}

type SlugChecker interface {
	SlugExists(ctx context.Context, slug string) (bool, error)
}

// SlugGenerator picks a slug no stored post currently uses. It only reads.
type SlugGenerator struct {
	checker SlugChecker
}

func NewSlugGenerator(checker SlugChecker) *SlugGenerator {
	return &SlugGenerator{checker: checker}
}

// Generate returns Slugify(title) if it is free, otherwise the first free
// candidate of base-1, base-2, ...
func (g *SlugGenerator) Generate(ctx context.Context, title string) (string, error) {
	base := Slugify(title)
	candidate := base
	for n := 1; ; n++ {
		exists, err := g.checker.SlugExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		if err := ctx.Err(); err != nil {
			return "", err
		}
		candidate = base + "-" + strconv.Itoa(n)
	}
}

package tts

import (
	"github.com/sahilm/fuzzy"
	"github.com/samber/lo"
)

// SuggestVoices returns up to limit voice names that fuzzily match name,
// best match first.
func SuggestVoices(name string, voices []Voice, limit int) []string {
	if name == "" || len(voices) == 0 || limit <= 0 {
		return nil
	}

	names := lo.Uniq(lo.Map(voices, func(v Voice, _ int) string {
		return v.Name
	}))

	matches := fuzzy.Find(name, names)
	if len(matches) > limit {
		matches = matches[:limit]
	}

	return lo.Map(matches, func(m fuzzy.Match, _ int) string {
		return m.Str
	})
}

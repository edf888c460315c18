package tts

import (
	"github.com/samber/lo"
)

// Properties are the caller's overrides for a speech request. A nil field
// keeps the host default; a set field wins even when it is zero.
type Properties struct {
	Lang   *string
	Volume *float64
	Pitch  *float64
	Rate   *float64

	// Voice is the name of the voice to bind. Empty means the host picks.
	Voice string
}

// snapshot copies the pointed-to values so later changes by the caller
// do not leak into a Speaker.
func (p Properties) snapshot() Properties {
	out := Properties{Voice: p.Voice}
	if p.Lang != nil {
		out.Lang = lo.ToPtr(*p.Lang)
	}
	if p.Volume != nil {
		out.Volume = lo.ToPtr(*p.Volume)
	}
	if p.Pitch != nil {
		out.Pitch = lo.ToPtr(*p.Pitch)
	}
	if p.Rate != nil {
		out.Rate = lo.ToPtr(*p.Rate)
	}
	return out
}

// apply overrides the host defaults carried by u.
func (p Properties) apply(u *Utterance) {
	u.Lang = lo.FromPtrOr(p.Lang, u.Lang)
	u.Volume = lo.FromPtrOr(p.Volume, u.Volume)
	u.Pitch = lo.FromPtrOr(p.Pitch, u.Pitch)
	u.Rate = lo.FromPtrOr(p.Rate, u.Rate)
}

// FindVoice returns the voice whose name matches exactly.
func FindVoice(voices []Voice, name string) (Voice, bool) {
	return lo.Find(voices, func(v Voice) bool {
		return v.Name == name
	})
}

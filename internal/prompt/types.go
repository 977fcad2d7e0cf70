// Package prompt validates brand content requests and composes the structured
// prompt text handed to a downstream text generator.
package prompt

// Orientation is the content intent the prompt is built for.
type Orientation string

const (
	OrientationPost        Orientation = "post"
	OrientationAd          Orientation = "ad"
	OrientationEmail       Orientation = "email"
	OrientationLandingPage Orientation = "landing_page"
	OrientationOther       Orientation = "other"
)

var orientations = []Orientation{
	OrientationPost,
	OrientationAd,
	OrientationEmail,
	OrientationLandingPage,
	OrientationOther,
}

// AllOrientations returns the supported orientations in display order.
func AllOrientations() []Orientation {
	return append([]Orientation(nil), orientations...)
}

// Valid reports whether o is a known orientation.
func (o Orientation) Valid() bool {
	for _, known := range orientations {
		if o == known {
			return true
		}
	}
	return false
}

// Platform is the destination channel for the generated content.
type Platform string

const (
	PlatformInstagram Platform = "instagram"
	PlatformTikTok    Platform = "tiktok"
	PlatformFacebook  Platform = "facebook"
	PlatformLinkedIn  Platform = "linkedin"
	PlatformX         Platform = "x"
	PlatformYouTube   Platform = "youtube"
	PlatformBlog      Platform = "blog"
	PlatformWebsite   Platform = "website"
	PlatformOther     Platform = "other"
)

var platforms = []Platform{
	PlatformInstagram,
	PlatformTikTok,
	PlatformFacebook,
	PlatformLinkedIn,
	PlatformX,
	PlatformYouTube,
	PlatformBlog,
	PlatformWebsite,
	PlatformOther,
}

// AllPlatforms returns the supported platforms in display order.
func AllPlatforms() []Platform {
	return append([]Platform(nil), platforms...)
}

// Valid reports whether p is a known platform.
func (p Platform) Valid() bool {
	for _, known := range platforms {
		if p == known {
			return true
		}
	}
	return false
}

// Tone is the overall brand voice tone.
type Tone string

const (
	ToneProfessional Tone = "professional"
	ToneFriendly     Tone = "friendly"
	TonePlayful      Tone = "playful"
	ToneBold         Tone = "bold"
	ToneLuxurious    Tone = "luxurious"
	ToneMinimalist   Tone = "minimalist"
	ToneOther        Tone = "other"
)

var tones = []Tone{
	ToneProfessional,
	ToneFriendly,
	TonePlayful,
	ToneBold,
	ToneLuxurious,
	ToneMinimalist,
	ToneOther,
}

// AllTones returns the supported tones in display order.
func AllTones() []Tone {
	return append([]Tone(nil), tones...)
}

// Valid reports whether t is a known tone.
func (t Tone) Valid() bool {
	for _, known := range tones {
		if t == known {
			return true
		}
	}
	return false
}

// LengthPreference is the desired output length.
type LengthPreference string

const (
	LengthShort  LengthPreference = "short"
	LengthMedium LengthPreference = "medium"
	LengthLong   LengthPreference = "long"
)

var lengthPreferences = []LengthPreference{
	LengthShort,
	LengthMedium,
	LengthLong,
}

// AllLengthPreferences returns the supported lengths in display order.
func AllLengthPreferences() []LengthPreference {
	return append([]LengthPreference(nil), lengthPreferences...)
}

// Valid reports whether l is a known length preference.
func (l LengthPreference) Valid() bool {
	for _, known := range lengthPreferences {
		if l == known {
			return true
		}
	}
	return false
}

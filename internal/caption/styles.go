package caption

import "captioncraft/internal/app/model"

// Each guide switch covers every enum value; TestGuidesCoverEveryValue fails
// when a new value is added without a guide.

func platformGuide(p model.Platform) string {
	switch p {
	case model.PlatformInstagram:
		return "Keep each caption between 80 and 150 words. Open with a punchy first line, use short paragraphs and line breaks, and use emojis generously. Hashtags are expected."
	case model.PlatformYouTube:
		return "Write a video description style caption of 100 to 200 words. Front-load the value in the first two lines, mention what viewers will learn, and ask viewers to like and subscribe. Use emojis sparingly. No hashtags."
	case model.PlatformLinkedIn:
		return "Write 120 to 250 words in a professional, insight-driven voice. Lead with a strong statement or lesson, use short scannable paragraphs, and end with a question that invites discussion. At most one or two emojis. No hashtags."
	}
	return ""
}

func toneGuide(t model.Tone) string {
	switch t {
	case model.ToneProfessional:
		return "Polished and credible. Clear language, confident claims backed by specifics, no slang."
	case model.ToneFun:
		return "Playful and upbeat. Light humor, wordplay and exclamation marks are welcome."
	case model.ToneGenZ:
		return "Casual Gen Z voice. Internet slang like 'no cap', 'lowkey', 'it's giving', lowercase energy and relatable references."
	case model.ToneMotivational:
		return "Inspiring and energetic. Speak to ambition and growth, use strong action verbs and an uplifting close."
	}
	return ""
}

func languageGuide(l model.Language) string {
	switch l {
	case model.LanguageEnglish:
		return "Write entirely in natural, fluent English."
	case model.LanguageHinglish:
		return "Write in Hinglish: a natural mix of Hindi and English as spoken in urban India, with Hindi words in Roman script (for example 'yaar', 'bilkul', 'ekdum'). Never use Devanagari."
	}
	return ""
}

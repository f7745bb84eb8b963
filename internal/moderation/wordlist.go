package moderation

// WordListVersion identifies the active rule set. Bump when editing the list
// so rejected content can be traced to the rules that rejected it.
const WordListVersion = 3

// rawBlockedWords is the canonical profanity list, maintained by hand.
// Matching runs against normalized tokens (lowercased, leetspeak folded,
// repeats collapsed), so obfuscation variants like "fuuuck" or "f4ck" resolve
// to the entries below without listing every spelling. The list itself is
// normalized the same way at init.
var rawBlockedWords = []string{
	"fuck", "fucker", "fucking", "motherfucker",
	// hand-added obfuscation variants that normalization alone cannot fold
	"f4ck", "fck", "fuk", "fcuk", "phuck",
	"shit", "bullshit",
	"bitch", "asshole", "bastard",
	"dick", "cunt", "slut", "whore",
	"nigger", "nigga", "faggot", "retard",
	"chutiya", "madarchod", "bhenchod", "bhosdike",
	"gandu", "harami", "kamina", "randi",
}

// blockedWords is the normalized lookup set built from rawBlockedWords.
var blockedWords = make(map[string]struct{}, len(rawBlockedWords))

func init() {
	for _, w := range rawBlockedWords {
		blockedWords[normalizeToken([]rune(w))] = struct{}{}
	}
}

// leetMap folds common character substitutions before lookup.
var leetMap = map[rune]rune{
	'0': 'o',
	'1': 'i',
	'3': 'e',
	'4': 'a',
	'5': 's',
	'7': 't',
	'8': 'b',
	'@': 'a',
	'$': 's',
	'!': 'i',
	'+': 't',
}

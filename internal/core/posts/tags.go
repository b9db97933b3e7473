package posts

import "math/rand/v2"

// MaxTags is the most tags a post is assigned
const MaxTags = 3

// TagVocabulary is the fixed set tags are drawn from
var TagVocabulary = []string{
	"thoughts",
	"daily",
	"story",
	"music",
	"tech",
	"news",
	"humor",
	"question",
	"life",
	"motivation",
}

// TagPicker returns the tags for a new post
type TagPicker func() []string

// RandomTags draws 1 to MaxTags distinct tags from TagVocabulary.
// A nil source uses the global generator.
func RandomTags(r *rand.Rand) TagPicker {
	intN := rand.IntN
	perm := rand.Perm
	if r != nil {
		intN = r.IntN
		perm = r.Perm
	}

	return func() []string {
		n := 1 + intN(MaxTags)
		order := perm(len(TagVocabulary))
		tags := make([]string, n)
		for i := range n {
			tags[i] = TagVocabulary[order[i]]
		}
		return tags
	}
}

package constant

import "time"

const (
	// CO2KgPerMile is the emissions-avoided factor for an average passenger vehicle.
	CO2KgPerMile = 0.404

	// ChapterTimeTrigger is the standard-mode time threshold between chapters.
	ChapterTimeTrigger int64 = 600 // seconds

	// ChapterDistanceTrigger is the standard-mode distance threshold between chapters.
	ChapterDistanceTrigger = 1.0 // miles

	// Carpool mode replaces the standard rule with a randomized distance
	// threshold drawn from this range, once per chapter interval.
	CarpoolDistanceMin = 5.0
	CarpoolDistanceMax = 10.0

	// SessionStorageKey is the fixed key under which the full session
	// collection is persisted locally as a single blob.
	SessionStorageKey = "myjourney_sessions_v1"

	// PriorContextChars caps how much prior chapter text is fed back into
	// the narrative prompt.
	PriorContextChars = 2000

	// NarratedParagraphs is how many leading paragraphs are voiced per chapter.
	NarratedParagraphs = 3

	// GenerationTimeout bounds one outbound generation round trip so a hung
	// provider cannot wedge the in-flight flag.
	GenerationTimeout = 90 * time.Second

	// FallbackChapterText is appended in-fiction when the narrative provider
	// is unreachable or errors.
	FallbackChapterText = "Neural link failure. The void is all that remains."

	// FallbackEmptyChapterText covers a reachable provider returning nothing.
	FallbackEmptyChapterText = "Connection lost to the narrative host..."
)

// Genres lists the selectable reality themes.
var Genres = []string{
	"Cyberpunk", "Noir", "Fantasy", "Sci-Fi", "Gothic",
	"Steampunk", "Horror", "Thriller", "Adventure", "Mystery",
	"Mythical", "Western", "Samurai", "Post-Apocalyptic", "Space Opera",
	"Lovecraftian", "Superhero", "Fairy Tale", "Pirate", "Historical",
}

func IsValidGenre(genre string) bool {
	for _, g := range Genres {
		if g == genre {
			return true
		}
	}
	return false
}

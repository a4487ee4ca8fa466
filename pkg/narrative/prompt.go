package narrative

import "fmt"

// SystemPrompt frames the model for every chapter request.
const SystemPrompt = "You are an elite cyberpunk novelist."

// DefaultPlot is used when the rider gave no plot seed.
const DefaultPlot = "A neon-noir journey through a city that never sleeps."

// Speed bands (mph) that shape the prose pacing.
const (
	sprintSpeed  = 8.0
	walkingSpeed = 4.0
)

// StyleDirective picks the pacing instruction for the rider's speed at the
// triggering tick.
func StyleDirective(speed float64) string {
	switch {
	case speed > sprintSpeed:
		return "Use frantic, high-tension, fragmented sentences. The air is thick with ozone and adrenaline."
	case speed < walkingSpeed:
		return "Use evocative, slow-burn, atmospheric prose. Focus on the neon reflections and the hum of the city."
	default:
		return "Steady, driving narrative pacing. Focus on discovery and looming threat."
	}
}

// BuildChapterPrompt assembles the user prompt for one chapter. priorContext
// should already be truncated to the trailing context window by the caller.
func BuildChapterPrompt(genre, plot string, speed float64, priorContext string, chapterIndex int) string {
	if plot == "" {
		plot = DefaultPlot
	}

	return fmt.Sprintf(`Continue an immersive second-person story in the %s genre.
Plot: %s

Fragment: %d
Context: %s

CONSTRAINTS:
- Write EXACTLY 15 PARAGRAPHS.
- Second-person perspective ('You').
- %s
- No mention of real-world metrics, apps, or exercise.
- Maintain 100%% fictional immersion.`,
		genre, plot, chapterIndex, priorContext, StyleDirective(speed))
}

// TailContext returns at most the trailing n bytes of prior chapter text.
func TailContext(priorContext string, n int) string {
	if len(priorContext) <= n {
		return priorContext
	}
	return priorContext[len(priorContext)-n:]
}

package classifier

import (
	"fmt"
	"strings"

	"topicfeed/internal/domain/entity"
	"topicfeed/internal/usecase/ingest"
	"topicfeed/internal/utils/text"
)

const classifyTemplate = `Analyze the following news article and assign it to specific group(s).

Each group must be about the concrete event or story the article reports on,
not a broad category. Consider:
1. the main event or incident
2. the people or organisations directly involved
3. the location
4. the time frame
5. the cause or trigger
6. the consequences
7. related ongoing developments

Bad group names: "Politics", "Crime", "Sports".
Good group names: "Mumbai Politician Assassination", "2024 Assam Floods",
"India vs Australia Test Series 2024".

Title: %s
Description: %s
Content: %s

Create 1-%d appropriate groups. Respond with a JSON array only, no prose:
[{"name": "group name", "description": "one sentence describing the story"}]`

const answerTemplate = `You are answering a reader's question about a news article.
Answer in at most three short paragraphs using only the article below.
If the article does not contain the answer, say so.

Question: %s

Title: %s
Description: %s
Content: %s`

// BuildClassifyPrompt renders the grouping prompt. Content is truncated to
// maxRunes when positive.
func BuildClassifyPrompt(in ingest.ClassifyInput, maxGroups, maxRunes int) string {
	if maxGroups <= 0 {
		maxGroups = ingest.DefaultMaxGroups
	}
	return fmt.Sprintf(classifyTemplate,
		orNone(in.Title), orNone(in.Description), orNone(clip(in.Content, maxRunes)), maxGroups)
}

// BuildAnswerPrompt renders the question-answering prompt for n.
func BuildAnswerPrompt(question string, n entity.News, maxRunes int) string {
	in := ingest.ClassifierInput(n)
	return fmt.Sprintf(answerTemplate,
		strings.TrimSpace(question), orNone(in.Title), orNone(in.Description), orNone(clip(in.Content, maxRunes)))
}

// clip truncates s to maxRunes; zero or less means no limit.
func clip(s string, maxRunes int) string {
	if maxRunes <= 0 {
		return s
	}
	out, _ := text.Truncate(s, maxRunes)
	return out
}

func orNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return "(none)"
	}
	return s
}

package artifact

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Statistic is a cited data point inside research output.
type Statistic struct {
	Metric string `json:"metric"`
	Value  string `json:"value"`
	Source string `json:"source"`
}

// QA is a question/answer pair surfaced by research.
type QA struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Research is the artifact produced by the research stage.
type Research struct {
	Definition      string      `json:"definition"`
	Overview        string      `json:"overview"`
	CurrentTrends   []string    `json:"currentTrends"`
	Statistics      []Statistic `json:"statistics"`
	CommonQuestions []QA        `json:"commonQuestions"`
	RelatedTopics   []string    `json:"relatedTopics"`
	Applications    []string    `json:"applications"`
	FutureOutlook   string      `json:"futureOutlook"`
	Challenges      []string    `json:"challenges"`
	Opportunities   []string    `json:"opportunities"`
}

// Blog is the artifact produced by the blog stage.
type Blog struct {
	Title           string   `json:"title"`
	MetaDescription string   `json:"metaDescription"`
	Content         string   `json:"content"`
	WordCount       int      `json:"wordCount"`
	ReadingTime     int      `json:"readingTime"`
	TargetKeywords  []string `json:"targetKeywords,omitempty"`
}

// Podcast is the artifact produced by the podcast_script stage.
type Podcast struct {
	Title    string   `json:"title"`
	Script   string   `json:"script"`
	Duration int      `json:"duration"`
	Outline  []string `json:"outline"`
}

// Audio is the side-artifact synthesized from a podcast script.
type Audio struct {
	AudioURL   string `json:"audioUrl"`
	Duration   int    `json:"duration"`
	Format     string `json:"format"`
	Size       int64  `json:"size"`
	Transcript string `json:"transcript"`
}

// SocialImage is one platform-sized rendition inside the images artifact.
type SocialImage struct {
	Platform   string `json:"platform"`
	ImageURL   string `json:"imageUrl"`
	Dimensions string `json:"dimensions"`
}

// Images is the artifact produced by the images stage.
type Images struct {
	ThumbnailURL      string        `json:"thumbnailUrl"`
	FeaturedImageURL  string        `json:"featuredImageUrl"`
	SocialMediaImages []SocialImage `json:"socialMediaImages"`
}

// Thread is a platform-specific caption payload.
type Thread struct {
	Thread   []string `json:"thread,omitempty"`
	Post     string   `json:"post,omitempty"`
	Caption  string   `json:"caption,omitempty"`
	Hashtags []string `json:"hashtags"`
}

// Social is the artifact produced by the social stage.
type Social struct {
	Twitter   Thread `json:"twitter"`
	LinkedIn  Thread `json:"linkedin"`
	Instagram Thread `json:"instagram"`
}

// DefaultPodcastDuration is the assumed episode length in minutes when a
// provider response omits one.
const DefaultPodcastDuration = 18

const wordsPerMinute = 200

var titleCaser = cases.Title(language.Und)

// TitleCase renders a keyword as a presentable title.
func TitleCase(keyword string) string {
	return titleCaser.String(strings.TrimSpace(keyword))
}

// CountWords returns the whitespace-separated word count of text.
func CountWords(text string) int {
	return len(strings.Fields(text))
}

// EnsureDefaults fills mandatory blog fields that a repaired provider
// response may have left empty. Fidelity is traded for forward progress:
// a synthesized title and computed counts keep the pipeline moving.
func (b *Blog) EnsureDefaults(keyword string) {
	if strings.TrimSpace(b.Title) == "" {
		b.Title = "Expert Guide to " + TitleCase(keyword)
	}
	if strings.TrimSpace(b.Content) == "" {
		b.Content = "# " + b.Title + "\n\nContent generation did not return a usable body. Regenerate this stage."
	}
	if b.WordCount <= 0 {
		b.WordCount = CountWords(b.Content)
	}
	if b.ReadingTime <= 0 {
		b.ReadingTime = (b.WordCount + wordsPerMinute - 1) / wordsPerMinute
	}
	if strings.TrimSpace(b.MetaDescription) == "" {
		b.MetaDescription = "A complete guide to " + strings.TrimSpace(keyword) + "."
	}
}

// EnsureDefaults fills mandatory podcast fields after best-effort extraction.
func (p *Podcast) EnsureDefaults(keyword string) {
	title := TitleCase(keyword)
	if strings.TrimSpace(p.Title) == "" {
		p.Title = title + " Podcast Episode"
	}
	if strings.TrimSpace(p.Script) == "" {
		p.Script = "# " + title + " Podcast Script\n\nWelcome to today's episode about " + strings.TrimSpace(keyword) + "."
	}
	if p.Duration <= 0 {
		p.Duration = DefaultPodcastDuration
	}
	if len(p.Outline) == 0 {
		p.Outline = []string{
			"Introduction to " + title,
			"Key insights",
			"Practical applications",
			"Closing thoughts",
		}
	}
}

// EnsureDefaults fills mandatory research fields after best-effort extraction.
func (r *Research) EnsureDefaults(keyword string) {
	trimmed := strings.TrimSpace(keyword)
	if strings.TrimSpace(r.Definition) == "" {
		r.Definition = "An overview of " + trimmed + "."
	}
	if strings.TrimSpace(r.Overview) == "" {
		r.Overview = r.Definition
	}
}

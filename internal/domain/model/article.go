package model

// Rules bodies.
const (
	RulesEA  = "EA"
	RulesFEI = "FEI"
)

// RoundFormat describes how the normal rounds of an article are run.
type RoundFormat struct {
	Count        int    `yaml:"count"`
	Table        string `yaml:"table"`
	AgainstClock bool   `yaml:"against_clock"`
	Combinations string `yaml:"combinations"`
}

// JumpOffFormat describes the jump-offs of an article.
type JumpOffFormat struct {
	Count        int    `yaml:"count"`
	Table        string `yaml:"table"`
	Jumps        string `yaml:"jumps"`
	Combinations string `yaml:"combinations"`
}

// Article is a rule-book reference defining a class's competition format.
type Article struct {
	ID          string        `yaml:"id"`
	Rules       string        `yaml:"rules"`
	Description string        `yaml:"description"`
	AltName     string        `yaml:"alt_name,omitempty"`
	Round       RoundFormat   `yaml:"round"`
	JumpOff     JumpOffFormat `yaml:"jumpoff"`
	SubArticles []string      `yaml:"sub_articles"`
}

// NewArticle returns an EA article with a single round against the clock under table A.
func NewArticle(id string) *Article {
	return &Article{
		ID:    id,
		Rules: RulesEA,
		Round: RoundFormat{
			Count:        1,
			Table:        "A",
			AgainstClock: true,
			Combinations: "allowed",
		},
		SubArticles: []string{},
	}
}

// Articles is reference data keyed by article id.
type Articles map[string]*Article

// Get returns the article with the given id.
func (a Articles) Get(id string) (*Article, bool) {
	art, ok := a[id]
	return art, ok
}

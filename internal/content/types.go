package content

// BusinessCase is one write-up shown on the cases page. ID is the selection
// key for the detail view.
type BusinessCase struct {
	ID       int       `yaml:"id"`
	Title    string    `yaml:"title"`
	Concepts []string  `yaml:"concepts"`
	Sections []Section `yaml:"sections"`
}

// Intro returns the text paragraphs of the first section, which the grid
// card shows as a summary.
func (b BusinessCase) Intro() []string {
	if len(b.Sections) == 0 {
		return nil
	}
	var out []string
	for _, it := range b.Sections[0].Content {
		if it.Kind == KindText {
			out = append(out, it.Text)
		}
	}
	return out
}

// Section is one heading of a business case. All fields other than Heading
// are optional.
type Section struct {
	Heading     string          `yaml:"heading"`
	Content     []Item          `yaml:"content,omitempty"`
	SubSections []Enhancement   `yaml:"sub_sections,omitempty"`
	Details     *SectionDetails `yaml:"details,omitempty"`
}

// HasDetails reports whether the impact or trade-off panels should render.
func (s Section) HasDetails() bool {
	return s.Details != nil && (len(s.Details.Impact) > 0 || len(s.Details.TradeOffs) > 0)
}

type SectionDetails struct {
	Impact    []string `yaml:"impact,omitempty"`
	TradeOffs []string `yaml:"trade_offs,omitempty"`
}

// Enhancement is a named technique inside a section, optionally with a
// diagram and a source listing under public/.
type Enhancement struct {
	Name    string             `yaml:"name"`
	Image   string             `yaml:"image,omitempty"`
	Code    string             `yaml:"code,omitempty"`
	Details EnhancementDetails `yaml:"details"`
}

type EnhancementDetails struct {
	DefinitionCoreIdea string      `yaml:"definition_core_idea"`
	HowItHelps         string      `yaml:"how_it_helps"`
	AdvantagesImpact   []string    `yaml:"advantages_impact"`
	Outcome            string      `yaml:"outcome"`
	Complexity         *Complexity `yaml:"complexity,omitempty"`
	TradeOff           string      `yaml:"trade_off,omitempty"`
}

// Complexity holds descriptive big-O strings. Either may be empty.
type Complexity struct {
	TimeComplexity  string `yaml:"time_complexity,omitempty"`
	SpaceComplexity string `yaml:"space_complexity,omitempty"`
}

// Empty reports whether neither value is set.
func (c *Complexity) Empty() bool {
	return c == nil || (c.TimeComplexity == "" && c.SpaceComplexity == "")
}

// Reference is an inline citation inside section content.
type Reference struct {
	Text string `yaml:"text"`
	Link string `yaml:"link"`
}

// Profile is the biography shown on the home page.
type Profile struct {
	Name         string        `yaml:"name"`
	ShortName    string        `yaml:"short_name"`
	Tagline      string        `yaml:"tagline"`
	Socials      []Social      `yaml:"socials"`
	About        About         `yaml:"about"`
	Education    []Education   `yaml:"education"`
	Experience   []Experience  `yaml:"experience"`
	Projects     []Project     `yaml:"projects"`
	Skills       []string      `yaml:"skills"`
	Achievements []Achievement `yaml:"achievements"`
	DreamCompany DreamCompany  `yaml:"dream_company"`
	CV           CV            `yaml:"cv,omitempty"`
	Contact      Contact       `yaml:"contact"`
}

type Social struct {
	Label    string `yaml:"label"`
	URL      string `yaml:"url"`
	External bool   `yaml:"external"`
}

type About struct {
	SummaryMD  string      `yaml:"summary_md"`
	Highlights []Highlight `yaml:"highlights"`
}

type Highlight struct {
	Title   string `yaml:"title"`
	Text    string `yaml:"text"`
	Subtext string `yaml:"subtext,omitempty"`
}

type Education struct {
	Title       string `yaml:"title"`
	Institution string `yaml:"institution"`
	Period      string `yaml:"period"`
}

type Experience struct {
	Role         string   `yaml:"role"`
	Organization string   `yaml:"organization"`
	Period       string   `yaml:"period"`
	Bullets      []string `yaml:"bullets"`
}

type Project struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Tech        []string `yaml:"tech"`
}

// Achievement is a publication or award. Location and Year are optional.
type Achievement struct {
	Title    string `yaml:"title"`
	Event    string `yaml:"event"`
	Location string `yaml:"location,omitempty"`
	Year     string `yaml:"year,omitempty"`
}

type DreamCompany struct {
	Name        string `yaml:"name"`
	StatementMD string `yaml:"statement_md"`
}

// CV is an optional downloadable resume, served from public/ when Path is set.
type CV struct {
	Path  string `yaml:"path"`
	Label string `yaml:"label"`
}

type Contact struct {
	Blurb string `yaml:"blurb"`
	Email string `yaml:"email"`
	Phone string `yaml:"phone"`
}

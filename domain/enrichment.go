package domain

import "time"

// ValueProposition summarizes why the idea matters to its audiences.
type ValueProposition struct {
	MainBenefit     string   `json:"main_benefit"`
	Problem         string   `json:"problem"`
	Solution        string   `json:"solution"`
	Differentiation string   `json:"differentiation"`
	Proof           []string `json:"proof"`
}

func (v ValueProposition) validate() error {
	if v.MainBenefit == "" {
		return Invalidf("value_proposition.main_benefit", "must not be empty")
	}
	return nil
}

func (v ValueProposition) clone() ValueProposition {
	v.Proof = cloneStrings(v.Proof)
	return v
}

// Competitor is one entry of a competitor analysis.
type Competitor struct {
	Name       string   `json:"name"`
	Website    string   `json:"website,omitempty"`
	Strengths  []string `json:"strengths"`
	Weaknesses []string `json:"weaknesses"`
}

// CompetitorAnalysis describes the existing market around an idea.
type CompetitorAnalysis struct {
	Competitors   []Competitor `json:"competitors"`
	Opportunities []string     `json:"opportunities"`
	Summary       string       `json:"summary"`
}

func (c CompetitorAnalysis) clone() CompetitorAnalysis {
	if c.Competitors != nil {
		competitors := make([]Competitor, len(c.Competitors))
		for i, comp := range c.Competitors {
			comp.Strengths = cloneStrings(comp.Strengths)
			comp.Weaknesses = cloneStrings(comp.Weaknesses)
			competitors[i] = comp
		}
		c.Competitors = competitors
	}
	c.Opportunities = cloneStrings(c.Opportunities)
	return c
}

// ShortFormContent is a post for short-form platforms.
type ShortFormContent struct {
	Platform string   `json:"platform"`
	Hook     string   `json:"hook"`
	Body     string   `json:"body"`
	Hashtags []string `json:"hashtags"`
}

// LongFormContent is an article-style piece.
type LongFormContent struct {
	Platform string `json:"platform"`
	Title    string `json:"title"`
	Body     string `json:"body"`
}

// VideoContent is a script for video platforms.
type VideoContent struct {
	Platform    string `json:"platform"`
	Title       string `json:"title"`
	Script      string `json:"script"`
	Description string `json:"description"`
}

// SocialMediaCampaigns is the generated campaign bundle of an idea.
type SocialMediaCampaigns struct {
	ShortForm []ShortFormContent `json:"short_form"`
	LongForm  []LongFormContent  `json:"long_form"`
	Video     []VideoContent     `json:"video"`
	CreatedAt time.Time          `json:"created_at"`
}

func (s SocialMediaCampaigns) Empty() bool {
	return len(s.ShortForm) == 0 && len(s.LongForm) == 0 && len(s.Video) == 0
}

func (s SocialMediaCampaigns) clone() SocialMediaCampaigns {
	if s.ShortForm != nil {
		short := make([]ShortFormContent, len(s.ShortForm))
		for i, c := range s.ShortForm {
			c.Hashtags = cloneStrings(c.Hashtags)
			short[i] = c
		}
		s.ShortForm = short
	}
	s.LongForm = append([]LongFormContent(nil), s.LongForm...)
	s.Video = append([]VideoContent(nil), s.Video...)
	return s
}

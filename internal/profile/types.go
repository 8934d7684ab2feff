package profile

// Experience is a single position in a user's work history.
type Experience struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Description string `json:"description,omitempty"`
	Duration    string `json:"duration,omitempty"`
	Location    string `json:"location,omitempty"`
}

// Education is a single entry in a user's education history.
type Education struct {
	School   string `json:"school"`
	Degree   string `json:"degree,omitempty"`
	Field    string `json:"field,omitempty"`
	Duration string `json:"duration,omitempty"`
}

// UserProfile is the current captured profile for a user. Every field is
// optional: consumers must treat missing fields as unknown, never as an error.
type UserProfile struct {
	FullName         string       `json:"full_name"`
	Headline         string       `json:"headline"`
	About            string       `json:"about,omitempty"`
	Experience       []Experience `json:"experience,omitempty"`
	Education        []Education  `json:"education,omitempty"`
	Skills           []string     `json:"skills,omitempty"`
	Location         string       `json:"location,omitempty"`
	ConnectionsCount *int         `json:"connections_count,omitempty"`
	SourceURL        string       `json:"source_url,omitempty"`
}

// IsZero reports whether the profile carries no identifying data at all.
func (p UserProfile) IsZero() bool {
	return p.FullName == "" && p.Headline == "" && p.About == "" &&
		len(p.Experience) == 0 && len(p.Education) == 0 && len(p.Skills) == 0
}

// Clone returns a deep copy. Cached profiles are cloned on every read and
// write so callers can never mutate shared state through a slice.
func (p UserProfile) Clone() UserProfile {
	cp := p
	if p.Experience != nil {
		cp.Experience = append([]Experience(nil), p.Experience...)
	}
	if p.Education != nil {
		cp.Education = append([]Education(nil), p.Education...)
	}
	if p.Skills != nil {
		cp.Skills = append([]string(nil), p.Skills...)
	}
	if p.ConnectionsCount != nil {
		n := *p.ConnectionsCount
		cp.ConnectionsCount = &n
	}
	return cp
}

// Goals is the user's current career goals. Single current value per user,
// overwritten on update.
type Goals struct {
	TargetRole     string   `json:"target_role,omitempty"`
	TargetIndustry string   `json:"target_industry,omitempty"`
	DesiredSkills  []string `json:"desired_skills,omitempty"`
}

// IsZero reports whether no goal field is set.
func (g Goals) IsZero() bool {
	return g.TargetRole == "" && g.TargetIndustry == "" && len(g.DesiredSkills) == 0
}

// Clone returns a deep copy.
func (g Goals) Clone() Goals {
	cp := g
	if g.DesiredSkills != nil {
		cp.DesiredSkills = append([]string(nil), g.DesiredSkills...)
	}
	return cp
}

package types

// CandidateRecord is the fixed-shape result of parsing the LLM reply for a
// single resume. Every field is plain text; an empty string means the model
// did not find the value. The field set is closed: nothing else is ever added.
type CandidateRecord struct {
	// Identity fields, single line each.
	FullName          string `json:"full_name"`
	ProfessionalTitle string `json:"professional_title"`
	Email             string `json:"email"`
	Phone             string `json:"phone"`
	Location          string `json:"location"`

	// Section fields, newline-joined free text.
	ProfileSummary         string `json:"profile_summary"`
	ProfessionalExperience string `json:"professional_experience"`
	ProjectExperience      string `json:"project_experience"`
	TechnicalSkills        string `json:"technical_skills"`
	SoftSkills             string `json:"soft_skills"`
}

// HasContact reports whether any contact detail was extracted.
func (r CandidateRecord) HasContact() bool {
	return r.Email != "" || r.Phone != "" || r.Location != ""
}

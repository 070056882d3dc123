package llm

import (
	"strings"

	"github.com/krifyhr/resume-converter/pkg/types"
)

// The model is prompted to answer in a fixed labeled-line format. Matching is
// deliberately loose substring containment on the lowercased line: the exact
// phrasing of the model's reply is the contract here, and a stricter match
// would silently drop fields when the model decorates its labels.
var identityFields = []struct {
	label string
	set   func(*types.CandidateRecord, string)
}{
	{"full name:", func(r *types.CandidateRecord, v string) { r.FullName = v }},
	{"professional title:", func(r *types.CandidateRecord, v string) { r.ProfessionalTitle = v }},
	{"email:", func(r *types.CandidateRecord, v string) { r.Email = v }},
	{"phone:", func(r *types.CandidateRecord, v string) { r.Phone = v }},
	{"location:", func(r *types.CandidateRecord, v string) { r.Location = v }},
}

var sectionFields = []struct {
	label string
	field func(*types.CandidateRecord) *string
}{
	{"profile summary:", func(r *types.CandidateRecord) *string { return &r.ProfileSummary }},
	{"professional experience:", func(r *types.CandidateRecord) *string { return &r.ProfessionalExperience }},
	{"project experience:", func(r *types.CandidateRecord) *string { return &r.ProjectExperience }},
	{"technical skills:", func(r *types.CandidateRecord) *string { return &r.TechnicalSkills }},
	{"soft skills:", func(r *types.CandidateRecord) *string { return &r.SoftSkills }},
}

// ParseReply maps the raw model reply onto a CandidateRecord in a single
// forward pass. It never fails; unrecognized input just leaves fields empty.
//
// Identity labels win over section headings when a line could match both, and
// an identity line never changes the active section. A heading line switches
// the active section immediately and its own trailing text is discarded; every
// following unlabeled line accumulates into that section until the next
// heading or end of input.
func ParseReply(raw string) types.CandidateRecord {
	var rec types.CandidateRecord
	var active *string

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lower := strings.ToLower(line)

		if matched := func() bool {
			for _, f := range identityFields {
				if strings.Contains(lower, f.label) {
					f.set(&rec, afterColon(line))
					return true
				}
			}
			return false
		}(); matched {
			continue
		}

		if matched := func() bool {
			for _, s := range sectionFields {
				if strings.Contains(lower, s.label) {
					active = s.field(&rec)
					return true
				}
			}
			return false
		}(); matched {
			continue
		}

		if active != nil {
			*active += line + "\n"
		}
	}

	for _, s := range sectionFields {
		field := s.field(&rec)
		*field = strings.TrimRight(*field, " \t\n")
	}
	return rec
}

// afterColon returns the text after the first colon, trimmed. A line like
// "Email: a@b.com extra" keeps everything past the first colon.
func afterColon(line string) string {
	if _, value, found := strings.Cut(line, ":"); found {
		return strings.TrimSpace(value)
	}
	return ""
}

package llm

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/krifyhr/resume-converter/internal/cleaner"
	"github.com/krifyhr/resume-converter/pkg/types"
)

var clean = cleaner.NewCleaner()

// promptTemplate asks the model for the exact labeled-line reply format that
// ParseReply understands. Changing the labels here breaks the parser contract.
const promptTemplate = `Extract professional details from this resume.
STRICT RULES:
1. ONLY use details from the text.
2. If missing, leave empty.
3. Separate Technical and Soft skills.
4. Professional Title should be JUST the job title (e.g. "Java Developer").

FORMAT:
CANDIDATE INFORMATION:
- Full Name:
- Professional Title:
- Email:
- Phone:
- Location:

PROFILE SUMMARY:
(Short summary)

PROFESSIONAL EXPERIENCE:
(Format: Company | Role | Duration | Responsibilities)

PROJECT EXPERIENCE:
(Projects and tech used)

TECHNICAL SKILLS:
(Tools, languages, etc.)

SOFT SKILLS:
(Communication, etc.)

TEXT:
%s
`

// Extractor turns extracted resume text into a CandidateRecord by way of the
// completion collaborator.
type Extractor struct {
	completer      Completer
	maxPromptChars int
	timeout        time.Duration
}

func NewExtractor(completer Completer, maxPromptChars int, timeout time.Duration) *Extractor {
	return &Extractor{
		completer:      completer,
		maxPromptChars: maxPromptChars,
		timeout:        timeout,
	}
}

// ExtractCandidate sends the capped resume text to the model and parses the
// reply. Any collaborator failure aborts the request: the caller gets a nil
// record and must abandon.
func (e *Extractor) ExtractCandidate(ctx context.Context, resumeText string) (*types.CandidateRecord, error) {
	logger := slog.With("component", "llm", "operation", "extract_candidate")

	// Longer resumes are silently truncated to bound request size and cost.
	capped := resumeText
	if e.maxPromptChars > 0 && len(capped) > e.maxPromptChars {
		capped = capped[:e.maxPromptChars]
		logger.Debug("resume text truncated", "original_length", len(resumeText), "capped_length", len(capped))
	}
	prompt := fmt.Sprintf(promptTemplate, capped)

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	startTime := time.Now()
	reply, err := e.completer.Complete(ctx, prompt)
	if err != nil {
		logger.Error("candidate extraction failed", "error", err, "duration_ms", time.Since(startTime).Milliseconds())
		return nil, fmt.Errorf("candidate extraction failed: %w", err)
	}
	logger.Info("received LLM reply",
		"duration_ms", time.Since(startTime).Milliseconds(),
		"reply_length", len(reply))

	rec := ParseReply(clean.CleanReply(reply))
	logger.Info("candidate extracted",
		"full_name", rec.FullName,
		"title", rec.ProfessionalTitle,
		"has_contact", rec.HasContact())

	return &rec, nil
}

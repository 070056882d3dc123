package llm

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCompleter struct {
	reply      string
	err        error
	lastPrompt string
}

func (f *fakeCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	f.lastPrompt = prompt
	return f.reply, f.err
}

func TestExtractCandidateParsesReply(t *testing.T) {
	fake := &fakeCompleter{reply: canonicalReply}
	ex := NewExtractor(fake, 4000, time.Second)

	rec, err := ex.ExtractCandidate(context.Background(), "resume text")
	require.NoError(t, err)
	assert.Equal(t, "John Smith", rec.FullName)
	assert.Equal(t, "Java Developer", rec.ProfessionalTitle)
	assert.Contains(t, fake.lastPrompt, "resume text")
	assert.Contains(t, fake.lastPrompt, "STRICT RULES")
}

func TestExtractCandidateCapsPrompt(t *testing.T) {
	fake := &fakeCompleter{reply: canonicalReply}
	ex := NewExtractor(fake, 4000, time.Second)

	long := strings.Repeat("x", 10000)
	_, err := ex.ExtractCandidate(context.Background(), long)
	require.NoError(t, err)

	assert.NotContains(t, fake.lastPrompt, strings.Repeat("x", 4001))
	assert.Contains(t, fake.lastPrompt, strings.Repeat("x", 4000))
}

func TestExtractCandidateStripsCodeFences(t *testing.T) {
	fake := &fakeCompleter{reply: "```text\nFull Name: Grace Hopper\n```"}
	ex := NewExtractor(fake, 4000, time.Second)

	rec, err := ex.ExtractCandidate(context.Background(), "resume")
	require.NoError(t, err)
	assert.Equal(t, "Grace Hopper", rec.FullName)
}

func TestExtractCandidateCollaboratorFailureAborts(t *testing.T) {
	fake := &fakeCompleter{err: fmt.Errorf("quota exhausted")}
	ex := NewExtractor(fake, 4000, time.Second)

	rec, err := ex.ExtractCandidate(context.Background(), "resume")
	require.Error(t, err)
	assert.Nil(t, rec)
}

package middleware

import (
	"context"
	"regexp"

	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/ports"
)

const mask = "***"

type piiMiddleware struct {
	next     ports.TranscriptStore
	patterns []*regexp.Regexp
}

// NewPIIMiddleware creates a middleware that masks pattern matches in
// persisted transcripts. Patterns are applied to the captured output,
// the transcript events, and the script's send texts, so a scripted
// password never reaches the store in the clear.
func NewPIIMiddleware(patternStrings []string) Middleware {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		patterns[i] = regexp.MustCompile(p)
	}
	return func(next ports.TranscriptStore) ports.TranscriptStore {
		return &piiMiddleware{next: next, patterns: patterns}
	}
}

func (m *piiMiddleware) Save(ctx context.Context, transcript *domain.Transcript) error {
	// 1. Deep clone to avoid side effects on the transcript callers hold.
	cloned := *transcript
	cloned.Script = append(domain.Script(nil), transcript.Script...)
	cloned.Result.Events = append([]domain.Event(nil), transcript.Result.Events...)

	// 2. Mask PII
	cloned.Result.Output = m.scrub(cloned.Result.Output)
	cloned.Result.Error = m.scrub(cloned.Result.Error)
	for i := range cloned.Result.Events {
		cloned.Result.Events[i].Text = m.scrub(cloned.Result.Events[i].Text)
	}
	for i := range cloned.Script {
		if cloned.Script[i].Kind == domain.ActionSend {
			cloned.Script[i].Text = m.scrub(cloned.Script[i].Text)
		}
	}

	return m.next.Save(ctx, &cloned)
}

func (m *piiMiddleware) Load(ctx context.Context, id string) (*domain.Transcript, error) {
	return m.next.Load(ctx, id)
}

func (m *piiMiddleware) Delete(ctx context.Context, id string) error {
	return m.next.Delete(ctx, id)
}

func (m *piiMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

func (m *piiMiddleware) scrub(s string) string {
	for _, p := range m.patterns {
		s = p.ReplaceAllString(s, mask)
	}
	return s
}

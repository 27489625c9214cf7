// Package normalize turns raw, possibly non-English query text into
// canonical-language text ready for embedding. Translation is delegated;
// when the delegate fails the raw text is used unmodified and the query is
// marked unnormalized rather than aborting the search.
package normalize

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ShowroomAI/showroom-mvp/engine/domain"
)

// Translator is the translation delegate contract.
type Translator interface {
	Translate(ctx context.Context, text, source, target string) (string, error)
}

// Options configures the Normalizer.
type Options struct {
	// TranslateTimeout bounds each delegate call.
	TranslateTimeout time.Duration
}

// DefaultOptions returns sensible defaults.
func DefaultOptions() Options {
	return Options{TranslateTimeout: 5 * time.Second}
}

// Normalizer detects a query's language and canonicalizes its text.
// Idempotent for identical inputs.
type Normalizer struct {
	translator Translator
	opts       Options
	logger     *slog.Logger
}

// New creates a Normalizer. translator may be nil, in which case non-English
// queries pass through unnormalized.
func New(translator Translator, opts Options, logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.TranslateTimeout <= 0 {
		opts.TranslateTimeout = DefaultOptions().TranslateTimeout
	}
	return &Normalizer{translator: translator, opts: opts, logger: logger}
}

// Normalize validates raw text, detects its language (unless hinted), and
// translates it to the canonical language when needed.
func (n *Normalizer) Normalize(ctx context.Context, raw, languageHint string) (domain.SearchQuery, error) {
	if err := domain.ValidateQueryText(raw); err != nil {
		return domain.SearchQuery{}, err
	}

	q := domain.SearchQuery{
		Raw:          raw,
		LanguageHint: languageHint,
	}

	if languageHint != "" {
		q.DetectedLanguage = languageHint
	} else {
		q.DetectedLanguage = DetectLanguage(raw)
	}

	text := collapseSpace(raw)

	if baseLang(q.DetectedLanguage) == domain.CanonicalLanguage {
		q.Canonical = text
		q.Normalized = true
		return q, nil
	}

	if n.translator == nil {
		q.Canonical = text
		q.Normalized = false
		return q, nil
	}

	tctx, cancel := context.WithTimeout(ctx, n.opts.TranslateTimeout)
	defer cancel()

	translated, err := n.translator.Translate(tctx, text, q.DetectedLanguage, domain.CanonicalLanguage)
	if err != nil {
		// Degrade rather than abort: search proceeds on the raw text.
		n.logger.Warn("normalize: translation failed, using raw text",
			"lang", q.DetectedLanguage,
			"err", fmt.Errorf("%w: %v", domain.ErrTranslationUnavailable, err),
		)
		q.Canonical = text
		q.Normalized = false
		return q, nil
	}

	q.Canonical = collapseSpace(translated)
	q.Normalized = true
	return q, nil
}

// collapseSpace trims and collapses runs of whitespace to single spaces.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// baseLang strips a regional suffix: "ar-AE" → "ar".
func baseLang(code string) string {
	if i := strings.IndexByte(code, '-'); i != -1 {
		return code[:i]
	}
	return code
}

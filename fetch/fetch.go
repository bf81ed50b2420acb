// Package fetch contains the context assembler: it delegates source
// descriptors to the matching external fetcher and normalizes results into
// context items, partitioning successes from failures. A failed sub-item
// (one file within a repository fetch) never invalidates its siblings; a
// top-level fetch failure aborts the whole batch. No retry is performed
// here, re-invocation is always user-initiated.
package fetch

import (
	"context"
	"fmt"

	"github.com/hupe1980/agentdeck/core"
	"github.com/hupe1980/agentdeck/logging"
)

var (
	// ErrUnsupportedSource is returned for a descriptor kind the assembler
	// has no fetcher for.
	ErrUnsupportedSource = fmt.Errorf("unsupported context source")
)

// Kind identifies the source variant of a fetch request.
type Kind string

const (
	// KindWebPage fetches a single web page by URL.
	KindWebPage Kind = "webpage"
	// KindGitRepo fetches a set of files from a repository.
	KindGitRepo Kind = "gitrepo"
	// KindPdf extracts text from a PDF document.
	KindPdf Kind = "pdf"
	// KindImage wraps inline image content supplied by the caller.
	KindImage Kind = "image"
)

// Request is a source descriptor. URL is used by webpage requests, Params by
// repository and PDF requests, Name/Content by inline image requests.
type Request struct {
	Kind    Kind
	URL     string
	Params  map[string]string
	Name    string
	Content string
}

// Options holds the collaborator fetchers injected into the assembler.
type Options struct {
	Web    core.WebPageFetcher
	Repo   core.GitRepoFetcher
	Pdf    core.PdfProcessor
	Logger logging.Logger
}

// Assembler normalizes externally sourced content into context items.
type Assembler struct {
	web    core.WebPageFetcher
	repo   core.GitRepoFetcher
	pdf    core.PdfProcessor
	logger logging.Logger
}

// NewAssembler constructs an Assembler with optional fetcher overrides. A
// request for a source without a configured fetcher fails top-level.
func NewAssembler(optFns ...func(o *Options)) *Assembler {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Assembler{web: opts.Web, repo: opts.Repo, pdf: opts.Pdf, logger: opts.Logger}
}

// Assemble resolves one source descriptor into two lists: valid items and
// error items. A non-nil error is a top-level failure (bad descriptor,
// transport failure); in that case both lists are empty and the caller
// records a single error entry for the whole batch.
func (a *Assembler) Assemble(ctx context.Context, req Request) (valid, failed []core.ContextItem, err error) {
	switch req.Kind {
	case KindWebPage:
		valid, err = a.assembleWebPage(ctx, req)
	case KindGitRepo:
		valid, failed, err = a.assembleGitRepo(ctx, req)
	case KindPdf:
		valid, err = a.assemblePdf(ctx, req)
	case KindImage:
		valid, err = a.assembleImage(req)
	default:
		err = fmt.Errorf("%w: %q", ErrUnsupportedSource, req.Kind)
	}
	if err != nil {
		a.logger.Warn("context fetch failed kind=%s: %v", string(req.Kind), err)
		return nil, nil, err
	}
	a.logger.Debug("context fetch completed kind=%s valid=%d failed=%d", string(req.Kind), len(valid), len(failed))
	return valid, failed, nil
}

func (a *Assembler) assembleWebPage(ctx context.Context, req Request) ([]core.ContextItem, error) {
	if a.web == nil {
		return nil, fmt.Errorf("%w: no web page fetcher configured", ErrUnsupportedSource)
	}
	if req.URL == "" {
		return nil, fmt.Errorf("web page request requires a url")
	}
	page, err := a.web.FetchWebPage(ctx, req.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch web page: %w", err)
	}
	return []core.ContextItem{core.NewContextItem(page.Name, page.Content, core.SourceWebPage)}, nil
}

func (a *Assembler) assembleGitRepo(ctx context.Context, req Request) (valid, failed []core.ContextItem, err error) {
	if a.repo == nil {
		return nil, nil, fmt.Errorf("%w: no repository fetcher configured", ErrUnsupportedSource)
	}
	files, err := a.repo.FetchGitRepo(ctx, req.Params)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch repository: %w", err)
	}
	for _, f := range files {
		switch f.Kind {
		case core.RepoFileError:
			failed = append(failed, core.NewErrorContextItem(f.Name, f.Content, core.SourceGitFile))
		case core.RepoFileSkipped:
			// Omitted entirely; the fetcher decided it is not useful context.
		default:
			valid = append(valid, core.NewContextItem(f.Name, f.Content, core.SourceGitFile))
		}
	}
	return valid, failed, nil
}

func (a *Assembler) assemblePdf(ctx context.Context, req Request) ([]core.ContextItem, error) {
	if a.pdf == nil {
		return nil, fmt.Errorf("%w: no pdf processor configured", ErrUnsupportedSource)
	}
	doc, err := a.pdf.ProcessPdf(ctx, req.Params)
	if err != nil {
		return nil, fmt.Errorf("failed to process pdf: %w", err)
	}
	return []core.ContextItem{core.NewContextItem(doc.Name, doc.Content, core.SourcePdfPage)}, nil
}

func (a *Assembler) assembleImage(req Request) ([]core.ContextItem, error) {
	if req.Name == "" || req.Content == "" {
		return nil, fmt.Errorf("image request requires name and content")
	}
	return []core.ContextItem{core.NewContextItem(req.Name, req.Content, core.SourceImage)}, nil
}

package core

import "context"

// StartRunResult is the prompt acknowledgement of a start-run call. Success
// false carries an explicit backend rejection in Message; the run never
// existed and no subscription should be opened.
type StartRunResult struct {
	Success bool   `json:"success"`
	RunID   string `json:"run_id,omitempty"`
	Message string `json:"message,omitempty"`
}

// Unsubscribe synchronously unregisters an update subscription. It MUST be
// idempotent; any delivery attempted after it returns is dropped by the
// backend, though a snapshot already in flight may still arrive on the
// channel and must be discarded by the consumer.
type Unsubscribe func()

// RunService is the contract consumed from the execution backend. The wire
// format behind it is owned by the backend, not by this module.
//
// Semantics & Guarantees:
//   - StartRun returns promptly with a run identifier; the agent's actual
//     work happens out of band.
//   - Subscribe delivers full-state snapshots for the run in non-decreasing
//     recency order, concluding with a terminal delivery, after which the
//     snapshot channel is closed.
//   - The error channel carries at most one transport-level error (including
//     ErrRunNotFound when the run record is absent) then closes. A delivery
//     on it means no further snapshots will arrive.
type RunService interface {
	// StartRun asks the backend to begin one execution turn. sessionID may be
	// empty for the first turn of a conversation; the backend issues one via
	// subsequent snapshots.
	StartRun(ctx context.Context, conversationRef, message, sessionID string, items []ContextItem) (StartRunResult, error)

	// Subscribe opens the push channel bound to one run identifier.
	Subscribe(ctx context.Context, conversationRef, runID string) (<-chan Snapshot, <-chan error, Unsubscribe, error)
}

// WebPage is the normalized result of a web page fetch.
type WebPage struct {
	Name    string
	Content string
}

// RepoFile is one file returned by a repository fetch. Kind may mark the
// file as failed or skipped without invalidating its siblings.
type RepoFile struct {
	Name    string
	Content string
	Kind    RepoFileKind
}

// RepoFileKind classifies a single file within a repository fetch result.
type RepoFileKind string

const (
	// RepoFileOK marks a successfully fetched file.
	RepoFileOK RepoFileKind = "ok"
	// RepoFileError marks a file the fetcher could not read.
	RepoFileError RepoFileKind = "error"
	// RepoFileSkipped marks a file the fetcher chose to omit (binary, too large).
	RepoFileSkipped RepoFileKind = "skipped"
)

// PdfDocument is the normalized result of PDF processing.
type PdfDocument struct {
	Name    string
	Content string
}

// WebPageFetcher fetches and normalizes a single web page.
type WebPageFetcher interface {
	FetchWebPage(ctx context.Context, url string) (WebPage, error)
}

// GitRepoFetcher fetches a set of files from a repository. A returned error
// is a top-level failure; per-file failures are reported via RepoFile.Kind.
type GitRepoFetcher interface {
	FetchGitRepo(ctx context.Context, params map[string]string) ([]RepoFile, error)
}

// PdfProcessor extracts text content from a PDF source.
type PdfProcessor interface {
	ProcessPdf(ctx context.Context, params map[string]string) (PdfDocument, error)
}

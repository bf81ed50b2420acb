package fetch

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agentdeck/core"
)

type stubWebFetcher struct {
	page core.WebPage
	err  error
}

func (s *stubWebFetcher) FetchWebPage(context.Context, string) (core.WebPage, error) {
	return s.page, s.err
}

type stubRepoFetcher struct {
	files []core.RepoFile
	err   error
}

func (s *stubRepoFetcher) FetchGitRepo(context.Context, map[string]string) ([]core.RepoFile, error) {
	return s.files, s.err
}

type stubPdfProcessor struct {
	doc core.PdfDocument
	err error
}

func (s *stubPdfProcessor) ProcessPdf(context.Context, map[string]string) (core.PdfDocument, error) {
	return s.doc, s.err
}

func TestAssemble_WebPage(t *testing.T) {
	a := NewAssembler(func(o *Options) {
		o.Web = &stubWebFetcher{page: core.WebPage{Name: "example.com", Content: "<html>hi</html>"}}
	})

	valid, failed, err := a.Assemble(context.Background(), Request{Kind: KindWebPage, URL: "https://example.com"})
	require.NoError(t, err)
	assert.Empty(t, failed)
	require.Len(t, valid, 1)
	assert.Equal(t, "example.com", valid[0].Name)
	assert.Equal(t, core.SourceWebPage, valid[0].Source)
	assert.Equal(t, core.ItemOK, valid[0].Status)
	assert.Equal(t, len("<html>hi</html>"), valid[0].ByteSize)
}

func TestAssemble_WebPage_TopLevelFailure(t *testing.T) {
	a := NewAssembler(func(o *Options) {
		o.Web = &stubWebFetcher{err: errors.New("dns failure")}
	})

	valid, failed, err := a.Assemble(context.Background(), Request{Kind: KindWebPage, URL: "https://bad.invalid"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dns failure")
	assert.Empty(t, valid)
	assert.Empty(t, failed)
}

func TestAssemble_WebPage_MissingURL(t *testing.T) {
	a := NewAssembler(func(o *Options) { o.Web = &stubWebFetcher{} })
	_, _, err := a.Assemble(context.Background(), Request{Kind: KindWebPage})
	assert.Error(t, err)
}

func TestAssemble_GitRepo_PartitionsSubItemFailures(t *testing.T) {
	a := NewAssembler(func(o *Options) {
		o.Repo = &stubRepoFetcher{files: []core.RepoFile{
			{Name: "main.go", Content: "package main", Kind: core.RepoFileOK},
			{Name: "util.go", Content: "package util", Kind: core.RepoFileOK},
			{Name: "big.bin", Content: "too large", Kind: core.RepoFileError},
			{Name: "logo.png", Kind: core.RepoFileSkipped},
		}}
	})

	valid, failed, err := a.Assemble(context.Background(), Request{Kind: KindGitRepo, Params: map[string]string{"repo": "acme/site"}})
	require.NoError(t, err)
	require.Len(t, valid, 2)
	require.Len(t, failed, 1)
	assert.Equal(t, "big.bin", failed[0].Name)
	assert.Equal(t, core.ItemError, failed[0].Status)
	assert.Equal(t, core.SourceGitFile, valid[0].Source)
}

func TestAssemble_GitRepo_TopLevelFailure(t *testing.T) {
	a := NewAssembler(func(o *Options) {
		o.Repo = &stubRepoFetcher{err: errors.New("repository not found")}
	})

	valid, failed, err := a.Assemble(context.Background(), Request{Kind: KindGitRepo})
	require.Error(t, err)
	assert.Empty(t, valid)
	assert.Empty(t, failed)
}

func TestAssemble_Pdf(t *testing.T) {
	a := NewAssembler(func(o *Options) {
		o.Pdf = &stubPdfProcessor{doc: core.PdfDocument{Name: "paper.pdf", Content: "abstract"}}
	})

	valid, _, err := a.Assemble(context.Background(), Request{Kind: KindPdf, Params: map[string]string{"url": "https://x/paper.pdf"}})
	require.NoError(t, err)
	require.Len(t, valid, 1)
	assert.Equal(t, core.SourcePdfPage, valid[0].Source)
}

func TestAssemble_Image_Inline(t *testing.T) {
	a := NewAssembler()
	valid, _, err := a.Assemble(context.Background(), Request{Kind: KindImage, Name: "diagram.png", Content: "base64data"})
	require.NoError(t, err)
	require.Len(t, valid, 1)
	assert.Equal(t, core.SourceImage, valid[0].Source)

	_, _, err = a.Assemble(context.Background(), Request{Kind: KindImage})
	assert.Error(t, err)
}

func TestAssemble_UnsupportedKind(t *testing.T) {
	a := NewAssembler()
	_, _, err := a.Assemble(context.Background(), Request{Kind: Kind("carrier-pigeon")})
	assert.ErrorIs(t, err, ErrUnsupportedSource)

	// No fetcher configured for an otherwise valid kind is also top-level.
	_, _, err = a.Assemble(context.Background(), Request{Kind: KindWebPage, URL: "https://example.com"})
	assert.ErrorIs(t, err, ErrUnsupportedSource)
}

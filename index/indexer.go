// Package index provides data room indexing orchestration. It downloads each
// document, renders its pages, summarizes them in parallel and stores the
// resulting records.
package index

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/lawdit/lawdit"
	"github.com/lawdit/lawdit/bloom"
	"golang.org/x/sync/errgroup"
)

// Concurrency bounds for page summarization.
const (
	DefaultConcurrency = 4
	MaxConcurrency     = 20
)

// SourcePDFName is the file name of the downloaded PDF in a document directory.
const SourcePDFName = "source.pdf"

// stagingSuffix names the directory a document is built in.
const stagingSuffix = ".tmp"

// Bloom filter sizing for duplicate pre-checks.
const (
	filterExpectedDocuments = 10000
	filterFalsePositiveRate = 0.01
)

// Indexer orchestrates the indexing of a data room.
type Indexer struct {
	Source     lawdit.Source
	Renderer   lawdit.PageRenderer
	Summarizer lawdit.Summarizer
	Documents  lawdit.DocumentService
	Records    lawdit.RecordWriter

	// WorkingDir receives one directory per document holding the PDF, the
	// page images and the document record.
	WorkingDir  string
	Concurrency int
	RetryDelays []time.Duration

	// Force reindexes documents whose content is already in the catalog.
	Force bool
}

// Result holds the outcome of an indexing run.
type Result struct {
	Indexed     int
	Skipped     int
	Duplicates  int
	Failed      int
	Pages       int
	FailedPages int
}

// ProgressEvent reports progress during an indexing run.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	File      *lawdit.SourceFile
	Pages     int
	// DuplicateOf is the source ID of the already indexed copy.
	DuplicateOf string
	Error       error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressDocumentStarted
	ProgressCompleted
	ProgressSkipped
	ProgressDuplicate
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting indexing progress.
type ProgressFunc func(event ProgressEvent)

// run holds the state of one IndexDataRoom call.
type run struct {
	room     *lawdit.DataRoom
	filter   *bloom.Filter
	slugs    map[string]bool
	progress ProgressFunc
	result   Result
}

func (r *run) emit(e ProgressEvent) {
	if r.progress != nil {
		r.progress(e)
	}
}

// IndexDataRoom indexes every supported file of the data room. Documents are
// processed one at a time in listing order; the pages of a document are
// summarized in parallel. A document that cannot be downloaded, rendered or
// stored is counted as failed and the run continues. Only a listing failure
// or context cancellation aborts the run.
func (ix *Indexer) IndexDataRoom(ctx context.Context, room *lawdit.DataRoom, progress ProgressFunc) (*Result, error) {
	if room == nil || room.ID == "" {
		return nil, lawdit.Errorf(lawdit.EINVALID, "data room required")
	}
	if ix.Concurrency > MaxConcurrency {
		return nil, lawdit.Errorf(lawdit.EINVALID, "concurrency must be between 1 and %d", MaxConcurrency)
	}
	if ix.WorkingDir == "" {
		return nil, lawdit.Errorf(lawdit.EINVALID, "working directory required")
	}

	files, err := ix.Source.ListFiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}

	r := &run{
		room:     room,
		filter:   bloom.NewFilter(filterExpectedDocuments, filterFalsePositiveRate),
		slugs:    make(map[string]bool),
		progress: progress,
	}
	if err := ix.seedFilter(ctx, r); err != nil {
		return nil, err
	}

	total := len(files)
	r.emit(ProgressEvent{Type: ProgressStarted, Total: total})

	for i, file := range files {
		if err := ctx.Err(); err != nil {
			return &r.result, err
		}

		event := ProgressEvent{Completed: i + 1, Total: total, File: file}

		if !lawdit.IsSupportedMimeType(file.MimeType) {
			r.result.Skipped++
			event.Type = ProgressSkipped
			r.emit(event)
			continue
		}

		event.Type = ProgressDocumentStarted
		r.emit(event)

		doc, dupOf, err := ix.indexFile(ctx, r, file)
		switch {
		case err != nil && ctx.Err() != nil:
			return &r.result, ctx.Err()
		case err != nil:
			r.result.Failed++
			event.Type = ProgressFailed
			event.Error = err
		case dupOf != "":
			r.result.Duplicates++
			event.Type = ProgressDuplicate
			event.DuplicateOf = dupOf
		default:
			r.result.Indexed++
			r.result.Pages += len(doc.Pages)
			event.Type = ProgressCompleted
			event.Pages = len(doc.Pages)
		}
		r.emit(event)
	}

	r.emit(ProgressEvent{Type: ProgressFinished, Completed: total, Total: total})

	return &r.result, nil
}

// seedFilter adds the content hashes already indexed for the room.
func (ix *Indexer) seedFilter(ctx context.Context, r *run) error {
	docs, err := ix.Documents.FindDocuments(ctx, lawdit.DocumentFilter{DataRoomID: &r.room.ID})
	if err != nil {
		return fmt.Errorf("load indexed documents: %w", err)
	}
	for _, doc := range docs {
		if doc.ContentHash != "" {
			r.filter.Add(doc.ContentHash)
		}
	}
	return nil
}

// indexFile processes a single file. It returns the stored document, or the
// source ID of an existing copy when the file is a duplicate. The document is
// built in a staging directory that replaces the document directory only
// once the record is written, so a failed or duplicate file leaves earlier
// results in place.
func (ix *Indexer) indexFile(ctx context.Context, r *run, file *lawdit.SourceFile) (*lawdit.Document, string, error) {
	dir := filepath.Join(ix.WorkingDir, r.slugFor(file.Name))
	staging := dir + stagingSuffix
	if err := os.RemoveAll(staging); err != nil {
		return nil, "", err
	}
	if err := os.MkdirAll(staging, 0755); err != nil {
		return nil, "", err
	}
	defer os.RemoveAll(staging)

	pdfPath := filepath.Join(staging, SourcePDFName)
	hash, err := WithRetry(ctx, ix.retryDelays(), nil, func(ctx context.Context) (string, error) {
		return ix.download(ctx, file, pdfPath)
	})
	if err != nil {
		return nil, "", fmt.Errorf("download %s: %w", file.Name, err)
	}

	if dupOf, err := ix.duplicateOf(ctx, r, file, hash); err != nil {
		return nil, "", err
	} else if dupOf != "" {
		return nil, dupOf, nil
	}

	images, err := ix.Renderer.Render(ctx, pdfPath, staging)
	if err != nil {
		return nil, "", fmt.Errorf("render %s: %w", file.Name, err)
	}

	pages, failed, err := ix.summarizePages(ctx, images)
	if err != nil {
		return nil, "", err
	}
	r.result.FailedPages += failed

	summary, err := WithRetry(ctx, ix.retryDelays(), nil, func(ctx context.Context) (string, error) {
		return ix.Summarizer.SummarizeDocument(ctx, file.Name, pages)
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, "", ctx.Err()
		}
		summary = fmt.Sprintf("Error summarizing document %s", file.Name)
	}

	doc := &lawdit.Document{
		DataRoomID:  r.room.ID,
		SourceID:    file.ID,
		FileName:    file.Name,
		MimeType:    file.MimeType,
		TotalPages:  len(pages),
		Summary:     summary,
		ContentHash: hash,
		Dir:         staging,
		Pages:       pages,
		IndexedAt:   time.Now().UTC(),
	}

	if err := ix.Records.WriteRecord(ctx, doc); err != nil {
		return nil, "", fmt.Errorf("write record: %w", err)
	}
	if err := promote(staging, dir); err != nil {
		return nil, "", fmt.Errorf("move %s into place: %w", file.Name, err)
	}
	doc.Dir = dir
	for _, p := range doc.Pages {
		p.ImagePath = filepath.Join(dir, filepath.Base(p.ImagePath))
	}

	if err := ix.Documents.CreateDocument(ctx, doc); err != nil {
		return nil, "", fmt.Errorf("save document: %w", err)
	}

	r.filter.Add(hash)
	return doc, "", nil
}

// promote replaces dir with the staging directory.
func promote(staging, dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return err
	}
	return os.Rename(staging, dir)
}

// download writes the file as PDF to path and returns its content hash.
func (ix *Indexer) download(ctx context.Context, file *lawdit.SourceFile, path string) (string, error) {
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}

	h := xxhash.New()
	if err := ix.Source.DownloadPDF(ctx, file, io.MultiWriter(f, h)); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return fmt.Sprintf("%016x", h.Sum64()), nil
}

// duplicateOf returns the source ID of an indexed document with the same
// content, or "" if there is none.
func (ix *Indexer) duplicateOf(ctx context.Context, r *run, file *lawdit.SourceFile, hash string) (string, error) {
	if ix.Force || !r.filter.Test(hash) {
		return "", nil
	}
	docs, err := ix.Documents.FindDocuments(ctx, lawdit.DocumentFilter{
		DataRoomID:  &r.room.ID,
		ContentHash: &hash,
		Limit:       1,
	})
	if err != nil {
		return "", fmt.Errorf("duplicate lookup: %w", err)
	}
	if len(docs) == 0 {
		return "", nil
	}
	return docs[0].SourceID, nil
}

// pageResult holds the outcome of summarizing a single page.
type pageResult struct {
	position int
	summary  string
	failed   bool
}

// summarizePages summarizes page images in parallel and returns the pages
// in order along with the number of pages that fell back to a placeholder.
func (ix *Indexer) summarizePages(ctx context.Context, images []string) ([]*lawdit.Page, int, error) {
	concurrency := ix.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	resultCh := make(chan pageResult, len(images))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	go func() {
		for i, path := range images {
			g.Go(func() error {
				resultCh <- ix.summarizePage(gctx, i, path)
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	pages := make([]*lawdit.Page, len(images))
	var failed atomic.Int64
	for res := range resultCh {
		if res.failed {
			failed.Add(1)
		}
		pages[res.position] = &lawdit.Page{
			Number:    res.position + 1,
			Summary:   res.summary,
			ImagePath: images[res.position],
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	return pages, int(failed.Load()), nil
}

func (ix *Indexer) summarizePage(ctx context.Context, position int, path string) pageResult {
	pageNum := position + 1
	summary, err := WithRetry(ctx, ix.retryDelays(), nil, func(ctx context.Context) (string, error) {
		image, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		return ix.Summarizer.SummarizePage(ctx, image, pageNum)
	})
	if err != nil {
		return pageResult{
			position: position,
			summary:  fmt.Sprintf("Error processing page %d", pageNum),
			failed:   true,
		}
	}
	return pageResult{position: position, summary: summary}
}

func (ix *Indexer) retryDelays() []time.Duration {
	if ix.RetryDelays == nil {
		return DefaultRetryDelays()
	}
	return ix.RetryDelays
}

// slugFor returns a directory name for the file that is unique within the run.
func (r *run) slugFor(name string) string {
	base := lawdit.Slugify(name)
	slug := base
	for n := 2; r.slugs[slug]; n++ {
		slug = fmt.Sprintf("%s-%d", base, n)
	}
	r.slugs[slug] = true
	return slug
}

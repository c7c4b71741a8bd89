package renamer

import (
	"context"

	"github.com/a3tai/mcp-pdf-renamer/internal/detect"
	"github.com/a3tai/mcp-pdf-renamer/internal/naming"
)

// Failure is a document that could not be processed.
type Failure struct {
	Document string `json:"document"`
	Err      error  `json:"-"`
	Message  string `json:"error"`
}

// BatchResult is the outcome of a batch. Every input document appears in
// exactly one of Results and Failures.
type BatchResult struct {
	RunID    string    `json:"run_id"`
	Results  []*Result `json:"results"`
	Failures []Failure `json:"failures,omitempty"`
	// Archive is set when archiving was requested and the batch produced
	// more than one artifact.
	Archive *Archive `json:"archive,omitempty"`
}

// Artifacts returns every artifact of the batch in input order.
func (b *BatchResult) Artifacts() []Artifact {
	var out []Artifact
	for _, r := range b.Results {
		out = append(out, r.Artifacts...)
	}
	return out
}

// ProcessBatch processes documents one after another. A failing document is
// recorded and never stops its siblings. Artifact names are unique across the
// batch.
func (p *Pipeline) ProcessBatch(ctx context.Context, docs []Document, opts Options) *BatchResult {
	batch := &BatchResult{RunID: NewRunID()}
	logger := p.logger.With("run_id", batch.RunID)
	logger.Info("starting batch", "documents", len(docs))

	for _, doc := range docs {
		docLogger := logger.With("document", doc.Name)

		res, err := p.process(ctx, doc, opts, docLogger)
		if err != nil {
			docLogger.Warn("document failed", "error", err)
			batch.Failures = append(batch.Failures, Failure{Document: doc.Name, Err: err, Message: err.Error()})
			continue
		}
		batch.Results = append(batch.Results, res)
	}

	batch.dedupe()

	if artifacts := batch.Artifacts(); opts.Archive && len(artifacts) > 1 {
		fields := make([]detect.Fields, len(artifacts))
		for i, a := range artifacts {
			fields[i] = a.Fields
		}

		name := naming.ArchiveName(opts.ArchivePrefix, fields)
		archive, err := BuildArchive(name, artifacts)
		if err != nil {
			logger.Error("failed to build archive", "error", err)
		} else {
			batch.Archive = archive
		}
	}

	logger.Info("finished batch",
		"documents", len(docs),
		"artifacts", len(batch.Artifacts()),
		"failures", len(batch.Failures),
		"archived", batch.Archive != nil,
	)

	return batch
}

// dedupe renames artifacts whose filenames collide across documents.
func (b *BatchResult) dedupe() {
	var names []string
	for _, r := range b.Results {
		for _, a := range r.Artifacts {
			names = append(names, a.Filename)
		}
	}

	unique := naming.Dedupe(names)
	i := 0
	for _, r := range b.Results {
		for j := range r.Artifacts {
			r.Artifacts[j].Filename = unique[i]
			if j < len(r.Records) {
				r.Records[j].Filename = unique[i]
			}
			i++
		}
	}
}

package app

import (
	"context"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"turbot/internal/ai"
	"turbot/internal/extract"
	"turbot/internal/index"
	"turbot/internal/model"
	"turbot/internal/pkg/docread"
	"turbot/internal/pkg/travelcontent"
	"turbot/internal/repository"
)

// IngestService runs the upload pipeline: read, validate, extract, persist,
// index. Each stage past validation is best-effort; the result reports
// per-feature success flags instead of failing the whole upload.
type IngestService struct {
	packages       *repository.PackageRepository // nil when the database is unavailable
	indexer        *index.Indexer
	extractor      *extract.Extractor
	client         Completer // nil disables summaries
	chatCfg        ai.ChatConfig
	uploadDir      string
	minKeywordHits int
}

func NewIngestService(
	packages *repository.PackageRepository,
	indexer *index.Indexer,
	extractor *extract.Extractor,
	client Completer,
	chatCfg ai.ChatConfig,
	uploadDir string,
	minKeywordHits int,
) *IngestService {
	return &IngestService{
		packages:       packages,
		indexer:        indexer,
		extractor:      extractor,
		client:         client,
		chatCfg:        chatCfg,
		uploadDir:      uploadDir,
		minKeywordHits: minKeywordHits,
	}
}

// UploadResult reports what each pipeline stage produced for one document.
type UploadResult struct {
	Filename        string              `json:"filename"`
	ContentLength   int                 `json:"content_length"`
	Summary         string              `json:"summary,omitempty"`
	StructuredData  model.PackageFields `json:"structured_data"`
	SavedToDatabase bool                `json:"saved_to_database"`
	ChunksCreated   int                 `json:"chunks_created"`
	UploadDate      time.Time           `json:"upload_date"`
}

// UploadDir returns the directory uploaded originals are kept in.
func (s *IngestService) UploadDir() string {
	return s.uploadDir
}

// StoredName derives the on-disk name for an upload: the sanitized original
// name behind a timestamp prefix, so two uploads of the same file never
// collide.
func StoredName(original string, now time.Time) string {
	base := filepath.Base(original)
	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	name := strings.Trim(b.String(), "._")
	if name == "" {
		name = "document"
	}
	return now.Format("20060102_150405") + "_" + name
}

// Process ingests the already-stored file at path. Rejected documents (no
// readable content, off-domain) are removed from disk before the error is
// returned; accepted ones flow through extraction, persistence and indexing
// with per-feature degradation.
func (s *IngestService) Process(ctx context.Context, path, storedName string) (*UploadResult, error) {
	content := docread.Read(path, filepath.Ext(storedName))
	if strings.TrimSpace(content) == "" {
		s.removeFile(path)
		return nil, ErrNoContent
	}

	if !travelcontent.IsTravelRelated(content, s.minKeywordHits) {
		s.removeFile(path)
		return nil, ErrNotTravelRelated
	}

	extracted := s.extractor.Extract(ctx, content, storedName)

	saved := false
	if s.packages != nil {
		if err := s.packages.Upsert(storedName, extracted.Fields, content); err != nil {
			log.Printf("ingest: save %s to database failed: %v", storedName, err)
		} else {
			saved = true
		}
	}

	chunkCount := s.indexer.Index(ctx, content, storedName)

	return &UploadResult{
		Filename:        storedName,
		ContentLength:   len(content),
		Summary:         s.summarize(ctx, content),
		StructuredData:  extracted.Fields,
		SavedToDatabase: saved,
		ChunksCreated:   chunkCount,
		UploadDate:      time.Now(),
	}, nil
}

const summaryPrompt = "Sumiraj ovaj turistički/putni dokument u 3-4 rečenice, istakni ključne destinacije, usluge ili turističke informacije:\n\n"

// summarize generates a short document summary; failures yield the canned
// confirmation line.
func (s *IngestService) summarize(ctx context.Context, content string) string {
	const fallback = "Dokument je uspešno otpremljen."
	if s.client == nil {
		return fallback
	}

	prefix := content
	if runes := []rune(prefix); len(runes) > 3000 {
		prefix = string(runes[:3000])
	}
	summary, err := s.client.Complete(ctx, s.chatCfg, []ai.ChatMessage{
		{Role: "user", Content: summaryPrompt + prefix},
	})
	if err != nil {
		log.Printf("ingest: summary generation failed: %v", err)
		return fallback
	}
	summary = strings.TrimSpace(summary)
	if summary == "" {
		return fallback
	}
	return summary
}

// ListPackages returns all stored packages, newest first.
func (s *IngestService) ListPackages() ([]model.PackageView, error) {
	if s.packages == nil {
		return nil, ErrStoreUnavailable
	}
	rows, err := s.packages.ListAll()
	if err != nil {
		return nil, err
	}
	return toViews(rows), nil
}

// GetPackage returns one package by id.
func (s *IngestService) GetPackage(id uint) (*model.PackageView, error) {
	if s.packages == nil {
		return nil, ErrStoreUnavailable
	}
	pkg, err := s.packages.GetByID(id)
	if err != nil {
		return nil, err
	}
	if pkg == nil {
		return nil, ErrPackageNotFound
	}
	view := pkg.View()
	return &view, nil
}

// SearchPackages applies the optional filters conjunctively, capped at 50.
func (s *IngestService) SearchPackages(filter repository.SearchFilter) ([]model.PackageView, error) {
	if s.packages == nil {
		return nil, ErrStoreUnavailable
	}
	rows, err := s.packages.Search(filter)
	if err != nil {
		return nil, err
	}
	return toViews(rows), nil
}

// PackageCount returns the stored package total, 0 when the store is down.
func (s *IngestService) PackageCount() int64 {
	if s.packages == nil {
		return 0
	}
	n, err := s.packages.Count()
	if err != nil {
		log.Printf("ingest: count packages failed: %v", err)
		return 0
	}
	return n
}

// UploadDirSize walks the upload directory and sums file sizes.
func (s *IngestService) UploadDirSize() int64 {
	var total int64
	_ = filepath.WalkDir(s.uploadDir, func(_ string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if info, infoErr := d.Info(); infoErr == nil {
			total += info.Size()
		}
		return nil
	})
	return total
}

func (s *IngestService) removeFile(path string) {
	if err := os.Remove(path); err != nil {
		log.Printf("ingest: remove rejected file %s failed: %v", path, err)
	}
}

func toViews(rows []model.TravelPackage) []model.PackageView {
	views := make([]model.PackageView, len(rows))
	for i := range rows {
		views[i] = rows[i].View()
	}
	return views
}

package reports

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/fdg312/vitalis/internal/blob"
	"github.com/fdg312/vitalis/internal/clock"
	"github.com/fdg312/vitalis/internal/storage"
	"github.com/fdg312/vitalis/internal/tracker"
)

// DashboardSource отдаёт текущее состояние дня (реализуется *tracker.Tracker).
type DashboardSource interface {
	Dashboard(ctx context.Context) tracker.Dashboard
}

type Logger interface {
	Printf(format string, v ...any)
}

type ServiceOptions struct {
	Clock      clock.Clock
	IDs        clock.IDGenerator
	PresignTTL int // seconds
	Logger     Logger
}

// Service handles report rendering and the archive index
type Service struct {
	source     DashboardSource
	kv         storage.KV
	blobStore  blob.Store
	clock      clock.Clock
	ids        clock.IDGenerator
	presignTTL int
	logger     Logger

	mu sync.Mutex
}

// NewService creates a reports service. A nil blobStore disables archiving.
func NewService(source DashboardSource, kv storage.KV, blobStore blob.Store, opts ServiceOptions) *Service {
	if opts.Clock == nil {
		opts.Clock = clock.System{}
	}
	if opts.IDs == nil {
		opts.IDs = clock.ShortIDs{}
	}
	if opts.PresignTTL <= 0 {
		opts.PresignTTL = 900
	}
	return &Service{
		source:     source,
		kv:         kv,
		blobStore:  blobStore,
		clock:      opts.Clock,
		ids:        opts.IDs,
		presignTTL: opts.PresignTTL,
		logger:     opts.Logger,
	}
}

// Today renders today's dashboard.
func (s *Service) Today(ctx context.Context, format string) (Rendered, error) {
	f, err := ParseFormat(format)
	if err != nil {
		return Rendered{}, err
	}
	d := s.source.Dashboard(ctx)
	data, err := Generate(d, f)
	if err != nil {
		return Rendered{}, fmt.Errorf("failed to generate report: %w", err)
	}
	return Rendered{
		Date:        d.Date,
		Format:      f,
		ContentType: ContentType(f),
		Filename:    Filename(d.Date, f),
		Data:        data,
	}, nil
}

// Archive renders today's report, uploads it and appends it to the index.
func (s *Service) Archive(ctx context.Context, format string) (Report, error) {
	if s.blobStore == nil || s.kv == nil {
		return Report{}, ErrArchiveDisabled
	}
	rendered, err := s.Today(ctx, format)
	if err != nil {
		return Report{}, err
	}

	id := s.ids.NewID()
	objectKey := fmt.Sprintf("reports/%s/%s.%s", rendered.Date, id, rendered.Format)
	size, err := s.blobStore.PutObject(ctx, objectKey, rendered.Data, rendered.ContentType)
	if err != nil {
		return Report{}, fmt.Errorf("failed to upload report: %w", err)
	}

	report := Report{
		ID:        id,
		Date:      rendered.Date,
		Format:    rendered.Format,
		ObjectKey: objectKey,
		SizeBytes: size,
		CreatedAt: s.clock.Now().UTC(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	index, err := s.loadIndexLocked(ctx)
	if err != nil {
		return Report{}, err
	}
	index = append(index, report)
	if err := storage.SaveJSON(ctx, s.kv, storage.KeyReportArchive, index); err != nil {
		// объект уже загружен; без записи в индексе он не виден в списке
		s.logf("WARN reports: index save failed id=%s key=%s: %v", id, objectKey, err)
		return Report{}, err
	}

	s.logf("INFO reports: archived id=%s format=%s size=%d", id, report.Format, size)
	return report, nil
}

// List returns archived reports, newest first.
func (s *Service) List(ctx context.Context) ([]Report, error) {
	if s.kv == nil {
		return []Report{}, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	index, err := s.loadIndexLocked(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(index, func(i, j int) bool {
		return index[i].CreatedAt.After(index[j].CreatedAt)
	})
	return index, nil
}

// Get looks up an archived report by id.
func (s *Service) Get(ctx context.Context, id string) (Report, error) {
	list, err := s.List(ctx)
	if err != nil {
		return Report{}, err
	}
	for _, r := range list {
		if r.ID == id {
			return r, nil
		}
	}
	return Report{}, ErrReportNotFound
}

// DownloadURL returns a presigned URL for an archived report.
// Stores without direct links return blob.ErrPresignUnsupported.
func (s *Service) DownloadURL(ctx context.Context, r Report) (string, error) {
	if s.blobStore == nil {
		return "", ErrArchiveDisabled
	}
	return s.blobStore.PresignGet(ctx, r.ObjectKey, s.presignTTL)
}

// Open returns an archived report with its file contents.
func (s *Service) Open(ctx context.Context, id string) (Report, []byte, error) {
	if s.blobStore == nil {
		return Report{}, nil, ErrArchiveDisabled
	}
	report, err := s.Get(ctx, id)
	if err != nil {
		return Report{}, nil, err
	}
	data, err := s.blobStore.GetObject(ctx, report.ObjectKey)
	if errors.Is(err, blob.ErrObjectNotFound) {
		s.logf("WARN reports: object missing id=%s key=%s", id, report.ObjectKey)
		return Report{}, nil, ErrReportNotFound
	}
	if err != nil {
		return Report{}, nil, fmt.Errorf("failed to download report: %w", err)
	}
	return report, data, nil
}

// Delete removes the object first, then the index entry.
func (s *Service) Delete(ctx context.Context, id string) error {
	if s.blobStore == nil || s.kv == nil {
		return ErrArchiveDisabled
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	index, err := s.loadIndexLocked(ctx)
	if err != nil {
		return err
	}
	pos := -1
	for i, r := range index {
		if r.ID == id {
			pos = i
			break
		}
	}
	if pos < 0 {
		return ErrReportNotFound
	}

	if err := s.blobStore.DeleteObject(ctx, index[pos].ObjectKey); err != nil {
		return fmt.Errorf("failed to delete report: %w", err)
	}
	index = append(index[:pos], index[pos+1:]...)
	if err := storage.SaveJSON(ctx, s.kv, storage.KeyReportArchive, index); err != nil {
		s.logf("WARN reports: index save failed after delete id=%s: %v", id, err)
		return err
	}

	s.logf("INFO reports: deleted id=%s", id)
	return nil
}

func (s *Service) loadIndexLocked(ctx context.Context) ([]Report, error) {
	var index []Report
	_, err := storage.LoadJSON(ctx, s.kv, storage.KeyReportArchive, &index)
	switch {
	case errors.Is(err, storage.ErrMalformed):
		s.logf("WARN reports: %v, starting an empty index", err)
		index = nil
	case err != nil:
		return nil, err
	}
	if index == nil {
		index = []Report{}
	}
	return index, nil
}

func (s *Service) logf(format string, v ...any) {
	if s.logger == nil {
		return
	}
	s.logger.Printf(format, v...)
}

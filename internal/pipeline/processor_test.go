package pipeline

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/medscan/facesheet-extractor/internal/entity"
	"github.com/medscan/facesheet-extractor/internal/facesheet"
	"github.com/medscan/facesheet-extractor/internal/ocr"
)

type fakeSource struct {
	res ocr.Result
	err error
}

func (f *fakeSource) Tokens(context.Context, string) (ocr.Result, error) {
	return f.res, f.err
}

type fakePages struct {
	mu     sync.Mutex
	pages  []entity.Page
	fields map[uuid.UUID][]facesheet.Field
}

func newFakePages() *fakePages {
	return &fakePages{fields: map[uuid.UUID][]facesheet.Field{}}
}

func (f *fakePages) Create(_ context.Context, sourcePath string, tokenCount int, meanConf float64) (*entity.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := entity.Page{ID: uuid.New(), SourcePath: sourcePath, TokenCount: tokenCount, MeanConf: meanConf, IngestedAt: time.Now()}
	f.pages = append(f.pages, p)
	return &p, nil
}

func (f *fakePages) GetByID(_ context.Context, id uuid.UUID) (*entity.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.pages {
		if f.pages[i].ID == id {
			return &f.pages[i], nil
		}
	}
	return nil, errors.New("not found")
}

func (f *fakePages) List(context.Context) ([]entity.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]entity.Page(nil), f.pages...), nil
}

func (f *fakePages) SaveFields(_ context.Context, pageID uuid.UUID, fields []facesheet.Field) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fields[pageID] = fields
	return nil
}

func (f *fakePages) ListFields(context.Context, uuid.UUID) ([]entity.PageField, error) {
	return nil, nil
}

type fakeJobs struct {
	mu       sync.Mutex
	started  int
	finished int
	failed   int
}

func (f *fakeJobs) Start(_ context.Context, pageID uuid.UUID) (*entity.ExtractJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.started++
	return &entity.ExtractJob{ID: uuid.New(), PageID: pageID}, nil
}

func (f *fakeJobs) FinishSuccess(context.Context, uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.finished++
	return nil
}

func (f *fakeJobs) FinishFailure(context.Context, uuid.UUID, string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failed++
	return nil
}

func visitTokens() ocr.Result {
	return ocr.Result{
		Tokens: []facesheet.Token{
			{Text: "Visit", Box: facesheet.Box{X: 10, Y: 10}, Conf: 95},
			{Text: "ID:", Box: facesheet.Box{X: 55, Y: 10}, Conf: 93},
			{Text: "12345", Box: facesheet.Box{X: 80, Y: 12}, Conf: 91},
		},
		MeanConf: 93,
	}
}

var visitSpecs = []facesheet.FieldSpec{
	{Label: "Visit", MaxDX: 100, Type: facesheet.FieldTypePlain},
}

func TestProcessPage(t *testing.T) {
	pages := newFakePages()
	jobs := &fakeJobs{}
	proc := NewProcessor(nil, &fakeSource{res: visitTokens()}, facesheet.NewExtractor(0, nil), visitSpecs, pages, jobs)

	pageID, fields, err := proc.ProcessPage(context.Background(), "page1.jpg")
	if err != nil {
		t.Fatalf("ProcessPage: %v", err)
	}
	if len(fields) != 1 || fields[0].Value != "12345" {
		t.Fatalf("fields = %+v", fields)
	}
	if jobs.started != 1 || jobs.finished != 1 || jobs.failed != 0 {
		t.Fatalf("job lifecycle: %+v", jobs)
	}
	if got := pages.fields[pageID]; len(got) != 1 {
		t.Fatalf("fields not persisted: %+v", got)
	}
}

func TestProcessPageOCRFailure(t *testing.T) {
	pages := newFakePages()
	jobs := &fakeJobs{}
	proc := NewProcessor(nil, &fakeSource{err: errors.New("tesseract exited 1")}, facesheet.NewExtractor(0, nil), visitSpecs, pages, jobs)

	if _, _, err := proc.ProcessPage(context.Background(), "page1.jpg"); err == nil {
		t.Fatal("expected error")
	}
	if len(pages.pages) != 0 || jobs.started != 0 {
		t.Fatal("nothing should be persisted when OCR fails")
	}
}

func TestQueueProcessesAllPages(t *testing.T) {
	pages := newFakePages()
	jobs := &fakeJobs{}
	proc := NewProcessor(nil, &fakeSource{res: visitTokens()}, facesheet.NewExtractor(0, nil), visitSpecs, pages, jobs)

	q := NewQueue(proc, nil, WithWorkers(3), WithQueueSize(16))
	for i := 0; i < 10; i++ {
		if !q.Enqueue("page.jpg") {
			t.Fatal("enqueue rejected")
		}
	}
	q.Close()

	if len(pages.pages) != 10 {
		t.Fatalf("expected 10 pages processed, got %d", len(pages.pages))
	}
	if q.Enqueue("late.jpg") {
		t.Fatal("enqueue after close must be rejected")
	}
}

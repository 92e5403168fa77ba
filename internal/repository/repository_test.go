package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/medscan/facesheet-extractor/constants"
	"github.com/medscan/facesheet-extractor/internal/facesheet"
)

func openTestDB(t *testing.T) (PageRepository, ExtractJobRepository) {
	t.Helper()
	db, err := Open(context.Background(), Config{Path: filepath.Join(t.TempDir(), "test.db")}, nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { Close(db, nil) })
	return NewPageRepository(db, nil), NewExtractJobRepository(db, nil)
}

func TestPageAndFieldsRoundTrip(t *testing.T) {
	ctx := context.Background()
	pages, _ := openTestDB(t)

	p, err := pages.Create(ctx, "facesheets/page1.jpg", 42, 88.5)
	if err != nil {
		t.Fatalf("create page: %v", err)
	}

	fields := []facesheet.Field{
		{Label: "Patient", Value: "Smith, John", Name: &facesheet.ParsedName{First: "John", Last: "Smith"}},
		{Label: "Visit", Value: "12345"},
		{Label: "SSN", Value: ""},
	}
	if err := pages.SaveFields(ctx, p.ID, fields); err != nil {
		t.Fatalf("save fields: %v", err)
	}

	got, err := pages.ListFields(ctx, p.ID)
	if err != nil {
		t.Fatalf("list fields: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 fields, got %d", len(got))
	}
	// configuration order is kept
	if got[0].Label != "Patient" || got[1].Label != "Visit" || got[2].Label != "SSN" {
		t.Fatalf("order lost: %+v", got)
	}
	if got[0].First == nil || *got[0].First != "John" || got[0].Last == nil || *got[0].Last != "Smith" {
		t.Fatalf("name parts lost: %+v", got[0])
	}
	if got[1].First != nil {
		t.Fatal("plain field should have no name parts")
	}

	// saving again replaces, not appends
	if err := pages.SaveFields(ctx, p.ID, fields[:1]); err != nil {
		t.Fatalf("resave fields: %v", err)
	}
	got, err = pages.ListFields(ctx, p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("resave should replace, got %d fields", len(got))
	}

	back, err := pages.GetByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("get page: %v", err)
	}
	if back.SourcePath != p.SourcePath || back.TokenCount != 42 {
		t.Fatalf("page round trip mismatch: %+v", back)
	}

	all, err := pages.List(ctx)
	if err != nil || len(all) != 1 {
		t.Fatalf("list pages: %v %d", err, len(all))
	}
}

func TestExtractJobLifecycle(t *testing.T) {
	ctx := context.Background()
	pages, jobs := openTestDB(t)

	p, err := pages.Create(ctx, "facesheets/page2.jpg", 10, 70)
	if err != nil {
		t.Fatal(err)
	}
	job, err := jobs.Start(ctx, p.ID)
	if err != nil {
		t.Fatalf("start job: %v", err)
	}
	if job.Status != string(constants.JobStatusRunning) {
		t.Fatalf("status = %q", job.Status)
	}
	if err := jobs.FinishSuccess(ctx, job.ID); err != nil {
		t.Fatalf("finish: %v", err)
	}

	job2, err := jobs.Start(ctx, p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if err := jobs.FinishFailure(ctx, job2.ID, "tesseract exited 1"); err != nil {
		t.Fatalf("finish failure: %v", err)
	}
}

package store

import (
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(":memory:")
	if err != nil {
		t.Fatalf("newTestStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSourceHash(t *testing.T) {
	s := newTestStore(t)

	// Unknown path yields empty hash, not an error.
	hash, err := s.GetSourceHash("/exams/parcial1.pdf")
	if err != nil {
		t.Fatalf("GetSourceHash: %v", err)
	}
	if hash != "" {
		t.Errorf("expected empty hash, got %q", hash)
	}

	err = s.RecordConversion(Conversion{
		SourcePath:    "/exams/parcial1.pdf",
		SourceHash:    "abc123",
		PageCount:     4,
		QuestionCount: 10,
		IssueCount:    2,
		OutputPath:    "/out/parcial1.json",
		ProcessedAt:   time.Now(),
	})
	if err != nil {
		t.Fatalf("RecordConversion: %v", err)
	}

	hash, err = s.GetSourceHash("/exams/parcial1.pdf")
	if err != nil {
		t.Fatalf("GetSourceHash after record: %v", err)
	}
	if hash != "abc123" {
		t.Errorf("expected 'abc123', got %q", hash)
	}
}

func TestRecordConversionUpsert(t *testing.T) {
	s := newTestStore(t)

	base := Conversion{
		SourcePath:  "/exams/final.pdf",
		SourceHash:  "v1",
		ProcessedAt: time.Now(),
	}
	if err := s.RecordConversion(base); err != nil {
		t.Fatalf("RecordConversion: %v", err)
	}

	base.SourceHash = "v2"
	base.QuestionCount = 7
	if err := s.RecordConversion(base); err != nil {
		t.Fatalf("RecordConversion upsert: %v", err)
	}

	c, err := s.GetConversion("/exams/final.pdf")
	if err != nil {
		t.Fatalf("GetConversion: %v", err)
	}
	if c.SourceHash != "v2" {
		t.Errorf("expected hash 'v2', got %q", c.SourceHash)
	}
	if c.QuestionCount != 7 {
		t.Errorf("expected 7 questions, got %d", c.QuestionCount)
	}

	list, err := s.ListConversions()
	if err != nil {
		t.Fatalf("ListConversions: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 row after upsert, got %d", len(list))
	}
}

func TestListConversionsOrder(t *testing.T) {
	s := newTestStore(t)

	t0 := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	for i, p := range []string{"/a.pdf", "/b.pdf", "/c.pdf"} {
		err := s.RecordConversion(Conversion{
			SourcePath:  p,
			SourceHash:  "h",
			ProcessedAt: t0.Add(time.Duration(i) * time.Hour),
		})
		if err != nil {
			t.Fatalf("RecordConversion %s: %v", p, err)
		}
	}

	list, err := s.ListConversions()
	if err != nil {
		t.Fatalf("ListConversions: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(list))
	}
	if list[0].SourcePath != "/c.pdf" {
		t.Errorf("expected most recent first, got %q", list[0].SourcePath)
	}
}

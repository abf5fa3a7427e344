package reportindex

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/raysh454/spectre/internal/model"
	"github.com/raysh454/spectre/internal/testutil"
)

func openTestIndex(t *testing.T) *Index {
	t.Helper()
	db, err := sql.Open("sqlite", "file::memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	ix, err := New(db, &testutil.DummyLogger{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { ix.Close() })
	return ix
}

func TestIndex_RecordAndList(t *testing.T) {
	t.Parallel()
	ix := openTestIndex(t)
	ctx := context.Background()

	clock := time.Unix(1_700_000_000, 0)
	ix.now = func() time.Time { clock = clock.Add(time.Second); return clock }

	if _, err := ix.Record(ctx, model.KindPort, "port_scan_1.txt", "example.com"); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if _, err := ix.Record(ctx, model.KindEmail, "email_check_a@b.com_2.txt", "a@b.com"); err != nil {
		t.Fatalf("Record: %v", err)
	}

	reports, err := ix.List(ctx, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(reports) != 2 {
		t.Fatalf("expected 2 reports, got %d", len(reports))
	}
	if reports[0].Filename != "email_check_a@b.com_2.txt" || reports[0].Kind != model.KindEmail {
		t.Errorf("expected newest first, got %+v", reports[0])
	}
	if reports[1].Href() != "/static/reports/port_scan_1.txt" {
		t.Errorf("unexpected href %q", reports[1].Href())
	}

	limited, _ := ix.List(ctx, 1)
	if len(limited) != 1 {
		t.Errorf("expected limit 1, got %d", len(limited))
	}
}

func TestIndex_RecordDuplicateReturnsExisting(t *testing.T) {
	t.Parallel()
	ix := openTestIndex(t)
	ctx := context.Background()

	first, err := ix.Record(ctx, model.KindTech, "tech_enum_1.txt", "https://a")
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	second, err := ix.Record(ctx, model.KindTech, "tech_enum_1.txt", "https://a")
	if err != nil {
		t.Fatalf("Record duplicate: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("expected existing id %s, got %s", first.ID, second.ID)
	}
	all, _ := ix.List(ctx, 0)
	if len(all) != 1 {
		t.Errorf("expected 1 entry, got %d", len(all))
	}
}

func TestIndex_RejectsPathTraversal(t *testing.T) {
	t.Parallel()
	ix := openTestIndex(t)
	for _, name := range []string{"", "..", "../etc/passwd", `a\b.txt`, "sub/report.txt"} {
		if _, err := ix.Record(context.Background(), model.KindPort, name, ""); !errors.Is(err, ErrInvalidFilename) {
			t.Errorf("%q: expected ErrInvalidFilename, got %v", name, err)
		}
	}
}

func TestIndex_GetMissing(t *testing.T) {
	t.Parallel()
	ix := openTestIndex(t)
	if _, err := ix.Get(context.Background(), "nope.txt"); !errors.Is(err, ErrReportNotFound) {
		t.Errorf("expected ErrReportNotFound, got %v", err)
	}
}

func TestOpen_CreatesFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "nested", "ledger.db")
	ix, err := Open(path, &testutil.DummyLogger{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer ix.Close()
	if _, err := ix.Record(context.Background(), model.KindDirectory, "dir_scan_1.txt", "https://a"); err != nil {
		t.Fatalf("Record: %v", err)
	}
}

func TestReport_HrefEscapesFilename(t *testing.T) {
	t.Parallel()
	tests := []struct{ filename, want string }{
		{"port_scan_1.txt", "/static/reports/port_scan_1.txt"},
		{"dir_scan_a#b.txt", "/static/reports/dir_scan_a%23b.txt"},
		{"tech_enum_x?y=1.txt", "/static/reports/tech_enum_x%3Fy=1.txt"},
		{"email_check_100%.txt", "/static/reports/email_check_100%25.txt"},
		{"social scout.txt", "/static/reports/social%20scout.txt"},
	}
	for _, tt := range tests {
		if got := (Report{Filename: tt.filename}).Href(); got != tt.want {
			t.Errorf("Href(%q) = %q, want %q", tt.filename, got, tt.want)
		}
	}
}

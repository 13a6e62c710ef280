package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nijaru/ytsum/errors"
	"github.com/nijaru/ytsum/models"
	"github.com/nijaru/ytsum/repository/sqlite"
	"github.com/nijaru/ytsum/storage"
)

func TestRenderHistoryKeepsHeaderCase(t *testing.T) {
	req := models.NewRequest("abcdefgh-1234", 42, "https://youtu.be/abc")
	req.Complete("Done.")

	out := renderHistory([]*models.Request{req})
	for _, want := range []string{"ID", "Chat", "Status", "Video", "abcdefgh", "42", "completed"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected table to contain '%s', got:\n%s", want, out)
		}
	}
	if strings.Contains(out, "abcdefgh-1234") {
		t.Errorf("expected shortened id, got:\n%s", out)
	}
}

type journalStub map[string]*models.Request

func (j journalStub) Find(ctx context.Context, id string) (*models.Request, error) {
	if req, ok := j[id]; ok {
		return req, nil
	}
	return nil, errors.NotFound("journalStub.Find", nil, "not found")
}

type archiveStub map[string]*storage.Archived

func (a archiveStub) GetSummary(ctx context.Context, id string) (*storage.Archived, error) {
	if item, ok := a[id]; ok {
		return item, nil
	}
	return nil, errors.NotFound("archiveStub.GetSummary", nil, "not archived")
}

func TestDescribeRequest(t *testing.T) {
	journaled := models.NewRequest("journaled", 7, "https://youtu.be/one")
	journaled.Complete("From the journal.")
	journal := journalStub{"journaled": journaled}
	archive := archiveStub{"archived": {
		ID:          "archived",
		VideoURL:    "https://youtu.be/two",
		Status:      models.StatusCompleted,
		Summary:     "From the archive.",
		Translation: "Из архива.",
	}}

	tests := []struct {
		name     string
		id       string
		archive  archiveReader
		want     []string
		notFound bool
	}{
		{"journal hit", "journaled", archive, []string{"From the journal.", "https://youtu.be/one"}, false},
		{"archive fallback", "archived", archive, []string{"From the archive.", "Из архива."}, false},
		{"missing everywhere", "nope", archive, nil, true},
		{"no archive configured", "archived", nil, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := describeRequest(context.Background(), journal, tt.archive, tt.id)
			if tt.notFound {
				if !errors.IsNotFound(err) {
					t.Fatalf("expected not found error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("describeRequest() error = %v", err)
			}
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("expected output to contain '%s', got:\n%s", want, out)
				}
			}
		})
	}
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--env-file=" + filepath.Join(t.TempDir(), "none.env")}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestHistoryCommand(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "journal.db")
	t.Setenv("DB_PATH", dbPath)
	t.Setenv("LOG_DIR", "")

	db, err := sqlite.Open(context.Background(), dbPath, sqlite.DefaultDBConfig())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	repo := sqlite.NewRepository(db)
	for _, req := range []*models.Request{
		models.NewRequest("aaaaaaaa-1111", 7, "https://youtu.be/one"),
		models.NewRequest("bbbbbbbb-2222", 8, "https://youtu.be/two"),
	} {
		if err := repo.Save(context.Background(), req); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}
	db.Close()

	out, err := runCommand(t, "history", "--chat", "7")
	if err != nil {
		t.Fatalf("history error = %v", err)
	}
	if !strings.Contains(out, "https://youtu.be/one") || !strings.Contains(out, "aaaaaaaa") {
		t.Errorf("expected chat 7 request in output, got:\n%s", out)
	}
	if strings.Contains(out, "https://youtu.be/two") {
		t.Errorf("did not expect other chats in output, got:\n%s", out)
	}
}

func TestHistoryCommandShow(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "journal.db")
	t.Setenv("DB_PATH", dbPath)
	t.Setenv("LOG_DIR", "")
	t.Setenv("SPACES_BUCKET", "")

	db, err := sqlite.Open(context.Background(), dbPath, sqlite.DefaultDBConfig())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	req := models.NewRequest("cccccccc-3333", 9, "https://youtu.be/three")
	req.Complete("Three things happened.")
	if err := sqlite.NewRepository(db).Save(context.Background(), req); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	db.Close()

	out, err := runCommand(t, "history", "--show", "cccccccc-3333")
	if err != nil {
		t.Fatalf("history --show error = %v", err)
	}
	if !strings.Contains(out, "Three things happened.") || !strings.Contains(out, "cccccccc-3333") {
		t.Errorf("expected request details, got:\n%s", out)
	}

	if _, err := runCommand(t, "history", "--show", "missing"); !errors.IsNotFound(err) {
		t.Errorf("expected not found error, got %v", err)
	}
}

func TestHistoryCommandEmpty(t *testing.T) {
	t.Setenv("DB_PATH", filepath.Join(t.TempDir(), "empty.db"))
	t.Setenv("LOG_DIR", "")

	out, err := runCommand(t, "history")
	if err != nil {
		t.Fatalf("history error = %v", err)
	}
	if !strings.Contains(out, "No requests recorded") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestSummarizeRejectsBadReference(t *testing.T) {
	_, err := runCommand(t, "summarize", "not a link")
	if !errors.IsInvalidInput(err) {
		t.Errorf("expected invalid input error, got %v", err)
	}
}

func TestSummarizeRequiresAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("LOG_DIR", "")

	_, err := runCommand(t, "summarize", "https://youtu.be/abc")
	if err == nil || !strings.Contains(err.Error(), "OPENAI_API_KEY") {
		t.Errorf("expected missing api key error, got %v", err)
	}
}

func TestRender(t *testing.T) {
	if got := render("One. Two.", true); got != "One.\n Two.\n" {
		t.Errorf("expected sentence per line, got '%s'", got)
	}
	if got := render("One. Two.", false); got != "One. Two." {
		t.Errorf("expected text unchanged, got '%s'", got)
	}
}

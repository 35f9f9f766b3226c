package session

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"memchat/internal/chat"
	"memchat/internal/db"
	"memchat/internal/memory"
)

func TestApplyAppendsMessages(t *testing.T) {
	st := NewState()
	Apply(st, Delta{AppendMessages: []chat.Message{chat.User("hi")}})
	Apply(st, Delta{AppendMessages: []chat.Message{chat.Assistant("hello")}})

	want := []chat.Message{chat.User("hi"), chat.Assistant("hello")}
	if !reflect.DeepEqual(st.Messages, want) {
		t.Errorf("messages = %v, want %v", st.Messages, want)
	}
}

func TestApplyReplaceThenAppend(t *testing.T) {
	st := NewState()
	st.Messages = []chat.Message{chat.User("1"), chat.Assistant("2"), chat.User("3")}

	Apply(st, Delta{
		ReplaceMessages: []chat.Message{chat.User("3")},
		AppendMessages:  []chat.Message{chat.Assistant("4")},
	})

	want := []chat.Message{chat.User("3"), chat.Assistant("4")}
	if !reflect.DeepEqual(st.Messages, want) {
		t.Errorf("messages = %v, want %v", st.Messages, want)
	}
}

func TestApplyScalarFields(t *testing.T) {
	st := NewState()
	tokens, clar := 123, 2
	sum := memory.NewSessionSummary()
	sum.KeyFacts = []string{"fact"}
	analysis := memory.QueryAnalysis{OriginalQuery: "q", IsAmbiguous: true}

	Apply(st, Delta{
		Summary:            sum,
		Analysis:           &analysis,
		TokenCount:         &tokens,
		ClarificationCount: &clar,
	})

	if st.CurrentTokenCount != 123 || st.ClarificationCount != 2 {
		t.Errorf("counters = %d/%d", st.CurrentTokenCount, st.ClarificationCount)
	}
	if st.Summary.KeyFacts[0] != "fact" {
		t.Errorf("summary not applied: %+v", st.Summary)
	}
	if !st.Analysis.IsAmbiguous {
		t.Errorf("analysis not applied: %+v", st.Analysis)
	}
}

func TestApplyEmptyDeltaIsNoOp(t *testing.T) {
	st := NewState()
	st.Messages = []chat.Message{chat.User("hi")}
	st.CurrentTokenCount = 42

	Apply(st, Delta{})

	if len(st.Messages) != 1 || st.CurrentTokenCount != 42 {
		t.Errorf("empty delta changed state: %+v", st)
	}
}

func TestStateCloneIsDeep(t *testing.T) {
	st := NewState()
	st.Messages = []chat.Message{chat.User("hi")}
	st.Summary.UserProfile["name"] = "Ada"
	st.Analysis.NeededContextFromMemory = []string{memory.FieldKeyFacts}

	cp := st.Clone()
	cp.Messages[0].Content = "changed"
	cp.Summary.UserProfile["name"] = "Grace"
	cp.Analysis.NeededContextFromMemory[0] = "changed"

	if st.Messages[0].Content != "hi" {
		t.Error("Clone shares the messages slice")
	}
	if st.Summary.UserProfile["name"] != "Ada" {
		t.Error("Clone shares the summary")
	}
	if st.Analysis.NeededContextFromMemory[0] != memory.FieldKeyFacts {
		t.Error("Clone shares the analysis slices")
	}
}

// --- Store contract tests, run against both implementations ---

func runStoreTests(t *testing.T, store Store) {
	ctx := context.Background()

	if _, err := store.Load(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load(missing) = %v, want ErrNotFound", err)
	}

	st := NewState()
	st.Messages = []chat.Message{chat.User("plan a trip"), chat.Assistant("where to?")}
	st.Summary.UserProfile["budget"] = "$3000"
	st.Summary.KeyFacts = []string{"destination is Japan"}
	st.Summary.MessageRangeSummarized = memory.MessageRange{From: 0, To: 2}
	st.Analysis = memory.QueryAnalysis{
		OriginalQuery:           "plan a trip",
		IsAmbiguous:             true,
		ClarifyingQuestions:     []string{"Where would you like to go?"},
		NeededContextFromMemory: []string{memory.FieldUserProfile},
	}
	st.CurrentTokenCount = 57
	st.ClarificationCount = 1

	if err := store.Save(ctx, "s1", st); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.Load(ctx, "s1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(got.Messages, st.Messages) {
		t.Errorf("messages round-trip: got %v, want %v", got.Messages, st.Messages)
	}
	if !reflect.DeepEqual(got.Summary, st.Summary) {
		t.Errorf("summary round-trip: got %+v, want %+v", got.Summary, st.Summary)
	}
	if got.Analysis.OriginalQuery != "plan a trip" || !got.Analysis.IsAmbiguous {
		t.Errorf("analysis round-trip: %+v", got.Analysis)
	}
	if got.CurrentTokenCount != 57 || got.ClarificationCount != 1 {
		t.Errorf("counters round-trip: %d/%d", got.CurrentTokenCount, got.ClarificationCount)
	}

	// Mutating the loaded state must not leak back into the store.
	got.Messages[0].Content = "mutated"
	got.Summary.UserProfile["budget"] = "$1"
	reloaded, err := store.Load(ctx, "s1")
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Messages[0].Content != "plan a trip" || reloaded.Summary.UserProfile["budget"] != "$3000" {
		t.Error("stored state shares memory with a loaded copy")
	}

	// Saving again with fewer messages must shrink the stored transcript.
	st2 := got.Clone()
	st2.Messages = []chat.Message{chat.Assistant("truncated")}
	if err := store.Save(ctx, "s1", st2); err != nil {
		t.Fatalf("second Save: %v", err)
	}
	reloaded, err = store.Load(ctx, "s1")
	if err != nil {
		t.Fatalf("reload after truncate: %v", err)
	}
	if len(reloaded.Messages) != 1 || reloaded.Messages[0].Content != "truncated" {
		t.Errorf("truncated transcript round-trip: %v", reloaded.Messages)
	}

	if err := store.Save(ctx, "s2", NewState()); err != nil {
		t.Fatalf("Save s2: %v", err)
	}
	infos, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("List returned %d sessions, want 2", len(infos))
	}

	if err := store.Delete(ctx, "s2"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := store.Delete(ctx, "s2"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete = %v, want ErrNotFound", err)
	}
	if _, err := store.Load(ctx, "s2"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load after Delete = %v, want ErrNotFound", err)
	}
}

func TestMemoryStore(t *testing.T) {
	runStoreTests(t, NewMemoryStore())
}

func TestSQLiteStore(t *testing.T) {
	d, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	defer d.Close()
	runStoreTests(t, NewSQLiteStore(d))
}

func TestSQLiteStoreSurvivesCorruptRow(t *testing.T) {
	d, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	defer d.Close()

	_, err = d.Exec(`INSERT INTO sessions (id, summary_json, analysis_json, token_count, clarification_count)
		VALUES ('bad', 'not json', '{', 10, 0)`)
	if err != nil {
		t.Fatalf("insert corrupt row: %v", err)
	}

	store := NewSQLiteStore(d)
	st, err := store.Load(context.Background(), "bad")
	if err != nil {
		t.Fatalf("Load corrupt session: %v", err)
	}
	if !st.Summary.IsEmpty() {
		t.Errorf("corrupt summary should load as empty, got %+v", st.Summary)
	}
	if st.CurrentTokenCount != 10 {
		t.Errorf("intact columns should survive, token count = %d", st.CurrentTokenCount)
	}
}

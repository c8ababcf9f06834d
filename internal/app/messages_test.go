package app

import "testing"

func TestAppendUserRejectsBlankText(t *testing.T) {
	log := NewMessageLog()

	for _, text := range []string{"", "   ", "\n\t"} {
		if _, ok := log.AppendUser(text); ok {
			t.Errorf("expected blank text %q to be rejected", text)
		}
	}
	if log.Len() != 0 {
		t.Fatalf("expected empty log, got %d messages", log.Len())
	}
}

func TestAppendUserTrimsAndRecords(t *testing.T) {
	log := NewMessageLog()

	msg, ok := log.AppendUser("  What is the summary?  ")
	if !ok {
		t.Fatal("expected submission to be accepted")
	}
	if msg.Text != "What is the summary?" {
		t.Errorf("expected trimmed text, got %q", msg.Text)
	}
	if msg.Author != AuthorUser {
		t.Errorf("expected author %q, got %q", AuthorUser, msg.Author)
	}
	if msg.ID == "" || msg.CreatedAt.IsZero() {
		t.Error("expected id and timestamp to be set")
	}
}

func TestLogPreservesInsertionOrder(t *testing.T) {
	log := NewMessageLog()
	log.AppendUser("first question")
	log.AppendAssistant("first answer")
	log.AppendUser("second question")
	log.AppendAssistant("second answer")

	all := log.All()
	want := []struct {
		author Author
		text   string
	}{
		{AuthorUser, "first question"},
		{AuthorAssistant, "first answer"},
		{AuthorUser, "second question"},
		{AuthorAssistant, "second answer"},
	}
	if len(all) != len(want) {
		t.Fatalf("expected %d messages, got %d", len(want), len(all))
	}
	for i, w := range want {
		if all[i].Author != w.author || all[i].Text != w.text {
			t.Errorf("message %d: expected %s %q, got %s %q", i, w.author, w.text, all[i].Author, all[i].Text)
		}
	}
}

func TestAllReturnsSnapshot(t *testing.T) {
	log := NewMessageLog()
	log.AppendUser("hello")

	snap := log.All()
	snap[0].Text = "mutated"
	if log.All()[0].Text != "hello" {
		t.Error("mutating a snapshot must not affect the log")
	}
}

func TestClearEmptiesLog(t *testing.T) {
	log := NewMessageLog()
	log.AppendUser("hello")
	log.AppendAssistant("hi")
	log.Clear()
	if log.Len() != 0 {
		t.Fatalf("expected empty log after clear, got %d", log.Len())
	}
}

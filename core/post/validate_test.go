package post

import (
	"strings"
	"testing"
	"time"

	"github.com/projectklase/comunika/core"
)

func Test_ValidateDraft(t *testing.T) {
	future := time.Now().Add(48 * time.Hour).UTC().Format(time.RFC3339)

	t.Run("clean draft passes untouched", func(t *testing.T) {
		res := ValidateDraft(Draft{
			SchoolID: "sch1",
			Title:    "Reunião de pais",
			Body:     "Pauta em anexo.",
			DueAt:    future,
		})
		if !res.Valid {
			t.Fatalf("ValidateDraft() invalid: %+v", res.Errors)
		}
		if len(res.Adjustments) != 0 || res.PublishMoved {
			t.Errorf("ValidateDraft() = %+v, want no adjustments", res)
		}
	})

	t.Run("missing title is an error", func(t *testing.T) {
		res := ValidateDraft(Draft{Title: " "})
		if res.Valid || len(res.Errors) != 1 || res.Errors[0].Field != "title" {
			t.Errorf("ValidateDraft() = %+v, want title error", res)
		}
	})

	t.Run("title clamped to 120", func(t *testing.T) {
		res := ValidateDraft(Draft{Title: strings.Repeat("t", 200)})
		if !res.Valid {
			t.Fatalf("ValidateDraft() invalid: %+v", res.Errors)
		}
		if got := len([]rune(res.Post.Title)); got != 120 {
			t.Errorf("ValidateDraft() title length = %d, want 120", got)
		}
	})

	t.Run("body whitespace normalized and clamped to 1000", func(t *testing.T) {
		res := ValidateDraft(Draft{
			Title: "Aviso",
			Body:  "a  b\n\nc " + strings.Repeat("x", 1200),
		})
		if !res.Valid {
			t.Fatalf("ValidateDraft() invalid: %+v", res.Errors)
		}
		if got := len([]rune(res.Post.Body)); got != 1000 {
			t.Errorf("ValidateDraft() body length = %d, want 1000", got)
		}
		if !strings.HasPrefix(res.Post.Body, "a b c ") {
			t.Errorf("ValidateDraft() body prefix = %q", res.Post.Body[:10])
		}
		if len(res.Adjustments) != 1 || res.Adjustments[0].Field != "body" {
			t.Errorf("ValidateDraft() adjustments = %+v", res.Adjustments)
		}
	})

	t.Run("location clamped to 200", func(t *testing.T) {
		res := ValidateDraft(Draft{Title: "Aviso", EventLocation: strings.Repeat("l", 250)})
		if !res.Valid {
			t.Fatalf("ValidateDraft() invalid: %+v", res.Errors)
		}
		if got := len([]rune(res.Post.EventLocation)); got != 200 {
			t.Errorf("ValidateDraft() location length = %d, want 200", got)
		}
	})

	t.Run("past due date is an error", func(t *testing.T) {
		res := ValidateDraft(Draft{Title: "Tarefa", DueAt: "2020-01-01T10:00:00Z"})
		if res.Valid || len(res.Errors) != 1 || res.Errors[0].Field != "due_at" {
			t.Errorf("ValidateDraft() = %+v, want due_at error", res)
		}
	})

	t.Run("past due date kept when past allowed", func(t *testing.T) {
		res := ValidateDraft(Draft{Title: "Tarefa", DueAt: "2020-01-01T10:00:00Z"}, true)
		if !res.Valid {
			t.Fatalf("ValidateDraft() invalid: %+v", res.Errors)
		}
		want := time.Date(2020, 1, 1, 10, 0, 0, 0, time.UTC)
		if !res.Post.DueAt.Equal(want) {
			t.Errorf("ValidateDraft() due = %v, want %v", res.Post.DueAt, want)
		}
	})

	t.Run("past publish date moved to now", func(t *testing.T) {
		res := ValidateDraft(Draft{Title: "Aviso", PublishAt: "2020-01-01T10:00:00Z"})
		if !res.Valid {
			t.Fatalf("ValidateDraft() invalid: %+v", res.Errors)
		}
		if !res.PublishMoved {
			t.Fatal("ValidateDraft().PublishMoved = false, want true")
		}
		if time.Since(res.Post.PublishAt) > time.Minute {
			t.Errorf("ValidateDraft() publish = %v, want ~now", res.Post.PublishAt)
		}
		found := false
		for _, adj := range res.Adjustments {
			if adj.Field == "publish_at" && adj.Reason == core.AdjustPublishMoved {
				found = true
			}
		}
		if !found {
			t.Errorf("ValidateDraft() adjustments = %+v, want publish_at entry", res.Adjustments)
		}
	})

	t.Run("event end before start is an error", func(t *testing.T) {
		res := ValidateDraft(Draft{
			Title:        "Festa Junina",
			EventStartAt: "2030-06-20T18:00:00Z",
			EventEndAt:   "2030-06-20T15:00:00Z",
		})
		if res.Valid || len(res.Errors) != 1 || res.Errors[0].Field != "event_end_at" {
			t.Errorf("ValidateDraft() = %+v, want event_end_at error", res)
		}
	})

	t.Run("valid event window accepted", func(t *testing.T) {
		res := ValidateDraft(Draft{
			Title:        "Festa Junina",
			EventStartAt: "2030-06-20T18:00:00Z",
			EventEndAt:   "2030-06-20T22:00:00Z",
		})
		if !res.Valid {
			t.Fatalf("ValidateDraft() invalid: %+v", res.Errors)
		}
	})

	t.Run("idempotent on its own output", func(t *testing.T) {
		first := ValidateDraft(Draft{
			Title:     "  Aviso geral  ",
			Body:      "texto   com   espaços",
			PublishAt: "2020-01-01T10:00:00Z",
		})
		if !first.Valid {
			t.Fatalf("ValidateDraft() first pass invalid: %+v", first.Errors)
		}
		second := ValidateDraft(DraftFromPost(first.Post))
		if !second.Valid {
			t.Fatalf("ValidateDraft() second pass invalid: %+v", second.Errors)
		}
		if len(second.Adjustments) != 0 || second.PublishMoved {
			t.Errorf("ValidateDraft() second pass = %+v, want no adjustments", second)
		}
	})
}

package models

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func testAuthor() User {
	return User{
		ID:           7,
		UID:          "uid-seven",
		Username:     "seven",
		QQ:           "70007",
		PasswordHash: "secret-hash",
	}
}

func TestNewPostSummaryMasking(t *testing.T) {
	user := testAuthor()

	open := NewPostSummary(Post{ID: 1, UserID: user.ID, Title: "你好", Content: "正文", Category: "吐槽", User: user})
	if open.Author == nil {
		t.Fatal("named post lost its author")
	}
	if open.Author.Username != "seven" || open.Author.UID != "uid-seven" || open.Author.QQ != "70007" {
		t.Fatalf("author mismatch: %+v", open.Author)
	}

	masked := NewPostSummary(Post{ID: 2, UserID: user.ID, Title: "匿名", Content: "正文", Category: "吐槽", IsAnonymous: true, User: user})
	if masked.Author != nil {
		t.Fatalf("anonymous post leaked author: %+v", masked.Author)
	}
	if !masked.Anonymous {
		t.Fatal("anonymous flag not carried into view")
	}
}

func TestNewPostDetailMasksComments(t *testing.T) {
	user := testAuthor()
	post := Post{ID: 3, UserID: user.ID, Title: "t", Content: "c", Category: "提问", User: user}
	comments := []Comment{
		{ID: 1, PostID: 3, UserID: user.ID, Content: "署名", User: user},
		{ID: 2, PostID: 3, UserID: user.ID, Content: "匿名", IsAnonymous: true, User: user},
	}

	detail := NewPostDetail(post, comments)
	if len(detail.Comments) != 2 {
		t.Fatalf("comments = %d, want 2", len(detail.Comments))
	}
	if detail.Comments[0].Author == nil {
		t.Fatal("named comment lost its author")
	}
	if detail.Comments[1].Author != nil {
		t.Fatalf("anonymous comment leaked author: %+v", detail.Comments[1].Author)
	}
}

// The serialized view must never carry author identity for anonymous items,
// in any field, under any key.
func TestAnonymousViewSerialization(t *testing.T) {
	user := testAuthor()
	view := NewPostSummary(Post{
		ID:          4,
		UserID:      user.ID,
		Title:       "匿名帖",
		Content:     "正文",
		Category:    "其它",
		IsAnonymous: true,
		CreatedAt:   time.Now(),
		User:        user,
	})

	b, err := json.Marshal(view)
	if err != nil {
		t.Fatalf("marshal view: %v", err)
	}
	body := string(b)
	for _, leak := range []string{"seven", "uid-seven", "70007", "secret-hash"} {
		if strings.Contains(body, leak) {
			t.Fatalf("anonymous view leaked %q: %s", leak, body)
		}
	}
	if !strings.Contains(body, `"author":null`) {
		t.Fatalf("anonymous view missing null author: %s", body)
	}
}

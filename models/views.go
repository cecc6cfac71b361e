package models

import "time"

// AuthorInfo identifies a post or comment author. It is attached to views
// only when the item is not anonymous.
type AuthorInfo struct {
	Username string `json:"username"`
	QQ       string `json:"qq"`
	UID      string `json:"uid"`
}

// PostSummary is the wire representation of a post.
type PostSummary struct {
	ID        uint        `json:"id"`
	Title     string      `json:"title"`
	Content   string      `json:"content"`
	Category  string      `json:"category"`
	CreatedAt time.Time   `json:"created_at"`
	Anonymous bool        `json:"anonymous"`
	Author    *AuthorInfo `json:"author"`
}

// PostDetail is a post together with its comments.
type PostDetail struct {
	PostSummary
	Comments []CommentView `json:"comments"`
}

// CommentView is the wire representation of a comment.
type CommentView struct {
	ID        uint        `json:"id"`
	Content   string      `json:"content"`
	CreatedAt time.Time   `json:"created_at"`
	Anonymous bool        `json:"anonymous"`
	Author    *AuthorInfo `json:"author"`
}

// UserResponse echoes an authenticated identity.
type UserResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	QQ       string `json:"qq"`
	UID      string `json:"uid"`
	IsAdmin  bool   `json:"is_admin"`
}

// UserProfile is the public view of a user, listing only posts the user
// chose to attribute to themselves.
type UserProfile struct {
	Username string        `json:"username"`
	QQ       string        `json:"qq"`
	UID      string        `json:"uid"`
	JoinedAt time.Time     `json:"joined_at"`
	Posts    []PostSummary `json:"posts"`
}

// authorOf is the single place author identity enters a view. Anonymity is
// absolute: no requester, including the author, sees the author fields of
// an anonymous item.
func authorOf(user User, anonymous bool) *AuthorInfo {
	if anonymous {
		return nil
	}
	return &AuthorInfo{
		Username: user.Username,
		QQ:       user.QQ,
		UID:      user.UID,
	}
}

// NewPostSummary builds the masked view of a post. The post must have its
// User association loaded.
func NewPostSummary(post Post) PostSummary {
	return PostSummary{
		ID:        post.ID,
		Title:     post.Title,
		Content:   post.Content,
		Category:  post.Category,
		CreatedAt: post.CreatedAt,
		Anonymous: post.IsAnonymous,
		Author:    authorOf(post.User, post.IsAnonymous),
	}
}

// NewPostSummaries maps posts to masked views preserving order.
func NewPostSummaries(posts []Post) []PostSummary {
	views := make([]PostSummary, 0, len(posts))
	for _, post := range posts {
		views = append(views, NewPostSummary(post))
	}
	return views
}

// NewPostDetail builds the masked detail view of a post and its comments.
func NewPostDetail(post Post, comments []Comment) PostDetail {
	detail := PostDetail{
		PostSummary: NewPostSummary(post),
		Comments:    make([]CommentView, 0, len(comments)),
	}
	for _, comment := range comments {
		detail.Comments = append(detail.Comments, NewCommentView(comment))
	}
	return detail
}

// NewCommentView builds the masked view of a comment. The comment must have
// its User association loaded.
func NewCommentView(comment Comment) CommentView {
	return CommentView{
		ID:        comment.ID,
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt,
		Anonymous: comment.IsAnonymous,
		Author:    authorOf(comment.User, comment.IsAnonymous),
	}
}

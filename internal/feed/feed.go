// Package feed implements the community feed synchronizer: it loads the
// post feed through the platform contract, normalizes the nested join
// shapes into a flat view model, and applies the mutation contract for
// posts, comments, and likes.
//
// The like counter is deliberately optimistic: the in-memory count is
// incremented before the backend write and is not rolled back when the
// write fails. The authoritative count is reconciled on the next Load,
// which always replaces the view model with store state.
package feed

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"fitpulse/internal/loader"
	"fitpulse/internal/notify"
	"fitpulse/internal/platform"
	"fitpulse/internal/session"

	"fitpulse/internal/models"
)

// Author is the flattened profile record attached to posts and comments.
type Author struct {
	FullName  string  `json:"full_name"`
	AvatarURL *string `json:"avatar_url"`
}

// UnknownAuthor substitutes for a to-one author expansion that came back
// empty (e.g. a deleted profile); the shape stays defined either way.
var UnknownAuthor = Author{FullName: "Unknown member"}

// Comment is the view-model record for one comment.
type Comment struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UserID    string    `json:"user_id"`
	Author    Author    `json:"profiles"`
}

// Post is the view-model record for one feed post.
type Post struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	Likes     int       `json:"likes"`
	UserID    string    `json:"user_id"`
	Author    Author    `json:"profiles"`
	Comments  []Comment `json:"comments"`
}

// ErrInFlight is returned when the same action on the same entity is
// already awaiting its backend response.
var ErrInFlight = models.NewValidationError("Action already in progress")

// starterPosts are the placeholder posts seeded into an empty feed,
// attributed to the current identity.
var starterPosts = []struct {
	Content string
	Likes   int
}{
	{"Just completed a 5K run! Feeling great and making progress on my cardio goals.", 12},
	{"Looking for workout partners in the downtown area. Anyone interested in joining for morning sessions?", 5},
	{"What's your favorite post-workout meal? I'm trying to improve my nutrition plan.", 8},
}

// Feed owns one screen's post view model. The lifecycle matches the
// screen's: created empty, filled by Load, patched by the mutators, and
// discarded with the screen. It is safe for concurrent use.
type Feed struct {
	store    platform.Store
	gate     *session.Gate
	notifier notify.Notifier
	logger   *slog.Logger

	mu       sync.Mutex
	posts    []Post
	drafts   map[string]string
	inflight map[string]struct{}
}

// New creates an empty feed bound to the given store, session gate, and
// notifier.
func New(store platform.Store, gate *session.Gate, notifier notify.Notifier, logger *slog.Logger) *Feed {
	return &Feed{
		store:    store,
		gate:     gate,
		notifier: notifier,
		logger:   logger,
		drafts:   make(map[string]string),
		inflight: make(map[string]struct{}),
	}
}

// postQuery is the read request for the author-and-comment-joined feed,
// newest first. Tie-break on equal timestamps is store-defined.
func postQuery() platform.SelectQuery {
	return platform.SelectQuery{
		Relation: "community_posts",
		Columns:  []string{"id", "content", "created_at", "likes", "user_id"},
		Order:    &platform.Order{Column: "created_at", Descending: true},
		Expand: []platform.Expand{
			{Field: "profiles", ToOne: true, Columns: []string{"full_name", "avatar_url"}},
			{Field: "comments", Expand: []platform.Expand{
				{Field: "profiles", ToOne: true, Columns: []string{"full_name", "avatar_url"}},
			}},
		},
	}
}

// Load fetches the feed and replaces the view model with the result.
// An empty store is seeded with the three starter posts attributed to
// the current identity, then refetched once; if the refetch still yields
// nothing the feed is empty. Fetch failures leave an empty feed and are
// not retried.
func (f *Feed) Load(ctx context.Context) ([]Post, error) {
	identity, err := f.requireIdentity()
	if err != nil {
		return nil, err
	}

	result := loader.Load(ctx, loader.Config[Post]{
		Fetch: func(ctx context.Context) ([]platform.Row, error) {
			return f.store.Select(ctx, postQuery())
		},
		Seed: func(ctx context.Context) error {
			return f.seedStarterPosts(ctx, identity.ID)
		},
		Normalize: normalizePost,
	})

	if result.Status == loader.Failed {
		f.logger.Error("feed load failed", slog.String("error", result.Err.Error()))
		f.setPosts(nil)
		return nil, result.Err
	}

	f.setPosts(result.Rows)
	return f.Posts(), nil
}

// CreatePost inserts a new post and prepends the backend-returned,
// author-joined record to the feed. Whitespace-only text is a local
// no-op: no request is issued and nil, nil is returned. There is no
// speculative insert; the UI needs the server-generated id and
// timestamp, so the feed changes only after the backend confirms.
func (f *Feed) CreatePost(ctx context.Context, text string) (*Post, error) {
	identity, err := f.requireIdentity()
	if err != nil {
		return nil, err
	}

	content := strings.TrimSpace(text)
	if content == "" {
		return nil, nil
	}

	if !f.acquire("create_post", "") {
		return nil, ErrInFlight
	}
	defer f.release("create_post", "")

	row, err := f.store.Insert(ctx, "community_posts",
		platform.Row{"content": content, "user_id": identity.ID},
		&platform.Returning{Expand: postQuery().Expand},
	)
	if err != nil {
		f.logger.Error("create post failed", slog.String("error", err.Error()))
		f.notifier.Notify(notify.KindError, "Error", "Failed to create post. Please try again.")
		return nil, err
	}

	post := normalizePost(row)

	f.mu.Lock()
	f.posts = append([]Post{post}, f.posts...)
	f.mu.Unlock()

	f.notifier.Notify(notify.KindSuccess, "Post created!", "Your post has been shared with the community.")
	return &post, nil
}

// AddComment inserts a comment on the given post and appends the
// backend-returned, author-joined record to that post's comment list.
// Whitespace-only text is a local no-op and leaves the draft untouched.
// The draft for the post is cleared only on success.
func (f *Feed) AddComment(ctx context.Context, postID, text string) (*Comment, error) {
	identity, err := f.requireIdentity()
	if err != nil {
		return nil, err
	}

	content := strings.TrimSpace(text)
	if content == "" {
		return nil, nil
	}

	if !f.acquire("comment", postID) {
		return nil, ErrInFlight
	}
	defer f.release("comment", postID)

	row, err := f.store.Insert(ctx, "comments",
		platform.Row{"post_id": postID, "user_id": identity.ID, "content": content},
		&platform.Returning{Expand: []platform.Expand{
			{Field: "profiles", ToOne: true, Columns: []string{"full_name", "avatar_url"}},
		}},
	)
	if err != nil {
		f.logger.Error("add comment failed",
			slog.String("post_id", postID), slog.String("error", err.Error()))
		f.notifier.Notify(notify.KindError, "Error", "Failed to add comment. Please try again.")
		return nil, err
	}

	comment := normalizeComment(row)

	f.mu.Lock()
	for i := range f.posts {
		if f.posts[i].ID == postID {
			f.posts[i].Comments = append(f.posts[i].Comments, comment)
			break
		}
	}
	delete(f.drafts, postID)
	f.mu.Unlock()

	f.notifier.Notify(notify.KindSuccess, "Comment added!", "Your comment has been added to the post.")
	return &comment, nil
}

// LikePost applies a true optimistic increment: the in-memory count goes
// up immediately, then the backend is told to set the count to the
// pre-mutation in-memory value plus one. A failed write keeps the local
// increment (no rollback) and raises exactly one notification; the next
// Load reconciles against the authoritative count.
func (f *Feed) LikePost(ctx context.Context, postID string) error {
	if _, err := f.requireIdentity(); err != nil {
		return err
	}

	if !f.acquire("like", postID) {
		return ErrInFlight
	}
	defer f.release("like", postID)

	f.mu.Lock()
	previous := -1
	for i := range f.posts {
		if f.posts[i].ID == postID {
			previous = f.posts[i].Likes
			f.posts[i].Likes = previous + 1
			break
		}
	}
	f.mu.Unlock()

	if previous < 0 {
		return nil
	}

	if err := f.store.Update(ctx, "community_posts", postID, platform.Row{"likes": previous + 1}); err != nil {
		f.logger.Error("like post failed",
			slog.String("post_id", postID), slog.String("error", err.Error()))
		f.notifier.Notify(notify.KindError, "Error", "Failed to like post. Please try again.")
		return err
	}
	return nil
}

// Posts returns a snapshot of the current view model.
func (f *Feed) Posts() []Post {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Post, len(f.posts))
	copy(out, f.posts)
	return out
}

// SetDraft stores the in-progress comment text for a post.
func (f *Feed) SetDraft(postID, text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.drafts[postID] = text
}

// Draft returns the in-progress comment text for a post.
func (f *Feed) Draft(postID string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.drafts[postID]
}

func (f *Feed) requireIdentity() (session.Identity, error) {
	return session.Require(f.gate)
}

func (f *Feed) seedStarterPosts(ctx context.Context, userID string) error {
	for _, p := range starterPosts {
		if _, err := f.store.Insert(ctx, "community_posts", platform.Row{
			"content": p.Content,
			"likes":   p.Likes,
			"user_id": userID,
		}, nil); err != nil {
			return err
		}
	}
	return nil
}

func (f *Feed) acquire(action, id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := action + ":" + id
	if _, held := f.inflight[key]; held {
		return false
	}
	f.inflight[key] = struct{}{}
	return true
}

func (f *Feed) release(action, id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.inflight, action+":"+id)
}

func (f *Feed) setPosts(posts []Post) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.posts = posts
}

func normalizePost(row platform.Row) Post {
	post := Post{
		ID:        row.String("id"),
		Content:   row.String("content"),
		CreatedAt: rowTime(row, "created_at"),
		Likes:     row.Int("likes"),
		UserID:    row.String("user_id"),
		Author:    normalizeAuthor(row["profiles"]),
	}
	for _, c := range loader.ToMany(row["comments"]) {
		post.Comments = append(post.Comments, normalizeComment(c))
	}
	return post
}

func normalizeComment(row platform.Row) Comment {
	return Comment{
		ID:        row.String("id"),
		Content:   row.String("content"),
		CreatedAt: rowTime(row, "created_at"),
		UserID:    row.String("user_id"),
		Author:    normalizeAuthor(row["profiles"]),
	}
}

func normalizeAuthor(value any) Author {
	row, ok := loader.ToOne(value)
	if !ok {
		return UnknownAuthor
	}
	author := Author{FullName: row.String("full_name")}
	if url, ok := row["avatar_url"].(string); ok && url != "" {
		author.AvatarURL = &url
	}
	return author
}

func rowTime(row platform.Row, column string) time.Time {
	switch v := row[column].(type) {
	case time.Time:
		return v
	case string:
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			return t
		}
	}
	return time.Time{}
}

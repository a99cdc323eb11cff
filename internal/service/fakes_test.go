package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"sync"
	"time"

	"tribune/internal/domain"
	"tribune/internal/domain/models"
	"tribune/internal/domain/repositories"
	"tribune/internal/domain/services"
)

// fakeStore is the in-memory backing for the repository fakes. The thin
// per-interface wrappers below share it, keeping the postgres layer's
// contracts: ErrNotFound sentinels, the FK check on vote creation, upsert
// semantics on flags, and approved-only listings in the repository
// ordering (cached_score DESC, created_at DESC, id DESC).
type fakeStore struct {
	mu       sync.Mutex
	seq      int
	now      time.Time
	comments map[string]*models.Comment
	votes    map[string]*models.CommentVote
	flags    map[string]*models.CommentFlag // keyed by commentID|reporterID
	articles map[string]*models.Article
	users    map[string]models.User
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		now:      time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC),
		comments: make(map[string]*models.Comment),
		votes:    make(map[string]*models.CommentVote),
		flags:    make(map[string]*models.CommentFlag),
		articles: make(map[string]*models.Article),
		users:    make(map[string]models.User),
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

func (f *fakeStore) nextID(prefix string) string {
	f.seq++
	return fmt.Sprintf("%s-%03d", prefix, f.seq)
}

// tick advances the clock so every row gets a distinct created_at and
// the (score, created_at, id) ordering is deterministic in tests.
func (f *fakeStore) tick() time.Time {
	f.now = f.now.Add(time.Second)
	return f.now
}

// Seeding helpers

func (f *fakeStore) addUser(id, username string, staff bool) {
	f.users[id] = models.User{ID: id, Username: username, Email: username + "@example.com", IsStaff: staff}
}

func (f *fakeStore) addArticle(id, title string) {
	f.articles[id] = &models.Article{ID: id, Title: title, URL: "https://news.example.com/" + id}
}

func (f *fakeStore) addComment(articleID, authorID string, parentID *string, content string) *models.Comment {
	f.mu.Lock()
	defer f.mu.Unlock()

	depth := 0
	if parentID != nil {
		depth = f.comments[*parentID].TrueDepth + 1
	}
	ts := f.tick()
	c := &models.Comment{
		ID:         f.nextID("c"),
		ArticleID:  articleID,
		AuthorID:   authorID,
		ParentID:   parentID,
		Content:    content,
		TrueDepth:  depth,
		CreatedAt:  ts,
		UpdatedAt:  ts,
		IsApproved: true,
	}
	f.comments[c.ID] = c
	return copyComment(c)
}

func (f *fakeStore) setScore(id string, score int) {
	f.comments[id].CachedScore = score
}

func (f *fakeStore) flagFor(commentID, reporterID string) *models.CommentFlag {
	return f.flags[commentID+"|"+reporterID]
}

func copyComment(c *models.Comment) *models.Comment {
	cp := *c
	return &cp
}

// fakeCommentRepo implements repositories.CommentRepository.
type fakeCommentRepo struct{ s *fakeStore }

func (r *fakeCommentRepo) Create(ctx context.Context, comment *models.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	ts := r.s.tick()
	comment.ID = r.s.nextID("c")
	comment.CreatedAt = ts
	comment.UpdatedAt = ts
	comment.IsApproved = true
	r.s.comments[comment.ID] = copyComment(comment)
	return nil
}

func (r *fakeCommentRepo) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.comments[id]
	if !ok {
		return nil, &domain.NotFoundError{Message: "comment not found"}
	}
	return copyComment(c), nil
}

func (r *fakeCommentRepo) UpdateContent(ctx context.Context, comment *models.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.comments[comment.ID]
	if !ok {
		return &domain.NotFoundError{Message: "comment not found"}
	}
	ts := r.s.tick()
	c.Content = comment.Content
	c.IsEdited = true
	c.EditedAt = &ts
	c.UpdatedAt = ts
	comment.IsEdited = true
	comment.EditedAt = &ts
	comment.UpdatedAt = ts
	return nil
}

func (r *fakeCommentRepo) SetDeletedByAuthor(ctx context.Context, id string, deleted bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.comments[id]
	if !ok {
		return &domain.NotFoundError{Message: "comment not found"}
	}
	c.IsDeletedByAuthor = deleted
	return nil
}

func (r *fakeCommentRepo) SetModerationRemoved(ctx context.Context, id string, removed bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.comments[id]
	if !ok {
		return &domain.NotFoundError{Message: "comment not found"}
	}
	c.IsRemovedByModerator = removed
	return nil
}

func (r *fakeCommentRepo) ListTopLevel(ctx context.Context, articleID string, limit, offset int) ([]models.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []models.Comment
	for _, c := range r.s.comments {
		if c.ArticleID == articleID && c.ParentID == nil && c.IsApproved {
			out = append(out, *c)
		}
	}
	sortListing(out)
	return pageOf(out, limit, offset), nil
}

func (r *fakeCommentRepo) CountTopLevel(ctx context.Context, articleID string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	n := 0
	for _, c := range r.s.comments {
		if c.ArticleID == articleID && c.ParentID == nil && c.IsApproved {
			n++
		}
	}
	return n, nil
}

func (r *fakeCommentRepo) ListReplies(ctx context.Context, parentID string, limit, offset int) ([]models.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []models.Comment
	for _, c := range r.s.comments {
		if c.ParentID != nil && *c.ParentID == parentID && c.IsApproved {
			out = append(out, *c)
		}
	}
	sortListing(out)
	return pageOf(out, limit, offset), nil
}

func (r *fakeCommentRepo) CountReplies(ctx context.Context, parentID string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	n := 0
	for _, c := range r.s.comments {
		if c.ParentID != nil && *c.ParentID == parentID && c.IsApproved {
			n++
		}
	}
	return n, nil
}

func (r *fakeCommentRepo) ListChildrenOf(ctx context.Context, parentIDs []string) ([]models.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	parents := make(map[string]bool, len(parentIDs))
	for _, id := range parentIDs {
		parents[id] = true
	}
	var out []models.Comment
	for _, c := range r.s.comments {
		if c.ParentID != nil && parents[*c.ParentID] && c.IsApproved {
			out = append(out, *c)
		}
	}
	sortListing(out)
	return out, nil
}

func (r *fakeCommentRepo) CountChildrenFor(ctx context.Context, parentIDs []string) (map[string]int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	parents := make(map[string]bool, len(parentIDs))
	for _, id := range parentIDs {
		parents[id] = true
	}
	counts := make(map[string]int)
	for _, c := range r.s.comments {
		if c.ParentID != nil && parents[*c.ParentID] && c.IsApproved {
			counts[*c.ParentID]++
		}
	}
	return counts, nil
}

func (r *fakeCommentRepo) AddScore(ctx context.Context, id string, delta int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.comments[id]
	if !ok {
		return &domain.NotFoundError{Message: "comment not found"}
	}
	c.CachedScore += delta
	return nil
}

func (r *fakeCommentRepo) GetScore(ctx context.Context, id string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.comments[id]
	if !ok {
		return 0, &domain.NotFoundError{Message: "comment not found"}
	}
	return c.CachedScore, nil
}

// fakeVoteRepo implements repositories.VoteRepository.
type fakeVoteRepo struct{ s *fakeStore }

func (r *fakeVoteRepo) Get(ctx context.Context, commentID, authorID string) (*models.CommentVote, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, v := range r.s.votes {
		if v.CommentID == commentID && v.AuthorID == authorID {
			cp := *v
			return &cp, nil
		}
	}
	return nil, &domain.NotFoundError{Message: "vote not found"}
}

func (r *fakeVoteRepo) Create(ctx context.Context, vote *models.CommentVote) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	// Mirror the FK constraint on comment_id.
	if _, ok := r.s.comments[vote.CommentID]; !ok {
		return &domain.NotFoundError{Message: "comment not found"}
	}
	ts := r.s.tick()
	vote.ID = r.s.nextID("v")
	vote.CreatedAt = ts
	vote.UpdatedAt = ts
	cp := *vote
	r.s.votes[vote.ID] = &cp
	return nil
}

func (r *fakeVoteRepo) UpdateValue(ctx context.Context, id string, value int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	v, ok := r.s.votes[id]
	if !ok {
		return &domain.NotFoundError{Message: "vote not found"}
	}
	v.Value = value
	v.UpdatedAt = r.s.tick()
	return nil
}

func (r *fakeVoteRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.votes[id]; !ok {
		return &domain.NotFoundError{Message: "vote not found"}
	}
	delete(r.s.votes, id)
	return nil
}

func (r *fakeVoteRepo) ValuesForComments(ctx context.Context, authorID string, commentIDs []string) (map[string]int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	wanted := make(map[string]bool, len(commentIDs))
	for _, id := range commentIDs {
		wanted[id] = true
	}
	values := make(map[string]int)
	for _, v := range r.s.votes {
		if v.AuthorID == authorID && wanted[v.CommentID] {
			values[v.CommentID] = v.Value
		}
	}
	return values, nil
}

// fakeFlagRepo implements repositories.FlagRepository.
type fakeFlagRepo struct{ s *fakeStore }

func (r *fakeFlagRepo) Upsert(ctx context.Context, flag *models.CommentFlag) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key := flag.CommentID + "|" + flag.ReporterID
	ts := r.s.tick()
	if existing, ok := r.s.flags[key]; ok {
		existing.Reason = flag.Reason
		existing.Note = flag.Note
		existing.UpdatedAt = ts
		return nil
	}
	flag.ID = r.s.nextID("fl")
	flag.CreatedAt = ts
	flag.UpdatedAt = ts
	cp := *flag
	r.s.flags[key] = &cp
	return nil
}

// fakeArticleRepo implements repositories.ArticleRepository.
type fakeArticleRepo struct{ s *fakeStore }

func (r *fakeArticleRepo) GetByID(ctx context.Context, id string) (*models.Article, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a, ok := r.s.articles[id]
	if !ok {
		return nil, &domain.NotFoundError{Message: "article not found"}
	}
	cp := *a
	return &cp, nil
}

// fakeUserRepo implements repositories.UserRepository.
type fakeUserRepo struct{ s *fakeStore }

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, &domain.NotFoundError{Message: "user not found"}
	}
	return &u, nil
}

func (r *fakeUserRepo) GetManyByIDs(ctx context.Context, ids []string) (map[string]models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := make(map[string]models.User, len(ids))
	for _, id := range ids {
		if u, ok := r.s.users[id]; ok {
			out[id] = u
		}
	}
	return out, nil
}

// fakeTxManager runs the function directly; the fakes are already atomic
// per call, which is enough for service-level tests.
type fakeTxManager struct{}

func (m *fakeTxManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	return fn(ctx)
}

// Listing helpers matching the repository ordering contract.

func sortListing(comments []models.Comment) {
	sort.Slice(comments, func(i, j int) bool {
		a, b := comments[i], comments[j]
		if a.CachedScore != b.CachedScore {
			return a.CachedScore > b.CachedScore
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})
}

func pageOf(comments []models.Comment, limit, offset int) []models.Comment {
	if offset >= len(comments) {
		return nil
	}
	end := offset + limit
	if end > len(comments) {
		end = len(comments)
	}
	return comments[offset:end]
}

// recordingNotifier captures reply notifications for assertions.
type recordingNotifier struct {
	mu   sync.Mutex
	sent []*services.ReplyNotification
}

func (n *recordingNotifier) NotifyReply(notification *services.ReplyNotification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, notification)
}

func (n *recordingNotifier) notifications() []*services.ReplyNotification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]*services.ReplyNotification(nil), n.sent...)
}

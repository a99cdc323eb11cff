package service

import (
	"context"
	"log/slog"

	"tribune/internal/config"
	"tribune/internal/domain/models"
	"tribune/internal/domain/repositories"
	"tribune/internal/domain/services"
)

type threadService struct {
	commentRepo repositories.CommentRepository
	voteRepo    repositories.VoteRepository
	userRepo    repositories.UserRepository
	logger      *slog.Logger
}

// NewThreadService creates a new thread service
func NewThreadService(
	commentRepo repositories.CommentRepository,
	voteRepo repositories.VoteRepository,
	userRepo repositories.UserRepository,
	logger *slog.Logger,
) services.ThreadService {
	return &threadService{
		commentRepo: commentRepo,
		voteRepo:    voteRepo,
		userRepo:    userRepo,
		logger:      logger,
	}
}

// ListArticleComments returns one page of an article's top-level comments
// with their prefetched descendants assembled into nested nodes.
func (s *threadService) ListArticleComments(ctx context.Context, articleID string, page int, viewer *services.Caller) (*services.CommentPage, error) {
	count, err := s.commentRepo.CountTopLevel(ctx, articleID)
	if err != nil {
		return nil, err
	}

	page, numPages, offset := paginate(page, count, config.TopLevelPageSize)

	roots, err := s.commentRepo.ListTopLevel(ctx, articleID, config.TopLevelPageSize, offset)
	if err != nil {
		return nil, err
	}

	results, err := s.assemble(ctx, roots, "", viewer)
	if err != nil {
		return nil, err
	}

	return &services.CommentPage{
		Count:    count,
		NumPages: numPages,
		Page:     page,
		Results:  results,
	}, nil
}

// ListReplies returns one page of a comment's direct children, assembled
// the same way as the top-level listing so a thread can be fetched
// starting at any node.
func (s *threadService) ListReplies(ctx context.Context, parentID string, page int, viewer *services.Caller) (*services.CommentPage, error) {
	parent, err := s.commentRepo.GetByID(ctx, parentID)
	if err != nil {
		return nil, err
	}

	count, err := s.commentRepo.CountReplies(ctx, parentID)
	if err != nil {
		return nil, err
	}

	page, numPages, offset := paginate(page, count, config.ReplyPageSize)

	roots, err := s.commentRepo.ListReplies(ctx, parentID, config.ReplyPageSize, offset)
	if err != nil {
		return nil, err
	}

	// The page roots' parent is not part of the loaded set, so resolve
	// its author's username up front for their parent_username field.
	parentAuthor, err := s.userRepo.GetByID(ctx, parent.AuthorID)
	if err != nil {
		return nil, err
	}

	results, err := s.assemble(ctx, roots, parentAuthor.Username, viewer)
	if err != nil {
		return nil, err
	}

	return &services.CommentPage{
		Count:    count,
		NumPages: numPages,
		Page:     page,
		Results:  results,
	}, nil
}

// assemble loads descendants of roots breadth-first for a bounded number
// of iterations, then serializes the loaded subtrees with the visibility
// overlay, the viewer's votes, and per-node reply counts.
//
// The iteration bound caps the traversal cost on pathologically deep
// threads; anything deeper stays in storage with an accurate reply_count
// so clients can page it in through ListReplies.
func (s *threadService) assemble(ctx context.Context, roots []models.Comment, rootParentUsername string, viewer *services.Caller) ([]*services.CommentNode, error) {
	loaded := make([]models.Comment, 0, len(roots))
	loaded = append(loaded, roots...)

	childrenByParent := make(map[string][]models.Comment)
	frontier := commentIDs(roots)

	for i := 0; i < config.PrefetchDepthIterations && len(frontier) > 0; i++ {
		children, err := s.commentRepo.ListChildrenOf(ctx, frontier)
		if err != nil {
			return nil, err
		}

		frontier = frontier[:0]
		for _, child := range children {
			childrenByParent[*child.ParentID] = append(childrenByParent[*child.ParentID], child)
			frontier = append(frontier, child.ID)
		}
		loaded = append(loaded, children...)
	}

	allIDs := commentIDs(loaded)

	replyCounts, err := s.commentRepo.CountChildrenFor(ctx, allIDs)
	if err != nil {
		return nil, err
	}

	authorIDs := make([]string, 0, len(loaded))
	seen := make(map[string]bool, len(loaded))
	for _, c := range loaded {
		if !seen[c.AuthorID] {
			seen[c.AuthorID] = true
			authorIDs = append(authorIDs, c.AuthorID)
		}
	}
	users, err := s.userRepo.GetManyByIDs(ctx, authorIDs)
	if err != nil {
		return nil, err
	}

	votes := map[string]int{}
	if viewer != nil {
		votes, err = s.voteRepo.ValuesForComments(ctx, viewer.ID, allIDs)
		if err != nil {
			return nil, err
		}
	}

	byID := make(map[string]*models.Comment, len(loaded))
	for i := range loaded {
		byID[loaded[i].ID] = &loaded[i]
	}

	var build func(c *models.Comment) *services.CommentNode
	build = func(c *models.Comment) *services.CommentNode {
		node := s.serialize(c, viewer, users, votes, replyCounts)

		if c.ParentID == nil {
			node.ParentUsername = ""
		} else if parent, ok := byID[*c.ParentID]; ok {
			node.ParentUsername = users[parent.AuthorID].Username
		} else {
			node.ParentUsername = rootParentUsername
		}

		for _, child := range childrenByParent[c.ID] {
			node.Replies = append(node.Replies, build(byID[child.ID]))
		}
		return node
	}

	results := make([]*services.CommentNode, 0, len(roots))
	for i := range roots {
		results = append(results, build(byID[roots[i].ID]))
	}

	return results, nil
}

// serialize applies the visibility overlay: tombstoned content when
// deleted or removed, permission flags for the viewer, verbatim score,
// vote, and reply count.
func (s *threadService) serialize(
	c *models.Comment,
	viewer *services.Caller,
	users map[string]models.User,
	votes map[string]int,
	replyCounts map[string]int,
) *services.CommentNode {
	isAuthor := viewer != nil && viewer.ID == c.AuthorID
	isStaff := viewer != nil && viewer.IsStaff

	return &services.CommentNode{
		ID:                   c.ID,
		ArticleID:            c.ArticleID,
		Author:               services.CommentAuthor{ID: c.AuthorID, Username: users[c.AuthorID].Username},
		ParentID:             c.ParentID,
		Content:              c.VisibleContent(),
		TrueDepth:            c.TrueDepth,
		CreatedAt:            c.CreatedAt,
		UpdatedAt:            c.UpdatedAt,
		EditedAt:             c.EditedAt,
		IsEdited:             c.IsEdited,
		IsRemovedByModerator: c.IsRemovedByModerator,
		IsDeletedByAuthor:    c.IsDeletedByAuthor,
		IsApproved:           c.IsApproved,
		Score:                c.CachedScore,
		UserVote:             votes[c.ID],
		CanEdit:              isAuthor && !c.IsRemovedByModerator,
		CanDelete:            isAuthor || isStaff,
		CanModerate:          isStaff,
		Replies:              []*services.CommentNode{},
		ReplyCount:           replyCounts[c.ID],
	}
}

// paginate clamps page into range and returns (page, numPages, offset).
// An empty result set still has one (empty) page.
func paginate(page, count, pageSize int) (int, int, int) {
	numPages := (count + pageSize - 1) / pageSize
	if numPages == 0 {
		numPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > numPages {
		page = numPages
	}
	return page, numPages, (page - 1) * pageSize
}

func commentIDs(comments []models.Comment) []string {
	ids := make([]string, len(comments))
	for i := range comments {
		ids[i] = comments[i].ID
	}
	return ids
}

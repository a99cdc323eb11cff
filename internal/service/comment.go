package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"tribune/internal/config"
	"tribune/internal/domain"
	"tribune/internal/domain/models"
	"tribune/internal/domain/repositories"
	"tribune/internal/domain/services"
	"tribune/internal/flagging"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type commentService struct {
	commentRepo repositories.CommentRepository
	articleRepo repositories.ArticleRepository
	userRepo    repositories.UserRepository
	flagRepo    repositories.FlagRepository
	reasons     *flagging.Registry
	notifier    services.Notifier
	logger      *slog.Logger
}

// NewCommentService creates a new comment service
func NewCommentService(
	commentRepo repositories.CommentRepository,
	articleRepo repositories.ArticleRepository,
	userRepo repositories.UserRepository,
	flagRepo repositories.FlagRepository,
	reasons *flagging.Registry,
	notifier services.Notifier,
	logger *slog.Logger,
) services.CommentService {
	return &commentService{
		commentRepo: commentRepo,
		articleRepo: articleRepo,
		userRepo:    userRepo,
		flagRepo:    flagRepo,
		reasons:     reasons,
		notifier:    notifier,
		logger:      logger,
	}
}

// CreateTopLevel creates a depth-0 comment on an article
func (s *commentService) CreateTopLevel(ctx context.Context, req *services.CreateCommentRequest) (*models.Comment, error) {
	content, err := validateContent(req.Content)
	if err != nil {
		return nil, err
	}

	// Article lookup only validates existence; articles are an external
	// collaborator as far as the comment engine is concerned.
	if _, err := s.articleRepo.GetByID(ctx, req.ArticleID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		ArticleID: req.ArticleID,
		AuthorID:  req.Caller.ID,
		Content:   content,
		TrueDepth: 0,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	s.logger.Info("comment created",
		"id", comment.ID,
		"article_id", comment.ArticleID,
		"author_id", comment.AuthorID,
	)

	return comment, nil
}

// CreateReply creates a child comment. Depth is exact and uncapped: a
// reply is accepted at any nesting level, only rendering is capped.
func (s *commentService) CreateReply(ctx context.Context, req *services.CreateReplyRequest) (*models.Comment, error) {
	content, err := validateContent(req.Content)
	if err != nil {
		return nil, err
	}

	parent, err := s.commentRepo.GetByID(ctx, req.ParentID)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{
		ArticleID: parent.ArticleID, // invariant: replies inherit the article
		AuthorID:  req.Caller.ID,
		ParentID:  &parent.ID,
		Content:   content,
		TrueDepth: parent.TrueDepth + 1,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	s.logger.Info("reply created",
		"id", comment.ID,
		"parent_id", parent.ID,
		"true_depth", comment.TrueDepth,
	)

	s.notifyParentAuthor(ctx, parent, comment, req.Caller)

	return comment, nil
}

// notifyParentAuthor tells the parent comment's author someone replied.
// Best-effort: lookup failures are logged and the reply succeeds anyway.
func (s *commentService) notifyParentAuthor(ctx context.Context, parent, reply *models.Comment, caller *services.Caller) {
	if parent.AuthorID == caller.ID {
		return
	}

	recipient, err := s.userRepo.GetByID(ctx, parent.AuthorID)
	if err != nil {
		s.logger.Warn("skipping reply notification: recipient lookup failed",
			"parent_id", parent.ID, "error", err)
		return
	}

	article, err := s.articleRepo.GetByID(ctx, parent.ArticleID)
	if err != nil {
		s.logger.Warn("skipping reply notification: article lookup failed",
			"article_id", parent.ArticleID, "error", err)
		return
	}

	excerpt := truncateRunes(reply.Content, config.NotifyExcerptLength)

	s.notifier.NotifyReply(&services.ReplyNotification{
		RecipientEmail:    recipient.Email,
		RecipientUsername: recipient.Username,
		ReplierUsername:   caller.Username,
		ArticleID:         article.ID,
		ArticleTitle:      article.Title,
		Excerpt:           excerpt,
	})
}

// Edit rewrites a comment's content
func (s *commentService) Edit(ctx context.Context, req *services.EditCommentRequest) (*models.Comment, error) {
	content, err := validateContent(req.Content)
	if err != nil {
		return nil, err
	}

	comment, err := s.commentRepo.GetByID(ctx, req.CommentID)
	if err != nil {
		return nil, err
	}

	if comment.AuthorID != req.Caller.ID {
		return nil, &domain.ForbiddenError{Message: "only the author may edit a comment"}
	}
	// Moderator removal blocks author edits; self-deletion does not,
	// since self-delete is not reversible through editing anyway.
	if comment.IsRemovedByModerator {
		return nil, &domain.ForbiddenError{Message: "cannot edit a comment removed by a moderator"}
	}

	comment.Content = content
	if err := s.commentRepo.UpdateContent(ctx, comment); err != nil {
		return nil, err
	}

	s.logger.Info("comment edited", "id", comment.ID, "author_id", comment.AuthorID)

	return comment, nil
}

// Delete soft-deletes: a flag flip, never a row removal
func (s *commentService) Delete(ctx context.Context, commentID string, caller *services.Caller) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}

	if comment.AuthorID != caller.ID && !caller.IsStaff {
		return nil, &domain.ForbiddenError{Message: "only the author or staff may delete a comment"}
	}

	if err := s.commentRepo.SetDeletedByAuthor(ctx, commentID, true); err != nil {
		return nil, err
	}
	comment.IsDeletedByAuthor = true

	s.logger.Info("comment soft-deleted", "id", commentID, "by", caller.ID)

	return comment, nil
}

// Moderate sets or clears moderator removal. Idempotent; the staff check
// happens in the handler so the service stays caller-agnostic.
func (s *commentService) Moderate(ctx context.Context, commentID string, remove bool) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}

	if err := s.commentRepo.SetModerationRemoved(ctx, commentID, remove); err != nil {
		return nil, err
	}
	comment.IsRemovedByModerator = remove

	s.logger.Info("comment moderated", "id", commentID, "removed", remove)

	return comment, nil
}

// Flag records a report with upsert semantics on (comment, reporter)
func (s *commentService) Flag(ctx context.Context, req *services.FlagCommentRequest) error {
	reason := req.Reason
	if reason == "" {
		reason = "other"
	}
	if !s.reasons.Valid(reason) {
		return &domain.ValidationError{Message: fmt.Sprintf("unknown flag reason %q", reason)}
	}

	note := truncateRunes(req.Note, config.MaxFlagNoteLength)

	if _, err := s.commentRepo.GetByID(ctx, req.CommentID); err != nil {
		return err
	}

	flag := &models.CommentFlag{
		CommentID:  req.CommentID,
		ReporterID: req.Caller.ID,
		Reason:     reason,
		Note:       note,
	}
	if err := s.flagRepo.Upsert(ctx, flag); err != nil {
		return err
	}

	s.logger.Info("comment flagged", "id", req.CommentID, "reason", reason)

	return nil
}

// truncateRunes caps s at max runes, never splitting a multi-byte
// character.
func truncateRunes(s string, max int) string {
	if runes := []rune(s); len(runes) > max {
		return string(runes[:max])
	}
	return s
}

// validateContent trims and validates a comment body. Bodies are opaque
// text: no markup processing, just presence and length.
func validateContent(content string) (string, error) {
	trimmed := strings.TrimSpace(content)
	err := validation.Validate(trimmed,
		validation.Required.Error("content is required"),
		validation.RuneLength(1, config.MaxCommentLength).Error(
			fmt.Sprintf("content exceeds %d characters", config.MaxCommentLength)),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	return trimmed, nil
}

package handler

import (
	"time"

	"tribune/internal/domain/models"
)

// commentResponse is the single-comment payload returned by the mutating
// endpoints. Listing endpoints return fully assembled tree nodes instead.
type commentResponse struct {
	ID                   string     `json:"id"`
	ArticleID            string     `json:"article_id"`
	ParentID             *string    `json:"parent_id"`
	AuthorID             string     `json:"author_id"`
	Content              string     `json:"content"`
	TrueDepth            int        `json:"true_depth"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
	EditedAt             *time.Time `json:"edited_at"`
	IsEdited             bool       `json:"is_edited"`
	IsRemovedByModerator bool       `json:"is_removed_by_moderator"`
	IsDeletedByAuthor    bool       `json:"is_deleted_by_author"`
	Score                int        `json:"score"`
}

// newCommentResponse applies the visibility overlay, same as the tree
// serializer: tombstoned comments never leak their stored content.
func newCommentResponse(c *models.Comment) commentResponse {
	return commentResponse{
		ID:                   c.ID,
		ArticleID:            c.ArticleID,
		ParentID:             c.ParentID,
		AuthorID:             c.AuthorID,
		Content:              c.VisibleContent(),
		TrueDepth:            c.TrueDepth,
		CreatedAt:            c.CreatedAt,
		UpdatedAt:            c.UpdatedAt,
		EditedAt:             c.EditedAt,
		IsEdited:             c.IsEdited,
		IsRemovedByModerator: c.IsRemovedByModerator,
		IsDeletedByAuthor:    c.IsDeletedByAuthor,
		Score:                c.CachedScore,
	}
}

// commentEnvelope wraps single-comment responses.
type commentEnvelope struct {
	Comment commentResponse `json:"comment"`
}

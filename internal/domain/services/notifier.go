package services

// ReplyNotification carries everything the notification collaborator
// needs to tell a comment author somebody replied.
type ReplyNotification struct {
	RecipientEmail    string
	RecipientUsername string
	ReplierUsername   string
	ArticleID         string
	ArticleTitle      string
	Excerpt           string
}

// Notifier delivers reply notifications best-effort: implementations run
// asynchronously, log failures, and never propagate errors back into the
// request that triggered them.
type Notifier interface {
	NotifyReply(n *ReplyNotification)
}

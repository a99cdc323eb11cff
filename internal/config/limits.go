package config

import "time"

// Comment engine knobs. Display depth is advisory only: storage tracks
// true depth exactly, and clients use the cap to decide when to switch
// from nested indentation to parent_username-annotated flat rendering.
const (
	TopLevelPageSize        = 10
	ReplyPageSize           = 10
	PrefetchDepthIterations = 20
	DisplayDepthCap         = 5

	MaxCommentLength  = 5000
	MaxFlagNoteLength = 255

	// Throttle windows per action kind.
	CreateWindow = 10 * time.Second
	ReplyWindow  = 10 * time.Second
	VoteWindow   = 3 * time.Second

	// Excerpt length included in reply notification emails.
	NotifyExcerptLength = 500
)

package project

import "errors"

var (
	ErrProjectNotFound      = errors.New("project not found")
	ErrHistoryOutOfOrder    = errors.New("history entry out of order: CREATED must be the first and only initial entry")
	ErrHistorySequenceTaken = errors.New("history sequence already taken by a concurrent change")
	ErrTeamMemberNotFound   = errors.New("team member not found")
)

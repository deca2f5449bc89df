package services

import apperrors "github.com/mimirlabs/mimir/pkg/errors"

// Not-found sentinels per collection. All carry KindNotFound so callers can
// match either the specific sentinel or the kind.
var (
	ErrUserNotFound      = apperrors.NewNotFound("User not found")
	ErrProjectNotFound   = apperrors.NewNotFound("Project not found")
	ErrWikiEntryNotFound = apperrors.NewNotFound("Wiki entry not found")
	ErrNoteNotFound      = apperrors.NewNotFound("Note not found")
	ErrCommentNotFound   = apperrors.NewNotFound("Comment not found")
	ErrSqlScriptNotFound = apperrors.NewNotFound("SQL script not found")
)

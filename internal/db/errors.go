package db

import "errors"

// Domain-level database error sentinels.
var (
	ErrSearchRecordNotFound = errors.New("search record not found")
	ErrDuplicatePhrase      = errors.New("phrase already exists")
)

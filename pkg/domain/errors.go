package domain

import "errors"

// ErrUnknownAction is returned when a script action has a kind other than expect or send.
var ErrUnknownAction = errors.New("unknown action")

// ErrEmptyActionText is returned when a script action carries no text.
var ErrEmptyActionText = errors.New("action text must not be empty")

// ErrTranscriptNotFound is returned when a transcript ID cannot be found in the store.
var ErrTranscriptNotFound = errors.New("transcript not found")

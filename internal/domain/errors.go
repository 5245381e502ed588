package domain

import "errors"

var (
	// ErrLeagueNotFound is returned when a league id does not resolve.
	ErrLeagueNotFound = errors.New("league not found")
	// ErrParticipantNotFound is returned when a participant is not part of the league.
	ErrParticipantNotFound = errors.New("participant not found in league")
	// ErrQuestionSetNotFound indicates the question set could not be loaded.
	ErrQuestionSetNotFound = errors.New("question set not found")
	// ErrQuestionNotFound indicates a submitted question ID is not part of the set.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrInvalidAnswer indicates an answer that cannot be mapped onto the question.
	ErrInvalidAnswer = errors.New("invalid answer")
	// ErrInvalidDisplayName is returned for names outside the allowed length.
	ErrInvalidDisplayName = errors.New("display name must be 3 to 15 characters")
	// ErrDuplicateDisplayName is returned when the name is already taken in the league.
	ErrDuplicateDisplayName = errors.New("display name already taken in league")
	// ErrNotManager is returned when a non-manager attempts a manager action.
	ErrNotManager = errors.New("only the league manager can do that")
)

// ErrManagerRemoval is returned when a manager tries to remove themselves.
var ErrManagerRemoval = errors.New("league manager cannot be removed")

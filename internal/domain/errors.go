package domain

import "errors"

var (
	// ErrProfileNotFound is returned when no profile row exists for a user yet.
	ErrProfileNotFound = errors.New("profile not found")
	// ErrAccountNotFound is returned when credentials reference an unknown account.
	ErrAccountNotFound = errors.New("account not found")
	// ErrEmailTaken is returned on sign-up with an already registered email.
	ErrEmailTaken = errors.New("an account with this email already exists")
	// ErrInvalidCredentials covers every failed sign-in; the cause is deliberately
	// not distinguished for callers.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrInvalidToken is returned when a bearer token cannot be verified.
	ErrInvalidToken = errors.New("invalid or expired token")
	// ErrSubjectNotFound indicates an unknown quiz or game subject key.
	ErrSubjectNotFound = errors.New("subject not found")
	// ErrNoQuestions indicates a subject with an empty question catalog.
	ErrNoQuestions = errors.New("subject has no questions")
	// ErrNoActiveSession is returned when a user acts on a quiz or game they
	// never started (or that was replaced by a newer one).
	ErrNoActiveSession = errors.New("no active session")
)

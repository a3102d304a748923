package session

// AuthenticationError is returned when the login collaborator rejects the
// attempt or cannot be reached.
type AuthenticationError struct {
	Message string
	Err     error
}

func (e *AuthenticationError) Error() string {
	return e.Message
}

func (e *AuthenticationError) Unwrap() error {
	return e.Err
}

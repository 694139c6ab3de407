package email

// Email is a single outbound message.
type Email struct {
	To      []string
	Subject string
	Body    string
}

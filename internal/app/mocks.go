package app

import "healthtrack_backend/internal/email"

// NoopEmailProvider is used for local development when SMTP is not configured.
type NoopEmailProvider struct{}

func (m *NoopEmailProvider) Send(email *email.Email) error { return nil }

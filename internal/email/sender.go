// Package email delivers the verification codes sent at registration.
package email

// Sender delivers a message with both HTML and plain-text bodies. The
// recipient gets them as multipart/alternative.
type Sender interface {
	Send(to, subject, htmlBody, textBody string) error
}

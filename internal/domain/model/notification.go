package model

import "fmt"

const CredentialsEmailSubject = "Your E-Commerce Account Credentials"

// CredentialsNotification is the outbound message carrying freshly issued
// credentials to the registrant. The PIN travels in plaintext.
type CredentialsNotification struct {
	To       string `json:"to"`
	FullName string `json:"full_name"`
	UserID   string `json:"user_id"`
	PIN      string `json:"pin"`
}

func (n CredentialsNotification) Subject() string {
	return CredentialsEmailSubject
}

func (n CredentialsNotification) Body() string {
	return fmt.Sprintf("Hello %s,\nUser ID: %s\nPIN: %s", n.FullName, n.UserID, n.PIN)
}

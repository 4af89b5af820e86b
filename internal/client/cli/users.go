package cli

import (
	"context"
	"fmt"
)

// Users lists everyone registered on the server.
func (a *App) Users(ctx context.Context) error {
	users, err := a.apiClient.Users(ctx)
	if err != nil {
		printlnFn(err.Error())
		return err
	}

	for _, u := range users {
		printlnFn(fmt.Sprintf("%s  %s %s  %s", u.Username, u.FirstName, u.LastName, u.Phone))
	}
	return nil
}

// Whois shows one user's profile.
func (a *App) Whois(ctx context.Context, username string) error {
	u, err := a.apiClient.User(ctx, username)
	if err != nil {
		printlnFn(err.Error())
		return err
	}

	printlnFn(fmt.Sprintf("%s  %s %s  %s", u.Username, u.FirstName, u.LastName, u.Phone))
	printlnFn(fmt.Sprintf("joined %s, last login %s",
		u.JoinAt.Format("2006-01-02 15:04"), u.LastLoginAt.Format("2006-01-02 15:04")))
	return nil
}

// Inbox lists messages sent to the logged-in user.
func (a *App) Inbox(ctx context.Context) error {
	messages, err := a.apiClient.Inbox(ctx, a.userName)
	if err != nil {
		printlnFn(err.Error())
		return err
	}

	for _, m := range messages {
		status := "unread"
		if m.ReadAt != nil {
			status = "read"
		}
		printlnFn(fmt.Sprintf("#%d  from %s  %s  [%s]  %s",
			m.ID, m.From.Username, m.SentAt.Format("2006-01-02 15:04"), status, m.Body))
	}
	return nil
}

// Outbox lists messages sent by the logged-in user.
func (a *App) Outbox(ctx context.Context) error {
	messages, err := a.apiClient.Outbox(ctx, a.userName)
	if err != nil {
		printlnFn(err.Error())
		return err
	}

	for _, m := range messages {
		status := "unread"
		if m.ReadAt != nil {
			status = "read"
		}
		printlnFn(fmt.Sprintf("#%d  to %s  %s  [%s]  %s",
			m.ID, m.To.Username, m.SentAt.Format("2006-01-02 15:04"), status, m.Body))
	}
	return nil
}

package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
)

// Send interactively composes and sends a message.
func (a *App) Send(ctx context.Context) error {

	toUsername, err := GetSimpleText(a.reader, "Enter recipient user name", os.Stdout)
	if err != nil {
		printlnFn(err.Error())
		return err
	}

	body, err := GetMultiline(a.reader, "Enter message", os.Stdout)
	if err != nil {
		printlnFn(err.Error())
		return err
	}

	m, err := a.apiClient.Send(ctx, toUsername, body)
	if err != nil {
		printlnFn(err.Error())
		return err
	}

	printlnFn(fmt.Sprintf("Sent #%d to %s", m.ID, m.ToUsername))
	return nil
}

// Show fetches a single message by id.
func (a *App) Show(ctx context.Context, id string) error {

	messageID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		printlnFn("Invalid message id:", id)
		return err
	}

	m, err := a.apiClient.Message(ctx, messageID)
	if err != nil {
		printlnFn(err.Error())
		return err
	}

	printlnFn(fmt.Sprintf("#%d  from %s  to %s  %s",
		m.ID, m.From.Username, m.To.Username, m.SentAt.Format("2006-01-02 15:04")))
	if m.ReadAt != nil {
		printlnFn("read at", m.ReadAt.Format("2006-01-02 15:04"))
	}
	printlnFn(m.Body)
	return nil
}

// Read marks a received message as read.
func (a *App) Read(ctx context.Context, id string) error {

	messageID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		printlnFn("Invalid message id:", id)
		return err
	}

	m, err := a.apiClient.MarkRead(ctx, messageID)
	if err != nil {
		printlnFn(err.Error())
		return err
	}

	printlnFn(fmt.Sprintf("Marked #%d read at %s", m.ID, m.ReadAt.Format("2006-01-02 15:04")))
	return nil
}

package cli

import (
	"context"
	"os"

	"github.com/dmitrijs2005/messagely/internal/client/client"
)

// Register interactively collects account details and creates the account.
// On success the returned token is kept for subsequent commands.
func (a *App) Register(ctx context.Context) error {

	username, err := GetSimpleText(a.reader, "Enter user name", os.Stdout)
	if err != nil {
		printlnFn(err.Error())
		return err
	}

	password, err := GetPassword(os.Stdout)
	if err != nil {
		printlnFn(err.Error())
		return err
	}

	firstName, err := GetSimpleText(a.reader, "Enter first name", os.Stdout)
	if err != nil {
		printlnFn(err.Error())
		return err
	}

	lastName, err := GetSimpleText(a.reader, "Enter last name", os.Stdout)
	if err != nil {
		printlnFn(err.Error())
		return err
	}

	phone, err := GetSimpleText(a.reader, "Enter phone", os.Stdout)
	if err != nil {
		printlnFn(err.Error())
		return err
	}

	err = a.apiClient.Register(ctx, client.RegisterParams{
		Username:  username,
		Password:  string(password),
		FirstName: firstName,
		LastName:  lastName,
		Phone:     phone,
	})
	if err != nil {
		printlnFn(err.Error())
		return err
	}

	a.userName = username
	printlnFn("Success!")
	return nil
}

// Login authenticates and keeps the token for subsequent commands.
func (a *App) Login(ctx context.Context) error {

	username, err := GetSimpleText(a.reader, "Enter user name", os.Stdout)
	if err != nil {
		printlnFn(err.Error())
		return err
	}

	password, err := GetPassword(os.Stdout)
	if err != nil {
		printlnFn(err.Error())
		return err
	}

	if err := a.apiClient.Login(ctx, username, string(password)); err != nil {
		printlnFn(err.Error())
		return err
	}

	a.userName = username
	printlnFn("Success!")
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	a.apiClient.SetToken("")
	a.userName = ""
	printlnFn("Logged out")
	return nil
}

// Package cli implements the interactive message.ly client.
package cli

import (
	"bufio"
	"context"
	"os"

	"github.com/dmitrijs2005/messagely/internal/client/client"
	"github.com/dmitrijs2005/messagely/internal/client/config"
)

type App struct {
	config    *config.Config
	apiClient *client.MessagelyClientService
	userName  string
	reader    *bufio.Reader
}

func NewApp(c *config.Config) (*App, error) {

	apiClient, err := client.NewMessagelyClientService(c.ServerEndpointAddr, c.RequestTimeout)
	if err != nil {
		return nil, err
	}

	return &App{config: c, apiClient: apiClient, reader: bufio.NewReader(os.Stdin)}, nil
}

func (a *App) Run(ctx context.Context) {
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.showLogin, scanner)
}

func (a *App) isLoggedIn() bool {
	return a.apiClient.IsAuthenticated()
}

func (a *App) showLogin() string {
	if a.userName == "" {
		return "not logged in"
	}
	return a.userName
}

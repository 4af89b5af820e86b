package auth

import (
	"github.com/dmitrijs2005/messagely/internal/common"
	"github.com/dmitrijs2005/messagely/internal/server/models"
)

// CanViewMessage permits only the sender or the recipient of m.
func CanViewMessage(m *models.Message, username string) error {
	if username == m.FromUsername || username == m.ToUsername {
		return nil
	}
	return common.ErrorForbidden
}

// CanMarkRead permits only the recipient of m.
func CanMarkRead(m *models.Message, username string) error {
	if username == m.ToUsername {
		return nil
	}
	return common.ErrorForbidden
}

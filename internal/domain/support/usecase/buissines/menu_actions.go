package buissines

import (
	"context"
	"path/filepath"

	"github.com/Conte777/SupportFlow/internal/domain/support/menu"
)

// SendMenuAnswer sends the item's answer text as a fresh message
func (uc *UseCase) SendMenuAnswer(ctx context.Context, userID int64, item *menu.Item) error {
	sentID, err := uc.gateway.SendMessage(ctx, userID, item.Answer, 0)
	if err != nil {
		return err
	}
	uc.scheduleBotMessage(ctx, userID, sentID)
	return nil
}

// SendMenuFile sends the document behind a file-mode item. File names
// are resolved inside the configured files directory only.
func (uc *UseCase) SendMenuFile(ctx context.Context, userID int64, item *menu.Item) error {
	path := filepath.Join(uc.cfg.FilesDir, filepath.Base(item.File))
	sentID, err := uc.gateway.SendFile(ctx, userID, path, item.Answer)
	if err != nil {
		return err
	}
	uc.scheduleBotMessage(ctx, userID, sentID)
	return nil
}

package telegram

import (
	"strings"

	"github.com/go-telegram/bot/models"

	"github.com/Conte777/SupportFlow/internal/domain/support/menu"
)

// callbackPrefix marks callback data produced by the menu keyboards
const callbackPrefix = "btn|"

// keyboardFor renders the children of item into an inline keyboard.
// path is the dot-separated location of item in its tree; buttons carry
// the child's path as callback data, link buttons become URL buttons.
// Non-root levels get a navigation row with home and back.
func keyboardFor(item *menu.Item, path string) *models.InlineKeyboardMarkup {
	if item == nil || len(item.Children) == 0 {
		return nil
	}

	var rows [][]models.InlineKeyboardButton
	var row []models.InlineKeyboardButton
	for _, child := range item.Children {
		btn := models.InlineKeyboardButton{Text: child.Label}
		if child.Mode == menu.ModeLink {
			btn.URL = child.Link
		} else {
			btn.CallbackData = encodePath(childPath(path, child.Code))
		}
		if item.RowLayout {
			row = append(row, btn)
		} else {
			rows = append(rows, []models.InlineKeyboardButton{btn})
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	if path != "" {
		nav := []models.InlineKeyboardButton{
			{Text: "🏠", CallbackData: encodePath("")},
		}
		if parent := parentPath(path); parent != "" {
			nav = append(nav, models.InlineKeyboardButton{Text: "←", CallbackData: encodePath(parent)})
		}
		rows = append(rows, nav)
	}

	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}

// navKeyboard is the navigation-only row shown under leaf answers
func navKeyboard(path string) *models.InlineKeyboardMarkup {
	nav := []models.InlineKeyboardButton{
		{Text: "🏠", CallbackData: encodePath("")},
	}
	if parent := parentPath(path); parent != "" {
		nav = append(nav, models.InlineKeyboardButton{Text: "←", CallbackData: encodePath(parent)})
	}
	return &models.InlineKeyboardMarkup{InlineKeyboard: [][]models.InlineKeyboardButton{nav}}
}

func encodePath(path string) string {
	return callbackPrefix + path
}

// decodePath returns the item path behind callback data, false when the
// data was not produced by a menu keyboard
func decodePath(data string) (string, bool) {
	if !strings.HasPrefix(data, callbackPrefix) {
		return "", false
	}
	return strings.TrimPrefix(data, callbackPrefix), true
}

func childPath(path, code string) string {
	if path == "" {
		return code
	}
	return path + "." + code
}

func parentPath(path string) string {
	idx := strings.LastIndex(path, ".")
	if idx < 0 {
		return ""
	}
	return path[:idx]
}

package telegram

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Conte777/SupportFlow/internal/domain/support/menu"
)

func testMenu() *menu.Menu {
	return &menu.Menu{Root: menu.Classify("", map[string]any{
		"contact": map[string]any{"label": "Contact us", "start_chat": true},
		"site":    map[string]any{"label": "Website", "link": "https://example.com"},
		"faq": map[string]any{
			"label":   "FAQ",
			"billing": map[string]any{"label": "Billing", "answer": "Billing info"},
		},
	})}
}

func TestKeyboardFor_Root(t *testing.T) {
	m := testMenu()
	kb := keyboardFor(m.Root, "")
	require.NotNil(t, kb)

	// One row per child, no navigation row at the root
	require.Len(t, kb.InlineKeyboard, 3)

	var texts []string
	for _, row := range kb.InlineKeyboard {
		require.Len(t, row, 1)
		texts = append(texts, row[0].Text)
	}
	require.ElementsMatch(t, []string{"Contact us", "Website", "FAQ"}, texts)

	// Link buttons carry the URL instead of callback data
	for _, row := range kb.InlineKeyboard {
		if row[0].Text == "Website" {
			require.Equal(t, "https://example.com", row[0].URL)
			require.Empty(t, row[0].CallbackData)
		} else {
			require.NotEmpty(t, row[0].CallbackData)
		}
	}
}

func TestKeyboardFor_NestedHasNavigation(t *testing.T) {
	m := testMenu()
	faq := m.Find("faq")
	kb := keyboardFor(faq, "faq")
	require.NotNil(t, kb)

	nav := kb.InlineKeyboard[len(kb.InlineKeyboard)-1]
	require.Equal(t, "🏠", nav[0].Text)
	require.Equal(t, encodePath(""), nav[0].CallbackData)
}

func TestKeyboardFor_NoChildrenIsNil(t *testing.T) {
	m := testMenu()
	require.Nil(t, keyboardFor(m.Find("faq.billing"), "faq.billing"))
	require.Nil(t, keyboardFor(nil, ""))
}

func TestCallbackPathRoundTrip(t *testing.T) {
	path, ok := decodePath(encodePath("faq.billing"))
	require.True(t, ok)
	require.Equal(t, "faq.billing", path)

	path, ok = decodePath(encodePath(""))
	require.True(t, ok)
	require.Empty(t, path)

	_, ok = decodePath("unrelated-data")
	require.False(t, ok)
}

func TestNavKeyboard(t *testing.T) {
	kb := navKeyboard("faq.billing")
	require.Len(t, kb.InlineKeyboard, 1)
	require.Len(t, kb.InlineKeyboard[0], 2)
	require.Equal(t, encodePath("faq"), kb.InlineKeyboard[0][1].CallbackData)

	// A top-level leaf only offers home
	kb = navKeyboard("faq")
	require.Len(t, kb.InlineKeyboard[0], 1)
}

func TestParentPath(t *testing.T) {
	require.Equal(t, "a.b", parentPath("a.b.c"))
	require.Empty(t, parentPath("a"))
	require.Equal(t, "a", childPath("", "a"))
	require.Equal(t, "a.b", childPath("a", "b"))
}

package menu

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassify_PriorityOrder(t *testing.T) {
	// A node carrying several payloads resolves to the highest-priority
	// variant: link beats file beats children beats subject beats answer
	item := Classify("x", map[string]any{
		"label":   "Button",
		"link":    "https://example.com",
		"file":    "doc.pdf",
		"subject": "Billing",
		"answer":  "hi",
	})
	require.NotNil(t, item)
	require.Equal(t, ModeLink, item.Mode)

	item = Classify("x", map[string]any{
		"label":   "Button",
		"file":    "doc.pdf",
		"subject": "Billing",
	})
	require.Equal(t, ModeFile, item.Mode)

	item = Classify("x", map[string]any{
		"label":   "Button",
		"subject": "Billing",
		"sub":     map[string]any{"label": "Child"},
	})
	require.Equal(t, ModeSubmenu, item.Mode)

	item = Classify("x", map[string]any{
		"label":   "Button",
		"subject": "Billing",
	})
	require.Equal(t, ModeSubject, item.Mode)

	item = Classify("x", map[string]any{"label": "Button"})
	require.Equal(t, ModeAnswer, item.Mode)
}

func TestClassify_DefaultAnswer(t *testing.T) {
	item := Classify("x", map[string]any{"label": "Button"})
	require.Equal(t, "👀", item.Answer)

	// Link buttons keep an empty answer, they never send text
	item = Classify("x", map[string]any{"label": "Button", "link": "https://example.com"})
	require.Empty(t, item.Answer)
}

func TestClassify_TruncatesLongAnswers(t *testing.T) {
	long := strings.Repeat("a", TextLimit+100)
	item := Classify("x", map[string]any{"label": "Button", "answer": long})
	require.Len(t, item.Answer, TextLimit)
}

func TestClassify_ChildrenSortedByCode(t *testing.T) {
	item := Classify("", map[string]any{
		"b_second": map[string]any{"label": "Second"},
		"a_first":  map[string]any{"label": "First"},
	})
	require.NotNil(t, item)
	require.Len(t, item.Children, 2)
	require.Equal(t, "a_first", item.Children[0].Code)
	require.Equal(t, "b_second", item.Children[1].Code)
}

func TestClassify_UnusableNodeIsNil(t *testing.T) {
	require.Nil(t, Classify("x", map[string]any{"answer": "text without label"}))
}

func TestMenu_Find(t *testing.T) {
	m := &Menu{Root: Classify("", map[string]any{
		"faq": map[string]any{
			"label": "FAQ",
			"billing": map[string]any{
				"label":  "Billing",
				"answer": "Billing info",
			},
		},
	})}

	require.Equal(t, m.Root, m.Find(""))

	item := m.Find("faq.billing")
	require.NotNil(t, item)
	require.Equal(t, "Billing info", item.Answer)

	require.Nil(t, m.Find("faq.missing"))
	require.Nil(t, m.Find("missing"))
}

func TestLoad_MissingFileIsNotAnError(t *testing.T) {
	m, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	require.Nil(t, m)

	m, err = Load("")
	require.NoError(t, err)
	require.Nil(t, m)
}

func TestLoad_ParsesTree(t *testing.T) {
	path := filepath.Join(t.TempDir(), "menu.toml")
	doc := `
[contact]
label = "Contact us"
start_chat = true

[faq]
label = "FAQ"
answer = "Pick a topic"

[faq.billing]
label = "Billing"
subject = "Billing"
answer = "Ask about billing"
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	m, err := Load(path)
	require.NoError(t, err)
	require.NotNil(t, m)
	require.Equal(t, ModeSubmenu, m.Root.Mode)
	require.Len(t, m.Root.Children, 2)

	contact := m.Find("contact")
	require.NotNil(t, contact)
	require.True(t, contact.StartChat)

	billing := m.Find("faq.billing")
	require.NotNil(t, billing)
	require.Equal(t, ModeSubject, billing.Mode)
	require.Equal(t, "Billing", billing.Subject)
}

func TestSetRootAnswer(t *testing.T) {
	m := &Menu{Root: Classify("", map[string]any{
		"a": map[string]any{"label": "A"},
	})}
	m.SetRootAnswer("Hello!")
	require.Equal(t, "Hello!", m.Root.Answer)

	// Empty override keeps the current text
	m.SetRootAnswer("")
	require.Equal(t, "Hello!", m.Root.Answer)
}

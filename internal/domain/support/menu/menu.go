// Package menu models the button tree loaded from a TOML document.
//
// A raw config node is classified into exactly one closed variant
// (link, file, submenu, subject, answer) by Classify, evaluated in that
// fixed priority order. The tree is treated as data by the rest of the
// system: the delivery layer renders it, the use case reacts to the
// variant of the pressed item.
package menu

import (
	"sort"
	"strings"

	"github.com/spf13/viper"
)

// Mode is the closed set of button variants
type Mode int

const (
	ModeAnswer Mode = iota
	ModeLink
	ModeFile
	ModeSubmenu
	ModeSubject
)

// TextLimit caps answer texts at the transport message size
const TextLimit = 4096

// defaultAnswer is shown when an answer-mode node has no text
const defaultAnswer = "👀"

// Item is one classified node of the menu tree
type Item struct {
	Code         string
	Label        string
	Mode         Mode
	Link         string
	File         string
	Subject      string
	Answer       string
	StartChat    bool
	AsNewMessage bool
	RowLayout    bool
	Children     []*Item
}

// Menu is a loaded button tree. Root is always a submenu; its Answer is
// the text shown next to the top-level keyboard.
type Menu struct {
	Root *Item
}

// Load reads a TOML menu document. A missing file is not an error: it
// returns a nil menu, meaning no keyboard is configured.
func Load(path string) (*Menu, error) {
	if path == "" {
		return nil, nil
	}
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil, nil
		}
		if strings.Contains(err.Error(), "no such file") {
			return nil, nil
		}
		return nil, err
	}

	root := Classify("", v.AllSettings())
	if root == nil {
		return nil, nil
	}
	root.Mode = ModeSubmenu
	return &Menu{Root: root}, nil
}

// Classify produces the tagged variant for one raw config node.
// Priority is fixed: link, file, submenu, subject, answer. The first
// matching key decides the mode; the rest of the node is carried as
// payload. Returns nil for nodes that cannot become a button (no label
// and no children).
func Classify(code string, raw map[string]any) *Item {
	item := &Item{
		Code:         code,
		Label:        str(raw["label"]),
		Link:         str(raw["link"]),
		File:         str(raw["file"]),
		Subject:      str(raw["subject"]),
		StartChat:    boolean(raw["start_chat"]),
		AsNewMessage: boolean(raw["as_new_message"]),
		RowLayout:    str(raw["menumode"]) == "row",
	}

	for key, val := range raw {
		sub, ok := val.(map[string]any)
		if !ok {
			continue
		}
		if child := Classify(key, sub); child != nil && child.Label != "" {
			item.Children = append(item.Children, child)
		}
	}
	sort.Slice(item.Children, func(i, j int) bool {
		return item.Children[i].Code < item.Children[j].Code
	})

	switch {
	case item.Link != "":
		item.Mode = ModeLink
		item.Answer = truncate(str(raw["answer"]))
	case item.File != "":
		item.Mode = ModeFile
		item.Answer = truncate(str(raw["answer"]))
	case len(item.Children) > 0:
		item.Mode = ModeSubmenu
		item.Answer = orDefault(truncate(str(raw["answer"])))
	case item.Subject != "":
		item.Mode = ModeSubject
		item.Answer = truncate(str(raw["answer"]))
	default:
		item.Mode = ModeAnswer
		item.Answer = orDefault(truncate(str(raw["answer"])))
	}

	if item.Label == "" && len(item.Children) == 0 {
		return nil
	}
	return item
}

// Find resolves a dot-separated path of item codes starting at the root.
// An empty path returns the root. Returns nil when any segment is missing.
func (m *Menu) Find(path string) *Item {
	if m == nil || m.Root == nil {
		return nil
	}
	cur := m.Root
	if path == "" {
		return cur
	}
	for _, code := range strings.Split(path, ".") {
		var next *Item
		for _, child := range cur.Children {
			if child.Code == code {
				next = child
				break
			}
		}
		if next == nil {
			return nil
		}
		cur = next
	}
	return cur
}

// SetRootAnswer overrides the text shown with the top-level keyboard
func (m *Menu) SetRootAnswer(text string) {
	if m != nil && m.Root != nil && text != "" {
		m.Root.Answer = text
	}
}

func truncate(s string) string {
	if len(s) > TextLimit {
		return s[:TextLimit]
	}
	return s
}

func orDefault(s string) string {
	if s == "" {
		return defaultAnswer
	}
	return s
}

func str(v any) string {
	s, _ := v.(string)
	return s
}

func boolean(v any) bool {
	b, _ := v.(bool)
	return b
}

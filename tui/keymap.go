package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines reader key bindings.
type KeyMap struct {
	NextPage     key.Binding
	PrevPage     key.Binding
	NextLine     key.Binding
	PrevLine     key.Binding
	NextChapter  key.Binding
	PrevChapter  key.Binding
	First        key.Binding
	Last         key.Binding
	GotoLine     key.Binding
	Search       key.Binding
	SearchNext   key.Binding
	SearchPrev   key.Binding
	SearchBook   key.Binding
	NextHit      key.Binding
	PrevHit      key.Binding
	NextLink     key.Binding
	PrevLink     key.Binding
	Follow       key.Binding
	NextSentence key.Binding
	PrevSentence key.Binding
	Back         key.Binding
	Forward      key.Binding
	Preview      key.Binding
	Escape       key.Binding
	Help         key.Binding
	Quit         key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		NextPage: key.NewBinding(
			key.WithKeys("pgdown", " ", "f"),
			key.WithHelp("space", "next page"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("pgup", "b"),
			key.WithHelp("b", "previous page"),
		),
		NextLine: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓", "scroll down"),
		),
		PrevLine: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑", "scroll up"),
		),
		NextChapter: key.NewBinding(
			key.WithKeys("right", "L"),
			key.WithHelp("→", "next chapter"),
		),
		PrevChapter: key.NewBinding(
			key.WithKeys("left", "H"),
			key.WithHelp("←", "previous chapter"),
		),
		First: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("g", "chapter start"),
		),
		Last: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("G", "chapter end"),
		),
		GotoLine: key.NewBinding(
			key.WithKeys(":"),
			key.WithHelp(":", "go to line"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search chapter"),
		),
		SearchNext: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "next match"),
		),
		SearchPrev: key.NewBinding(
			key.WithKeys("N"),
			key.WithHelp("N", "previous match"),
		),
		SearchBook: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "search book"),
		),
		NextHit: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "next book match"),
		),
		PrevHit: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "previous book match"),
		),
		NextLink: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next link"),
		),
		PrevLink: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "previous link"),
		),
		Follow: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "follow link"),
		),
		NextSentence: key.NewBinding(
			key.WithKeys(")"),
			key.WithHelp(")", "next sentence"),
		),
		PrevSentence: key.NewBinding(
			key.WithKeys("("),
			key.WithHelp("(", "previous sentence"),
		),
		Back: key.NewBinding(
			key.WithKeys("backspace", "ctrl+o"),
			key.WithHelp("backspace", "back"),
		),
		Forward: key.NewBinding(
			key.WithKeys("ctrl+f"),
			key.WithHelp("ctrl+f", "forward"),
		),
		Preview: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "view image"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "clear"),
		),
		Help: key.NewBinding(
			key.WithKeys("h", "f1"),
			key.WithHelp("h", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextPage, k.PrevPage, k.Search, k.Follow, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextPage, k.PrevPage, k.NextLine, k.PrevLine, k.NextChapter, k.PrevChapter, k.First, k.Last, k.GotoLine},
		{k.Search, k.SearchNext, k.SearchPrev, k.SearchBook, k.NextHit, k.PrevHit},
		{k.NextLink, k.PrevLink, k.Follow, k.NextSentence, k.PrevSentence, k.Back, k.Forward},
		{k.Preview, k.Escape, k.Help, k.Quit},
	}
}

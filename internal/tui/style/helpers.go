package style

import "github.com/charmbracelet/lipgloss"

func colored(c lipgloss.Color) func(string) string {
	s := lipgloss.NewStyle().Foreground(c)
	return func(str string) string { return s.Render(str) }
}

// 語義著色快捷函數
var (
	InfoText    = colored(Info)
	SuccessText = colored(Success)
	WarningText = colored(Warning)
	ErrorText   = colored(Error)
	MutedText   = colored(Muted)
	SnowText    = colored(Snow1)
)

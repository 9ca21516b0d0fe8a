package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/penerbit-id/naskah/internal/ui/forms"
	"github.com/penerbit-id/naskah/internal/ui/model"
	"github.com/penerbit-id/naskah/internal/ui/wizard"
)

var (
	styleTitle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	styleSubtitle  = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	styleError     = lipgloss.NewStyle().Foreground(lipgloss.Color("160")).Bold(true)
	stylePrompt    = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	styleSummary   = lipgloss.NewStyle().Foreground(lipgloss.Color("81"))
	styleHighlight = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	styleMuted     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	styleDialog    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("63")).Padding(1, 2)
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder
	b.WriteString(styleTitle.Render("Kirim Naskah") + "\n\n")

	switch m.wiz.Phase {
	case wizard.PhaseSucceeded:
		b.WriteString(m.successView())
		return b.String()
	case wizard.PhaseConfirming, wizard.PhaseSubmitting:
		b.WriteString(m.confirmView())
		return b.String()
	}

	b.WriteString(m.stepBar() + "\n\n")
	if m.wiz.Alert != "" {
		b.WriteString(styleError.Render(m.wiz.Alert) + "\n" + styleMuted.Render("Esc untuk menutup pesan.") + "\n\n")
	}
	if m.notice != "" {
		b.WriteString(styleError.Render(m.notice) + "\n\n")
	}
	b.WriteString(styleHighlight.Render(m.wiz.Step.Title()) + "\n\n")
	if m.wiz.Step == model.StepPublishers {
		b.WriteString(m.publishersView())
	} else {
		b.WriteString(m.fieldsView())
	}
	b.WriteString("\n" + stylePrompt.Render(m.helpLine()))
	return b.String()
}

func (m Model) stepBar() string {
	accessible := m.wiz.Accessible()
	parts := make([]string, 0, len(model.Steps))
	for _, step := range model.Steps {
		label := fmt.Sprintf("%d. %s", step, step.Title())
		switch {
		case step == m.wiz.Step:
			parts = append(parts, styleHighlight.Render("["+label+"]"))
		case accessible[step]:
			parts = append(parts, styleSummary.Render(label))
		default:
			parts = append(parts, styleMuted.Render(label))
		}
	}
	return strings.Join(parts, styleMuted.Render("  >  "))
}

func (m Model) publishersView() string {
	var b strings.Builder
	switch {
	case m.loading:
		b.WriteString(styleSubtitle.Render("Memuat daftar penerbit...") + "\n")
	case m.pubErr != "":
		b.WriteString(styleError.Render(m.pubErr) + "\n")
	default:
		b.WriteString(styleSubtitle.Render(fmt.Sprintf("Pilih hingga %d penerbit. Urutan pilihan menentukan prioritas.", model.MaxPublishers)) + "\n\n")
		sel := m.wiz.Form.Publishers
		for i, p := range m.wiz.Publishers {
			cursor := "  "
			if i == m.cursor {
				cursor = styleHighlight.Render("> ")
			}
			mark := "[ ]"
			suffix := ""
			if prio := sel.Priority(p.ID); prio > 0 {
				mark = "[x]"
				suffix = styleSummary.Render(fmt.Sprintf(" (Prioritas %d)", prio))
			}
			line := fmt.Sprintf("%s %s", mark, p.Name)
			if sel.Full() && !sel.Contains(p.ID) {
				line = styleMuted.Render(line)
			}
			b.WriteString(cursor + line + suffix + "\n")
		}
	}
	if msg := m.wiz.Errors.Message(model.FieldPublisher1); msg != "" {
		b.WriteString("\n" + styleError.Render(msg) + "\n")
	}
	return b.String()
}

func (m Model) fieldsView() string {
	var b strings.Builder
	for i, spec := range stepFields[m.wiz.Step] {
		label := spec.label
		if i == m.focus {
			label = styleHighlight.Render(label)
		} else {
			label = styleSubtitle.Render(label)
		}
		b.WriteString(label + "\n")
		switch spec.kind {
		case kindChoice:
			value := forms.DisplayOption(spec.options, m.wiz.Form.Value(spec.field))
			if value == "" {
				value = styleMuted.Render("(pilih dengan < >)")
			}
			b.WriteString("< " + value + " >\n")
		case kindArea:
			b.WriteString(m.areas[spec.field].View() + "\n")
		default:
			b.WriteString(m.texts[spec.field].View() + "\n")
		}
		if spec.kind == kindFile {
			if up := m.wiz.Form.Manuscript; up != nil {
				b.WriteString(styleSummary.Render(fmt.Sprintf("%s (%s)", up.Filename, forms.FormatBytes(up.Size))) + "\n")
			}
			if m.fileErr != "" {
				b.WriteString(styleError.Render(m.fileErr) + "\n")
			}
		}
		if msg := m.wiz.Errors.Message(spec.field); msg != "" {
			b.WriteString(styleError.Render(msg) + "\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) helpLine() string {
	keys := []string{"ctrl+p kembali", "ctrl+n lanjut", "alt+1..4 lompat", "ctrl+s kirim", "ctrl+c keluar"}
	if m.wiz.Step == model.StepPublishers {
		keys = append([]string{"spasi pilih"}, keys...)
	} else {
		keys = append([]string{"tab pindah kolom"}, keys...)
	}
	return strings.Join(keys, " | ")
}

func (m Model) confirmView() string {
	s := m.wiz.Summary()
	rows := [][2]string{
		{"Judul", s.Title},
		{fmt.Sprintf("Penerbit (%d)", s.PublisherCount), strings.Join(s.PublisherNames, ", ")},
		{"Kategori", forms.DisplayOption(forms.CategoryOptions, s.Category)},
		{"Segmen pembaca", forms.DisplayOption(forms.SegmentOptions, s.ReaderSegment)},
		{"File", fmt.Sprintf("%s (%s)", s.FileName, s.FileSize)},
		{"Penulis", s.AuthorName},
		{"Email", s.Email},
	}
	var b strings.Builder
	b.WriteString(styleHighlight.Render("Konfirmasi pengiriman") + "\n\n")
	for _, row := range rows {
		b.WriteString(styleSubtitle.Render(fmt.Sprintf("%-16s", row[0])) + styleSummary.Render(row[1]) + "\n")
	}
	b.WriteString("\n")
	if m.wiz.Alert != "" {
		b.WriteString(styleError.Render(m.wiz.Alert) + "\n\n")
	}
	if m.wiz.Phase == wizard.PhaseSubmitting {
		b.WriteString(stylePrompt.Render("Mengirim naskah..."))
	} else {
		b.WriteString(stylePrompt.Render("Enter/y kirim | Esc/n kembali"))
	}
	return styleDialog.Render(b.String())
}

func (m Model) successView() string {
	msg := "Naskah berhasil dikirim."
	if m.wiz.Receipt != nil && m.wiz.Receipt.Message != "" {
		msg = m.wiz.Receipt.Message
	}
	body := styleHighlight.Render(msg)
	if m.wiz.Receipt != nil && m.wiz.Receipt.ID != "" {
		body += "\n" + styleSubtitle.Render("Nomor naskah: "+m.wiz.Receipt.ID)
	}
	body += "\n\n" + stylePrompt.Render("Enter kirim naskah lain | Esc keluar")
	return styleDialog.Render(body)
}

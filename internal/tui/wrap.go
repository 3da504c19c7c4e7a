package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// cell is one rendered unit of a drill line.
type cell struct {
	s       string
	width   int
	isSpace bool
}

func textCells(text string, style lipgloss.Style) []cell {
	out := make([]cell, 0, len(text))
	for _, r := range text {
		out = append(out, cell{
			s:       style.Render(string(r)),
			width:   runewidth.RuneWidth(r),
			isSpace: r == ' ',
		})
	}
	return out
}

// blockCell keeps pre-rendered content, such as the answer input, unbroken.
func blockCell(rendered string) cell {
	return cell{s: rendered, width: lipgloss.Width(rendered)}
}

func renderCells(cells []cell) string {
	var b strings.Builder
	for _, item := range cells {
		b.WriteString(item.s)
	}
	return b.String()
}

// wrapCells breaks lines at the last space that fits within width.
func wrapCells(cells []cell, width int) string {
	if width <= 0 {
		return renderCells(cells)
	}
	var out strings.Builder
	line := make([]cell, 0, len(cells))
	lineWidth := 0
	lastSpaceIdx := -1

	for i := 0; i < len(cells); {
		item := cells[i]
		if lineWidth+item.width > width && len(line) > 0 {
			switch {
			case item.isSpace:
				out.WriteString(renderCells(line))
				out.WriteRune('\n')
				line = line[:0]
				lineWidth = 0
				lastSpaceIdx = -1
				i++
			case lastSpaceIdx >= 0:
				out.WriteString(renderCells(line[:lastSpaceIdx]))
				out.WriteRune('\n')
				line = append([]cell{}, line[lastSpaceIdx+1:]...)
				lineWidth = lineWidthOf(line)
				lastSpaceIdx = lastSpaceIndex(line)
			default:
				out.WriteString(renderCells(line))
				out.WriteRune('\n')
				line = line[:0]
				lineWidth = 0
				lastSpaceIdx = -1
			}
			continue
		}
		line = append(line, item)
		lineWidth += item.width
		if item.isSpace {
			lastSpaceIdx = len(line) - 1
		}
		i++
	}
	out.WriteString(renderCells(line))
	return out.String()
}

func lineWidthOf(line []cell) int {
	total := 0
	for _, item := range line {
		total += item.width
	}
	return total
}

func lastSpaceIndex(line []cell) int {
	for i := len(line) - 1; i >= 0; i-- {
		if line[i].isSpace {
			return i
		}
	}
	return -1
}

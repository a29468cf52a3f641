package ui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nconklindev/clientline/internal/client"
	"github.com/nconklindev/clientline/internal/config"
	"github.com/nconklindev/clientline/internal/converter"
	"github.com/nconklindev/clientline/internal/logging"
	"github.com/nconklindev/clientline/internal/types"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type state int

const (
	stateFilePicker state = iota
	stateLoading
	statePreview
	stateProcessing
	stateComplete
	stateEmpty
	stateError
)

type Model struct {
	state        state
	cfg          *config.Config
	logger       *logging.Logger
	filepicker   filepicker.Model
	spinner      spinner.Model
	selectedFile string
	fileData     *types.FileData
	recognised   map[int]bool
	cursor       int
	result       *types.ConversionResult
	err          error
	width        int
	height       int
	progress     progress.Model
	progressChan chan float64
	resultChan   chan conversionResultMsg
}

type conversionResultMsg struct {
	result *types.ConversionResult
	err    error
}

type fileLoadedMsg struct {
	data *types.FileData
	err  error
}

type conversionCompleteMsg struct {
	result *types.ConversionResult
	err    error
}

type progressMsg float64

type waitForProgressMsg struct{}

func InitialModel(cfg *config.Config, logger *logging.Logger) Model {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = logging.Nop()
	}

	fp := filepicker.New()
	fp.AllowedTypes = []string{".csv", ".xlsx"}
	fp.CurrentDirectory, _ = os.Getwd()

	// Set filepicker colors to match theme
	fp.Styles.Cursor = lipgloss.NewStyle().Foreground(colorAccent)
	fp.Styles.Symlink = lipgloss.NewStyle().Foreground(colorSoft)
	fp.Styles.Directory = lipgloss.NewStyle().Foreground(colorSoft)
	fp.Styles.File = lipgloss.NewStyle().Foreground(colorText)
	fp.Styles.Permission = lipgloss.NewStyle().Foreground(colorMuted)
	fp.Styles.Selected = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	fp.Styles.FileSize = lipgloss.NewStyle().Foreground(colorMuted)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(colorAccent)

	// Initialize progress bar
	prog := progress.New(progress.WithGradient(string(colorAccent), string(colorSoft)))

	return Model{
		state:      stateFilePicker,
		cfg:        cfg,
		logger:     logger,
		filepicker: fp,
		spinner:    sp,
		recognised: make(map[int]bool),
		progress:   prog,
	}
}

func (m Model) Init() tea.Cmd {
	return m.filepicker.Init()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		// Subtract space for title, subtitle, help text, and padding
		height := msg.Height - 14
		if height < 5 {
			height = 5 // Minimum height
		}

		m.filepicker.Height = height

		return m, nil

	case tea.KeyMsg:
		switch m.state {
		case stateFilePicker, stateLoading:
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			}

		case statePreview:
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "up", "k":
				if m.cursor > 0 {
					m.cursor--
				}
			case "down", "j":
				if m.cursor < len(m.fileData.Headers)-1 {
					m.cursor++
				}
			case "esc":
				m.state = stateFilePicker
				m.fileData = nil
				m.recognised = make(map[int]bool)
				m.cursor = 0
				return m, nil
			case "enter":
				m.state = stateProcessing
				return m.convertFile()
			}

		case stateProcessing:
			if msg.String() == "ctrl+c" {
				return m, tea.Quit
			}

		case stateComplete, stateEmpty, stateError:
			switch msg.String() {
			case "ctrl+c", "q", "enter", "esc":
				return m, tea.Quit
			}
		}

	case spinner.TickMsg:
		if m.state != stateLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case fileLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.state = stateError
			return m, nil
		}
		m.fileData = msg.data
		m.recognised = recognisedColumns(msg.data.Headers, m.cfg.Mapping.Rules())
		m.cursor = 0
		m.state = statePreview
		return m, nil

	case conversionCompleteMsg:
		m.result = msg.result
		if errors.Is(msg.err, converter.ErrEmptyBatch) {
			m.state = stateEmpty
			return m, nil
		}
		if msg.err != nil {
			m.err = msg.err
			m.state = stateError
			return m, nil
		}
		m.state = stateComplete
		return m, nil

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		return m, cmd

	case progressMsg:
		if m.state == stateProcessing {
			cmd := m.progress.SetPercent(float64(msg))
			return m, tea.Batch(cmd, waitForProgress(m.progressChan, m.resultChan))
		}
		return m, nil

	case waitForProgressMsg:
		return m, waitForProgress(m.progressChan, m.resultChan)
	}

	// Handle filepicker updates
	if m.state == stateFilePicker {
		var cmd tea.Cmd
		m.filepicker, cmd = m.filepicker.Update(msg)

		if didSelect, path := m.filepicker.DidSelectFile(msg); didSelect {
			m.selectedFile = path
			m.state = stateLoading
			return m, tea.Batch(m.spinner.Tick, m.loadFile(path))
		}

		return m, cmd
	}

	return m, nil
}

// recognisedColumns marks the header indices the builder reads.
func recognisedColumns(headers []string, rules client.Rules) map[int]bool {
	known := make(map[string]bool)
	for _, c := range rules.KnownColumns() {
		known[c] = true
	}
	out := make(map[int]bool)
	for i, h := range headers {
		if known[client.NormalizeKey(h)] {
			out[i] = true
		}
	}
	return out
}

func (m Model) loadFile(path string) tea.Cmd {
	sheet := m.cfg.Convert.Sheet
	return func() tea.Msg {
		data, err := converter.ReadFileData(path, sheet)
		return fileLoadedMsg{data: data, err: err}
	}
}

func (m Model) convertFile() (Model, tea.Cmd) {
	m.progressChan = make(chan float64, 100)
	m.resultChan = make(chan conversionResultMsg, 1)

	cmd := tea.Batch(
		func() tea.Msg {
			// Capture channels for the goroutine
			progressChan := m.progressChan
			resultChan := m.resultChan
			job := converter.Job{
				InputFile: m.selectedFile,
				OutputExt: m.cfg.Convert.OutputExt,
				Sheet:     m.cfg.Convert.Sheet,
				Data:      m.fileData,
				Workers:   m.cfg.Convert.Workers,
				Rules:     m.cfg.Mapping.Rules(),
				Progress:  progressChan,
				Logger:    m.logger,
			}

			go func() {
				result, err := converter.Run(context.Background(), job)

				// Send result
				resultChan <- conversionResultMsg{result: result, err: err}

				// Close channels
				close(progressChan)
				close(resultChan)
			}()

			return waitForProgressMsg{}
		},
		waitForProgress(m.progressChan, m.resultChan),
		m.progress.Init(), // Start progress bar animation
	)

	return m, cmd
}

func waitForProgress(progressChan chan float64, resultChan chan conversionResultMsg) tea.Cmd {
	return func() tea.Msg {
		if progressChan == nil {
			return nil
		}

		p, ok := <-progressChan
		if !ok {
			// Progress channel closed, check result
			res, ok := <-resultChan
			if ok {
				return conversionCompleteMsg(res)
			}
			return nil
		}

		return progressMsg(p)
	}
}

func (m Model) View() string {
	switch m.state {
	case stateFilePicker:
		return m.viewFilePicker()
	case stateLoading:
		return m.viewLoading()
	case statePreview:
		return m.viewPreview()
	case stateProcessing:
		return m.viewProcessing()
	case stateComplete:
		return m.viewComplete()
	case stateEmpty:
		return m.viewEmpty()
	case stateError:
		return m.viewError()
	}
	return ""
}

func (m Model) viewFilePicker() string {
	var s strings.Builder

	title := TitleStyle.Render("▤ Clientline - Client Spreadsheet to JSONL")

	s.WriteString(title)
	s.WriteString("\n")
	s.WriteString(SubtitleStyle.Render("Select a CSV or XLSX client export"))
	s.WriteString("\n\n")
	s.WriteString(m.filepicker.View())
	s.WriteString("\n\n")
	s.WriteString(HelpStyle.Render("Press q to quit"))

	return s.String()
}

func (m Model) viewLoading() string {
	var s strings.Builder

	s.WriteString(m.spinner.View())
	s.WriteString(" Reading ")
	s.WriteString(filepath.Base(m.selectedFile))
	s.WriteString("...")

	return BoxStyle.Render(s.String())
}

func (m Model) viewPreview() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("▤ Review Columns"))
	s.WriteString("\n")
	s.WriteString(SubtitleStyle.Render(fmt.Sprintf("File: %s", filepath.Base(m.selectedFile))))
	s.WriteString("\n")

	if m.fileData.Sheet != "" {
		s.WriteString(fmt.Sprintf("Sheet: %s (header on row %d)\n", m.fileData.Sheet, m.fileData.HeaderRow+1))
	}
	s.WriteString(fmt.Sprintf("Data rows: %d\n\n", len(m.fileData.Rows)))

	if len(m.recognised) > 0 {
		s.WriteString(SuccessStyle.Render(fmt.Sprintf("✓ Recognised %d of %d column(s)", len(m.recognised), len(m.fileData.Headers))))
	} else {
		s.WriteString(WarningStyle.Render("No recognised client columns"))
	}
	s.WriteString("\n\n")

	start, end := m.visibleRange()
	for i := start; i < end; i++ {
		header := m.fileData.Headers[i]

		cursor := " "
		if m.cursor == i {
			cursor = ">"
		}

		mark := " "
		if m.recognised[i] {
			mark = "✓"
		}

		line := fmt.Sprintf("%s [%s] %s", cursor, mark, header)

		if m.cursor == i {
			line = SelectedStyle.Render(line)
		} else if m.recognised[i] {
			line = CheckedStyle.Render(line)
		} else {
			line = UnselectedStyle.Render(line + " (ignored)")
		}

		s.WriteString(line)
		s.WriteString("\n")
	}

	s.WriteString("\n")
	s.WriteString(HelpStyle.Render("↑/↓: scroll • enter: convert • esc: back • q: quit"))

	return BoxStyle.Render(s.String())
}

// visibleRange keeps the cursor inside a window sized to the terminal.
func (m Model) visibleRange() (int, int) {
	total := len(m.fileData.Headers)
	window := m.height - 16
	if window < 5 {
		window = 5
	}
	if total <= window {
		return 0, total
	}
	start := m.cursor - window/2
	if start < 0 {
		start = 0
	}
	if start+window > total {
		start = total - window
	}
	return start, start + window
}

func (m Model) viewProcessing() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("▤ Processing..."))
	s.WriteString("\n\n")
	s.WriteString("Building client records...")
	s.WriteString("\n\n")
	s.WriteString(m.progress.View())

	return BoxStyle.Render(s.String())
}

func (m Model) truncatePath(path string) string {
	// Leave room for padding and borders
	maxPathLen := m.width - 20
	if maxPathLen < 30 {
		maxPathLen = 30
	}
	if len(path) > maxPathLen {
		return "..." + path[len(path)-maxPathLen+3:]
	}
	return path
}

func (m Model) viewComplete() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("✓ Conversion Complete!"))
	s.WriteString("\n\n")

	s.WriteString(fmt.Sprintf("Input:  %s\n", m.truncatePath(m.result.InputFile)))
	s.WriteString(SuccessStyle.Render(fmt.Sprintf("Output: %s\n", m.truncatePath(m.result.OutputFile))))
	s.WriteString("\n")
	s.WriteString(fmt.Sprintf("Rows read: %d\n", m.result.RowsRead))
	s.WriteString(fmt.Sprintf("Records written: %d\n", m.result.RecordsWritten))
	s.WriteString(fmt.Sprintf("Rows skipped: %d\n", m.result.RowsDropped))
	s.WriteString("\n")
	s.WriteString(HelpStyle.Render("Press any key to exit"))

	return BoxStyle.Render(s.String())
}

func (m Model) viewEmpty() string {
	var s strings.Builder

	s.WriteString(WarningStyle.Render("∅ No Client Records"))
	s.WriteString("\n\n")
	s.WriteString(fmt.Sprintf("%s has no rows with an entity type or a name.\n", filepath.Base(m.selectedFile)))
	if m.result != nil {
		s.WriteString(fmt.Sprintf("Rows read: %d\n", m.result.RowsRead))
	}
	s.WriteString("No output file was written.")
	s.WriteString("\n\n")
	s.WriteString(HelpStyle.Render("Press any key to exit"))

	return BoxStyle.Render(s.String())
}

func (m Model) viewError() string {
	var s strings.Builder

	s.WriteString(ErrorStyle.Render("✗ Error"))
	s.WriteString("\n\n")
	s.WriteString(m.err.Error())
	s.WriteString("\n\n")
	s.WriteString(HelpStyle.Render("Press any key to exit"))

	return BoxStyle.Render(s.String())
}

// Package tui provides the Bubble Tea practice interface.
package tui

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lmersch/sprooch/internal/engine"
	"github.com/lmersch/sprooch/internal/extract"
	"github.com/lmersch/sprooch/internal/model"
	"github.com/lmersch/sprooch/internal/record"
	"github.com/lmersch/sprooch/internal/reference"
	"github.com/lmersch/sprooch/internal/session"
)

type state int

const (
	statePrompt state = iota
	stateScoring
	stateFeedback
	stateSummary
)

const breakdownBarWidth = 20

var (
	wordStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	translationStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	hintStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	excellentStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A")).Bold(true)
	goodStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	poorStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Bold(true)
	improvementStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
	issueStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	suggestionStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	warnStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAAD14"))
	barFilledStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
	barEmptyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#3A3A3A"))
)

var featureLabels = map[string]string{
	model.FeaturePitch:        "Pitch",
	model.FeatureFormants:     "Formants",
	model.FeatureIntensity:    "Intensity",
	model.FeatureDuration:     "Duration",
	model.FeatureVoiceQuality: "Voice Quality",
}

type scoredMsg struct {
	result  model.ComparisonResult
	message string
	insight model.Insight
	ref     model.FeatureSet
	newRef  bool
}

type scoreFailedMsg struct {
	err error
}

// Model implements the Bubble Tea practice UI.
type Model struct {
	sess      *session.Session
	extractor extract.Extractor
	refs      *reference.Manager
	recorder  record.Recorder

	refFeatures map[string]model.FeatureSet

	state  state
	width  int
	height int

	spin spinner.Model
	prog progress.Model

	word model.WordInfo

	lastResult  model.ComparisonResult
	lastMessage string
	lastInsight model.Insight
	warn        string

	summary     model.SessionSummary
	summaryWarn string
}

// NewModel constructs the practice UI for one session.
func NewModel(sess *session.Session, extractor extract.Extractor, refs *reference.Manager, recorder record.Recorder) *Model {
	sp := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(wordStyle))
	pr := progress.New(progress.WithDefaultGradient())
	m := &Model{
		sess:        sess,
		extractor:   extractor,
		refs:        refs,
		recorder:    recorder,
		refFeatures: map[string]model.FeatureSet{},
		spin:        sp,
		prog:        pr,
	}
	if word, ok := sess.Current(); ok {
		m.word = word
	}
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.prog.Width = m.contentWidth()
		return m, nil
	case spinner.TickMsg:
		if m.state != stateScoring {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	case scoredMsg:
		return m.handleScored(msg)
	case scoreFailedMsg:
		m.state = statePrompt
		m.warn = msg.err.Error()
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	key := msg.String()
	switch m.state {
	case statePrompt:
		switch key {
		case "enter", " ":
			return m.startScoring()
		case "s":
			// Skipping is only possible once an attempt exists.
			if m.sess.CanAdvance(m.word.Word) {
				return m.advance()
			}
		case "q":
			return m, tea.Quit
		}
	case stateFeedback:
		switch key {
		case "r":
			if m.sess.AttemptsSoFar(m.word.Word) < m.sess.MaxAttempts() {
				return m.startScoring()
			}
		case "enter", "n":
			if m.sess.CanAdvance(m.word.Word) {
				return m.advance()
			}
		case "q":
			return m, tea.Quit
		}
	case stateSummary:
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) startScoring() (tea.Model, tea.Cmd) {
	m.state = stateScoring
	m.warn = ""
	word := m.word
	cachedRef, haveRef := m.refFeatures[word.Word]
	return m, tea.Batch(m.spin.Tick, m.scoreCmd(word, cachedRef, haveRef))
}

// scoreCmd records, extracts, and compares in the background. Session state
// is only touched from Update, so the closure works on copies.
func (m *Model) scoreCmd(word model.WordInfo, cachedRef model.FeatureSet, haveRef bool) tea.Cmd {
	extractor := m.extractor
	refs := m.refs
	recorder := m.recorder
	previous := m.sess.LastComparison(word.Word)
	return func() tea.Msg {
		ctx := context.Background()

		ref := cachedRef
		newRef := false
		if !haveRef {
			refPath, err := refs.Ensure(ctx, word.Word, word.AudioURL)
			if err != nil {
				return scoreFailedMsg{err: fmt.Errorf("reference audio: %w", err)}
			}
			ref, err = extractor.Extract(ctx, refPath)
			if err != nil {
				return scoreFailedMsg{err: fmt.Errorf("analyze reference: %w", err)}
			}
			newRef = true
		}

		userPath, err := recorder.Record(ctx, word.Word)
		if err != nil {
			return scoreFailedMsg{err: fmt.Errorf("record attempt: %w", err)}
		}
		user, err := extractor.Extract(ctx, userPath)
		if err != nil {
			return scoreFailedMsg{err: fmt.Errorf("analyze attempt: %w", err)}
		}

		result, message, insight := engine.Compare(ref, user, previous)
		return scoredMsg{result: result, message: message, insight: insight, ref: ref, newRef: newRef}
	}
}

func (m *Model) handleScored(msg scoredMsg) (tea.Model, tea.Cmd) {
	if msg.newRef {
		m.refFeatures[m.word.Word] = msg.ref
	}
	m.lastResult = msg.result
	m.lastMessage = msg.message
	m.lastInsight = msg.insight

	if _, err := m.sess.RecordAttempt(context.Background(), m.word.Word, msg.result.TotalScore, msg.message, msg.insight); err != nil {
		m.warn = fmt.Sprintf("attempt kept in memory, saving failed: %v", err)
	}
	m.state = stateFeedback
	return m, nil
}

func (m *Model) advance() (tea.Model, tea.Cmd) {
	m.sess.Advance()
	m.warn = ""
	if m.sess.Complete() {
		summary, err := m.sess.Summary(context.Background())
		m.summary = summary
		if err != nil {
			m.summaryWarn = fmt.Sprintf("summary not saved: %v", err)
		}
		m.state = stateSummary
		return m, nil
	}
	word, _ := m.sess.Current()
	m.word = word
	m.state = statePrompt
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	var body string
	switch m.state {
	case statePrompt:
		body = m.viewPrompt()
	case stateScoring:
		body = m.viewScoring()
	case stateFeedback:
		body = m.viewFeedback()
	case stateSummary:
		body = m.viewSummary()
	}
	if m.width == 0 || m.height == 0 {
		return body
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
}

func (m *Model) contentWidth() int {
	if m.width == 0 {
		return 60
	}
	w := int(float64(m.width) * 0.70)
	if w < 20 {
		w = 20
	}
	return w
}

func (m *Model) viewProgress() string {
	index, total, pct := m.sess.Progress()
	bar := m.prog.ViewAs(pct / 100)
	return fmt.Sprintf("%s %s", bar, hintStyle.Render(fmt.Sprintf("word %d of %d", index+1, total)))
}

func (m *Model) viewPrompt() string {
	var b strings.Builder
	attempts := m.sess.AttemptsSoFar(m.word.Word)
	fmt.Fprintf(&b, "%s  %s\n", wordStyle.Render(m.word.Word), translationStyle.Render(m.word.Translation))
	if m.word.Category != "" {
		b.WriteString(hintStyle.Render("category: "+m.word.Category) + "\n")
	}
	fmt.Fprintf(&b, "\nAttempt %d of %d\n\n", attempts+1, m.sess.MaxAttempts())
	if m.warn != "" {
		b.WriteString(warnStyle.Render(m.warn) + "\n\n")
	}
	b.WriteString(hintStyle.Render("[enter] record and score") + "\n")
	if m.sess.CanAdvance(m.word.Word) {
		b.WriteString(hintStyle.Render("[s] next word") + "\n")
	}
	b.WriteString(hintStyle.Render("[q] quit") + "\n\n")
	b.WriteString(m.viewProgress())
	return b.String()
}

func (m *Model) viewScoring() string {
	return fmt.Sprintf("%s Listening and analyzing %s ...", m.spin.View(), wordStyle.Render(m.word.Word))
}

func (m *Model) viewFeedback() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n\n", wordStyle.Render(m.word.Word), scoreStyle(m.lastResult.TotalScore).Render(fmt.Sprintf("%.1f / 100", m.lastResult.TotalScore)))
	b.WriteString(m.lastMessage + "\n")
	if m.lastInsight.TrendMessage != "" {
		b.WriteString(hintStyle.Render(m.lastInsight.TrendMessage) + "\n")
	}
	b.WriteString("\n" + m.viewBreakdown() + "\n")

	width := m.contentWidth()
	for _, item := range m.lastInsight.Improvements {
		for _, line := range wrapText("+ "+item, width) {
			b.WriteString(improvementStyle.Render(line) + "\n")
		}
	}
	for _, item := range m.lastInsight.Issues {
		for _, line := range wrapText("- "+item, width) {
			b.WriteString(issueStyle.Render(line) + "\n")
		}
	}
	for _, item := range m.lastInsight.Suggestions {
		for _, line := range wrapText("> "+item, width) {
			b.WriteString(suggestionStyle.Render(line) + "\n")
		}
	}
	for _, reason := range m.lastInsight.DeclineReasons {
		for _, line := range wrapText("! "+reason, width) {
			b.WriteString(warnStyle.Render(line) + "\n")
		}
	}

	if m.warn != "" {
		b.WriteString("\n" + warnStyle.Render(m.warn) + "\n")
	}

	b.WriteString("\n")
	if m.sess.AttemptsSoFar(m.word.Word) < m.sess.MaxAttempts() {
		b.WriteString(hintStyle.Render("[r] retry") + "  ")
	}
	b.WriteString(hintStyle.Render("[enter] next word") + "  " + hintStyle.Render("[q] quit") + "\n\n")
	b.WriteString(m.viewProgress())
	return b.String()
}

func (m *Model) viewBreakdown() string {
	var b strings.Builder
	missing := map[string]bool{}
	for _, name := range m.lastResult.Missing {
		missing[name] = true
	}
	for _, name := range model.FeatureOrder {
		score, ok := m.lastResult.Breakdown[name]
		if !ok {
			continue
		}
		label := featureLabels[name]
		line := fmt.Sprintf("%-14s %s %5.1f", label, renderBar(score, breakdownBarWidth), score)
		if missing[name] {
			line += hintStyle.Render("  (not detected)")
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func (m *Model) viewSummary() string {
	var b strings.Builder
	b.WriteString(wordStyle.Render("Session complete") + "\n\n")
	fmt.Fprintf(&b, "Overall score: %s\n", scoreStyle(m.summary.OverallScore).Render(fmt.Sprintf("%.1f", m.summary.OverallScore)))
	fmt.Fprintf(&b, "Average attempt: %.1f\n", m.summary.AverageScore)
	fmt.Fprintf(&b, "Words: %d   Attempts: %d\n", m.summary.TotalWords, m.summary.TotalAttempts)
	fmt.Fprintf(&b, "Best word: %.1f   Hardest word: %.1f\n\n", m.summary.BestScore, m.summary.WorstScore)
	fmt.Fprintf(&b, "Excellent: %d  Good: %d  Fair: %d  Poor: %d\n", m.summary.ExcellentCount, m.summary.GoodCount, m.summary.FairCount, m.summary.PoorCount)
	if len(m.summary.Categories) > 0 {
		b.WriteString("\n")
		for _, name := range sortedCategories(m.summary.Categories) {
			stat := m.summary.Categories[name]
			fmt.Fprintf(&b, "%s: %.1f (%d words)\n", name, stat.Average, stat.Count)
		}
	}
	if m.summaryWarn != "" {
		b.WriteString("\n" + warnStyle.Render(m.summaryWarn) + "\n")
	}
	b.WriteString("\n" + hintStyle.Render("press any key to exit"))
	return b.String()
}

func sortedCategories(categories map[string]model.CategoryStat) []string {
	names := make([]string, 0, len(categories))
	for name := range categories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func scoreStyle(score float64) lipgloss.Style {
	switch {
	case score >= 80:
		return excellentStyle
	case score >= 60:
		return goodStyle
	default:
		return poorStyle
	}
}

func renderBar(score float64, width int) string {
	if width <= 0 {
		return ""
	}
	filled := int(score / 100 * float64(width))
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}
	return barFilledStyle.Render(strings.Repeat("█", filled)) +
		barEmptyStyle.Render(strings.Repeat("░", width-filled))
}

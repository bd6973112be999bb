package stats

import (
	"fmt"
	"io"
	"sort"

	"github.com/lmersch/sprooch/internal/model"
)

// RenderSummary prints aggregate numbers for the given sessions.
func RenderSummary(w io.Writer, sessions []model.SessionRecord) error {
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(w, "No completed sessions found.")
		return err
	}
	var totalOverall, totalAverage float64
	best := sessions[0].OverallScore
	var words, attempts int
	var excellent, good, fair, poor int
	for _, s := range sessions {
		totalOverall += s.OverallScore
		totalAverage += s.AverageScore
		if s.OverallScore > best {
			best = s.OverallScore
		}
		words += s.TotalWords
		attempts += s.TotalAttempts
		excellent += s.ExcellentCount
		good += s.GoodCount
		fair += s.FairCount
		poor += s.PoorCount
	}
	count := float64(len(sessions))
	if _, err := fmt.Fprintln(w, "Summary"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Sessions: %d\n", len(sessions)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Avg Score: %.1f\n", totalOverall/count); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Best Session: %.1f\n", best); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Words Practiced: %d\n", words); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Attempts: %d\n", attempts); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Excellent/Good/Fair/Poor: %d/%d/%d/%d\n", excellent, good, fair, poor); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderCategoryTable prints per-category averages sorted by lowest score.
func RenderCategoryTable(w io.Writer, categories map[string]model.CategoryStat) error {
	if len(categories) == 0 {
		_, err := fmt.Fprintln(w, "No category stats found.")
		return err
	}
	type row struct {
		name string
		stat model.CategoryStat
	}
	rows := make([]row, 0, len(categories))
	for name, stat := range categories {
		rows = append(rows, row{name: name, stat: stat})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].stat.Average == rows[j].stat.Average {
			return rows[i].name < rows[j].name
		}
		return rows[i].stat.Average < rows[j].stat.Average
	})

	if _, err := fmt.Fprintln(w, "Per-Category"); err != nil {
		return err
	}
	headers := []string{"Category", "Avg Score", "Words"}
	tableRows := make([][]string, 0, len(rows))
	for _, r := range rows {
		tableRows = append(tableRows, []string{
			r.name,
			fmt.Sprintf("%.1f", r.stat.Average),
			fmt.Sprintf("%d", r.stat.Count),
		})
	}
	rightAlign := map[int]bool{1: true, 2: true}
	for _, line := range formatTable(headers, tableRows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderWeakWords prints the words with the lowest best scores.
func RenderWeakWords(w io.Writer, aggs []model.WordAggregate, top int) error {
	if len(aggs) == 0 {
		return nil
	}
	sorted := make([]model.WordAggregate, len(aggs))
	copy(sorted, aggs)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].BestScore == sorted[j].BestScore {
			return sorted[i].Word < sorted[j].Word
		}
		return sorted[i].BestScore < sorted[j].BestScore
	})
	if top > 0 && top < len(sorted) {
		sorted = sorted[:top]
	}

	if _, err := fmt.Fprintln(w, "Weakest Words"); err != nil {
		return err
	}
	headers := []string{"Word", "Best Score", "Attempts"}
	tableRows := make([][]string, 0, len(sorted))
	for _, agg := range sorted {
		tableRows = append(tableRows, []string{
			agg.Word,
			fmt.Sprintf("%.1f", agg.BestScore),
			fmt.Sprintf("%d", agg.Attempts),
		})
	}
	rightAlign := map[int]bool{1: true, 2: true}
	for _, line := range formatTable(headers, tableRows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderScoreCurve plots session scores over time, smoothed by the
// configured window.
func RenderScoreCurve(w io.Writer, sessions []model.SessionRecord, window, totalWidth, height int, useColor bool) error {
	if len(sessions) == 0 {
		return nil
	}
	overall := make([]float64, len(sessions))
	average := make([]float64, len(sessions))
	for i, s := range sessions {
		overall[i] = s.OverallScore
		average[i] = s.AverageScore
	}
	overall = MovingAverage(overall, window)
	average = MovingAverage(average, window)

	width := 0
	if totalWidth > 0 {
		width = PlotWidthFor(totalWidth)
	}
	return PlotScores(w, "Score Curve", []Series{
		{Name: "Overall", Values: overall},
		{Name: "Average", Values: average},
	}, width, height, useColor)
}

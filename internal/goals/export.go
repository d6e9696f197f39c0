package goals

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"cofrinho/internal/core"
)

var exportHeader = []string{"nome", "valor_alvo", "valor_atual", "progresso", "prazo", "dias_restantes", "atingida"}

// ExportHeader names the columns produced by Records.
func ExportHeader() []string {
	return append([]string(nil), exportHeader...)
}

// Records renders one flat row per goal. Non-finite progress and missing
// deadlines become empty cells.
func Records(goals []core.Goal, today core.Date) [][]string {
	out := make([][]string, 0, len(goals))
	for _, v := range Views(goals, today) {
		progress := ""
		if v.Progress != nil {
			progress = strconv.FormatFloat(*v.Progress, 'f', 1, 64)
		}
		deadline, days := "", ""
		if v.Deadline != nil {
			deadline = v.Deadline.String()
			days = strconv.Itoa(*v.DaysRemaining)
		}
		out = append(out, []string{
			v.Name,
			v.Target.StringFixed(2),
			v.Current.StringFixed(2),
			progress,
			deadline,
			days,
			strconv.FormatBool(v.Achieved),
		})
	}
	return out
}

// ExportCSV writes the goals report download.
func ExportCSV(w io.Writer, goals []core.Goal, today core.Date) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	if err := cw.WriteAll(Records(goals, today)); err != nil {
		return fmt.Errorf("write csv rows: %w", err)
	}
	return nil
}

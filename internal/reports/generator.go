package reports

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/fdg312/vitalis/internal/tracker"
	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
)

// Generate renders the dashboard in the requested format.
func Generate(d tracker.Dashboard, format string) ([]byte, error) {
	switch format {
	case FormatCSV:
		return generateCSV(d)
	case FormatPDF:
		return generatePDF(d)
	case FormatXLSX:
		return generateXLSX(d)
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidFormat, format)
	}
}

// summaryRows — пары "показатель / значение", общие для всех форматов.
func summaryRows(d tracker.Dashboard) [][2]string {
	p, s, m := d.Profile, d.Stats, d.Metrics
	return [][2]string{
		{"Date", d.Date},
		{"Name", p.Name},
		{"Steps", fmt.Sprintf("%d / %d (%s%%)", s.Steps, p.StepGoal, formatFloat(m.StepsProgress))},
		{"Water (ml)", fmt.Sprintf("%d / %d (%s%%)", s.Water, p.WaterGoal, formatFloat(m.WaterProgress))},
		{"Calories consumed", strconv.Itoa(s.CaloriesConsumed)},
		{"Calories burned", strconv.Itoa(s.CaloriesBurned)},
		{"Net calories", fmt.Sprintf("%d / %d", m.NetCalories, p.CalorieGoal)},
		{"Recommended calories", strconv.Itoa(m.RecommendedCalories)},
		{"Weight (kg)", formatFloat(p.CurrentWeight)},
		{"Target weight (kg)", formatFloat(p.TargetWeight)},
		{"Weight remaining (kg)", formatFloat(m.WeightRemaining)},
		{"BMI", fmt.Sprintf("%s (%s)", formatFloat(m.BMI), m.BMIClass)},
	}
}

func generateCSV(d tracker.Dashboard) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	rows := [][]string{{"section", "name", "value", "time", "type"}}
	for _, r := range summaryRows(d) {
		rows = append(rows, []string{"summary", r[0], r[1], "", ""})
	}
	for _, meal := range d.Stats.Meals {
		rows = append(rows, []string{"meal", meal.Name, strconv.Itoa(meal.Calories), meal.Time, string(meal.Type)})
	}
	for _, ex := range d.Stats.Exercises {
		rows = append(rows, []string{"exercise", ex.Name, strconv.Itoa(ex.CaloriesBurned), ex.Time, strconv.Itoa(ex.Duration) + " min"})
	}

	if err := w.WriteAll(rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func generatePDF(d tracker.Dashboard) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Vitalis daily report "+d.Date, true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Vitalis daily report")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 10)
	for _, r := range summaryRows(d) {
		pdf.CellFormat(60, 6, tr(r[0]), "1", 0, "L", false, 0, "")
		pdf.CellFormat(100, 6, tr(r[1]), "1", 1, "L", false, 0, "")
	}
	pdf.Ln(6)

	drawTable(pdf, tr, "Meals", []string{"Time", "Name", "Type", "kcal"}, mealCells(d))
	drawTable(pdf, tr, "Exercises", []string{"Time", "Name", "Minutes", "kcal"}, exerciseCells(d))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func drawTable(pdf *gofpdf.Fpdf, tr func(string) string, title string, header []string, rows [][]string) {
	widths := []float64{20, 90, 30, 20}

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, title)
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 9)
	if len(rows) == 0 {
		pdf.Cell(0, 6, "No entries")
		pdf.Ln(10)
		return
	}
	for i, h := range header {
		pdf.CellFormat(widths[i], 6, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)
	for _, row := range rows {
		for i, cell := range row {
			pdf.CellFormat(widths[i], 6, tr(cell), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(6)
}

func generateXLSX(d tracker.Dashboard) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const summary = "Summary"
	if err := f.SetSheetName("Sheet1", summary); err != nil {
		return nil, err
	}
	for i, r := range summaryRows(d) {
		if err := setRow(f, summary, i+1, []string{r[0], r[1]}); err != nil {
			return nil, err
		}
	}
	if err := f.SetColWidth(summary, "A", "B", 28); err != nil {
		return nil, err
	}

	sheets := []struct {
		name   string
		header []string
		rows   [][]string
	}{
		{"Meals", []string{"Time", "Name", "Type", "kcal"}, mealCells(d)},
		{"Exercises", []string{"Time", "Name", "Minutes", "kcal"}, exerciseCells(d)},
	}
	for _, sh := range sheets {
		if _, err := f.NewSheet(sh.name); err != nil {
			return nil, err
		}
		if err := setRow(f, sh.name, 1, sh.header); err != nil {
			return nil, err
		}
		for i, row := range sh.rows {
			if err := setRow(f, sh.name, i+2, row); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to generate XLSX: %w", err)
	}
	return buf.Bytes(), nil
}

func setRow(f *excelize.File, sheet string, row int, values []string) error {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return err
		}
	}
	return nil
}

func mealCells(d tracker.Dashboard) [][]string {
	rows := make([][]string, 0, len(d.Stats.Meals))
	for _, m := range d.Stats.Meals {
		rows = append(rows, []string{m.Time, m.Name, string(m.Type), strconv.Itoa(m.Calories)})
	}
	return rows
}

func exerciseCells(d tracker.Dashboard) [][]string {
	rows := make([][]string, 0, len(d.Stats.Exercises))
	for _, e := range d.Stats.Exercises {
		rows = append(rows, []string{e.Time, e.Name, strconv.Itoa(e.Duration), strconv.Itoa(e.CaloriesBurned)})
	}
	return rows
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

package editor

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pterm/pterm"

	"github.com/tosih/edc15p-tool/pkg/export"
	"github.com/tosih/edc15p-tool/pkg/grid"
	"github.com/tosih/edc15p-tool/pkg/hints"
	"github.com/tosih/edc15p-tool/pkg/models"
	"github.com/tosih/edc15p-tool/pkg/renderer"
)

// CreateBackup writes a timestamped CSV copy of the grid into dir
func CreateBackup(snap grid.Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	timestamp := time.Now().Format("20060102_150405")
	backupName := filepath.Join(dir, "edc15p_grid.backup_"+timestamp+".csv")
	if err := export.WriteCSVFile(snap, backupName); err != nil {
		return "", err
	}
	return backupName, nil
}

// ParsePaste splits clipboard text into single-cell edits. Lines are
// separated by newlines and values by tabs; blank lines are dropped. Line i
// lands on the i-th display row from startRow, values from startCol
// rightwards. Targets past the grid or on read-only rows are skipped.
func ParsePaste(text string, startRow models.Row, startCol, columns int) []grid.Edit {
	first := -1
	for i, r := range models.Rows {
		if r == startRow {
			first = i
		}
	}
	if first < 0 {
		return nil
	}

	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}

	var edits []grid.Edit
	for i, line := range lines {
		if first+i >= len(models.Rows) {
			break
		}
		row := models.Rows[first+i]
		if !row.IsInput() {
			continue
		}
		for j, val := range strings.Split(line, "\t") {
			col := startCol + j
			if col < 0 || col >= columns {
				continue
			}
			edits = append(edits, grid.Edit{Row: row, Col: col, Text: strings.TrimSpace(val)})
		}
	}
	return edits
}

// ScaleRow returns the edits multiplying every present value of an input row
func ScaleRow(snap grid.Snapshot, row models.Row, multiplier float64) ([]grid.Edit, error) {
	if !row.IsInput() {
		return nil, fmt.Errorf("%w: %s", grid.ErrReadOnlyRow, row)
	}
	if multiplier < 0.5 || multiplier > 2.0 {
		return nil, fmt.Errorf("multiplier %.2f out of safe range (0.5-2.0)", multiplier)
	}
	var edits []grid.Edit
	for col := range snap.RPM {
		v := snap.Get(row, col).Value
		if !v.Valid {
			continue
		}
		scaled := row.Round(v.Float64 * multiplier)
		edits = append(edits, grid.Edit{Row: row, Col: col, Text: strconv.FormatFloat(scaled, 'f', -1, 64)})
	}
	return edits, nil
}

// InteractiveEdit provides an interactive menu for editing the grid
func InteractiveEdit(m *grid.Model, backupDir string, dryRun bool) {
	pterm.DefaultHeader.WithFullWidth().
		WithBackgroundStyle(pterm.NewStyle(pterm.BgRed)).
		WithTextStyle(pterm.NewStyle(pterm.FgBlack)).
		Println("⚠️  INTERACTIVE EDIT MODE - USE WITH EXTREME CAUTION  ⚠️")

	pterm.Warning.Println("Values outside the advised EOI and injection limits can damage the engine.")

	result, _ := pterm.DefaultInteractiveConfirm.Show("Do you understand the risks and want to proceed?")
	if !result {
		pterm.Info.Println("Edit cancelled.")
		return
	}

	unsubscribe := m.Subscribe(printChange(m))
	defer unsubscribe()

	options := []string{
		"Edit Cell",
		"Paste Values",
		"Scale Row",
		"Show Grid",
		"Show Hints",
		"Reset Grid",
		"Exit",
	}

	for {
		selectedOption, _ := pterm.DefaultInteractiveSelect.
			WithOptions(options).
			Show("Select what to do:")

		switch selectedOption {
		case "Edit Cell":
			EditCell(m, dryRun)
		case "Paste Values":
			PasteValues(m, dryRun)
		case "Scale Row":
			ScaleRowPrompt(m, backupDir, dryRun)
		case "Show Grid":
			renderer.RenderGrid(m.Snapshot(), "EDC15P ASZ")
		case "Show Hints":
			renderer.RenderRPMHints(models.Columns)
		case "Reset Grid":
			ResetGrid(m, backupDir, dryRun)
		default:
			pterm.Info.Println("Exiting edit mode.")
			return
		}
	}
}

func printChange(m *grid.Model) func(grid.Notification) {
	return func(n grid.Notification) {
		pterm.Debug.Printf("%s @ %.0f rpm → %s %s\n", n.Row, m.RPM(n.Col),
			renderer.FormatCell(n.Row, grid.Cell{Value: n.Value, Class: n.Class}), n.Class)
	}
}

func selectRow(prompt string, rows []models.Row) (models.Row, bool) {
	names := make([]string, 0, len(rows))
	for _, r := range rows {
		names = append(names, r.String())
	}
	selected, _ := pterm.DefaultInteractiveSelect.WithOptions(names).Show(prompt)
	row, err := models.ParseRow(selected)
	return row, err == nil
}

func selectColumn(m *grid.Model, prompt string) (int, bool) {
	names := make([]string, m.Columns())
	for col := range names {
		names[col] = fmt.Sprintf("%.0f rpm", m.RPM(col))
	}
	selected, _ := pterm.DefaultInteractiveSelect.WithOptions(names).WithMaxHeight(10).Show(prompt)
	for col, n := range names {
		if n == selected {
			return col, true
		}
	}
	return 0, false
}

func inputRows() []models.Row {
	var rows []models.Row
	for _, r := range models.Rows {
		if r.IsInput() {
			rows = append(rows, r)
		}
	}
	return rows
}

// EditCell prompts for an input cell and a new value
func EditCell(m *grid.Model, dryRun bool) {
	row, ok := selectRow("Select row:", inputRows())
	if !ok {
		return
	}
	col, ok := selectColumn(m, "Select column:")
	if !ok {
		return
	}

	cell, _ := m.GetCell(row, col)
	pterm.Info.Printf("Current value at %s/%.0f rpm: %s %s\n", row, m.RPM(col), renderer.FormatCell(row, cell), row.Unit())
	if h, ok := hints.ForRPM(m.RPM(col)); ok {
		pterm.Info.Println(h.String())
	}

	newValueStr, _ := pterm.DefaultInteractiveTextInput.Show("Enter new value (empty clears)")
	if row == models.IQ {
		if v := models.ParseNumber(newValueStr); v.Valid {
			renderer.RenderIQHint(v.Float64)
		}
	}

	if dryRun {
		pterm.Warning.Println("DRY RUN - No changes made")
		return
	}

	result, _ := pterm.DefaultInteractiveConfirm.Show("Write this change?")
	if !result {
		pterm.Info.Println("Cancelled.")
		return
	}

	if err := m.SetCell(row, col, newValueStr); err != nil {
		pterm.Error.Printf("Failed to write: %v\n", err)
		return
	}
	pterm.Success.Println("Cell updated successfully!")
}

// PasteValues prompts for tab separated text and applies it as a paste
func PasteValues(m *grid.Model, dryRun bool) {
	row, ok := selectRow("Paste starting at row:", models.Rows)
	if !ok {
		return
	}
	col, ok := selectColumn(m, "Paste starting at column:")
	if !ok {
		return
	}

	text, _ := pterm.DefaultInteractiveTextInput.WithMultiLine().Show("Paste values (tab separated, one row per line)")
	edits := ParsePaste(text, row, col, m.Columns())
	pterm.Info.Printf("%d cell(s) to write\n", len(edits))

	if dryRun {
		pterm.Warning.Println("DRY RUN - No changes made")
		return
	}

	applied, err := m.ApplyBulk(edits)
	if err != nil {
		pterm.Error.Printf("Paste stopped after %d cell(s): %v\n", applied, err)
		return
	}
	pterm.Success.Printf("Pasted %d cell(s)\n", applied)
}

// ScaleRowPrompt scales an entire input row by a multiplier
func ScaleRowPrompt(m *grid.Model, backupDir string, dryRun bool) {
	pterm.Info.Println("Scale an entire row by a multiplier")
	pterm.Warning.Println("This modifies ALL cells in the selected row!")

	row, ok := selectRow("Select row to scale:", inputRows())
	if !ok {
		return
	}

	multiplierStr, _ := pterm.DefaultInteractiveTextInput.Show("Enter multiplier (e.g., 1.1 for +10%, 0.9 for -10%)")
	multiplier := models.ParseNumber(multiplierStr)
	if !multiplier.Valid {
		pterm.Error.Println("Not a number")
		return
	}

	applyScale(m, row, multiplier.Float64, backupDir, dryRun)
}

func applyScale(m *grid.Model, row models.Row, multiplier float64, backupDir string, dryRun bool) {
	edits, err := ScaleRow(m.Snapshot(), row, multiplier)
	if err != nil {
		pterm.Error.Println(err)
		return
	}

	pterm.Info.Printf("Will multiply %d value(s) of %s by %.2f\n", len(edits), row, multiplier)
	if dryRun {
		pterm.Warning.Println("DRY RUN - No changes made")
		return
	}

	result, _ := pterm.DefaultInteractiveConfirm.Show("Apply this scaling?")
	if !result {
		pterm.Info.Println("Cancelled.")
		return
	}

	backup, err := CreateBackup(m.Snapshot(), backupDir)
	if err != nil {
		pterm.Error.Printf("Failed to create backup: %v\n", err)
		return
	}
	pterm.Success.Printf("Backup created: %s\n", backup)

	if _, err := m.ApplyBulk(edits); err != nil {
		pterm.Error.Printf("Failed to write: %v\n", err)
		return
	}
	pterm.Success.Println("Row scaled successfully!")
}

// ResetGrid clears the grid after a backup
func ResetGrid(m *grid.Model, backupDir string, dryRun bool) {
	selected, _ := pterm.DefaultInteractiveSelect.
		WithOptions([]string{"Keep IQ line", "Clear everything", "Cancel"}).
		Show("Reset mode:")

	scope := grid.ScopeFull
	switch selected {
	case "Keep IQ line":
	case "Clear everything":
		scope = grid.ScopeValues
	default:
		return
	}

	if dryRun {
		pterm.Warning.Println("DRY RUN - No changes made")
		return
	}

	backup, err := CreateBackup(m.Snapshot(), backupDir)
	if err != nil {
		pterm.Error.Printf("Failed to create backup: %v\n", err)
		return
	}
	pterm.Success.Printf("Backup created: %s\n", backup)

	if err := m.Reset(scope); err != nil {
		pterm.Error.Printf("Reset failed: %v\n", err)
		return
	}
	pterm.Success.Println("Grid reset")
}

// ErrUnknownPreset is returned by ApplyPreset for an unknown name
var ErrUnknownPreset = errors.New("unknown preset")

// Presets lists the predefined modifications
var Presets = map[string]struct {
	Row        models.Row
	Multiplier float64
}{
	"iq-plus5":     {Row: models.IQ, Multiplier: 1.05},
	"iq-minus5":    {Row: models.IQ, Multiplier: 0.95},
	"boost-plus5":  {Row: models.Boost, Multiplier: 1.05},
	"boost-minus5": {Row: models.Boost, Multiplier: 0.95},
}

// ApplyPreset applies a predefined modification preset
func ApplyPreset(m *grid.Model, presetName, backupDir string, dryRun bool) error {
	preset, ok := Presets[presetName]
	if !ok {
		names := make([]string, 0, len(Presets))
		for n := range Presets {
			names = append(names, n)
		}
		return fmt.Errorf("%w %q (available: %s)", ErrUnknownPreset, presetName, strings.Join(names, ", "))
	}

	pterm.DefaultHeader.WithFullWidth().
		WithBackgroundStyle(pterm.NewStyle(pterm.BgYellow)).
		WithTextStyle(pterm.NewStyle(pterm.FgBlack)).
		Println("PRESET MODIFICATION MODE")

	pterm.Warning.Println("Presets apply predefined changes. USE WITH CAUTION!")
	applyScale(m, preset.Row, preset.Multiplier, backupDir, dryRun)
	return nil
}

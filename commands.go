package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/tosih/edc15p-tool/pkg/compare"
	"github.com/tosih/edc15p-tool/pkg/editor"
	"github.com/tosih/edc15p-tool/pkg/export"
	"github.com/tosih/edc15p-tool/pkg/grid"
	"github.com/tosih/edc15p-tool/pkg/models"
	"github.com/tosih/edc15p-tool/pkg/reader"
	"github.com/tosih/edc15p-tool/pkg/renderer"
	"github.com/tosih/edc15p-tool/pkg/scanner"
	"github.com/tosih/edc15p-tool/pkg/store"
	"github.com/tosih/edc15p-tool/pkg/web"
)

func newRootCmd() (*cobra.Command, *app) {
	a := &app{}

	root := &cobra.Command{
		Use:           "edc15p",
		Short:         "EDC15P ASZ calibration grid editor",
		Long:          "Edit the IQ line of an EDC15P (1.9 TDI ASZ) and watch boost, timing, injection duration and AFR follow.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "config file (.yaml or .toml)")
	root.PersistentFlags().StringVar(&a.storePath, "store", "", "store path, overrides the config")
	root.PersistentFlags().StringVar(&a.backend, "backend", "", "store backend: memory, pebble or sqlite")

	root.AddCommand(
		newShowCmd(a),
		newSetCmd(a),
		newPasteCmd(a),
		newResetCmd(a),
		newExportCmd(a),
		newImportCmd(a),
		newCompareCmd(a),
		newTablesCmd(a),
		newScanCmd(a),
		newHintsCmd(a),
		newEditCmd(a),
		newServeCmd(a),
		newVerifyCmd(a),
	)
	return root, a
}

func header(title string) {
	pterm.DefaultHeader.WithFullWidth().
		WithBackgroundStyle(pterm.NewStyle(pterm.BgDarkGray)).
		WithTextStyle(pterm.NewStyle(pterm.FgLightWhite)).
		Println(title)
	pterm.Println()
}

func newShowCmd(a *app) *cobra.Command {
	var plain bool
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Display the editing grid",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.open()
			if err != nil {
				return err
			}
			if plain {
				fmt.Fprint(cmd.OutOrStdout(), renderer.BuildGridString(m.Snapshot(), false))
				return nil
			}
			header("EDC15P ASZ - Editing Grid")
			renderer.RenderGrid(m.Snapshot(), fmt.Sprintf("%.0f cm³ | %d cyl", a.cfg.Engine.DisplacementCm3, a.cfg.Engine.Cylinders))
			pterm.Info.Println(store.Describe(a.cfg.Store.Backend, a.store))
			return nil
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "print without colours or decorations")
	return cmd
}

func newSetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set ROW RPM [VALUE]",
		Short: "Set an input cell; an empty or missing value clears it",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.open()
			if err != nil {
				return err
			}
			row, err := models.ParseRow(args[0])
			if err != nil {
				return err
			}
			col, err := column(m, args[1])
			if err != nil {
				return err
			}
			value := ""
			if len(args) == 3 {
				value = args[2]
			}

			var changes []grid.Notification
			unsubscribe := m.Subscribe(func(n grid.Notification) { changes = append(changes, n) })
			defer unsubscribe()

			if err := m.SetCell(row, col, value); err != nil {
				return err
			}
			printChanges(m, changes)
			return nil
		},
	}
}

func printChanges(m *grid.Model, changes []grid.Notification) {
	if len(changes) == 0 {
		pterm.Info.Println("Nothing changed")
		return
	}
	data := pterm.TableData{{"Row", "RPM", "Value", "Band"}}
	for _, n := range changes {
		cell := grid.Cell{Value: n.Value, Class: n.Class}
		data = append(data, []string{
			n.Row.String(),
			fmt.Sprintf("%.0f", m.RPM(n.Col)),
			renderer.ClassStyle(n.Class).Sprint(renderer.FormatCell(n.Row, cell)),
			n.Class.String(),
		})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func newPasteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "paste ROW RPM [FILE]",
		Short: "Paste tab separated values starting at a cell (stdin when FILE is omitted or -)",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.open()
			if err != nil {
				return err
			}
			row, err := models.ParseRow(args[0])
			if err != nil {
				return err
			}
			col, err := column(m, args[1])
			if err != nil {
				return err
			}

			var in io.Reader = cmd.InOrStdin()
			if len(args) == 3 && args[2] != "-" {
				f, err := os.Open(args[2])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			text, err := io.ReadAll(in)
			if err != nil {
				return err
			}

			applied, err := m.ApplyBulk(editor.ParsePaste(string(text), row, col, m.Columns()))
			if err != nil {
				return err
			}
			pterm.Success.Printf("Pasted %d cell(s)\n", applied)
			return nil
		},
	}
}

func newResetCmd(a *app) *cobra.Command {
	var all bool
	var backupDir string
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Clear the grid, keeping the IQ line unless --all",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.open()
			if err != nil {
				return err
			}
			backup, err := editor.CreateBackup(m.Snapshot(), backupDir)
			if err != nil {
				return fmt.Errorf("backup: %w", err)
			}
			pterm.Success.Printf("Backup created: %s\n", backup)

			scope := grid.ScopeFull
			if all {
				scope = grid.ScopeValues
			}
			if err := m.Reset(scope); err != nil {
				return err
			}
			pterm.Success.Println("Grid reset")
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "clear the IQ line too")
	cmd.Flags().StringVar(&backupDir, "backup-dir", "backups", "directory for the backup written before reset")
	return cmd
}

func newExportCmd(a *app) *cobra.Command {
	var dir string
	var formats []string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the grid to CSV and/or XLSX",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.open()
			if err != nil {
				return err
			}
			return export.ExportGrid(m.Snapshot(), dir, formats)
		},
	}
	cmd.Flags().StringVarP(&dir, "dir", "o", "./exports", "export directory")
	cmd.Flags().StringSliceVarP(&formats, "format", "f", []string{"csv", "xlsx"}, "formats: csv, xlsx")
	return cmd
}

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE.csv",
		Short: "Replay the input rows of an exported CSV into the grid",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.open()
			if err != nil {
				return err
			}
			pterm.Info.Printf("Importing grid from %s\n", args[0])
			edits, err := export.ReadCSVFile(args[0])
			if err != nil {
				return err
			}
			applied, err := m.ApplyBulk(edits)
			if err != nil {
				return err
			}
			pterm.Success.Printf("Imported %d cell(s)\n", applied)
			return nil
		},
	}
}

func newCompareCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "compare FILE.csv [FILE2.csv]",
		Short: "Compare the grid (or FILE2) against an exported CSV",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			first, err := a.fromCSV(args[0])
			if err != nil {
				return err
			}
			var second grid.Snapshot
			if len(args) == 2 {
				second, err = a.fromCSV(args[1])
			} else {
				var m *grid.Model
				m, err = a.open()
				if err == nil {
					second = m.Snapshot()
				}
			}
			if err != nil {
				return err
			}

			diffs, err := compare.Snapshots(first, second)
			if err != nil {
				return err
			}
			compare.Display(diffs, first.RPM)
			return nil
		},
	}
}

func (a *app) fromCSV(filename string) (grid.Snapshot, error) {
	edits, err := export.ReadCSVFile(filename)
	if err != nil {
		return grid.Snapshot{}, err
	}
	m, err := a.scratch()
	if err != nil {
		return grid.Snapshot{}, err
	}
	if _, err := m.ApplyBulk(edits); err != nil {
		return grid.Snapshot{}, err
	}
	return m.Snapshot(), nil
}

func newTablesCmd(a *app) *cobra.Command {
	var mode, dump, only string
	cmd := &cobra.Command{
		Use:   "tables",
		Short: "List and display the calibration tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := a.loadTables()
			if err != nil {
				return err
			}
			if dump != "" {
				cfgs := models.TableConfigs
				if a.cfg.Calibration.TablesFile != "" {
					if cfgs, err = reader.ReadTables(a.cfg.Calibration.TablesFile); err != nil {
						return err
					}
				}
				if err := reader.WriteTables(dump, cfgs); err != nil {
					return err
				}
				pterm.Success.Printf("Tables written to %s\n", dump)
				return nil
			}

			renderer.ListTables(set)
			for _, t := range set.All() {
				if only != "" && !strings.EqualFold(only, t.Name()) {
					continue
				}
				pterm.Println()
				renderer.RenderTable(t, mode)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&mode, "mode", "m", "values", "display mode: values, heatmap, symbols")
	cmd.Flags().StringVar(&only, "table", "", "only display this table")
	cmd.Flags().StringVar(&dump, "dump", "", "write the tables as YAML to this file")
	return cmd
}

func newScanCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "scan",
		Short: "Show calibration table statistics and grid safety bands",
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := a.loadTables()
			if err != nil {
				return err
			}
			scanner.ScanTables(set)

			m, err := a.open()
			if err != nil {
				return err
			}
			pterm.Println()
			scanner.DisplayBands(scanner.ScanGrid(m.Snapshot()))
			return nil
		},
	}
}

func newHintsCmd(a *app) *cobra.Command {
	var iq float64
	cmd := &cobra.Command{
		Use:   "hints",
		Short: "Show rpm timing hints, and IQ volume hints with --iq",
		RunE: func(cmd *cobra.Command, args []string) error {
			renderer.RenderRPMHints(models.Columns)
			if cmd.Flags().Changed("iq") {
				pterm.Println()
				renderer.RenderIQHint(iq)
			}
			return nil
		},
	}
	cmd.Flags().Float64Var(&iq, "iq", 0, "IQ request in mg")
	return cmd
}

func newEditCmd(a *app) *cobra.Command {
	var dryRun bool
	var preset, backupDir string
	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Interactive editor, or apply a preset with --preset",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.open()
			if err != nil {
				return err
			}
			if preset != "" {
				return editor.ApplyPreset(m, preset, backupDir, dryRun)
			}
			editor.InteractiveEdit(m, backupDir, dryRun)
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show what would change without writing")
	cmd.Flags().StringVar(&preset, "preset", "", "apply a preset: iq-plus5, iq-minus5, boost-plus5, boost-minus5")
	cmd.Flags().StringVar(&backupDir, "backup-dir", "backups", "directory for backups")
	return cmd
}

func newServeCmd(a *app) *cobra.Command {
	var port int
	var noBrowser bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web editor",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.open()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("port") {
				port = a.cfg.Server.Port
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return web.NewServer(m, port, a.logger).Start(ctx, !noBrowser)
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 8080, "port for the web server")
	cmd.Flags().BoolVar(&noBrowser, "no-browser", false, "do not open a browser")
	return cmd
}

func newVerifyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Check that the stored grid reloads and recomputes to the same state",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.open()
			if err != nil {
				return err
			}
			spinner, _ := pterm.DefaultSpinner.Start("Verifying grid...")

			before := m.Fingerprint()
			changed, err := m.RecomputeAll()
			if err != nil {
				spinner.Fail("Recompute failed")
				return err
			}
			if err := m.Load(); err != nil {
				spinner.Fail("Reload failed")
				return err
			}
			after := m.Fingerprint()

			if changed != 0 || before != after {
				spinner.Fail(fmt.Sprintf("Grid is not stable: %d cell(s) changed on recompute", changed))
				return fmt.Errorf("verify failed (fingerprint %016x → %016x)", before, after)
			}
			spinner.Success(fmt.Sprintf("Grid stable, fingerprint %016x", after))
			pterm.Info.Println(store.Describe(a.cfg.Store.Backend, a.store))
			return nil
		},
	}
}

package main

import (
	"fmt"

	"github.com/pterm/pterm"

	"github.com/tosih/edc15p-tool/pkg/config"
	"github.com/tosih/edc15p-tool/pkg/derive"
	"github.com/tosih/edc15p-tool/pkg/grid"
	"github.com/tosih/edc15p-tool/pkg/logging"
	"github.com/tosih/edc15p-tool/pkg/models"
	"github.com/tosih/edc15p-tool/pkg/reader"
	"github.com/tosih/edc15p-tool/pkg/store"
	"github.com/tosih/edc15p-tool/pkg/table"
)

// app carries the state shared by the commands
type app struct {
	configPath string
	storePath  string
	backend    string

	cfg    *config.Config
	logger *pterm.Logger
	tables *table.Set
	store  store.Store
	model  *grid.Model
}

// setup loads the configuration and the logger. Flags override the file.
func (a *app) setup() error {
	cfg := config.Default()
	if a.configPath != "" {
		loaded, err := config.Load(a.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if a.backend != "" {
		cfg.Store.Backend = a.backend
	}
	if a.storePath != "" {
		cfg.Store.Path = a.storePath
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Format, nil)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger
	return nil
}

func (a *app) loadTables() (*table.Set, error) {
	if a.tables != nil {
		return a.tables, nil
	}
	set, err := reader.LoadSet(a.cfg.Calibration.TablesFile)
	if err != nil {
		return nil, fmt.Errorf("calibration tables: %w", err)
	}
	a.tables = set
	return set, nil
}

// open binds the grid to the configured store and loads it
func (a *app) open() (*grid.Model, error) {
	if a.model != nil {
		return a.model, nil
	}
	set, err := a.loadTables()
	if err != nil {
		return nil, err
	}

	st, err := store.Open(a.cfg.Store.Backend, a.cfg.Store.Path)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("store opened", a.logger.Args("backend", a.cfg.Store.Backend, "path", a.cfg.Store.Path))

	m := grid.New(derive.NewGraph(set, a.cfg.Engine, models.Columns), st, grid.Options{Logger: a.logger})
	if err := m.Load(); err != nil {
		st.Close()
		return nil, err
	}
	a.store = st
	a.model = m
	return m, nil
}

// scratch returns an empty grid over an in-memory store
func (a *app) scratch() (*grid.Model, error) {
	set, err := a.loadTables()
	if err != nil {
		return nil, err
	}
	return grid.New(derive.NewGraph(set, a.cfg.Engine, models.Columns), store.NewMemory(), grid.Options{Logger: a.logger}), nil
}

func (a *app) close() error {
	if a.store == nil {
		return nil
	}
	err := a.store.Close()
	a.store = nil
	a.model = nil
	return err
}

// column resolves an rpm label to its grid column
func column(m *grid.Model, rpm string) (int, error) {
	v := models.ParseNumber(rpm)
	if v.Valid {
		for col := 0; col < m.Columns(); col++ {
			if m.RPM(col) == v.Float64 {
				return col, nil
			}
		}
	}
	return 0, fmt.Errorf("%w: no column at %q rpm", grid.ErrUnknownColumn, rpm)
}

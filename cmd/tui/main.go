package main

import (
	"context"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/ledger/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/ledger/internal/app"
	"github.com/MrJamesThe3rd/ledger/internal/config"
)

type model struct {
	app *app.App

	currentView View

	addView        view.AddModel
	recordsView    view.RecordsModel
	budgetView     view.BudgetModel
	categoriesView view.CategoriesModel
	statsView      view.StatsModel
	importView     view.ImportModel
	exportView     view.ExportModel
}

type View int

const (
	ViewMenu View = iota
	ViewAdd
	ViewRecords
	ViewBudget
	ViewCategories
	ViewStats
	ViewImport
	ViewExport
)

func initialModel(a *app.App) model {
	return model{
		app:         a,
		currentView: ViewMenu,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.currentView == ViewMenu {
			return m.updateMenu(msg)
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewAdd:
		var newModel tea.Model
		newModel, cmd = m.addView.Update(msg)
		m.addView = newModel.(view.AddModel)
	case ViewRecords:
		var newModel tea.Model
		newModel, cmd = m.recordsView.Update(msg)
		m.recordsView = newModel.(view.RecordsModel)
	case ViewBudget:
		var newModel tea.Model
		newModel, cmd = m.budgetView.Update(msg)
		m.budgetView = newModel.(view.BudgetModel)
	case ViewCategories:
		var newModel tea.Model
		newModel, cmd = m.categoriesView.Update(msg)
		m.categoriesView = newModel.(view.CategoriesModel)
	case ViewStats:
		var newModel tea.Model
		newModel, cmd = m.statsView.Update(msg)
		m.statsView = newModel.(view.StatsModel)
	case ViewImport:
		var newModel tea.Model
		newModel, cmd = m.importView.Update(msg)
		m.importView = newModel.(view.ImportModel)
	case ViewExport:
		var newModel tea.Model
		newModel, cmd = m.exportView.Update(msg)
		m.exportView = newModel.(view.ExportModel)
	}

	return m, cmd
}

// updateMenu builds a fresh view on every entry so no state leaks between visits.
func (m model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a := m.app

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "1":
		m.currentView = ViewAdd
		m.addView = view.NewAddModel(a.Records, a.Categories, a.Methods, a.Rules)

		return m, m.addView.Init()
	case "2":
		m.currentView = ViewRecords
		m.recordsView = view.NewRecordsModel(a.Records, a.Categories, a.Methods)

		return m, m.recordsView.Init()
	case "3":
		m.currentView = ViewBudget
		m.budgetView = view.NewBudgetModel(a.Budgets, a.DefaultThreshold)

		return m, m.budgetView.Init()
	case "4":
		m.currentView = ViewCategories
		m.categoriesView = view.NewCategoriesModel(a.Categories, a.Methods)

		return m, m.categoriesView.Init()
	case "5":
		m.currentView = ViewStats
		m.statsView = view.NewStatsModel(a.Stats)

		return m, m.statsView.Init()
	case "6":
		m.currentView = ViewImport
		m.importView = view.NewImportModel(a.Records, a.Importer)

		return m, m.importView.Init()
	case "7":
		m.currentView = ViewExport
		m.exportView = view.NewExportModel(a.Exporter)

		return m, m.exportView.Init()
	}

	return m, nil
}

var helpStyle = lipgloss.NewStyle().Faint(true).PaddingLeft(2)

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"Ledger\n\n" +
				"1. Add Record\n" +
				"2. Records\n" +
				"3. Budget\n" +
				"4. Categories & Payment Methods\n" +
				"5. Statistics\n" +
				"6. Import Bill\n" +
				"7. Export Records\n\n" +
				"q. Quit",
		)
	case ViewAdd:
		return m.addView.View() + "\n" + helpStyle.Render(m.addView.ShortHelp())
	case ViewRecords:
		return m.recordsView.View() + "\n" + helpStyle.Render(m.recordsView.ShortHelp())
	case ViewBudget:
		return m.budgetView.View() + "\n" + helpStyle.Render(m.budgetView.ShortHelp())
	case ViewCategories:
		return m.categoriesView.View() + "\n" + helpStyle.Render(m.categoriesView.ShortHelp())
	case ViewStats:
		return m.statsView.View() + "\n" + helpStyle.Render(m.statsView.ShortHelp())
	case ViewImport:
		return m.importView.View() + "\n" + helpStyle.Render(m.importView.ShortHelp())
	case ViewExport:
		return m.exportView.View() + "\n" + helpStyle.Render(m.exportView.ShortHelp())
	}

	return "Unknown View"
}

func main() {
	// The terminal belongs to the UI, so logs go to a file when DEBUG is set and nowhere otherwise.
	if os.Getenv("DEBUG") != "" {
		f, err := tea.LogToFile("ledger-tui.log", "ledger")
		if err != nil {
			slog.Error("failed to open log file", "error", err)
			os.Exit(1)
		}
		defer f.Close()
	} else {
		slog.SetDefault(slog.New(slog.DiscardHandler))
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	a, err := app.Open(context.Background(), cfg)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	p := tea.NewProgram(initialModel(a), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}

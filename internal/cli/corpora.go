package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/fieldlab/corpusgraph/pkg/corpus"
	"github.com/fieldlab/corpusgraph/pkg/store"
)

// corporaCommand creates the corpora command group for managing stored
// corpora.
func (c *CLI) corporaCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "corpora",
		Short: "Manage stored corpora",
	}

	cmd.AddCommand(c.corporaListCommand())
	cmd.AddCommand(c.corporaAddCommand())
	cmd.AddCommand(c.corporaDeleteCommand())

	return cmd
}

// corporaListCommand creates the "corpora list" subcommand.
func (c *CLI) corporaListCommand() *cobra.Command {
	var (
		configPath string
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored corpora",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openConfiguredStore(cmd.Context(), configPath)
			if err != nil {
				return err
			}
			defer func() { _ = st.Close(context.Background()) }()

			infos, err := st.List(cmd.Context())
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(infos)
			}

			if len(infos) == 0 {
				printInfo("No corpora stored")
				return nil
			}

			model := newCorpusListModel(infos)
			final, err := tea.NewProgram(model).Run()
			if err != nil {
				return err
			}
			if m, ok := final.(corpusListModel); ok && m.Selected != nil {
				printCorpusInfo(*m.Selected)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "TOML config file")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the listing as JSON")
	return cmd
}

// corporaAddCommand creates the "corpora add" subcommand.
func (c *CLI) corporaAddCommand() *cobra.Command {
	var (
		configPath string
		name       string
	)

	cmd := &cobra.Command{
		Use:   "add [records.json]",
		Short: "Store a raw payload as a corpus",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := corpus.ReadRawFile(args[0])
			if err != nil {
				return err
			}
			if name == "" {
				name = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
			}

			st, err := openConfiguredStore(cmd.Context(), configPath)
			if err != nil {
				return err
			}
			defer func() { _ = st.Close(context.Background()) }()

			corp := &store.Corpus{Name: name, Raw: *raw}
			if err := st.Save(cmd.Context(), corp); err != nil {
				return err
			}

			printSuccess("Stored corpus %s", corp.Name)
			printDetail("id: %s", corp.ID)
			printStats(corp.NodeCount, corp.EdgeCount, false)
			printNextStep("Build it", "corpusgraph serve  # then GET /api/corpora/"+corp.ID+"/graph")
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "TOML config file")
	cmd.Flags().StringVar(&name, "name", "", "corpus name (default: input file name)")
	return cmd
}

// corporaDeleteCommand creates the "corpora delete" subcommand.
func (c *CLI) corporaDeleteCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a stored corpus",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openConfiguredStore(cmd.Context(), configPath)
			if err != nil {
				return err
			}
			defer func() { _ = st.Close(context.Background()) }()

			if err := st.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			printSuccess("Deleted corpus %s", args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "TOML config file")
	return cmd
}

// openConfiguredStore opens the store selected by the config file.
func openConfiguredStore(ctx context.Context, configPath string) (store.Store, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, err
	}
	return openStore(ctx, cfg.Store)
}

// printCorpusInfo prints the details of one corpus.
func printCorpusInfo(info store.Info) {
	printKeyValue("id", info.ID)
	printKeyValue("name", info.Name)
	printKeyValue("nodes", strconv.Itoa(info.NodeCount))
	printKeyValue("edges", strconv.Itoa(info.EdgeCount))
	printKeyValue("created", info.CreatedAt.Format(time.RFC3339))
	printKeyValue("updated", info.UpdatedAt.Format(time.RFC3339))
}

// =============================================================================
// corpusListModel - Interactive corpus selection
// =============================================================================

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// corpusListModel is the bubbletea model for interactive corpus selection.
type corpusListModel struct {
	Corpora  []store.Info
	Cursor   int
	Selected *store.Info
	Height   int
	Offset   int
}

// newCorpusListModel creates a new corpus list model.
func newCorpusListModel(infos []store.Info) corpusListModel {
	return corpusListModel{
		Corpora: infos,
		Height:  15,
	}
}

func (m corpusListModel) Init() tea.Cmd {
	return nil
}

func (m corpusListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Corpora)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			info := m.Corpora[m.Cursor]
			m.Selected = &info
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m corpusListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Stored Corpora"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Corpora) {
		end = len(m.Corpora)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		info := m.Corpora[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		rows = append(rows, []string{
			cursor,
			info.Name,
			info.ID,
			strconv.Itoa(info.NodeCount),
			strconv.Itoa(info.EdgeCount),
			formatRelativeTime(info.UpdatedAt),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Name", "ID", "Nodes", "Edges", "Updated").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
			}
			if col == 2 || col == 5 {
				return lipgloss.NewStyle().Foreground(colorDim)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Corpora))))

	return b.String()
}

// formatRelativeTime renders a timestamp as a short "ago" string.
func formatRelativeTime(t time.Time) string {
	if t.IsZero() {
		return "—"
	}

	diff := time.Since(t)
	switch {
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}

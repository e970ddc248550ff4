package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/iancoleman/strcase"
	"github.com/spf13/cobra"
	"github.com/takuoki/gocase"

	pb "palbot/palbot"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Padding(0, 1)
	nameStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

var trayColumns = []string{"name", "kind", "columns", "rows", "max_position", "distance_x", "distance_y", "depth", "volume", "members"}

var showCoords bool

var traysCmd = &cobra.Command{
	Use:   "trays",
	Short: "lists the trays of the current setup",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		layout, err := loadLayout()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), trayTable(layout))
		return nil
	},
}

var trayMapCmd = &cobra.Command{
	Use:   "map <tray>",
	Short: "shows how positions are numbered on a tray",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		layout, err := loadLayout()
		if err != nil {
			return err
		}
		dir, err := addressing()
		if err != nil {
			return err
		}
		out, err := trayMap(layout, args[0], dir, showCoords)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

func header(key string) string {
	return gocase.To(strcase.ToCamel(key))
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func trayTable(layout *pb.Layout) string {
	headers := make([]string, len(trayColumns))
	for i, c := range trayColumns {
		headers[i] = header(c)
	}

	rows := make([][]string, 0, layout.Len())
	for _, t := range layout.Trays() {
		row := []string{t.Name(), "grid", strconv.Itoa(t.Columns()), strconv.Itoa(t.Rows()),
			strconv.Itoa(t.MaxPosition()), "", "", num(t.Depth()), num(t.Volume()), ""}
		switch t := t.(type) {
		case *pb.Grid:
			row[5], row[6] = num(t.DistanceX()), num(t.DistanceY())
		case *pb.Composite:
			row[1] = "combined"
			row[9] = strings.Join(t.MemberNames(), ", ")
		}
		rows = append(rows, row)
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(dimStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0:
				return nameStyle
			default:
				return cellStyle
			}
		}).
		Render()
}

// trayMap draws each physical tray as seen from above with its position
// numbers, one table per member for combined trays.
func trayMap(layout *pb.Layout, name string, dir pb.Direction, coords bool) (string, error) {
	t, err := layout.Tray(name)
	if err != nil {
		return "", err
	}
	var members []*pb.Grid
	switch t := t.(type) {
	case *pb.Grid:
		members = []*pb.Grid{t}
	case *pb.Composite:
		members = t.Members()
	}

	var sb strings.Builder
	for i, g := range members {
		offset := i * g.MaxPosition()
		cells := g.Cells()
		rows := make([][]string, len(cells))
		for r, line := range cells {
			rows[r] = make([]string, len(line))
			for c, p := range line {
				label := strconv.Itoa(offset + g.Number(c, r, dir))
				if coords {
					label += " " + p.String()
				}
				rows[r][c] = label
			}
		}
		fmt.Fprintf(&sb, "%s (%s, numbered by %s)\n", g.Name(), name, dir)
		sb.WriteString(table.New().
			Border(lipgloss.NormalBorder()).
			BorderStyle(dimStyle).
			Rows(rows...).
			StyleFunc(func(row, col int) lipgloss.Style { return cellStyle }).
			Render())
		sb.WriteString("\n\n")
	}
	return sb.String(), nil
}

func init() {
	trayMapCmd.Flags().BoolVar(&showCoords, "coords", false, "print coordinates next to each position")
	traysCmd.AddCommand(trayMapCmd)
	rootCmd.AddCommand(traysCmd)
}

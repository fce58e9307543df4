package report

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/xuri/excelize/v2"
)

// Sheet names of the workbook written by WriteXLSX.
const (
	SheetEvaluation = "Evaluation"
	SheetMembership = "Membership"
)

// formatFloat prints v with the given decimals; NaN and ±Inf are spelled out.
func formatFloat(v float64, places int) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "+Inf"
	case math.IsInf(v, -1):
		return "-Inf"
	}

	return strconv.FormatFloat(v, 'f', places, 64)
}

// WriteValidityTable renders one row per evaluation: cluster count, MPC, PC, PE, XB.
func WriteValidityTable(w io.Writer, evals []*Evaluation) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Clusters", "MPC", "PC", "PE", "XB", "Iterations", "Status"})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	for _, ev := range evals {
		v := ev.Validity
		table.Append([]string{
			strconv.Itoa(v.Clusters),
			formatFloat(v.MPC, 4),
			formatFloat(v.PC, 4),
			formatFloat(v.PE, 4),
			formatFloat(v.XB, 4),
			strconv.Itoa(ev.Iterations),
			ev.Status,
		})
	}
	table.Render()
}

// WriteMembershipTable renders the degree table of one evaluation.
func WriteMembershipTable(w io.Writer, ev *Evaluation) {
	header := []string{"Series", "Cluster"}
	for j := 1; j <= ev.Params.Clusters; j++ {
		header = append(header, fmt.Sprintf("Cluster %d", j))
	}
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	for _, m := range ev.Memberships {
		row := []string{m.Name, strconv.Itoa(m.Cluster)}
		for _, d := range m.Degrees {
			row = append(row, formatFloat(d, DegreePlaces))
		}
		table.Append(row)
	}
	table.Render()
}

// WriteText renders the validity row followed by the membership table.
func WriteText(w io.Writer, ev *Evaluation) {
	fmt.Fprintf(w, "run %s\n", ev.RunID)
	WriteValidityTable(w, []*Evaluation{ev})
	WriteMembershipTable(w, ev)
}

// WriteAlignment renders a pairwise DTW alignment summary.
func WriteAlignment(w io.Writer, pa PairAlignment) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Series A", "Series B", "DTW distance", "Path length"})
	table.Append([]string{pa.A, pa.B, formatFloat(pa.Distance, 4), strconv.Itoa(len(pa.Path))})
	table.Render()
}

// jsonFloat encodes NaN and ±Inf as null, which encoding/json rejects otherwise.
type jsonFloat float64

// MarshalJSON implements json.Marshaler.
func (f jsonFloat) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []byte("null"), nil
	}

	return json.Marshal(v)
}

type jsonValidity struct {
	Clusters int       `json:"clusters"`
	MPC      jsonFloat `json:"mpc"`
	PC       jsonFloat `json:"pc"`
	PE       jsonFloat `json:"pe"`
	XB       jsonFloat `json:"xb"`
}

type jsonMembership struct {
	Name    string      `json:"name"`
	Cluster int         `json:"cluster"`
	Degrees []jsonFloat `json:"degrees"`
}

type jsonEvaluation struct {
	RunID       string           `json:"run_id"`
	Params      Params           `json:"params"`
	Validity    jsonValidity     `json:"validity"`
	Memberships []jsonMembership `json:"memberships"`
	Status      string           `json:"status"`
	Iterations  int              `json:"iterations"`
	Objective   jsonFloat        `json:"objective"`
	Degenerate  bool             `json:"degenerate,omitempty"`
	Centroids   [][]jsonFloat    `json:"centroids,omitempty"`
}

func toJSON(ev *Evaluation, withCentroids bool) jsonEvaluation {
	v := ev.Validity
	out := jsonEvaluation{
		RunID:  ev.RunID.String(),
		Params: ev.Params,
		Validity: jsonValidity{
			Clusters: v.Clusters,
			MPC:      jsonFloat(v.MPC),
			PC:       jsonFloat(v.PC),
			PE:       jsonFloat(v.PE),
			XB:       jsonFloat(v.XB),
		},
		Status:     ev.Status,
		Iterations: ev.Iterations,
		Objective:  jsonFloat(ev.Objective),
		Degenerate: ev.Degenerate,
	}
	for _, m := range ev.Memberships {
		jm := jsonMembership{Name: m.Name, Cluster: m.Cluster, Degrees: make([]jsonFloat, len(m.Degrees))}
		for j, d := range m.Degrees {
			jm.Degrees[j] = jsonFloat(d)
		}
		out.Memberships = append(out.Memberships, jm)
	}
	if withCentroids && ev.Result != nil {
		for _, c := range ev.Result.Centroids {
			row := make([]jsonFloat, len(c))
			for k, x := range c {
				row[k] = jsonFloat(x)
			}
			out.Centroids = append(out.Centroids, row)
		}
	}

	return out
}

// WriteJSON encodes the evaluations as an indented JSON array. Non-finite
// numbers become null.
func WriteJSON(w io.Writer, evals []*Evaluation, withCentroids bool) error {
	docs := make([]jsonEvaluation, len(evals))
	for i, ev := range evals {
		docs[i] = toJSON(ev, withCentroids)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(docs); err != nil {
		return fmt.Errorf("report: encode json: %w", err)
	}

	return nil
}

// WriteXLSX writes an Evaluation sheet (one row per run) and a Membership
// sheet (one block per run) into a new workbook.
func WriteXLSX(w io.Writer, evals []*Evaluation) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetEvaluation); err != nil {
		return fmt.Errorf("report: xlsx: %w", err)
	}
	if _, err := f.NewSheet(SheetMembership); err != nil {
		return fmt.Errorf("report: xlsx: %w", err)
	}

	evalHeader := []any{"Run", "Clusters", "MPC", "PC", "PE", "XB", "Iterations", "Status"}
	if err := f.SetSheetRow(SheetEvaluation, "A1", &evalHeader); err != nil {
		return fmt.Errorf("report: xlsx: %w", err)
	}
	row := 1
	for i, ev := range evals {
		v := ev.Validity
		cells := []any{ev.RunID.String(), v.Clusters, xlsxNumber(v.MPC), xlsxNumber(v.PC),
			xlsxNumber(v.PE), xlsxNumber(v.XB), ev.Iterations, ev.Status}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(SheetEvaluation, cell, &cells); err != nil {
			return fmt.Errorf("report: xlsx: %w", err)
		}

		// Membership block: header, one row per series, blank separator.
		header := []any{"Run", "Series", "Cluster"}
		for j := 1; j <= ev.Params.Clusters; j++ {
			header = append(header, fmt.Sprintf("Cluster %d", j))
		}
		cell, _ = excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(SheetMembership, cell, &header); err != nil {
			return fmt.Errorf("report: xlsx: %w", err)
		}
		row++
		for _, m := range ev.Memberships {
			cells := []any{ev.RunID.String(), m.Name, m.Cluster}
			for _, d := range m.Degrees {
				cells = append(cells, xlsxNumber(d))
			}
			cell, _ = excelize.CoordinatesToCellName(1, row)
			if err := f.SetSheetRow(SheetMembership, cell, &cells); err != nil {
				return fmt.Errorf("report: xlsx: %w", err)
			}
			row++
		}
		row++
	}
	if err := f.SetColWidth(SheetEvaluation, "A", "A", 38); err != nil {
		return fmt.Errorf("report: xlsx: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("report: xlsx: %w", err)
	}

	return nil
}

// xlsxNumber keeps finite values numeric and spells out the rest.
func xlsxNumber(v float64) any {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return formatFloat(v, 0)
	}

	return v
}

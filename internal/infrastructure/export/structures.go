// Package export renders compound lists as downloadable CSV and SDF text.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/turtacn/ayush-docknet/internal/domain/research"
	apperrors "github.com/turtacn/ayush-docknet/pkg/errors"
)

// Formats understood by Render.
const (
	FormatCSV = "csv"
	FormatSDF = "sdf"
)

// ContentType returns the MIME type of format.
func ContentType(format string) string {
	switch format {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatSDF:
		return "chemical/x-mdl-sdfile"
	}
	return "application/octet-stream"
}

var csvHeader = []string{"id", "name", "source", "smiles", "molecular_formula", "molecular_weight", "inchi"}

// Exporter implements research.StructureExporter.
type Exporter struct{}

var _ research.StructureExporter = Exporter{}

// NewExporter returns an Exporter.
func NewExporter() Exporter { return Exporter{} }

// ToCSV writes one row per compound under a fixed header.
func (Exporter) ToCSV(compounds []research.Compound) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrCodeSerialization, "write csv header")
	}
	for _, c := range compounds {
		row := []string{c.ID, c.Name, c.Source, c.SMILES, c.Formula, formatWeight(c.MolecularWeight), c.InChI}
		if err := w.Write(row); err != nil {
			return "", apperrors.Wrap(err, apperrors.ErrCodeSerialization, "write csv row")
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrCodeSerialization, "flush csv")
	}
	return buf.String(), nil
}

// ToSDF writes one V2000 record per compound.  Records carry no atom block
// (coordinates are not available); identifiers and properties travel as SD
// data items.
func (Exporter) ToSDF(compounds []research.Compound) (string, error) {
	var b strings.Builder
	for _, c := range compounds {
		if strings.ContainsAny(c.Name, "\r\n") {
			return "", apperrors.Validation("name", fmt.Sprintf("compound %q has a multi-line name", c.ID))
		}
		b.WriteString(c.Name)
		b.WriteString("\n  docknet\n\n")
		b.WriteString("  0  0  0  0  0  0  0  0  0  0999 V2000\n")
		b.WriteString("M  END\n")
		writeItem(&b, "ID", c.ID)
		writeItem(&b, "SOURCE", c.Source)
		writeItem(&b, "SMILES", c.SMILES)
		writeItem(&b, "FORMULA", c.Formula)
		if c.MolecularWeight > 0 {
			writeItem(&b, "MW", formatWeight(c.MolecularWeight))
		}
		writeItem(&b, "INCHI", c.InChI)
		b.WriteString("$$$$\n")
	}
	return b.String(), nil
}

// Render dispatches on format.
func Render(exp research.StructureExporter, format string, compounds []research.Compound) (string, error) {
	switch strings.ToLower(format) {
	case FormatCSV:
		return exp.ToCSV(compounds)
	case FormatSDF:
		return exp.ToSDF(compounds)
	}
	return "", apperrors.Validation("format", fmt.Sprintf("unsupported export format %q", format))
}

func writeItem(b *strings.Builder, name, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(b, ">  <%s>\n%s\n\n", name, value)
}

func formatWeight(w float64) string {
	if w == 0 {
		return ""
	}
	return strconv.FormatFloat(w, 'f', 2, 64)
}

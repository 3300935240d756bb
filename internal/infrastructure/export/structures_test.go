package export

import (
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/ayush-docknet/internal/domain/research"
	"github.com/turtacn/ayush-docknet/pkg/errors"
)

var compounds = []research.Compound{
	{ID: "1", Name: "Curcumin", Source: "PubChem", SMILES: `O=C(\C=C\c1ccc(O)c(OC)c1)CC(=O)\C=C\c1ccc(O)c(OC)c1`, Formula: "C21H20O6", MolecularWeight: 368.38},
	{ID: "smi-2", Name: "Compound, with comma", SMILES: "CC(=O)Oc1ccccc1C(=O)O"},
}

func TestToCSV(t *testing.T) {
	out, err := NewExporter().ToCSV(compounds)
	require.NoError(t, err)

	rows, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, csvHeader, rows[0])
	assert.Equal(t, "368.38", rows[1][5])
	assert.Equal(t, "Compound, with comma", rows[2][1])
	assert.Equal(t, "", rows[2][5])
}

func TestToSDF(t *testing.T) {
	out, err := NewExporter().ToSDF(compounds)
	require.NoError(t, err)

	assert.Equal(t, 2, strings.Count(out, "$$$$\n"))
	assert.Equal(t, 2, strings.Count(out, "M  END\n"))
	assert.True(t, strings.HasPrefix(out, "Curcumin\n"))
	assert.Contains(t, out, ">  <MW>\n368.38\n")
	assert.Contains(t, out, ">  <SMILES>\nCC(=O)Oc1ccccc1C(=O)O\n")
	assert.NotContains(t, strings.Split(out, "$$$$")[1], "<MW>")
}

func TestToSDF_RejectsMultilineName(t *testing.T) {
	_, err := NewExporter().ToSDF([]research.Compound{{ID: "x", Name: "a\nb"}})
	assert.True(t, errors.IsValidation(err))
}

func TestRender(t *testing.T) {
	csvOut, err := Render(NewExporter(), "CSV", compounds)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(csvOut, "id,name"))

	_, err = Render(NewExporter(), "xlsx", compounds)
	assert.True(t, errors.IsValidation(err))

	assert.Equal(t, "text/csv; charset=utf-8", ContentType(FormatCSV))
	assert.Equal(t, "chemical/x-mdl-sdfile", ContentType(FormatSDF))
}

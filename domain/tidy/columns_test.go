package tidy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripSuffix(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"X.12", "X"},
		{"X", "X"},
		{"X.12.3", "X.12"},
		{"Arbeitslosenquote Jüngere.1", "Arbeitslosenquote Jüngere"},
		{"Quote.", "Quote."},
		{"Quote.a1", "Quote.a1"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, StripSuffix(tt.in))
		})
	}
}

func TestPartitionColumns(t *testing.T) {
	ids, values := PartitionColumns(
		[]string{"Kennziffer", "Raumeinheit", "A", "A.1", "B"},
		[]string{"Kennziffer", "Raumeinheit"},
	)
	assert.Equal(t, []string{"Kennziffer", "Raumeinheit"}, ids)
	assert.Equal(t, []string{"A", "A.1", "B"}, values)

	ids, values = PartitionColumns([]string{"Raumeinheit", "A"}, []string{"Kennziffer", "Raumeinheit"})
	assert.Equal(t, []string{"Raumeinheit"}, ids)
	assert.Equal(t, []string{"A"}, values)
}

func TestRegexPattern(t *testing.T) {
	p, err := NewRegexPattern(DefaultArtifactPattern)
	require.NoError(t, err)

	assert.True(t, p.Matches("Unnamed: 2"))
	assert.False(t, p.Matches("Arbeitslosenquote"))
	assert.False(t, p.Matches("Column Unnamed"))

	_, err = NewRegexPattern("(")
	assert.Error(t, err)
}

func TestColumnYears(t *testing.T) {
	years := ColumnYears{"A": 2019, "B": 2020}

	assert.Equal(t, []string{"A", "B"}, years.Mapped([]string{"A", "C", "B"}))
	assert.Equal(t, []string{"C"}, years.Unmapped([]string{"A", "C", "B"}))
}

func TestRawTablePruneKeepsMetadataAligned(t *testing.T) {
	table := &RawTable{
		Columns: []string{"Kennziffer", "Unnamed: 1", "A"},
		Rows: [][]string{
			{"", "", "2019"},
			{"1", "", "3,5"},
		},
	}
	meta := table.MetadataRow()

	pruned, dropped := table.Prune(MustRegexPattern(DefaultArtifactPattern))

	assert.Equal(t, []string{"Unnamed: 1"}, dropped)
	assert.Equal(t, []string{"Kennziffer", "A"}, pruned.Columns)
	assert.Equal(t, "2019", meta["A"])
	assert.Equal(t, "2019", pruned.MetadataRow()["A"])
	assert.Equal(t, []string{"3,5"}, pruned.Column("A"))
	assert.Equal(t, []string{"Kennziffer", "Unnamed: 1", "A"}, table.Columns, "source table is not mutated")
}

func TestYearsAndFilter(t *testing.T) {
	records := []Record{
		{Region: "a", Year: 2023, Variable: "X"},
		{Region: "a", Year: 2019, Variable: "Y"},
		{Region: "b", Year: 2023, Variable: "X"},
	}
	assert.Equal(t, []int{2019, 2023}, Years(records))
	assert.Len(t, FilterVariables(records, "X"), 2)
	assert.Empty(t, FilterVariables(records, "Z"))
}

package columns

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/campus-events/backend/internal/models"
)

func namedRow(name, school string) Row {
	return Row{Fields: map[string]string{"name": name, "school": school}, CustomData: map[string]any{}}
}

func TestApplyConjunction(t *testing.T) {
	items := []string{"ananya", "bharat", "chitra"}
	rows := []Row{
		namedRow("Ananya Rao", "Springfield High"),
		namedRow("Bharat Iyer", "Springfield High"),
		namedRow("Chitra Menon", "Riverdale Academy"),
	}

	tests := []struct {
		name    string
		filters []Filter
		want    []string
	}{
		{
			name:    "no filters returns full set",
			filters: nil,
			want:    []string{"ananya", "bharat", "chitra"},
		},
		{
			name:    "contains is case insensitive",
			filters: []Filter{{ColumnID: "name", Operator: OpContains, Value: "RAO"}},
			want:    []string{"ananya"},
		},
		{
			name: "all filters must match",
			filters: []Filter{
				{ColumnID: "school", Operator: OpEquals, Value: "springfield high"},
				{ColumnID: "name", Operator: OpContains, Value: "iyer"},
			},
			want: []string{"bharat"},
		},
		{
			name: "row failing one filter is excluded",
			filters: []Filter{
				{ColumnID: "school", Operator: OpIs, Value: "Riverdale Academy"},
				{ColumnID: "name", Operator: OpContains, Value: "ananya"},
			},
			want: []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Apply(items, rows, tt.filters, nil)
			assert.ElementsMatch(t, tt.want, got)
		})
	}
}

func TestApplyCustomColumnFilter(t *testing.T) {
	col := models.CustomColumn{
		ID:       uuid.New(),
		Target:   models.TargetParticipants,
		Name:     "T-Shirt Size",
		DataType: models.ColumnDropdown,
		Options:  []string{"S", "M", "L"},
	}
	items := []int{1, 2}
	rows := []Row{
		{Fields: map[string]string{}, CustomData: map[string]any{col.ID.String(): "M"}},
		{Fields: map[string]string{}, CustomData: map[string]any{}},
	}
	filters := []Filter{{ColumnID: col.ID.String(), Operator: OpEquals, Value: "m", IsCustom: true}}

	got := Apply(items, rows, filters, []models.CustomColumn{col})
	assert.Equal(t, []int{1}, got)
}

func TestResolveDefaultRoundTrip(t *testing.T) {
	// a backfilled default and an absent key must resolve identically
	col := &models.CustomColumn{
		ID:           uuid.New(),
		DataType:     models.ColumnNumber,
		DefaultValue: "42",
	}
	backfilled := Resolve(col, map[string]any{col.ID.String(): float64(42)})
	absent := Resolve(col, map[string]any{})
	assert.Equal(t, backfilled, absent)
	assert.Equal(t, "42", absent.String())
}

func TestResolveZeroValues(t *testing.T) {
	tests := []struct {
		dataType models.ColumnType
		want     string
	}{
		{models.ColumnText, ""},
		{models.ColumnNumber, "0"},
		{models.ColumnCheckbox, "false"},
		{models.ColumnDropdown, ""},
	}
	for _, tt := range tests {
		col := &models.CustomColumn{ID: uuid.New(), DataType: tt.dataType}
		got := Resolve(col, map[string]any{})
		assert.Equal(t, tt.want, got.String(), string(tt.dataType))
	}
}

func TestValidateDefinition(t *testing.T) {
	tests := []struct {
		name     string
		colName  string
		dataType string
		target   string
		options  []string
		wantErr  bool
	}{
		{"text column ok", "Notes", "text", "participants", nil, false},
		{"dropdown with options ok", "Size", "dropdown", "participants", []string{"S", "M"}, false},
		{"dropdown without options rejected", "Size", "dropdown", "participants", nil, true},
		{"blank name rejected", "  ", "text", "participants", nil, true},
		{"unknown type rejected", "X", "date", "participants", nil, true},
		{"unknown target rejected", "X", "text", "rooms", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDefinition(tt.colName, tt.dataType, tt.target, tt.options)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestVisibleTo(t *testing.T) {
	owner := uuid.New()
	other := uuid.New()

	private := &models.CustomColumn{OwnerID: owner, Scope: models.ScopeMeOnly}
	shared := &models.CustomColumn{OwnerID: owner, Scope: models.ScopeAllAdmins}

	assert.True(t, VisibleTo(private, owner, string(models.RoleOrganizer)))
	assert.False(t, VisibleTo(private, other, string(models.RoleAdmin)))
	assert.True(t, VisibleTo(shared, other, string(models.RoleOverallHead)))
	assert.False(t, VisibleTo(shared, other, string(models.RoleStudent)))
}

func TestParseDropdownRejectsUnknownOption(t *testing.T) {
	col := &models.CustomColumn{Name: "Size", DataType: models.ColumnDropdown, Options: []string{"S", "M", "L"}}
	_, err := Parse(col, "XL")
	assert.Error(t, err)

	v, err := Parse(col, "M")
	assert.NoError(t, err)
	assert.Equal(t, "M", v.Text)
}

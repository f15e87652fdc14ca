package db

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordMarshalKeepsColumnOrder(t *testing.T) {
	r := Record{
		Columns: []string{"Z", "A", "M"},
		Values:  []Value{Int(1), Text("a"), Null()},
	}

	out, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Equal(t, `{"Z":1,"A":"a","M":null}`, string(out))
}

func TestRecordGet(t *testing.T) {
	r := Record{Columns: []string{"ID"}, Values: []Value{Int(9)}}

	v, ok := r.Get("ID")
	require.True(t, ok)
	assert.Equal(t, "9", v.String())

	_, ok = r.Get("NAME")
	assert.False(t, ok)
}

func TestRowsNamesDeduplicates(t *testing.T) {
	rows := &Rows{Columns: []Column{
		{Name: "ID"}, {Name: "ID"}, {Name: "ID_1"}, {Name: "ID"},
	}}

	assert.Equal(t, []string{"ID", "ID_2", "ID_1", "ID_3"}, rows.Names())
}

func TestRowsRecords(t *testing.T) {
	rows := &Rows{
		Columns: []Column{{Name: "ID"}, {Name: "RAW_COL"}},
		Data: []Row{
			{Int(1), Binary([]byte{0xab, 0xcd})},
			{Int(2), Null()},
		},
	}

	records := rows.Records()
	require.Len(t, records, 2)
	assert.Equal(t, map[string]any{"ID": json.Number("1"), "RAW_COL": "ABCD"}, records[0].Map())
	assert.Equal(t, map[string]any{"ID": json.Number("2"), "RAW_COL": nil}, records[1].Map())
}

func TestDescriptorStringOmitsPassword(t *testing.T) {
	d := Descriptor{Driver: "oracle", User: "scott", Password: "tiger", ConnectTarget: "db:1521/ORCL"}

	assert.Equal(t, "oracle://scott@db:1521/ORCL", d.String())
	assert.NotContains(t, d.String(), "tiger")
	assert.Equal(t, "default://scott@db", Descriptor{User: "scott", ConnectTarget: "db"}.String())
}

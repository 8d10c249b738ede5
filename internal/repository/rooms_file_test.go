package repository

import (
	"os"
	"path/filepath"
	"testing"

	"poli-assistant/internal/model"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func writeDataset(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadRoomsFileJSON(t *testing.T) {
	content := "\ufeff" + `[
		{"building": 1, "number": 101, "names_en": ["Library", "Reading hall"], "floor": "1", "wing_en": "east", "street_en": "12 Bandery St", "code": 114},
		{"building": " 1 ", "number": "204a", "names_en": [], "floor": 2, "code": "205"},
		{"building": "", "number": "300", "names_en": ["Orphan"]},
		{"building": "1", "names_en": ["No number"]}
	]`
	path := writeDataset(t, "poly_data.json", content)

	rooms, err := LoadRoomsFile(path)
	require.NoError(t, err)

	want := []model.RoomRecord{
		{Building: "1", Number: "101", Names: model.JSONArray{"Library", "Reading hall"}, Floor: "1", Wing: "east", Street: "12 Bandery St", Code: 114},
		{Building: "1", Number: "204a", Names: model.JSONArray{}, Floor: "2", Code: 205},
	}
	if diff := cmp.Diff(want, rooms); diff != "" {
		t.Errorf("LoadRoomsFile() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadRoomsFileYAML(t *testing.T) {
	content := `
- building: 1
  number: 110
  names_en: [Dean's office]
  floor: ground
  wing_en: main
  street_en: University Campus
  code: 7
- building: 2
  number: 5
`
	path := writeDataset(t, "rooms.yaml", content)

	rooms, err := LoadRoomsFile(path)
	require.NoError(t, err)
	require.Len(t, rooms, 2)
	require.Equal(t, "1_110", rooms[0].Key())
	require.Equal(t, "Dean's office", rooms[0].DisplayName())
	require.Equal(t, 7, rooms[0].Code)
	require.Equal(t, "Room 5", rooms[1].DisplayName())
}

func TestLoadRoomsFileErrors(t *testing.T) {
	_, err := LoadRoomsFile(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)

	path := writeDataset(t, "broken.json", `{"building": "1"`)
	_, err = LoadRoomsFile(path)
	require.Error(t, err)
}

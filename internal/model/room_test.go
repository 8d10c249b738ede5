package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoomRecordNames(t *testing.T) {
	room := RoomRecord{Building: "1", Number: "101", Names: JSONArray{"Lecture Hall", "Aula"}}
	assert.Equal(t, "1_101", room.Key())
	assert.Equal(t, "Lecture Hall", room.DisplayName())

	room.Names = nil
	assert.Equal(t, "Room 101", room.DisplayName())
}

func TestJSONArray(t *testing.T) {
	v, err := JSONArray{"Library"}.Value()
	require.NoError(t, err)
	assert.Equal(t, `["Library"]`, v)

	v, err = JSONArray(nil).Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	var names JSONArray
	require.NoError(t, names.Scan([]byte(`["A","B"]`)))
	assert.Equal(t, JSONArray{"A", "B"}, names)
	require.NoError(t, names.Scan(`["C"]`))
	assert.Equal(t, JSONArray{"C"}, names)
	require.NoError(t, names.Scan(nil))
	assert.Nil(t, names)
	assert.Error(t, names.Scan(42))
}

func TestNavigationDataJSON(t *testing.T) {
	room := &RoomRecord{Building: "1", Number: "101", Code: 7}

	b, err := json.Marshal(ChatResponse{Response: "ok", Data: NewRoomNavigationData(room, true)})
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"response": "ok",
		"data": {
			"nav_code": 7,
			"code": 7,
			"navigation_started": true,
			"navigation_json": null,
			"room_found": true,
			"room_data": {"building": "1", "number": "101", "names_en": null, "floor": "", "wing_en": "", "street_en": "", "code": 7}
		}
	}`, string(b))

	b, err = json.Marshal(ChatResponse{Response: "hi", SessionID: "s"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"response":"hi","session_id":"s","data":{"nav_code":null,"code":null,"navigation_started":false,"navigation_json":null,"room_found":false,"room_data":null}}`, string(b))
}

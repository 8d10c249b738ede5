package repository

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"poli-assistant/internal/model"

	"gopkg.in/yaml.v3"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// LoadRoomsFile reads the room dataset from a JSON or YAML file (chosen by extension).
// The file holds a list of objects with building, number, names_en, floor, wing_en,
// street_en and code. Scalars may be strings or numbers. Records without a building or
// number are dropped. Order is preserved.
func LoadRoomsFile(path string) ([]model.RoomRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset %s: %w", path, err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	var items []map[string]interface{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &items); err != nil {
			return nil, fmt.Errorf("failed to parse YAML dataset %s: %w", path, err)
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&items); err != nil {
			return nil, fmt.Errorf("failed to parse JSON dataset %s: %w", path, err)
		}
	}

	return decodeRoomItems(items), nil
}

// decodeRoomItems converts loosely typed dataset items into records
func decodeRoomItems(items []map[string]interface{}) []model.RoomRecord {
	rooms := make([]model.RoomRecord, 0, len(items))
	for _, item := range items {
		building := stringify(item["building"])
		number := stringify(item["number"])
		if building == "" || number == "" {
			continue
		}

		rooms = append(rooms, model.RoomRecord{
			Building: building,
			Number:   number,
			Names:    stringList(item["names_en"]),
			Floor:    stringify(item["floor"]),
			Wing:     stringify(item["wing_en"]),
			Street:   stringify(item["street_en"]),
			Code:     intValue(item["code"]),
		})
	}
	return rooms
}

func stringify(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case json.Number:
		return val.String()
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case uint64:
		return strconv.FormatUint(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return strings.TrimSpace(fmt.Sprint(val))
	}
}

func stringList(v interface{}) model.JSONArray {
	list, ok := v.([]interface{})
	if !ok {
		if s := stringify(v); s != "" {
			return model.JSONArray{s}
		}
		return nil
	}
	names := make(model.JSONArray, 0, len(list))
	for _, item := range list {
		if s := stringify(item); s != "" {
			names = append(names, s)
		}
	}
	return names
}

func intValue(v interface{}) int {
	switch val := v.(type) {
	case int:
		return val
	case int64:
		return int(val)
	case uint64:
		return int(val)
	case float64:
		return int(math.Round(val))
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return int(i)
		}
		if f, err := val.Float64(); err == nil {
			return int(math.Round(f))
		}
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(val)); err == nil {
			return i
		}
	}
	return 0
}

package utils

import (
	"encoding/json"
	"fmt"
	"strings"

	"gorm.io/datatypes"
)

// Frontends historically sent room updates with loosely-typed bodies and
// several spellings per field. Every accepted alias maps to exactly one
// canonical column here; anything else is rejected instead of silently
// merged.
var roomPatchAliases = map[string]string{
	"roomNumber":  "room_number",
	"room_number": "room_number",

	"type":      "room_type",
	"roomType":  "room_type",
	"room_type": "room_type",

	"capacity":     "capacity",
	"maxOccupancy": "capacity",

	"price":           "price_per_month",
	"pricePerMonth":   "price_per_month",
	"price_per_month": "price_per_month",

	"floor": "floor",

	"zone":     "zone",
	"building": "zone",

	"description": "description",
	"desc":        "description",

	"amenities": "amenities",

	"images":    "images",
	"imageUrls": "images",
}

// Lifecycle-owned columns are reachable only through the dedicated
// transition operations; a general update naming them is an error, not a
// no-op.
var roomPatchForbidden = map[string]bool{
	"status":                  true,
	"currentResidentId":       true,
	"current_resident_id":     true,
	"expectedMoveInDate":      true,
	"expected_move_in_date":   true,
	"expectedAvailableDate":   true,
	"expected_available_date": true,
	"dormId":                  true,
	"dorm_id":                 true,
	"id":                      true,
	"created_at":              true,
	"updated_at":              true,
	"deleted_at":              true,
}

type patchError struct {
	Field  string
	Reason string
}

func (e *patchError) Error() string {
	return fmt.Sprintf("invalid room patch field %q: %s", e.Field, e.Reason)
}

// NormalizeRoomPatch maps a raw JSON patch onto canonical column names,
// rejecting unknown keys, lifecycle-owned keys and badly-typed values.
func NormalizeRoomPatch(patch map[string]interface{}) (map[string]interface{}, error) {
	out := make(map[string]interface{}, len(patch))
	for key, value := range patch {
		if roomPatchForbidden[key] {
			return nil, &patchError{Field: key, Reason: "not updatable through this endpoint"}
		}
		column, ok := roomPatchAliases[key]
		if !ok {
			return nil, &patchError{Field: key, Reason: "unknown field"}
		}
		if _, dup := out[column]; dup {
			return nil, &patchError{Field: key, Reason: "duplicate of another alias in the same request"}
		}

		normalized, err := normalizeRoomPatchValue(key, column, value)
		if err != nil {
			return nil, err
		}
		out[column] = normalized
	}
	return out, nil
}

func normalizeRoomPatchValue(key, column string, value interface{}) (interface{}, error) {
	switch column {
	case "room_number", "room_type", "zone", "description":
		s, ok := value.(string)
		if !ok {
			return nil, &patchError{Field: key, Reason: "expected a string"}
		}
		s = strings.TrimSpace(s)
		if column == "room_number" && s == "" {
			return nil, &patchError{Field: key, Reason: "must not be empty"}
		}
		return s, nil

	case "capacity", "floor":
		n, ok := asInt(value)
		if !ok {
			return nil, &patchError{Field: key, Reason: "expected an integer"}
		}
		if column == "capacity" && n <= 0 {
			return nil, &patchError{Field: key, Reason: "must be positive"}
		}
		if column == "floor" && n < 1 {
			return nil, &patchError{Field: key, Reason: "must be >= 1"}
		}
		return n, nil

	case "price_per_month":
		f, ok := asFloat(value)
		if !ok {
			return nil, &patchError{Field: key, Reason: "expected a number"}
		}
		if f < 0 {
			return nil, &patchError{Field: key, Reason: "must not be negative"}
		}
		return f, nil

	case "amenities", "images":
		raw, err := json.Marshal(value)
		if err != nil {
			return nil, &patchError{Field: key, Reason: "not serializable"}
		}
		return datatypes.JSON(raw), nil
	}
	return nil, &patchError{Field: key, Reason: "unknown field"}
}

func asInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case float64:
		if n != float64(int(n)) {
			return 0, false
		}
		return int(n), true
	case int:
		return n, true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return int(i), true
	}
	return 0, false
}

func asFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

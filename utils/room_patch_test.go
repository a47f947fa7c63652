package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestNormalizeRoomPatchAliases(t *testing.T) {
	out, err := NormalizeRoomPatch(map[string]interface{}{
		"price":    float64(450),
		"building": "East Wing",
		"desc":     " quiet corner ",
		"type":     "Double",
		"floor":    float64(2),
	})
	require.NoError(t, err)

	assert.Equal(t, 450.0, out["price_per_month"])
	assert.Equal(t, "East Wing", out["zone"])
	assert.Equal(t, "quiet corner", out["description"])
	assert.Equal(t, "Double", out["room_type"])
	assert.Equal(t, 2, out["floor"])
}

func TestNormalizeRoomPatchRejectsLifecycleFields(t *testing.T) {
	for _, key := range []string{
		"status", "current_resident_id", "currentResidentId",
		"expectedMoveInDate", "expected_available_date",
		"dormId", "id", "deleted_at",
	} {
		_, err := NormalizeRoomPatch(map[string]interface{}{key: "x"})
		assert.Error(t, err, "key %q must be rejected", key)
	}
}

func TestNormalizeRoomPatchRejectsUnknownFields(t *testing.T) {
	_, err := NormalizeRoomPatch(map[string]interface{}{"wifiPassword": "hunter2"})
	assert.Error(t, err)
}

func TestNormalizeRoomPatchRejectsDuplicateAliases(t *testing.T) {
	_, err := NormalizeRoomPatch(map[string]interface{}{
		"price":         float64(100),
		"pricePerMonth": float64(200),
	})
	assert.Error(t, err)
}

func TestNormalizeRoomPatchTypeChecks(t *testing.T) {
	cases := []map[string]interface{}{
		{"price": "cheap"},
		{"price": float64(-5)},
		{"floor": 2.5},
		{"floor": float64(0)},
		{"capacity": float64(0)},
		{"roomNumber": ""},
		{"roomNumber": 101},
		{"description": 42},
	}
	for i, patch := range cases {
		_, err := NormalizeRoomPatch(patch)
		assert.Error(t, err, "case %d: %v", i, patch)
	}
}

func TestNormalizeRoomPatchJSONColumns(t *testing.T) {
	out, err := NormalizeRoomPatch(map[string]interface{}{
		"amenities": []interface{}{"wifi", "desk"},
		"imageUrls": []interface{}{"https://cdn.example/1.jpg"},
	})
	require.NoError(t, err)

	assert.Equal(t, datatypes.JSON(`["wifi","desk"]`), out["amenities"])
	assert.Equal(t, datatypes.JSON(`["https://cdn.example/1.jpg"]`), out["images"])
}

func TestNormalizeRoomPatchEmpty(t *testing.T) {
	out, err := NormalizeRoomPatch(map[string]interface{}{})
	require.NoError(t, err)
	assert.Empty(t, out)
}

package casing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestToSnakeCase(t *testing.T) {
	cases := map[string]string{
		"":          "",
		"name":      "name",
		"firstName": "first_name",
		"userID":    "user_i_d",
		"already_1": "already_1",
		"aB":        "a_b",
	}
	for in, want := range cases {
		assert.Equal(t, want, ToSnakeCase(in), "input %q", in)
	}
}

func TestToCamelCase(t *testing.T) {
	cases := map[string]string{
		"":           "",
		"name":       "name",
		"first_name": "firstName",
		"_x":         "X",
		"page_2":     "page2",
		"trailing_":  "trailing_",
	}
	for in, want := range cases {
		assert.Equal(t, want, ToCamelCase(in), "input %q", in)
	}
}

func TestConversionIsIdempotent(t *testing.T) {
	for _, s := range []string{"firstName", "createdAtUtc", "a", "ID"} {
		once := ToSnakeCase(s)
		assert.Equal(t, once, ToSnakeCase(once))
	}
	for _, s := range []string{"first_name", "created_at_utc", "a"} {
		once := ToCamelCase(s)
		assert.Equal(t, once, ToCamelCase(once))
	}
}

func TestRoundTrip(t *testing.T) {
	for _, s := range []string{"firstName", "userId2", "Name", "abc", "aBC9d"} {
		assert.Equal(t, s, ToCamelCase(ToSnakeCase(s)))
	}
}

func TestSnakeKeysNested(t *testing.T) {
	now := time.Now()
	in := map[string]any{
		"firstName": "Ada",
		"createdAt": now,
		"address": map[string]any{
			"streetName": "Main",
		},
		"tags": []any{
			map[string]any{"tagName": "x"},
			"plainValue",
			nil,
		},
	}

	got := SnakeKeys(in).(map[string]any)

	assert.Equal(t, "Ada", got["first_name"])
	assert.Equal(t, now, got["created_at"])
	assert.Equal(t, map[string]any{"street_name": "Main"}, got["address"])
	tags := got["tags"].([]any)
	assert.Equal(t, map[string]any{"tag_name": "x"}, tags[0])
	assert.Equal(t, "plainValue", tags[1])
	assert.Nil(t, tags[2])
}

func TestCamelKeysPassThrough(t *testing.T) {
	assert.Nil(t, CamelKeys(nil))
	assert.Equal(t, 42, CamelKeys(42))
	assert.Equal(t, "userId", CamelKeys("user_id"))
	assert.Equal(t, map[string]any{}, CamelKeys(map[string]any{}))
}

func TestCamelRows(t *testing.T) {
	rows := []map[string]any{{"user_id": 1, "display_name": "x"}}
	assert.Equal(t, []map[string]any{{"userId": 1, "displayName": "x"}}, CamelRows(rows))
	assert.Nil(t, CamelRows(nil))
}

package accounts

import (
	"encoding/json"
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"personmerge/internal/apperror"
	"personmerge/internal/merge"
)

const sample = `[
  {"application": 1, "emails": ["a@x.com", "b@x.com"], "name": "A"},
  {"application": 2, "emails": ["b@x.com", "c@x.com"], "name": "B"},
  {"application": 3, "emails": ["d@x.com"], "name": "C"}
]`

func numericID(n int64) ApplicationID {
	return ApplicationID(strconv.FormatInt(n, 10))
}

func stringID(s string) ApplicationID {
	b, _ := json.Marshal(s)
	return ApplicationID(b)
}

func TestDecode_Valid(t *testing.T) {
	got, err := Decode([]byte(sample))
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, numericID(1), got[0].Application)
	assert.Equal(t, []string{"a@x.com", "b@x.com"}, got[0].Emails)
	assert.Equal(t, "C", got[2].Name)
}

func TestDecode_EmptyArray(t *testing.T) {
	got, err := Decode([]byte(" [ ] "))
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = merge.Merge(got)
	assert.ErrorIs(t, err, apperror.ErrEmptyInput)
}

func TestDecode_InvalidShape(t *testing.T) {
	for _, in := range []string{``, `{}`, `"accounts"`, `42`, `null`, `[1, 2`, `{"accounts": []}`} {
		t.Run(in, func(t *testing.T) {
			got, err := Decode([]byte(in))
			assert.Nil(t, got)
			assert.ErrorIs(t, err, apperror.ErrInvalidInputShape)
		})
	}
}

func TestDecode_MalformedAccount(t *testing.T) {
	tests := []struct {
		name      string
		in        string
		wantField string
	}{
		{"record not an object", `[1]`, ""},
		{"null record", `[null]`, ""},
		{"missing emails", `[{"application": 1, "name": "A"}]`, "emails"},
		{"null emails", `[{"application": 1, "emails": null, "name": "A"}]`, "emails"},
		{"emails not array", `[{"application": 1, "emails": "a@x.com", "name": "A"}]`, "emails"},
		{"email not string", `[{"application": 1, "emails": [7], "name": "A"}]`, "emails"},
		{"null email", `[{"application": 1, "emails": [null], "name": "A"}]`, "emails"},
		{"missing application", `[{"emails": [], "name": "A"}]`, "application"},
		{"object application", `[{"application": {"id": 1}, "emails": [], "name": "A"}]`, "application"},
		{"null application", `[{"application": null, "emails": [], "name": "A"}]`, "application"},
		{"boolean application", `[{"application": true, "emails": [], "name": "A"}]`, "application"},
		{"missing name", `[{"application": 1, "emails": []}]`, "name"},
		{"numeric name", `[{"application": 1, "emails": [], "name": 5}]`, "name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode([]byte(tt.in))
			assert.Nil(t, got)
			require.ErrorIs(t, err, apperror.ErrMalformedAccount)
			var appErr *apperror.AppError
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, tt.wantField, appErr.Field)
		})
	}
}

func TestDecode_EmptyEmailsIsNotMissing(t *testing.T) {
	got, err := Decode([]byte(`[{"application": 1, "emails": [], "name": "A"}]`))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.NotNil(t, got[0].Emails)
	assert.Empty(t, got[0].Emails)
}

func TestApplicationID(t *testing.T) {
	tests := []struct {
		in      string
		want    ApplicationID
		display string
	}{
		{`1`, "1", "1"},
		{`1.0`, "1", "1"},
		{`1e2`, "100", "100"},
		{`2.5`, "2.5", "2.5"},
		{`"1"`, `"1"`, "1"},
		{`"app-7"`, `"app-7"`, "app-7"},
		{`9007199254740992`, "9007199254740992", "9007199254740992"},
		{`9007199254740992.0`, "9007199254740992", "9007199254740992"},
		{`9007199254740993`, "9007199254740992", "9007199254740992"},
		{`1e20`, "100000000000000000000", "100000000000000000000"},
		{`-0.0`, "0", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var id ApplicationID
			require.NoError(t, json.Unmarshal([]byte(tt.in), &id))
			assert.Equal(t, tt.want, id)
			assert.Equal(t, tt.display, id.String())

			out, err := json.Marshal(id)
			require.NoError(t, err)
			assert.Equal(t, string(tt.want), string(out))
		})
	}

	assert.NotEqual(t, numericID(1), stringID("1"))
}

func TestEncode(t *testing.T) {
	accounts, err := Decode([]byte(`[
		{"application": 1, "emails": ["a"], "name": "A"},
		{"application": "1", "emails": ["a"], "name": "B"},
		{"application": 2, "emails": [], "name": "C"}
	]`))
	require.NoError(t, err)

	persons, err := merge.Merge(accounts)
	require.NoError(t, err)

	out, err := Encode(persons)
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"applications": [1, "1"], "emails": ["a"], "name": "B"},
		{"applications": [2], "emails": [], "name": "C"}
	]`, string(out))
}

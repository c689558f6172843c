package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyVendorSentinelsTakePriority(t *testing.T) {
	tests := []struct {
		name string
		body string
		want Variant
	}{
		{
			"error envelope",
			`{"Error Message": "Invalid API call."}`,
			VariantVendorError,
		},
		{
			"info envelope",
			`{"Information": "Thank you for using Alpha Vantage!"}`,
			VariantVendorInfo,
		},
		{
			"rate limit note",
			`{"Note": "Our standard API rate limit is 25 requests per day."}`,
			VariantVendorNote,
		},
		{
			"time series envelope",
			`{"Meta Data": {}, "Time Series (Daily)": {"2026-08-28": {"4. close": "101.0"}}}`,
			VariantVendorSeries,
		},
		{
			"error wins over series",
			`{"Error Message": "boom", "Time Series (Daily)": {}}`,
			VariantVendorError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := Classify([]byte(tt.body))
			assert.Equal(t, tt.want, env.Kind)
		})
	}
}

func TestClassifyGenericShapes(t *testing.T) {
	t.Run("list", func(t *testing.T) {
		env := Classify([]byte(`[{"a": 1}, {"a": 2}]`))
		assert.Equal(t, VariantList, env.Kind)
		assert.Len(t, env.List, 2)
	})

	t.Run("dict with list uses first list value", func(t *testing.T) {
		env := Classify([]byte(`{"meta": {"page": 1}, "lines": [{"id": "x"}]}`))
		assert.Equal(t, VariantDictWithList, env.Kind)
		require.Len(t, env.List, 1)
		assert.Equal(t, "x", env.List[0]["id"])
	})

	t.Run("plain dict", func(t *testing.T) {
		env := Classify([]byte(`{"temperature": 21.5}`))
		assert.Equal(t, VariantDict, env.Kind)
		assert.Equal(t, 21.5, env.Object["temperature"])
	})

	t.Run("non-json falls back to raw text", func(t *testing.T) {
		env := Classify([]byte(`hello, not json`))
		assert.Equal(t, VariantRawText, env.Kind)
		assert.Equal(t, "hello, not json", env.RawText)
	})

	t.Run("scalar json falls back to raw text", func(t *testing.T) {
		env := Classify([]byte(`42`))
		assert.Equal(t, VariantRawText, env.Kind)
	})

	t.Run("list of scalars wraps values", func(t *testing.T) {
		env := Classify([]byte(`[1, 2]`))
		require.Equal(t, VariantList, env.Kind)
		require.Len(t, env.List, 2)
		assert.Equal(t, 1.0, env.List[0]["value"])
	})
}

func TestFlattenSeriesSortsDescending(t *testing.T) {
	env := Classify([]byte(`{
		"Time Series (Daily)": {
			"2026-08-26": {"1. open": "99.0", "2. high": "101.0", "3. low": "98.0", "4. close": "100.0", "5. volume": "1000"},
			"2026-08-28": {"1. open": "101.0", "2. high": "112.0", "3. low": "100.0", "4. close": "110.0", "5. volume": "3000"},
			"2026-08-27": {"1. open": "100.0", "2. high": "106.0", "3. low": "99.0", "4. close": "105.0", "5. volume": "2000"}
		}
	}`))
	require.Equal(t, VariantVendorSeries, env.Kind)

	table := FlattenSeries(env.Object)
	require.Len(t, table, 3)
	assert.Equal(t, "2026-08-28", table[0]["timestamp"])
	assert.Equal(t, "2026-08-27", table[1]["timestamp"])
	assert.Equal(t, "2026-08-26", table[2]["timestamp"])
	assert.Equal(t, 110.0, table[0]["close"])
	assert.Equal(t, int64(3000), table[0]["volume"])
}

func TestFlattenSeriesDefaultsMissingFieldsToZero(t *testing.T) {
	env := Classify([]byte(`{
		"Time Series (Daily)": {
			"2026-08-28": {"4. close": "garbage"},
			"2026-08-27": {"1. open": "100.0"}
		}
	}`))
	require.Equal(t, VariantVendorSeries, env.Kind)

	table := FlattenSeries(env.Object)
	require.Len(t, table, 2)
	assert.Equal(t, 0.0, table[0]["close"])
	assert.Equal(t, int64(0), table[0]["volume"])
	assert.Equal(t, 100.0, table[1]["open"])
	assert.Equal(t, 0.0, table[1]["close"])
}

func TestTableHelpers(t *testing.T) {
	table := Table{
		{"symbol": "HSBA.L", "close": 100.0},
		{"symbol": "BP.L"},
	}

	assert.False(t, table.Empty())
	assert.True(t, Table{}.Empty())
	assert.Equal(t, []any{100.0}, table.Column("close"))

	clone := table.Clone()
	clone[0]["symbol"] = "mutated"
	assert.Equal(t, "HSBA.L", table[0]["symbol"])
}

package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func catPtr(c Category) *Category { return &c }

func TestDecodeAttributes(t *testing.T) {
	t.Run("Weapon", func(t *testing.T) {
		attrs, err := DecodeAttributes(catPtr(CategoryWeapons), `{"tip":"knife","stare":"noua"}`)
		require.NoError(t, err)
		require.NotNil(t, attrs.Weapon)
		assert.Equal(t, "knife", attrs.Weapon.Tip)
		assert.Equal(t, "noua", attrs.Weapon.Stare)
		assert.Nil(t, attrs.Drug)
		assert.Nil(t, attrs.Exchange)
	})

	t.Run("DrugWithQuantity", func(t *testing.T) {
		attrs, err := DecodeAttributes(catPtr(CategoryDrugs), `{"tip":"weed","cantitate":250,"unitate":"g"}`)
		require.NoError(t, err)
		require.NotNil(t, attrs.Drug)
		require.NotNil(t, attrs.Drug.Cantitate)
		assert.Equal(t, 250.0, *attrs.Drug.Cantitate)
		assert.Equal(t, "g", attrs.Drug.Unitate)
	})

	t.Run("DrugWithoutQuantity", func(t *testing.T) {
		attrs, err := DecodeAttributes(catPtr(CategoryDrugs), `{"tip":"weed"}`)
		require.NoError(t, err)
		require.NotNil(t, attrs.Drug)
		assert.Nil(t, attrs.Drug.Cantitate)
	})

	t.Run("ExchangeTruncatesPercent", func(t *testing.T) {
		attrs, err := DecodeAttributes(catPtr(CategoryExchange), `{"actiune":"vinde","procent":12.9,"suma":50000}`)
		require.NoError(t, err)
		require.NotNil(t, attrs.Exchange)
		require.NotNil(t, attrs.Exchange.Procent)
		assert.Equal(t, int64(12), *attrs.Exchange.Procent)
		require.NotNil(t, attrs.Exchange.Suma)
		assert.Equal(t, 50000.0, *attrs.Exchange.Suma)
	})

	t.Run("WrongTypeFieldsIgnored", func(t *testing.T) {
		attrs, err := DecodeAttributes(catPtr(CategoryDrugs), `{"tip":7,"cantitate":"many"}`)
		require.NoError(t, err)
		require.NotNil(t, attrs.Drug)
		assert.Empty(t, attrs.Drug.Tip)
		assert.Nil(t, attrs.Drug.Cantitate)
	})

	t.Run("NilCategoryGoesGeneric", func(t *testing.T) {
		attrs, err := DecodeAttributes(nil, `{"foo":"bar","n":3}`)
		require.NoError(t, err)
		assert.Equal(t, "bar", attrs.Generic["foo"])
		assert.Nil(t, attrs.Weapon)
	})

	t.Run("EmptyBag", func(t *testing.T) {
		attrs, err := DecodeAttributes(catPtr(CategoryWeapons), "")
		require.NoError(t, err)
		assert.Nil(t, attrs.Weapon)
	})

	t.Run("MalformedJSON", func(t *testing.T) {
		_, err := DecodeAttributes(catPtr(CategoryWeapons), `{"tip":`)
		require.Error(t, err)
	})
}

func TestParseSort(t *testing.T) {
	assert.Equal(t, SortNewest, ParseSort(""))
	assert.Equal(t, SortNewest, ParseSort("bogus"))
	assert.Equal(t, SortCheapest, ParseSort("cheap"))
	assert.Equal(t, SortPriciest, ParseSort("expensive"))
	assert.Equal(t, SortAlphabetical, ParseSort("alpha"))
	assert.Equal(t, SortOldest, ParseSort("old"))
}

func TestValidCategory(t *testing.T) {
	assert.True(t, ValidCategory(CategoryWeapons))
	assert.True(t, ValidCategory(CategoryExchange))
	assert.False(t, ValidCategory(Category("imobiliare")))
}

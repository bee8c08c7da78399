package cli

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/Veraticus/networth/internal/model"
)

func TestBucketLabel(t *testing.T) {
	assert.Equal(t, "Tax-Deferred", BucketLabel(model.BucketTaxDeferred))
	assert.Equal(t, "ESPP", BucketLabel(model.BucketESPP))
	assert.Equal(t, "crypto", BucketLabel(model.Bucket("crypto")))
	for _, b := range model.AllBuckets {
		assert.NotEqual(t, string(b), BucketLabel(b), "every known bucket has a label")
	}
}

func TestFormatSigned(t *testing.T) {
	assert.Contains(t, FormatSigned(decimal.NewFromInt(150)), "$150.00")
	assert.Contains(t, FormatSigned(decimal.NewFromInt(-20)), "-$20.00")
	assert.Equal(t, "$0.00", FormatSigned(decimal.Zero))
}

func TestRenderBox(t *testing.T) {
	out := RenderBox("Totals", "Cash  $10.00")
	assert.Contains(t, out, "Totals")
	assert.Contains(t, out, "Cash  $10.00")
	assert.Contains(t, out, "╭")
}

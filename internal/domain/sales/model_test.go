package sales

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vistapos/internal/core/id"
	"vistapos/internal/core/types"
	"vistapos/internal/domain/catalogs/item"
)

func line(qty int, price, discount string) LineItem {
	return LineItem{
		ItemID:          id.New(),
		ItemType:        item.TypeProduct,
		ItemName:        "test item",
		Quantity:        qty,
		UnitPrice:       types.MustMoney(price),
		DiscountPercent: types.MustMoney(discount),
	}
}

func TestComputeSubtotal(t *testing.T) {
	tests := []struct {
		name     string
		qty      int
		price    string
		discount string
		want     string
	}{
		{"no discount", 2, "50.00", "0", "100.00"},
		{"ten percent off", 3, "10.00", "10", "27.00"},
		{"rounds to cents", 1, "9.99", "15", "8.49"},
		{"full discount", 5, "20.00", "100", "0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			li := line(tt.qty, tt.price, tt.discount)
			got := li.ComputeSubtotal()
			assert.True(t, got.Equal(types.MustMoney(tt.want)),
				"want %s, got %s", tt.want, got.String())
		})
	}
}

func TestComputeTotal_NumbersLinesAndSums(t *testing.T) {
	clientID := id.New()
	s := New(time.Now(), &clientID)
	s.Lines = []LineItem{
		line(2, "50.00", "0"),
		line(1, "25.50", "0"),
	}

	s.ComputeTotal()

	require.True(t, s.Total.Equal(types.MustMoney("125.50")))
	assert.Equal(t, 1, s.Lines[0].LineNumber)
	assert.Equal(t, 2, s.Lines[1].LineNumber)
}

func TestSaleValidate(t *testing.T) {
	ctx := context.Background()
	clientID := id.New()

	t.Run("requires line items", func(t *testing.T) {
		s := New(time.Now(), &clientID)
		assert.Error(t, s.Validate(ctx))
	})

	t.Run("deposit cannot exceed total", func(t *testing.T) {
		s := New(time.Now(), &clientID)
		s.Lines = []LineItem{line(1, "50.00", "0")}
		s.ComputeTotal()
		s.InitialDeposit = types.MustMoney("60.00")
		assert.Error(t, s.Validate(ctx))
	})

	t.Run("registered client may pay later", func(t *testing.T) {
		s := New(time.Now(), &clientID)
		s.Lines = []LineItem{line(1, "50.00", "0")}
		s.ComputeTotal()
		assert.NoError(t, s.Validate(ctx))
	})

	t.Run("walk-in must pay in full", func(t *testing.T) {
		s := New(time.Now(), nil)
		s.Lines = []LineItem{line(1, "50.00", "0")}
		s.ComputeTotal()
		s.InitialDeposit = types.MustMoney("20.00")
		assert.Error(t, s.Validate(ctx))

		s.InitialDeposit = types.MustMoney("50.00")
		assert.NoError(t, s.Validate(ctx))
	})

	t.Run("rejects out-of-range discount", func(t *testing.T) {
		s := New(time.Now(), &clientID)
		s.Lines = []LineItem{line(1, "50.00", "150")}
		s.ComputeTotal()
		assert.Error(t, s.Validate(ctx))
	})
}

func TestIsWalkIn(t *testing.T) {
	assert.True(t, New(time.Now(), nil).IsWalkIn())

	nilID := id.Nil()
	assert.True(t, New(time.Now(), &nilID).IsWalkIn())

	clientID := id.New()
	assert.False(t, New(time.Now(), &clientID).IsWalkIn())
}

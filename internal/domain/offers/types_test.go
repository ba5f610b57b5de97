package offers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeMins(t *testing.T) {
	o := Offer{
		Details: []OfferDetail{
			{OfferType: TypeBasic, Price: 50, DeliveryTimeInDays: 3},
			{OfferType: TypeStandard, Price: 100, DeliveryTimeInDays: 5},
			{OfferType: TypePremium, Price: 200, DeliveryTimeInDays: 2},
		},
	}

	o.ComputeMins()

	require.NotNil(t, o.MinPrice)
	require.NotNil(t, o.MinDeliveryTime)
	assert.Equal(t, 50.0, *o.MinPrice)
	assert.Equal(t, 2, *o.MinDeliveryTime)
}

func TestComputeMinsNoDetails(t *testing.T) {
	var o Offer
	o.ComputeMins()

	assert.Nil(t, o.MinPrice)
	assert.Nil(t, o.MinDeliveryTime)
}

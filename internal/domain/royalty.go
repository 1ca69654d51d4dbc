package domain

// Artist royalties apply on the first two resales of a ticket only.
const royaltyResaleLimit = 2

// RoyaltySplit divides a sale price between seller, platform and artist.
// The three parts always sum exactly to the price.
type RoyaltySplit struct {
	SellerProceeds int64
	PlatformFee    int64
	ArtistRoyalty  int64
}

// SplitRoyalties computes the distribution for a resale fill. Percentages use
// integer floor division; the remainder stays with the seller so the split
// sums to price without rounding leakage. resaleCount is the count before the
// fill being settled.
func SplitRoyalties(price int64, platformPct, artistPct, resaleCount int) RoyaltySplit {
	platformFee := price * int64(platformPct) / 100

	var artistRoyalty int64
	if resaleCount < royaltyResaleLimit {
		artistRoyalty = price * int64(artistPct) / 100
	}

	return RoyaltySplit{
		SellerProceeds: price - platformFee - artistRoyalty,
		PlatformFee:    platformFee,
		ArtistRoyalty:  artistRoyalty,
	}
}

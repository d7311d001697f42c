package model

const (
	LoyaltyTierBronze   = "bronze"
	LoyaltyTierSilver   = "silver"
	LoyaltyTierGold     = "gold"
	LoyaltyTierPlatinum = "platinum"
)

var loyaltyTiers = []struct {
	minStays int
	name     string
}{
	{20, LoyaltyTierPlatinum},
	{10, LoyaltyTierGold},
	{5, LoyaltyTierSilver},
	{0, LoyaltyTierBronze},
}

// LoyaltyTierFor maps the number of completed stays to a tier name.
func LoyaltyTierFor(completedStays int) string {
	for _, tier := range loyaltyTiers {
		if completedStays >= tier.minStays {
			return tier.name
		}
	}

	return LoyaltyTierBronze
}

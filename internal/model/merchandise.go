package model

// Merchandise is a purchasable article with an independent
// points-redemption price. Stock is decremented only at successful
// checkout, never when an item sits in a cart. Cash purchases earn
// RewardPointsPerUnit per unit; redeemed units earn nothing.
//
// Fields:
//  ID                  – primary key identifier.
//  Name                – article name.
//  UnitPrice           – net price per unit in currency units.
//  StockQuantity       – remaining units available.
//  RewardPointsPerUnit – points earned per unit on cash purchase.
//  PointsPrice         – points cost per unit when redeeming.
//  PointsRedeemable    – whether redemption with points is offered.
type Merchandise struct {
	ID                  uint64  // merchandise.id
	Name                string  // merchandise.name
	UnitPrice           float64 // merchandise.unit_price
	StockQuantity       uint32  // merchandise.stock_quantity
	RewardPointsPerUnit int64   // merchandise.reward_points_per_unit
	PointsPrice         int64   // merchandise.points_price
	PointsRedeemable    bool    // merchandise.points_redeemable
}

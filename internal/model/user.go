package model

import "time"

// User represents an application user record as stored in the `users`
// table. Besides identity, the row carries the two counters that the
// order engine maintains: the reward point balance and the cumulative
// amount spent in cents. Both counters are mutated exclusively by
// checkout/purchase; crediting a ticket does not reverse them.
//
// Fields:
//  ID              – primary key identifier of the user.
//  Email           – unique email address.
//  PasswordHash    – bcrypt hashed password.
//  FirstName       – given name.
//  LastName        – family name.
//  RewardPoints    – current reward point balance.
//  TotalCentsSpent – cumulative gross spend in cents.
//  CreatedAt       – timestamp of creation.
type User struct {
	ID              uint64    // users.id
	Email           string    // users.email
	PasswordHash    string    // users.password_hash
	FirstName       string    // users.first_name
	LastName        string    // users.last_name
	RewardPoints    int64     // users.reward_points
	TotalCentsSpent int64     // users.total_cents_spent
	CreatedAt       time.Time // users.created_at
}

// RegularCustomer reports whether the user qualifies for points
// redemption. A customer qualifies once they have a purchase history,
// i.e. a non-zero cumulative spend.
func (u *User) RegularCustomer() bool { return u.TotalCentsSpent > 0 }

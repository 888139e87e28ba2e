package model

import "time"

// Receipt records a single trip purchase.  A receipt belongs to
// exactly one user (receipts.user_id is unique and references
// users.id with ON DELETE CASCADE), so removing a user also removes
// their receipt.  Receipts are immutable after allocation; there is
// no update path.
//
// Fields:
//  ID          – primary key identifier.
//  UserID      – owning user (one receipt per user).
//  FromStation – origin label as submitted.
//  ToStation   – destination label as submitted.
//  Price       – price paid, DECIMAL(10,2) in the database.
//  CreatedAt   – timestamp of creation.
type Receipt struct {
    ID          uint64    // receipts.id
    UserID      uint64    // receipts.user_id
    FromStation string    // receipts.from_station
    ToStation   string    // receipts.to_station
    Price       float64   // receipts.price
    CreatedAt   time.Time // receipts.created_at
}

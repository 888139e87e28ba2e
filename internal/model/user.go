package model

import "time"

// User represents a passenger who has submitted a receipt and holds a
// seat.  Each field corresponds to a column in the `users` table.
// Email is unique and acts as the natural dedup key: one active
// reservation per email.  A user never exists without a seat; the
// allocation engine assigns SeatNumber and Section when the row is
// created.
//
// Fields:
//  ID         – primary key identifier.
//  FirstName  – passenger first name.
//  LastName   – passenger last name.
//  Email      – unique email address.
//  SeatNumber – seat currently assigned to the passenger.
//  Section    – section derived from SeatNumber (SECTION_A/SECTION_B).
//  CreatedAt  – timestamp of creation.
//  UpdatedAt  – timestamp of last update (seat changes).
type User struct {
    ID         uint64    // users.id
    FirstName  string    // users.first_name
    LastName   string    // users.last_name
    Email      string    // users.email
    SeatNumber int       // users.seat_number
    Section    Section   // users.section
    CreatedAt  time.Time // users.created_at
    UpdatedAt  time.Time // users.updated_at
}

package model

import "time"

// User represents an application user record as stored in the `users`
// table. Each field corresponds to a column in the database. Handlers
// define separate response types with JSON tags; this struct is used
// internally by the repository and auth layers.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Email        – unique email address, stored lowercase.
//  PasswordHash – bcrypt hashed password.
//  FirstName    – given name supplied at registration.
//  LastName     – family name supplied at registration.
//  Role         – role name (USER, MODERATOR or ADMIN).
//  Enabled      – whether the account may log in.
//  ConfirmCode  – optional pending email-confirmation code (null once used).
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    // users.id
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	FirstName    string    // users.first_name
	LastName     string    // users.last_name
	Role         string    // users.role
	Enabled      bool      // users.enabled
	ConfirmCode  *string   // users.confirm_code (nullable)
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}

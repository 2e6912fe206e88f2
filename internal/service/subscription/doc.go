// Package subscription implements sign-up and advanced track opt-in.
//
// The service layer depends on the Store and Registrar interfaces defined
// in repository.go. It never imports net/http or database/sql directly.
package subscription

package model

import "time"

// Restaurant represents a venue that owns tables and an opening-hours
// calendar.  The address is stored as discrete typed columns rather
// than a free-form blob so it can be validated at the boundary.
//
// Fields:
//  ID         – primary key identifier.
//  Name       – display name of the restaurant.
//  Address    – structured postal address.
//  CalendarID – calendar holding the opening hours; nil until assigned.
//  Active     – whether the restaurant currently accepts orders.
//  CreatedAt  – creation timestamp.
//  UpdatedAt  – last update timestamp.
type Restaurant struct {
	ID         uint64    // restaurants.id
	Name       string    // restaurants.name
	Address    Address   // restaurants.street .. restaurants.postal_code
	CalendarID *uint64   // restaurants.calendar_id (nullable)
	Active     bool      // restaurants.active
	CreatedAt  time.Time // restaurants.created_at
	UpdatedAt  time.Time // restaurants.updated_at
}

// Address groups the postal address columns of a restaurant.
type Address struct {
	Street     string `json:"street"`
	Number     string `json:"number"`
	City       string `json:"city"`
	Province   string `json:"province"`
	Country    string `json:"country"`
	PostalCode string `json:"postal_code"`
}

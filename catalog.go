// Package catalog scrapes e-commerce product catalogs into spreadsheets.
// It paginates a listing, visits every product detail page, extracts the
// shared product fields and its purchasable variants, and appends one row
// per product-variant to one or more row sinks.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, excelize/, sqlite/).
package catalog

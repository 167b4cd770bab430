// Package listings manages vendor listings: a vendor's priced offering of a catalog item.
//
// Only approved merchants (and admins) create listings, and a listing can only be
// changed by its owner or an admin.
package listings

// Package catalog manages the shared ingredient catalog.
//
// Catalog items are the de-duplicated ingredient entries that vendor listings
// and recipes point at. Names are matched on their normalized form, so
// "Green  Onion" and "green onion" resolve to the same item. Admins can merge a
// duplicate into its canonical item, which repoints every listing and recipe
// that referenced the duplicate in a single transaction.
package catalog

// Package bill defines the core domain model for the split allocation engine.
//
// # Models
//
//   - Bill: a single-currency bill with items, tax, tip, and discount
//   - Item: a line item with a unit price, quantity, and its splits
//   - UnitItem: a quantity-1 slice of a multi-quantity Item (engine-internal)
//   - ItemSplit: one participant's allocated portion of an item
//   - Participant: a roster entry, referenced by id only
//   - AllocationResult: the per-participant outcome of aggregating a bill
//
// # Ownership
//
// A Bill exclusively owns its Items; an Item exclusively owns its ItemSplits.
// Participants are referenced by user id only; the roster lives with the
// caller's membership collaborator, and the engine never stores it.
//
// # Money
//
// Every monetary field is a money.Money (integer minor units). Percentages
// are float64 ratios; whenever a percentage turns into an amount it passes
// through money.Distribute so cents are conserved exactly.
//
// # Invariants
//
//  1. Bill total = Σ item.NetPrice() − Bill.Discount + Tax + Tip, where an
//     item's gross price is LineTotal when set and Price·Quantity otherwise.
//  2. For a balanced item, Σ ItemSplit.Amount == item net price, to the cent.
//  3. Negative prices, discounts, and quantities are programmer errors and are
//     rejected by the constructors; everything user-reachable is a Status value.
package bill

// Package models defines the core domain models for the expense ledger.
//
// # Models
//
//   - Group: a named set of members who share expenses
//   - Expense: one shared expense with its per-member obligations
//   - Obligation: one member's share of one expense
//   - Settlement: a snapshot event that zeroes a group's balances
//   - BalanceSheet / GroupSummary: derived views, never stored
//
// Members are identified by case-normalized email strings; there is no
// independent member lifecycle beyond group membership.
//
// # Design Principles
//
//  1. **Append-only money records**: expenses and settlements are immutable
//     once created; views are recomputed, never cached.
//  2. **Exact arithmetic**: every amount is a money.Money (integer minor
//     units), never a raw float.
//  3. **Avoid circular references**: relationships use ID strings instead of
//     pointers.
package models

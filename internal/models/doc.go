// Package models defines the core domain models for the village budget
// tracker.
//
// The ownership chain is strict one-to-many with cascading deletion:
//
//	Village -> Budget -> BudgetCategory -> Expense
//
// Deleting a village removes every descendant row. A row's "village
// affiliation" is found by walking this chain upward; the policy
// package does that walk in one place.
//
// # Design Principles
//
//  1. Relationships are ID strings, never pointers, to avoid circular
//     references.
//  2. Money fields are money.Amount (exact fixed point), never float64.
//  3. Role is a closed enumeration; every authorization decision
//     matches on it exhaustively.
package models

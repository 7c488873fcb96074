// Package lynch normalizes fundamental stock data from several providers into
// one canonical metric record per symbol and quarter, and scores those records
// against six Peter Lynch style investment categories.
//
// The processing is a pipeline of pure functions:
//   - Field resolution: each provider names the same figure differently. The
//     alias table maps every canonical Field to the provider keys (or JSONPath
//     expressions for nested payloads) that can fill it, in priority order.
//   - Derivation: ratios such as debtToAssets or cashPerShare are computed from
//     resolved operands when no provider supplies them. An absent operand
//     yields an absent result, never a zero.
//   - Growth: year over year and quarter over quarter growth rates, and the
//     SG&A trend, are computed from the stored history of the symbol.
//   - Reconciliation: the Reconciler runs the steps above over the raw records
//     of all providers and reports the required fields it could not fill.
//   - Classification: the Classifier scores a Record against the rule set of
//     each Category and reports the best fit, ties included.
//
// Values are never defaulted: a missing figure is absent from Record.Values and
// listed in Record.Missing. Classification treats it as an unsatisfied rule.
//
// This package serves as the foundational logic for the `lynch` command-line
// tool. Provider adapters, the document store and ingestion live in
// sub-packages.
package lynch

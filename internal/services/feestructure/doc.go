/*
Package feestructure administers fee structures: creation with rules and
tiers, full rule replacement on update, guarded deletion, merchant
assignment and volume tier maintenance.

Errors returned are *errors.DomainError for validation, not-found and
conflict cases, and wrapped *errors.StoreError for store failures.

Update replaces the rule set; it does not merge. Rules that fail validation
are skipped and listed in UpdateResult.SkippedRules.
*/
package feestructure

/*
Package fee computes per-transaction fees from a merchant's fee structure.

A calculation resolves the merchant's structure (or the built-in default),
loads its rules and, for volume-based structures, its volume tiers and the
merchant's month-to-date completed volume. Rates are then resolved in order:

  - base pass: unconditioned rules set the percentage and fixed components
  - tier override: the first tier containing the monthly volume replaces them
  - conditional pass: transaction type and amount conditions apply overrides

The total is percentage_amount + fixed, clamped to the structure's minimum
and then maximum fee.

Usage:

	calc := fee.NewCalculator(structures, transactions, cache, fee.CalculatorConfig{}, metrics, logger)
	breakdown := calc.Calculate(ctx, fee.CalculationRequest{
	    MerchantID:      42,
	    Amount:          decimal.NewFromInt(100),
	    TransactionType: "purchase",
	})

Calculate never fails. Any store error is logged and turned into the default
breakdown with its Error field set.
*/
package fee

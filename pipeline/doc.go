// Package pipeline runs the full disaggregation: method selection and
// splitting per country, regional imputation of the gaps, and the final
// rollup tables, stamped with a run ID and generation time.
//
// 🚀 Shape of a run:
//
//	ds, _ := burden.NewDataset(inputs)
//	res, err := pipeline.Run(ctx, ds,
//	    pipeline.WithWorkers(8),
//	    pipeline.WithLogger(logger),
//	)
//
// Countries are embarrassingly parallel: each splitter invocation reads
// only the shared read-only dataset and writes only its own result slot,
// so the per-country map runs on an errgroup with a worker limit and no
// locking. The only serialization points are the final concatenation
// (deterministic: input country order), the imputation pass, and the
// rollup.
//
// ⚙️ Failure model:
//
//   - A splitter error for one country is isolated: logged, recorded as
//     a fallback warning, and the country is routed to the regional
//     imputer. The run continues.
//   - A region with no imputation donors, or a broken reference table,
//     is a configuration error and fails the run.
//   - Data-quality findings (implausible CFRs, reconciliation
//     discrepancies) are returned as burden.Warning values and logged;
//     they never abort processing.
//
// Tuning knobs (prior strength, floors, thresholds, workers) come from
// functional options, or from a YAML file via LoadConfig for callers
// that keep engine tuning in configuration.
package pipeline

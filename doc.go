// Package stratify disaggregates national epidemiological burden
// estimates (mortality by HIV status) into age/sex strata for every
// country in a global surveillance dataset, and rolls the strata back up
// into country, WHO-region and global summary tables.
//
// 🚀 What is stratify?
//
//	A deterministic, library-level estimation engine that brings together:
//		• Two per-country splitting methods, selected automatically:
//		  vital-registration death shares, or notifications × case fatality
//		• Prior-informed correction of sparse child/adult splits
//		• Exact propagation of aggregate uncertainty into strata
//		• Population-weighted regional imputation for data-less countries
//		• Multi-granularity rollups with reconciliation checks
//
// ✨ Why choose stratify?
//
//   - Deterministic – fixed grid order, reproducible tables run to run
//   - Concurrent – countries split in parallel with no shared mutation
//   - Honest about data quality – structured warnings, never silent drops
//   - Library-only – no CLI, network or file formats; callers own I/O
//
// Everything is organized under flat subpackages, leaves first:
//
//	burden/      — data model, canonical grid, validated keyed dataset
//	prior/       — child-prior correction of stratification patterns
//	uncertainty/ — aggregate→stratum standard-error propagation
//	split/       — VR and CFR splitters + per-country method selection
//	impute/      — WHO-region population-weighted imputation
//	rollup/      — country/region/global tables at four granularities
//	pipeline/    — the parallel end-to-end run, config and logging
//
// Quick start:
//
//	ds, err := burden.NewDataset(inputs)
//	if err != nil { ... }
//	res, err := pipeline.Run(ctx, ds, pipeline.WithWorkers(8))
//	if err != nil { ... }
//	export(res.Stratified, res.Rollups, res.Warnings)
//
// See each subpackage's doc.go for algorithms, invariants and options.
package stratify

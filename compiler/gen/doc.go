// Package gen assembles, renders and writes the PHP classes of nabu-3
// storages.
//
// # Architecture
//
// The generation pipeline follows this flow:
//
//	Entity (load manifest or CLI flags)
//	        ↓
//	   schema.Describer (live database or snapshot)
//	        ↓
//	   classify.ClassifyWithSiblings
//	        ↓
//	   Units: table class, list class, XML adapters, translation classes
//	        ↓
//	   Assembler → fragment.Document
//	        ↓
//	   render.PHP / render.JSON → Writer
//
// # Key Types
//
//   - Entity: table, namespace, class and label of a generated class
//   - Unit: one class to assemble and the descriptor it is built from
//   - Assembler: builds the fragment tree of a Unit
//   - Generator: runs entities on a bounded worker pool
//   - Writer: maps namespaces to directories and skips unchanged files
//   - Report: written, unchanged and failed classes of a run
//
// # Failure isolation
//
// Every class is an independent unit of work. A descriptor that cannot be
// fetched or classified, or a class that cannot be rendered or written, is
// recorded in the Report as a GenerationError naming the class and the
// phase that failed; the remaining classes are still generated.
//
// # Example
//
//	g, err := gen.NewGenerator(describer,
//		gen.WithTarget("src"),
//		gen.WithSchema("nabu-3"),
//		gen.WithAuthor("Rafael Gutierrez", "rgutierrez@nabu-3.com"),
//	)
//	if err != nil {
//		return err
//	}
//	report, err := g.Generate(ctx, gen.Entity{
//		Table:     "nb_site",
//		Namespace: `nabu\data\site\base`,
//		Class:     "CNabuSiteBase",
//		Label:     "Site",
//		Abstract:  true,
//	})
package gen

// Package schema models the storage metadata the generator works from.
//
// A [Descriptor] captures one table: its ordered fields, the primary
// constraint and every secondary constraint. Descriptors are produced by a
// [Describer] (a live database, an atlas inspector or an offline snapshot)
// and are treated as immutable once returned.
//
// The predicates on [Descriptor] are the only way the classifier and the
// assembler look at a table, so alternative describers only need to fill
// the struct correctly:
//
//	desc, err := describer.Describe(ctx, "nb_site", "nabu-3")
//	if err != nil {
//	    return err
//	}
//	if desc.HasPrimaryConstraintField("nb_customer_id", 1) {
//	    // structural child of nb_customer
//	}
//
// The same structure is written next to every generated class as a JSON
// sidecar (see [MarshalSidecar]) so the runtime can introspect the storage
// without querying the database.
//
// [Cached] memoizes a describer in an sdk.Cache for repeated lookups of the
// same table within one run.
package schema

// Package procdef defines, verifies and instantiates process definitions.
//
// A definition is a composite step owning a graph of child steps: inline
// atomic or composite steps, control steps (splits, joins and loops) and
// slots referencing shared, versioned definitions. Collections attached to a
// definition describe the items it depends on and contribute derived
// properties to its steps.
//
// Typical use goes through the Service façade:
//
//	srv, _ := procdef.New(ctx)
//	def, _ := srv.LoadDefinition(ctx, "order.yaml")
//	if ok, errs := srv.Verify(ctx, def); !ok {
//		return errors.Join(errs...)
//	}
//	_, _ = srv.SaveDefinition(ctx, def)
//	process, _ := srv.CreateProcess(ctx, def.Name, nil)
//
// Definitions and resources are kept in a record store: in memory, on any afs
// supported file system or in PostgreSQL, selected by Config.Store.
package procdef

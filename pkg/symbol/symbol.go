package symbol

// String returns the name of id if it is present in table.  String otherwise
// returns a diagnostic string describing id.
func String(id ID, table Table) string {
	s, _ := ResolveUnknown(defaultUnknownResolverFormat, table).Symbol(id)
	return s
}

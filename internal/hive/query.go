package hive

// TheHive's query language tags every stage with a "_name" discriminator.
// The helpers below wrap caller-supplied maps with the right tag without
// mutating the input.

func tagged(name string, fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields)+1)
	out["_name"] = name
	for k, v := range fields {
		out[k] = v
	}
	return out
}

// listQuery assembles a find query: root stage plus optional filter, sort
// and page stages, in that order.
func listQuery(root map[string]any, filters, sortby, paginate map[string]any) []map[string]any {
	stages := []map[string]any{root}
	if len(filters) > 0 {
		stages = append(stages, tagged("filter", filters))
	}
	if len(sortby) > 0 {
		stages = append(stages, tagged("sort", sortby))
	}
	if len(paginate) > 0 {
		stages = append(stages, tagged("page", paginate))
	}
	return stages
}

// countQuery assembles a count query: root stage, optional filter stage,
// terminal count stage.
func countQuery(root map[string]any, filters map[string]any) []map[string]any {
	stages := []map[string]any{root}
	if len(filters) > 0 {
		stages = append(stages, tagged("filter", filters))
	}
	return append(stages, map[string]any{"_name": "count"})
}
